package repositories

import (
	"context"

	"github.com/disgoorg/keybot/internal/domain/giveaway"
	"github.com/disgoorg/keybot/keybot/database/models"
	"github.com/uptrace/bun"
)

type ConfigRepository interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	All(ctx context.Context) (map[string]string, error)
}

type configRepository struct {
	*BaseRepository
}

func NewConfigRepository(db *bun.DB) ConfigRepository {
	return &configRepository{BaseRepository: NewBaseRepository(db)}
}

func (r *configRepository) Get(ctx context.Context, key string) (string, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	entry := new(models.ConfigEntry)
	err := r.db.NewSelect().
		Model(entry).
		Where("? = ?", bun.Ident("key"), key).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return "", giveaway.ErrConfigNotFound
		}
		return "", r.HandleError("get", "config", err)
	}
	return entry.Value, nil
}

// Set writes key, replacing any previous value.
func (r *configRepository) Set(ctx context.Context, key, value string) error {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	_, err := r.db.NewInsert().
		Model(&models.ConfigEntry{Key: key, Value: value}).
		On(`CONFLICT ("key") DO UPDATE`).
		Set("value = EXCLUDED.value").
		Exec(ctx)
	return r.HandleError("set", "config", err)
}

func (r *configRepository) All(ctx context.Context) (map[string]string, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	var entries []models.ConfigEntry
	if err := r.db.NewSelect().Model(&entries).Scan(ctx); err != nil {
		return nil, r.HandleError("all", "config", err)
	}

	out := make(map[string]string, len(entries))
	for _, e := range entries {
		out[e.Key] = e.Value
	}
	return out, nil
}
