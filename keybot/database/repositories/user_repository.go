package repositories

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/disgoorg/keybot/keybot/config"
	"github.com/disgoorg/keybot/keybot/database/models"
	"github.com/uptrace/bun"
)

type UserRepository interface {
	GetOrCreate(ctx context.Context, username string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	Count(ctx context.Context) (int, error)
}

type userRepository struct {
	*BaseRepository
}

func NewUserRepository(db *bun.DB) UserRepository {
	return &userRepository{BaseRepository: NewBaseRepository(db)}
}

func (r *userRepository) GetOrCreate(ctx context.Context, username string) (*models.User, error) {
	var user *models.User
	err := r.Transaction(ctx, func(ctx context.Context, tx bun.Tx) error {
		var err error
		user, err = getOrCreateUser(ctx, tx, username)
		return err
	})
	if err != nil {
		return nil, r.HandleError("get_or_create", "user", err)
	}
	return user, nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	user := new(models.User)
	err := r.db.NewSelect().
		Model(user).
		Where("username = ?", username).
		Scan(ctx)
	if err != nil {
		return nil, r.HandleError("get_by_username", "user", err)
	}
	return user, nil
}

func (r *userRepository) Count(ctx context.Context) (int, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	count, err := r.db.NewSelect().Model((*models.User)(nil)).Count(ctx)
	return count, r.HandleError("count", "user", err)
}

// getOrCreateUser returns the row for username, inserting it when missing.
// A concurrent insert of the same name turns the insert into a no-op and the
// next select picks the winner's row.
func getOrCreateUser(ctx context.Context, db bun.IDB, username string) (*models.User, error) {
	for attempt := 0; attempt < config.GetOrCreateRetries; attempt++ {
		user := new(models.User)
		err := db.NewSelect().
			Model(user).
			Where("username = ?", username).
			Scan(ctx)
		if err == nil {
			return user, nil
		}
		if !isNoRows(err) {
			return nil, err
		}

		res, err := db.NewInsert().
			Model(&models.User{Username: username}).
			On("CONFLICT (username) DO NOTHING").
			Returning("NULL").
			Exec(ctx)
		if err != nil {
			return nil, err
		}
		if n, _ := res.RowsAffected(); n > 0 {
			slog.Debug("User created",
				slog.String("type", "db"),
				slog.String("operation", "get_or_create"),
				slog.String("user_name", username))
		}
	}
	return nil, fmt.Errorf("user %q could not be resolved after %d attempts", username, config.GetOrCreateRetries)
}
