package repositories

import (
	"context"
	"time"

	"github.com/disgoorg/keybot/internal/domain/giveaway"
	"github.com/disgoorg/keybot/internal/domain/logger"
	"github.com/disgoorg/keybot/keybot/database"
	"github.com/disgoorg/keybot/keybot/database/models"
	"github.com/uptrace/bun"
)

type RoundRepository interface {
	Create(ctx context.Context, startedAt time.Time) (*models.GiveawayRound, error)
	Complete(ctx context.Context, roundID int64, endedAt time.Time) (*models.GiveawayRound, error)
	Active(ctx context.Context) (*models.GiveawayRound, error)
	GetByID(ctx context.Context, roundID int64) (*models.GiveawayRound, error)
}

type roundRepository struct {
	*BaseRepository
}

func NewRoundRepository(db *bun.DB) RoundRepository {
	return &roundRepository{BaseRepository: NewBaseRepository(db)}
}

// Create opens a new active round. The partial unique index on status backs
// up the in-transaction check when two starts race.
func (r *roundRepository) Create(ctx context.Context, startedAt time.Time) (*models.GiveawayRound, error) {
	ql := logger.NewQueryLogger("create", "giveaway_round")

	round := &models.GiveawayRound{
		Status:    models.RoundStatusActive,
		StartedAt: startedAt,
	}
	err := r.Transaction(ctx, func(ctx context.Context, tx bun.Tx) error {
		exists, err := tx.NewSelect().
			Model((*models.GiveawayRound)(nil)).
			Where("status = ?", models.RoundStatusActive).
			Exists(ctx)
		if err != nil {
			return err
		}
		if exists {
			return giveaway.ErrRoundConflict
		}

		_, err = tx.NewInsert().Model(round).Exec(ctx)
		if database.IsUniqueViolation(err) {
			return giveaway.ErrRoundConflict
		}
		return err
	})
	if err != nil {
		if giveaway.IsDomainError(err) {
			ql.Reject(err)
		} else {
			ql.Log(err, 0)
		}
		return nil, r.HandleError("create", "giveaway_round", err)
	}

	ql.Log(nil, 1)
	return round, nil
}

func (r *roundRepository) Complete(ctx context.Context, roundID int64, endedAt time.Time) (*models.GiveawayRound, error) {
	ql := logger.NewQueryLogger("complete", "giveaway_round")

	round := new(models.GiveawayRound)
	err := r.Transaction(ctx, func(ctx context.Context, tx bun.Tx) error {
		q := tx.NewSelect().
			Model(round).
			Where("round_id = ?", roundID)
		if r.postgres() {
			q = q.For("UPDATE")
		}
		if err := q.Scan(ctx); err != nil {
			if isNoRows(err) {
				return giveaway.ErrRoundNotFound
			}
			return err
		}
		if round.Status == models.RoundStatusCompleted {
			return giveaway.ErrRoundAlreadyCompleted
		}

		if endedAt.Before(round.StartedAt) {
			endedAt = round.StartedAt
		}
		round.Status = models.RoundStatusCompleted
		round.EndedAt = endedAt

		_, err := tx.NewUpdate().
			Model(round).
			Column("status", "ended_at").
			WherePK().
			Exec(ctx)
		return err
	})
	if err != nil {
		if giveaway.IsDomainError(err) {
			ql.Reject(err)
		} else {
			ql.Log(err, 0)
		}
		return nil, r.HandleError("complete", "giveaway_round", err)
	}

	ql.Log(nil, 1)
	return round, nil
}

func (r *roundRepository) Active(ctx context.Context) (*models.GiveawayRound, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	round := new(models.GiveawayRound)
	err := r.db.NewSelect().
		Model(round).
		Where("status = ?", models.RoundStatusActive).
		OrderExpr("round_id DESC").
		Limit(1).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, giveaway.ErrNoActiveRound
		}
		return nil, r.HandleError("active", "giveaway_round", err)
	}
	return round, nil
}

func (r *roundRepository) GetByID(ctx context.Context, roundID int64) (*models.GiveawayRound, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	round := new(models.GiveawayRound)
	err := r.db.NewSelect().
		Model(round).
		Where("round_id = ?", roundID).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, giveaway.ErrRoundNotFound
		}
		return nil, r.HandleError("get_by_id", "giveaway_round", err)
	}
	return round, nil
}
