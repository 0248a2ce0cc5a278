package repositories

import (
	"context"
	"log/slog"
	"time"

	"github.com/disgoorg/keybot/internal/domain/giveaway"
	"github.com/disgoorg/keybot/internal/domain/logger"
	"github.com/disgoorg/keybot/keybot/config"
	"github.com/disgoorg/keybot/keybot/database/models"
	"github.com/uptrace/bun"
)

type KeyRepository interface {
	Claim(ctx context.Context, req giveaway.ClaimRequest) (*models.KeyClaim, error)
	AddKeys(ctx context.Context, codes []string, addedAt time.Time) (int, error)
	CountUnclaimed(ctx context.Context) (int, error)
	RoundClaims(ctx context.Context, roundID int64) ([]models.KeyClaim, error)
}

type keyRepository struct {
	*BaseRepository
}

func NewKeyRepository(db *bun.DB) KeyRepository {
	return &keyRepository{BaseRepository: NewBaseRepository(db)}
}

// Claim assigns one unclaimed key to req.Username in a single transaction.
// On Postgres the user row lock serializes claims of the same user and
// SKIP LOCKED keeps concurrent claimers off each other's key.
func (r *keyRepository) Claim(ctx context.Context, req giveaway.ClaimRequest) (*models.KeyClaim, error) {
	ql := logger.NewQueryLogger("claim", "key",
		slog.String("user_name", req.Username),
		slog.Int64("round_id", req.RoundID))

	pg := r.postgres()
	var claim *models.KeyClaim

	err := r.Transaction(ctx, func(ctx context.Context, tx bun.Tx) error {
		user, err := getOrCreateUser(ctx, tx, req.Username)
		if err != nil {
			return err
		}

		if pg {
			var lockedID int64
			if err := tx.NewSelect().
				Model((*models.User)(nil)).
				Column("id").
				Where("id = ?", user.ID).
				For("UPDATE").
				Scan(ctx, &lockedID); err != nil {
				return err
			}
		}

		var roundRef *int64
		if req.RoundID != 0 {
			active, err := roundIsActive(ctx, tx, req.RoundID, pg)
			if err != nil {
				return err
			}
			switch {
			case active:
				roundID := req.RoundID
				roundRef = &roundID
			case req.OncePerRound:
				return giveaway.ErrNoActiveRound
			}
		}

		if req.OncePerRound {
			claimed, err := tx.NewSelect().
				Model((*models.Key)(nil)).
				Where("claim_round = ?", req.RoundID).
				Where("user_claim = ?", user.ID).
				Exists(ctx)
			if err != nil {
				return err
			}
			if claimed {
				return giveaway.ErrAlreadyClaimedThisRound
			}
		}

		for attempt := 0; attempt < config.GetOrCreateRetries; attempt++ {
			key := new(models.Key)
			q := tx.NewSelect().
				Model(key).
				Where("claimed = ?", false).
				OrderExpr("id ASC").
				Limit(1)
			if pg {
				q = q.For("UPDATE SKIP LOCKED")
			}
			if err := q.Scan(ctx); err != nil {
				if isNoRows(err) {
					return giveaway.ErrNoKeysAvailable
				}
				return err
			}

			claimedAt := req.ClaimedAt
			if claimedAt.Before(key.AddedAt) {
				claimedAt = key.AddedAt
			}

			res, err := tx.NewUpdate().
				Model((*models.Key)(nil)).
				Set("claimed = ?", true).
				Set("user_claim = ?", user.ID).
				Set("claimed_at = ?", claimedAt).
				Set("claim_round = ?", roundRef).
				Where("id = ?", key.ID).
				Where("claimed = ?", false).
				Exec(ctx)
			if err != nil {
				return err
			}
			if n, _ := res.RowsAffected(); n == 0 {
				continue
			}

			claim = &models.KeyClaim{
				KeyVal:     key.KeyVal,
				Username:   user.Username,
				ClaimRound: roundRef,
				AddedAt:    key.AddedAt,
				ClaimedAt:  claimedAt,
			}
			return nil
		}
		return giveaway.ErrNoKeysAvailable
	})
	if err != nil {
		if giveaway.IsDomainError(err) {
			ql.Reject(err)
		} else {
			ql.Log(err, 0)
		}
		return nil, r.HandleError("claim", "key", err)
	}

	ql.Log(nil, 1)
	return claim, nil
}

func roundIsActive(ctx context.Context, tx bun.Tx, roundID int64, pg bool) (bool, error) {
	var status string
	q := tx.NewSelect().
		Model((*models.GiveawayRound)(nil)).
		Column("status").
		Where("round_id = ?", roundID)
	if pg {
		q = q.For("SHARE")
	}
	if err := q.Scan(ctx, &status); err != nil {
		if isNoRows(err) {
			return false, nil
		}
		return false, err
	}
	return status == models.RoundStatusActive, nil
}

// AddKeys inserts codes in batches and skips the ones already stored.
// It returns how many rows were actually inserted.
func (r *keyRepository) AddKeys(ctx context.Context, codes []string, addedAt time.Time) (int, error) {
	ql := logger.NewQueryLogger("add_keys", "key", slog.Int("submitted", len(codes)))

	ctx, cancel := r.WithCustomTimeout(ctx, config.BatchQueryTimeout)
	defer cancel()

	var inserted int64
	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		for start := 0; start < len(codes); start += config.KeyInsertBatchSize {
			end := min(start+config.KeyInsertBatchSize, len(codes))

			batch := make([]models.Key, 0, end-start)
			for _, code := range codes[start:end] {
				batch = append(batch, models.Key{
					KeyVal:  code,
					AddedAt: addedAt,
				})
			}

			res, err := tx.NewInsert().
				Model(&batch).
				On("CONFLICT (key_val) DO NOTHING").
				Returning("NULL").
				Exec(ctx)
			if err != nil {
				return err
			}
			n, err := res.RowsAffected()
			if err != nil {
				return err
			}
			inserted += n
		}
		return nil
	})
	if err != nil {
		ql.Log(err, 0)
		return 0, r.HandleError("add_keys", "key", err)
	}

	ql.Log(nil, inserted)
	return int(inserted), nil
}

func (r *keyRepository) CountUnclaimed(ctx context.Context) (int, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	count, err := r.db.NewSelect().
		Model((*models.Key)(nil)).
		Where("claimed = ?", false).
		Count(ctx)
	if err != nil {
		return 0, r.HandleError("count_unclaimed", "key", err)
	}
	return count, nil
}

// RoundClaims lists the keys claimed in a round, oldest claim first.
func (r *keyRepository) RoundClaims(ctx context.Context, roundID int64) ([]models.KeyClaim, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	var claims []models.KeyClaim
	err := r.db.NewSelect().
		TableExpr("keys AS k").
		Join("JOIN users AS u ON u.id = k.user_claim").
		ColumnExpr("k.key_val, u.username, k.claim_round, k.added_at, k.claimed_at").
		Where("k.claim_round = ?", roundID).
		Where("k.claimed = ?", true).
		OrderExpr("k.claimed_at ASC, k.id ASC").
		Scan(ctx, &claims)
	if err != nil {
		return nil, r.HandleError("round_claims", "key", err)
	}
	return claims, nil
}
