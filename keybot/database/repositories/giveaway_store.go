package repositories

import (
	"context"
	"time"

	"github.com/disgoorg/keybot/internal/domain/giveaway"
	"github.com/disgoorg/keybot/keybot/database/models"
	"github.com/uptrace/bun"
)

// GiveawayStore adapts the table repositories to giveaway.Repository.
type GiveawayStore struct {
	Rounds RoundRepository
	Keys   KeyRepository
	Users  UserRepository
	Config ConfigRepository
}

var _ giveaway.Repository = (*GiveawayStore)(nil)

func NewGiveawayStore(db *bun.DB) *GiveawayStore {
	return &GiveawayStore{
		Rounds: NewRoundRepository(db),
		Keys:   NewKeyRepository(db),
		Users:  NewUserRepository(db),
		Config: NewConfigRepository(db),
	}
}

func (s *GiveawayStore) CreateRound(ctx context.Context, startedAt time.Time) (*giveaway.Round, error) {
	round, err := s.Rounds.Create(ctx, startedAt)
	if err != nil {
		return nil, err
	}
	return toRound(round), nil
}

func (s *GiveawayStore) CompleteRound(ctx context.Context, roundID int64, endedAt time.Time) (*giveaway.Round, error) {
	round, err := s.Rounds.Complete(ctx, roundID, endedAt)
	if err != nil {
		return nil, err
	}
	return toRound(round), nil
}

func (s *GiveawayStore) ActiveRound(ctx context.Context) (*giveaway.Round, error) {
	round, err := s.Rounds.Active(ctx)
	if err != nil {
		return nil, err
	}
	return toRound(round), nil
}

func (s *GiveawayStore) GetRound(ctx context.Context, roundID int64) (*giveaway.Round, error) {
	round, err := s.Rounds.GetByID(ctx, roundID)
	if err != nil {
		return nil, err
	}
	return toRound(round), nil
}

func (s *GiveawayStore) ClaimKey(ctx context.Context, req giveaway.ClaimRequest) (*giveaway.Claim, error) {
	claim, err := s.Keys.Claim(ctx, req)
	if err != nil {
		return nil, err
	}
	c := toClaim(*claim)
	return &c, nil
}

func (s *GiveawayStore) AddKeys(ctx context.Context, codes []string, addedAt time.Time) (int, error) {
	return s.Keys.AddKeys(ctx, codes, addedAt)
}

func (s *GiveawayStore) CountUnclaimed(ctx context.Context) (int, error) {
	return s.Keys.CountUnclaimed(ctx)
}

func (s *GiveawayStore) RoundClaims(ctx context.Context, roundID int64) ([]giveaway.Claim, error) {
	rows, err := s.Keys.RoundClaims(ctx, roundID)
	if err != nil {
		return nil, err
	}

	claims := make([]giveaway.Claim, 0, len(rows))
	for _, row := range rows {
		claims = append(claims, toClaim(row))
	}
	return claims, nil
}

func (s *GiveawayStore) GetConfig(ctx context.Context, key string) (string, error) {
	return s.Config.Get(ctx, key)
}

func (s *GiveawayStore) SetConfig(ctx context.Context, key, value string) error {
	return s.Config.Set(ctx, key, value)
}

func (s *GiveawayStore) AllConfig(ctx context.Context) (map[string]string, error) {
	return s.Config.All(ctx)
}

func toRound(m *models.GiveawayRound) *giveaway.Round {
	return &giveaway.Round{
		ID:        m.RoundID,
		Status:    giveaway.RoundStatus(m.Status),
		StartedAt: m.StartedAt,
		EndedAt:   m.EndedAt,
	}
}

func toClaim(m models.KeyClaim) giveaway.Claim {
	c := giveaway.Claim{
		Code:      m.KeyVal,
		Username:  m.Username,
		AddedAt:   m.AddedAt,
		ClaimedAt: m.ClaimedAt,
	}
	if m.ClaimRound != nil {
		c.RoundID = *m.ClaimRound
	}
	return c
}
