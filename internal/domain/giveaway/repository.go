package giveaway

import (
	"context"
	"time"
)

//go:generate mockgen -destination=mock/repository.go -package=mock . Repository

// Repository is the store behind the round manager and the claim processor.
// Implementations return the sentinel errors of this package for rejected
// operations and anything else for storage failures.
type Repository interface {
	CreateRound(ctx context.Context, startedAt time.Time) (*Round, error)
	CompleteRound(ctx context.Context, roundID int64, endedAt time.Time) (*Round, error)
	ActiveRound(ctx context.Context) (*Round, error)
	GetRound(ctx context.Context, roundID int64) (*Round, error)

	ClaimKey(ctx context.Context, req ClaimRequest) (*Claim, error)
	AddKeys(ctx context.Context, codes []string, addedAt time.Time) (int, error)
	CountUnclaimed(ctx context.Context) (int, error)
	RoundClaims(ctx context.Context, roundID int64) ([]Claim, error)

	GetConfig(ctx context.Context, key string) (string, error)
	SetConfig(ctx context.Context, key, value string) error
	AllConfig(ctx context.Context) (map[string]string, error)
}
