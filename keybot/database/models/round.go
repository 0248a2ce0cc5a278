package models

import (
	"time"

	"github.com/uptrace/bun"
)

const (
	RoundStatusActive    = "active"
	RoundStatusCompleted = "completed"
)

type GiveawayRound struct {
	bun.BaseModel `bun:"table:giveaway_rounds,alias:gr"`

	RoundID   int64     `bun:"round_id,pk,autoincrement"`
	Status    string    `bun:"status,notnull"`
	StartedAt time.Time `bun:"started_at,notnull"`
	EndedAt   time.Time `bun:"ended_at,nullzero"`
}
