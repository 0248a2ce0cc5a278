package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Key is a distributable code. Claimed is true exactly when UserClaim and
// ClaimedAt are set.
type Key struct {
	bun.BaseModel `bun:"table:keys,alias:k"`

	ID         int64     `bun:"id,pk,autoincrement"`
	KeyVal     string    `bun:"key_val,notnull,unique"`
	Claimed    bool      `bun:"claimed,notnull"`
	UserClaim  *int64    `bun:"user_claim"`
	ClaimedAt  time.Time `bun:"claimed_at,nullzero"`
	AddedAt    time.Time `bun:"added_at,notnull"`
	ClaimRound *int64    `bun:"claim_round"`
}

// KeyClaim is one row of a round report.
type KeyClaim struct {
	KeyVal     string    `bun:"key_val"`
	Username   string    `bun:"username"`
	ClaimRound *int64    `bun:"claim_round"`
	AddedAt    time.Time `bun:"added_at"`
	ClaimedAt  time.Time `bun:"claimed_at"`
}
