package giveaway

import "time"

type RoundStatus string

const (
	RoundActive    RoundStatus = "active"
	RoundCompleted RoundStatus = "completed"
)

type Round struct {
	ID        int64
	Status    RoundStatus
	StartedAt time.Time
	EndedAt   time.Time
}

func (r Round) Active() bool {
	return r.Status == RoundActive
}

// Claim is a key that has been handed to a user.
type Claim struct {
	Code      string
	Username  string
	RoundID   int64 // 0 when the key was given outside a round
	AddedAt   time.Time
	ClaimedAt time.Time
}

// ClaimRequest describes one claim transaction for the repository.
type ClaimRequest struct {
	Username string
	// RoundID is the round the claim is recorded in. 0 records no round.
	RoundID int64
	// OncePerRound rejects the claim when the user already holds a key from RoundID.
	OncePerRound bool
	ClaimedAt    time.Time
}

type Stats struct {
	ActiveRound *Round
	Unclaimed   int
}

// Settings are loaded once at startup and never change afterwards.
type Settings struct {
	GiveawayDuration time.Duration
	AgeBound         int
}

const (
	ConfigGiveawayDuration = "giveaway_duration"
	ConfigAgeBound         = "age_bound"
	ConfigRoleID           = "role_id"

	DefaultGiveawayDuration = time.Hour
	DefaultAgeBound         = 5
)

func DefaultSettings() Settings {
	return Settings{
		GiveawayDuration: DefaultGiveawayDuration,
		AgeBound:         DefaultAgeBound,
	}
}
