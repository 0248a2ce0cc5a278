package giveaway

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"
)

type Service interface {
	StartRound(ctx context.Context) (*Round, error)
	EndRound(ctx context.Context, roundID int64) (*Round, error)
	EndCurrentRound(ctx context.Context) (*Round, error)
	CurrentRound(ctx context.Context) (*Round, error)

	ClaimKey(ctx context.Context, username string, accountAgeDays int) (string, error)
	GiveKey(ctx context.Context, username string) (string, error)
	GiveKeyUnchecked(ctx context.Context, username string) (string, error)

	AddKeys(ctx context.Context, codes []string) (int, error)
	Stats(ctx context.Context) (*Stats, error)
	RoundClaims(ctx context.Context, roundID int64) ([]Claim, error)

	KeyRole(ctx context.Context) (string, error)
	SetKeyRole(ctx context.Context, roleID string) error

	Settings() Settings
	GiveawayDuration(overrideSeconds int) time.Duration
}

type service struct {
	repository Repository
	settings   Settings
	now        func() time.Time
}

type Option func(*service)

// WithClock replaces the wall clock used for round and claim timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *service) {
		s.now = now
	}
}

func NewService(repository Repository, settings Settings, opts ...Option) *service {
	s := &service{
		repository: repository,
		settings:   settings,
		now:        func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) Settings() Settings {
	return s.settings
}

func (s *service) GiveawayDuration(overrideSeconds int) time.Duration {
	if overrideSeconds > 0 {
		return time.Duration(overrideSeconds) * time.Second
	}
	return s.settings.GiveawayDuration
}

func (s *service) StartRound(ctx context.Context) (*Round, error) {
	round, err := s.repository.CreateRound(ctx, s.now())
	if err != nil {
		return nil, wrapStorage("start_round", err)
	}

	slog.Info("Giveaway round started",
		slog.String("type", "sys"),
		slog.Int64("round_id", round.ID))
	return round, nil
}

func (s *service) EndRound(ctx context.Context, roundID int64) (*Round, error) {
	round, err := s.repository.CompleteRound(ctx, roundID, s.now())
	if err != nil {
		return nil, wrapStorage("end_round", err)
	}

	slog.Info("Giveaway round completed",
		slog.String("type", "sys"),
		slog.Int64("round_id", round.ID))
	return round, nil
}

func (s *service) EndCurrentRound(ctx context.Context) (*Round, error) {
	current, err := s.CurrentRound(ctx)
	if err != nil {
		return nil, err
	}
	return s.EndRound(ctx, current.ID)
}

func (s *service) CurrentRound(ctx context.Context) (*Round, error) {
	round, err := s.repository.ActiveRound(ctx)
	if err != nil {
		return nil, wrapStorage("current_round", err)
	}
	return round, nil
}

// ClaimKey hands one unclaimed key to username in the active round.
// The age check runs before the store is touched, so a rejected claim leaves
// no trace.
func (s *service) ClaimKey(ctx context.Context, username string, accountAgeDays int) (string, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return "", ErrInvalidUsername
	}

	round, err := s.CurrentRound(ctx)
	if err != nil {
		return "", err
	}

	if accountAgeDays < s.settings.AgeBound {
		return "", ErrAgeRequirementNotMet
	}

	return s.claim(ctx, "claim_key", ClaimRequest{
		Username:     username,
		RoundID:      round.ID,
		OncePerRound: true,
		ClaimedAt:    s.now(),
	})
}

func (s *service) GiveKey(ctx context.Context, username string) (string, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return "", ErrInvalidUsername
	}

	round, err := s.CurrentRound(ctx)
	if err != nil {
		return "", err
	}

	return s.claim(ctx, "give_key", ClaimRequest{
		Username:     username,
		RoundID:      round.ID,
		OncePerRound: true,
		ClaimedAt:    s.now(),
	})
}

// GiveKeyUnchecked skips the once-per-round rule and works without a round.
func (s *service) GiveKeyUnchecked(ctx context.Context, username string) (string, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return "", ErrInvalidUsername
	}

	var roundID int64
	round, err := s.CurrentRound(ctx)
	switch {
	case err == nil:
		roundID = round.ID
	case !errors.Is(err, ErrNoActiveRound):
		return "", err
	}

	return s.claim(ctx, "give_key_unchecked", ClaimRequest{
		Username:  username,
		RoundID:   roundID,
		ClaimedAt: s.now(),
	})
}

func (s *service) claim(ctx context.Context, op string, req ClaimRequest) (string, error) {
	claim, err := s.repository.ClaimKey(ctx, req)
	if err != nil {
		return "", wrapStorage(op, err)
	}

	slog.Info("Key claimed",
		slog.String("type", "sys"),
		slog.String("operation", op),
		slog.String("user_name", req.Username),
		slog.Int64("round_id", claim.RoundID))
	return claim.Code, nil
}

func (s *service) AddKeys(ctx context.Context, codes []string) (int, error) {
	cleaned := make([]string, 0, len(codes))
	seen := make(map[string]struct{}, len(codes))
	for _, code := range codes {
		code = strings.TrimSpace(code)
		if code == "" {
			continue
		}
		if _, ok := seen[code]; ok {
			continue
		}
		seen[code] = struct{}{}
		cleaned = append(cleaned, code)
	}
	if len(cleaned) == 0 {
		return 0, nil
	}

	inserted, err := s.repository.AddKeys(ctx, cleaned, s.now())
	if err != nil {
		return 0, wrapStorage("add_keys", err)
	}
	return inserted, nil
}

func (s *service) Stats(ctx context.Context) (*Stats, error) {
	unclaimed, err := s.repository.CountUnclaimed(ctx)
	if err != nil {
		return nil, wrapStorage("stats", err)
	}

	stats := &Stats{Unclaimed: unclaimed}
	round, err := s.CurrentRound(ctx)
	switch {
	case err == nil:
		stats.ActiveRound = round
	case !errors.Is(err, ErrNoActiveRound):
		return nil, err
	}
	return stats, nil
}

func (s *service) RoundClaims(ctx context.Context, roundID int64) ([]Claim, error) {
	if _, err := s.repository.GetRound(ctx, roundID); err != nil {
		return nil, wrapStorage("round_claims", err)
	}

	claims, err := s.repository.RoundClaims(ctx, roundID)
	if err != nil {
		return nil, wrapStorage("round_claims", err)
	}
	return claims, nil
}

func (s *service) KeyRole(ctx context.Context) (string, error) {
	roleID, err := s.repository.GetConfig(ctx, ConfigRoleID)
	if err != nil {
		return "", wrapStorage("key_role", err)
	}
	return roleID, nil
}

func (s *service) SetKeyRole(ctx context.Context, roleID string) error {
	roleID = strings.TrimSpace(roleID)
	if roleID == "" {
		return fmt.Errorf("role id cannot be empty")
	}
	return wrapStorage("set_key_role", s.repository.SetConfig(ctx, ConfigRoleID, roleID))
}

// ResolveSettings merges the persisted config entries over defaults and seeds
// the entries that are missing, so the config table always reflects the
// settings the process runs with.
func ResolveSettings(ctx context.Context, repository Repository, defaults Settings) (Settings, error) {
	entries, err := repository.AllConfig(ctx)
	if err != nil {
		return Settings{}, wrapStorage("load_settings", err)
	}

	settings := defaults

	if raw, ok := entries[ConfigGiveawayDuration]; ok {
		seconds, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil || seconds <= 0 {
			return Settings{}, fmt.Errorf("invalid %s %q: must be a positive number of seconds", ConfigGiveawayDuration, raw)
		}
		settings.GiveawayDuration = time.Duration(seconds) * time.Second
	} else {
		value := strconv.Itoa(int(defaults.GiveawayDuration / time.Second))
		if err := repository.SetConfig(ctx, ConfigGiveawayDuration, value); err != nil {
			return Settings{}, wrapStorage("seed_settings", err)
		}
	}

	if raw, ok := entries[ConfigAgeBound]; ok {
		days, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil || days < 0 {
			return Settings{}, fmt.Errorf("invalid %s %q: must be a non-negative number of days", ConfigAgeBound, raw)
		}
		settings.AgeBound = days
	} else {
		if err := repository.SetConfig(ctx, ConfigAgeBound, strconv.Itoa(defaults.AgeBound)); err != nil {
			return Settings{}, wrapStorage("seed_settings", err)
		}
	}

	return settings, nil
}
