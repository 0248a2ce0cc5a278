package giveaway_test

import (
	"context"
	"testing"
	"time"

	"github.com/disgoorg/keybot/internal/domain/giveaway"
	"github.com/disgoorg/keybot/keybot/database/dbtest"
	"github.com/disgoorg/keybot/keybot/database/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSQLiteService(t *testing.T) (giveaway.Service, *repositories.GiveawayStore) {
	t.Helper()

	store := repositories.NewGiveawayStore(dbtest.Open(t).BunDB())
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	svc := giveaway.NewService(store, giveaway.Settings{
		GiveawayDuration: time.Hour,
		AgeBound:         5,
	}, giveaway.WithClock(func() time.Time {
		now = now.Add(time.Second)
		return now
	}))
	return svc, store
}

func TestClaimScenario(t *testing.T) {
	ctx := context.Background()
	svc, store := newSQLiteService(t)

	added, err := svc.AddKeys(ctx, []string{"AAAA", "BBBB", "CCCC"})
	require.NoError(t, err)
	require.Equal(t, 3, added)

	_, err = svc.StartRound(ctx)
	require.NoError(t, err)

	code, err := svc.ClaimKey(ctx, "userA", 10)
	require.NoError(t, err)
	assert.NotEmpty(t, code)

	unclaimed, err := store.CountUnclaimed(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, unclaimed)

	_, err = svc.ClaimKey(ctx, "userA", 10)
	assert.ErrorIs(t, err, giveaway.ErrAlreadyClaimedThisRound)

	_, err = svc.ClaimKey(ctx, "userB", 3)
	assert.ErrorIs(t, err, giveaway.ErrAgeRequirementNotMet)

	_, err = svc.ClaimKey(ctx, "userC", 10)
	require.NoError(t, err)
	_, err = svc.ClaimKey(ctx, "userD", 10)
	require.NoError(t, err)
	_, err = svc.ClaimKey(ctx, "userE", 10)
	assert.ErrorIs(t, err, giveaway.ErrNoKeysAvailable)

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.Zero(t, stats.Unclaimed)
	require.NotNil(t, stats.ActiveRound)

	claims, err := svc.RoundClaims(ctx, stats.ActiveRound.ID)
	require.NoError(t, err)
	require.Len(t, claims, 3)
	for _, c := range claims {
		assert.False(t, c.ClaimedAt.Before(c.AddedAt))
	}
}

func TestClaimScenario_UnderageLeavesNoTrace(t *testing.T) {
	ctx := context.Background()
	svc, store := newSQLiteService(t)

	_, err := svc.AddKeys(ctx, []string{"AAAA"})
	require.NoError(t, err)
	_, err = svc.StartRound(ctx)
	require.NoError(t, err)

	_, err = svc.ClaimKey(ctx, "young", 4)
	assert.ErrorIs(t, err, giveaway.ErrAgeRequirementNotMet)

	unclaimed, err := store.CountUnclaimed(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, unclaimed)

	users, err := store.Users.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, users)
}

func TestRoundScenario_EndingOnlyRoundClearsCurrent(t *testing.T) {
	ctx := context.Background()
	svc, _ := newSQLiteService(t)

	round, err := svc.StartRound(ctx)
	require.NoError(t, err)

	_, err = svc.StartRound(ctx)
	assert.ErrorIs(t, err, giveaway.ErrRoundConflict)

	ended, err := svc.EndCurrentRound(ctx)
	require.NoError(t, err)
	assert.Equal(t, round.ID, ended.ID)

	_, err = svc.CurrentRound(ctx)
	assert.ErrorIs(t, err, giveaway.ErrNoActiveRound)

	_, err = svc.EndRound(ctx, round.ID)
	assert.ErrorIs(t, err, giveaway.ErrRoundAlreadyCompleted)

	_, err = svc.ClaimKey(ctx, "late", 30)
	assert.ErrorIs(t, err, giveaway.ErrNoActiveRound)
}
