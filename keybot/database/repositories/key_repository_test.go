package repositories_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/disgoorg/keybot/internal/domain/giveaway"
	"github.com/disgoorg/keybot/keybot/database/dbtest"
	"github.com/disgoorg/keybot/keybot/database/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var baseTime = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func newStore(t *testing.T) *repositories.GiveawayStore {
	t.Helper()
	return repositories.NewGiveawayStore(dbtest.Open(t).BunDB())
}

func seedKeys(t *testing.T, store *repositories.GiveawayStore, n int) []string {
	t.Helper()
	codes := make([]string, 0, n)
	for i := 0; i < n; i++ {
		codes = append(codes, fmt.Sprintf("KEY-%03d", i))
	}
	inserted, err := store.AddKeys(context.Background(), codes, baseTime)
	require.NoError(t, err)
	require.Equal(t, n, inserted)
	return codes
}

func TestKeyRepository_AddKeysSkipsDuplicates(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)

	inserted, err := store.AddKeys(ctx, []string{"A", "B"}, baseTime)
	require.NoError(t, err)
	assert.Equal(t, 2, inserted)

	inserted, err = store.AddKeys(ctx, []string{"B", "C"}, baseTime)
	require.NoError(t, err)
	assert.Equal(t, 1, inserted)

	count, err := store.CountUnclaimed(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestKeyRepository_ClaimOncePerRound(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	seedKeys(t, store, 3)

	round, err := store.CreateRound(ctx, baseTime)
	require.NoError(t, err)

	req := giveaway.ClaimRequest{
		Username:     "alice",
		RoundID:      round.ID,
		OncePerRound: true,
		ClaimedAt:    baseTime.Add(time.Minute),
	}

	claim, err := store.ClaimKey(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, "KEY-000", claim.Code)
	assert.Equal(t, round.ID, claim.RoundID)
	assert.Equal(t, "alice", claim.Username)

	_, err = store.ClaimKey(ctx, req)
	assert.ErrorIs(t, err, giveaway.ErrAlreadyClaimedThisRound)

	count, err := store.CountUnclaimed(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestKeyRepository_ClaimRejectsInactiveRound(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	seedKeys(t, store, 1)

	round, err := store.CreateRound(ctx, baseTime)
	require.NoError(t, err)
	_, err = store.CompleteRound(ctx, round.ID, baseTime.Add(time.Hour))
	require.NoError(t, err)

	_, err = store.ClaimKey(ctx, giveaway.ClaimRequest{
		Username:     "alice",
		RoundID:      round.ID,
		OncePerRound: true,
		ClaimedAt:    baseTime.Add(2 * time.Hour),
	})
	assert.ErrorIs(t, err, giveaway.ErrNoActiveRound)

	count, err := store.CountUnclaimed(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestKeyRepository_ClaimWithoutKeys(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)

	round, err := store.CreateRound(ctx, baseTime)
	require.NoError(t, err)

	_, err = store.ClaimKey(ctx, giveaway.ClaimRequest{
		Username:     "alice",
		RoundID:      round.ID,
		OncePerRound: true,
		ClaimedAt:    baseTime,
	})
	assert.ErrorIs(t, err, giveaway.ErrNoKeysAvailable)
}

func TestKeyRepository_UncheckedClaimsStack(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	seedKeys(t, store, 3)

	for i := 0; i < 2; i++ {
		claim, err := store.ClaimKey(ctx, giveaway.ClaimRequest{
			Username:  "bob",
			ClaimedAt: baseTime,
		})
		require.NoError(t, err)
		assert.Zero(t, claim.RoundID)
	}

	count, err := store.CountUnclaimed(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestKeyRepository_ClaimedAtNotBeforeAddedAt(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	seedKeys(t, store, 1)

	claim, err := store.ClaimKey(ctx, giveaway.ClaimRequest{
		Username:  "carol",
		ClaimedAt: baseTime.Add(-time.Hour),
	})
	require.NoError(t, err)
	assert.False(t, claim.ClaimedAt.Before(claim.AddedAt))
}

func TestKeyRepository_ConcurrentClaimsNeverShareAKey(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	seedKeys(t, store, 5)

	round, err := store.CreateRound(ctx, baseTime)
	require.NoError(t, err)

	const claimers = 20
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		codes   = map[string]string{}
		noKeys  int
		failure error
	)
	for i := 0; i < claimers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			user := fmt.Sprintf("user-%02d", i)
			claim, err := store.ClaimKey(ctx, giveaway.ClaimRequest{
				Username:     user,
				RoundID:      round.ID,
				OncePerRound: true,
				ClaimedAt:    baseTime,
			})

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				if prev, ok := codes[claim.Code]; ok {
					failure = fmt.Errorf("key %s handed to %s and %s", claim.Code, prev, user)
				}
				codes[claim.Code] = user
			case errors.Is(err, giveaway.ErrNoKeysAvailable):
				noKeys++
			default:
				failure = err
			}
		}(i)
	}
	wg.Wait()

	require.NoError(t, failure)
	assert.Len(t, codes, 5)
	assert.Equal(t, claimers-5, noKeys)
}

func TestKeyRepository_ConcurrentClaimsSameUser(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	seedKeys(t, store, 10)

	round, err := store.CreateRound(ctx, baseTime)
	require.NoError(t, err)

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		already   int
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.ClaimKey(ctx, giveaway.ClaimRequest{
				Username:     "dave",
				RoundID:      round.ID,
				OncePerRound: true,
				ClaimedAt:    baseTime,
			})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case errors.Is(err, giveaway.ErrAlreadyClaimedThisRound):
				already++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, 7, already)

	count, err := store.CountUnclaimed(ctx)
	require.NoError(t, err)
	assert.Equal(t, 9, count)
}

func TestKeyRepository_RoundClaimsOrdered(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	seedKeys(t, store, 3)

	round, err := store.CreateRound(ctx, baseTime)
	require.NoError(t, err)

	for i, user := range []string{"erin", "frank"} {
		_, err := store.ClaimKey(ctx, giveaway.ClaimRequest{
			Username:     user,
			RoundID:      round.ID,
			OncePerRound: true,
			ClaimedAt:    baseTime.Add(time.Duration(i+1) * time.Minute),
		})
		require.NoError(t, err)
	}
	// given outside the round, so it is not part of the report
	_, err = store.ClaimKey(ctx, giveaway.ClaimRequest{Username: "gina", ClaimedAt: baseTime})
	require.NoError(t, err)

	claims, err := store.RoundClaims(ctx, round.ID)
	require.NoError(t, err)
	require.Len(t, claims, 2)
	assert.Equal(t, "erin", claims[0].Username)
	assert.Equal(t, "frank", claims[1].Username)
	assert.Equal(t, round.ID, claims[1].RoundID)
}
