package giveaway_test

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/disgoorg/keybot/internal/domain/giveaway"
	"github.com/disgoorg/keybot/internal/domain/giveaway/mock"
	"go.uber.org/mock/gomock"
)

var fixedNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func newTestService(t *testing.T, settings giveaway.Settings) (giveaway.Service, *mock.MockRepository) {
	repo := mock.NewMockRepository(gomock.NewController(t))
	return giveaway.NewService(repo, settings, giveaway.WithClock(func() time.Time { return fixedNow })), repo
}

var activeRound = &giveaway.Round{ID: 7, Status: giveaway.RoundActive, StartedAt: fixedNow.Add(-time.Hour)}

func Test_service_ClaimKey(t *testing.T) {
	storeDown := errors.New("connection refused")

	type args struct {
		username string
		age      int
	}
	tests := []struct {
		name    string
		args    args
		setup   func(repo *mock.MockRepository)
		want    string
		wantErr error
	}{
		{
			name: "Success",
			args: args{username: "alice", age: 10},
			setup: func(repo *mock.MockRepository) {
				repo.EXPECT().ActiveRound(gomock.Any()).Return(activeRound, nil)
				repo.EXPECT().
					ClaimKey(gomock.Any(), giveaway.ClaimRequest{
						Username:     "alice",
						RoundID:      7,
						OncePerRound: true,
						ClaimedAt:    fixedNow,
					}).
					Return(&giveaway.Claim{Code: "AAAA-BBBB", Username: "alice", RoundID: 7}, nil)
			},
			want: "AAAA-BBBB",
		},
		{
			name: "Age exactly at bound is eligible",
			args: args{username: "bob", age: 5},
			setup: func(repo *mock.MockRepository) {
				repo.EXPECT().ActiveRound(gomock.Any()).Return(activeRound, nil)
				repo.EXPECT().ClaimKey(gomock.Any(), gomock.Any()).
					Return(&giveaway.Claim{Code: "CCCC", Username: "bob", RoundID: 7}, nil)
			},
			want: "CCCC",
		},
		{
			name: "Too young never reaches the store",
			args: args{username: "carol", age: 3},
			setup: func(repo *mock.MockRepository) {
				repo.EXPECT().ActiveRound(gomock.Any()).Return(activeRound, nil)
			},
			wantErr: giveaway.ErrAgeRequirementNotMet,
		},
		{
			name: "No active round",
			args: args{username: "dave", age: 30},
			setup: func(repo *mock.MockRepository) {
				repo.EXPECT().ActiveRound(gomock.Any()).Return(nil, giveaway.ErrNoActiveRound)
			},
			wantErr: giveaway.ErrNoActiveRound,
		},
		{
			name: "Already claimed passes through",
			args: args{username: "erin", age: 30},
			setup: func(repo *mock.MockRepository) {
				repo.EXPECT().ActiveRound(gomock.Any()).Return(activeRound, nil)
				repo.EXPECT().ClaimKey(gomock.Any(), gomock.Any()).Return(nil, giveaway.ErrAlreadyClaimedThisRound)
			},
			wantErr: giveaway.ErrAlreadyClaimedThisRound,
		},
		{
			name: "No keys left",
			args: args{username: "frank", age: 30},
			setup: func(repo *mock.MockRepository) {
				repo.EXPECT().ActiveRound(gomock.Any()).Return(activeRound, nil)
				repo.EXPECT().ClaimKey(gomock.Any(), gomock.Any()).Return(nil, giveaway.ErrNoKeysAvailable)
			},
			wantErr: giveaway.ErrNoKeysAvailable,
		},
		{
			name: "Storage failure is wrapped",
			args: args{username: "grace", age: 30},
			setup: func(repo *mock.MockRepository) {
				repo.EXPECT().ActiveRound(gomock.Any()).Return(activeRound, nil)
				repo.EXPECT().ClaimKey(gomock.Any(), gomock.Any()).Return(nil, storeDown)
			},
			wantErr: storeDown,
		},
		{
			name:    "Blank username",
			args:    args{username: "   ", age: 30},
			setup:   func(repo *mock.MockRepository) {},
			wantErr: giveaway.ErrInvalidUsername,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, repo := newTestService(t, giveaway.DefaultSettings())
			tt.setup(repo)

			got, err := s.ClaimKey(context.Background(), tt.args.username, tt.args.age)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("service.ClaimKey() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if got != tt.want {
				t.Errorf("service.ClaimKey() got = %v, want %v", got, tt.want)
			}
		})
	}
}

func Test_service_ClaimKey_StorageErrorType(t *testing.T) {
	s, repo := newTestService(t, giveaway.DefaultSettings())
	repo.EXPECT().ActiveRound(gomock.Any()).Return(nil, errors.New("timeout"))

	_, err := s.ClaimKey(context.Background(), "alice", 10)

	var storageErr *giveaway.StorageError
	if !errors.As(err, &storageErr) {
		t.Fatalf("service.ClaimKey() error = %v, want *giveaway.StorageError", err)
	}
	if storageErr.Op != "current_round" {
		t.Errorf("giveaway.StorageError.Op = %q, want %q", storageErr.Op, "current_round")
	}
	if giveaway.IsDomainError(err) {
		t.Errorf("giveaway.IsDomainError(%v) = true, want false", err)
	}
}

func Test_service_GiveKey(t *testing.T) {
	s, repo := newTestService(t, giveaway.Settings{GiveawayDuration: time.Hour, AgeBound: 365})
	repo.EXPECT().ActiveRound(gomock.Any()).Return(activeRound, nil)
	repo.EXPECT().
		ClaimKey(gomock.Any(), giveaway.ClaimRequest{Username: "newbie", RoundID: 7, OncePerRound: true, ClaimedAt: fixedNow}).
		Return(&giveaway.Claim{Code: "GIFT", Username: "newbie", RoundID: 7}, nil)

	got, err := s.GiveKey(context.Background(), "newbie")
	if err != nil {
		t.Fatalf("service.GiveKey() error = %v", err)
	}
	if got != "GIFT" {
		t.Errorf("service.GiveKey() got = %v, want %v", got, "GIFT")
	}
}

func Test_service_GiveKeyUnchecked(t *testing.T) {
	tests := []struct {
		name      string
		round     *giveaway.Round
		roundErr  error
		wantRound int64
	}{
		{name: "Inside a round", round: activeRound, wantRound: 7},
		{name: "Without a round", roundErr: giveaway.ErrNoActiveRound, wantRound: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, repo := newTestService(t, giveaway.DefaultSettings())
			repo.EXPECT().ActiveRound(gomock.Any()).Return(tt.round, tt.roundErr)
			repo.EXPECT().
				ClaimKey(gomock.Any(), giveaway.ClaimRequest{Username: "vip", RoundID: tt.wantRound, ClaimedAt: fixedNow}).
				Return(&giveaway.Claim{Code: "VIP", Username: "vip", RoundID: tt.wantRound}, nil)

			got, err := s.GiveKeyUnchecked(context.Background(), "vip")
			if err != nil {
				t.Fatalf("service.GiveKeyUnchecked() error = %v", err)
			}
			if got != "VIP" {
				t.Errorf("service.GiveKeyUnchecked() got = %v, want %v", got, "VIP")
			}
		})
	}
}

func Test_service_Rounds(t *testing.T) {
	t.Run("Start conflict", func(t *testing.T) {
		s, repo := newTestService(t, giveaway.DefaultSettings())
		repo.EXPECT().CreateRound(gomock.Any(), fixedNow).Return(nil, giveaway.ErrRoundConflict)

		if _, err := s.StartRound(context.Background()); !errors.Is(err, giveaway.ErrRoundConflict) {
			t.Errorf("service.StartRound() error = %v, wantErr %v", err, giveaway.ErrRoundConflict)
		}
	})

	t.Run("End unknown round", func(t *testing.T) {
		s, repo := newTestService(t, giveaway.DefaultSettings())
		repo.EXPECT().CompleteRound(gomock.Any(), int64(99), fixedNow).Return(nil, giveaway.ErrRoundNotFound)

		if _, err := s.EndRound(context.Background(), 99); !errors.Is(err, giveaway.ErrRoundNotFound) {
			t.Errorf("service.EndRound() error = %v, wantErr %v", err, giveaway.ErrRoundNotFound)
		}
	})

	t.Run("End current round", func(t *testing.T) {
		s, repo := newTestService(t, giveaway.DefaultSettings())
		completed := &giveaway.Round{ID: 7, Status: giveaway.RoundCompleted, StartedAt: activeRound.StartedAt, EndedAt: fixedNow}
		repo.EXPECT().ActiveRound(gomock.Any()).Return(activeRound, nil)
		repo.EXPECT().CompleteRound(gomock.Any(), int64(7), fixedNow).Return(completed, nil)

		got, err := s.EndCurrentRound(context.Background())
		if err != nil {
			t.Fatalf("service.EndCurrentRound() error = %v", err)
		}
		if !reflect.DeepEqual(got, completed) {
			t.Errorf("service.EndCurrentRound() got = %v, want %v", got, completed)
		}
	})
}

func Test_service_AddKeys(t *testing.T) {
	s, repo := newTestService(t, giveaway.DefaultSettings())
	repo.EXPECT().
		AddKeys(gomock.Any(), []string{"AAA", "BBB"}, fixedNow).
		Return(2, nil)

	got, err := s.AddKeys(context.Background(), []string{" AAA ", "", "BBB", "AAA", "\t"})
	if err != nil {
		t.Fatalf("service.AddKeys() error = %v", err)
	}
	if got != 2 {
		t.Errorf("service.AddKeys() got = %v, want %v", got, 2)
	}
}

func Test_service_Stats(t *testing.T) {
	s, repo := newTestService(t, giveaway.DefaultSettings())
	repo.EXPECT().CountUnclaimed(gomock.Any()).Return(3, nil)
	repo.EXPECT().ActiveRound(gomock.Any()).Return(nil, giveaway.ErrNoActiveRound)

	got, err := s.Stats(context.Background())
	if err != nil {
		t.Fatalf("service.Stats() error = %v", err)
	}
	want := &giveaway.Stats{Unclaimed: 3}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("service.Stats() got = %v, want %v", got, want)
	}
}

func Test_service_GiveawayDuration(t *testing.T) {
	s, _ := newTestService(t, giveaway.Settings{GiveawayDuration: 30 * time.Minute, AgeBound: 5})

	if got := s.GiveawayDuration(0); got != 30*time.Minute {
		t.Errorf("service.GiveawayDuration(0) = %v, want %v", got, 30*time.Minute)
	}
	if got := s.GiveawayDuration(90); got != 90*time.Second {
		t.Errorf("service.GiveawayDuration(90) = %v, want %v", got, 90*time.Second)
	}
}

func TestResolveSettings(t *testing.T) {
	t.Run("Persisted entries win", func(t *testing.T) {
		repo := mock.NewMockRepository(gomock.NewController(t))
		repo.EXPECT().AllConfig(gomock.Any()).Return(map[string]string{
			giveaway.ConfigGiveawayDuration: "600",
			giveaway.ConfigAgeBound:         "30",
		}, nil)

		got, err := giveaway.ResolveSettings(context.Background(), repo, giveaway.DefaultSettings())
		if err != nil {
			t.Fatalf("giveaway.ResolveSettings() error = %v", err)
		}
		want := giveaway.Settings{GiveawayDuration: 10 * time.Minute, AgeBound: 30}
		if got != want {
			t.Errorf("giveaway.ResolveSettings() got = %v, want %v", got, want)
		}
	})

	t.Run("Missing entries are seeded", func(t *testing.T) {
		repo := mock.NewMockRepository(gomock.NewController(t))
		repo.EXPECT().AllConfig(gomock.Any()).Return(map[string]string{}, nil)
		repo.EXPECT().SetConfig(gomock.Any(), giveaway.ConfigGiveawayDuration, "3600").Return(nil)
		repo.EXPECT().SetConfig(gomock.Any(), giveaway.ConfigAgeBound, "5").Return(nil)

		got, err := giveaway.ResolveSettings(context.Background(), repo, giveaway.DefaultSettings())
		if err != nil {
			t.Fatalf("giveaway.ResolveSettings() error = %v", err)
		}
		if got != giveaway.DefaultSettings() {
			t.Errorf("giveaway.ResolveSettings() got = %v, want %v", got, giveaway.DefaultSettings())
		}
	})

	t.Run("Garbage is rejected", func(t *testing.T) {
		repo := mock.NewMockRepository(gomock.NewController(t))
		repo.EXPECT().AllConfig(gomock.Any()).Return(map[string]string{giveaway.ConfigAgeBound: "five"}, nil)
		repo.EXPECT().SetConfig(gomock.Any(), giveaway.ConfigGiveawayDuration, "3600").Return(nil)

		if _, err := giveaway.ResolveSettings(context.Background(), repo, giveaway.DefaultSettings()); err == nil {
			t.Errorf("giveaway.ResolveSettings() error = nil, want error")
		}
	})
}
