package utils

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/keybot/internal/domain/giveaway"
	"github.com/disgoorg/snowflake/v2"
)

func TestErrorMessage(t *testing.T) {
	opts := MessageOptions{AgeBound: 5}
	tests := []struct {
		name     string
		err      error
		wantType ErrorType
		contains string
	}{
		{"no round", giveaway.ErrNoActiveRound, BusinessLogicError, "no key giveaway"},
		{"too young", giveaway.ErrAgeRequirementNotMet, BusinessLogicError, "at least 5 days"},
		{"already claimed", giveaway.ErrAlreadyClaimedThisRound, BusinessLogicError, "already claimed"},
		{"out of keys", giveaway.ErrNoKeysAvailable, BusinessLogicError, "All keys"},
		{"conflict", giveaway.ErrRoundConflict, BusinessLogicError, "already active"},
		{"missing round", giveaway.ErrRoundNotFound, NotFoundError, "does not exist"},
		{"completed", giveaway.ErrRoundAlreadyCompleted, BusinessLogicError, "already ended"},
		{"no key role", giveaway.ErrConfigNotFound, UserError, "/set-key-role"},
		{"missing key role", giveaway.ErrKeyRoleRequired, PermissionError, "role needed"},
		{"wrapped", fmt.Errorf("claim: %w", giveaway.ErrNoKeysAvailable), BusinessLogicError, "All keys"},
		{"storage", &giveaway.StorageError{Op: "claim_key", Err: fmt.Errorf("disk I/O error")}, SystemError, "try again"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotType, msg := ErrorMessage(tt.err, opts)
			if gotType != tt.wantType {
				t.Errorf("ErrorMessage() type = %v, want %v", gotType, tt.wantType)
			}
			if !strings.Contains(msg, tt.contains) {
				t.Errorf("ErrorMessage() = %q, want it to contain %q", msg, tt.contains)
			}
			if strings.Contains(msg, "disk I/O") {
				t.Errorf("ErrorMessage() leaked storage details: %q", msg)
			}
		})
	}
}

func TestAccountAgeDays(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		name    string
		created time.Time
		want    int
	}{
		{"brand new", now.Add(-time.Hour), 0},
		{"exactly five days", now.Add(-5 * 24 * time.Hour), 5},
		{"almost six days", now.Add(-6*24*time.Hour + time.Minute), 5},
		{"future clock skew", now.Add(time.Hour), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AccountAgeDays(snowflake.New(tt.created), now); got != tt.want {
				t.Errorf("AccountAgeDays() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestMemberChecks(t *testing.T) {
	role := snowflake.ID(42)
	admin := &discord.ResolvedMember{Permissions: discord.PermissionAdministrator}
	member := &discord.ResolvedMember{Member: discord.Member{RoleIDs: []snowflake.ID{7, role}}}

	if !IsAdmin(admin) || IsAdmin(member) || IsAdmin(nil) {
		t.Error("IsAdmin() misclassified a member")
	}
	if !HasRole(member, role) || HasRole(admin, role) || HasRole(nil, role) {
		t.Error("HasRole() misclassified a member")
	}
}
