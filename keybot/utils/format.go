package utils

import (
	"fmt"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/keybot/internal/domain/giveaway"
	"github.com/disgoorg/snowflake/v2"
)

func Ptr[T any](v T) *T {
	return &v
}

// AccountAgeDays is the number of whole days since the account behind id was created.
func AccountAgeDays(id snowflake.ID, now time.Time) int {
	age := now.Sub(id.Time())
	if age < 0 {
		return 0
	}
	return int(age / (24 * time.Hour))
}

func FormatRound(r *giveaway.Round) string {
	if r == nil {
		return "none"
	}
	s := fmt.Sprintf("#%d (%s, started %s)", r.ID, r.Status, discord.FormattedTimestampMention(r.StartedAt.Unix(), discord.TimestampStyleRelative))
	if !r.EndedAt.IsZero() {
		s += fmt.Sprintf(", ended %s", discord.FormattedTimestampMention(r.EndedAt.Unix(), discord.TimestampStyleRelative))
	}
	return s
}

// IsAdmin reports whether the invoking member has the Administrator permission.
func IsAdmin(member *discord.ResolvedMember) bool {
	return member != nil && member.Permissions.Has(discord.PermissionAdministrator)
}

// HasRole reports whether member holds roleID.
func HasRole(member *discord.ResolvedMember, roleID snowflake.ID) bool {
	if member == nil {
		return false
	}
	for _, id := range member.RoleIDs {
		if id == roleID {
			return true
		}
	}
	return false
}
