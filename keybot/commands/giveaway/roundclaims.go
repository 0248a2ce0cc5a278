package giveaway

import (
	"fmt"
	"strings"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/disgoorg/keybot/internal/domain/giveaway"
	"github.com/disgoorg/keybot/keybot"
	"github.com/disgoorg/keybot/keybot/config"
	"github.com/disgoorg/keybot/keybot/utils"
	"github.com/disgoorg/paginator"
)

var RoundClaims = discord.SlashCommandCreate{
	Name:        "round-claims",
	Description: "📜 List who claimed keys in a round (admin only)",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionInt{
			Name:        "round_id",
			Description: "Round to list (default: the active round)",
			Required:    false,
			MinValue:    &[]int{1}[0],
		},
	},
}

func RoundClaimsHandler(b *keybot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		if !utils.IsAdmin(e.Member()) {
			return utils.EH.CreatePermissionError(e, "view round claims")
		}

		ctx, cancel := commandContext()
		defer cancel()

		var roundID int64
		if id, ok := e.SlashCommandInteractionData().OptInt("round_id"); ok {
			roundID = int64(id)
		} else {
			round, err := b.Giveaway.CurrentRound(ctx)
			if err != nil {
				return utils.EH.HandleError(e, err, messageOptions(b))
			}
			roundID = round.ID
		}

		claims, err := b.Giveaway.RoundClaims(ctx, roundID)
		if err != nil {
			return utils.EH.HandleError(e, err, messageOptions(b))
		}
		if len(claims) == 0 {
			return utils.EH.CreateInfoEmbed(e, fmt.Sprintf("Nobody has claimed a key in round #%d yet.", roundID))
		}

		totalPages := ClaimPages(len(claims))
		return b.Paginator.Create(e.Respond, paginator.Pages{
			ID:      e.ID().String(),
			Creator: e.User().ID,
			PageFunc: func(page int, embed *discord.EmbedBuilder) {
				embed.
					SetTitle(fmt.Sprintf("Round #%d claims", roundID)).
					SetDescription(ClaimsPage(claims, page)).
					SetColor(config.BackgroundColor).
					SetFooter(fmt.Sprintf("Page %d/%d • Total claims: %d", page+1, totalPages, len(claims)), "")
			},
			Pages:      totalPages,
			ExpireMode: paginator.ExpireModeAfterLastUsage,
		}, true)
	}
}

func ClaimPages(n int) int {
	return (n + config.ClaimsPerPage - 1) / config.ClaimsPerPage
}

// ClaimsPage renders one page of claims, numbered across pages.
func ClaimsPage(claims []giveaway.Claim, page int) string {
	start := page * config.ClaimsPerPage
	if start >= len(claims) || start < 0 {
		return ""
	}
	end := min(start+config.ClaimsPerPage, len(claims))

	var b strings.Builder
	for i, c := range claims[start:end] {
		fmt.Fprintf(&b, "`%d.` **%s** %s `%s`\n",
			start+i+1,
			c.Username,
			discord.FormattedTimestampMention(c.ClaimedAt.Unix(), discord.TimestampStyleShortDateTime),
			c.Code)
	}
	return b.String()
}
