package giveaway

import (
	"fmt"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/disgoorg/keybot/internal/domain/giveaway"
	"github.com/disgoorg/keybot/keybot"
	"github.com/disgoorg/keybot/keybot/config"
	"github.com/disgoorg/keybot/keybot/utils"
)

var CurrentRound = discord.SlashCommandCreate{
	Name:        "current-round",
	Description: "📊 Show the active giveaway round and remaining keys",
}

func CurrentRoundHandler(b *keybot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := commandContext()
		defer cancel()

		stats, err := b.Giveaway.Stats(ctx)
		if err != nil {
			return utils.EH.HandleError(e, err, messageOptions(b))
		}

		return e.CreateMessage(discord.MessageCreate{
			Embeds: []discord.Embed{StatsEmbed(stats, b.Giveaway.Settings())},
		})
	}
}

func StatsEmbed(stats *giveaway.Stats, settings giveaway.Settings) discord.Embed {
	color := config.InfoColor
	round := "No round is running."
	if stats.ActiveRound != nil {
		color = config.SuccessColor
		round = utils.FormatRound(stats.ActiveRound)
	}

	return discord.NewEmbedBuilder().
		SetTitle("🎁 Giveaway status").
		SetDescription(fmt.Sprintf("```md\n"+
			"* Unclaimed keys: %d\n"+
			"* Minimum account age: %d days\n"+
			"* Default giveaway length: %s\n"+
			"```", stats.Unclaimed, settings.AgeBound, settings.GiveawayDuration)).
		AddField("Round", round, false).
		SetColor(color).
		Build()
}
