package admin

import (
	"context"
	"fmt"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/disgoorg/keybot/internal/domain/giveaway"
	"github.com/disgoorg/keybot/keybot"
	"github.com/disgoorg/keybot/keybot/config"
	"github.com/disgoorg/keybot/keybot/utils"
)

var StartRound = discord.SlashCommandCreate{
	Name:        "start-round",
	Description: "▶️ Start a new giveaway round (admin only)",
}

var EndRound = discord.SlashCommandCreate{
	Name:        "end-round",
	Description: "⏹️ End a giveaway round (admin only)",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionInt{
			Name:        "round_id",
			Description: "Round to end (default: the active round)",
			Required:    false,
			MinValue:    &[]int{1}[0],
		},
	},
}

func StartRoundHandler(b *keybot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		if !utils.IsAdmin(e.Member()) {
			return utils.EH.CreatePermissionError(e, "start a round")
		}

		ctx, cancel := context.WithTimeout(context.Background(), config.DefaultQueryTimeout)
		defer cancel()

		round, err := b.Giveaway.StartRound(ctx)
		if err != nil {
			return utils.EH.HandleError(e, err, options(b))
		}
		return utils.EH.CreateSuccessEmbed(e, fmt.Sprintf("▶️ Giveaway round #%d started.", round.ID))
	}
}

func EndRoundHandler(b *keybot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		if !utils.IsAdmin(e.Member()) {
			return utils.EH.CreatePermissionError(e, "end a round")
		}

		ctx, cancel := context.WithTimeout(context.Background(), config.DefaultQueryTimeout)
		defer cancel()

		var (
			round *giveaway.Round
			err   error
		)
		if id, ok := e.SlashCommandInteractionData().OptInt("round_id"); ok {
			round, err = b.Giveaway.EndRound(ctx, int64(id))
		} else {
			round, err = b.Giveaway.EndCurrentRound(ctx)
		}
		if err != nil {
			return utils.EH.HandleError(e, err, options(b))
		}
		return utils.EH.CreateSuccessEmbed(e, fmt.Sprintf("⏹️ Giveaway round %s.", utils.FormatRound(round)))
	}
}

func options(b *keybot.Bot) utils.MessageOptions {
	return utils.MessageOptions{AgeBound: b.Giveaway.Settings().AgeBound}
}
