package giveaway

import (
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/disgoorg/keybot/keybot"
	"github.com/disgoorg/keybot/keybot/utils"
)

var ClaimKey = discord.SlashCommandCreate{
	Name:        "claim-key",
	Description: "🔑 Claim a key from the current giveaway round",
}

func ClaimKeyHandler(b *keybot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := commandContext()
		defer cancel()

		code, err := claimFor(ctx, b.Giveaway, e.User(), e.Member(), time.Now())
		if err != nil {
			return utils.EH.HandleError(e, err, messageOptions(b))
		}
		return respondWithKey(b, func(m discord.MessageCreate) error {
			return e.CreateMessage(m)
		}, e.User(), code)
	}
}
