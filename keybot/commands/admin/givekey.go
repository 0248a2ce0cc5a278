package admin

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/disgoorg/keybot/keybot"
	"github.com/disgoorg/keybot/keybot/commands/giveaway"
	"github.com/disgoorg/keybot/keybot/config"
	"github.com/disgoorg/keybot/keybot/utils"
)

var GiveKey = discord.SlashCommandCreate{
	Name:        "give-key",
	Description: "🎁 Give a user a key from the current round (admin only)",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionUser{
			Name:        "user",
			Description: "The user to give a key to",
			Required:    true,
		},
	},
}

var GiveKeyUnchecked = discord.SlashCommandCreate{
	Name:        "give-key-unchecked",
	Description: "🎁 Give a user a key, ignoring the one-per-round rule (admin only)",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionUser{
			Name:        "user",
			Description: "The user to give a key to",
			Required:    true,
		},
	},
}

type grantFunc func(ctx context.Context, username string) (string, error)

func GiveKeyHandler(b *keybot.Bot) handler.CommandHandler {
	return giveKeyHandler(b, "give keys", b.Giveaway.GiveKey)
}

func GiveKeyUncheckedHandler(b *keybot.Bot) handler.CommandHandler {
	return giveKeyHandler(b, "give unchecked keys", b.Giveaway.GiveKeyUnchecked)
}

func giveKeyHandler(b *keybot.Bot, action string, grant grantFunc) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		if !utils.IsAdmin(e.Member()) {
			return utils.EH.CreatePermissionError(e, action)
		}

		target := e.SlashCommandInteractionData().User("user")
		if target.Bot {
			return utils.EH.CreateClassifiedError(e, utils.UserError, "Bots cannot receive keys.")
		}

		ctx, cancel := context.WithTimeout(context.Background(), config.DefaultQueryTimeout)
		defer cancel()

		code, err := grant(ctx, target.Username)
		if err != nil {
			return utils.EH.HandleError(e, err, utils.MessageOptions{AgeBound: b.Giveaway.Settings().AgeBound})
		}

		if err = giveaway.DeliverKey(b.Client, target.ID, code); err != nil {
			slog.Warn("Key DM failed, handing key to admin",
				slog.String("type", "cmd"),
				slog.String("user_name", target.Username),
				slog.Any("error", err))
			return e.CreateMessage(discord.MessageCreate{
				Content: fmt.Sprintf("Couldn't DM %s. Pass this key on yourself: `%s`", target.Mention(), code),
				Flags:   discord.MessageFlagEphemeral,
			})
		}
		return utils.EH.CreateEphemeralSuccess(e, fmt.Sprintf("✅ Sent a key to %s.", target.Mention()))
	}
}
