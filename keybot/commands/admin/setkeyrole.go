package admin

import (
	"context"
	"fmt"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/disgoorg/keybot/keybot"
	"github.com/disgoorg/keybot/keybot/config"
	"github.com/disgoorg/keybot/keybot/utils"
)

var SetKeyRole = discord.SlashCommandCreate{
	Name:        "set-key-role",
	Description: "🛡️ Set the role allowed to claim keys from giveaway posts (admin only)",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionRole{
			Name:        "role",
			Description: "Role that may claim keys",
			Required:    true,
		},
	},
}

func SetKeyRoleHandler(b *keybot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		if !utils.IsAdmin(e.Member()) {
			return utils.EH.CreatePermissionError(e, "set the key role")
		}

		role := e.SlashCommandInteractionData().Role("role")

		ctx, cancel := context.WithTimeout(context.Background(), config.DefaultQueryTimeout)
		defer cancel()

		if err := b.Giveaway.SetKeyRole(ctx, role.ID.String()); err != nil {
			return utils.EH.HandleError(e, err, options(b))
		}
		return utils.EH.CreateSuccessEmbed(e, fmt.Sprintf("🛡️ Members with %s can now claim keys.", role.Mention()))
	}
}
