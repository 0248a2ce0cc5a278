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

var ImportKeys = discord.SlashCommandCreate{
	Name:        "import-keys",
	Description: "📥 Import new keys from the key source now (admin only)",
}

func ImportKeysHandler(b *keybot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		if !utils.IsAdmin(e.Member()) {
			return utils.EH.CreatePermissionError(e, "import keys")
		}
		if b.Importer == nil {
			return utils.EH.CreateClassifiedError(e, utils.UserError, "No key source is configured.")
		}

		if err := e.DeferCreateMessage(true); err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(context.Background(), config.BatchQueryTimeout)
		defer cancel()

		inserted, err := b.Importer.ImportOnce(ctx)
		if err != nil {
			return utils.EH.UpdateInteractionResponse(e, utils.SystemError, "Importing keys failed. Check the logs for details.")
		}

		stats, err := b.Giveaway.Stats(ctx)
		if err != nil {
			return utils.EH.UpdateInteractionResponse(e, utils.SystemError, "Keys were imported but the key count could not be read.")
		}

		_, err = e.UpdateInteractionResponse(discord.MessageUpdate{
			Embeds: &[]discord.Embed{{
				Description: fmt.Sprintf("📥 Imported %d new keys from `%s`. %d keys are unclaimed.",
					inserted, b.Importer.Source().Name(), stats.Unclaimed),
				Color: config.SuccessColor,
			}},
		})
		return err
	}
}
