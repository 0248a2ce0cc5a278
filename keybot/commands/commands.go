package commands

import (
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/disgoorg/keybot/keybot"
	"github.com/disgoorg/keybot/keybot/commands/admin"
	"github.com/disgoorg/keybot/keybot/commands/giveaway"
	"github.com/disgoorg/keybot/keybot/commands/system"
	"github.com/disgoorg/keybot/keybot/handlers"
)

var Commands = []discord.ApplicationCommandCreate{}

func init() {
	Commands = append(Commands, giveaway.Commands...)
	Commands = append(Commands, admin.Commands...)
	Commands = append(Commands, system.Commands...)
}

// Register wires every command and component handler onto h.
func Register(h handler.Router, b *keybot.Bot) {
	h.Command("/version", system.VersionHandler(b))

	// Giveaway commands
	h.Command("/claim-key", handlers.WrapWithLogging("claim-key", giveaway.ClaimKeyHandler(b)))
	h.Command("/current-round", handlers.WrapWithLogging("current-round", giveaway.CurrentRoundHandler(b)))
	h.Command("/giveaway-post", handlers.WrapWithLogging("giveaway-post", giveaway.GiveawayPostHandler(b)))
	h.Command("/round-claims", handlers.WrapWithLogging("round-claims", giveaway.RoundClaimsHandler(b)))
	h.Component("/get-key/{round_id}/{expires}", handlers.WrapComponentWithLogging("get-key", giveaway.GetKeyComponentHandler(b)))

	// Admin commands
	h.Command("/give-key", handlers.WrapWithLogging("give-key", admin.GiveKeyHandler(b)))
	h.Command("/give-key-unchecked", handlers.WrapWithLogging("give-key-unchecked", admin.GiveKeyUncheckedHandler(b)))
	h.Command("/start-round", handlers.WrapWithLogging("start-round", admin.StartRoundHandler(b)))
	h.Command("/end-round", handlers.WrapWithLogging("end-round", admin.EndRoundHandler(b)))
	h.Command("/set-key-role", handlers.WrapWithLogging("set-key-role", admin.SetKeyRoleHandler(b)))
	h.Command("/import-keys", handlers.WrapWithLogging("import-keys", admin.ImportKeysHandler(b)))
}
