package admin

import "github.com/disgoorg/disgo/discord"

var Commands = []discord.ApplicationCommandCreate{
	GiveKey,
	GiveKeyUnchecked,
	StartRound,
	EndRound,
	SetKeyRole,
	ImportKeys,
}
