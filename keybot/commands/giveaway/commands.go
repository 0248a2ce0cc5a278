package giveaway

import "github.com/disgoorg/disgo/discord"

var Commands = []discord.ApplicationCommandCreate{
	ClaimKey,
	CurrentRound,
	GiveawayPost,
	RoundClaims,
}
