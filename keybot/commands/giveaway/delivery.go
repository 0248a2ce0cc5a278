package giveaway

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/keybot/internal/domain/giveaway"
	"github.com/disgoorg/keybot/keybot"
	"github.com/disgoorg/keybot/keybot/config"
	"github.com/disgoorg/keybot/keybot/utils"
	"github.com/disgoorg/snowflake/v2"
)

func keyEmbed(code string) discord.Embed {
	return discord.NewEmbedBuilder().
		SetTitle("🔑 Your key").
		SetDescription(fmt.Sprintf("```\n%s\n```\nRedeem it before someone else does!", code)).
		SetColor(config.SuccessColor).
		Build()
}

// DeliverKey sends code to userID by DM.
func DeliverKey(client bot.Client, userID snowflake.ID, code string) error {
	ch, err := client.Rest().CreateDMChannel(userID)
	if err != nil {
		return fmt.Errorf("failed to open DM channel: %w", err)
	}
	_, err = client.Rest().CreateMessage(ch.ID(), discord.MessageCreate{
		Embeds: []discord.Embed{keyEmbed(code)},
	})
	if err != nil {
		return fmt.Errorf("failed to send key DM: %w", err)
	}
	return nil
}

// respondWithKey DMs the key and confirms ephemerally. When the DM fails the
// key is shown in the ephemeral reply instead so it is never lost.
func respondWithKey(b *keybot.Bot, respond func(discord.MessageCreate) error, user discord.User, code string) error {
	if err := DeliverKey(b.Client, user.ID, code); err != nil {
		slog.Warn("Key DM failed, showing key ephemerally",
			slog.String("type", "cmd"),
			slog.String("user_name", user.Username),
			slog.Any("error", err))
		return respond(discord.MessageCreate{
			Content: "I couldn't DM you, so here is your key. Keep it to yourself!",
			Embeds:  []discord.Embed{keyEmbed(code)},
			Flags:   discord.MessageFlagEphemeral,
		})
	}
	return respond(discord.MessageCreate{
		Content: "✅ Your key is in your DMs!",
		Flags:   discord.MessageFlagEphemeral,
	})
}

func commandContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), config.CommandExecutionTimeout-time.Second)
}

func messageOptions(b *keybot.Bot) utils.MessageOptions {
	return utils.MessageOptions{AgeBound: b.Giveaway.Settings().AgeBound}
}

type keyRoleSource interface {
	KeyRole(ctx context.Context) (string, error)
}

type keyClaimer interface {
	keyRoleSource
	ClaimKey(ctx context.Context, username string, accountAgeDays int) (string, error)
}

// requireKeyRole passes only members holding the configured key role. An
// unset role refuses everyone with giveaway.ErrConfigNotFound.
func requireKeyRole(ctx context.Context, roles keyRoleSource, member *discord.ResolvedMember) error {
	raw, err := roles.KeyRole(ctx)
	if err != nil {
		return err
	}
	roleID, err := snowflake.Parse(raw)
	if err != nil {
		return fmt.Errorf("stored key role %q is not a snowflake: %w", raw, err)
	}
	if !utils.HasRole(member, roleID) {
		return giveaway.ErrKeyRoleRequired
	}
	return nil
}

// claimFor runs the role and eligibility checked claim for user. Every claim
// path goes through here.
func claimFor(ctx context.Context, svc keyClaimer, user discord.User, member *discord.ResolvedMember, now time.Time) (string, error) {
	if err := requireKeyRole(ctx, svc, member); err != nil {
		return "", err
	}
	return svc.ClaimKey(ctx, user.Username, utils.AccountAgeDays(user.ID, now))
}
