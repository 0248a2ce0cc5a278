package giveaway

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/disgoorg/keybot/internal/domain/giveaway"
	"github.com/disgoorg/keybot/keybot"
	"github.com/disgoorg/keybot/keybot/config"
	"github.com/disgoorg/keybot/keybot/utils"
	"github.com/disgoorg/snowflake/v2"
)

const (
	GiveawayOverMessage    = "This key giveaway is over!"
	defaultGiveawayMessage = "A new batch of keys is up for grabs. Press the button to claim yours!"
)

var GiveawayPost = discord.SlashCommandCreate{
	Name:        "giveaway-post",
	Description: "📣 Post a key giveaway with a claim button (admin only)",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionInt{
			Name:        "duration",
			Description: "How long the button stays open, in seconds (default from config)",
			Required:    false,
			MinValue:    &[]int{1}[0],
		},
		discord.ApplicationCommandOptionString{
			Name:        "message",
			Description: "Text shown on the giveaway post",
			Required:    false,
		},
	},
}

// GetKeyCustomID encodes the round a giveaway post belongs to and when it closes.
func GetKeyCustomID(roundID int64, expires time.Time) string {
	return fmt.Sprintf("/get-key/%d/%d", roundID, expires.Unix())
}

// ParseGetKeyVars decodes the {round_id} and {expires} parts of a get-key button.
func ParseGetKeyVars(vars map[string]string) (int64, time.Time, error) {
	roundID, err := strconv.ParseInt(vars["round_id"], 10, 64)
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("invalid round id %q: %w", vars["round_id"], err)
	}
	unix, err := strconv.ParseInt(vars["expires"], 10, 64)
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("invalid expiry %q: %w", vars["expires"], err)
	}
	return roundID, time.Unix(unix, 0), nil
}

func giveawayEmbed(message string, round *giveaway.Round, expires time.Time) discord.Embed {
	return discord.NewEmbedBuilder().
		SetTitle("🎁 Key Giveaway").
		SetDescription(fmt.Sprintf("%s\n\nRound #%d closes %s.", message, round.ID,
			discord.FormattedTimestampMention(expires.Unix(), discord.TimestampStyleRelative))).
		SetThumbnail(config.GiveawayImageURL).
		SetColor(config.InfoColor).
		Build()
}

// GiveawayPostMessage builds the public giveaway post.
func GiveawayPostMessage(message string, round *giveaway.Round, expires time.Time) discord.MessageCreate {
	if message == "" {
		message = defaultGiveawayMessage
	}
	return discord.MessageCreate{
		Embeds: []discord.Embed{giveawayEmbed(message, round, expires)},
		Components: []discord.ContainerComponent{
			discord.NewActionRow(
				discord.NewPrimaryButton("🔑 Get a key", GetKeyCustomID(round.ID, expires)),
			),
		},
	}
}

// GiveawayOverUpdate replaces a giveaway post once it has expired.
func GiveawayOverUpdate() discord.MessageUpdate {
	return discord.MessageUpdate{
		Content: utils.Ptr(GiveawayOverMessage),
		Embeds: &[]discord.Embed{{
			Description: GiveawayOverMessage,
			Color:       config.BackgroundColor,
		}},
		Components: &[]discord.ContainerComponent{},
	}
}

func GiveawayPostHandler(b *keybot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		if !utils.IsAdmin(e.Member()) {
			return utils.EH.CreatePermissionError(e, "post a giveaway")
		}

		ctx, cancel := commandContext()
		defer cancel()

		round, err := postableRound(ctx, b.Giveaway)
		if err != nil {
			return utils.EH.HandleError(e, err, messageOptions(b))
		}

		data := e.SlashCommandInteractionData()
		seconds, _ := data.OptInt("duration")
		message, _ := data.OptString("message")

		duration := b.Giveaway.GiveawayDuration(seconds)
		expires := time.Now().Add(duration)

		if err = e.CreateMessage(GiveawayPostMessage(message, round, expires)); err != nil {
			return err
		}

		post, err := e.GetInteractionResponse()
		if err != nil {
			// the button still closes itself by its expiry
			slog.Warn("Could not fetch giveaway post, it will not be edited on expiry",
				slog.String("type", "cmd"),
				slog.Any("error", err))
			return nil
		}

		scheduleGiveawayEnd(b.Client, post.ChannelID, post.ID, duration)
		slog.Info("Giveaway posted",
			slog.String("type", "sys"),
			slog.Int64("round_id", round.ID),
			slog.Duration("duration", duration))
		return nil
	}
}

// scheduleGiveawayEnd edits the post when the giveaway closes. The timer is
// not persisted; after a restart the button still refuses expired claims.
func scheduleGiveawayEnd(client bot.Client, channelID, messageID snowflake.ID, after time.Duration) {
	time.AfterFunc(after, func() {
		if _, err := client.Rest().UpdateMessage(channelID, messageID, GiveawayOverUpdate()); err != nil {
			slog.Error("Failed to close giveaway post",
				slog.String("type", "sys"),
				slog.String("message_id", messageID.String()),
				slog.Any("error", err))
		}
	})
}

func GetKeyComponentHandler(b *keybot.Bot) handler.ComponentHandler {
	return func(e *handler.ComponentEvent) error {
		roundID, expires, err := ParseGetKeyVars(e.Vars)
		if err != nil {
			return err
		}
		if !time.Now().Before(expires) {
			return utils.EH.CreateEphemeralError(e, GiveawayOverMessage)
		}

		ctx, cancel := commandContext()
		defer cancel()

		current, err := b.Giveaway.CurrentRound(ctx)
		if err != nil {
			if errors.Is(err, giveaway.ErrNoActiveRound) {
				return utils.EH.CreateEphemeralError(e, GiveawayOverMessage)
			}
			return utils.EH.HandleError(e, err, messageOptions(b))
		}
		if current.ID != roundID {
			return utils.EH.CreateEphemeralError(e, GiveawayOverMessage)
		}

		code, err := claimFor(ctx, b.Giveaway, e.User(), e.Member(), time.Now())
		if err != nil {
			return utils.EH.HandleError(e, err, messageOptions(b))
		}
		return respondWithKey(b, func(m discord.MessageCreate) error {
			return e.CreateMessage(m)
		}, e.User(), code)
	}
}

type roundSource interface {
	keyRoleSource
	CurrentRound(ctx context.Context) (*giveaway.Round, error)
}

// postableRound is the round a new giveaway post belongs to. Posting needs a
// key role, since nobody could claim from the post without one.
func postableRound(ctx context.Context, svc roundSource) (*giveaway.Round, error) {
	if _, err := svc.KeyRole(ctx); err != nil {
		return nil, err
	}
	return svc.CurrentRound(ctx)
}
