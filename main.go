package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/handler"
	"github.com/disgoorg/keybot/internal/domain/giveaway"
	"github.com/disgoorg/keybot/keybot"
	"github.com/disgoorg/keybot/keybot/api"
	"github.com/disgoorg/keybot/keybot/commands"
	"github.com/disgoorg/keybot/keybot/config"
	"github.com/disgoorg/keybot/keybot/database"
	"github.com/disgoorg/keybot/keybot/database/repositories"
	"github.com/disgoorg/keybot/keybot/importer"
	"github.com/disgoorg/keybot/keybot/logger"
	"golang.org/x/sync/errgroup"
)

var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	exitCode := 0
	defer func() {
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	}()

	shouldSyncCommands := flag.Bool("sync-commands", false, "Whether to sync commands to discord")
	path := flag.String("config", "config.toml", "path to config")
	flag.Parse()

	cfg, err := keybot.LoadConfig(*path)
	if err != nil {
		slog.Error("Failed to load configuration", slog.Any("error", err))
		os.Exit(-1)
	}

	slog.SetDefault(slog.New(logger.NewHandler(cfg.Log.Level, cfg.Log.Color, cfg.Log.AddSource)))
	slog.Info("Starting KeyBot",
		slog.String("type", "sys"),
		slog.String("version", version),
		slog.String("commit", commit))

	if cfg.Bot.Token == "" {
		slog.Error("No bot token configured, set TOKEN or [bot] token", slog.String("type", "sys"))
		os.Exit(-1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dbStartTime := time.Now()
	db, err := database.New(ctx, cfg.DB)
	if err != nil {
		slog.Error("Database connection failed",
			slog.String("type", "db"),
			slog.Any("error", err),
			slog.Duration("attempted_for", time.Since(dbStartTime)))
		os.Exit(-1)
	}
	defer db.Close()

	if err = db.InitializeSchema(ctx); err != nil {
		slog.Error("Failed to initialize database schema",
			slog.String("type", "db"),
			slog.Any("error", err))
		os.Exit(-1)
	}
	schemaVersion, err := db.SchemaVersion(ctx)
	if err != nil {
		logger.LogError("Failed to read schema version", err)
	}
	slog.Info("Database ready",
		slog.String("type", "db"),
		slog.String("driver", db.Driver()),
		slog.String("schema_version", schemaVersion),
		slog.Duration("took", time.Since(dbStartTime)))

	store := repositories.NewGiveawayStore(db.BunDB())
	settings, err := giveaway.ResolveSettings(ctx, store, cfg.Settings())
	if err != nil {
		slog.Error("Failed to load giveaway settings",
			slog.String("type", "sys"),
			slog.Any("error", err))
		os.Exit(-1)
	}
	slog.Info("Giveaway settings loaded",
		slog.String("type", "sys"),
		slog.Duration("giveaway_duration", settings.GiveawayDuration),
		slog.Int("age_bound", settings.AgeBound))

	b := keybot.New(*cfg, version, commit)
	b.DB = db
	b.Giveaway = giveaway.NewService(store, settings)

	source, err := newKeySource(ctx, cfg)
	if err != nil {
		slog.Error("Failed to set up key source",
			slog.String("type", "sys"),
			slog.Any("error", err))
		os.Exit(-1)
	}
	b.Importer = importer.New(source, b.Giveaway)

	h := handler.New()
	commands.Register(h, b)

	if err = b.SetupBot(h, bot.NewListenerFunc(b.OnReady)); err != nil {
		slog.Error("Failed to setup bot",
			slog.String("type", "sys"),
			slog.Any("error", err),
			slog.String("error_details", fmt.Sprintf("%+v", err)),
			slog.String("status", "failed"),
		)
		os.Exit(-1)
	}

	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
		defer cancel()
		b.Client.Close(ctx)
	}()

	if *shouldSyncCommands {
		slog.Info("Syncing commands",
			slog.String("type", "sys"),
			slog.Any("guild_ids", cfg.Bot.DevGuilds),
		)
		if err = handler.SyncCommands(b.Client, commands.Commands, cfg.Bot.DevGuilds); err != nil {
			slog.Error("Failed to sync commands",
				slog.String("type", "sys"),
				slog.Any("error", err),
				slog.String("status", "failed"),
			)
		}
	}

	openCtx, cancel := context.WithTimeout(ctx, config.ShutdownTimeout)
	defer cancel()
	if err = b.Client.OpenGateway(openCtx); err != nil {
		slog.Error("Failed to open gateway",
			slog.String("type", "sys"),
			slog.Any("error", err),
			slog.String("status", "failed"),
		)
		os.Exit(-1)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return b.Importer.Run(gctx, cfg.Giveaway.ImportEvery())
	})
	if cfg.API.Enabled() {
		server := api.New(b.Giveaway, db, api.Options{
			Address:           cfg.API.Address,
			Token:             cfg.API.Token,
			RequestsPerMinute: cfg.API.RequestsPerMinute,
			TrustedProxies:    cfg.API.TrustedProxies,
			Version:           version,
			Commit:            commit,
		})
		g.Go(func() error {
			return server.Run(gctx)
		})
	}

	logger.LogSystem("Bot is running. Press CTRL-C to exit.")
	if err = awaitShutdown(ctx, gctx, g); err != nil {
		logger.LogError("Background task failed", err)
		exitCode = 1
	}
}

// awaitShutdown blocks until a signal arrives or a background task fails, and
// returns the first task error once every task has stopped.
func awaitShutdown(ctx, gctx context.Context, g *errgroup.Group) error {
	select {
	case <-ctx.Done():
	case <-gctx.Done():
	}
	logger.LogSystem("Shutting down bot...")
	return g.Wait()
}

func newKeySource(ctx context.Context, cfg *keybot.Config) (importer.Source, error) {
	if cfg.Spaces.Enabled() {
		return importer.NewSpacesSource(ctx,
			cfg.Spaces.Key,
			cfg.Spaces.Secret,
			cfg.Spaces.Region,
			cfg.Spaces.Bucket,
			cfg.Spaces.KeysKey,
		)
	}
	return importer.NewFileSource(cfg.Giveaway.KeysFile), nil
}
