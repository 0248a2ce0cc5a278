// Command keyload imports beta keys into the giveaway database without
// starting the bot.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/disgoorg/keybot/internal/domain/giveaway"
	"github.com/disgoorg/keybot/keybot"
	"github.com/disgoorg/keybot/keybot/database"
	"github.com/disgoorg/keybot/keybot/database/repositories"
	"github.com/disgoorg/keybot/keybot/importer"
	"github.com/disgoorg/keybot/keybot/logger"
)

func main() {
	path := flag.String("config", "config.toml", "path to config")
	file := flag.String("file", "", "key file to import, defaults to giveaway.keys_file")
	object := flag.String("object", "", "Spaces object key to import instead of a local file")
	flag.Parse()

	cfg, err := keybot.LoadConfig(*path)
	if err != nil {
		slog.Error("Failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	slog.SetDefault(slog.New(logger.NewHandlerWithWriter(os.Stderr, cfg.Log.Level, cfg.Log.Color, cfg.Log.AddSource)))

	if err = run(context.Background(), cfg, *file, *object); err != nil {
		logger.LogError("Key import failed", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *keybot.Config, file, object string) error {
	db, err := database.New(ctx, cfg.DB)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	if err = db.InitializeSchema(ctx); err != nil {
		return fmt.Errorf("initialize schema: %w", err)
	}

	store := repositories.NewGiveawayStore(db.BunDB())
	settings, err := giveaway.ResolveSettings(ctx, store, cfg.Settings())
	if err != nil {
		return fmt.Errorf("resolve settings: %w", err)
	}
	svc := giveaway.NewService(store, settings)

	source, err := sourceFor(ctx, cfg, file, object)
	if err != nil {
		return err
	}

	start := time.Now()
	inserted, err := importer.New(source, svc).ImportOnce(ctx)
	if err != nil {
		return err
	}

	stats, err := svc.Stats(ctx)
	if err != nil {
		return fmt.Errorf("count keys: %w", err)
	}
	fmt.Printf("imported %d new keys from %s in %s, %d unclaimed\n",
		inserted, source.Name(), time.Since(start).Round(time.Millisecond), stats.Unclaimed)
	return nil
}

func sourceFor(ctx context.Context, cfg *keybot.Config, file, object string) (importer.Source, error) {
	if object != "" {
		s := cfg.Spaces
		if s.Key == "" || s.Secret == "" || s.Bucket == "" {
			return nil, fmt.Errorf("spaces credentials and bucket are required to import %q", object)
		}
		return importer.NewSpacesSource(ctx, s.Key, s.Secret, s.Region, s.Bucket, object)
	}
	if file == "" {
		return importer.NewFileSource(cfg.Giveaway.KeysFile), nil
	}
	// a named file has to exist; only the configured default may be absent
	if _, err := os.Stat(file); err != nil {
		return nil, fmt.Errorf("key file: %w", err)
	}
	return importer.NewFileSource(file), nil
}
