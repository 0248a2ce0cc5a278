package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net"
	"strings"
	"time"

	"github.com/disgoorg/keybot/keybot/config"
	"github.com/disgoorg/keybot/keybot/database/models"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/pgdriver"
	_ "modernc.org/sqlite"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	defaultMaxRetries    = 3
	defaultRetryInterval = time.Second
	schemaVersion        = 2 // bump when schema/migrations change

	// a key is claimed exactly when it records who claimed it and when
	keyClaimCheck = "CONSTRAINT keys_claim_consistent CHECK (claimed = (user_claim IS NOT NULL AND claimed_at IS NOT NULL))"
)

type DBConfig struct {
	Driver       string `toml:"driver" env:"DRIVER"`
	Path         string `toml:"path" env:"PATH"`
	Host         string `toml:"host" env:"HOST"`
	Port         int    `toml:"port" env:"PORT"`
	User         string `toml:"user" env:"USER"`
	Password     string `toml:"password" env:"PASSWORD"`
	Database     string `toml:"database" env:"NAME"`
	SSLMode      string `toml:"ssl_mode" env:"SSLMODE"`
	PoolSize     int    `toml:"pool_size" env:"POOL_SIZE"`
	MaxIdleConns int    `toml:"max_idle_conns"`
	MaxLifetime  int    `toml:"max_lifetime"`
}

// DB holds the bun handle used by the repositories. The pgx pool is only
// present for Postgres.
type DB struct {
	driver string
	pool   *pgxpool.Pool
	bunDB  *bun.DB
}

func New(ctx context.Context, cfg DBConfig) (*DB, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Driver)) {
	case "", DriverPostgres:
		return newPostgres(ctx, cfg)
	case DriverSQLite:
		return newSQLite(ctx, cfg)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

func newPostgres(ctx context.Context, cfg DBConfig) (*DB, error) {
	var conn net.Conn
	var err error

	addr := net.JoinHostPort(cfg.Host, fmt.Sprintf("%d", cfg.Port))
	tryDial := func() (net.Conn, error) {
		// Prefer IPv4, then fall back to IPv6
		if c, e := net.DialTimeout("tcp4", addr, config.NetworkDialTimeout); e == nil {
			return c, nil
		}
		return net.DialTimeout("tcp6", addr, config.NetworkDialTimeout)
	}

	for i := 0; i < defaultMaxRetries; i++ {
		conn, err = tryDial()
		if err == nil {
			break
		}
		slog.Warn("Database server not reachable yet",
			slog.String("type", "db"),
			slog.String("addr", addr),
			slog.Int("attempt", i+1),
			slog.Any("error", err))
		time.Sleep(defaultRetryInterval)
	}
	if err != nil {
		return nil, fmt.Errorf("database server unreachable after %d attempts: %w", defaultMaxRetries, err)
	}
	conn.Close()

	poolConfig, err := pgxpool.ParseConfig(buildConnString(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection string: %w", err)
	}
	if cfg.PoolSize > 0 {
		poolConfig.MaxConns = int32(cfg.PoolSize)
	}
	if cfg.MaxIdleConns > 0 {
		poolConfig.MinConns = int32(cfg.MaxIdleConns)
	}
	if cfg.MaxLifetime > 0 {
		poolConfig.MaxConnLifetime = time.Duration(cfg.MaxLifetime) * time.Second
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(buildConnString(cfg))))
	if cfg.PoolSize > 0 {
		sqldb.SetMaxOpenConns(cfg.PoolSize)
	}

	return &DB{
		driver: DriverPostgres,
		pool:   pool,
		bunDB:  bun.NewDB(sqldb, pgdialect.New()),
	}, nil
}

func buildConnString(cfg DBConfig) string {
	sslMode := cfg.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s&connect_timeout=5",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Database, sslMode,
	)
}

func newSQLite(ctx context.Context, cfg DBConfig) (*DB, error) {
	sqldb, err := sql.Open("sqlite", sqliteDSN(cfg.Path))
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	sqldb.SetMaxOpenConns(config.SQLiteMaxOpenConns)
	sqldb.SetMaxIdleConns(config.SQLiteMaxOpenConns)
	sqldb.SetConnMaxLifetime(0)

	if err := sqldb.PingContext(ctx); err != nil {
		_ = sqldb.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	return &DB{
		driver: DriverSQLite,
		bunDB:  bun.NewDB(sqldb, sqlitedialect.New()),
	}, nil
}

func sqliteDSN(path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		path = config.DefaultDatabaseFile
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
}

func (db *DB) Driver() string {
	return db.driver
}

func (db *DB) BunDB() *bun.DB {
	return db.bunDB
}

func (db *DB) ExecWithLog(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	start := time.Now()
	result, err := db.bunDB.ExecContext(ctx, query, args...)
	duration := time.Since(start)

	if err != nil {
		slog.Error("Query failed",
			slog.String("type", "db"),
			slog.String("operation", "exec"),
			slog.String("query", query),
			slog.Any("args", args),
			slog.Duration("took", duration),
			slog.Any("error", err),
		)
		return result, err
	}

	slog.Debug("Query executed",
		slog.String("type", "db"),
		slog.String("operation", "exec"),
		slog.String("query", query),
		slog.Duration("took", duration),
	)
	return result, nil
}

func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
	if db.bunDB != nil {
		db.bunDB.Close()
	}
}

// Ping verifies every open connection is working
func (db *DB) Ping(ctx context.Context) error {
	if db.pool != nil {
		if err := db.pool.Ping(ctx); err != nil {
			return fmt.Errorf("pgxpool ping failed: %w", err)
		}
	}

	if err := db.bunDB.PingContext(ctx); err != nil {
		return fmt.Errorf("bun ping failed: %w", err)
	}

	return nil
}

// InitializeSchema creates the giveaway tables and indexes
func (db *DB) InitializeSchema(ctx context.Context) error {
	if db.driver == DriverPostgres {
		if err := db.ensureUTF8Encoding(ctx); err != nil {
			return fmt.Errorf("failed to ensure UTF-8 encoding: %w", err)
		}
	}

	// Referenced tables first
	tables := []struct {
		model       interface{}
		foreignKeys []string
		checks      []string
	}{
		{model: (*models.User)(nil)},
		{model: (*models.GiveawayRound)(nil)},
		{
			model: (*models.Key)(nil),
			foreignKeys: []string{
				`("user_claim") REFERENCES "users" ("id")`,
				`("claim_round") REFERENCES "giveaway_rounds" ("round_id")`,
			},
			checks: []string{keyClaimCheck},
		},
		{model: (*models.ConfigEntry)(nil)},
	}

	for _, table := range tables {
		query := db.bunDB.NewCreateTable().
			Model(table.model).
			IfNotExists()
		for _, fk := range table.foreignKeys {
			query = query.ForeignKey(fk)
		}
		for _, check := range table.checks {
			query = query.ColumnExpr(check)
		}

		if _, err := query.Exec(ctx); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}

	if db.driver == DriverPostgres {
		if err := db.ensureKeyClaimCheck(ctx); err != nil {
			return fmt.Errorf("failed to add keys claim check: %w", err)
		}
	}

	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_keys_unclaimed ON keys (id) WHERE claimed = false;",
		"CREATE INDEX IF NOT EXISTS idx_keys_round_user ON keys (claim_round, user_claim);",
		// at most one active round at a time
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_giveaway_rounds_single_active ON giveaway_rounds (status) WHERE status = 'active';",
	}

	for _, idx := range indexes {
		if _, err := db.ExecWithLog(ctx, idx); err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	if err := db.ensureAppMeta(ctx); err != nil {
		return fmt.Errorf("failed to create app_meta: %w", err)
	}
	if err := db.setAppMeta(ctx, "schema_version", fmt.Sprintf("%d", schemaVersion)); err != nil {
		return fmt.Errorf("failed to record schema version: %w", err)
	}

	return nil
}

// ensureKeyClaimCheck adds the claim check to a keys table created before it
// existed. SQLite cannot add constraints to an existing table.
func (db *DB) ensureKeyClaimCheck(ctx context.Context) error {
	exists, err := db.bunDB.NewSelect().
		TableExpr("pg_constraint").
		Where("conname = ?", "keys_claim_consistent").
		Exists(ctx)
	if err != nil || exists {
		return err
	}
	_, err = db.ExecWithLog(ctx, "ALTER TABLE keys ADD "+keyClaimCheck)
	return err
}

// SchemaVersion returns the version recorded by the last InitializeSchema.
func (db *DB) SchemaVersion(ctx context.Context) (string, error) {
	return db.getAppMeta(ctx, "schema_version")
}

func (db *DB) ensureAppMeta(ctx context.Context) error {
	_, err := db.ExecWithLog(ctx, `CREATE TABLE IF NOT EXISTS app_meta (key TEXT PRIMARY KEY, value TEXT)`)
	return err
}

func (db *DB) getAppMeta(ctx context.Context, key string) (string, error) {
	var v string
	err := db.bunDB.NewRaw(`SELECT value FROM app_meta WHERE key = ?`, key).Scan(ctx, &v)
	if err != nil {
		return "", err
	}
	return v, nil
}

func (db *DB) setAppMeta(ctx context.Context, key, value string) error {
	_, err := db.ExecWithLog(ctx, `INSERT INTO app_meta (key, value) VALUES (?, ?)
            ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`, key, value)
	return err
}

// ensureUTF8Encoding checks and ensures the database is using UTF-8 encoding
func (db *DB) ensureUTF8Encoding(ctx context.Context) error {
	var encoding string
	err := db.pool.QueryRow(ctx, "SHOW server_encoding;").Scan(&encoding)
	if err != nil {
		return fmt.Errorf("failed to check database encoding: %w", err)
	}

	// Changing encoding requires superuser, so only warn
	if encoding != "UTF8" {
		slog.Warn("Database is not using UTF-8 encoding, keys with non-ASCII characters may be mangled",
			slog.String("type", "db"),
			slog.String("current_encoding", encoding),
			slog.String("recommended", "UTF8"))
	}

	return nil
}
