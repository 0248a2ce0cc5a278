package config

import "time"

// Database and Performance Constants
const (
	DefaultQueryTimeout     = 30 * time.Second
	BatchQueryTimeout       = 2 * time.Minute
	CommandExecutionTimeout = 10 * time.Second
	SlowCommandThreshold    = 2 * time.Second
	NetworkDialTimeout      = 5 * time.Second
	PresenceTimeout         = 5 * time.Second
	ShutdownTimeout         = 10 * time.Second

	// SQLite serialises writers, so the pool is a single connection.
	SQLiteMaxOpenConns = 1

	// Users are created lazily; a lost insert race is retried this many times.
	GetOrCreateRetries = 3

	KeyInsertBatchSize = 500
)

// API Constants
const (
	DefaultAPIRequestsPerMinute = 60
	APIReadTimeout              = 10 * time.Second
	APIWriteTimeout             = 10 * time.Second
)

// Giveaway Constants
const (
	DefaultKeysFile       = "fresh_keys.txt"
	DefaultImportInterval = 30 * time.Second
	DefaultDatabaseFile   = "beta_keys.db"

	ClaimsPerPage = 10
)

// Colors
const (
	ErrorColor      = 0xFF0000
	SuccessColor    = 0x00FF00
	InfoColor       = 0x0099FF
	WarningColor    = 0xFFAA00
	BackgroundColor = 0x2B2D31
)

// Steam logo shown on giveaway posts.
const GiveawayImageURL = "https://upload.wikimedia.org/wikipedia/commons/thumb/8/83/Steam_icon_logo.svg/512px-Steam_icon_logo.svg.png"
