package keybot

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/disgoorg/keybot/keybot/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir changes the working directory to dir for the duration of the test
// and restores the previous one on cleanup.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatalf("restore working directory: %v", err)
		}
	})
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestLoadConfig_WritesDefaultFile(t *testing.T) {
	chdir(t, t.TempDir())
	path := filepath.Join("conf", "config.toml")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Giveaway, cfg.Giveaway)
	assert.Equal(t, time.Hour, cfg.Settings().GiveawayDuration)
	assert.Equal(t, 5, cfg.Settings().AgeBound)

	_, err = os.Stat(path)
	require.NoError(t, err)

	again, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.Giveaway, again.Giveaway)
	assert.Equal(t, cfg.DB, again.DB)
}

func TestLoadConfig_FileThenEnv(t *testing.T) {
	chdir(t, t.TempDir())
	writeFile(t, "config.toml", `
[log]
level = "debug"

[bot]
token = "from-file"
dev_guilds = [1234]

[db]
driver = "postgres"
host = "db.internal"
port = 6543

[giveaway]
giveaway_duration = 600
age_bound = 2
`)
	writeFile(t, ".env", "TOKEN=from-dotenv\n")
	t.Setenv("AGE_BOUND", "9")
	t.Setenv("DB_HOST", "db.override")

	cfg, err := LoadConfig("config.toml")
	require.NoError(t, err)

	assert.Equal(t, slog.LevelDebug, cfg.Log.Level)
	assert.Equal(t, "from-dotenv", cfg.Bot.Token)
	require.Len(t, cfg.Bot.DevGuilds, 1)
	assert.Equal(t, database.DriverPostgres, cfg.DB.Driver)
	assert.Equal(t, "db.override", cfg.DB.Host)
	assert.Equal(t, 6543, cfg.DB.Port)
	assert.Equal(t, 10*time.Minute, cfg.Settings().GiveawayDuration)
	assert.Equal(t, 9, cfg.Settings().AgeBound)
	assert.Equal(t, DefaultConfig().Giveaway.KeysFile, cfg.Giveaway.KeysFile)
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "zero duration", content: "[giveaway]\ngiveaway_duration = 0\n"},
		{name: "negative age", content: "[giveaway]\nage_bound = -1\n"},
		{name: "bad toml", content: "[giveaway\n"},
		{name: "api without token", content: "[api]\naddress = \":8080\"\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chdir(t, t.TempDir())
			writeFile(t, "config.toml", tt.content)

			_, err := LoadConfig("config.toml")
			assert.Error(t, err)
		})
	}
}

func TestSpacesConfig_Enabled(t *testing.T) {
	assert.False(t, SpacesConfig{}.Enabled())
	assert.False(t, SpacesConfig{Bucket: "keys"}.Enabled())
	assert.True(t, SpacesConfig{Bucket: "keys", KeysKey: "beta/fresh_keys.txt"}.Enabled())
}

func TestLoadConfig_APITokenFromEnv(t *testing.T) {
	chdir(t, t.TempDir())
	writeFile(t, "config.toml", "[api]\naddress = \"127.0.0.1:8080\"\n")
	t.Setenv("API_TOKEN", "status-secret")

	cfg, err := LoadConfig("config.toml")
	require.NoError(t, err)
	assert.True(t, cfg.API.Enabled())
	assert.Equal(t, "status-secret", cfg.API.Token)
}

func TestLoadConfig_APITrustedProxiesFromEnv(t *testing.T) {
	chdir(t, t.TempDir())
	writeFile(t, "config.toml", "[api]\naddress = \"127.0.0.1:8080\"\ntoken = \"status-secret\"\n")
	t.Setenv("API_TRUSTED_PROXIES", "10.0.0.1,10.0.0.2")

	cfg, err := LoadConfig("config.toml")
	require.NoError(t, err)
	assert.Equal(t, []string{"10.0.0.1", "10.0.0.2"}, cfg.API.TrustedProxies)
}
