package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/coltonswapp/hardway-blackjack/internal/ledger"
	"github.com/coltonswapp/hardway-blackjack/internal/shoe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "blackjack.hcl")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.hcl"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
	require.NoError(t, cfg.Validate())
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
table {
  decks            = 2
  penetration      = "75%"
  starting_balance = 500
  rebet_amount     = 25
}

logging {
  level = "debug"
}

storage {
  driver = "sqlite"
}
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 2, cfg.Table.Decks)
	assert.Equal(t, 500, cfg.Table.StartingBalance)
	assert.Equal(t, shoe.FixedPercentage(0.75), cfg.Penetration())
	assert.Equal(t, ledger.Rebet{Enabled: true, Amount: 25}, cfg.Rebet())
	assert.Equal(t, log.DebugLevel, cfg.LogLevel())
	assert.Equal(t, DriverSQLite, cfg.Storage.Driver)
	assert.Equal(t, "sessions.db", cfg.Storage.Path)
	// Missing block falls back to defaults.
	assert.Equal(t, DefaultConfig().Simulation, cfg.Simulation)
}

func TestLoadRejectsBadHCL(t *testing.T) {
	_, err := Load(writeConfig(t, `table { decks = `))
	assert.ErrorContains(t, err, "failed to parse HCL file")

	_, err = Load(writeConfig(t, `table { shoes = 2 }`))
	assert.ErrorContains(t, err, "failed to decode HCL")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults", func(*Config) {}, ""},
		{"three decks", func(c *Config) { c.Table.Decks = 3 }, "decks"},
		{"no balance", func(c *Config) { c.Table.StartingBalance = -1 }, "startingbalance"},
		{"negative rebet", func(c *Config) { c.Table.RebetAmount = -5 }, "rebetamount"},
		{"bad penetration", func(c *Config) { c.Table.Penetration = "deep" }, "penetration"},
		{"bad level", func(c *Config) { c.Logging.Level = "trace" }, "level"},
		{"bad driver", func(c *Config) { c.Storage.Driver = "redis" }, "driver"},
		{"file without path", func(c *Config) { c.Storage.Path = "" }, "path"},
		{"none without path", func(c *Config) {
			c.Storage.Driver = DriverNone
			c.Storage.Path = ""
		}, ""},
		{"no workers", func(c *Config) { c.Simulation.Workers = 0 }, "workers"},
		{"missing block", func(c *Config) { c.Logging = nil }, "missing a block"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestApplyEnv(t *testing.T) {
	cfg := DefaultConfig()
	err := cfg.ApplyEnv(map[string]string{
		"BLACKJACK_DECKS":          "4",
		"BLACKJACK_PENETRATION":    "full",
		"BLACKJACK_REBET_AMOUNT":   "0",
		"BLACKJACK_LOG_LEVEL":      "WARN",
		"BLACKJACK_STORAGE_DRIVER": "none",
		"BLACKJACK_SEED":           "42",
		"UNRELATED":                "x",
	})
	require.NoError(t, err)

	assert.Equal(t, 4, cfg.Table.Decks)
	assert.True(t, cfg.Penetration().IsFull())
	assert.False(t, cfg.Rebet().Enabled)
	assert.Equal(t, log.WarnLevel, cfg.LogLevel())
	assert.Equal(t, DriverNone, cfg.Storage.Driver)
	assert.Equal(t, int64(42), cfg.Simulation.Seed)
	// Unset variables leave the file values alone.
	assert.Equal(t, 1000, cfg.Table.StartingBalance)
	require.NoError(t, cfg.Validate())
}

func TestInvalidDeckCountKeepsPrevious(t *testing.T) {
	cfg, err := Load(writeConfig(t, `table { decks = 3 }`))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 6, cfg.Table.Decks)
	assert.Equal(t, []string{"decks = 3"}, cfg.Ignored())

	require.NoError(t, cfg.ApplyEnv(map[string]string{"BLACKJACK_DECKS": "2"}))
	require.NoError(t, cfg.ApplyEnv(map[string]string{"BLACKJACK_DECKS": "5"}))
	assert.Equal(t, 2, cfg.Table.Decks)
	require.NoError(t, cfg.Validate())

	assert.False(t, cfg.SetDecks(8))
	assert.True(t, cfg.SetDecks(1))
	assert.Equal(t, 1, cfg.Table.Decks)
	assert.Equal(t, []string{"decks = 3", "decks = 5", "decks = 8"}, cfg.Ignored())
}

func TestApplyEnvBadValue(t *testing.T) {
	cfg := DefaultConfig()
	assert.Error(t, cfg.ApplyEnv(map[string]string{"BLACKJACK_DECKS": "six"}))
	assert.Error(t, cfg.ApplyEnv(map[string]string{"BLACKJACK_REBET_AMOUNT": "lots"}))
}
