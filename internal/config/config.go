// Package config loads table, logging, storage and simulation settings from
// an HCL file, applies BLACKJACK_* environment overrides and validates the
// result.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/charmbracelet/log"
	"github.com/coltonswapp/hardway-blackjack/internal/ledger"
	"github.com/coltonswapp/hardway-blackjack/internal/shoe"
	"github.com/go-playground/validator/v10"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// DefaultFile is the config file looked for when none is given.
const DefaultFile = "blackjack.hcl"

// Storage drivers.
const (
	DriverNone   = "none"
	DriverFile   = "file"
	DriverSQLite = "sqlite"
)

// Config represents the complete configuration
type Config struct {
	Table      *TableSettings      `hcl:"table,block"`
	Logging    *LoggingSettings    `hcl:"logging,block"`
	Storage    *StorageSettings    `hcl:"storage,block"`
	Simulation *SimulationSettings `hcl:"simulation,block"`

	ignored []string
}

// TableSettings are the house rules and the player's bankroll.
type TableSettings struct {
	Decks           int    `hcl:"decks,optional" validate:"oneof=1 2 4 6"`
	Penetration     string `hcl:"penetration,optional"`
	StartingBalance int    `hcl:"starting_balance,optional" validate:"gt=0"`
	// RebetAmount re-places this main bet each hand; zero disables rebet.
	RebetAmount int `hcl:"rebet_amount,optional" validate:"gte=0"`
}

// LoggingSettings control the CLI logger.
type LoggingSettings struct {
	Level string `hcl:"level,optional" validate:"oneof=debug info warn error"`
	File  string `hcl:"file,optional"`
}

// StorageSettings choose where session snapshots are saved.
type StorageSettings struct {
	Driver string `hcl:"driver,optional" validate:"oneof=none file sqlite"`
	Path   string `hcl:"path,optional" validate:"required_unless=Driver none"`
}

// SimulationSettings are the defaults for the simulate command.
type SimulationSettings struct {
	Sessions int   `hcl:"sessions,optional" validate:"gt=0"`
	Hands    int   `hcl:"hands,optional" validate:"gt=0"`
	Workers  int   `hcl:"workers,optional" validate:"gt=0"`
	BaseBet  int   `hcl:"base_bet,optional" validate:"gt=0"`
	Seed     int64 `hcl:"seed,optional"`
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		Table: &TableSettings{
			Decks:           6,
			Penetration:     "random",
			StartingBalance: 1000,
		},
		Logging: &LoggingSettings{
			Level: "info",
		},
		Storage: &StorageSettings{
			Driver: DriverFile,
			Path:   "sessions",
		},
		Simulation: &SimulationSettings{
			Sessions: 100,
			Hands:    1000,
			Workers:  4,
			BaseBet:  10,
		},
	}
}

// Load reads filename, falling back to defaults when it does not exist.
// Missing blocks and unset attributes take their default values.
func Load(filename string) (*Config, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var config Config
	diags = gohcl.DecodeBody(file.Body, nil, &config)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	config.applyDefaults()
	return &config, nil
}

func (c *Config) applyDefaults() {
	def := DefaultConfig()
	if c.Table == nil {
		c.Table = def.Table
	}
	if c.Logging == nil {
		c.Logging = def.Logging
	}
	if c.Storage == nil {
		c.Storage = def.Storage
	}
	if c.Simulation == nil {
		c.Simulation = def.Simulation
	}

	if decks := c.Table.Decks; decks != 0 {
		c.Table.Decks = def.Table.Decks
		c.SetDecks(decks)
	} else {
		c.Table.Decks = def.Table.Decks
	}
	if c.Table.Penetration == "" {
		c.Table.Penetration = def.Table.Penetration
	}
	if c.Table.StartingBalance == 0 {
		c.Table.StartingBalance = def.Table.StartingBalance
	}
	if c.Logging.Level == "" {
		c.Logging.Level = def.Logging.Level
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = def.Storage.Driver
	}
	if c.Storage.Path == "" && c.Storage.Driver != DriverNone {
		c.Storage.Path = def.Storage.Path
		if c.Storage.Driver == DriverSQLite {
			c.Storage.Path = "sessions.db"
		}
	}
	if c.Simulation.Sessions == 0 {
		c.Simulation.Sessions = def.Simulation.Sessions
	}
	if c.Simulation.Hands == 0 {
		c.Simulation.Hands = def.Simulation.Hands
	}
	if c.Simulation.Workers == 0 {
		c.Simulation.Workers = def.Simulation.Workers
	}
	if c.Simulation.BaseBet == 0 {
		c.Simulation.BaseBet = def.Simulation.BaseBet
	}
}

// overrides are the environment variables that win over the file.
type overrides struct {
	Decks           int    `env:"DECKS"`
	Penetration     string `env:"PENETRATION"`
	StartingBalance int    `env:"STARTING_BALANCE"`
	RebetAmount     string `env:"REBET_AMOUNT"`
	LogLevel        string `env:"LOG_LEVEL"`
	LogFile         string `env:"LOG_FILE"`
	StorageDriver   string `env:"STORAGE_DRIVER"`
	StoragePath     string `env:"STORAGE_PATH"`
	Seed            int64  `env:"SEED"`
}

// EnvPrefix prefixes every override variable.
const EnvPrefix = "BLACKJACK_"

// ApplyEnv overlays BLACKJACK_* variables from environ, or from the process
// environment when environ is nil.
func (c *Config) ApplyEnv(environ map[string]string) error {
	var o overrides
	if err := env.ParseWithOptions(&o, env.Options{Prefix: EnvPrefix, Environment: environ}); err != nil {
		return fmt.Errorf("parse environment: %w", err)
	}

	if o.Decks != 0 {
		c.SetDecks(o.Decks)
	}
	if o.Penetration != "" {
		c.Table.Penetration = o.Penetration
	}
	if o.StartingBalance != 0 {
		c.Table.StartingBalance = o.StartingBalance
	}
	if o.RebetAmount != "" {
		amount, err := strconv.Atoi(o.RebetAmount)
		if err != nil {
			return fmt.Errorf("invalid %sREBET_AMOUNT: %w", EnvPrefix, err)
		}
		c.Table.RebetAmount = amount
	}
	if o.LogLevel != "" {
		c.Logging.Level = strings.ToLower(o.LogLevel)
	}
	if o.LogFile != "" {
		c.Logging.File = o.LogFile
	}
	if o.StorageDriver != "" {
		c.Storage.Driver = o.StorageDriver
	}
	if o.StoragePath != "" {
		c.Storage.Path = o.StoragePath
	}
	if o.Seed != 0 {
		c.Simulation.Seed = o.Seed
	}
	return nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Table == nil || c.Logging == nil || c.Storage == nil || c.Simulation == nil {
		return errors.New("config is missing a block; use Load or DefaultConfig")
	}
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("invalid %s: %v fails %q", strings.ToLower(fe.Namespace()), fe.Value(), fe.ActualTag())
		}
		return err
	}
	if _, err := shoe.ParsePenetration(c.Table.Penetration); err != nil {
		return fmt.Errorf("invalid table penetration: %w", err)
	}
	return nil
}

// SetDecks sets the shoe size. A count other than 1, 2, 4 or 6 is ignored
// and the previous value kept.
func (c *Config) SetDecks(n int) bool {
	if !shoe.ValidDeckCount(n) {
		c.ignored = append(c.ignored, fmt.Sprintf("decks = %d", n))
		return false
	}
	c.Table.Decks = n
	return true
}

// Ignored lists the settings dropped in favour of the previous value.
func (c *Config) Ignored() []string { return c.ignored }

// Penetration returns the parsed cut card policy.
func (c *Config) Penetration() shoe.Penetration {
	p, err := shoe.ParsePenetration(c.Table.Penetration)
	if err != nil {
		return shoe.RandomPenetration()
	}
	return p
}

// Rebet returns the rebet setting.
func (c *Config) Rebet() ledger.Rebet {
	return ledger.Rebet{Enabled: c.Table.RebetAmount > 0, Amount: c.Table.RebetAmount}
}

// LogLevel returns the parsed log level.
func (c *Config) LogLevel() log.Level {
	level, err := log.ParseLevel(c.Logging.Level)
	if err != nil {
		return log.InfoLevel
	}
	return level
}
