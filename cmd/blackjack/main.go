package main

import (
	"github.com/alecthomas/kong"
)

// version is set by ldflags during build
var version = "dev"

// Globals are flags shared by every command.
type Globals struct {
	Config   string `short:"c" default:"blackjack.hcl" help:"HCL config file (defaults apply when missing)"`
	LogLevel string `help:"Override the configured log level (debug, info, warn, error)"`
	NoColor  bool   `help:"Disable colored output"`
}

type CLI struct {
	Globals

	Version  kong.VersionFlag `short:"v" help:"Show version"`
	Play     PlayCmd          `cmd:"" default:"withargs" help:"Play an interactive session on stdin"`
	Simulate SimulateCmd      `cmd:"" help:"Simulate many sessions with a scripted player"`
	Sessions SessionsCmd      `cmd:"" help:"List saved sessions"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("blackjack"),
		kong.Description("Single-player blackjack with side bets, card counting and session tracking"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)
	applyColor(cli.NoColor)
	err := ctx.Run(&cli.Globals)
	ctx.FatalIfErrorf(err)
}
