package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/coltonswapp/hardway-blackjack/internal/sessionid"
)

// SessionsCmd lists saved session snapshots.
type SessionsCmd struct {
	Limit int `short:"l" default:"20" help:"Most recent sessions to show (0 for all)"`
}

func (c *SessionsCmd) Run(g *Globals) error {
	cfg, err := loadConfig(g)
	if err != nil {
		return err
	}
	logger, closeLog, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	ctx := context.Background()
	store, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	if store == nil {
		return fmt.Errorf("storage is disabled (driver %q)", cfg.Storage.Driver)
	}
	defer store.Close()

	snaps, err := store.Summaries(ctx, c.Limit)
	if err != nil {
		return err
	}
	if len(snaps) == 0 {
		fmt.Println(infoStyle.Render("No saved sessions in " + cfg.Storage.Path))
		return nil
	}

	fmt.Println(titleStyle.Render(" Saved sessions "))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTARTED\tDURATION\tHANDS\tSTART\tEND\tNET\tLARGEST BET")
	for _, s := range snaps {
		id := s.ID
		if err := sessionid.Validate(id); err != nil {
			id += " (?)"
		}
		printer.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%s\t%s\t%s\n",
			id,
			s.StartTime.Local().Format(time.DateTime),
			s.Duration.Round(time.Second),
			s.HandCount,
			money(s.StartingBalance),
			money(s.EndingBalance),
			money(s.Net()),
			money(s.Metrics.LargestBet))
	}
	return w.Flush()
}
