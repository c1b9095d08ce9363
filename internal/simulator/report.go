package simulator

import (
	"fmt"
	"io"

	"github.com/coltonswapp/hardway-blackjack/internal/session"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// WriteSummary prints a plain-text summary of r to w.
func WriteSummary(w io.Writer, r *Report) {
	p := message.NewPrinter(language.English)
	stats := r.Stats

	low, high := stats.ConfidenceInterval95()
	p.Fprintf(w, "\n=== SIMULATION RESULTS (%s) ===\n", r.Policy)
	p.Fprintf(w, "Sessions: %d (%d bankrupt)\n", len(r.Sessions), r.Bankrupt)
	p.Fprintf(w, "Rounds played: %d of %d planned\n", stats.Hands, len(r.Sessions)*r.HandsPlan)
	p.Fprintf(w, "Total wagered: %d units\n", stats.Wagered)

	fmt.Fprintf(w, "\n=== PER ROUND ===\n")
	p.Fprintf(w, "Mean: %.4f units\n", stats.Mean())
	p.Fprintf(w, "Median: %.4f units\n", stats.Median())
	p.Fprintf(w, "Std Dev: %.4f units\n", stats.StdDev())
	p.Fprintf(w, "95%% CI: [%.4f, %.4f]\n", low, high)
	p.Fprintf(w, "Percentiles: P5=%.1f, P25=%.1f, P75=%.1f, P95=%.1f\n",
		stats.Percentile(0.05), stats.Percentile(0.25), stats.Percentile(0.75), stats.Percentile(0.95))
	p.Fprintf(w, "House edge: %.3f%%\n", stats.HouseEdge()*100)

	fmt.Fprintf(w, "\n=== OUTCOMES ===\n")
	for _, res := range []session.Result{session.Win, session.BlackjackWin, session.Push, session.Loss} {
		o := stats.Outcomes[res]
		if o.Hands == 0 {
			continue
		}
		p.Fprintf(w, "%-9s %d rounds (%.1f%%), %.3f units/round\n",
			res.String()+":", o.Hands, float64(o.Hands)/float64(stats.Hands)*100, stats.OutcomeMean(res))
	}
	p.Fprintf(w, "Doubles: %d (net %.0f), Splits: %d (net %.0f), Busts: %d, Insured: %d\n",
		stats.Doubles, stats.DoubleNet, stats.Splits, stats.SplitNet, stats.Busts, stats.Insured)
	if stats.SideNet != 0 {
		p.Fprintf(w, "Side bets and insurance net: %.0f units\n", stats.SideNet)
	}
	p.Fprintf(w, "Elapsed: %v\n", r.Elapsed.Round(1e6))
}
