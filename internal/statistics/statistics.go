// Package statistics accumulates per-round results from simulated play.
package statistics

import (
	"fmt"
	"math"
	"sort"

	"github.com/coltonswapp/hardway-blackjack/internal/session"
)

// HandResult represents the outcome of a single round
type HandResult struct {
	Net      float64        // Net units won/lost for the round, side bets included
	Wagered  int            // Total units staked, including doubles, splits and insurance
	Seed     int64          // RNG seed of the session (for replay)
	Outcome  session.Result // Outcome of the first player hand
	Doubled  bool
	Split    bool
	Insured  bool
	SideNet  float64 // Net from side bets alone
	Busted   bool    // Any player hand busted
	DealerBJ bool
}

// OutcomeStats tracks results for one hand outcome
type OutcomeStats struct {
	Hands int
	Sum   float64
}

// Statistics tracks simulation statistics
type Statistics struct {
	Hands  int
	Sum    float64
	Sum2   float64   // Sum of squares for variance calculation
	Values []float64 // Store all values for median/percentile calculation

	Wagered int // Total units staked

	// Breakdown by outcome of the first hand
	Outcomes [4]OutcomeStats // Indexed by session.Result

	Doubles   int
	DoubleNet float64
	Splits    int
	SplitNet  float64
	Insured   int
	Busts     int
	SideNet   float64
	AllNet    float64 // Total for ledger check against Outcomes
}

// Mean returns the mean net result per round
func (s *Statistics) Mean() float64 {
	if s.Hands == 0 {
		return 0
	}
	return s.Sum / float64(s.Hands)
}

// Variance returns the sample variance of all results
func (s *Statistics) Variance() float64 {
	if s.Hands < 2 {
		return 0
	}
	mean := s.Mean()
	return (s.Sum2 - float64(s.Hands)*mean*mean) / float64(s.Hands-1)
}

// StdDev returns the sample standard deviation of all results
func (s *Statistics) StdDev() float64 {
	return math.Sqrt(s.Variance())
}

// StdError returns the standard error of the mean
func (s *Statistics) StdError() float64 {
	if s.Hands == 0 {
		return 0
	}
	return s.StdDev() / math.Sqrt(float64(s.Hands))
}

// ConfidenceInterval95 returns the 95% confidence interval for the mean
func (s *Statistics) ConfidenceInterval95() (float64, float64) {
	mean := s.Mean()
	margin := 1.96 * s.StdError()
	return mean - margin, mean + margin
}

// HouseEdge returns the player's loss per unit wagered; negative when the
// player came out ahead.
func (s *Statistics) HouseEdge() float64 {
	if s.Wagered == 0 {
		return 0
	}
	return -s.Sum / float64(s.Wagered)
}

// Add incorporates a new round into the statistics
func (s *Statistics) Add(result HandResult) {
	net := result.Net
	s.Hands++
	s.Sum += net
	s.Sum2 += net * net
	s.Values = append(s.Values, net)
	s.Wagered += result.Wagered

	if idx := int(result.Outcome); idx >= 0 && idx < len(s.Outcomes) {
		s.Outcomes[idx].Hands++
		s.Outcomes[idx].Sum += net
	}
	s.AllNet += net

	if result.Doubled {
		s.Doubles++
		s.DoubleNet += net
	}
	if result.Split {
		s.Splits++
		s.SplitNet += net
	}
	if result.Insured {
		s.Insured++
	}
	if result.Busted {
		s.Busts++
	}
	s.SideNet += result.SideNet
}

// Merge folds other into s. Values keep their order: s first, then other.
func (s *Statistics) Merge(other *Statistics) {
	s.Hands += other.Hands
	s.Sum += other.Sum
	s.Sum2 += other.Sum2
	s.Values = append(s.Values, other.Values...)
	s.Wagered += other.Wagered
	for i := range s.Outcomes {
		s.Outcomes[i].Hands += other.Outcomes[i].Hands
		s.Outcomes[i].Sum += other.Outcomes[i].Sum
	}
	s.Doubles += other.Doubles
	s.DoubleNet += other.DoubleNet
	s.Splits += other.Splits
	s.SplitNet += other.SplitNet
	s.Insured += other.Insured
	s.Busts += other.Busts
	s.SideNet += other.SideNet
	s.AllNet += other.AllNet
}

// Median returns the median value of all results
func (s *Statistics) Median() float64 {
	if len(s.Values) == 0 {
		return 0
	}
	sorted := s.sorted()
	n := len(sorted)
	if n%2 == 0 {
		return (sorted[n/2-1] + sorted[n/2]) / 2
	}
	return sorted[n/2]
}

// Percentile returns the value at the given percentile (0.0 to 1.0)
func (s *Statistics) Percentile(p float64) float64 {
	if len(s.Values) == 0 {
		return 0
	}
	sorted := s.sorted()

	index := p * float64(len(sorted)-1)
	lower := int(index)
	upper := lower + 1
	if upper >= len(sorted) {
		return sorted[len(sorted)-1]
	}

	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

func (s *Statistics) sorted() []float64 {
	sorted := make([]float64, len(s.Values))
	copy(sorted, s.Values)
	sort.Float64s(sorted)
	return sorted
}

// OutcomeMean returns the mean result of rounds whose first hand ended in r
func (s *Statistics) OutcomeMean(r session.Result) float64 {
	idx := int(r)
	if idx < 0 || idx >= len(s.Outcomes) || s.Outcomes[idx].Hands == 0 {
		return 0
	}
	return s.Outcomes[idx].Sum / float64(s.Outcomes[idx].Hands)
}

// WinRate returns the share of rounds whose first hand won.
func (s *Statistics) WinRate() float64 {
	if s.Hands == 0 {
		return 0
	}
	wins := s.Outcomes[session.Win].Hands + s.Outcomes[session.BlackjackWin].Hands
	return float64(wins) / float64(s.Hands)
}

// IsLedgerBalanced checks the outcome buckets add up to the total
func (s *Statistics) IsLedgerBalanced() bool {
	var buckets float64
	for _, o := range s.Outcomes {
		buckets += o.Sum
	}
	return math.Abs(s.AllNet-buckets) <= 1e-6 && math.Abs(s.AllNet-s.Sum) <= 1e-6
}

// Validate performs consistency checks on the collected data
func (s *Statistics) Validate() error {
	if !s.IsLedgerBalanced() {
		return fmt.Errorf("ledger mismatch: AllNet=%.6f, Sum=%.6f", s.AllNet, s.Sum)
	}
	if s.Hands <= 0 {
		return fmt.Errorf("invalid hands count: %d", s.Hands)
	}
	if len(s.Values) != s.Hands {
		return fmt.Errorf("values array length (%d) does not match hands count (%d)",
			len(s.Values), s.Hands)
	}

	total := 0
	for _, o := range s.Outcomes {
		total += o.Hands
	}
	if total != s.Hands {
		return fmt.Errorf("outcome hands total (%d) does not match total hands (%d)", total, s.Hands)
	}
	if s.Doubles > s.Hands || s.Splits > s.Hands {
		return fmt.Errorf("doubles (%d) or splits (%d) exceed total hands (%d)", s.Doubles, s.Splits, s.Hands)
	}
	return nil
}
