package shoe

import (
	"fmt"
	"strconv"
	"strings"
)

type penetrationKind int

const (
	fullShoe penetrationKind = iota
	randomPenetration
	fixedPercentage
)

// RandomChoices are the depths a RandomPenetration picks from, once per shuffle.
var RandomChoices = []float64{0.5, 0.6, 0.7, 0.75}

// Penetration is how deep the shoe is dealt before a reshuffle. The zero
// value is FullShoe.
type Penetration struct {
	kind     penetrationKind
	fraction float64
}

// FullShoe deals every card; no cut marker is inserted.
func FullShoe() Penetration { return Penetration{kind: fullShoe} }

// RandomPenetration picks one of RandomChoices on every shuffle.
func RandomPenetration() Penetration { return Penetration{kind: randomPenetration} }

// FixedPercentage places the cut marker at fraction p of the shoe, p in (0,1].
func FixedPercentage(p float64) Penetration {
	return Penetration{kind: fixedPercentage, fraction: p}
}

// IsFull reports whether no cut marker is used.
func (p Penetration) IsFull() bool { return p.kind == fullShoe }

// IsRandom reports whether the depth is chosen per shuffle.
func (p Penetration) IsRandom() bool { return p.kind == randomPenetration }

// Fraction returns the fixed fraction, or zero for the other variants.
func (p Penetration) Fraction() float64 {
	if p.kind != fixedPercentage {
		return 0
	}
	return p.fraction
}

// Valid reports whether a fixed percentage lies in (0,1].
func (p Penetration) Valid() bool {
	if p.kind != fixedPercentage {
		return true
	}
	return p.fraction > 0 && p.fraction <= 1
}

func (p Penetration) String() string {
	switch p.kind {
	case fullShoe:
		return "full"
	case randomPenetration:
		return "random"
	default:
		return strconv.FormatFloat(p.fraction, 'f', -1, 64)
	}
}

// ParsePenetration accepts "full", "random", a fraction such as "0.75" or a
// percentage such as "75%".
func ParsePenetration(s string) (Penetration, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "", "full":
		return FullShoe(), nil
	case "random":
		return RandomPenetration(), nil
	}

	percent := strings.HasSuffix(s, "%")
	f, err := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
	if err != nil {
		return Penetration{}, fmt.Errorf("invalid penetration %q: %w", s, err)
	}
	if percent {
		f /= 100
	}
	p := FixedPercentage(f)
	if !p.Valid() {
		return Penetration{}, fmt.Errorf("penetration %q must be in (0,1]", s)
	}
	return p, nil
}
