package loads

import (
	"fmt"
	"math"
)

// Force is a joint load vector
type Force struct {
	Fx float64 `json:"fx" yaml:"fx"`
	Fy float64 `json:"fy" yaml:"fy"`
}

// Magnitude returns the length of the force vector
func (f Force) Magnitude() float64 {
	return math.Hypot(f.Fx, f.Fy)
}

// IsZero reports whether both components are zero
func (f Force) IsZero() bool {
	return f.Fx == 0 && f.Fy == 0
}

func (f Force) String() string {
	return fmt.Sprintf("(%g, %g)", f.Fx, f.Fy)
}

// Components holds unfactored joint loads from different load types
type Components struct {
	Dead       Force `json:"dead" yaml:"dead"`             // D
	Live       Force `json:"live" yaml:"live"`             // L
	Roof       Force `json:"roof" yaml:"roof"`             // Lr
	Wind       Force `json:"wind" yaml:"wind"`             // W
	Earthquake Force `json:"earthquake" yaml:"earthquake"` // E
	Rain       Force `json:"rain" yaml:"rain"`             // R
}

// IsZero reports whether no load type carries a load
func (c Components) IsZero() bool {
	return c.Dead.IsZero() && c.Live.IsZero() && c.Roof.IsZero() &&
		c.Wind.IsZero() && c.Earthquake.IsZero() && c.Rain.IsZero()
}

// LoadCombination represents an NSCP load combination
// Based on NSCP 2015 Section 203.3 - Load Combinations Using Strength Design
type LoadCombination struct {
	ID          string
	Description string
	// Load factors for each load type
	Dead       float64 // D - Dead load
	Live       float64 // L - Live load
	Roof       float64 // Lr - Roof live load
	Wind       float64 // W - Wind load
	Earthquake float64 // E - Earthquake load
	Rain       float64 // R - Rain load
}

// NSCP 2015 Section 203.3.1 - Basic Load Combinations.
// Alternatives written "(Lr or R)" and "(1.0L or 0.5W)" are separate
// entries, so no combination carries both sides of an "or".
var LoadCombinations = []LoadCombination{
	{
		ID:          "1",
		Description: "1.4D",
		Dead:        1.4,
	},
	{
		ID:          "2a",
		Description: "1.2D + 1.6L + 0.5Lr",
		Dead:        1.2,
		Live:        1.6,
		Roof:        0.5,
	},
	{
		ID:          "2b",
		Description: "1.2D + 1.6L + 0.5R",
		Dead:        1.2,
		Live:        1.6,
		Rain:        0.5,
	},
	{
		ID:          "3a",
		Description: "1.2D + 1.6Lr + 1.0L",
		Dead:        1.2,
		Roof:        1.6,
		Live:        1.0,
	},
	{
		ID:          "3b",
		Description: "1.2D + 1.6Lr + 0.5W",
		Dead:        1.2,
		Roof:        1.6,
		Wind:        0.5,
	},
	{
		ID:          "3c",
		Description: "1.2D + 1.6R + 1.0L",
		Dead:        1.2,
		Rain:        1.6,
		Live:        1.0,
	},
	{
		ID:          "3d",
		Description: "1.2D + 1.6R + 0.5W",
		Dead:        1.2,
		Rain:        1.6,
		Wind:        0.5,
	},
	{
		ID:          "4a",
		Description: "1.2D + 1.0W + 1.0L + 0.5Lr",
		Dead:        1.2,
		Wind:        1.0,
		Live:        1.0,
		Roof:        0.5,
	},
	{
		ID:          "4b",
		Description: "1.2D + 1.0W + 1.0L + 0.5R",
		Dead:        1.2,
		Wind:        1.0,
		Live:        1.0,
		Rain:        0.5,
	},
	{
		ID:          "5",
		Description: "1.2D + 1.0E + 1.0L",
		Dead:        1.2,
		Live:        1.0,
		Earthquake:  1.0,
	},
	{
		ID:          "6",
		Description: "0.9D + 1.0W",
		Dead:        0.9,
		Wind:        1.0,
	},
	{
		ID:          "7",
		Description: "0.9D + 1.0E",
		Dead:        0.9,
		Earthquake:  1.0,
	},
}

// SimplifiedCombinations covers gravity loads only
var SimplifiedCombinations = []LoadCombination{
	{
		ID:          "1",
		Description: "1.4D",
		Dead:        1.4,
	},
	{
		ID:          "2",
		Description: "1.2D + 1.6L",
		Dead:        1.2,
		Live:        1.6,
	},
}

// Factor returns the factored joint load for this combination
func (lc LoadCombination) Factor(c Components) Force {
	return Force{
		Fx: lc.Dead*c.Dead.Fx +
			lc.Live*c.Live.Fx +
			lc.Roof*c.Roof.Fx +
			lc.Wind*c.Wind.Fx +
			lc.Earthquake*c.Earthquake.Fx +
			lc.Rain*c.Rain.Fx,
		Fy: lc.Dead*c.Dead.Fy +
			lc.Live*c.Live.Fy +
			lc.Roof*c.Roof.Fy +
			lc.Wind*c.Wind.Fy +
			lc.Earthquake*c.Earthquake.Fy +
			lc.Rain*c.Rain.Fy,
	}
}

// Factored is a combination together with its factored load
type Factored struct {
	Combination LoadCombination
	Force       Force
}

// FactorAll factors the components with every combination, in order
func FactorAll(c Components, combinations []LoadCombination) []Factored {
	out := make([]Factored, 0, len(combinations))
	for _, combo := range combinations {
		out = append(out, Factored{Combination: combo, Force: combo.Factor(c)})
	}
	return out
}

// Governing returns the factored load with the largest magnitude.
// Ties go to the earlier combination.
func Governing(factored []Factored) (Factored, bool) {
	if len(factored) == 0 {
		return Factored{}, false
	}

	gov := factored[0]
	for _, f := range factored[1:] {
		if f.Force.Magnitude() > gov.Force.Magnitude() {
			gov = f
		}
	}
	return gov, true
}
