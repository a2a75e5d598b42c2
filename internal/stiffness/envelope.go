package stiffness

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/alexiusacademia/gotruss/internal/loads"
	"github.com/alexiusacademia/gotruss/internal/truss"
)

// CombinationResult is the analysis of one factored load
type CombinationResult struct {
	Factored loads.Factored
	Result   *Result
}

// MemberEnvelope holds the extreme axial forces of one member
type MemberEnvelope struct {
	Member           int     // 1-based member number
	MaxTension       float64 // >= 0
	TensionCombo     string  // combination ID, empty if never in tension
	MaxCompression   float64 // <= 0
	CompressionCombo string  // combination ID, empty if never in compression
}

// EnvelopeResult holds the per-combination analyses and member envelopes
type EnvelopeResult struct {
	Combinations []CombinationResult
	Members      []MemberEnvelope
}

// Envelope analyses the truss once per factored load, each applied at the
// joint of the truss's own load, and collects the extreme member forces.
// The truss is not modified.
func (s *Solver) Envelope(t *truss.Truss, factored []loads.Factored) (*EnvelopeResult, error) {
	base, ok := t.Load()
	if !ok {
		return nil, truss.ErrMissingLoad
	}

	env := &EnvelopeResult{
		Members: make([]MemberEnvelope, len(t.Members())),
	}
	for i := range env.Members {
		env.Members[i].Member = i + 1
	}

	for _, fl := range factored {
		load := base
		load.Fx, load.Fy = fl.Force.Fx, fl.Force.Fy

		res, err := s.solve(t, load)
		if err != nil {
			return nil, fmt.Errorf("combination %s (%s): %w", fl.Combination.ID, fl.Combination.Description, err)
		}
		s.logger.Debug("solved load combination",
			zap.String("combination", fl.Combination.ID),
			zap.Float64("fx", load.Fx),
			zap.Float64("fy", load.Fy))

		env.Combinations = append(env.Combinations, CombinationResult{Factored: fl, Result: res})
		for i, q := range res.MemberForces {
			me := &env.Members[i]
			if q > me.MaxTension {
				me.MaxTension = q
				me.TensionCombo = fl.Combination.ID
			}
			if q < me.MaxCompression {
				me.MaxCompression = q
				me.CompressionCombo = fl.Combination.ID
			}
		}
	}

	return env, nil
}
