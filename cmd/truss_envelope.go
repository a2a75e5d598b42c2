package cmd

import (
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/alexiusacademia/gotruss/internal/loads"
	"github.com/alexiusacademia/gotruss/internal/stiffness"
	"github.com/alexiusacademia/gotruss/internal/truss"
)

var (
	envelopeFile       string
	envelopeSimplified bool
	envelopeAll        bool
	envelopeTolerance  float64
)

var errNoCases = errors.New("model file has no load cases (add a 'cases' entry)")

var trussEnvelopeCmd = &cobra.Command{
	Use:   "envelope",
	Short: "Member force envelope over NSCP load combinations",
	Long: `Compute member force envelopes based on NSCP 2015 load combinations.

The model file's 'cases' entry holds the unfactored joint loads of each load
type. They are factored with every load combination and applied at the joint
of the model's 'load' entry. The truss is solved once per combination and the
largest tension and compression of every member is reported.

Load Types:
  dead        - Dead load (D)
  live        - Live load (L)
  roof        - Roof live load (Lr)
  wind        - Wind load (W)
  earthquake  - Earthquake load (E)
  rain        - Rain load (R)

Example cases entry (YAML):
  cases:
    dead: {fx: 0, fy: -2}
    live: {fx: 0, fy: -1}
    wind: {fx: 0.5, fy: 0}

Examples:
  gotruss truss envelope -f model.yaml
  gotruss truss envelope -f model.yaml --simplified --all`,
	RunE: runTrussEnvelope,
}

func init() {
	trussCmd.AddCommand(trussEnvelopeCmd)

	trussEnvelopeCmd.Flags().StringVarP(&envelopeFile, "file", "f", "", "Truss model file with load cases")
	trussEnvelopeCmd.Flags().BoolVarP(&envelopeSimplified, "simplified", "s", false, "Use simplified combinations (gravity only: 1.4D and 1.2D+1.6L)")
	trussEnvelopeCmd.Flags().BoolVarP(&envelopeAll, "all", "a", false, "Show member forces for every load combination")
	trussEnvelopeCmd.Flags().Float64Var(&envelopeTolerance, "tolerance", truss.DefaultTolerance, "Coordinate tolerance for joint identity (0 = exact)")

	_ = trussEnvelopeCmd.MarkFlagRequired("file")
}

func runTrussEnvelope(cmd *cobra.Command, args []string) error {
	t, def, err := loadTruss(cmd, envelopeFile, envelopeTolerance)
	if err != nil {
		return err
	}
	if def.Cases == nil || def.Cases.IsZero() {
		return errNoCases
	}

	combinations := loads.LoadCombinations
	if envelopeSimplified {
		combinations = loads.SimplifiedCombinations
	}
	factored := loads.FactorAll(*def.Cases, combinations)

	env, err := stiffness.NewSolver(stiffness.WithLogger(logger)).Envelope(t, factored)
	if err != nil {
		return fmt.Errorf("envelope of %q failed: %w", t.Name(), err)
	}

	out := cmd.OutOrStdout()
	printHeader(out, "NSCP 2015 MEMBER FORCE ENVELOPE")
	fmt.Fprintf(out, "Truss: %s\n\n", t.Name())
	printCases(out, *def.Cases)
	printCombinations(out, env)

	if envelopeAll {
		printSection(out, "MEMBER FORCES PER COMBINATION:")
		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintf(w, "  Combo")
		for i := range t.Members() {
			fmt.Fprintf(w, "\tM%d", i+1)
		}
		fmt.Fprintln(w)
		for _, cr := range env.Combinations {
			fmt.Fprintf(w, "  %s", cr.Factored.Combination.ID)
			for _, q := range cr.Result.MemberForces {
				fmt.Fprintf(w, "\t%.4f", q)
			}
			fmt.Fprintln(w)
		}
		w.Flush()
		fmt.Fprintln(out)
	}

	printSection(out, "MEMBER ENVELOPE:")
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  Member\tMax tension\tCombo\tMax compression\tCombo\n")
	fmt.Fprintf(w, "  ──────\t───────────\t─────\t───────────────\t─────\n")
	for _, me := range env.Members {
		fmt.Fprintf(w, "  %d\t%.4f\t%s\t%.4f\t%s\n", me.Member,
			me.MaxTension, orDash(me.TensionCombo),
			me.MaxCompression, orDash(me.CompressionCombo))
	}
	w.Flush()
	fmt.Fprintln(out)
	return nil
}

func printCases(out io.Writer, c loads.Components) {
	printSection(out, "UNFACTORED JOINT LOADS:")
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for _, row := range []struct {
		name string
		f    loads.Force
	}{
		{"Dead Load (D)", c.Dead},
		{"Live Load (L)", c.Live},
		{"Roof Live Load (Lr)", c.Roof},
		{"Wind Load (W)", c.Wind},
		{"Earthquake Load (E)", c.Earthquake},
		{"Rain Load (R)", c.Rain},
	} {
		if !row.f.IsZero() {
			fmt.Fprintf(w, "  %s:\t%s\n", row.name, row.f)
		}
	}
	w.Flush()
	fmt.Fprintln(out)
}

func printCombinations(out io.Writer, env *stiffness.EnvelopeResult) {
	factored := make([]loads.Factored, 0, len(env.Combinations))
	for _, cr := range env.Combinations {
		factored = append(factored, cr.Factored)
	}
	gov, _ := loads.Governing(factored)

	printSection(out, "LOAD COMBINATIONS (NSCP 2015 Section 203.3):")
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  #\tCombination\tFx\tFy\t|P|\n")
	fmt.Fprintf(w, "  ─\t───────────\t──\t──\t───\n")
	for _, f := range factored {
		marker := ""
		if f.Combination.ID == gov.Combination.ID {
			marker = " ← GOVERNS"
		}
		fmt.Fprintf(w, "  %s\t%s\t%.3f\t%.3f\t%.3f%s\n", f.Combination.ID, f.Combination.Description,
			f.Force.Fx, f.Force.Fy, f.Force.Magnitude(), marker)
	}
	w.Flush()
	fmt.Fprintln(out)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
