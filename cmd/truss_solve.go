package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/alexiusacademia/gotruss/internal/diagram"
	"github.com/alexiusacademia/gotruss/internal/stiffness"
	"github.com/alexiusacademia/gotruss/internal/truss"
)

var (
	solveFile           string
	solveJSON           bool
	solveDiagram        bool
	solveOutput         string
	solveTolerance      float64
	solveConditionLimit float64
)

var trussSolveCmd = &cobra.Command{
	Use:   "solve",
	Short: "Solve a truss model file",
	Long: `Solve a plane truss described in a model file.

Joints are numbered in the order their coordinates first appear in the
member list. Each joint owns two consecutive DOFs (x then y). Joints marked
as supports are pinned; all others are free.

Output:
  - Joint coordinates and DOF numbers
  - Displacements of the free DOFs
  - Support reactions
  - Member axial forces (tension positive)
  - Global equilibrium check

Examples:
  gotruss truss solve -f model.yaml
  gotruss truss solve -f model.json --json
  gotruss truss solve -f model.yaml --diagram -o truss.png`,
	RunE: runTrussSolve,
}

func init() {
	trussCmd.AddCommand(trussSolveCmd)

	trussSolveCmd.Flags().StringVarP(&solveFile, "file", "f", "", "Truss model file (.yaml, .yml, .json, .jsonc)")
	trussSolveCmd.Flags().BoolVar(&solveJSON, "json", false, "Print results as JSON")
	trussSolveCmd.Flags().BoolVar(&solveDiagram, "diagram", false, "Print an ASCII member force chart")
	trussSolveCmd.Flags().StringVarP(&solveOutput, "output", "o", "", "Export a truss diagram image (.png, .svg, .pdf)")
	trussSolveCmd.Flags().Float64Var(&solveTolerance, "tolerance", truss.DefaultTolerance, "Coordinate tolerance for joint identity (0 = exact)")
	trussSolveCmd.Flags().Float64Var(&solveConditionLimit, "condition-limit", stiffness.DefaultConditionLimit, "Largest accepted condition number of the free-DOF stiffness block")

	_ = trussSolveCmd.MarkFlagRequired("file")
}

// loadTruss reads a model file and builds the truss. The tolerance flag
// only overrides the file when given explicitly.
func loadTruss(cmd *cobra.Command, path string, tolerance float64) (*truss.Truss, *truss.Definition, error) {
	def, err := truss.LoadFromFile(path)
	if err != nil {
		return nil, nil, err
	}

	var opts []truss.Option
	if cmd.Flags().Changed("tolerance") {
		opts = append(opts, truss.WithTolerance(tolerance))
	}
	t, err := def.Build(opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build %s: %w", path, err)
	}

	logger.Debug("loaded truss model",
		zap.String("file", path),
		zap.String("name", t.Name()),
		zap.Int("members", len(t.Members())),
		zap.Int("joints", len(t.Joints())),
		zap.Int("dofs", t.DOFCount()))
	return t, def, nil
}

func runTrussSolve(cmd *cobra.Command, args []string) error {
	t, _, err := loadTruss(cmd, solveFile, solveTolerance)
	if err != nil {
		return err
	}

	solver := stiffness.NewSolver(
		stiffness.WithLogger(logger),
		stiffness.WithConditionLimit(solveConditionLimit),
	)
	res, err := solver.Solve(t)
	if err != nil {
		return fmt.Errorf("analysis of %q failed: %w", t.Name(), err)
	}

	out := cmd.OutOrStdout()
	if solveJSON {
		if err := writeJSONReport(out, t, res); err != nil {
			return err
		}
	} else {
		printSolveReport(out, t, res)
		if solveDiagram {
			fmt.Fprint(out, diagram.DrawForceChart(diagramData(t, res)))
		}
	}

	if solveOutput != "" {
		if err := diagram.ExportTrussDiagram(diagramData(t, res), solveOutput); err != nil {
			return fmt.Errorf("failed to export diagram: %w", err)
		}
		logger.Debug("exported truss diagram", zap.String("file", solveOutput))
		if !solveJSON {
			fmt.Fprintf(out, "\nDiagram exported to: %s\n", solveOutput)
		}
	}
	return nil
}
