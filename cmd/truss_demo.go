package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexiusacademia/gotruss/internal/diagram"
	"github.com/alexiusacademia/gotruss/internal/geometry"
	"github.com/alexiusacademia/gotruss/internal/stiffness"
	"github.com/alexiusacademia/gotruss/internal/truss"
)

// demoTruss is a worked example
type demoTruss struct {
	name    string
	members [][2]truss.JointSpec
	loadAt  geometry.Point
	fx, fy  float64
}

var demoTrusses = []demoTruss{
	{
		name: "My first truss",
		members: [][2]truss.JointSpec{
			{{X: 0, Y: 0}, {X: 3, Y: 0, Support: true}},
			{{X: 0, Y: 0}, {X: 3, Y: 4, Support: true}},
		},
		loadAt: geometry.Point{X: 0, Y: 0},
		fx:     0,
		fy:     -2,
	},
	{
		name: "My second truss",
		members: [][2]truss.JointSpec{
			{{X: 4, Y: 4}, {X: 0, Y: 0, Support: true}},
			{{X: 4, Y: 4}, {X: 4, Y: 0, Support: true}},
			{{X: 4, Y: 4}, {X: 7, Y: 0, Support: true}},
		},
		loadAt: geometry.Point{X: 4, Y: 4},
		fx:     -500,
		fy:     0,
	},
}

var trussDemoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Solve the worked example trusses",
	Long: `Solve two worked examples and print their full reports.

  My first truss   - two bars from a loaded joint at (0, 0) to supports
                     at (3, 0) and (3, 4), P = (0, -2)
  My second truss  - three bars from a loaded joint at (4, 4) to supports
                     at (0, 0), (4, 0) and (7, 0), P = (-500, 0)`,
	RunE: runTrussDemo,
}

func init() {
	trussCmd.AddCommand(trussDemoCmd)
}

func (d demoTruss) build() (*truss.Truss, error) {
	t := truss.New(d.name)
	for i, m := range d.members {
		if err := t.AddMember(m[0], m[1]); err != nil {
			return nil, fmt.Errorf("member %d: %w", i+1, err)
		}
	}
	if err := t.AddLoad(d.loadAt, d.fx, d.fy); err != nil {
		return nil, err
	}
	return t, nil
}

func runTrussDemo(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	solver := stiffness.NewSolver(stiffness.WithLogger(logger))

	for _, d := range demoTrusses {
		t, err := d.build()
		if err != nil {
			return fmt.Errorf("%s: %w", d.name, err)
		}
		fmt.Fprint(out, t)

		res, err := solver.Solve(t)
		if err != nil {
			return fmt.Errorf("analysis of %q failed: %w", d.name, err)
		}
		printSolveReport(out, t, res)
		fmt.Fprint(out, diagram.DrawForceChart(diagramData(t, res)))
	}
	return nil
}
