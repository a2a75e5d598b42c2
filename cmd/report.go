package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/alexiusacademia/gotruss/internal/diagram"
	"github.com/alexiusacademia/gotruss/internal/stiffness"
	"github.com/alexiusacademia/gotruss/internal/truss"
)

const rule = "───────────────────────────────────────────────────────────────"

func printHeader(out io.Writer, title string) {
	fmt.Fprintln(out)
	fmt.Fprintln(out, "═══════════════════════════════════════════════════════════════")
	fmt.Fprintf(out, "          %s\n", title)
	fmt.Fprintln(out, "═══════════════════════════════════════════════════════════════")
	fmt.Fprintln(out)
}

func printSection(out io.Writer, title string) {
	fmt.Fprintln(out, title)
	fmt.Fprintln(out, rule)
}

// printSolveReport writes the full analysis of a truss
func printSolveReport(out io.Writer, t *truss.Truss, res *stiffness.Result) {
	printHeader(out, "PLANE TRUSS ANALYSIS (DIRECT STIFFNESS)")
	fmt.Fprintf(out, "Truss: %s\n\n", t.Name())

	printSection(out, "JOINTS:")
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  Joint\tx\ty\tDOF x\tDOF y\tSupport\n")
	for i, j := range t.Joints() {
		support := ""
		if j.Support {
			support = "pinned"
		}
		fmt.Fprintf(w, "  %d\t%g\t%g\t%d\t%d\t%s\n", i+1, j.X, j.Y, j.DOFX, j.DOFY, support)
	}
	w.Flush()
	fmt.Fprintln(out)

	printSection(out, "MEMBERS:")
	w = tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  Member\tNear\tFar\tLength\tDOFs\n")
	for i, m := range t.Members() {
		fmt.Fprintf(w, "  %d\t%s\t%s\t%.4f\t%v\n", i+1, m.Near.Point, m.Far.Point, m.Length(), m.DOFs())
	}
	w.Flush()
	fmt.Fprintln(out)

	printSection(out, "APPLIED LOAD:")
	fmt.Fprintf(out, "  P = (%g, %g) at %s, DOFs [%d %d]\n\n", res.Load.Fx, res.Load.Fy, res.Load.At, res.Load.DOFX, res.Load.DOFY)

	printSection(out, "DISPLACEMENTS (free DOFs):")
	w = tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	if len(res.FreeDOFs) == 0 {
		fmt.Fprintf(w, "  (every joint is a support)\n")
	}
	for _, dof := range res.FreeDOFs {
		fmt.Fprintf(w, "  d%d\t%12.6f\n", dof, res.Displacement(dof))
	}
	w.Flush()
	fmt.Fprintln(out)

	printSection(out, "SUPPORT REACTIONS:")
	w = tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for i, dof := range res.ReactionDOFs {
		fmt.Fprintf(w, "  R%d\t%s\t%12.6f\n", dof, dofAxis(dof), res.Reactions[i])
	}
	w.Flush()
	fmt.Fprintln(out)

	printSection(out, "MEMBER FORCES:")
	w = tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	maxAbs := maxAbsForce(res.MemberForces)
	for i, q := range res.MemberForces {
		fmt.Fprintf(w, "  Member %d\t%12.6f\t%s\n", i+1, q, stateName(diagram.ForceState(q, maxAbs)))
	}
	w.Flush()
	fmt.Fprintln(out)

	rx, ry := res.Equilibrium()
	printSection(out, "EQUILIBRIUM CHECK:")
	w = tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  ΣFx (reactions + load):\t%.3e\n", rx)
	fmt.Fprintf(w, "  ΣFy (reactions + load):\t%.3e\n", ry)
	fmt.Fprintf(w, "  Condition number:\t%.3e\n", res.Condition)
	w.Flush()
	fmt.Fprintln(out)

	var lines []string
	for i, q := range res.MemberForces {
		lines = append(lines, fmt.Sprintf("Member %d: %10.4f  %s", i+1, q, diagram.ForceState(q, maxAbs)))
	}
	fmt.Fprint(out, diagram.DrawSummaryBox("MEMBER FORCES", lines))
}

func dofAxis(dof int) string {
	if dof%2 == 1 {
		return "x"
	}
	return "y"
}

func stateName(state string) string {
	switch state {
	case "T":
		return "Tension"
	case "C":
		return "Compression"
	default:
		return "Zero-force"
	}
}

func maxAbsForce(forces []float64) float64 {
	var m float64
	for _, q := range forces {
		if q < 0 {
			q = -q
		}
		if q > m {
			m = q
		}
	}
	return m
}

// diagramData converts a solved truss for drawing
func diagramData(t *truss.Truss, res *stiffness.Result) diagram.TrussDiagramData {
	data := diagram.TrussDiagramData{
		Name:   t.Name(),
		LoadAt: res.Load.At,
		Fx:     res.Load.Fx,
		Fy:     res.Load.Fy,
	}
	for i, m := range t.Members() {
		data.Members = append(data.Members, diagram.MemberLine{
			Near:  m.Near.Point,
			Far:   m.Far.Point,
			Force: res.MemberForces[i],
		})
	}
	for _, j := range t.Joints() {
		data.Joints = append(data.Joints, diagram.JointMark{Point: j.Point, Support: j.Support})
	}
	return data
}

type jointReport struct {
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Support bool    `json:"support"`
	DOFs    [2]int  `json:"dofs"`
}

type memberReport struct {
	Near   int     `json:"near"`
	Far    int     `json:"far"`
	Length float64 `json:"length"`
	DOFs   [4]int  `json:"dofs"`
	Force  float64 `json:"force"`
	State  string  `json:"state"`
}

type loadReport struct {
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Fx   float64 `json:"fx"`
	Fy   float64 `json:"fy"`
	DOFs [2]int  `json:"dofs"`
}

type reactionReport struct {
	DOF   int     `json:"dof"`
	Axis  string  `json:"axis"`
	Value float64 `json:"value"`
}

type solveReport struct {
	Name          string           `json:"name"`
	Joints        []jointReport    `json:"joints"`
	Members       []memberReport   `json:"members"`
	Load          loadReport       `json:"load"`
	Displacements map[int]float64  `json:"displacements"`
	Reactions     []reactionReport `json:"reactions"`
	Equilibrium   [2]float64       `json:"equilibrium"`
	Condition     float64          `json:"condition"`
}

// writeJSONReport writes the analysis as indented JSON
func writeJSONReport(out io.Writer, t *truss.Truss, res *stiffness.Result) error {
	joints := t.Joints()
	index := make(map[[2]int]int, len(joints))
	r := solveReport{
		Name:          t.Name(),
		Displacements: make(map[int]float64, len(res.FreeDOFs)),
		Condition:     res.Condition,
	}
	r.Load = loadReport{
		X:    res.Load.At.X,
		Y:    res.Load.At.Y,
		Fx:   res.Load.Fx,
		Fy:   res.Load.Fy,
		DOFs: [2]int{res.Load.DOFX, res.Load.DOFY},
	}
	for i, j := range joints {
		index[j.DOFs()] = i + 1
		r.Joints = append(r.Joints, jointReport{X: j.X, Y: j.Y, Support: j.Support, DOFs: j.DOFs()})
	}

	maxAbs := maxAbsForce(res.MemberForces)
	for i, m := range t.Members() {
		r.Members = append(r.Members, memberReport{
			Near:   index[m.Near.DOFs()],
			Far:    index[m.Far.DOFs()],
			Length: m.Length(),
			DOFs:   m.DOFs(),
			Force:  res.MemberForces[i],
			State:  diagram.ForceState(res.MemberForces[i], maxAbs),
		})
	}
	for _, dof := range res.FreeDOFs {
		r.Displacements[dof] = res.Displacement(dof)
	}
	for i, dof := range res.ReactionDOFs {
		r.Reactions = append(r.Reactions, reactionReport{DOF: dof, Axis: dofAxis(dof), Value: res.Reactions[i]})
	}
	r.Equilibrium[0], r.Equilibrium[1] = res.Equilibrium()

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}
