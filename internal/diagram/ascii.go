package diagram

import (
	"fmt"
	"math"
	"strings"

	"github.com/alexiusacademia/gotruss/internal/geometry"
)

// MemberLine is a member with its solved axial force
type MemberLine struct {
	Near  geometry.Point
	Far   geometry.Point
	Force float64 // tension positive
}

// JointMark is a joint to draw
type JointMark struct {
	geometry.Point
	Support bool
}

// TrussDiagramData holds data for drawing a solved truss
type TrussDiagramData struct {
	Name    string
	Members []MemberLine
	Joints  []JointMark

	// Applied load
	LoadAt geometry.Point
	Fx     float64
	Fy     float64
}

// chartHalfWidth is the bar length of the largest force on each side
const chartHalfWidth = 20

// zeroForce returns the magnitude below which a member force is printed as zero
func zeroForce(maxAbs float64) float64 {
	return 1e-9 * math.Max(maxAbs, 1)
}

// ForceState classifies an axial force as T, C or 0
func ForceState(q, maxAbs float64) string {
	switch {
	case math.Abs(q) <= zeroForce(maxAbs):
		return "0"
	case q > 0:
		return "T"
	default:
		return "C"
	}
}

// DrawForceChart creates an ASCII bar chart of the member forces,
// compression to the left of the axis and tension to the right
func DrawForceChart(data TrussDiagramData) string {
	var sb strings.Builder

	sb.WriteString("\n")
	sb.WriteString("  MEMBER FORCE DIAGRAM\n")
	sb.WriteString("  ────────────────────\n\n")

	if len(data.Members) == 0 {
		sb.WriteString("  (no members)\n")
		return sb.String()
	}

	var maxAbs float64
	for _, m := range data.Members {
		maxAbs = math.Max(maxAbs, math.Abs(m.Force))
	}

	sb.WriteString(fmt.Sprintf("  %-5s %12s %*s│%s\n", "", "", chartHalfWidth, "compression ", " tension"))
	for i, m := range data.Members {
		state := ForceState(m.Force, maxAbs)

		n := 0
		if state != "0" {
			n = int(math.Round(math.Abs(m.Force) / maxAbs * chartHalfWidth))
			if n == 0 {
				n = 1
			}
		}

		left := strings.Repeat(" ", chartHalfWidth)
		right := ""
		if state == "C" {
			left = strings.Repeat(" ", chartHalfWidth-n) + strings.Repeat("█", n)
		} else if state == "T" {
			right = strings.Repeat("█", n)
		}

		sb.WriteString(fmt.Sprintf("  M%-4d %12.4f %s│%-*s %s\n", i+1, m.Force, left, chartHalfWidth, right, state))
	}

	sb.WriteString("\n")
	sb.WriteString("  Legend:\n")
	sb.WriteString("  T = Tension, C = Compression, 0 = Zero-force member\n")

	return sb.String()
}

// DrawSummaryBox creates a summary box for results
func DrawSummaryBox(title string, lines []string) string {
	var sb strings.Builder

	maxLen := len([]rune(title))
	for _, line := range lines {
		if n := len([]rune(line)); n > maxLen {
			maxLen = n
		}
	}
	maxLen += 4

	border := strings.Repeat("═", maxLen)
	sb.WriteString(fmt.Sprintf("  ╔%s╗\n", border))
	sb.WriteString(fmt.Sprintf("  ║  %-*s  ║\n", maxLen-4, title))
	sb.WriteString(fmt.Sprintf("  ╠%s╣\n", border))
	for _, line := range lines {
		sb.WriteString(fmt.Sprintf("  ║  %-*s  ║\n", maxLen-4, line))
	}
	sb.WriteString(fmt.Sprintf("  ╚%s╝\n", border))

	return sb.String()
}
