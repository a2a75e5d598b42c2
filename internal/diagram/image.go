package diagram

import (
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/alexiusacademia/gotruss/internal/geometry"
)

var (
	tensionColor     = color.RGBA{R: 0, G: 0, B: 200, A: 255}
	compressionColor = color.RGBA{R: 200, G: 0, B: 0, A: 255}
	zeroColor        = color.Gray{Y: 128}
	loadColor        = color.RGBA{R: 0, G: 128, B: 0, A: 255}
)

// ExportTrussDiagram exports the solved truss to an image file. Members are
// drawn blue in tension and red in compression, with their force as label.
// The format follows the file extension (png, svg, pdf); anything else is
// saved as png.
func ExportTrussDiagram(data TrussDiagramData, filename string) error {
	p := plot.New()
	p.Title.Text = "Truss Analysis"
	if data.Name != "" {
		p.Title.Text = data.Name
	}
	p.X.Label.Text = "x"
	p.Y.Label.Text = "y"

	var maxAbs float64
	for _, m := range data.Members {
		maxAbs = math.Max(maxAbs, math.Abs(m.Force))
	}

	var labelPts []plotter.XY
	var labels []string
	for _, m := range data.Members {
		line, err := plotter.NewLine(plotter.XYs{
			{X: m.Near.X, Y: m.Near.Y},
			{X: m.Far.X, Y: m.Far.Y},
		})
		if err != nil {
			return err
		}
		line.LineStyle.Width = vg.Points(2)
		switch ForceState(m.Force, maxAbs) {
		case "T":
			line.LineStyle.Color = tensionColor
		case "C":
			line.LineStyle.Color = compressionColor
		default:
			line.LineStyle.Color = zeroColor
			line.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
		}
		p.Add(line)

		labelPts = append(labelPts, plotter.XY{X: (m.Near.X + m.Far.X) / 2, Y: (m.Near.Y + m.Far.Y) / 2})
		labels = append(labels, fmt.Sprintf("%.3g %s", m.Force, ForceState(m.Force, maxAbs)))
	}

	// Joints and supports
	var free, supports plotter.XYs
	for _, j := range data.Joints {
		if j.Support {
			supports = append(supports, plotter.XY{X: j.X, Y: j.Y})
		} else {
			free = append(free, plotter.XY{X: j.X, Y: j.Y})
		}
	}
	if len(free) > 0 {
		s, err := plotter.NewScatter(free)
		if err != nil {
			return err
		}
		s.GlyphStyle.Color = color.Black
		s.GlyphStyle.Radius = vg.Points(4)
		s.GlyphStyle.Shape = draw.CircleGlyph{}
		p.Add(s)
	}
	if len(supports) > 0 {
		s, err := plotter.NewScatter(supports)
		if err != nil {
			return err
		}
		s.GlyphStyle.Color = color.Black
		s.GlyphStyle.Radius = vg.Points(6)
		s.GlyphStyle.Shape = draw.TriangleGlyph{}
		p.Add(s)
	}

	// Load arrow, scaled to a fifth of the truss span
	if data.Fx != 0 || data.Fy != 0 {
		arrow, err := loadArrow(data)
		if err != nil {
			return err
		}
		p.Add(arrow)
		labelPts = append(labelPts, plotter.XY{X: data.LoadAt.X, Y: data.LoadAt.Y})
		labels = append(labels, fmt.Sprintf("P = (%.3g, %.3g)", data.Fx, data.Fy))
	}

	if len(labels) > 0 {
		l, err := plotter.NewLabels(plotter.XYLabels{XYs: labelPts, Labels: labels})
		if err != nil {
			return err
		}
		p.Add(l)
	}

	// Determine file format from extension
	ext := filepath.Ext(filename)
	width := 8 * vg.Inch
	height := 6 * vg.Inch

	// Create directory if needed
	dir := filepath.Dir(filename)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	switch ext {
	case ".png", ".svg", ".pdf":
		return p.Save(width, height, filename)
	default:
		return p.Save(width, height, filename+".png")
	}
}

// loadArrow draws the applied load as a line ending at the loaded joint
func loadArrow(data TrussDiagramData) (*plotter.Line, error) {
	var pts []geometry.Point
	for _, j := range data.Joints {
		pts = append(pts, j.Point)
	}
	minX, maxX, minY, maxY := geometry.Bounds(pts)
	span := math.Max(maxX-minX, maxY-minY)
	if span == 0 {
		span = 1
	}

	mag := math.Hypot(data.Fx, data.Fy)
	tail := plotter.XY{
		X: data.LoadAt.X - data.Fx/mag*span/5,
		Y: data.LoadAt.Y - data.Fy/mag*span/5,
	}

	line, err := plotter.NewLine(plotter.XYs{tail, {X: data.LoadAt.X, Y: data.LoadAt.Y}})
	if err != nil {
		return nil, err
	}
	line.LineStyle.Width = vg.Points(3)
	line.LineStyle.Color = loadColor
	return line, nil
}
