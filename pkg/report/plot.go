package report

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/SammyJoBron/Narrative-Abilities-of-Hearing-Impaired-Children/pkg/data"
	"github.com/SammyJoBron/Narrative-Abilities-of-Hearing-Impaired-Children/pkg/dataprep"
	"github.com/SammyJoBron/Narrative-Abilities-of-Hearing-Impaired-Children/pkg/model"
)

const bins = 10

var (
	rawColor  = color.RGBA{R: 50, G: 50, B: 255, A: 255}
	fitColor  = color.RGBA{R: 255, A: 255}
	plotSize  = 4 * vg.Inch
	wideWidth = 8 * vg.Inch
)

// FileName turns a label into a safe PNG file name.
func FileName(parts ...string) string {
	name := strings.Join(parts, "_")
	name = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return '-'
	}, name)
	return name + ".png"
}

// TransformHistogram draws the raw distribution of a variable next to the
// distribution after its chosen transform.
func TransformHistogram(path string, before, after []float64, dec dataprep.Decision) error {
	left, err := histogram(data.NonMissing(before), fmt.Sprintf("%s raw (|skew| %.3f)", dec.Column, dec.Original()))
	if err != nil {
		return err
	}
	right, err := histogram(data.NonMissing(after), fmt.Sprintf("%s %s (|skew| %.3f)", dec.Column, dec.Chosen, dec.Skew()))
	if err != nil {
		return err
	}

	img := vgimg.New(wideWidth, plotSize)
	tiles := draw.Tiles{Rows: 1, Cols: 2, PadX: vg.Millimeter, PadY: vg.Millimeter}
	canvases := plot.Align([][]*plot.Plot{{left, right}}, tiles, draw.New(img))
	left.Draw(canvases[0][0])
	right.Draw(canvases[0][1])
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := (vgimg.PngCanvas{Canvas: img}).WriteTo(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func histogram(values []float64, title string) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = title
	p.Y.Label.Text = "Subjects"
	if len(values) == 0 {
		return p, nil
	}
	h, err := plotter.NewHist(plotter.Values(values), bins)
	if err != nil {
		return nil, err
	}
	h.FillColor = rawColor
	p.Add(h)
	return p, nil
}

// RegressionPlot draws the complete (x, y) pairs and the fitted line.
func RegressionPlot(path, xLabel, yLabel string, x, y []float64, fit *model.SimpleRegression) error {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s ~ %s (R² %.3f, p %.3g)", yLabel, xLabel, fit.R2, fit.P)
	p.X.Label.Text = xLabel
	p.Y.Label.Text = yLabel

	pts := make(plotter.XYs, 0, len(x))
	for i := range x {
		if data.IsMissing(x[i]) || data.IsMissing(y[i]) {
			continue
		}
		pts = append(pts, plotter.XY{X: x[i], Y: y[i]})
	}
	s, err := plotter.NewScatter(pts)
	if err != nil {
		return err
	}
	s.Color = rawColor
	s.Shape = draw.CircleGlyph{}
	p.Add(s)

	line := plotter.NewFunction(func(v float64) float64 { return fit.Intercept + fit.Slope*v })
	line.Color = fitColor
	line.Width = vg.Points(2)
	p.Add(line)

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return p.Save(plotSize, plotSize, path)
}
