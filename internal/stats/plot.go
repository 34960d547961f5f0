package stats

import (
	"fmt"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// SaveResidualPlot writes a scatter of residuals against the tier, with a
// zero reference line, to path. The image format follows the extension.
func SaveResidualPlot(path, title string, x, residuals []float64) error {
	if len(x) != len(residuals) {
		return fmt.Errorf("residual plot: %d x values for %d residuals", len(x), len(residuals))
	}
	pts := make(plotter.XYs, len(x))
	for i := range x {
		pts[i].X = x[i]
		pts[i].Y = residuals[i]
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Independent variable x"
	p.Y.Label.Text = "Residuals"

	scatter, err := plotter.NewScatter(pts)
	if err != nil {
		return fmt.Errorf("residual plot: %w", err)
	}
	zero := plotter.NewFunction(func(float64) float64 { return 0 })
	zero.Dashes = []vg.Length{vg.Points(2), vg.Points(2)}
	p.Add(scatter, zero, plotter.NewGrid())

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("residual plot: %w", err)
		}
	}
	if err := p.Save(6*vg.Inch, 4*vg.Inch, path); err != nil {
		return fmt.Errorf("save residual plot %s: %w", path, err)
	}
	return nil
}
