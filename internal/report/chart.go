package report

import (
	"github.com/vicanso/go-charts/v2"

	"github.com/quantfolio/quantfolio/internal/core"
	"github.com/quantfolio/quantfolio/internal/portfolio"
)

// EquityChart renders the simulated portfolio value as a PNG line
// chart.
func EquityChart(states []portfolio.State) ([]byte, error) {
	if len(states) < 2 {
		return nil, core.ErrInsufficientData
	}

	values := make([]float64, len(states))
	labels := make([]string, len(states))
	yMin, yMax := states[0].TotalValue, states[0].TotalValue
	for i, s := range states {
		values[i] = s.TotalValue
		labels[i] = s.Time.Format("Jan 02")
		if s.TotalValue < yMin {
			yMin = s.TotalValue
		}
		if s.TotalValue > yMax {
			yMax = s.TotalValue
		}
	}

	// Pad the y-range so the curve doesn't hug the frame.
	pad := (yMax - yMin) * 0.05
	if pad < yMax*0.002 {
		pad = yMax * 0.002
	}
	yMin -= pad
	if yMin < 0 {
		yMin = 0
	}
	yMax += pad

	painter, err := charts.LineRender([][]float64{values},
		charts.TitleTextOptionFunc("Portfolio Value"),
		charts.XAxisOptionFunc(charts.XAxisOption{
			Data:        labels,
			BoundaryGap: charts.FalseFlag(),
			SplitNumber: 10,
		}),
		charts.YAxisOptionFunc(charts.YAxisOption{Min: &yMin, Max: &yMax, DivideCount: 5}),
		charts.ThemeOptionFunc(charts.ThemeLight),
	)
	if err != nil {
		return nil, err
	}
	return painter.Bytes()
}
