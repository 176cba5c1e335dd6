package portfolio

import (
	"math"

	"github.com/montanaflynn/stats"
	"github.com/quantfolio/quantfolio/internal/core"
)

// Correlation computes the Pearson correlation matrix of the assets'
// daily simple returns. Assets are returned in the same deterministic
// order as the matrix rows. A degenerate pair (flat series) reads 0
// off the diagonal rather than NaN.
func Correlation(prices map[string]core.PriceSeries) ([]string, [][]float64, error) {
	assets, err := validateAligned(prices)
	if err != nil {
		return nil, nil, err
	}
	if len(prices[assets[0]]) < 3 {
		return nil, nil, core.ErrInsufficientData
	}

	returns := make(map[string][]float64, len(assets))
	for _, a := range assets {
		returns[a] = prices[a].Returns()
	}

	matrix := make([][]float64, len(assets))
	for i, a := range assets {
		matrix[i] = make([]float64, len(assets))
		for j, b := range assets {
			if i == j {
				matrix[i][j] = 1
				continue
			}
			r, err := stats.Pearson(returns[a], returns[b])
			if err != nil || math.IsNaN(r) {
				r = 0
			}
			matrix[i][j] = r
		}
	}

	return assets, matrix, nil
}
