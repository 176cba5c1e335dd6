package portfolio

import (
	"testing"

	"github.com/quantfolio/quantfolio/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCorrelation_ScaledCopiesArePerfectlyCorrelated(t *testing.T) {
	prices := testPrices(map[string][]float64{
		"a": {100, 110, 105, 115},
		"b": {200, 220, 210, 230}, // a scaled by 2: identical returns
	})

	assets, matrix, err := Correlation(prices)
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b"}, assets)

	assert.InDelta(t, 1.0, matrix[0][0], 1e-12)
	assert.InDelta(t, 1.0, matrix[1][1], 1e-12)
	assert.InDelta(t, 1.0, matrix[0][1], 1e-9)
	assert.InDelta(t, matrix[0][1], matrix[1][0], 1e-12, "matrix must be symmetric")
}

func TestCorrelation_FlatSeriesReadsZero(t *testing.T) {
	prices := testPrices(map[string][]float64{
		"flat":   {100, 100, 100, 100},
		"moving": {100, 110, 105, 115},
	})

	_, matrix, err := Correlation(prices)
	require.NoError(t, err)

	// Undefined correlation against a zero-variance series is coerced
	// to the neutral 0, never NaN.
	assert.Equal(t, 0.0, matrix[0][1])
}

func TestCorrelation_RejectsShortAndMisalignedInput(t *testing.T) {
	short := testPrices(map[string][]float64{
		"a": {100, 110},
		"b": {50, 55},
	})
	_, _, err := Correlation(short)
	assert.ErrorIs(t, err, core.ErrInsufficientData)

	misaligned := testPrices(map[string][]float64{
		"a": {100, 110, 120},
		"b": {50, 55},
	})
	_, _, err = Correlation(misaligned)
	assert.ErrorIs(t, err, core.ErrSeriesMisaligned)
}
