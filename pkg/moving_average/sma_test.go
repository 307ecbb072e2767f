package moving_average_test

import (
	"math"
	"testing"

	"github.com/sebasmannem/priceavg/pkg/moving_average"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSMANew(t *testing.T) {
	sma, err := moving_average.NewSimpleMovingAverage([]float64{2.0, 2.0, 2.0}, 3)
	require.NoError(t, err)
	// mean, not the sum
	assert.Equal(t, 2.0, sma.GetCurrentMA())
	assert.Equal(t, 3, sma.Period())
}

func TestSMAAddValue(t *testing.T) {
	sma, err := moving_average.NewSimpleMovingAverage([]float64{2.0, 2.0, 2.0}, 3)
	require.NoError(t, err)
	avg, err := sma.AddValue(5.0)
	require.NoError(t, err)
	assert.Equal(t, 3.0, avg)
	assert.Equal(t, 3.0, sma.GetCurrentMA())
	assert.Equal(t, []float64{2.0, 2.0, 5.0}, sma.Window())

	avg, err = sma.AddValue(8.0)
	require.NoError(t, err)
	assert.Equal(t, 5.0, avg)
	assert.Equal(t, []float64{2.0, 5.0, 8.0}, sma.Window())
}

func TestSMAWindowBound(t *testing.T) {
	initial := []float64{1, 2, 3, 4}
	sma, err := moving_average.NewSimpleMovingAverage(initial, 4)
	require.NoError(t, err)
	// The bootstrap batch is copied, the caller keeps its own slice.
	initial[0] = 100
	assert.Equal(t, []float64{1, 2, 3, 4}, sma.Window())

	for i := 5; i <= 50; i++ {
		avg, err := sma.AddValue(float64(i))
		require.NoError(t, err)
		window := sma.Window()
		assert.Len(t, window, 4)
		assert.Equal(t, float64(i), window[3])
		assert.InDelta(t, float64(i)-1.5, avg, 1e-9)
	}
}

func TestSMAPeriodOne(t *testing.T) {
	sma, err := moving_average.NewSimpleMovingAverage([]float64{7}, 1)
	require.NoError(t, err)
	assert.Equal(t, 7.0, sma.GetCurrentMA())
	for _, value := range []float64{3.5, -1, 1e9} {
		avg, err := sma.AddValue(value)
		require.NoError(t, err)
		assert.Equal(t, value, avg)
	}
}

func TestSMAInvalid(t *testing.T) {
	_, err := moving_average.NewSimpleMovingAverage(nil, 0)
	assert.ErrorIs(t, err, moving_average.ErrInvalidPeriod)
	_, err = moving_average.NewSimpleMovingAverage([]float64{1}, -1)
	assert.ErrorIs(t, err, moving_average.ErrInvalidPeriod)
	_, err = moving_average.NewSimpleMovingAverage([]float64{1, 2}, 3)
	assert.ErrorIs(t, err, moving_average.ErrBootstrapLengthMismatch)
	_, err = moving_average.NewSimpleMovingAverage([]float64{1, math.NaN()}, 2)
	assert.ErrorIs(t, err, moving_average.ErrNonFiniteObservation)
	var maErr moving_average.MAError
	assert.ErrorAs(t, err, &maErr)
}

func TestSMANonFinite(t *testing.T) {
	sma, err := moving_average.NewSimpleMovingAverage([]float64{1, 2, 3}, 3)
	require.NoError(t, err)
	avg, err := sma.AddValue(math.Inf(1))
	assert.ErrorIs(t, err, moving_average.ErrNonFiniteObservation)
	assert.Equal(t, 2.0, avg)
	assert.Equal(t, []float64{1, 2, 3}, sma.Window())

	// Still usable after a rejected value
	avg, err = sma.AddValue(4)
	require.NoError(t, err)
	assert.Equal(t, 3.0, avg)
}

func TestSMAIdempotentReads(t *testing.T) {
	sma, err := moving_average.NewSimpleMovingAverage([]float64{1, 2, 4}, 3)
	require.NoError(t, err)
	_, err = sma.AddValue(10)
	require.NoError(t, err)
	first := sma.GetCurrentMA()
	assert.Equal(t, first, sma.GetCurrentMA())
	assert.Equal(t, first, sma.GetCurrentMA())
}

func TestSMABandwidth(t *testing.T) {
	sma, err := moving_average.NewSimpleMovingAverage([]float64{2, 8, 5}, 3)
	require.NoError(t, err)
	bw, err := sma.GetBandwidth()
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(2).Equal(bw.Min), "Min value differs: %s", bw.Min)
	assert.True(t, decimal.NewFromInt(5).Equal(bw.Cur), "Cur value differs: %s", bw.Cur)
	assert.True(t, decimal.NewFromInt(8).Equal(bw.Max), "Max value differs: %s", bw.Max)
	assert.True(t, decimal.NewFromInt(60).Equal(bw.GetMinPercent()), "Min percent differs: %s", bw.GetMinPercent())
	assert.True(t, decimal.NewFromFloat(37.5).Equal(bw.GetMaxPercent()), "Max percent differs: %s", bw.GetMaxPercent())
}

func TestSMALargeValues(t *testing.T) {
	sma, err := moving_average.NewSimpleMovingAverage([]float64{math.MaxFloat64, math.MaxFloat64}, 2)
	require.NoError(t, err)
	assert.Equal(t, math.MaxFloat64, sma.GetCurrentMA())

	sma, err = moving_average.NewSimpleMovingAverage([]float64{1, 1}, 2)
	require.NoError(t, err)
	_, err = sma.AddValue(math.MaxFloat64)
	require.NoError(t, err)
	avg, err := sma.AddValue(math.MaxFloat64)
	require.NoError(t, err)
	assert.Equal(t, math.MaxFloat64, avg)
	assert.Equal(t, []float64{math.MaxFloat64, math.MaxFloat64}, sma.Window())

	avg, err = sma.AddValue(-math.MaxFloat64)
	require.NoError(t, err)
	assert.Equal(t, 0.0, avg)
}
