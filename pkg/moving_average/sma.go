package moving_average

import (
	"github.com/cockroachdb/errors"
	"github.com/shopspring/decimal"
)

// SimpleMovingAverage keeps the last period values in a ring and averages them.
type SimpleMovingAverage struct {
	values  []float64
	head    int
	average float64
}

func NewSimpleMovingAverage(initial []float64, period int) (sma *SimpleMovingAverage, err error) {
	average, err := mean(initial, period)
	if err != nil {
		return nil, err
	}
	values := make([]float64, period)
	copy(values, initial)
	return &SimpleMovingAverage{
		values:  values,
		average: average,
	}, nil
}

func (sma *SimpleMovingAverage) AddValue(value float64) (float64, error) {
	if err := checkFinite(value); err != nil {
		return sma.average, err
	}
	// head always points at the oldest value
	oldest := sma.values[sma.head]
	sma.values[sma.head] = value
	sma.head = (sma.head + 1) % len(sma.values)

	// No running sum: the average is always the exact mean of the window.
	average, err := windowMean(sma.Window())
	if err != nil {
		sma.head = (sma.head + len(sma.values) - 1) % len(sma.values)
		sma.values[sma.head] = oldest
		return sma.average, err
	}
	sma.average = average
	return sma.average, nil
}

func (sma *SimpleMovingAverage) GetCurrentMA() float64 {
	return sma.average
}

func (sma *SimpleMovingAverage) Period() int {
	return len(sma.values)
}

// Window returns a copy of the current window, oldest value first.
func (sma *SimpleMovingAverage) Window() []float64 {
	window := make([]float64, 0, len(sma.values))
	window = append(window, sma.values[sma.head:]...)
	return append(window, sma.values[:sma.head]...)
}

func (sma *SimpleMovingAverage) GetBandwidth() (bw MABandwidth, err error) {
	if len(sma.values) < 1 {
		return bw, MAError{
			errors.New("cannot get bandwidth without history"),
		}
	}
	bw.Min = decimal.NewFromFloat(sma.values[0])
	bw.Max = bw.Min
	for _, value := range sma.values[1:] {
		dValue := decimal.NewFromFloat(value)
		if bw.Min.GreaterThan(dValue) {
			bw.Min = dValue
		}
		if bw.Max.LessThan(dValue) {
			bw.Max = dValue
		}
	}
	bw.Cur = decimal.NewFromFloat(sma.average)
	return bw, nil
}
