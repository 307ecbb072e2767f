package moving_average

import (
	"math"

	"github.com/cockroachdb/errors"
	"github.com/shopspring/decimal"
)

var (
	ErrInvalidPeriod           = errors.New("invalid period")
	ErrBootstrapLengthMismatch = errors.New("bootstrap length does not match period")
	ErrNonFiniteObservation    = errors.New("non-finite observation")
	ErrUnknownKind             = errors.New("unknown moving average kind")
)

type MAError struct {
	error
}

func (e MAError) Unwrap() error {
	return e.error
}

func newMAError(cause error, format string, args ...interface{}) MAError {
	return MAError{errors.Wrapf(cause, format, args...)}
}

// MovingAverage is implemented by every averaging strategy.
// Instances are not safe for concurrent use.
type MovingAverage interface {
	// AddValue records a new observation and returns the resulting average.
	AddValue(value float64) (float64, error)
	GetCurrentMA() float64
	Period() int
}

type Kind string

const (
	KindSimple      Kind = "sma"
	KindExponential Kind = "ema"
)

// New builds the moving average of the requested kind from a bootstrap batch.
func New(kind Kind, initial []float64, period int) (ma MovingAverage, err error) {
	switch kind {
	case KindSimple:
		sma, err := NewSimpleMovingAverage(initial, period)
		if err != nil {
			return nil, err
		}
		return sma, nil
	case KindExponential:
		ema, err := NewExponentialMovingAverage(initial, period)
		if err != nil {
			return nil, err
		}
		return ema, nil
	}
	return nil, newMAError(ErrUnknownKind, "kind %q", kind)
}

// AddDecimal feeds a decimal price into ma.
func AddDecimal(ma MovingAverage, value decimal.Decimal) (float64, error) {
	fValue, _ := value.Float64()
	return ma.AddValue(fValue)
}

func checkFinite(value float64) error {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return newMAError(ErrNonFiniteObservation, "value %v", value)
	}
	return nil
}

// mean validates the bootstrap batch and returns its arithmetic mean.
func mean(initial []float64, period int) (float64, error) {
	if period < 1 {
		return 0, newMAError(ErrInvalidPeriod, "period %d", period)
	}
	if len(initial) != period {
		return 0, newMAError(ErrBootstrapLengthMismatch, "got %d values for period %d", len(initial), period)
	}
	for _, value := range initial {
		if err := checkFinite(value); err != nil {
			return 0, err
		}
	}
	return windowMean(initial)
}

// windowMean returns the mean of finite values. When the plain sum overflows, every value is
// divided by the length before adding.
func windowMean(values []float64) (float64, error) {
	var sum float64
	for _, value := range values {
		sum += value
	}
	if !math.IsInf(sum, 0) {
		return sum / float64(len(values)), nil
	}
	sum = 0
	for _, value := range values {
		sum += value / float64(len(values))
	}
	if err := checkFinite(sum); err != nil {
		return 0, err
	}
	return sum, nil
}

type MABandwidth struct {
	Min decimal.Decimal
	Cur decimal.Decimal
	Max decimal.Decimal
}

func (bw MABandwidth) GetMinPercent() decimal.Decimal {
	hundred := decimal.NewFromInt(100)
	return hundred.Sub(bw.Min.Div(bw.Cur).Mul(hundred))
}

func (bw MABandwidth) GetMaxPercent() decimal.Decimal {
	hundred := decimal.NewFromInt(100)
	return hundred.Sub(bw.Cur.Div(bw.Max).Mul(hundred))
}
