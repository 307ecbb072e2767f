package moving_average

// ExponentialMovingAverage only keeps the last average; older values fade by (1 - multiplier)
// on every update.
type ExponentialMovingAverage struct {
	average    float64
	multiplier float64
	period     int
}

func NewExponentialMovingAverage(initial []float64, period int) (ema *ExponentialMovingAverage, err error) {
	// The first average is the plain mean of the bootstrap batch.
	average, err := mean(initial, period)
	if err != nil {
		return nil, err
	}
	return &ExponentialMovingAverage{
		average:    average,
		multiplier: 2.0 / (float64(period) + 1.0),
		period:     period,
	}, nil
}

func (ema *ExponentialMovingAverage) AddValue(value float64) (float64, error) {
	if err := checkFinite(value); err != nil {
		return ema.average, err
	}
	average := value*ema.multiplier + ema.average*(1-ema.multiplier)
	if err := checkFinite(average); err != nil {
		return ema.average, err
	}
	ema.average = average
	return ema.average, nil
}

func (ema *ExponentialMovingAverage) GetCurrentMA() float64 {
	return ema.average
}

func (ema *ExponentialMovingAverage) Period() int {
	return ema.period
}

func (ema *ExponentialMovingAverage) Multiplier() float64 {
	return ema.multiplier
}
