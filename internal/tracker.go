package internal

import (
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/sebasmannem/priceavg/pkg/moving_average"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type trackedAverage struct {
	name string
	kind moving_average.Kind
	ma   moving_average.MovingAverage
}

type AverageValue struct {
	Name   string              `json:"name"`
	Kind   moving_average.Kind `json:"kind"`
	Period int                 `json:"period"`
	Value  float64             `json:"value"`
}

type Reading struct {
	Price    decimal.Decimal `json:"price"`
	Averages []AverageValue  `json:"averages"`
}

// Tracker keeps a set of named moving averages in step with one price stream.
// Moving averages are not synchronized themselves, so all access goes through mu.
type Tracker struct {
	mu       sync.Mutex
	averages []trackedAverage
	last     decimal.Decimal
	count    int
}

// NewTracker seeds every average with the first period prices of warmup and feeds it the remaining
// warmup prices, so all averages have seen the same prices afterwards.
func NewTracker(configs []maAverageConfig, warmup []decimal.Decimal) (t *Tracker, err error) {
	if len(configs) == 0 {
		return nil, errors.New("no averages configured")
	}
	floats := make([]float64, len(warmup))
	for i, price := range warmup {
		floats[i], _ = price.Float64()
	}
	t = &Tracker{count: len(warmup)}
	if len(warmup) > 0 {
		t.last = warmup[len(warmup)-1]
	}
	for _, config := range configs {
		if len(floats) < config.Period {
			return nil, errors.Wrapf(moving_average.ErrBootstrapLengthMismatch,
				"average %s needs %d prices, got %d", config.Name, config.Period, len(floats))
		}
		ma, err := moving_average.New(config.Type, floats[:config.Period], config.Period)
		if err != nil {
			return nil, errors.Wrapf(err, "average %s", config.Name)
		}
		for _, value := range floats[config.Period:] {
			if _, err = ma.AddValue(value); err != nil {
				return nil, errors.Wrapf(err, "average %s", config.Name)
			}
		}
		t.averages = append(t.averages, trackedAverage{
			name: config.Name,
			kind: config.Type,
			ma:   ma,
		})
		Logger().Debug("average initialized",
			zap.String("name", config.Name),
			zap.String("kind", string(config.Type)),
			zap.Int("period", config.Period),
			zap.Float64("average", ma.GetCurrentMA()))
	}
	return t, nil
}

// Feed records price in every average. When one average rejects the price, none of them is updated.
func (t *Tracker) Feed(price decimal.Decimal) (reading Reading, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	// All averages validate the same float, so only the first one can reject it.
	for _, avg := range t.averages {
		if _, err = moving_average.AddDecimal(avg.ma, price); err != nil {
			Logger().Warn("price rejected", zap.String("price", price.String()), zap.Error(err))
			return reading, errors.Wrapf(err, "average %s", avg.name)
		}
	}
	t.last = price
	t.count++
	reading = t.reading()
	Logger().Debug("price recorded", zap.String("price", price.String()), zap.Int("count", t.count))
	return reading, nil
}

// Current returns the averages without recording anything.
func (t *Tracker) Current() Reading {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.reading()
}

func (t *Tracker) Count() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.count
}

func (t *Tracker) reading() Reading {
	reading := Reading{Price: t.last}
	for _, avg := range t.averages {
		reading.Averages = append(reading.Averages, AverageValue{
			Name:   avg.name,
			Kind:   avg.kind,
			Period: avg.ma.Period(),
			Value:  avg.ma.GetCurrentMA(),
		})
	}
	return reading
}

// Run reads all prices from source, warms up a tracker with the first config.MaxPeriod() of them and
// hands a Reading to report for every later price.
func Run(config MAConfig, source PriceSource, report func(Reading) error) (t *Tracker, err error) {
	prices, err := source.Prices()
	if err != nil {
		return nil, err
	}
	warmup := config.MaxPeriod()
	if len(prices) < warmup {
		return nil, errors.Newf("got %d prices, need at least %d to warm up", len(prices), warmup)
	}
	t, err = NewTracker(config.Averages, prices[:warmup])
	if err != nil {
		return nil, err
	}
	if err = report(t.Current()); err != nil {
		return t, err
	}
	for _, price := range prices[warmup:] {
		reading, err := t.Feed(price)
		if err != nil {
			return t, err
		}
		if err = report(reading); err != nil {
			return t, err
		}
	}
	Logger().Info("price stream processed",
		zap.Int("prices", len(prices)),
		zap.Int("averages", len(config.Averages)))
	return t, nil
}
