package internal

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/bitvavo/go-bitvavo-api"
	"github.com/cockroachdb/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Use this definition to make passing optionals easier.
// e.g. bitvavo.Candles("BTC-EUR", "1d", bvvOptions{"limit": "100"})
type bvvOptions map[string]string

// PriceSource delivers a price stream, oldest price first.
type PriceSource interface {
	Prices() ([]decimal.Decimal, error)
}

func NewPriceSource(config MAConfig) (PriceSource, error) {
	switch config.Source.Type {
	case SourceFile:
		return &FileSource{path: config.Source.Path}, nil
	case SourceBitvavo:
		return NewBitvavoSource(&bitvavo.Bitvavo{
			ApiKey:       config.Api.Key,
			ApiSecret:    config.Api.Secret,
			RestUrl:      "https://api.bitvavo.com/v2",
			WsUrl:        "wss://ws.bitvavo.com/v2/",
			AccessWindow: 10000,
			Debugging:    config.Api.Debug,
		}, config.Source), nil
	}
	return nil, errors.Newf("unknown source type %s", config.Source.Type)
}

// FileSource reads one price per line. Empty lines and lines starting with # are skipped.
type FileSource struct {
	path string
}

func (fs *FileSource) Prices() (prices []decimal.Decimal, err error) {
	var r io.Reader = os.Stdin
	if fs.path != "-" {
		f, err := os.Open(fs.path)
		if err != nil {
			return nil, errors.Wrapf(err, "opening price file %s", fs.path)
		}
		defer f.Close()
		r = f
	}
	return readPrices(r)
}

func readPrices(r io.Reader) (prices []decimal.Decimal, err error) {
	scanner := bufio.NewScanner(r)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		price, err := decimal.NewFromString(line)
		if err != nil {
			return nil, errors.Wrapf(err, "line %d: cannot convert `%s` to Decimal", lineNum, line)
		}
		prices = append(prices, price)
	}
	if err = scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "reading prices")
	}
	return prices, nil
}

type candleFetcher interface {
	Candles(market string, interval string, options map[string]string) ([]bitvavo.Candle, error)
}

type MABucket struct {
	close decimal.Decimal
	high  decimal.Decimal
	low   decimal.Decimal
	open  decimal.Decimal
}

func newMABucket(candle bitvavo.Candle) (bucket MABucket, err error) {
	lowVal, err := decimal.NewFromString(candle.Low)
	if err != nil {
		return bucket, err
	}
	openVal, err := decimal.NewFromString(candle.Open)
	if err != nil {
		return bucket, err
	}
	closeVal, err := decimal.NewFromString(candle.Close)
	if err != nil {
		return bucket, err
	}
	highVal, err := decimal.NewFromString(candle.High)
	if err != nil {
		return bucket, err
	}
	bucket = MABucket{
		low:   lowVal,
		open:  openVal,
		close: closeVal,
		high:  highVal,
	}
	return bucket, nil
}

func (mab MABucket) Average() (avg decimal.Decimal) {
	return mab.low.Add(mab.open).Add(mab.close).Add(mab.high).Div(decimal.NewFromInt(4))
}

// Some helper functions to sort candles by timestamp
type candlesByTS []bitvavo.Candle

func (c candlesByTS) Len() int           { return len(c) }
func (c candlesByTS) Swap(i, j int)      { c[i], c[j] = c[j], c[i] }
func (c candlesByTS) Less(i, j int) bool { return c[i].Timestamp < c[j].Timestamp }

// BitvavoSource turns the candles of one market into prices, using the OHLC mean of every candle.
type BitvavoSource struct {
	connection candleFetcher
	market     string
	interval   string
	limit      int64
}

func NewBitvavoSource(connection candleFetcher, config maSourceConfig) *BitvavoSource {
	return &BitvavoSource{
		connection: connection,
		market:     config.Market,
		interval:   config.Interval,
		limit:      config.Limit,
	}
}

func (bs *BitvavoSource) Prices() (prices []decimal.Decimal, err error) {
	candleOptions := bvvOptions{"limit": fmt.Sprintf("%d", bs.limit)}
	candlesResponse, err := bs.connection.Candles(bs.market, bs.interval, candleOptions)
	if err != nil {
		return nil, errors.Wrapf(err, "fetching candles for %s", bs.market)
	}
	// Candles are returned newest first
	sort.Sort(candlesByTS(candlesResponse))
	for _, candle := range candlesResponse {
		bucket, err := newMABucket(candle)
		if err != nil {
			return nil, errors.Wrapf(err, "candle at %d", candle.Timestamp)
		}
		prices = append(prices, bucket.Average())
	}
	Logger().Debug("fetched candles",
		zap.String("market", bs.market),
		zap.String("interval", bs.interval),
		zap.Int("candles", len(prices)))
	return prices, nil
}
