package main

import (
	"fmt"
	"log"
	"strings"

	"github.com/sebasmannem/priceavg/internal"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

func main() {
	configFile := pflag.String("config", "", "path to the yaml config (default $MACONFIG or ./maconfig.yaml)")
	asJSON := pflag.Bool("json", false, "print every reading as json")
	pflag.Parse()

	config, err := internal.NewConfig(*configFile)
	if err != nil {
		log.Fatalf("Error occurred on getting config: %v", err)
	}
	logger, err := internal.NewLogger(config.Debug)
	if err != nil {
		log.Fatalf("Error occurred on creating logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()
	internal.UseLogger(logger)

	source, err := internal.NewPriceSource(config)
	if err != nil {
		logger.Fatal("cannot create price source", zap.Error(err))
	}
	report := printReading
	if *asJSON {
		report = func(reading internal.Reading) error {
			return internal.PrettyPrint(reading)
		}
	}
	if _, err = internal.Run(config, source, report); err != nil {
		logger.Fatal("processing prices failed", zap.Error(err))
	}
}

func printReading(reading internal.Reading) error {
	fields := []string{reading.Price.String()}
	for _, avg := range reading.Averages {
		fields = append(fields, fmt.Sprintf("%s=%.6f", avg.Name, avg.Value))
	}
	_, err := fmt.Println(strings.Join(fields, " "))
	return err
}
