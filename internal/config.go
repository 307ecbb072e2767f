package internal

import (
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/sebasmannem/priceavg/pkg/moving_average"
	"gopkg.in/yaml.v2"
)

const (
	envConfName     = "MACONFIG"
	defaultConfFile = "./maconfig.yaml"

	SourceFile    = "file"
	SourceBitvavo = "bitvavo"

	defaultInterval = "1d"
	defaultPeriod   = 42
)

type maApiConfig struct {
	Key    string `yaml:"key"`
	Secret string `yaml:"secret"`
	Debug  bool   `yaml:"debug"`
}

type maSourceConfig struct {
	Type string `yaml:"type"`
	// Path is used by the file source, "-" reads stdin
	Path     string `yaml:"path"`
	Market   string `yaml:"market"`
	Interval string `yaml:"interval"`
	Limit    int64  `yaml:"limit"`
}

type maAverageConfig struct {
	Name   string              `yaml:"name"`
	Type   moving_average.Kind `yaml:"type"`
	Period int                 `yaml:"period"`
}

func (mac *maAverageConfig) SetDefaults() {
	if mac.Type == "" {
		mac.Type = moving_average.KindExponential
	}
	if mac.Period == 0 {
		mac.Period = defaultPeriod
	}
	if mac.Name == "" {
		mac.Name = fmt.Sprintf("%s%d", mac.Type, mac.Period)
	}
}

type MAConfig struct {
	Api      maApiConfig       `yaml:"api"`
	Source   maSourceConfig    `yaml:"source"`
	Averages []maAverageConfig `yaml:"averages"`
	Debug    bool              `yaml:"debug"`
}

// MaxPeriod returns the longest configured period, which is the warm-up length of the stream.
func (c MAConfig) MaxPeriod() (maxPeriod int) {
	for _, avg := range c.Averages {
		if maxPeriod < avg.Period {
			maxPeriod = avg.Period
		}
	}
	return maxPeriod
}

func (c *MAConfig) SetDefaults() {
	if len(c.Averages) == 0 {
		c.Averages = []maAverageConfig{{}}
	}
	for i := range c.Averages {
		c.Averages[i].SetDefaults()
	}
	if c.Source.Type == "" {
		c.Source.Type = SourceFile
	}
	if c.Source.Interval == "" {
		c.Source.Interval = defaultInterval
	}
	c.Source.Limit = DefaultInt64(c.Source.Limit, 2*int64(c.MaxPeriod()))
}

func (c MAConfig) Validate() error {
	names := make(map[string]bool)
	for _, avg := range c.Averages {
		if names[avg.Name] {
			return errors.Newf("duplicate average name %s", avg.Name)
		}
		names[avg.Name] = true
	}
	switch c.Source.Type {
	case SourceFile:
		if c.Source.Path == "" {
			return errors.New("file source requires a path")
		}
	case SourceBitvavo:
		if c.Source.Market == "" {
			return errors.New("bitvavo source requires a market")
		}
		if c.Source.Limit < int64(c.MaxPeriod()) {
			return errors.Newf("limit %d is below the longest period %d", c.Source.Limit, c.MaxPeriod())
		}
	default:
		return errors.Newf("unknown source type %s", c.Source.Type)
	}
	return nil
}

// NewConfig reads the config from configFile, or from $MACONFIG / ./maconfig.yaml when it is empty.
func NewConfig(configFile string) (config MAConfig, err error) {
	if configFile == "" {
		configFile = os.Getenv(envConfName)
	}
	if configFile == "" {
		configFile = defaultConfFile
	}
	configFile, err = filepath.EvalSymlinks(configFile)
	if err != nil {
		return config, errors.Wrap(err, "locating config")
	}

	yamlConfig, err := ioutil.ReadFile(configFile)
	if err != nil {
		return config, errors.Wrapf(err, "reading config %s", configFile)
	}
	if err = yaml.Unmarshal(yamlConfig, &config); err != nil {
		return config, errors.Wrapf(err, "parsing config %s", configFile)
	}
	config.SetDefaults()
	return config, config.Validate()
}
