package config

import (
	"fmt"
	"io"

	"github.com/BurntSushi/toml"
	"github.com/sirupsen/logrus"
)

type LogLevel logrus.Level

func (l *LogLevel) UnmarshalText(text []byte) error {
	lvl, err := logrus.ParseLevel(string(text))
	if err != nil {
		return fmt.Errorf("unknown log level: %s", string(text))
	}
	*l = LogLevel(lvl)
	return nil
}

func (l LogLevel) MarshalText() ([]byte, error) {
	return logrus.Level(l).MarshalText()
}

type Decoder struct {
	// Workers bounds block decompression goroutines; 0 uses GOMAXPROCS.
	Workers int
	Strict  bool
}

type Config struct {
	UnitsPath string
	LogLevel  LogLevel
	Decoder   Decoder
}

func Default() Config {
	return Config{
		UnitsPath: "units.json",
		LogLevel:  LogLevel(logrus.InfoLevel),
		Decoder: Decoder{
			Workers: 0,
			Strict:  false,
		},
	}
}

func Save(config Config, w io.Writer) error {
	return toml.NewEncoder(w).Encode(config)
}

func Load(r io.Reader) (Config, error) {
	c := Default()

	if _, err := toml.NewDecoder(r).Decode(&c); err != nil {
		return c, err
	}

	if c.Decoder.Workers < 0 {
		return c, fmt.Errorf("decoder workers must not be negative: %d", c.Decoder.Workers)
	}

	return c, nil
}
