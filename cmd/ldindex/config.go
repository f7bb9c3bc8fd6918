package main

import (
	"fmt"
	"time"

	"github.com/BurntSushi/toml"
)

// Config is the population manifest. All fields can also be set with flags;
// flags win when both are present.
type Config struct {
	Populations    []string `toml:"populations"`
	MatrixTemplate string   `toml:"ld_matrix_template"`
	IndexTemplate  string   `toml:"ld_index_raw_template"`
	ChainFile      string   `toml:"chain_file"`
	MinR2          float64  `toml:"min_r2"`
	Workers        int      `toml:"workers"`
	TimeoutMinutes int      `toml:"timeout_minutes"`
	Output         string   `toml:"output"`
}

func loadConfig(path string) (Config, error) {
	cfg := Config{}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("config %s: %s", path, err)
	}

	return cfg, nil
}

func (c Config) timeout() time.Duration {
	return time.Duration(c.TimeoutMinutes) * time.Minute
}
