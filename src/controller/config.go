package controller

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	// Timeframe the engine evaluates bars on (M1, M5, M15, M30, H1, H4, D1).
	Timeframe string `envconfig:"TRAIL_TIMEFRAME" default:"M5"`
	// BarCount is how many bars are fetched per evaluation.
	BarCount int `envconfig:"TRAIL_BAR_COUNT" default:"100"`
}

func GetConfig() Config {
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		panic(fmt.Errorf("error processing env config: %w", err))
	}
	return config
}
