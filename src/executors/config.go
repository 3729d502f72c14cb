package executors

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	LoopPeriod time.Duration `envconfig:"LOOP_PERIOD" default:"5s"`

	// Optional scan filters. Empty/zero means all open positions.
	TargetSymbol string `envconfig:"TARGET_SYMBOL"`
	TargetTicket int64  `envconfig:"TARGET_TICKET"`
	MagicNumber  int64  `envconfig:"MAGIC_NUMBER"`
}

func GetConfig() Config {
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		panic(fmt.Errorf("error processing env config: %w", err))
	}
	return config
}
