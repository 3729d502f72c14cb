package trailer

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	// QuoteSymbols lists the symbols subscribed on the bridge quote stream,
	// comma separated. Empty subscribes nothing.
	QuoteSymbols []string `envconfig:"QUOTE_SYMBOLS"`

	// ServeStatus starts the HTTP status server alongside the scan loop.
	ServeStatus bool `envconfig:"SERVE_STATUS" default:"true"`
}

func GetConfig() *Config {
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		panic(fmt.Errorf("error processing env config: %w", err))
	}
	return &config
}
