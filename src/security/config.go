package security

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	// Base64 of a 32-byte AES key. The default only exists so local replay
	// runs work out of the box; live deployments must set their own.
	BridgeCRKey string `envconfig:"BRIDGE_CREDENTIALS_KEY" default:"dGhpcy1pcy1hLWRldi1vbmx5LWtleS0zMmJ5dGVzISE="`

	// BridgeCRPassphrase derives the key with scrypt instead; it wins over
	// BRIDGE_CREDENTIALS_KEY when set.
	BridgeCRPassphrase string `envconfig:"BRIDGE_CREDENTIALS_PASSPHRASE"`
}

func GetConfig() Config {
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		panic(fmt.Errorf("error processing env config: %w", err))
	}
	return config
}
