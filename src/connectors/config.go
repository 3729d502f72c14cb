package connectors

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	// BridgeLive selects the live MT5 bridge; when false the replay gateway
	// serves positions and bars without touching a broker.
	BridgeLive bool `envconfig:"BRIDGE_LIVE" default:"false"`

	BridgeBaseURL   string `envconfig:"BRIDGE_BASE_URL" default:"http://127.0.0.1:8787"`
	BridgeAPIKey    string `envconfig:"BRIDGE_API_KEY"`
	BridgeAPISecret string `envconfig:"BRIDGE_API_SECRET"`
	// BridgeAPISecretEnc holds the secret encrypted with the credentials key;
	// it wins over BRIDGE_API_SECRET when set.
	BridgeAPISecretEnc string `envconfig:"BRIDGE_API_SECRET_ENC"`

	BridgeWSURL string `envconfig:"BRIDGE_WS_URL"`

	// ReplayFixture is a JSON file with positions for the replay gateway.
	ReplayFixture string `envconfig:"REPLAY_FIXTURE"`
}

func GetConfig() Config {
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		panic(fmt.Errorf("error processing env config: %w", err))
	}
	return config
}
