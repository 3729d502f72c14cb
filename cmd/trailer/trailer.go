package trailer

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"trailexecutor/src/connectors"
	"trailexecutor/src/controller"
	"trailexecutor/src/database"
	"trailexecutor/src/events"
	"trailexecutor/src/executors"
	"trailexecutor/src/handler"
	"trailexecutor/src/repository"
	"trailexecutor/src/security"
	"trailexecutor/src/server"
	"trailexecutor/src/trailing"
)

// Trailer wires the gateway, decision engine and scan loop together and runs
// until the process is signalled.
type Trailer struct{}

func (t *Trailer) Start() error {
	config := GetConfig()

	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer stop()

	dbConfig := database.GetConfig()
	if dbConfig.EnableDB {
		if err := database.InitMainDB(); err != nil {
			logrus.WithError(err).Error("Failed to connect to main database")
			return err
		}
	}

	gateway, quotes, err := buildGateway(ctx, config, dbConfig.EnableDB)
	if err != nil {
		logrus.WithError(err).Error("Failed to build gateway")
		return err
	}

	trailConfig := trailing.GetConfig()
	engine, err := trailing.NewEngine(trailConfig.Strategy, trailConfig)
	if err != nil {
		logrus.WithError(err).Error("Failed to build trailing engine")
		return err
	}

	var trail *controller.TrailController
	if dbConfig.EnableDB {
		recorder := events.NewRecorder(repository.NewTrailEventRepository(), engine.Name())
		trail = controller.NewTrailController(gateway, engine, recorder, repository.NewExceptionRepository(), controller.GetConfig())
	} else {
		recorder := events.NewRecorder(nil, engine.Name())
		trail = controller.NewTrailController(gateway, engine, recorder, nil, controller.GetConfig())
	}

	if config.ServeStatus {
		opts := server.Options{
			HealthPing: gateway.Ping,
		}
		if dbConfig.EnableDB {
			opts.EventsHandler = handler.DefaultSearchTrailEventsHandler()
		}
		if quotes != nil {
			opts.QuotesHandler = handler.QuotesHandler(quotes)
		}
		go server.StartServer(server.GetConfig().Port, opts)
	}

	logrus.WithFields(logrus.Fields{
		"strategy": engine.Name(),
		"live":     gateway.Live(),
	}).Info("Starting trailing stop executor")

	if err := executors.StartLoop(ctx, gateway, trail); err != nil {
		logrus.WithError(err).Error("Failed to start scan loop")
		return err
	}

	return nil
}

// buildGateway selects the live bridge client or the replay gateway. The
// second return value is the quote source for the status server, nil when
// there is no stream.
func buildGateway(ctx context.Context, config *Config, enableDB bool) (connectors.Gateway, handler.QuoteSource, error) {
	bridgeConfig := connectors.GetConfig()

	if bridgeConfig.BridgeLive {
		secret := bridgeConfig.BridgeAPISecret
		if bridgeConfig.BridgeAPISecretEnc != "" {
			decrypted, err := security.DecryptString(bridgeConfig.BridgeAPISecretEnc)
			if err != nil {
				return nil, nil, fmt.Errorf("failed to decrypt bridge secret: %w", err)
			}
			secret = decrypted
		}

		client := connectors.NewBridgeClient(bridgeConfig.BridgeAPIKey, secret, bridgeConfig.BridgeBaseURL)
		if bridgeConfig.BridgeWSURL != "" && len(config.QuoteSymbols) > 0 {
			client.StartQuoteStream(ctx, bridgeConfig.BridgeWSURL, config.QuoteSymbols)
			return client, client, nil
		}
		return client, nil, nil
	}

	var bars connectors.BarSource
	if enableDB {
		bars = repository.NewOHLCVRepository()
	}

	gateway := connectors.NewReplayGateway(bars)
	if bridgeConfig.ReplayFixture != "" {
		if err := gateway.LoadFixture(bridgeConfig.ReplayFixture); err != nil {
			return nil, nil, fmt.Errorf("failed to load replay fixture: %w", err)
		}
	}
	return gateway, nil, nil
}
