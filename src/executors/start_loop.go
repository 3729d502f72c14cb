package executors

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	logger "github.com/sirupsen/logrus"

	"trailexecutor/src/connectors"
	"trailexecutor/src/model"
)

type positionProcessor interface {
	ProcessPosition(ctx context.Context, pos model.Position) error
}

// StartLoop runs the scan loop until ctx is canceled: every tick it lists
// the open positions matching the configured filter and runs each through
// the processor. Position failures are isolated; one bad ticket never stops
// the others or the loop.
func StartLoop(ctx context.Context, gateway connectors.Gateway, processor positionProcessor) error {
	config := GetConfig()

	// refuse to start against a dead gateway
	if err := gateway.Ping(ctx); err != nil {
		logger.WithError(err).Error("gateway ping failed, refusing to start loop")
		return fmt.Errorf("gateway ping: %w", err)
	}

	filter := connectors.PositionFilter{
		Symbol: config.TargetSymbol,
		Ticket: config.TargetTicket,
		Magic:  config.MagicNumber,
	}

	logger.WithFields(map[string]interface{}{
		"loop_period": config.LoopPeriod.String(),
		"symbol":      filter.Symbol,
		"ticket":      filter.Ticket,
		"magic":       filter.Magic,
		"live":        gateway.Live(),
	}).Info("scan loop started")

	ticker := time.NewTicker(config.LoopPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("scan loop stopped")
			return nil

		case <-ticker.C:
			if err := scanOnce(ctx, gateway, processor, filter); err != nil {
				logger.WithError(err).Error("scan tick failed, will retry next tick")
			}
		}
	}
}

// scanOnce is one tick: list, then process each position independently.
func scanOnce(
	ctx context.Context,
	gateway connectors.Gateway,
	processor positionProcessor,
	filter connectors.PositionFilter,
) error {
	log := logger.WithField("scan_id", uuid.NewString())

	positions, err := gateway.ListPositions(ctx, filter)
	if err != nil {
		return fmt.Errorf("listing positions: %w", err)
	}

	log.WithField("positions", len(positions)).Debug("scan tick")

	for _, pos := range positions {
		if err := processor.ProcessPosition(ctx, pos); err != nil {
			log.WithError(err).WithFields(map[string]interface{}{
				"ticket": pos.Ticket,
				"symbol": pos.Symbol,
			}).Error("position processing failed, continuing with remaining positions")
		}
	}
	return nil
}
