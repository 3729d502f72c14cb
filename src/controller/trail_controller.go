package controller

import (
	"context"
	"errors"

	logger "github.com/sirupsen/logrus"

	"trailexecutor/src/connectors"
	"trailexecutor/src/events"
	"trailexecutor/src/model"
	"trailexecutor/src/tp_sl"
	"trailexecutor/src/trailing"
)

type exceptionRepository interface {
	Create(ctx context.Context, exception *model.Exception) error
}

// TrailController runs one position through the decision engine and applies
// the outcome against the gateway. It holds no position state of its own;
// everything it needs arrives fresh each call.
type TrailController struct {
	gateway       connectors.Gateway
	engine        trailing.Engine
	recorder      *events.Recorder
	exceptionRepo exceptionRepository
	cfg           Config
}

func NewTrailController(
	gateway connectors.Gateway,
	engine trailing.Engine,
	recorder *events.Recorder,
	exceptionRepo exceptionRepository,
	cfg Config,
) *TrailController {
	return &TrailController{
		gateway:       gateway,
		engine:        engine,
		recorder:      recorder,
		exceptionRepo: exceptionRepo,
		cfg:           cfg,
	}
}

// ProcessPosition evaluates one position and applies the resulting stop
// change, if any. A broker rejection is recorded and reported as nil; the
// position is simply seen again next tick.
func (c *TrailController) ProcessPosition(ctx context.Context, pos model.Position) error {
	log := logger.WithFields(map[string]interface{}{
		"ticket":   pos.Ticket,
		"symbol":   pos.Symbol,
		"strategy": c.engine.Name(),
	})

	info, err := c.gateway.SymbolInfo(ctx, pos.Symbol)
	if err != nil {
		log.WithError(err).Error("failed to fetch symbol info")
		Capture(ctx, c.exceptionRepo, "TrailController", "controller", "gateway.SymbolInfo",
			"error", err, map[string]interface{}{"symbol": pos.Symbol})
		return err
	}

	// A bar fetch failure must not block the low-profit safety removal,
	// which needs no history. The engine sees nil bars and the profit-based
	// paths degrade to insufficient-bars no-ops.
	bars, err := c.gateway.Rates(ctx, pos.Symbol, c.cfg.Timeframe, c.cfg.BarCount)
	if err != nil {
		log.WithError(err).Error("failed to fetch rates, evaluating without bars")
		Capture(ctx, c.exceptionRepo, "TrailController", "controller", "gateway.Rates",
			"error", err, map[string]interface{}{"symbol": pos.Symbol, "timeframe": c.cfg.Timeframe})
		bars = nil
	}

	decision, err := c.engine.Decide(pos, trailing.MarketContext{Bars: bars, Info: info})
	if err != nil {
		if errors.Is(err, tp_sl.ErrInsufficientBars) {
			log.WithField("bars", len(bars)).Debug("not enough bars yet, skipping position")
			return nil
		}
		log.WithError(err).Error("engine decision failed")
		Capture(ctx, c.exceptionRepo, "TrailController", "controller", "engine.Decide",
			"error", err, map[string]interface{}{"symbol": pos.Symbol, "ticket": pos.Ticket})
		return err
	}

	switch decision.Action {
	case trailing.ActionNone:
		log.WithField("reason", decision.Reason).Debug("no stop change")
		return nil

	case trailing.ActionSetFirstProtective, trailing.ActionTrailMove:
		return c.applyStop(ctx, log, pos, info, decision)

	case trailing.ActionRemoveLowProfit:
		return c.removeStop(ctx, log, pos, info, decision)

	default:
		log.WithField("action", decision.Action).Error("unknown engine action")
		return nil
	}
}

func (c *TrailController) applyStop(
	ctx context.Context,
	log *logger.Entry,
	pos model.Position,
	info model.SymbolInfo,
	decision trailing.Decision,
) error {
	newSL := decision.NewSL.InexactFloat64()
	lockedProfit := decision.LockedProfit.InexactFloat64()

	log = log.WithFields(map[string]interface{}{
		"action":        decision.Action,
		"new_sl":        newSL,
		"current_sl":    pos.StopLoss,
		"locked_profit": lockedProfit,
		"multiplier":    decision.Multiplier.InexactFloat64(),
		"volume_ratio":  decision.VolumeRatio.InexactFloat64(),
		"atr":           decision.ATR.InexactFloat64(),
	})

	ok, err := c.gateway.ModifySL(ctx, connectors.ModifySLRequest{
		Ticket:     pos.Ticket,
		Symbol:     pos.Symbol,
		NewSL:      newSL,
		TakeProfit: pos.TakeProfit,
		Digits:     info.Digits,
	})
	if err != nil {
		log.WithError(err).Error("failed to modify stop loss")
		Capture(ctx, c.exceptionRepo, "TrailController", "controller", "gateway.ModifySL",
			"error", err, map[string]interface{}{"symbol": pos.Symbol, "ticket": pos.Ticket, "new_sl": newSL})
		return err
	}

	if ok {
		log.Info("stop loss moved")
	} else {
		log.Warn("stop loss modification rejected by broker")
	}

	if c.gateway.Live() {
		c.recorder.SLModify(ctx, pos.Ticket, pos.Symbol, newSL, lockedProfit, ok)
	} else {
		c.recorder.SLModifyMock(ctx, pos.Ticket, pos.Symbol, newSL, lockedProfit)
	}
	return nil
}

func (c *TrailController) removeStop(
	ctx context.Context,
	log *logger.Entry,
	pos model.Position,
	info model.SymbolInfo,
	decision trailing.Decision,
) error {
	profit := decision.Profit.InexactFloat64()
	log = log.WithFields(map[string]interface{}{
		"profit": profit,
		"reason": decision.Reason,
	})

	ok, err := c.gateway.ModifySL(ctx, connectors.ModifySLRequest{
		Ticket:     pos.Ticket,
		Symbol:     pos.Symbol,
		NewSL:      0,
		TakeProfit: pos.TakeProfit,
		Digits:     info.Digits,
	})
	if err != nil {
		log.WithError(err).Error("failed to remove stop loss")
		Capture(ctx, c.exceptionRepo, "TrailController", "controller", "gateway.ModifySL",
			"error", err, map[string]interface{}{"symbol": pos.Symbol, "ticket": pos.Ticket})
		return err
	}
	if !ok {
		log.Warn("stop loss removal rejected by broker")
		return nil
	}

	log.Warn("stop loss removed on collapsed profit")
	c.recorder.SLRemovedLowProfit(ctx, pos.Ticket, pos.Symbol, profit)
	return nil
}
