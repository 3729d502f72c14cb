package trailing

import (
	"trailexecutor/src/model"
	"trailexecutor/src/risk"
	"trailexecutor/src/tp_sl"

	"github.com/shopspring/decimal"
)

const StrategyVolumeATR = "volume_atr"

func init() {
	Register(StrategyVolumeATR, func(cfg Config) Engine {
		return NewVolumeATR(cfg)
	})
}

// VolumeATR trails the stop at a volume-scaled ATR distance from price.
//
// Precedence per evaluation:
//  1. protected and net profit at or below the removal threshold -> remove
//  2. unprotected and net profit clears the start threshold -> first
//     protective stop, which must lock at least the safety buffer
//  3. protected -> ratcheted trail move, or nothing
type VolumeATR struct {
	cfg             Config
	params          risk.ProfitParams
	removeThreshold decimal.Decimal
}

func NewVolumeATR(cfg Config) *VolumeATR {
	return &VolumeATR{
		cfg:             cfg,
		params:          cfg.ProfitParams(),
		removeThreshold: decimal.NewFromFloat(cfg.RemoveProfitThreshold),
	}
}

func (e *VolumeATR) Name() string { return StrategyVolumeATR }

func (e *VolumeATR) Decide(pos model.Position, mkt MarketContext) (Decision, error) {
	net := risk.NetUnrealized(pos, mkt.Info, e.params)

	// The safety removal never waits for bar history.
	if pos.Protected() && net.LessThanOrEqual(e.removeThreshold) {
		return Decision{
			Action: ActionRemoveLowProfit,
			Profit: net,
			Reason: "net profit at or below removal threshold",
		}, nil
	}

	if !pos.Protected() && net.LessThan(e.params.MinProfitToStart) {
		return Decision{Action: ActionNone, Profit: net, Reason: "waiting for profit"}, nil
	}

	atr, err := tp_sl.WilderATR(mkt.Bars, e.cfg.ATRPeriod)
	if err != nil {
		return Decision{Action: ActionNone}, err
	}
	ratio := tp_sl.VolumeRatio(mkt.Bars, e.cfg.VolumeLookback)
	mult := Multiplier(ratio, e.cfg)

	side := tp_sl.SideOf(pos)
	price := decimal.NewFromFloat(pos.PriceCurrent)
	candidate := tp_sl.CandidateStop(side, price, mult.Mul(atr))

	base := Decision{Profit: net, Multiplier: mult, VolumeRatio: ratio, ATR: atr}

	if !pos.Protected() {
		return e.firstProtective(pos, mkt, side, price, candidate, base), nil
	}
	return e.trailMove(pos, mkt, side, price, candidate, base), nil
}

// firstProtective places the initial stop. The volatility candidate is
// tightened to the buffer-lock price when it alone would lock less than the
// safety buffer; if the broker distance rule then pushes the stop back below
// the buffer, no stop goes out this tick.
func (e *VolumeATR) firstProtective(
	pos model.Position,
	mkt MarketContext,
	side tp_sl.Side,
	price, candidate decimal.Decimal,
	d Decision,
) Decision {
	locked := risk.LockedProfit(pos, mkt.Info, candidate, e.params)
	if !risk.MeetsBuffer(locked, e.params) {
		candidate = tp_sl.Tighter(side, candidate, risk.BufferLockPrice(pos, mkt.Info, e.params))
	}

	candidate = tp_sl.ClampToMinDistance(side, candidate, price, mkt.Info.MinStopDistance())
	candidate = mkt.Info.Round(candidate)

	locked = risk.LockedProfit(pos, mkt.Info, candidate, e.params)
	if !risk.MeetsBuffer(locked, e.params) {
		d.Action = ActionNone
		d.Reason = "cannot lock safety buffer at broker distance"
		return d
	}

	d.Action = ActionSetFirstProtective
	d.NewSL = candidate
	d.LockedProfit = locked
	return d
}

func (e *VolumeATR) trailMove(
	pos model.Position,
	mkt MarketContext,
	side tp_sl.Side,
	price, candidate decimal.Decimal,
	d Decision,
) Decision {
	candidate = tp_sl.ClampToMinDistance(side, candidate, price, mkt.Info.MinStopDistance())
	candidate = mkt.Info.Round(candidate)

	current := decimal.NewFromFloat(pos.StopLoss)
	if !tp_sl.AcceptStop(side, current, candidate, mkt.Info.PointValue()) {
		d.Action = ActionNone
		d.Reason = "candidate does not improve on committed stop"
		return d
	}
	if !risk.NoWorseThanCurrent(pos, mkt.Info, candidate, e.params) {
		d.Action = ActionNone
		d.Reason = "candidate would lock less profit than committed stop"
		return d
	}

	d.Action = ActionTrailMove
	d.NewSL = candidate
	d.LockedProfit = risk.LockedProfit(pos, mkt.Info, candidate, e.params)
	return d
}
