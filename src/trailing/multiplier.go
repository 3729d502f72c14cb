package trailing

import "github.com/shopspring/decimal"

// Multiplier maps a relative volume ratio onto the ATR multiplier:
//
//	base + sensitivity*(ratio-1), clamped to [min, max]
//
// Average volume (ratio 1) yields the base multiplier. Busy tape widens the
// stop so winners survive the noise; quiet tape tightens it. The clamp keeps
// a bad print or a volume spike from producing a degenerate distance.
func Multiplier(ratio decimal.Decimal, cfg Config) decimal.Decimal {
	base := decimal.NewFromFloat(cfg.BaseMultiplier)
	sens := decimal.NewFromFloat(cfg.VolumeSensitivity)
	minM := decimal.NewFromFloat(cfg.MinMultiplier)
	maxM := decimal.NewFromFloat(cfg.MaxMultiplier)

	one := decimal.NewFromInt(1)
	mult := base.Add(sens.Mul(ratio.Sub(one)))

	if mult.LessThan(minM) {
		return minM
	}
	if mult.GreaterThan(maxM) {
		return maxM
	}
	return mult
}

// StopDistance is the price offset between the current price and the
// trailing stop candidate.
func StopDistance(atr, ratio decimal.Decimal, cfg Config) decimal.Decimal {
	return Multiplier(ratio, cfg).Mul(atr)
}
