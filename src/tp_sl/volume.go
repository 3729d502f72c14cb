package tp_sl

import (
	"trailexecutor/src/model"

	"github.com/shopspring/decimal"
)

// VolumeRatio compares the last bar's volume to the mean volume of the
// lookback bars before it. Short history or a dead tape (zero mean) yields
// the neutral ratio 1 so the multiplier stays at its base.
func VolumeRatio(bars []model.Rate, lookback int) decimal.Decimal {
	one := decimal.NewFromInt(1)
	if lookback <= 0 {
		lookback = 20
	}
	if len(bars) < lookback+1 {
		return one
	}

	cur := bars[len(bars)-1].Volume
	window := bars[len(bars)-1-lookback : len(bars)-1]

	sum := decimal.Zero
	for _, b := range window {
		sum = sum.Add(b.Volume)
	}
	mean := sum.Div(decimal.NewFromInt(int64(lookback)))
	if mean.LessThanOrEqual(decimal.Zero) {
		return one
	}
	return cur.Div(mean)
}
