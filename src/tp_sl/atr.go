package tp_sl

import (
	"errors"

	"trailexecutor/src/model"

	"github.com/shopspring/decimal"
)

// ErrInsufficientBars means the history is too short to seed the ATR. The
// caller skips the symbol for the tick instead of treating it as a failure.
var ErrInsufficientBars = errors.New("not enough bars for atr")

// TrueRange of cur given the bar before it:
// max(high-low, |high-prevClose|, |low-prevClose|).
func TrueRange(prev, cur model.Rate) decimal.Decimal {
	hl := cur.High.Sub(cur.Low)
	hc := cur.High.Sub(prev.Close).Abs()
	lc := cur.Low.Sub(prev.Close).Abs()

	tr := hl
	if hc.GreaterThan(tr) {
		tr = hc
	}
	if lc.GreaterThan(tr) {
		tr = lc
	}
	return tr
}

// WilderATR computes the smoothed average true range of the last bar.
//
// The first period true ranges are averaged to seed the series, then each
// following bar folds in as atr += (tr - atr) / period. Needs at least
// period+1 bars because the very first bar only supplies a previous close.
func WilderATR(bars []model.Rate, period int) (decimal.Decimal, error) {
	if period <= 0 {
		period = 14
	}
	if len(bars) < period+1 {
		return decimal.Zero, ErrInsufficientBars
	}

	trs := make([]decimal.Decimal, 0, len(bars)-1)
	for i := 1; i < len(bars); i++ {
		trs = append(trs, TrueRange(bars[i-1], bars[i]))
	}

	p := decimal.NewFromInt(int64(period))

	atr := decimal.Zero
	for _, tr := range trs[:period] {
		atr = atr.Add(tr)
	}
	atr = atr.Div(p)

	for _, tr := range trs[period:] {
		atr = atr.Add(tr.Sub(atr).Div(p))
	}
	return atr, nil
}
