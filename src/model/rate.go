package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Rate is one closed OHLCV bar as served by a gateway, oldest-first when in a
// slice. The last element is the most recent closed bar.
type Rate struct {
	Time   time.Time       `json:"time"`
	Open   decimal.Decimal `json:"open"`
	High   decimal.Decimal `json:"high"`
	Low    decimal.Decimal `json:"low"`
	Close  decimal.Decimal `json:"close"`
	Volume decimal.Decimal `json:"volume"`
}
