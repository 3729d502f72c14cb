package model

import (
	"time"

	"trailexecutor/src/utils"

	"github.com/shopspring/decimal"
)

// OHLCVBucket is one row of the timeframe aggregation query over the 1m cache.
type OHLCVBucket struct {
	Symbol      string          `json:"symbol"`
	MaxPrice    decimal.Decimal `json:"max_price"`
	MinPrice    decimal.Decimal `json:"min_price"`
	FirstPrice  decimal.Decimal `json:"first_price"`
	LastPrice   decimal.Decimal `json:"last_price"`
	SumVolume   decimal.Decimal `json:"sum_volume"`
	BucketStart time.Time       `json:"bucket_start"`
}

func (b OHLCVBucket) ToRate() Rate {
	return Rate{
		Time:   b.BucketStart,
		Open:   b.FirstPrice,
		High:   b.MaxPrice,
		Low:    b.MinPrice,
		Close:  b.LastPrice,
		Volume: b.SumVolume,
	}
}

type OHLCVBase struct {
	ID       uint            `json:"id"`
	Datetime time.Time       `json:"datetime"`
	Open     decimal.Decimal `json:"open"`
	High     decimal.Decimal `json:"high"`
	Low      decimal.Decimal `json:"low"`
	Close    decimal.Decimal `json:"close"`
	Volume   decimal.Decimal `json:"volume"`
	Symbol   string          `json:"symbol"`
}

func (o *OHLCVBase) ConvertToOHLCVCrypto1m() *OHLCVCrypto1m {
	return &OHLCVCrypto1m{
		ID:       o.ID,
		Datetime: utils.ResetTime(o.Datetime, "minute"),
		Open:     o.Open,
		High:     o.High,
		Low:      o.Low,
		Close:    o.Close,
		Volume:   o.Volume,
		Symbol:   o.Symbol,
	}
}
