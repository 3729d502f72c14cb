package mapper

import (
	"strconv"
	"time"

	logger "github.com/sirupsen/logrus"

	"trailexecutor/src/model"

	"github.com/shopspring/decimal"
)

// parseFloatSafe parses numeric wire fields in a "safe" way: a bad or empty
// value is logged and defaulted to 0 instead of aborting the whole mapping.
func parseFloatSafe(field, v string) float64 {
	if v == "" {
		return 0
	}

	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		logger.WithFields(map[string]interface{}{
			"field": field,
			"value": v,
		}).WithError(err).Error("Failed to parse float from bridge response field; defaulting to 0")
		return 0
	}
	return f
}

func parseDecimalSafe(field, v string) decimal.Decimal {
	if v == "" {
		return decimal.Zero
	}

	dec, err := decimal.NewFromString(v)
	if err != nil {
		logger.WithFields(map[string]interface{}{
			"field": field,
			"value": v,
		}).WithError(err).Error("Failed to parse decimal from bridge response field; defaulting to 0")
		return decimal.Zero
	}
	return dec
}

// MapBridgePosition converts a bridge position payload into the runtime model.
func MapBridgePosition(p model.BridgePosition) model.Position {
	return model.Position{
		Ticket:       p.Ticket,
		Symbol:       p.Symbol,
		Type:         p.Type,
		Volume:       p.Volume,
		PriceOpen:    parseFloatSafe("price_open", p.PriceOpen),
		PriceCurrent: parseFloatSafe("price_current", p.PriceCurrent),
		StopLoss:     parseFloatSafe("sl", p.SL),
		TakeProfit:   parseFloatSafe("tp", p.TP),
		Profit:       parseFloatSafe("profit", p.Profit),
		Swap:         parseFloatSafe("swap", p.Swap),
		Commission:   parseFloatSafe("commission", p.Commission),
		Magic:        p.Magic,
		Comment:      p.Comment,
		OpenedAt:     time.Unix(p.TimeSetup, 0).UTC(),
	}
}

func MapBridgePositions(in []model.BridgePosition) []model.Position {
	out := make([]model.Position, 0, len(in))
	for _, p := range in {
		out = append(out, MapBridgePosition(p))
	}
	return out
}

func MapBridgeSymbolInfo(s model.BridgeSymbolInfo) model.SymbolInfo {
	return model.SymbolInfo{
		Name:         s.Name,
		Digits:       s.Digits,
		Point:        parseFloatSafe("point", s.Point),
		ContractSize: s.ContractSize,
		StopsLevel:   s.StopsLevel,
	}
}

func MapBridgeBars(in []model.BridgeBar) []model.Rate {
	out := make([]model.Rate, 0, len(in))
	for _, b := range in {
		out = append(out, model.Rate{
			Time:   time.Unix(b.Time, 0).UTC(),
			Open:   parseDecimalSafe("open", b.Open),
			High:   parseDecimalSafe("high", b.High),
			Low:    parseDecimalSafe("low", b.Low),
			Close:  parseDecimalSafe("close", b.Close),
			Volume: parseDecimalSafe("tick_volume", b.Volume),
		})
	}
	return out
}
