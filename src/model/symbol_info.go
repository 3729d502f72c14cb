package model

import "github.com/shopspring/decimal"

// SymbolInfo carries the broker contract parameters the stop math depends on.
type SymbolInfo struct {
	Name         string  `json:"name"`
	Digits       int32   `json:"digits"`
	Point        float64 `json:"point"`
	ContractSize float64 `json:"contract_size"`
	StopsLevel   int     `json:"stops_level"`
}

func (s SymbolInfo) PointValue() decimal.Decimal {
	return decimal.NewFromFloat(s.Point)
}

// MinStopDistance is the broker-enforced minimum gap between the current
// price and any stop order, expressed in price units.
func (s SymbolInfo) MinStopDistance() decimal.Decimal {
	return decimal.NewFromFloat(s.Point).Mul(decimal.NewFromInt(int64(s.StopsLevel)))
}

// Round truncates a price to the symbol's quote precision.
func (s SymbolInfo) Round(price decimal.Decimal) decimal.Decimal {
	return price.Round(s.Digits)
}
