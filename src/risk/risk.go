package risk

import (
	"trailexecutor/src/model"

	"github.com/shopspring/decimal"
)

// ----- profit parameters -----

type ProfitParams struct {
	MinProfitToStart  decimal.Decimal
	ExtraSafetyBuffer decimal.Decimal
	CommissionPerLot  decimal.Decimal
}

// DefaultProfitParams matches the production deployment values.
func DefaultProfitParams() ProfitParams {
	return ProfitParams{
		MinProfitToStart:  decimal.NewFromFloat(0.10),
		ExtraSafetyBuffer: decimal.NewFromFloat(1.00),
		CommissionPerLot:  decimal.Zero,
	}
}

// ----- public API -----

// Commission returns the cost to subtract from any profit figure. The
// broker-reported value wins when present; otherwise the per-lot estimate
// from config is scaled by the position volume.
func Commission(pos model.Position, params ProfitParams) decimal.Decimal {
	if pos.Commission != 0 {
		return decimal.NewFromFloat(pos.Commission).Abs()
	}
	return params.CommissionPerLot.Mul(decimal.NewFromFloat(pos.Volume))
}

// LockedProfit values the position as if it were closed at stop: price
// movement in account currency minus commission minus swap. Swap enters as an
// absolute cost regardless of its reported sign.
func LockedProfit(pos model.Position, info model.SymbolInfo, stop decimal.Decimal, params ProfitParams) decimal.Decimal {
	sign := decimal.NewFromInt(int64(pos.DirectionSign()))
	lotValue := decimal.NewFromFloat(pos.Volume).Mul(decimal.NewFromFloat(info.ContractSize))

	move := stop.Sub(decimal.NewFromFloat(pos.PriceOpen)).Mul(sign).Mul(lotValue)
	return move.Sub(Commission(pos, params)).Sub(decimal.NewFromFloat(pos.Swap).Abs())
}

// NetUnrealized is LockedProfit evaluated at the current price.
func NetUnrealized(pos model.Position, info model.SymbolInfo, params ProfitParams) decimal.Decimal {
	return LockedProfit(pos, info, decimal.NewFromFloat(pos.PriceCurrent), params)
}

// BufferLockPrice is the stop price that locks exactly ExtraSafetyBuffer of
// net profit. Used when the volatility candidate alone is not protective
// enough for the first stop.
func BufferLockPrice(pos model.Position, info model.SymbolInfo, params ProfitParams) decimal.Decimal {
	open := decimal.NewFromFloat(pos.PriceOpen)
	lotValue := decimal.NewFromFloat(pos.Volume).Mul(decimal.NewFromFloat(info.ContractSize))
	if lotValue.IsZero() {
		return open
	}

	required := params.ExtraSafetyBuffer.
		Add(Commission(pos, params)).
		Add(decimal.NewFromFloat(pos.Swap).Abs())

	offset := required.Div(lotValue)
	if pos.IsSell() {
		return open.Sub(offset)
	}
	return open.Add(offset)
}

// MeetsBuffer reports whether a locked profit satisfies the first-stop
// safety requirement.
func MeetsBuffer(locked decimal.Decimal, params ProfitParams) bool {
	return locked.GreaterThanOrEqual(params.ExtraSafetyBuffer)
}

// NoWorseThanCurrent rejects stop moves that would lock less profit than the
// stop already committed at the broker. Unprotected positions accept any
// candidate.
func NoWorseThanCurrent(pos model.Position, info model.SymbolInfo, proposed decimal.Decimal, params ProfitParams) bool {
	if !pos.Protected() {
		return true
	}
	current := LockedProfit(pos, info, decimal.NewFromFloat(pos.StopLoss), params)
	return LockedProfit(pos, info, proposed, params).GreaterThanOrEqual(current)
}
