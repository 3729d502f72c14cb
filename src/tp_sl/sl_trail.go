package tp_sl

import (
	"trailexecutor/src/model"

	"github.com/shopspring/decimal"
)

type Side string

const (
	SideLong  Side = "long"
	SideShort Side = "short"
)

// SideOf maps a broker position onto the trailing side.
func SideOf(p model.Position) Side {
	if p.IsSell() {
		return SideShort
	}
	return SideLong
}

// CandidateStop offsets the current price by the stop distance on the
// protective side of the position.
func CandidateStop(side Side, price, distance decimal.Decimal) decimal.Decimal {
	if side == SideShort {
		return price.Add(distance)
	}
	return price.Sub(distance)
}

// Tighter returns the more protective of two stop prices for the side:
// the higher one for longs, the lower one for shorts.
func Tighter(side Side, a, b decimal.Decimal) decimal.Decimal {
	if side == SideShort {
		if b.LessThan(a) {
			return b
		}
		return a
	}
	if b.GreaterThan(a) {
		return b
	}
	return a
}

// ClampToMinDistance pulls a candidate back so it honors the broker's minimum
// stop distance from the current price. The clamp only ever loosens a stop,
// never tightens it.
func ClampToMinDistance(side Side, proposed, price, minDist decimal.Decimal) decimal.Decimal {
	switch side {
	case SideLong:
		limit := price.Sub(minDist)
		if proposed.GreaterThan(limit) {
			return limit
		}
	case SideShort:
		limit := price.Add(minDist)
		if proposed.LessThan(limit) {
			return limit
		}
	}
	return proposed
}

// AcceptStop applies the ratchet rule.
//
// Long:
// - proposed must be strictly above the current stop
// Short:
// - proposed must be strictly below the current stop
//
// Either way the move must cover at least one broker point; equal or worse
// candidates are rejected and the stop stays where it is.
func AcceptStop(side Side, current, proposed, point decimal.Decimal) bool {
	var gain decimal.Decimal
	switch side {
	case SideLong:
		gain = proposed.Sub(current)
	case SideShort:
		gain = current.Sub(proposed)
	default:
		return false
	}
	return gain.IsPositive() && gain.GreaterThanOrEqual(point)
}
