package connectors

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"trailexecutor/src/model"
)

// PositionFilter narrows a position listing. Zero values mean "no filter";
// the fields combine with AND. The filter is pass-through only: the live
// bridge applies it server side, the replay gateway applies Match locally.
type PositionFilter struct {
	Symbol string
	Ticket int64
	Magic  int64
}

func (f PositionFilter) Match(p model.Position) bool {
	if f.Symbol != "" && !strings.EqualFold(f.Symbol, p.Symbol) {
		return false
	}
	if f.Ticket != 0 && f.Ticket != p.Ticket {
		return false
	}
	if f.Magic != 0 && f.Magic != p.Magic {
		return false
	}
	return true
}

// ModifySLRequest is one stop modification. NewSL 0 removes the stop.
// TakeProfit passes through unchanged so a modification never clears an
// existing target. Digits drives price rounding before submission.
type ModifySLRequest struct {
	Ticket     int64
	Symbol     string
	NewSL      float64
	TakeProfit float64
	Digits     int32
}

// Gateway is the broker surface the trailing loop runs against.
//
// ModifySL returns (false, nil) when the broker rejected the change (for
// example the minimum stop distance rule): that is a reportable event, not
// an error, and the position is simply re-evaluated next tick. Transport
// failures return an error.
type Gateway interface {
	Ping(ctx context.Context) error
	ListPositions(ctx context.Context, filter PositionFilter) ([]model.Position, error)
	SymbolInfo(ctx context.Context, symbol string) (model.SymbolInfo, error)
	Rates(ctx context.Context, symbol, timeframe string, count int) ([]model.Rate, error)
	ModifySL(ctx context.Context, req ModifySLRequest) (bool, error)
	Live() bool
}

var ErrUnknownTimeframe = errors.New("unknown timeframe")

// TimeframeDuration converts an MT5-style timeframe name (M1, M5, M15, M30,
// H1, H4, D1) into a duration.
func TimeframeDuration(tf string) (time.Duration, error) {
	switch strings.ToUpper(strings.TrimSpace(tf)) {
	case "M1":
		return time.Minute, nil
	case "M5":
		return 5 * time.Minute, nil
	case "M15":
		return 15 * time.Minute, nil
	case "M30":
		return 30 * time.Minute, nil
	case "H1":
		return time.Hour, nil
	case "H4":
		return 4 * time.Hour, nil
	case "D1":
		return 24 * time.Hour, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownTimeframe, tf)
	}
}
