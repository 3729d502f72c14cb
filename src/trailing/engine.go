package trailing

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"trailexecutor/src/model"

	"github.com/shopspring/decimal"
)

// Action tags the decision variants the engine can emit for one position.
type Action string

const (
	ActionNone               Action = "none"
	ActionSetFirstProtective Action = "set_first_protective"
	ActionTrailMove          Action = "trail_move"
	ActionRemoveLowProfit    Action = "remove_low_profit"
)

// Decision is the outcome of one evaluation of one position. NewSL and
// LockedProfit are only meaningful for the set/trail actions, Profit for the
// remove action. Reason explains no-ops and removals in log output.
type Decision struct {
	Action       Action
	NewSL        decimal.Decimal
	LockedProfit decimal.Decimal
	Profit       decimal.Decimal
	Multiplier   decimal.Decimal
	VolumeRatio  decimal.Decimal
	ATR          decimal.Decimal
	Reason       string
}

// MarketContext is the market snapshot an engine decides on: the recent bar
// series (oldest first) and the contract parameters of the symbol.
type MarketContext struct {
	Bars []model.Rate
	Info model.SymbolInfo
}

// Engine decides what to do with one position's stop given a market
// snapshot. Implementations must be pure: no I/O, no clock, no state carried
// between calls. The scan loop rebuilds the position from the broker every
// tick, so deciding twice on the same snapshot yields a no-op the second
// time once the first decision was applied.
type Engine interface {
	Name() string
	Decide(pos model.Position, mkt MarketContext) (Decision, error)
}

var ErrUnknownStrategy = errors.New("unknown trailing strategy")

var (
	registryMu sync.RWMutex
	registry   = map[string]func(Config) Engine{}
)

// Register adds an engine factory under a strategy name. Called from init
// funcs of the engine implementations.
func Register(name string, factory func(Config) Engine) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[name] = factory
}

// NewEngine builds the engine selected by name. Strategy selection happens
// once at startup, never per tick.
func NewEngine(name string, cfg Config) (Engine, error) {
	registryMu.RLock()
	factory, ok := registry[name]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
	}
	return factory(cfg), nil
}

// Strategies lists the registered strategy names, sorted.
func Strategies() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
