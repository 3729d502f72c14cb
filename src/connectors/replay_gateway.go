package connectors

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	logger "github.com/sirupsen/logrus"

	"trailexecutor/src/model"
)

// BarSource supplies historical bars for replay runs, typically backed by
// the OHLCV tables.
type BarSource interface {
	RecentBars(ctx context.Context, symbol string, timeframe time.Duration, count int) ([]model.Rate, error)
}

// replayFixture is the on-disk shape accepted by LoadFixture.
type replayFixture struct {
	Positions []model.Position   `json:"positions"`
	Symbols   []model.SymbolInfo `json:"symbols"`
}

// ReplayGateway serves positions and bars without a broker behind it. Stop
// modifications mutate the in-memory book and always succeed, so a full
// scan loop can run against recorded data.
type ReplayGateway struct {
	bars BarSource

	mu        sync.RWMutex
	positions map[int64]model.Position
	symbols   map[string]model.SymbolInfo
	rates     map[string][]model.Rate
}

func NewReplayGateway(bars BarSource) *ReplayGateway {
	return &ReplayGateway{
		bars:      bars,
		positions: make(map[int64]model.Position),
		symbols:   make(map[string]model.SymbolInfo),
		rates:     make(map[string][]model.Rate),
	}
}

// LoadFixture reads a JSON file with positions and symbol definitions.
func (g *ReplayGateway) LoadFixture(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading replay fixture: %w", err)
	}

	var fixture replayFixture
	if err := json.Unmarshal(raw, &fixture); err != nil {
		return fmt.Errorf("parsing replay fixture: %w", err)
	}

	g.SetPositions(fixture.Positions)
	for _, info := range fixture.Symbols {
		g.SetSymbolInfo(info)
	}

	logger.WithFields(map[string]interface{}{
		"positions": len(fixture.Positions),
		"symbols":   len(fixture.Symbols),
	}).Info("Replay fixture loaded")
	return nil
}

func (g *ReplayGateway) SetPositions(positions []model.Position) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.positions = make(map[int64]model.Position, len(positions))
	for _, p := range positions {
		g.positions[p.Ticket] = p
	}
}

func (g *ReplayGateway) SetSymbolInfo(info model.SymbolInfo) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.symbols[info.Name] = info
}

// SetRates pins static bars for a symbol, used when no BarSource is wired.
func (g *ReplayGateway) SetRates(symbol string, bars []model.Rate) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.rates[symbol] = bars
}

func (g *ReplayGateway) Live() bool { return false }

func (g *ReplayGateway) Ping(ctx context.Context) error { return nil }

func (g *ReplayGateway) ListPositions(ctx context.Context, filter PositionFilter) ([]model.Position, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	var out []model.Position
	for _, p := range g.positions {
		if filter.Match(p) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (g *ReplayGateway) SymbolInfo(ctx context.Context, symbol string) (model.SymbolInfo, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	info, ok := g.symbols[symbol]
	if !ok {
		return model.SymbolInfo{}, fmt.Errorf("replay gateway has no symbol info for %q", symbol)
	}
	return info, nil
}

func (g *ReplayGateway) Rates(ctx context.Context, symbol, timeframe string, count int) ([]model.Rate, error) {
	g.mu.RLock()
	pinned, hasPinned := g.rates[symbol]
	g.mu.RUnlock()

	if hasPinned {
		if count > 0 && len(pinned) > count {
			pinned = pinned[len(pinned)-count:]
		}
		return pinned, nil
	}

	if g.bars == nil {
		return nil, fmt.Errorf("replay gateway has no bars for %q", symbol)
	}

	dur, err := TimeframeDuration(timeframe)
	if err != nil {
		return nil, err
	}
	return g.bars.RecentBars(ctx, symbol, dur, count)
}

// ModifySL applies the change directly to the in-memory position. Rounding
// mirrors the live client so replay decisions see the same prices.
func (g *ReplayGateway) ModifySL(ctx context.Context, req ModifySLRequest) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	p, ok := g.positions[req.Ticket]
	if !ok {
		return false, fmt.Errorf("replay gateway has no position with ticket %d", req.Ticket)
	}

	p.StopLoss = decimal.NewFromFloat(req.NewSL).Round(req.Digits).InexactFloat64()
	if req.TakeProfit != 0 {
		p.TakeProfit = decimal.NewFromFloat(req.TakeProfit).Round(req.Digits).InexactFloat64()
	}
	g.positions[req.Ticket] = p

	return true, nil
}
