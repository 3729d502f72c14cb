package connectors

// Test index:
//  1. TestReplayGatewayLoadFixture loads positions and symbols from a JSON file.
//  2. TestReplayGatewayListPositionsFilter applies the position filter locally.
//  3. TestReplayGatewayModifySL mutates the in-memory book with rounding.
//  4. TestReplayGatewayRatesPinned serves pinned bars windowed to count.
//  5. TestReplayGatewayRatesBarSource delegates to the configured bar source.

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"trailexecutor/src/model"
)

func replayPositions() []model.Position {
	return []model.Position{
		{Ticket: 1, Symbol: "EURUSD", Type: model.PositionTypeBuy, Volume: 0.5, PriceOpen: 1.1000, PriceCurrent: 1.1050, Magic: 777},
		{Ticket: 2, Symbol: "GBPUSD", Type: model.PositionTypeSell, Volume: 1.0, PriceOpen: 1.2700, PriceCurrent: 1.2650},
	}
}

// TestReplayGatewayLoadFixture loads positions and symbols from a JSON file.
func TestReplayGatewayLoadFixture(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fixture.json")
	fixture := `{
		"positions": [{"ticket": 10, "symbol": "EURUSD", "type": "buy", "volume": 0.5, "price_open": 1.1, "price_current": 1.105}],
		"symbols": [{"name": "EURUSD", "digits": 5, "point": 0.00001, "contract_size": 100000, "stops_level": 10}]
	}`
	if err := os.WriteFile(path, []byte(fixture), 0o600); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	g := NewReplayGateway(nil)
	if err := g.LoadFixture(path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	positions, err := g.ListPositions(context.Background(), PositionFilter{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(positions) != 1 || positions[0].Ticket != 10 {
		t.Fatalf("unexpected positions: %+v", positions)
	}

	info, err := g.SymbolInfo(context.Background(), "EURUSD")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if info.Digits != 5 {
		t.Fatalf("unexpected symbol info: %+v", info)
	}

	if _, err := g.SymbolInfo(context.Background(), "USDJPY"); err == nil {
		t.Fatalf("expected error for unknown symbol")
	}

	if err := g.LoadFixture(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatalf("expected error for missing fixture file")
	}
}

// TestReplayGatewayListPositionsFilter applies the position filter locally.
func TestReplayGatewayListPositionsFilter(t *testing.T) {
	g := NewReplayGateway(nil)
	g.SetPositions(replayPositions())

	bySymbol, err := g.ListPositions(context.Background(), PositionFilter{Symbol: "eurusd"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(bySymbol) != 1 || bySymbol[0].Ticket != 1 {
		t.Fatalf("symbol filter mismatch: %+v", bySymbol)
	}

	byMagic, err := g.ListPositions(context.Background(), PositionFilter{Magic: 777})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(byMagic) != 1 || byMagic[0].Magic != 777 {
		t.Fatalf("magic filter mismatch: %+v", byMagic)
	}

	none, err := g.ListPositions(context.Background(), PositionFilter{Ticket: 99})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(none) != 0 {
		t.Fatalf("expected empty result, got %+v", none)
	}
}

// TestReplayGatewayModifySL mutates the in-memory book with rounding.
func TestReplayGatewayModifySL(t *testing.T) {
	g := NewReplayGateway(nil)
	g.SetPositions(replayPositions())

	ok, err := g.ModifySL(context.Background(), ModifySLRequest{Ticket: 1, Symbol: "EURUSD", NewSL: 1.10048799, Digits: 4})
	if err != nil || !ok {
		t.Fatalf("expected success, got ok=%v err=%v", ok, err)
	}

	positions, _ := g.ListPositions(context.Background(), PositionFilter{Ticket: 1})
	if len(positions) != 1 {
		t.Fatalf("position disappeared")
	}
	if positions[0].StopLoss != 1.1005 {
		t.Fatalf("expected rounded stop 1.1005, got %v", positions[0].StopLoss)
	}
	if !positions[0].Protected() {
		t.Fatalf("expected position to be protected after modification")
	}

	if _, err := g.ModifySL(context.Background(), ModifySLRequest{Ticket: 99}); err == nil {
		t.Fatalf("expected error for unknown ticket")
	}
}

// TestReplayGatewayRatesPinned serves pinned bars windowed to count.
func TestReplayGatewayRatesPinned(t *testing.T) {
	g := NewReplayGateway(nil)

	bars := make([]model.Rate, 5)
	base := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	for i := range bars {
		bars[i] = model.Rate{Time: base.Add(time.Duration(i) * time.Minute), Close: decimal.NewFromInt(int64(i))}
	}
	g.SetRates("EURUSD", bars)

	got, err := g.Rates(context.Background(), "EURUSD", "M1", 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || !got[1].Close.Equal(decimal.NewFromInt(4)) {
		t.Fatalf("expected the last two bars, got %+v", got)
	}

	if _, err := g.Rates(context.Background(), "GBPUSD", "M1", 2); err == nil {
		t.Fatalf("expected error when no bars are available")
	}
}

type stubBarSource struct {
	symbol    string
	timeframe time.Duration
	count     int
	bars      []model.Rate
}

func (s *stubBarSource) RecentBars(ctx context.Context, symbol string, timeframe time.Duration, count int) ([]model.Rate, error) {
	s.symbol = symbol
	s.timeframe = timeframe
	s.count = count
	return s.bars, nil
}

// TestReplayGatewayRatesBarSource delegates to the configured bar source.
func TestReplayGatewayRatesBarSource(t *testing.T) {
	src := &stubBarSource{bars: []model.Rate{{Close: decimal.NewFromFloat(1.1)}}}
	g := NewReplayGateway(src)

	got, err := g.Rates(context.Background(), "EURUSD", "M5", 50)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("unexpected bars: %+v", got)
	}
	if src.symbol != "EURUSD" || src.timeframe != 5*time.Minute || src.count != 50 {
		t.Fatalf("bar source called with %q %v %d", src.symbol, src.timeframe, src.count)
	}

	if _, err := g.Rates(context.Background(), "EURUSD", "M7", 50); err == nil {
		t.Fatalf("expected error for unknown timeframe")
	}
}
