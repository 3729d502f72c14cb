package controller

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus/hooks/test"

	"trailexecutor/src/connectors"
	"trailexecutor/src/events"
	"trailexecutor/src/model"
	"trailexecutor/src/trailing"
)

type fakeGateway struct {
	info      model.SymbolInfo
	bars      []model.Rate
	ratesErr  error
	modifyOK  bool
	modifyErr error
	live      bool

	modifyCalls []connectors.ModifySLRequest
}

func (g *fakeGateway) Ping(ctx context.Context) error { return nil }

func (g *fakeGateway) ListPositions(ctx context.Context, filter connectors.PositionFilter) ([]model.Position, error) {
	return nil, nil
}

func (g *fakeGateway) SymbolInfo(ctx context.Context, symbol string) (model.SymbolInfo, error) {
	return g.info, nil
}

func (g *fakeGateway) Rates(ctx context.Context, symbol, timeframe string, count int) ([]model.Rate, error) {
	if g.ratesErr != nil {
		return nil, g.ratesErr
	}
	return g.bars, nil
}

func (g *fakeGateway) ModifySL(ctx context.Context, req connectors.ModifySLRequest) (bool, error) {
	g.modifyCalls = append(g.modifyCalls, req)
	return g.modifyOK, g.modifyErr
}

func (g *fakeGateway) Live() bool { return g.live }

type eventCapture struct {
	events []*model.TrailEvent
}

func (s *eventCapture) Create(ctx context.Context, event *model.TrailEvent) error {
	s.events = append(s.events, event)
	return nil
}

type exceptionCapture struct {
	rows []*model.Exception
}

func (s *exceptionCapture) Create(ctx context.Context, exc *model.Exception) error {
	s.rows = append(s.rows, exc)
	return nil
}

// trailBars builds bars with constant true range 0.0010 and a final volume
// spike of 2x the window mean: with period/lookback 3, ATR = 0.0010 and the
// multiplier lands on 4.5, a stop distance of 0.0045.
func trailBars(mid string) []model.Rate {
	m, _ := decimal.NewFromString(mid)
	half, _ := decimal.NewFromString("0.0005")
	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	vols := []int64{10, 10, 10, 10, 20}
	bars := make([]model.Rate, 0, len(vols))
	for i, v := range vols {
		bars = append(bars, model.Rate{
			Time:   start.Add(time.Duration(i) * time.Minute),
			Open:   m,
			High:   m.Add(half),
			Low:    m.Sub(half),
			Close:  m,
			Volume: decimal.NewFromInt(v),
		})
	}
	return bars
}

func trailTestEngine(t *testing.T) trailing.Engine {
	t.Helper()
	eng, err := trailing.NewEngine("volume_atr", trailing.Config{
		BaseMultiplier:    3.0,
		VolumeSensitivity: 1.5,
		MinMultiplier:     1.5,
		MaxMultiplier:     6.0,
		MinProfitToStart:  0.10,
		ExtraSafetyBuffer: 1.00,
		ATRPeriod:         3,
		VolumeLookback:    3,
	})
	if err != nil {
		t.Fatalf("building engine: %v", err)
	}
	return eng
}

func newTrailController(t *testing.T, gateway *fakeGateway) (*TrailController, *eventCapture, *exceptionCapture) {
	t.Helper()
	log, _ := test.NewNullLogger()
	store := &eventCapture{}
	excs := &exceptionCapture{}
	rec := events.NewRecorderWithLogger(log, store, "volume_atr")
	ctrl := NewTrailController(gateway, trailTestEngine(t), rec, excs, Config{Timeframe: "M5", BarCount: 100})
	return ctrl, store, excs
}

func eurusdPosition(open, current, sl float64) model.Position {
	return model.Position{
		Ticket:       100200,
		Symbol:       "EURUSD",
		Type:         model.PositionTypeBuy,
		Volume:       1.0,
		PriceOpen:    open,
		PriceCurrent: current,
		StopLoss:     sl,
		TakeProfit:   1.2000,
	}
}

func TestProcessPositionSetsFirstStopMock(t *testing.T) {
	gateway := &fakeGateway{
		info:     model.SymbolInfo{Name: "EURUSD", Digits: 4, Point: 0.0001, ContractSize: 100000},
		bars:     trailBars("1.1050"),
		modifyOK: true,
		live:     false,
	}
	ctrl, store, _ := newTrailController(t, gateway)

	if err := ctrl.ProcessPosition(context.Background(), eurusdPosition(1.1000, 1.1050, 0)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(gateway.modifyCalls) != 1 {
		t.Fatalf("expected one modify call, got %d", len(gateway.modifyCalls))
	}
	req := gateway.modifyCalls[0]
	if req.NewSL != 1.1005 {
		t.Fatalf("expected stop 1.1005, got %v", req.NewSL)
	}
	if req.TakeProfit != 1.2000 {
		t.Fatalf("take profit must pass through, got %v", req.TakeProfit)
	}
	if req.Digits != 4 {
		t.Fatalf("expected digits 4, got %d", req.Digits)
	}

	if len(store.events) != 1 || store.events[0].Event != model.EventSLModifyMock {
		t.Fatalf("expected one mock event, got %+v", store.events)
	}
	if store.events[0].Success != nil {
		t.Fatalf("mock event must not carry success: %+v", store.events[0])
	}
}

func TestProcessPositionLiveRecordsRejection(t *testing.T) {
	gateway := &fakeGateway{
		info:     model.SymbolInfo{Name: "EURUSD", Digits: 4, Point: 0.0001, ContractSize: 100000},
		bars:     trailBars("1.1050"),
		modifyOK: false, // broker rejection
		live:     true,
	}
	ctrl, store, _ := newTrailController(t, gateway)

	if err := ctrl.ProcessPosition(context.Background(), eurusdPosition(1.1000, 1.1050, 0)); err != nil {
		t.Fatalf("rejection must not surface as error: %v", err)
	}

	if len(store.events) != 1 || store.events[0].Event != model.EventSLModify {
		t.Fatalf("expected one live event, got %+v", store.events)
	}
	if store.events[0].Success == nil || *store.events[0].Success {
		t.Fatalf("expected success false, got %+v", store.events[0].Success)
	}
}

func TestProcessPositionRemovesStopWithoutBars(t *testing.T) {
	gateway := &fakeGateway{
		info:     model.SymbolInfo{Name: "EURUSD", Digits: 4, Point: 0.0001, ContractSize: 100000},
		ratesErr: errors.New("feed offline"),
		modifyOK: true,
		live:     true,
	}
	ctrl, store, excs := newTrailController(t, gateway)

	// protected and under water: the safety removal must fire even though
	// the bar fetch failed
	pos := eurusdPosition(1.1050, 1.1040, 1.1000)
	if err := ctrl.ProcessPosition(context.Background(), pos); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(gateway.modifyCalls) != 1 || gateway.modifyCalls[0].NewSL != 0 {
		t.Fatalf("expected a removal call, got %+v", gateway.modifyCalls)
	}
	if len(store.events) != 1 || store.events[0].Event != model.EventSLRemovedLowProfit {
		t.Fatalf("expected removal event, got %+v", store.events)
	}
	if store.events[0].Profit == nil || *store.events[0].Profit != -100 {
		t.Fatalf("expected profit -100, got %+v", store.events[0].Profit)
	}

	if len(excs.rows) != 1 || excs.rows[0].Method != "gateway.Rates" {
		t.Fatalf("expected the rates failure to be captured, got %+v", excs.rows)
	}
}

func TestProcessPositionSkipsOnInsufficientBars(t *testing.T) {
	gateway := &fakeGateway{
		info: model.SymbolInfo{Name: "EURUSD", Digits: 4, Point: 0.0001, ContractSize: 100000},
		bars: trailBars("1.1050")[:2], // not enough for ATR period 3
	}
	ctrl, store, _ := newTrailController(t, gateway)

	if err := ctrl.ProcessPosition(context.Background(), eurusdPosition(1.1000, 1.1050, 0)); err != nil {
		t.Fatalf("insufficient bars must be a silent skip: %v", err)
	}
	if len(gateway.modifyCalls) != 0 || len(store.events) != 0 {
		t.Fatalf("expected no side effects, got calls=%d events=%d", len(gateway.modifyCalls), len(store.events))
	}
}

func TestProcessPositionModifyErrorIsCaptured(t *testing.T) {
	gateway := &fakeGateway{
		info:      model.SymbolInfo{Name: "EURUSD", Digits: 4, Point: 0.0001, ContractSize: 100000},
		bars:      trailBars("1.1050"),
		modifyErr: errors.New("bridge unreachable"),
	}
	ctrl, store, excs := newTrailController(t, gateway)

	err := ctrl.ProcessPosition(context.Background(), eurusdPosition(1.1000, 1.1050, 0))
	if err == nil {
		t.Fatalf("expected transport error to surface")
	}
	if len(store.events) != 0 {
		t.Fatalf("no event must be recorded on transport failure, got %+v", store.events)
	}
	if len(excs.rows) != 1 || excs.rows[0].Method != "gateway.ModifySL" {
		t.Fatalf("expected the modify failure to be captured, got %+v", excs.rows)
	}
}

func TestProcessPositionNoOpDoesNothing(t *testing.T) {
	gateway := &fakeGateway{
		info: model.SymbolInfo{Name: "EURUSD", Digits: 4, Point: 0.0001, ContractSize: 100000},
		bars: trailBars("1.1050"),
	}
	ctrl, store, _ := newTrailController(t, gateway)

	// flat position, nothing to lock yet
	if err := ctrl.ProcessPosition(context.Background(), eurusdPosition(1.1050, 1.1050, 0)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(gateway.modifyCalls) != 0 || len(store.events) != 0 {
		t.Fatalf("expected no side effects, got calls=%d events=%d", len(gateway.modifyCalls), len(store.events))
	}
}
