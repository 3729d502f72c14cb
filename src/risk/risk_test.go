package risk

import (
	"testing"

	"trailexecutor/src/model"

	"github.com/shopspring/decimal"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func params() ProfitParams {
	return ProfitParams{
		MinProfitToStart:  d("0.10"),
		ExtraSafetyBuffer: d("1.00"),
		CommissionPerLot:  decimal.Zero,
	}
}

func info() model.SymbolInfo {
	return model.SymbolInfo{
		Name:         "EURUSD",
		Digits:       4,
		Point:        0.0001,
		ContractSize: 100000,
	}
}

func buy(open, current float64) model.Position {
	return model.Position{
		Ticket:       1,
		Symbol:       "EURUSD",
		Type:         model.PositionTypeBuy,
		Volume:       1.0,
		PriceOpen:    open,
		PriceCurrent: current,
	}
}

func TestLockedProfit_Buy(t *testing.T) {
	// (1.1015 - 1.1000) * 1.0 * 100000 = 150
	got := LockedProfit(buy(1.1000, 1.1050), info(), d("1.1015"), params())
	if !got.Equal(d("150")) {
		t.Fatalf("expected 150 got=%s", got.String())
	}
}

func TestLockedProfit_Sell(t *testing.T) {
	pos := buy(1.1000, 1.0950)
	pos.Type = model.PositionTypeSell

	// sell: profit when stop below entry. (1.0980 - 1.1000) * -1 * 100000 = 200
	got := LockedProfit(pos, info(), d("1.0980"), params())
	if !got.Equal(d("200")) {
		t.Fatalf("expected 200 got=%s", got.String())
	}
}

func TestLockedProfit_SwapAndCommissionAreCosts(t *testing.T) {
	tests := []struct {
		name       string
		swap       float64
		commission float64
		want       string
	}{
		{"no costs", 0, 0, "150"},
		{"negative swap", -3.25, 0, "146.75"},
		{"positive swap still subtracted", 3.25, 0, "146.75"},
		{"broker commission", 0, 2.5, "147.5"},
		{"negative broker commission", 0, -2.5, "147.5"},
	}

	for _, tt := range tests {
		pos := buy(1.1000, 1.1050)
		pos.Swap = tt.swap
		pos.Commission = tt.commission

		got := LockedProfit(pos, info(), d("1.1015"), params())
		if !got.Equal(d(tt.want)) {
			t.Fatalf("%s: expected %s got=%s", tt.name, tt.want, got.String())
		}
	}
}

func TestCommission_EstimateFallback(t *testing.T) {
	p := params()
	p.CommissionPerLot = d("7")

	pos := buy(1.1000, 1.1050)
	pos.Volume = 0.5

	// no broker-reported commission: estimate 7 * 0.5
	got := Commission(pos, p)
	if !got.Equal(d("3.5")) {
		t.Fatalf("expected estimate 3.5 got=%s", got.String())
	}

	// broker-reported value wins over the estimate
	pos.Commission = 2.0
	got = Commission(pos, p)
	if !got.Equal(d("2")) {
		t.Fatalf("expected broker commission 2 got=%s", got.String())
	}
}

func TestNetUnrealized(t *testing.T) {
	got := NetUnrealized(buy(1.1000, 1.1050), info(), params())
	if !got.Equal(d("500")) {
		t.Fatalf("expected 500 got=%s", got.String())
	}
}

func TestBufferLockPrice_Buy(t *testing.T) {
	// 1.1000 + 1.00 / 100000 = 1.10001
	got := BufferLockPrice(buy(1.1000, 1.1050), info(), params())
	if !got.Equal(d("1.10001")) {
		t.Fatalf("expected 1.10001 got=%s", got.String())
	}
}

func TestBufferLockPrice_SellWithCosts(t *testing.T) {
	pos := buy(1.1000, 1.0900)
	pos.Type = model.PositionTypeSell
	pos.Volume = 0.01
	pos.Swap = -0.5

	p := params()
	p.CommissionPerLot = d("50")

	// lot value 1000, required = 1.00 + 0.5 + 0.5 = 2.00 -> offset 0.002 below entry
	got := BufferLockPrice(pos, info(), p)
	if !got.Equal(d("1.098")) {
		t.Fatalf("expected 1.098 got=%s", got.String())
	}

	locked := LockedProfit(pos, info(), got, p)
	if !locked.Equal(d("1")) {
		t.Fatalf("buffer price must lock exactly the buffer, got=%s", locked.String())
	}
}

func TestBufferLockPrice_ZeroVolumeFallsBackToEntry(t *testing.T) {
	pos := buy(1.1000, 1.1050)
	pos.Volume = 0

	got := BufferLockPrice(pos, info(), params())
	if !got.Equal(d("1.1")) {
		t.Fatalf("expected entry price got=%s", got.String())
	}
}

func TestMeetsBuffer(t *testing.T) {
	if MeetsBuffer(d("0.99"), params()) {
		t.Fatalf("0.99 must not satisfy a 1.00 buffer")
	}
	if !MeetsBuffer(d("1.00"), params()) {
		t.Fatalf("1.00 must satisfy a 1.00 buffer")
	}
}

func TestNoWorseThanCurrent(t *testing.T) {
	pos := buy(1.1000, 1.1050)

	// unprotected position accepts anything
	if !NoWorseThanCurrent(pos, info(), d("1.1001"), params()) {
		t.Fatalf("unprotected position must accept any candidate")
	}

	pos.StopLoss = 1.1020
	if NoWorseThanCurrent(pos, info(), d("1.1010"), params()) {
		t.Fatalf("candidate locking less than committed stop must be rejected")
	}
	if !NoWorseThanCurrent(pos, info(), d("1.1030"), params()) {
		t.Fatalf("candidate locking more than committed stop must be accepted")
	}
}
