package model

import "time"

// Position is a live broker snapshot of an open trade. It is never persisted;
// the scan loop refetches it every tick and the stop state is whatever the
// broker reports in StopLoss (0 means no stop attached).
type Position struct {
	Ticket       int64     `json:"ticket"`
	Symbol       string    `json:"symbol"`
	Type         string    `json:"type"`
	Volume       float64   `json:"volume"`
	PriceOpen    float64   `json:"price_open"`
	PriceCurrent float64   `json:"price_current"`
	StopLoss     float64   `json:"sl"`
	TakeProfit   float64   `json:"tp"`
	Profit       float64   `json:"profit"`
	Swap         float64   `json:"swap"`
	Commission   float64   `json:"commission"`
	Magic        int64     `json:"magic"`
	Comment      string    `json:"comment,omitempty"`
	OpenedAt     time.Time `json:"opened_at"`
}

const (
	PositionTypeBuy  = "buy"
	PositionTypeSell = "sell"
)

func (p Position) IsBuy() bool  { return p.Type == PositionTypeBuy }
func (p Position) IsSell() bool { return p.Type == PositionTypeSell }

// DirectionSign is +1 for buys and -1 for sells.
func (p Position) DirectionSign() int {
	if p.IsBuy() {
		return 1
	}
	return -1
}

// Protected reports whether the broker currently holds a stop for the position.
func (p Position) Protected() bool { return p.StopLoss != 0 }
