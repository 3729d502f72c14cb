package model

import "time"

// TrailEvent is one persisted stop-management event. The Event column holds
// one of the Event* constants; the optional columns are populated per event
// type and everything else goes into Metadata.
type TrailEvent struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Event        string         `gorm:"size:50;not null;index" json:"event"`
	Ticket       int64          `gorm:"index" json:"ticket"`
	Symbol       string         `gorm:"size:50;index" json:"symbol"`
	Strategy     string         `gorm:"size:50" json:"strategy,omitempty"`
	NewSL        *float64       `json:"new_sl,omitempty"`
	LockedProfit *float64       `json:"locked_profit,omitempty"`
	Profit       *float64       `json:"profit,omitempty"`
	Success      *bool          `json:"success,omitempty"`
	Metadata     map[string]any `gorm:"serializer:json;type:jsonb" json:"metadata,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
}

const (
	EventSLModify           = "SL_MODIFY"
	EventSLModifyMock       = "SL_MODIFY_MOCK"
	EventSLRemovedLowProfit = "SL_REMOVED_LOW_PROFIT"
)
