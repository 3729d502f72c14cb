// Package events emits the stop-management audit trail: one structured JSON
// log line per event, mirrored into the trail_events table when a store is
// attached.
package events

import (
	"context"

	logger "github.com/sirupsen/logrus"

	"trailexecutor/src/model"
)

// Store persists event rows. The repository satisfies this; tests use stubs.
type Store interface {
	Create(ctx context.Context, event *model.TrailEvent) error
}

// Recorder writes the audit trail. Persistence failures are logged and
// swallowed so a broken events table never stalls the scan loop.
type Recorder struct {
	log      *logger.Logger
	store    Store
	strategy string
}

// NewRecorder builds a recorder with its own JSON logger so event lines stay
// machine-parseable regardless of the process log format. store may be nil,
// in which case events only go to the log.
func NewRecorder(store Store, strategy string) *Recorder {
	log := logger.New()
	log.SetLevel(logger.StandardLogger().GetLevel())
	log.SetFormatter(&logger.JSONFormatter{TimestampFormat: "2006-01-02T15:04:05.000Z07:00"})
	return NewRecorderWithLogger(log, store, strategy)
}

func NewRecorderWithLogger(log *logger.Logger, store Store, strategy string) *Recorder {
	return &Recorder{
		log:      log,
		store:    store,
		strategy: strategy,
	}
}

// SLModify records a live stop modification attempt and its broker outcome.
func (r *Recorder) SLModify(ctx context.Context, ticket int64, symbol string, newSL, lockedProfit float64, success bool) {
	r.log.WithFields(logger.Fields{
		"event":         model.EventSLModify,
		"ticket":        ticket,
		"symbol":        symbol,
		"new_sl":        newSL,
		"locked_profit": lockedProfit,
		"success":       success,
		"strategy":      r.strategy,
	}).Info("Stop loss modification")

	r.persist(ctx, &model.TrailEvent{
		Event:        model.EventSLModify,
		Ticket:       ticket,
		Symbol:       symbol,
		Strategy:     r.strategy,
		NewSL:        &newSL,
		LockedProfit: &lockedProfit,
		Success:      &success,
	})
}

// SLModifyMock records a replay-mode modification. There is no broker behind
// it, so the event carries no success field.
func (r *Recorder) SLModifyMock(ctx context.Context, ticket int64, symbol string, newSL, lockedProfit float64) {
	r.log.WithFields(logger.Fields{
		"event":         model.EventSLModifyMock,
		"ticket":        ticket,
		"symbol":        symbol,
		"new_sl":        newSL,
		"locked_profit": lockedProfit,
		"strategy":      r.strategy,
	}).Info("Stop loss modification (mock)")

	r.persist(ctx, &model.TrailEvent{
		Event:        model.EventSLModifyMock,
		Ticket:       ticket,
		Symbol:       symbol,
		Strategy:     r.strategy,
		NewSL:        &newSL,
		LockedProfit: &lockedProfit,
	})
}

// SLRemovedLowProfit records a safety removal of a protective stop.
func (r *Recorder) SLRemovedLowProfit(ctx context.Context, ticket int64, symbol string, profit float64) {
	r.log.WithFields(logger.Fields{
		"event":    model.EventSLRemovedLowProfit,
		"ticket":   ticket,
		"symbol":   symbol,
		"profit":   profit,
		"strategy": r.strategy,
	}).Warn("Stop loss removed on collapsed profit")

	r.persist(ctx, &model.TrailEvent{
		Event:    model.EventSLRemovedLowProfit,
		Ticket:   ticket,
		Symbol:   symbol,
		Strategy: r.strategy,
		Profit:   &profit,
	})
}

func (r *Recorder) persist(ctx context.Context, event *model.TrailEvent) {
	if r.store == nil {
		return
	}
	if err := r.store.Create(ctx, event); err != nil {
		r.log.WithError(err).WithField("event", event.Event).Error("Failed to persist trail event")
	}
}
