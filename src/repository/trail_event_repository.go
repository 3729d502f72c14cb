package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"trailexecutor/src/database"
	"trailexecutor/src/model"
)

// TrailEventRepository persists stop-management events for later audit.
type TrailEventRepository struct {
	db *gorm.DB
}

func NewTrailEventRepository() *TrailEventRepository {
	return &TrailEventRepository{
		db: database.MainDB,
	}
}

func NewTrailEventRepositoryWithDB(db *gorm.DB) *TrailEventRepository {
	return &TrailEventRepository{
		db: db,
	}
}

// Create persists one event row.
func (r *TrailEventRepository) Create(ctx context.Context, event *model.TrailEvent) error {
	return r.db.WithContext(ctx).Create(event).Error
}

// TrailEventFilter narrows a Search. Zero values mean "no filter".
type TrailEventFilter struct {
	Event  string
	Ticket int64
	Symbol string
	Since  time.Time
	Limit  int
}

// Search returns matching events, newest first.
func (r *TrailEventRepository) Search(ctx context.Context, filter TrailEventFilter) ([]model.TrailEvent, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}

	query := r.db.WithContext(ctx).Model(&model.TrailEvent{})
	if filter.Event != "" {
		query = query.Where("event = ?", filter.Event)
	}
	if filter.Ticket != 0 {
		query = query.Where("ticket = ?", filter.Ticket)
	}
	if filter.Symbol != "" {
		query = query.Where("symbol = ?", filter.Symbol)
	}
	if !filter.Since.IsZero() {
		query = query.Where("created_at >= ?", filter.Since)
	}

	var rows []model.TrailEvent
	err := query.Order("created_at DESC").Limit(limit).Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
