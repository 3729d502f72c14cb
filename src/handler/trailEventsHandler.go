package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	logger "github.com/sirupsen/logrus"

	"trailexecutor/src/model"
	"trailexecutor/src/repository"
)

type trailEventSearcher interface {
	Search(ctx context.Context, filter repository.TrailEventFilter) ([]model.TrailEvent, error)
}

// SearchTrailEventsHandler returns a handler that lists recorded stop
// events. Supports filters (event, ticket, symbol, since) and a limit.
func SearchTrailEventsHandler(repo trailEventSearcher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter := repository.TrailEventFilter{
			Event:  r.URL.Query().Get("event"),
			Symbol: r.URL.Query().Get("symbol"),
		}

		if ticketParam := r.URL.Query().Get("ticket"); ticketParam != "" {
			ticket, err := strconv.ParseInt(ticketParam, 10, 64)
			if err != nil {
				http.Error(w, "invalid ticket", http.StatusBadRequest)
				return
			}
			filter.Ticket = ticket
		}

		if sinceParam := r.URL.Query().Get("since"); sinceParam != "" {
			parsed, err := time.Parse(time.RFC3339, sinceParam)
			if err != nil {
				http.Error(w, "invalid since", http.StatusBadRequest)
				return
			}
			filter.Since = parsed
		}

		if limitParam := r.URL.Query().Get("limit"); limitParam != "" {
			limit, err := strconv.Atoi(limitParam)
			if err != nil || limit <= 0 {
				http.Error(w, "invalid limit", http.StatusBadRequest)
				return
			}
			filter.Limit = limit
		}

		events, err := repo.Search(r.Context(), filter)
		if err != nil {
			logger.WithError(err).Error("failed to search trail events")
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(events); err != nil {
			logger.WithError(err).Error("failed to encode trail event search response")
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
	}
}

// DefaultSearchTrailEventsHandler wires the handler to the production repository implementation.
func DefaultSearchTrailEventsHandler() http.HandlerFunc {
	return SearchTrailEventsHandler(repository.NewTrailEventRepository())
}
