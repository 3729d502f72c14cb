package handler

import (
	"encoding/json"
	"net/http"

	logger "github.com/sirupsen/logrus"

	"trailexecutor/src/connectors"
)

// QuoteSource exposes the cached websocket quotes. The live bridge client
// satisfies this; replay runs have no stream and serve an empty list.
type QuoteSource interface {
	QuoteSnapshot() []connectors.Quote
}

// QuotesHandler returns the latest cached quote per subscribed symbol.
func QuotesHandler(source QuoteSource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		quotes := source.QuoteSnapshot()
		if quotes == nil {
			quotes = []connectors.Quote{}
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(quotes); err != nil {
			logger.WithError(err).Error("failed to encode quotes response")
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
	}
}
