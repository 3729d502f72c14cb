package connectors

import (
	"context"
	"encoding/json"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	logger "github.com/sirupsen/logrus"
)

// Quote is the latest tick for one symbol, kept in the stream cache.
type Quote struct {
	Symbol string    `json:"symbol"`
	Bid    float64   `json:"bid"`
	Ask    float64   `json:"ask"`
	Time   time.Time `json:"time"`
}

type quoteFrame struct {
	Type   string  `json:"type"`
	Symbol string  `json:"symbol"`
	Bid    float64 `json:"bid"`
	Ask    float64 `json:"ask"`
	Time   int64   `json:"time"`
}

const (
	wsHandshakeTimeout = 15 * time.Second
	wsPingInterval     = 20 * time.Second
	wsReconnectBase    = time.Second
	wsReconnectMax     = 30 * time.Second
)

// QuoteStream consumes the bridge websocket tick feed and keeps the most
// recent quote per symbol. It reconnects with backoff until its context is
// canceled; readers only ever see the cache, never the socket.
type QuoteStream struct {
	url     string
	symbols []string

	mu     sync.RWMutex
	quotes map[string]Quote
}

func NewQuoteStream(url string, symbols []string) *QuoteStream {
	return &QuoteStream{
		url:     url,
		symbols: symbols,
		quotes:  make(map[string]Quote),
	}
}

// Run blocks until ctx is canceled, reconnecting whenever the socket drops.
func (s *QuoteStream) Run(ctx context.Context) {
	backoff := wsReconnectBase

	for {
		if ctx.Err() != nil {
			return
		}

		err := s.consume(ctx)
		if ctx.Err() != nil {
			return
		}
		if err != nil {
			logger.WithError(err).WithField("url", s.url).Warn("Quote stream disconnected")
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(backoff):
		}

		backoff *= 2
		if backoff > wsReconnectMax {
			backoff = wsReconnectMax
		}
	}
}

func (s *QuoteStream) consume(ctx context.Context) error {
	dialer := websocket.Dialer{
		HandshakeTimeout: wsHandshakeTimeout,
		Proxy:            http.ProxyFromEnvironment,
	}

	conn, _, err := dialer.DialContext(ctx, s.url, nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	if err := conn.WriteJSON(map[string]interface{}{
		"action":  "subscribe",
		"symbols": s.symbols,
	}); err != nil {
		return err
	}

	logger.WithField("symbols", s.symbols).Info("Quote stream connected")

	// close the socket on ctx cancel so ReadMessage unblocks
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	pingTicker := time.NewTicker(wsPingInterval)
	defer pingTicker.Stop()
	go func() {
		for {
			select {
			case <-pingTicker.C:
				conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(5*time.Second))
			case <-done:
				return
			}
		}
	}()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return err
		}

		var frame quoteFrame
		if err := json.Unmarshal(msg, &frame); err != nil {
			logger.WithError(err).Debug("Skipping unparseable quote frame")
			continue
		}
		if frame.Type != "" && frame.Type != "quote" {
			continue
		}
		if frame.Symbol == "" {
			continue
		}

		s.mu.Lock()
		s.quotes[frame.Symbol] = Quote{
			Symbol: frame.Symbol,
			Bid:    frame.Bid,
			Ask:    frame.Ask,
			Time:   time.Unix(frame.Time, 0).UTC(),
		}
		s.mu.Unlock()
	}
}

// Snapshot returns the cached quotes sorted by symbol.
func (s *QuoteStream) Snapshot() []Quote {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Quote, 0, len(s.quotes))
	for _, q := range s.quotes {
		out = append(out, q)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Symbol < out[j].Symbol })
	return out
}
