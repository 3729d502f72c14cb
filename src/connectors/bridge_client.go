// REST client for the MT5 bridge service.
// RESTY ONLY + INTERNAL RETRY
package connectors

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	logger "github.com/sirupsen/logrus"

	"trailexecutor/src/mapper"
	"trailexecutor/src/model"
)

const (
	// Default retry configuration
	defaultRetryAttempts   = 5
	defaultRetryBaseDelay  = 500 * time.Millisecond
	defaultRetryMaxBackoff = 8 * time.Second
)

// APIResponse is the bridge envelope: code 0 means success, anything else
// carries a bridge-level error message.
type APIResponse struct {
	Code int             `json:"code"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data"`
}

// BridgeClient is the live Gateway implementation against an MT5 bridge.
type BridgeClient struct {
	apiKey    string
	apiSecret string
	baseURL   string
	http      *resty.Client
	quotes    *QuoteStream
}

func isRetryableResp(r *resty.Response, err error) bool {
	if err != nil {
		return true
	}

	if r == nil {
		return false
	}

	code := r.StatusCode()

	if code >= 500 && code <= 599 {
		return true
	}
	if code == 429 {
		return true
	}
	if code == 408 {
		return true
	}
	return false
}

func NewBridgeClient(apiKey, apiSecret, baseURL string) *BridgeClient {
	retryCount := defaultRetryAttempts - 1

	if baseURL == "" {
		baseURL = "http://127.0.0.1:8787"
		logger.Warnf("No bridge base URL provided, using default: %s", baseURL)
	}

	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(15 * time.Second).
		SetRetryCount(retryCount).
		SetRetryWaitTime(defaultRetryBaseDelay).
		SetRetryMaxWaitTime(defaultRetryMaxBackoff).
		AddRetryCondition(isRetryableResp)

	return &BridgeClient{
		apiKey:    apiKey,
		apiSecret: apiSecret,
		baseURL:   baseURL,
		http:      httpClient,
	}
}

func signRequest(path, query, body string, expiry int64, secret string) string {
	base := path
	if query != "" {
		base += query
	}
	base += fmt.Sprintf("%d", expiry)
	if body != "" {
		base += body
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(base))
	return hex.EncodeToString(mac.Sum(nil))
}

func (c *BridgeClient) doRequest(ctx context.Context, method, path, query string, body []byte) (*APIResponse, error) {
	expiry := time.Now().Add(1 * time.Minute).Unix()

	sig := signRequest(path, query, string(body), expiry, c.apiSecret)

	req := c.http.R().
		SetContext(ctx).
		SetHeader("x-bridge-access-token", c.apiKey).
		SetHeader("x-bridge-request-expiry", fmt.Sprintf("%d", expiry)).
		SetHeader("x-bridge-request-signature", sig).
		SetHeader("x-bridge-request-id", "req-"+uuid.NewString())

	if query != "" {
		req = req.SetQueryString(query)
	}
	if body != nil {
		req = req.SetBody(body).SetHeader("Content-Type", "application/json")
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		return nil, err
	}

	raw := resp.Body()

	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode(), string(raw))
	}

	var apiResp APIResponse
	if err := json.Unmarshal(raw, &apiResp); err != nil {
		return nil, err
	}

	return &apiResp, nil
}

func (c *BridgeClient) Live() bool { return true }

func (c *BridgeClient) Ping(ctx context.Context) error {
	resp, err := c.doRequest(ctx, "GET", "/api/v1/ping", "", nil)
	if err != nil {
		return fmt.Errorf("bridge ping failed: %w", err)
	}
	if resp.Code != 0 {
		return fmt.Errorf("bridge ping error: %s", resp.Msg)
	}
	return nil
}

func (c *BridgeClient) ListPositions(ctx context.Context, filter PositionFilter) ([]model.Position, error) {
	query := ""
	appendParam := func(k, v string) {
		if query != "" {
			query += "&"
		}
		query += k + "=" + v
	}
	if filter.Symbol != "" {
		appendParam("symbol", filter.Symbol)
	}
	if filter.Ticket != 0 {
		appendParam("ticket", fmt.Sprintf("%d", filter.Ticket))
	}
	if filter.Magic != 0 {
		appendParam("magic", fmt.Sprintf("%d", filter.Magic))
	}

	resp, err := c.doRequest(ctx, "GET", "/api/v1/positions", query, nil)
	if err != nil {
		return nil, err
	}
	if resp.Code != 0 {
		return nil, fmt.Errorf("bridge error: %s", resp.Msg)
	}

	var parsed []model.BridgePosition
	if err := json.Unmarshal(resp.Data, &parsed); err != nil {
		return nil, err
	}
	return mapper.MapBridgePositions(parsed), nil
}

func (c *BridgeClient) SymbolInfo(ctx context.Context, symbol string) (model.SymbolInfo, error) {
	resp, err := c.doRequest(ctx, "GET", "/api/v1/symbols/info", "symbol="+symbol, nil)
	if err != nil {
		return model.SymbolInfo{}, err
	}
	if resp.Code != 0 {
		return model.SymbolInfo{}, fmt.Errorf("bridge error: %s", resp.Msg)
	}

	var parsed model.BridgeSymbolInfo
	if err := json.Unmarshal(resp.Data, &parsed); err != nil {
		return model.SymbolInfo{}, err
	}
	return mapper.MapBridgeSymbolInfo(parsed), nil
}

func (c *BridgeClient) Rates(ctx context.Context, symbol, timeframe string, count int) ([]model.Rate, error) {
	query := fmt.Sprintf("symbol=%s&timeframe=%s&count=%d", symbol, timeframe, count)

	resp, err := c.doRequest(ctx, "GET", "/api/v1/rates", query, nil)
	if err != nil {
		return nil, err
	}
	if resp.Code != 0 {
		return nil, fmt.Errorf("bridge error: %s", resp.Msg)
	}

	var parsed []model.BridgeBar
	if err := json.Unmarshal(resp.Data, &parsed); err != nil {
		return nil, err
	}
	return mapper.MapBridgeBars(parsed), nil
}

// ModifySL submits one stop modification. The price is rounded to the
// symbol's digits before it goes out; NewSL 0 removes the stop. A non-done
// trade retcode is a broker rejection: reported as (false, nil), never an
// error, so the scan tick carries on.
func (c *BridgeClient) ModifySL(ctx context.Context, req ModifySLRequest) (bool, error) {
	sl := decimal.NewFromFloat(req.NewSL).Round(req.Digits).InexactFloat64()
	tp := decimal.NewFromFloat(req.TakeProfit).Round(req.Digits).InexactFloat64()

	body, err := json.Marshal(map[string]interface{}{
		"ticket": req.Ticket,
		"symbol": req.Symbol,
		"sl":     sl,
		"tp":     tp,
	})
	if err != nil {
		return false, err
	}

	resp, err := c.doRequest(ctx, "POST", "/api/v1/positions/modify-sl", "", body)
	if err != nil {
		return false, err
	}
	if resp.Code != 0 {
		return false, fmt.Errorf("bridge error: %s", resp.Msg)
	}

	var result model.BridgeModifyResult
	if err := json.Unmarshal(resp.Data, &result); err != nil {
		return false, err
	}

	if result.Retcode == TradeRetcodeDone {
		return true, nil
	}

	if IsRetcodeRejection(result.Retcode) {
		logger.WithFields(map[string]interface{}{
			"ticket":  req.Ticket,
			"symbol":  req.Symbol,
			"sl":      sl,
			"retcode": result.Retcode,
			"reason":  GetRetcodeMsg(result.Retcode),
		}).Warn("Bridge rejected stop modification")
		return false, nil
	}

	return false, fmt.Errorf("unexpected trade retcode %d (%s): %s",
		result.Retcode, GetRetcodeMsg(result.Retcode), result.Comment)
}

// StartQuoteStream connects the websocket quote feed and keeps the in-memory
// quote cache warm until ctx is canceled.
func (c *BridgeClient) StartQuoteStream(ctx context.Context, wsURL string, symbols []string) {
	c.quotes = NewQuoteStream(wsURL, symbols)
	go c.quotes.Run(ctx)
}

// QuoteSnapshot returns the current quote cache; empty when no stream runs.
func (c *BridgeClient) QuoteSnapshot() []Quote {
	if c.quotes == nil {
		return nil
	}
	return c.quotes.Snapshot()
}
