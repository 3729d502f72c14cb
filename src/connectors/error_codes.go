package connectors

import "fmt"

// MT5 trade server return codes surfaced by the bridge on stop
// modifications.
const (
	TradeRetcodeDone         = 10009
	TradeRetcodeRequote      = 10004
	TradeRetcodeReject       = 10006
	TradeRetcodeInvalid      = 10013
	TradeRetcodeInvalidStops = 10016
	TradeRetcodeMarketClosed = 10018
	TradeRetcodeNoChanges    = 10025
	TradeRetcodeFrozen       = 10029
)

// TradeRetcodes maps MT5 trade return codes to their symbolic names.
var TradeRetcodes = map[int]string{
	10004: "TRADE_RETCODE_REQUOTE",           // Requote
	10006: "TRADE_RETCODE_REJECT",            // Request rejected
	10007: "TRADE_RETCODE_CANCEL",            // Request canceled by trader
	10008: "TRADE_RETCODE_PLACED",            // Order placed
	10009: "TRADE_RETCODE_DONE",              // Request completed
	10010: "TRADE_RETCODE_DONE_PARTIAL",      // Request partially completed
	10011: "TRADE_RETCODE_ERROR",             // Request processing error
	10012: "TRADE_RETCODE_TIMEOUT",           // Request canceled by timeout
	10013: "TRADE_RETCODE_INVALID",           // Invalid request
	10014: "TRADE_RETCODE_INVALID_VOLUME",    // Invalid volume in request
	10015: "TRADE_RETCODE_INVALID_PRICE",     // Invalid price in request
	10016: "TRADE_RETCODE_INVALID_STOPS",     // Invalid stops (minimum distance violated)
	10017: "TRADE_RETCODE_TRADE_DISABLED",    // Trade disabled
	10018: "TRADE_RETCODE_MARKET_CLOSED",     // Market closed
	10019: "TRADE_RETCODE_NO_MONEY",          // Not enough money
	10020: "TRADE_RETCODE_PRICE_CHANGED",     // Price changed
	10021: "TRADE_RETCODE_PRICE_OFF",         // No quotes to process request
	10022: "TRADE_RETCODE_INVALID_EXPIRATION",// Invalid order expiration
	10023: "TRADE_RETCODE_ORDER_CHANGED",     // Order state changed
	10024: "TRADE_RETCODE_TOO_MANY_REQUESTS", // Too frequent requests
	10025: "TRADE_RETCODE_NO_CHANGES",        // No changes in request
	10026: "TRADE_RETCODE_SERVER_DISABLES_AT",// Autotrading disabled by server
	10027: "TRADE_RETCODE_CLIENT_DISABLES_AT",// Autotrading disabled by client
	10028: "TRADE_RETCODE_LOCKED",            // Request locked for processing
	10029: "TRADE_RETCODE_FROZEN",            // Order or position frozen
	10030: "TRADE_RETCODE_INVALID_FILL",      // Invalid fill type
	10031: "TRADE_RETCODE_CONNECTION",        // No connection with trade server
	10033: "TRADE_RETCODE_LIMIT_ORDERS",      // Pending order limit reached
	10034: "TRADE_RETCODE_LIMIT_VOLUME",      // Volume limit for symbol reached
}

// GetRetcodeMsg returns the symbolic name for an MT5 trade return code.
// If the code is unknown, returns a generic message including the code.
func GetRetcodeMsg(code int) string {
	if msg, ok := TradeRetcodes[code]; ok {
		return msg
	}
	return fmt.Sprintf("UNKNOWN_TRADE_RETCODE_%d", code)
}

// IsRetcodeRejection reports whether a non-done retcode is an ordinary
// broker rejection the loop should report and retry next tick, as opposed
// to a transport-level failure.
func IsRetcodeRejection(code int) bool {
	_, known := TradeRetcodes[code]
	return known && code != TradeRetcodeDone
}
