package utils

import "strings"

// NormalizeToUSDT ensures that a symbol ends with USDT.
// Examples:
//
//	BTCUSD  -> BTCUSDT
//	ETHUSD  -> ETHUSDT
//	BTCUSDT -> BTCUSDT
//	ethusd  -> ETHUSDT
func NormalizeToUSDT(symbol string) string {
	if symbol == "" {
		return symbol
	}

	s := strings.ToUpper(strings.TrimSpace(symbol))

	// If it already ends with USDT, nothing to do
	if strings.HasSuffix(s, "USDT") {
		return s
	}

	// If it ends with USD, replace with USDT
	if strings.HasSuffix(s, "USD") {
		base := strings.TrimSuffix(s, "USD")
		return base + "USDT"
	}

	// Otherwise, return as is (do not force)
	return s
}

// CacheSymbolCandidates lists the spellings the 1m candle cache may use for a
// broker symbol. The backfill stores exchange pair names like BTC_USDT while
// the broker reports BTCUSD, so lookups try each in order.
func CacheSymbolCandidates(symbol string) []string {
	candidates := []string{symbol}

	normalized := NormalizeToUSDT(symbol)
	if normalized != symbol {
		candidates = append(candidates, normalized)
	}

	if base, found := strings.CutSuffix(normalized, "USDT"); found && base != "" && !strings.HasSuffix(base, "_") {
		candidates = append(candidates, base+"_USDT")
	}

	return candidates
}
