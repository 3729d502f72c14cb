package model

// Wire DTOs for the MT5 bridge REST API. Numeric price fields travel as
// strings so the bridge side controls precision; the mapper converts them
// safely into the runtime models.

type BridgePosition struct {
	Ticket       int64   `json:"ticket"`
	Symbol       string  `json:"symbol"`
	Type         string  `json:"type"` // buy | sell
	Volume       float64 `json:"volume"`
	PriceOpen    string  `json:"price_open"`
	PriceCurrent string  `json:"price_current"`
	SL           string  `json:"sl"`
	TP           string  `json:"tp"`
	Profit       string  `json:"profit"`
	Swap         string  `json:"swap"`
	Commission   string  `json:"commission"`
	Magic        int64   `json:"magic"`
	Comment      string  `json:"comment"`
	TimeSetup    int64   `json:"time_setup"` // unix seconds
}

type BridgeSymbolInfo struct {
	Name         string  `json:"name"`
	Digits       int32   `json:"digits"`
	Point        string  `json:"point"`
	ContractSize float64 `json:"trade_contract_size"`
	StopsLevel   int     `json:"trade_stops_level"`
}

type BridgeBar struct {
	Time   int64  `json:"time"` // unix seconds, bar open
	Open   string `json:"open"`
	High   string `json:"high"`
	Low    string `json:"low"`
	Close  string `json:"close"`
	Volume string `json:"tick_volume"`
}

type BridgeModifyResult struct {
	Retcode int    `json:"retcode"`
	Comment string `json:"comment"`
}
