package kalshi

// APIMarket is a market as returned by the Kalshi trade API. Prices are in
// cents.
type APIMarket struct {
	Ticker    string `json:"ticker"`
	Title     string `json:"title"`
	Status    string `json:"status"` // "active", "closed", "settled", "finalized"
	Result    string `json:"result"` // "yes", "no", or "" until settlement
	YesAsk    int    `json:"yes_ask"`
	YesBid    int    `json:"yes_bid"`
	NoAsk     int    `json:"no_ask"`
	LastPrice int    `json:"last_price"`
	CloseTime string `json:"close_time"`
}

// marketResponse is the envelope around a single-market lookup.
type marketResponse struct {
	Market APIMarket `json:"market"`
}
