package dto

// StockPricesResponse wraps the assembled records in the "stockData"
// envelope. One stock yields a single object, two stocks an array; Data holds
// whichever shape applies.
type StockPricesResponse struct {
	StockData interface{} `json:"stockData"`
}

// ErrorResponse is the body for failed stock-prices requests
type ErrorResponse struct {
	Error string `json:"error"`
}
