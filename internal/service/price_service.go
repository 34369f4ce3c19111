package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"stockchecker/internal/domain"
)

// PriceServiceImpl fetches latest stock prices from the quote proxy
type PriceServiceImpl struct {
	httpClient *http.Client
	baseURL    string
}

// NewPriceService creates a new PriceService against the given proxy base URL
func NewPriceService(baseURL string) domain.PriceService {
	return &PriceServiceImpl{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL: baseURL,
	}
}

// FetchPrice fetches the latest price for a single uppercase symbol.
// Any transport, status, or decode failure wraps domain.ErrUpstreamUnavailable
// so the request boundary can map it to an upstream error response.
func (s *PriceServiceImpl) FetchPrice(ctx context.Context, symbol string) (float64, error) {
	url := fmt.Sprintf("%s/v1/stock/%s/quote", s.baseURL, symbol)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: fetch failed for %s: %v", domain.ErrUpstreamUnavailable, symbol, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return 0, fmt.Errorf("%w: status=%d for %s: %s", domain.ErrUpstreamUnavailable, resp.StatusCode, symbol, string(body))
	}

	var quote struct {
		LatestPrice float64 `json:"latestPrice"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&quote); err != nil {
		return 0, fmt.Errorf("%w: malformed quote for %s: %v", domain.ErrUpstreamUnavailable, symbol, err)
	}

	return quote.LatestPrice, nil
}
