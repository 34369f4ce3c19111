package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockchecker/internal/domain"
)

func TestFetchPrice(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/stock/GOOG/quote", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"symbol":"GOOG","latestPrice":137.42}`))
	}))
	defer srv.Close()

	prices := NewPriceService(srv.URL)
	price, err := prices.FetchPrice(context.Background(), "GOOG")
	require.NoError(t, err)
	assert.Equal(t, 137.42, price)
}

func TestFetchPriceUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quote service down", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	prices := NewPriceService(srv.URL)
	_, err := prices.FetchPrice(context.Background(), "GOOG")
	assert.ErrorIs(t, err, domain.ErrUpstreamUnavailable)
}

func TestFetchPriceMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	prices := NewPriceService(srv.URL)
	_, err := prices.FetchPrice(context.Background(), "GOOG")
	assert.ErrorIs(t, err, domain.ErrUpstreamUnavailable)
}

func TestFetchPriceUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // closed before use

	prices := NewPriceService(srv.URL)
	_, err := prices.FetchPrice(context.Background(), "GOOG")
	assert.ErrorIs(t, err, domain.ErrUpstreamUnavailable)
}
