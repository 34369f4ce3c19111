package http

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"stockchecker/internal/delivery/http/dto"
	"stockchecker/internal/domain"
	"stockchecker/internal/usecase"
)

// StockHandler handles stock price requests
type StockHandler struct {
	quotes *usecase.QuoteService
}

// NewStockHandler creates a new StockHandler
func NewStockHandler(quotes *usecase.QuoteService) *StockHandler {
	return &StockHandler{quotes: quotes}
}

// GetStockPrices handles the stock price lookup with optional like
// GET /api/stock-prices?stock=SYM[&stock=SYM2][&like=true]
func (h *StockHandler) GetStockPrices(c echo.Context) error {
	symbols := c.QueryParams()["stock"]
	like := c.QueryParam("like") == "true"
	identity := clientIdentity(c)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 15*time.Second)
	defer cancel()

	records, err := h.quotes.GetQuotes(ctx, symbols, like, identity)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidSymbol):
			return BadRequestResponse(c, err.Error())
		case errors.Is(err, domain.ErrUpstreamUnavailable):
			log.Printf("ERROR: upstream price fetch failed: %v", err)
			return BadGatewayResponse(c, "stock price source unavailable")
		default:
			log.Printf("ERROR: stock prices lookup failed: %v", err)
			return InternalServerErrorResponse(c, "failed to look up stock prices")
		}
	}

	// A single stock is returned as a bare object, not a one-element array
	var stockData interface{} = records
	if len(records) == 1 {
		stockData = records[0]
	}

	return c.JSON(http.StatusOK, dto.StockPricesResponse{StockData: stockData})
}

// clientIdentity resolves the requesting client's raw identity: the
// x-forwarded-for header when present, else the transport peer address with
// the port stripped.
func clientIdentity(c echo.Context) string {
	if fwd := c.Request().Header.Get("X-Forwarded-For"); fwd != "" {
		return fwd
	}

	addr := c.Request().RemoteAddr
	if host, _, err := net.SplitHostPort(addr); err == nil {
		return host
	}
	return addr
}
