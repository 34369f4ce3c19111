package usecase

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"stockchecker/internal/domain"
)

// maxSymbolsPerQuery caps a request at a pairwise comparison. Extra symbols
// are truncated, not rejected.
const maxSymbolsPerQuery = 2

// StockData is one assembled response record. Likes is set for single-stock
// lookups; RelLikes replaces it when exactly two stocks are compared.
type StockData struct {
	Stock    string  `json:"stock"`
	Price    float64 `json:"price"`
	Likes    *int    `json:"likes,omitempty"`
	RelLikes *int    `json:"rel-likes,omitempty"`
}

// QuoteService orchestrates a stock-prices lookup: symbol normalization,
// stock resolution, optional like registration, parallel price fetches, and
// response assembly.
type QuoteService struct {
	stockRepo    domain.StockRepository
	likeService  domain.LikeService
	priceService domain.PriceService
}

// NewQuoteService creates a new QuoteService
func NewQuoteService(
	stockRepo domain.StockRepository,
	likeService domain.LikeService,
	priceService domain.PriceService,
) *QuoteService {
	return &QuoteService{
		stockRepo:    stockRepo,
		likeService:  likeService,
		priceService: priceService,
	}
}

// GetQuotes resolves the requested symbols, applies the client's like when
// asked, fetches prices, and assembles the response records. With exactly two
// records the raw like counts become relative likes.
func (qs *QuoteService) GetQuotes(ctx context.Context, symbols []string, like bool, rawIdentity string) ([]StockData, error) {
	names, err := cleanUpSymbols(symbols)
	if err != nil {
		return nil, err
	}

	stocks := make([]*domain.Stock, 0, len(names))
	for _, name := range names {
		stock, err := qs.stockRepo.FindOrCreate(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve stock %s: %w", name, err)
		}
		stocks = append(stocks, stock)
	}

	if like {
		stocks, err = qs.likeService.RegisterLike(ctx, rawIdentity, stocks)
		if err != nil {
			return nil, err
		}
	}

	prices, err := qs.fetchPrices(ctx, stocks)
	if err != nil {
		return nil, err
	}

	return toRelative(assemble(stocks, prices)), nil
}

// fetchPrices fetches the price of every stock in parallel and joins before
// returning. A single fetch failure fails the whole lookup.
func (qs *QuoteService) fetchPrices(ctx context.Context, stocks []*domain.Stock) ([]float64, error) {
	prices := make([]float64, len(stocks))

	g, ctx := errgroup.WithContext(ctx)
	for i, stock := range stocks {
		i, stock := i, stock
		g.Go(func() error {
			price, err := qs.priceService.FetchPrice(ctx, stock.Name)
			if err != nil {
				return err
			}
			prices[i] = price
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return prices, nil
}

// cleanUpSymbols truncates the request to the first two symbols, uppercases
// them, and rejects empty or non-alphabetic entries.
func cleanUpSymbols(symbols []string) ([]string, error) {
	if len(symbols) == 0 {
		return nil, fmt.Errorf("%w: no stock symbol provided", domain.ErrInvalidSymbol)
	}
	if len(symbols) > maxSymbolsPerQuery {
		symbols = symbols[:maxSymbolsPerQuery]
	}

	names := make([]string, 0, len(symbols))
	for _, symbol := range symbols {
		name := domain.NormalizeSymbol(symbol)
		if !isValidSymbol(name) {
			return nil, fmt.Errorf("%w: %q", domain.ErrInvalidSymbol, symbol)
		}
		names = append(names, name)
	}
	return names, nil
}

func isValidSymbol(name string) bool {
	if len(name) == 0 || len(name) > 10 {
		return false
	}
	for _, r := range name {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}

// assemble zips each stock with its fetched price into a response record
func assemble(stocks []*domain.Stock, prices []float64) []StockData {
	records := make([]StockData, len(stocks))
	for i, stock := range stocks {
		likes := stock.Likes
		records[i] = StockData{
			Stock: stock.Name,
			Price: prices[i],
			Likes: &likes,
		}
	}
	return records
}

// toRelative replaces raw like counts with relative likes when exactly two
// records are compared: each record carries its own likes minus the other's,
// so the pair is symmetric and sums to zero. A single record passes through
// unchanged.
func toRelative(records []StockData) []StockData {
	if len(records) != 2 {
		return records
	}

	rel0 := *records[0].Likes - *records[1].Likes
	rel1 := *records[1].Likes - *records[0].Likes

	records[0].Likes, records[0].RelLikes = nil, &rel0
	records[1].Likes, records[1].RelLikes = nil, &rel1

	return records
}
