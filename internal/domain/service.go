package domain

import "context"

// IdentityHasher turns a raw client address into a stable, irreversible
// identity token and verifies raw addresses against stored tokens.
// Verification is deliberately slow; callers must not assume it completes
// instantly or run it in an unguarded loop on a hot path.
type IdentityHasher interface {
	Hash(raw string) (string, error)
	Matches(raw, token string) bool
}

// PriceService defines the interface for fetching stock prices from the
// upstream quote source
type PriceService interface {
	FetchPrice(ctx context.Context, symbol string) (float64, error)
}

// LikeService enforces at-most-one-like-per-client-per-stock
type LikeService interface {
	// RegisterLike applies the client's like to every stock in the batch not
	// already liked, returning the stocks in input order
	RegisterLike(ctx context.Context, rawIdentity string, stocks []*Stock) ([]*Stock, error)

	// RemoveLike withdraws the client's like from a stock; no-op if the
	// client never liked it
	RemoveLike(ctx context.Context, rawIdentity, stockName string) error
}
