package domain

import (
	"context"
)

// StockRepository defines the interface for stock data operations
type StockRepository interface {
	// FindOrCreate returns the stock for the given symbol, creating it with
	// zero likes if it does not exist. The symbol is canonicalized to
	// uppercase. Safe to call concurrently for the same symbol; the storage
	// layer owns the uniqueness invariant on the name.
	FindOrCreate(ctx context.Context, name string) (*Stock, error)

	// Save persists a mutated like count
	Save(ctx context.Context, stock *Stock) error

	// ReconcileLikes recomputes every stock's like count from the users'
	// liked-stock sets and returns the number of corrected rows
	ReconcileLikes(ctx context.Context) (int64, error)
}

// UserRepository defines the interface for client identity records
type UserRepository interface {
	// FindOrCreate returns the user whose stored identity token matches the
	// raw identity, creating a new user with a hashed token if none matches
	FindOrCreate(ctx context.Context, rawIdentity string) (*User, error)

	// Save persists a mutated liked-stocks set
	Save(ctx context.Context, user *User) error

	// Exists reports whether a user record matches the raw identity
	Exists(ctx context.Context, rawIdentity string) (bool, error)
}
