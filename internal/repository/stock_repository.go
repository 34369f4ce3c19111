package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"stockchecker/internal/domain"
)

// StockRepositoryImpl implements the StockRepository interface
type StockRepositoryImpl struct {
	db *pgxpool.Pool
}

// NewStockRepository creates a new StockRepository
func NewStockRepository(db *pgxpool.Pool) domain.StockRepository {
	return &StockRepositoryImpl{db: db}
}

// FindOrCreate returns the stock for the given symbol, creating it lazily on
// first reference. The upsert leans on the UNIQUE constraint on stocks.name:
// two concurrent requests for a never-seen symbol cannot create duplicate
// rows, and the loser of the race gets the winner's row back.
func (r *StockRepositoryImpl) FindOrCreate(ctx context.Context, name string) (*domain.Stock, error) {
	name = domain.NormalizeSymbol(name)

	query := `
		INSERT INTO stocks (id, name, likes, created_at, updated_at)
		VALUES ($1, $2, 0, $3, $3)
		ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id, name, likes, created_at, updated_at
	`

	stock := &domain.Stock{}
	err := r.db.QueryRow(ctx, query, uuid.New(), name, time.Now()).Scan(
		&stock.ID,
		&stock.Name,
		&stock.Likes,
		&stock.CreatedAt,
		&stock.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to find or create stock %s: %w", name, err)
	}

	return stock, nil
}

// Save persists a mutated like count
func (r *StockRepositoryImpl) Save(ctx context.Context, stock *domain.Stock) error {
	query := `
		UPDATE stocks
		SET likes = $1, updated_at = NOW()
		WHERE id = $2
	`

	_, err := r.db.Exec(ctx, query, stock.Likes, stock.ID)
	if err != nil {
		return fmt.Errorf("failed to save stock %s: %w", stock.Name, err)
	}

	return nil
}

// ReconcileLikes recomputes every stock's like count from the users'
// liked-stock sets in a single statement. Duplicate names inside one user row
// count once, matching the set semantics the like engine enforces.
func (r *StockRepositoryImpl) ReconcileLikes(ctx context.Context) (int64, error) {
	query := `
		WITH actual AS (
			SELECT s.id,
			       (SELECT COUNT(*) FROM users u WHERE s.name = ANY(u.liked_stocks)) AS likes
			FROM stocks s
		)
		UPDATE stocks s
		SET likes = a.likes, updated_at = NOW()
		FROM actual a
		WHERE s.id = a.id AND s.likes <> a.likes
	`

	tag, err := r.db.Exec(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("failed to reconcile stock likes: %w", err)
	}

	return tag.RowsAffected(), nil
}
