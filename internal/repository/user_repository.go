package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"stockchecker/internal/domain"
)

// UserRepositoryImpl implements the UserRepository interface
type UserRepositoryImpl struct {
	db     *pgxpool.Pool
	hasher domain.IdentityHasher
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *pgxpool.Pool, hasher domain.IdentityHasher) domain.UserRepository {
	return &UserRepositoryImpl{db: db, hasher: hasher}
}

// FindOrCreate returns the user whose stored identity token verifies against
// the raw identity, creating one if no token matches.
//
// The identity tokens are salted digests, so there is no column to index on:
// resolution is a linear scan with a verification per row. Acceptable at
// small scale only; callers serialize per identity so this never runs as an
// unguarded loop across concurrent requests.
// TODO: add a fast non-reversible lookup key alongside the digest so the scan
// can become an indexed fetch.
func (r *UserRepositoryImpl) FindOrCreate(ctx context.Context, rawIdentity string) (*domain.User, error) {
	user, err := r.findByIdentity(ctx, rawIdentity)
	if err != nil {
		return nil, err
	}
	if user != nil {
		return user, nil
	}

	token, err := r.hasher.Hash(rawIdentity)
	if err != nil {
		return nil, fmt.Errorf("failed to hash client identity: %w", err)
	}

	user = &domain.User{
		ID:           uuid.New(),
		IdentityHash: token,
		LikedStocks:  []string{},
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	query := `
		INSERT INTO users (id, identity_hash, liked_stocks, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err = r.db.Exec(ctx, query,
		user.ID,
		user.IdentityHash,
		user.LikedStocks,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// Save persists a mutated liked-stocks set
func (r *UserRepositoryImpl) Save(ctx context.Context, user *domain.User) error {
	query := `
		UPDATE users
		SET liked_stocks = $1, updated_at = NOW()
		WHERE id = $2
	`

	_, err := r.db.Exec(ctx, query, user.LikedStocks, user.ID)
	if err != nil {
		return fmt.Errorf("failed to save user: %w", err)
	}

	return nil
}

// Exists reports whether a stored identity token verifies against the raw identity
func (r *UserRepositoryImpl) Exists(ctx context.Context, rawIdentity string) (bool, error) {
	user, err := r.findByIdentity(ctx, rawIdentity)
	if err != nil {
		return false, err
	}
	return user != nil, nil
}

// findByIdentity scans all stored identity tokens and returns the first user
// whose token verifies against the raw identity, or nil if none match.
func (r *UserRepositoryImpl) findByIdentity(ctx context.Context, rawIdentity string) (*domain.User, error) {
	query := `
		SELECT id, identity_hash, liked_stocks, created_at, updated_at
		FROM users
		ORDER BY created_at ASC
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	var users []*domain.User
	for rows.Next() {
		user := &domain.User{}
		err := rows.Scan(
			&user.ID,
			&user.IdentityHash,
			&user.LikedStocks,
			&user.CreatedAt,
			&user.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating users: %w", err)
	}

	// Verification is deliberately slow, so release the connection before
	// comparing instead of holding the cursor open per row.
	for _, user := range users {
		if r.hasher.Matches(rawIdentity, user.IdentityHash) {
			return user, nil
		}
	}

	return nil, nil
}
