package domain

import (
	"time"

	"github.com/google/uuid"
)

// User represents an anonymous client identified by a hashed network address.
// The raw address is never stored; IdentityHash is a salted one-way digest.
type User struct {
	ID           uuid.UUID `json:"id"`
	IdentityHash string    `json:"-"` // Never expose the identity digest in JSON
	LikedStocks  []string  `json:"liked_stocks"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// HasLiked reports whether the user has already liked the given stock name.
// LikedStocks has set semantics; membership is a scan over one small record.
func (u *User) HasLiked(stockName string) bool {
	for _, name := range u.LikedStocks {
		if name == stockName {
			return true
		}
	}
	return false
}

// AddLike appends a stock name to the liked set. Callers must check HasLiked
// first; duplicate entries are a correctness bug, not a feature.
func (u *User) AddLike(stockName string) {
	u.LikedStocks = append(u.LikedStocks, stockName)
}

// RemoveLike removes every occurrence of stockName from the liked set and
// returns the number removed. Removing all occurrences self-heals any
// duplicate entries accumulated from corrupted data.
func (u *User) RemoveLike(stockName string) int {
	kept := u.LikedStocks[:0]
	removed := 0
	for _, name := range u.LikedStocks {
		if name == stockName {
			removed++
			continue
		}
		kept = append(kept, name)
	}
	u.LikedStocks = kept
	return removed
}
