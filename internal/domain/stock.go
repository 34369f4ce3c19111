package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Stock represents a tracked stock symbol and its like count
type Stock struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Likes     int       `json:"likes"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NormalizeSymbol canonicalizes a stock symbol to its uppercase form.
// All repository lookups and creations go through this.
func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}
