package service

import (
	"context"
	"fmt"
	"log"
	"sync"

	"stockchecker/internal/domain"
)

// LikeServiceImpl enforces at-most-one-like-per-client-per-stock and keeps
// the user's liked set and the stock like counts mutating together.
type LikeServiceImpl struct {
	stockRepo domain.StockRepository
	userRepo  domain.UserRepository

	// Per-identity critical sections. The user find-or-create is a
	// read-then-write, and so is the liked-set check before an increment;
	// both must be serialized per client so two concurrent likes from the
	// same address cannot both observe "not yet liked".
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewLikeService creates a new LikeService
func NewLikeService(stockRepo domain.StockRepository, userRepo domain.UserRepository) domain.LikeService {
	return &LikeServiceImpl{
		stockRepo: stockRepo,
		userRepo:  userRepo,
		locks:     make(map[string]*sync.Mutex),
	}
}

// RegisterLike applies the client's like to every stock in the batch the
// client has not already liked: the stock name joins the user's liked set and
// that stock's like count goes up by exactly 1. Already-liked stocks are a
// no-op, so repeated requests never double-count. Likes apply per stock
// independently; a batch is not all-or-nothing.
//
// Persistence happens once per mutated record after the whole batch. A save
// failure returns an error, so a like is never reported applied when the
// store rejected it.
func (s *LikeServiceImpl) RegisterLike(ctx context.Context, rawIdentity string, stocks []*domain.Stock) ([]*domain.Stock, error) {
	lock := s.identityLock(rawIdentity)
	lock.Lock()
	defer lock.Unlock()

	user, err := s.userRepo.FindOrCreate(ctx, rawIdentity)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve user: %w", err)
	}

	var mutated []*domain.Stock
	for _, stock := range stocks {
		if user.HasLiked(stock.Name) {
			continue
		}
		user.AddLike(stock.Name)
		stock.Likes++
		mutated = append(mutated, stock)
	}

	if len(mutated) == 0 {
		return stocks, nil
	}

	for _, stock := range mutated {
		if err := s.stockRepo.Save(ctx, stock); err != nil {
			return nil, fmt.Errorf("failed to persist like for %s: %w", stock.Name, err)
		}
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to persist user liked stocks: %w", err)
	}

	return stocks, nil
}

// RemoveLike withdraws the client's like from a stock. Every occurrence of
// the name leaves the liked set, healing any duplicate entries from corrupted
// data, and the like count drops by the number removed, clamped at zero.
// A client that never liked the stock is a no-op.
func (s *LikeServiceImpl) RemoveLike(ctx context.Context, rawIdentity, stockName string) error {
	stockName = domain.NormalizeSymbol(stockName)

	lock := s.identityLock(rawIdentity)
	lock.Lock()
	defer lock.Unlock()

	user, err := s.userRepo.FindOrCreate(ctx, rawIdentity)
	if err != nil {
		return fmt.Errorf("failed to resolve user: %w", err)
	}

	stock, err := s.stockRepo.FindOrCreate(ctx, stockName)
	if err != nil {
		return fmt.Errorf("failed to resolve stock: %w", err)
	}

	removed := user.RemoveLike(stockName)
	if removed == 0 {
		log.Printf("RemoveLike: user did not like %s, nothing to do", stockName)
		return nil
	}

	stock.Likes -= removed
	if stock.Likes < 0 {
		stock.Likes = 0
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		return fmt.Errorf("failed to persist user liked stocks: %w", err)
	}
	if err := s.stockRepo.Save(ctx, stock); err != nil {
		return fmt.Errorf("failed to persist like removal for %s: %w", stockName, err)
	}

	return nil
}

// identityLock returns the mutex for one client identity, creating it on
// first use. Entries are never evicted; the map stays as small as the set of
// distinct clients.
func (s *LikeServiceImpl) identityLock(rawIdentity string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	lock, ok := s.locks[rawIdentity]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[rawIdentity] = lock
	}
	return lock
}
