package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockchecker/internal/domain"
)

// fakeStockRepo is an in-memory StockRepository. FindOrCreate hands out
// copies like a real row fetch would, so mutations only stick through Save.
type fakeStockRepo struct {
	mu      sync.Mutex
	stocks  map[string]*domain.Stock
	saveErr error
}

func newFakeStockRepo() *fakeStockRepo {
	return &fakeStockRepo{stocks: make(map[string]*domain.Stock)}
}

func (f *fakeStockRepo) FindOrCreate(_ context.Context, name string) (*domain.Stock, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	name = domain.NormalizeSymbol(name)
	stock, ok := f.stocks[name]
	if !ok {
		stock = &domain.Stock{
			ID:        uuid.New(),
			Name:      name,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		}
		f.stocks[name] = stock
	}

	copied := *stock
	return &copied, nil
}

func (f *fakeStockRepo) Save(_ context.Context, stock *domain.Stock) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.saveErr != nil {
		return f.saveErr
	}
	stored, ok := f.stocks[stock.Name]
	if !ok {
		return errors.New("stock not found")
	}
	stored.Likes = stock.Likes
	return nil
}

func (f *fakeStockRepo) ReconcileLikes(_ context.Context) (int64, error) {
	return 0, nil
}

func (f *fakeStockRepo) likesOf(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	if stock, ok := f.stocks[name]; ok {
		return stock.Likes
	}
	return 0
}

// fakeUserRepo keys users by the raw identity directly; hashing is covered by
// the identity hasher tests.
type fakeUserRepo struct {
	mu      sync.Mutex
	users   map[string]*domain.User
	saveErr error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*domain.User)}
}

func (f *fakeUserRepo) FindOrCreate(_ context.Context, rawIdentity string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	user, ok := f.users[rawIdentity]
	if !ok {
		user = &domain.User{
			ID:          uuid.New(),
			LikedStocks: []string{},
			CreatedAt:   time.Now(),
			UpdatedAt:   time.Now(),
		}
		f.users[rawIdentity] = user
	}

	copied := *user
	copied.LikedStocks = append([]string(nil), user.LikedStocks...)
	return &copied, nil
}

func (f *fakeUserRepo) Save(_ context.Context, user *domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.saveErr != nil {
		return f.saveErr
	}
	for raw, stored := range f.users {
		if stored.ID == user.ID {
			copied := *user
			copied.LikedStocks = append([]string(nil), user.LikedStocks...)
			f.users[raw] = &copied
			return nil
		}
	}
	return errors.New("user not found")
}

func (f *fakeUserRepo) Exists(_ context.Context, rawIdentity string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.users[rawIdentity]
	return ok, nil
}

func (f *fakeUserRepo) seed(rawIdentity string, likedStocks []string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[rawIdentity] = &domain.User{
		ID:          uuid.New(),
		LikedStocks: likedStocks,
	}
}

func setupLikeService() (domain.LikeService, *fakeStockRepo, *fakeUserRepo) {
	stockRepo := newFakeStockRepo()
	userRepo := newFakeUserRepo()
	return NewLikeService(stockRepo, userRepo), stockRepo, userRepo
}

func resolveStocks(t *testing.T, repo *fakeStockRepo, names ...string) []*domain.Stock {
	t.Helper()
	stocks := make([]*domain.Stock, 0, len(names))
	for _, name := range names {
		stock, err := repo.FindOrCreate(context.Background(), name)
		require.NoError(t, err)
		stocks = append(stocks, stock)
	}
	return stocks
}

func TestRegisterLikeScenario(t *testing.T) {
	likes, stockRepo, _ := setupLikeService()
	ctx := context.Background()

	// Client A likes a fresh stock
	_, err := likes.RegisterLike(ctx, "1.2.3.4", resolveStocks(t, stockRepo, "GOOG"))
	require.NoError(t, err)
	assert.Equal(t, 1, stockRepo.likesOf("GOOG"))

	// Client A likes it again: idempotent, still 1
	_, err = likes.RegisterLike(ctx, "1.2.3.4", resolveStocks(t, stockRepo, "GOOG"))
	require.NoError(t, err)
	assert.Equal(t, 1, stockRepo.likesOf("GOOG"))

	// Client B likes it: 2
	_, err = likes.RegisterLike(ctx, "5.6.7.8", resolveStocks(t, stockRepo, "GOOG"))
	require.NoError(t, err)
	assert.Equal(t, 2, stockRepo.likesOf("GOOG"))

	// Client A unlikes: 1
	require.NoError(t, likes.RemoveLike(ctx, "1.2.3.4", "GOOG"))
	assert.Equal(t, 1, stockRepo.likesOf("GOOG"))
}

func TestRegisterLikeAppliesPerStock(t *testing.T) {
	likes, stockRepo, _ := setupLikeService()
	ctx := context.Background()

	// Already liked GOOG; batch with MSFT applies only the new like
	_, err := likes.RegisterLike(ctx, "1.2.3.4", resolveStocks(t, stockRepo, "GOOG"))
	require.NoError(t, err)

	returned, err := likes.RegisterLike(ctx, "1.2.3.4", resolveStocks(t, stockRepo, "GOOG", "MSFT"))
	require.NoError(t, err)

	assert.Equal(t, 1, stockRepo.likesOf("GOOG"))
	assert.Equal(t, 1, stockRepo.likesOf("MSFT"))

	// Returned in input order
	require.Len(t, returned, 2)
	assert.Equal(t, "GOOG", returned[0].Name)
	assert.Equal(t, "MSFT", returned[1].Name)
}

func TestRegisterLikeConcurrentSameClient(t *testing.T) {
	likes, stockRepo, _ := setupLikeService()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			stocks := resolveStocks(t, stockRepo, "GOOG")
			_, err := likes.RegisterLike(ctx, "1.2.3.4", stocks)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, stockRepo.likesOf("GOOG"), "concurrent likes from one client must count once")
}

func TestRegisterLikeSurfacesSaveFailure(t *testing.T) {
	likes, stockRepo, _ := setupLikeService()
	ctx := context.Background()

	stockRepo.saveErr = errors.New("connection reset")

	_, err := likes.RegisterLike(ctx, "1.2.3.4", resolveStocks(t, stockRepo, "GOOG"))
	require.Error(t, err, "a like must not be reported applied when persistence failed")
	assert.Equal(t, 0, stockRepo.likesOf("GOOG"))
}

func TestRemoveLikeIsIdempotentAndClamped(t *testing.T) {
	likes, stockRepo, _ := setupLikeService()
	ctx := context.Background()

	_, err := likes.RegisterLike(ctx, "1.2.3.4", resolveStocks(t, stockRepo, "GOOG"))
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		require.NoError(t, likes.RemoveLike(ctx, "1.2.3.4", "GOOG"))
	}
	assert.Equal(t, 0, stockRepo.likesOf("GOOG"), "repeated unlikes never drive likes below 0")
}

func TestRemoveLikeHealsDuplicateEntries(t *testing.T) {
	likes, stockRepo, userRepo := setupLikeService()
	ctx := context.Background()

	// Corrupted state: duplicate liked entries but a count of 1
	userRepo.seed("1.2.3.4", []string{"GOOG", "GOOG"})
	stocks := resolveStocks(t, stockRepo, "GOOG")
	stocks[0].Likes = 1
	require.NoError(t, stockRepo.Save(ctx, stocks[0]))

	require.NoError(t, likes.RemoveLike(ctx, "1.2.3.4", "GOOG"))

	user, err := userRepo.FindOrCreate(ctx, "1.2.3.4")
	require.NoError(t, err)
	assert.Empty(t, user.LikedStocks, "all duplicate entries removed")
	assert.Equal(t, 0, stockRepo.likesOf("GOOG"), "decrement clamped at 0")
}

func TestRemoveLikeCanonicalizesSymbol(t *testing.T) {
	likes, stockRepo, _ := setupLikeService()
	ctx := context.Background()

	_, err := likes.RegisterLike(ctx, "1.2.3.4", resolveStocks(t, stockRepo, "GOOG"))
	require.NoError(t, err)

	require.NoError(t, likes.RemoveLike(ctx, "1.2.3.4", "goog"))
	assert.Equal(t, 0, stockRepo.likesOf("GOOG"))
}
