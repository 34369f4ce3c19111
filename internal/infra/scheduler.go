package infra

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"stockchecker/internal/domain"
)

// Scheduler runs the hourly like-count reconciliation. Like counts normally
// stay consistent through the like engine; the audit repairs drift left by
// corrupted data or a crash between the paired user/stock writes.
type Scheduler struct {
	cron      *cron.Cron
	stockRepo domain.StockRepository
}

// NewScheduler creates a new reconciliation scheduler
func NewScheduler(stockRepo domain.StockRepository) *Scheduler {
	return &Scheduler{
		cron:      cron.New(),
		stockRepo: stockRepo,
	}
}

// Start registers and starts the hourly reconciliation job
func (s *Scheduler) Start() error {
	_, err := s.cron.AddFunc("10 * * * *", func() {
		if err := s.RunNow(); err != nil {
			log.Printf("ERROR: Like reconciliation failed: %v", err)
		}
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	log.Println("[OK] Like reconciliation scheduled (minute 10 of every hour)")
	return nil
}

// RunNow runs one reconciliation pass immediately
func (s *Scheduler) RunNow() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	corrected, err := s.stockRepo.ReconcileLikes(ctx)
	if err != nil {
		return err
	}

	if corrected > 0 {
		log.Printf("[CRON] Like reconciliation corrected %d stock(s)", corrected)
	}
	return nil
}

// Stop stops the scheduler gracefully
func (s *Scheduler) Stop() {
	s.cron.Stop()
	log.Println("[OK] Scheduler stopped")
}
