package services

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
	"github.com/sohail-1209/learnx/internal/repository"
)

// CompletionService runs a background sweep that flips confirmed
// bookings of finished sessions to completed.
type CompletionService struct {
	db       *pgxpool.Pool
	interval time.Duration
	log      *logrus.Logger
	stopChan chan struct{}
}

func NewCompletionService(db *pgxpool.Pool, interval time.Duration, log *logrus.Logger) *CompletionService {
	return &CompletionService{
		db:       db,
		interval: interval,
		log:      log,
		stopChan: make(chan struct{}),
	}
}

func (s *CompletionService) Start() {
	go s.runLoop()
}

func (s *CompletionService) Stop() {
	close(s.stopChan)
}

func (s *CompletionService) runLoop() {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.SweepOnce(context.Background())
		case <-s.stopChan:
			return
		}
	}
}

// SweepOnce completes every booking whose session has ended. A single
// conditional UPDATE, so overlapping sweeps are harmless.
func (s *CompletionService) SweepOnce(ctx context.Context) {
	completed, err := repository.NewBookingRepository(s.db).CompletePastBookings(ctx, time.Now())
	if err != nil {
		s.log.WithError(err).Error("booking completion sweep failed")
		return
	}
	if completed > 0 {
		s.log.WithField("bookings", completed).Info("marked past bookings completed")
	}
}
