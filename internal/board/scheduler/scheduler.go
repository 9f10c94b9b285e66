package scheduler

import (
	"context"
	"fmt"
	"time"
	_ "time/tzdata" // timezone names resolve in minimal images

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Preloader warms the board cache.
type Preloader interface {
	PreloadAll(ctx context.Context) (int, error)
}

// BoardPreloadScheduler refreshes every cached board on a cron schedule
type BoardPreloadScheduler struct {
	preloader Preloader
	schedule  string
	location  *time.Location
	timeout   time.Duration
	cron      *cron.Cron
}

// NewBoardPreloadScheduler creates a scheduler for the given cron spec and
// IANA timezone name.
func NewBoardPreloadScheduler(preloader Preloader, schedule, timezone string) (*BoardPreloadScheduler, error) {
	location, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", timezone, err)
	}
	return &BoardPreloadScheduler{
		preloader: preloader,
		schedule:  schedule,
		location:  location,
		timeout:   5 * time.Minute,
	}, nil
}

// Start registers the job and begins the cron loop
func (s *BoardPreloadScheduler) Start() error {
	s.cron = cron.New(cron.WithLocation(s.location))
	if _, err := s.cron.AddFunc(s.schedule, s.Run); err != nil {
		return fmt.Errorf("schedule board preload %q: %w", s.schedule, err)
	}
	s.cron.Start()

	zap.L().Info("Board preload scheduler started",
		zap.String("schedule", s.schedule),
		zap.String("timezone", s.location.String()))
	return nil
}

// Stop waits for a running job to finish
func (s *BoardPreloadScheduler) Stop() {
	if s.cron == nil {
		return
	}
	<-s.cron.Stop().Done()
	zap.L().Info("Board preload scheduler stopped")
}

// Run preloads all boards once.
func (s *BoardPreloadScheduler) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	start := time.Now()
	stored, err := s.preloader.PreloadAll(ctx)
	if err != nil {
		zap.L().Error("Board preload failed", zap.Int("stored", stored), zap.Error(err))
		return
	}
	zap.L().Info("Boards preloaded", zap.Int("stored", stored), zap.Duration("took", time.Since(start)))
}
