// Package workers holds the backend's background jobs.
package workers

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/tripjournal/tripjournal/internal/models"
)

// SweepGrace keeps files younger than this, an upload may still be mid-commit
const SweepGrace = 10 * time.Minute

// ParseSchedule parses a standard 5-field cron expression
func ParseSchedule(expr string) (cron.Schedule, error) {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	schedule, err := parser.Parse(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid schedule %q: %w", expr, err)
	}
	return schedule, nil
}

// UploadSweeper removes photo files that no travel_photos row refers to.
// They are left behind when a travel log insert fails or the process dies
// after the files were written.
type UploadSweeper struct {
	db       *gorm.DB
	dir      string
	schedule cron.Schedule
	logger   zerolog.Logger
	now      func() time.Time
}

// NewUploadSweeper creates a sweeper for dir running on the cron expression
func NewUploadSweeper(db *gorm.DB, dir, expr string, logger zerolog.Logger) (*UploadSweeper, error) {
	schedule, err := ParseSchedule(expr)
	if err != nil {
		return nil, err
	}
	return &UploadSweeper{
		db:       db,
		dir:      dir,
		schedule: schedule,
		logger:   logger.With().Str("worker", "upload_sweeper").Logger(),
		now:      time.Now,
	}, nil
}

// Run sweeps once on startup and then on every scheduled tick until ctx is done
func (s *UploadSweeper) Run(ctx context.Context) {
	s.sweepAndLog()

	for {
		next := s.schedule.Next(s.now())
		timer := time.NewTimer(time.Until(next))

		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
			s.sweepAndLog()
		}
	}
}

func (s *UploadSweeper) sweepAndLog() {
	removed, err := s.Sweep()
	if err != nil {
		s.logger.Error().Err(err).Msg("Upload sweep failed")
		return
	}
	if removed > 0 {
		s.logger.Info().Int("removed", removed).Msg("Removed orphaned uploads")
	} else {
		s.logger.Debug().Msg("No orphaned uploads")
	}
}

// Sweep deletes orphaned files older than SweepGrace and returns how many were removed
func (s *UploadSweeper) Sweep() (int, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return 0, fmt.Errorf("failed to read upload directory: %w", err)
	}

	var names []string
	if err := s.db.Model(&models.TravelPhoto{}).Pluck("stored_name", &names).Error; err != nil {
		return 0, fmt.Errorf("failed to load stored photo names: %w", err)
	}
	referenced := make(map[string]struct{}, len(names))
	for _, n := range names {
		referenced[n] = struct{}{}
	}

	cutoff := s.now().Add(-SweepGrace)
	removed := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if _, ok := referenced[entry.Name()]; ok {
			continue
		}

		info, err := entry.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}

		if err := os.Remove(filepath.Join(s.dir, entry.Name())); err != nil {
			s.logger.Warn().Err(err).Str("file", entry.Name()).Msg("Failed to remove orphaned upload")
			continue
		}
		removed++
	}
	return removed, nil
}
