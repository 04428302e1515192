package maintenance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/lironatar/TasksList/internal/cache"
	"github.com/lironatar/TasksList/internal/models"
	"github.com/lironatar/TasksList/pkg/logger"
)

const (
	defaultVerificationSpec = "@every 30m"
	defaultCacheSpec        = "@every 10m"
)

// Cleaner purges expired verification codes and database cache entries on a cron schedule.
type Cleaner struct {
	db   *gorm.DB
	cron *cron.Cron
	now  func() time.Time
	log  *zap.Logger

	verificationSchedule string
	cacheSchedule        string
}

// Option customises the Cleaner.
type Option func(*Cleaner)

// WithCron injects a preconfigured cron instance, primarily for testing.
func WithCron(c *cron.Cron) Option {
	return func(cleaner *Cleaner) {
		if c != nil {
			cleaner.cron = c
		}
	}
}

// WithNow overrides the clock used for cleanup comparisons.
func WithNow(now func() time.Time) Option {
	return func(cleaner *Cleaner) {
		if now != nil {
			cleaner.now = now
		}
	}
}

// WithVerificationSchedule overrides the cron expression for verification code cleanup.
func WithVerificationSchedule(spec string) Option {
	return func(cleaner *Cleaner) {
		if spec != "" {
			cleaner.verificationSchedule = spec
		}
	}
}

// WithCacheSchedule overrides the cron expression for cache entry cleanup.
func WithCacheSchedule(spec string) Option {
	return func(cleaner *Cleaner) {
		if spec != "" {
			cleaner.cacheSchedule = spec
		}
	}
}

// NewCleaner constructs a Cleaner. A nil db disables every job.
func NewCleaner(db *gorm.DB, opts ...Option) *Cleaner {
	cleaner := &Cleaner{
		db:                   db,
		now:                  time.Now,
		verificationSchedule: defaultVerificationSpec,
		cacheSchedule:        defaultCacheSpec,
		log:                  logger.WithModule("maintenance"),
	}

	for _, opt := range opts {
		opt(cleaner)
	}

	if cleaner.cron == nil {
		cleaner.cron = cron.New(cron.WithLogger(cron.DiscardLogger))
	}
	return cleaner
}

// Start registers the cleanup jobs and launches the scheduler.
func (c *Cleaner) Start() error {
	if c.db == nil {
		return nil
	}

	if _, err := c.cron.AddFunc(c.verificationSchedule, func() {
		removed, err := CleanupVerificationCodes(context.Background(), c.db, c.now())
		if err != nil {
			c.log.Warn("verification code cleanup failed", zap.Error(err))
			return
		}
		if removed > 0 {
			c.log.Debug("verification codes purged", zap.Int64("removed", removed))
		}
	}); err != nil {
		return fmt.Errorf("schedule verification cleanup: %w", err)
	}

	if _, err := c.cron.AddFunc(c.cacheSchedule, func() {
		if _, err := cache.PurgeExpired(context.Background(), c.db, c.now()); err != nil {
			c.log.Warn("cache cleanup failed", zap.Error(err))
		}
	}); err != nil {
		return fmt.Errorf("schedule cache cleanup: %w", err)
	}

	c.cron.Start()
	return nil
}

// Stop halts the underlying scheduler; the returned context is done once running jobs finish.
func (c *Cleaner) Stop() context.Context {
	if c.cron == nil {
		return context.Background()
	}
	return c.cron.Stop()
}

// RunOnce executes every cleanup routine sequentially, collecting all failures.
func (c *Cleaner) RunOnce(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if c.db == nil {
		return nil
	}

	var errs error
	now := c.now()
	if _, err := CleanupVerificationCodes(ctx, c.db, now); err != nil {
		errs = multierr.Append(errs, err)
	}
	if _, err := cache.PurgeExpired(ctx, c.db, now); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("cleanup cache entries: %w", err))
	}
	return errs
}

// CleanupVerificationCodes removes codes that expired before now or were already consumed.
func CleanupVerificationCodes(ctx context.Context, db *gorm.DB, now time.Time) (int64, error) {
	if db == nil {
		return 0, errors.New("cleanup verification codes: db is required")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	result := db.WithContext(ctx).
		Where("expires_at < ? OR consumed_at IS NOT NULL", now).
		Delete(&models.VerificationCode{})
	if result.Error != nil {
		return 0, fmt.Errorf("cleanup verification codes: %w", result.Error)
	}
	return result.RowsAffected, nil
}
