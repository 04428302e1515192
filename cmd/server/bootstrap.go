package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/lironatar/TasksList/internal/api"
	"github.com/lironatar/TasksList/internal/app"
	"github.com/lironatar/TasksList/internal/app/maintenance"
	iauth "github.com/lironatar/TasksList/internal/auth"
	"github.com/lironatar/TasksList/internal/cache"
	"github.com/lironatar/TasksList/internal/database"
	"github.com/lironatar/TasksList/internal/middleware"
	"github.com/lironatar/TasksList/internal/services"
	"github.com/lironatar/TasksList/pkg/logger"
	"github.com/lironatar/TasksList/pkg/mail"
)

// runtimeStack bundles long-lived services used by the HTTP server.
type runtimeStack struct {
	DB      *gorm.DB
	Redis   *cache.RedisStore
	Store   cache.Store
	Mailer  mail.Mailer
	Cleaner *maintenance.Cleaner
	Router  *gin.Engine
}

// bootstrapRuntime opens storage, builds the services and assembles the HTTP router.
func bootstrapRuntime(ctx context.Context, cfg *app.Config, log *zap.Logger) (*runtimeStack, error) {
	stack := &runtimeStack{}
	var err error
	success := false

	defer func() {
		if !success {
			stack.Shutdown(context.Background(), log)
		}
	}()

	// enable gin debug mode
	if debug, _ := os.LookupEnv("GIN_DEBUG"); debug != "true" {
		gin.SetMode(gin.ReleaseMode)
	}

	stack.DB, err = initialiseDatabase(cfg)
	if err != nil {
		return nil, err
	}

	stack.Store = cache.NewDatabaseStore(stack.DB)
	if cfg.Cache.Redis.Enabled {
		if stack.Redis, err = cache.NewRedisStore(ctx, cfg.Cache.RedisClientConfig()); err != nil {
			log.Warn("redis unavailable; falling back to database-backed cache", zap.Error(err))
		} else {
			stack.Store = stack.Redis
			log.Info("redis connected", zap.String("addr", cfg.Cache.Redis.Address))
		}
	}

	stack.Mailer, err = buildMailer(cfg)
	if err != nil {
		return nil, err
	}

	jwtSvc, err := iauth.NewJWTService(cfg.Auth.JWTServiceConfig())
	if err != nil {
		return nil, fmt.Errorf("initialise jwt service: %w", err)
	}

	verification, err := services.NewVerificationService(stack.DB, stack.Mailer,
		services.WithCodeTTL(cfg.Verification.EffectiveCodeTTL()),
		services.WithCodeLength(cfg.Verification.EffectiveCodeLength()),
	)
	if err != nil {
		return nil, fmt.Errorf("initialise verification service: %w", err)
	}

	authSvc, err := services.NewAuthService(stack.DB, jwtSvc, verification,
		services.WithTokenRevoker(iauth.NewTokenRevoker(stack.Store)),
		services.WithProfileIcons(cfg.Profile.Catalogue()),
	)
	if err != nil {
		return nil, fmt.Errorf("initialise auth service: %w", err)
	}

	lists, err := services.NewTaskListService(stack.DB, nil)
	if err != nil {
		return nil, fmt.Errorf("initialise task list service: %w", err)
	}

	tasks, err := services.NewTaskService(stack.DB, nil)
	if err != nil {
		return nil, fmt.Errorf("initialise task service: %w", err)
	}

	stack.Cleaner = maintenance.NewCleaner(stack.DB,
		maintenance.WithVerificationSchedule(cfg.Maintenance.VerificationCodes),
		maintenance.WithCacheSchedule(cfg.Maintenance.CacheEntries),
	)
	if err := stack.Cleaner.Start(); err != nil {
		return nil, fmt.Errorf("start maintenance jobs: %w", err)
	}

	stack.Router, err = api.NewRouter(cfg, api.Dependencies{
		DB:           stack.DB,
		Auth:         authSvc,
		Verification: verification,
		TaskLists:    lists,
		Tasks:        tasks,
		RateStore:    middleware.NewCacheRateStore(stack.Store),
	})
	if err != nil {
		return nil, fmt.Errorf("build api router: %w", err)
	}

	success = true
	return stack, nil
}

// Shutdown gracefully stops background jobs and releases resources.
func (s *runtimeStack) Shutdown(ctx context.Context, log *zap.Logger) {
	if s == nil {
		return
	}

	if s.Cleaner != nil {
		select {
		case <-s.Cleaner.Stop().Done():
		case <-ctx.Done():
		}
		if err := s.Cleaner.RunOnce(ctx); err != nil {
			log.Warn("maintenance shutdown cleanup failed", zap.Error(err))
		}
	}

	if s.Redis != nil {
		if err := s.Redis.Close(); err != nil {
			log.Warn("redis shutdown", zap.Error(err))
		}
	}

	if s.DB != nil {
		closeDatabase(s.DB, log)
	}
}

// buildMailer returns the SMTP mailer when enabled. Otherwise codes are written to the log.
func buildMailer(cfg *app.Config) (mail.Mailer, error) {
	if !cfg.Email.SMTP.Enabled {
		logger.WithModule("mail").Warn("smtp disabled; verification emails are written to the log")
		return mail.NewLogMailer(logger.WithModule("mail")), nil
	}

	mailer, err := mail.NewSMTPMailer(cfg.Email.SMTPSettings())
	if err != nil {
		return nil, fmt.Errorf("initialise smtp mailer: %w", err)
	}
	return mailer, nil
}

func initialiseDatabase(cfg *app.Config) (*gorm.DB, error) {
	dbCfg := cfg.Database.DatabaseOpenConfig()
	db, err := database.Open(dbCfg)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := database.Migrate(db); err != nil {
		closeDatabase(db, zap.NewNop())
		return nil, fmt.Errorf("auto-migrate database: %w", err)
	}

	log := logger.WithModule("database")
	log.Info("database connected", zap.String("driver", strings.ToLower(strings.TrimSpace(dbCfg.Driver))))

	return db, nil
}

func closeDatabase(db *gorm.DB, log *zap.Logger) {
	if db == nil {
		return
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Warn("failed to obtain underlying sql DB for closing", zap.Error(err))
		return
	}

	if err := sqlDB.Close(); err != nil {
		log.Warn("failed to close database", zap.Error(err))
	}
}
