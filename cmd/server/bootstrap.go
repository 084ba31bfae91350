package main

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sarkargroup/smd-backend/internal/config"
	"github.com/sarkargroup/smd-backend/internal/handlers"
	"github.com/sarkargroup/smd-backend/internal/middleware"
	"github.com/sarkargroup/smd-backend/internal/models"
	"github.com/sarkargroup/smd-backend/internal/services"
	"github.com/sarkargroup/smd-backend/internal/utils"
	"github.com/sarkargroup/smd-backend/pkg/logger"
	"gorm.io/gorm"
)

// appServices holds all initialized services and handlers needed by the application.
type appServices struct {
	cfg         *config.Config
	db          *gorm.DB
	authService *services.AuthService
	taskQueue   services.TaskQueue
	worker      *services.Worker
	maintenance *services.MaintenanceService
	redis       *redis.Client
	limiters    []*middleware.RateLimiter
}

// bootstrap initializes all application dependencies: database, token store,
// mail queue and schedulers.
func bootstrap(cfg *config.Config) *appServices {
	utils.SetBcryptCost(cfg.BcryptCost)

	if err := handlers.RegisterValidators(); err != nil {
		logger.Fatalf("Failed to register validators: %v", err)
	}

	// Initialize database
	if err := models.InitDB(&cfg.Database); err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}

	// Auto migrate database
	if err := models.AutoMigrate(); err != nil {
		logger.Fatalf("Failed to migrate database: %v", err)
	}

	svc := &appServices{cfg: cfg, db: models.GetDB()}

	// Token blacklist: shared through Redis when enabled, otherwise in memory
	// with a periodic purge of expired entries.
	var blacklist utils.Blacklist
	if cfg.Redis.Enabled {
		svc.redis = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		err := svc.redis.Ping(ctx).Err()
		cancel()
		if err == nil {
			blacklist = utils.NewRedisBlacklist(svc.redis)
			logger.Infof("[Auth] Token blacklist stored in Redis at %s", cfg.Redis.Addr)
		} else {
			logger.Warn().Err(err).Msg("Redis unavailable, keeping token blacklist in memory")
			svc.redis.Close()
			svc.redis = nil
		}
	}
	if blacklist == nil {
		memory := utils.NewMemoryBlacklist()
		blacklist = memory
		svc.maintenance = services.NewMaintenanceService(memory)
		if err := svc.maintenance.StartScheduler(); err != nil {
			logger.Warn().Err(err).Msg("Failed to start blacklist purge scheduler")
		}
	}
	utils.SetBlacklist(blacklist)
	tokens := utils.NewTokenService(cfg.Token, blacklist)

	// Initialize task queue (uses Redis if enabled, otherwise sync mode)
	emailService := services.NewEmailService(&cfg.SMTP)
	svc.taskQueue = services.InitTaskQueue(cfg, emailService.Process)

	// Start async worker if Redis is enabled
	if svc.taskQueue.IsAsync() {
		svc.worker = services.InitWorker(&cfg.Redis)
		if svc.worker != nil {
			svc.worker.SetProcessor(emailService.Process)
			if err := svc.worker.Start(); err != nil {
				logger.Warn().Err(err).Msg("Failed to start mail worker")
			}
		}
	}

	svc.authService = services.NewAuthService(svc.db, tokens, svc.taskQueue, cfg)

	// Create the super admin from config
	if err := svc.authService.CreateSuperAdminIfNotExists(context.Background()); err != nil {
		logger.Warn().Err(err).Msg("Failed to create super admin")
	}

	return svc
}

// shutdown gracefully stops all services.
func (s *appServices) shutdown() {
	for _, l := range s.limiters {
		l.Stop()
	}
	if s.maintenance != nil {
		s.maintenance.StopScheduler()
		logger.Info().Msg("Blacklist purge scheduler stopped")
	}

	if s.worker != nil {
		s.worker.Stop()
	}
	if s.taskQueue != nil {
		if err := s.taskQueue.Close(); err != nil {
			logger.Warn().Err(err).Msg("Failed to close task queue")
		}
	}
	if s.redis != nil {
		s.redis.Close()
	}
	if sqlDB, err := s.db.DB(); err == nil {
		sqlDB.Close()
	}
}
