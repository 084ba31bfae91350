package services

import (
	"github.com/robfig/cron/v3"
	"github.com/sarkargroup/smd-backend/internal/utils"
	"github.com/sarkargroup/smd-backend/pkg/logger"
)

// blacklistPurgeSpec runs the purge every 10 minutes.
const blacklistPurgeSpec = "*/10 * * * *"

// Purger drops expired entries from a token store.
type Purger interface {
	Purge() int
}

var _ Purger = (*utils.MemoryBlacklist)(nil)

type MaintenanceService struct {
	blacklist     Purger
	cronScheduler *cron.Cron
}

func NewMaintenanceService(blacklist Purger) *MaintenanceService {
	return &MaintenanceService{blacklist: blacklist}
}

func (s *MaintenanceService) StartScheduler() error {
	s.cronScheduler = cron.New()
	if _, err := s.cronScheduler.AddFunc(blacklistPurgeSpec, s.PurgeBlacklist); err != nil {
		return err
	}
	s.cronScheduler.Start()
	logger.Infof("[Maintenance] Scheduler started (cron: %s)", blacklistPurgeSpec)
	return nil
}

func (s *MaintenanceService) StopScheduler() {
	if s.cronScheduler != nil {
		<-s.cronScheduler.Stop().Done()
		logger.Infof("[Maintenance] Scheduler stopped")
	}
}

// PurgeBlacklist removes expired tokens from the store.
func (s *MaintenanceService) PurgeBlacklist() {
	if s.blacklist == nil {
		return
	}
	if n := s.blacklist.Purge(); n > 0 {
		logger.Infof("[Maintenance] Purged %d expired token(s)", n)
	}
}
