package services

import (
	"context"
	"time"

	"kamulog-stk/internal/adapters/persistence/repositories"
	"kamulog-stk/internal/core/domain"
	"kamulog-stk/internal/pkg/logger"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// digestTimeout bounds one digest run
const digestTimeout = time.Minute

// Digest summarizes the governance work waiting for officers
type Digest struct {
	// PendingResignations counts RESIGNATION_REQ members per organization
	PendingResignations map[string]int64
	// OverdueAssemblies counts PLANNED assemblies whose date has passed, per organization
	OverdueAssemblies map[string]int
}

// CronService runs the periodic governance digest. It only reads.
type CronService struct {
	store *repositories.Store
	cron  *cron.Cron
	now   func() time.Time
}

// NewCronService creates a cron service that runs the digest on schedule, a
// standard five-field cron expression or a descriptor such as "@daily"
func NewCronService(store *repositories.Store, schedule string) (*CronService, error) {
	s := &CronService{
		store: store,
		cron:  cron.New(),
		now:   time.Now,
	}

	if _, err := s.cron.AddFunc(schedule, s.runScheduled); err != nil {
		return nil, err
	}
	return s, nil
}

// Start starts the scheduler in its own goroutine
func (s *CronService) Start() {
	s.cron.Start()
	logger.SLog.Info("governance digest scheduled")
}

// Stop stops the scheduler and waits for a running digest to finish
func (s *CronService) Stop() {
	<-s.cron.Stop().Done()
}

func (s *CronService) runScheduled() {
	ctx, cancel := context.WithTimeout(context.Background(), digestTimeout)
	defer cancel()

	if _, err := s.RunDigest(ctx); err != nil {
		logger.Log.Error("governance digest failed", zap.Error(err))
	}
}

// RunDigest collects and logs the digest once
func (s *CronService) RunDigest(ctx context.Context) (*Digest, error) {
	pending, err := s.store.Members.CountPerOrganization(ctx, domain.MemberResignationReq)
	if err != nil {
		return nil, err
	}

	overdue, err := s.store.Assemblies.ListPlannedBefore(ctx, s.now().UTC())
	if err != nil {
		return nil, err
	}

	digest := &Digest{
		PendingResignations: pending,
		OverdueAssemblies:   make(map[string]int),
	}
	for _, a := range overdue {
		digest.OverdueAssemblies[a.OrganizationID]++
		logger.Log.Warn("assembly date passed while still PLANNED",
			zap.String("organization_id", a.OrganizationID),
			zap.String("assembly_id", a.ID),
			zap.String("number", a.Number),
			zap.Time("date", a.Date))
	}
	for orgID, count := range pending {
		logger.Log.Info("resignation requests awaiting a board decision",
			zap.String("organization_id", orgID),
			zap.Int64("count", count))
	}

	return digest, nil
}
