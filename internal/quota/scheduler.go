package quota

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

const (
	defaultReconcileInterval = 6 * time.Hour
	reconcileLockKey         = "fieldops:quota:reconcile:lock"
	reconcileLockTTL         = 30 * time.Minute
)

// Scheduler runs full reconciliation passes on an interval. When a Redis
// client is provided, a SET NX lock keys each pass so only one web worker
// in a fleet executes it; without Redis the lock is skipped.
type Scheduler struct {
	reconciler *Reconciler
	interval   time.Duration
	locker     *redis.Client
}

// NewScheduler constructs a Scheduler. The Redis client is optional.
func NewScheduler(reconciler *Reconciler, interval time.Duration, locker *redis.Client) *Scheduler {
	if reconciler == nil {
		return nil
	}
	if interval <= 0 {
		interval = defaultReconcileInterval
	}
	return &Scheduler{reconciler: reconciler, interval: interval, locker: locker}
}

// Start launches the reconciliation loop in a background goroutine.
func (s *Scheduler) Start(ctx context.Context) {
	if s == nil {
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}
	go s.run(ctx)
	log.Infof("quota reconciler started (interval=%s)", s.interval)
}

func (s *Scheduler) run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}
		s.runOnce(ctx)
		timer := time.NewTimer(s.interval)
		select {
		case <-ctx.Done():
			if !timer.Stop() {
				<-timer.C
			}
			return
		case <-timer.C:
		}
	}
}

func (s *Scheduler) runOnce(ctx context.Context) {
	if s.locker != nil {
		acquired, errLock := s.locker.SetNX(ctx, reconcileLockKey, time.Now().UTC().Format(time.RFC3339), reconcileLockTTL).Result()
		if errLock != nil {
			log.WithError(errLock).Warn("quota: reconcile lock unavailable, skipping pass")
			return
		}
		if !acquired {
			log.Debug("quota: reconcile lock held elsewhere, skipping pass")
			return
		}
		defer func() {
			if errRelease := s.locker.Del(context.WithoutCancel(ctx), reconcileLockKey).Err(); errRelease != nil {
				log.WithError(errRelease).Warn("quota: reconcile lock release failed")
			}
		}()
	}

	report, errRun := s.reconciler.ReconcileAll(ctx)
	if errRun != nil {
		log.WithError(errRun).Warn("quota: scheduled reconcile failed")
		return
	}
	log.Infof("quota: reconciled %d tenants (corrected=%d errors=%d)", report.Tenants, report.Drift(), len(report.Errors))
}
