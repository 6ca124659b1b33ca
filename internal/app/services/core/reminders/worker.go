package reminders

import (
	"context"
	"odonto-service/internal/app/config"
	"odonto-service/internal/app/contracts"
	"odonto-service/internal/pkg/constvars"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const (
	fallbackCronSpec = "0 18 * * *"
	leaderLockTTL    = 2 * time.Minute
)

// Worker sends the next day's reminders on a cron schedule. Only the
// instance holding the redis leader lock does the work.
type Worker struct {
	log       *zap.Logger
	cfg       *config.InternalConfig
	locker    contracts.LockerService
	reminders contracts.ReminderUsecase
	stop      chan struct{}
	cron      *cron.Cron
	runCtx    context.Context
	cancel    context.CancelFunc
}

func NewWorker(log *zap.Logger, cfg *config.InternalConfig, lockerSvc contracts.LockerService, reminderUsecase contracts.ReminderUsecase) *Worker {
	return &Worker{log: log, cfg: cfg, locker: lockerSvc, reminders: reminderUsecase, stop: make(chan struct{})}
}

// Start schedules the job in the practice timezone.
func (w *Worker) Start(ctx context.Context) {
	w.runCtx, w.cancel = context.WithCancel(ctx)
	c := cron.New(cron.WithLocation(w.cfg.App.Location()))
	spec := w.cfg.Reminder.CronSpec
	if _, err := c.AddFunc(spec, func() { w.runOnce(w.runCtx) }); err != nil {
		w.log.Warn("reminders.worker: invalid cron spec, falling back to default",
			zap.String("spec", spec),
			zap.Error(err),
		)
		spec = fallbackCronSpec
		c = cron.New(cron.WithLocation(w.cfg.App.Location()))
		_, _ = c.AddFunc(spec, func() { w.runOnce(w.runCtx) })
	}
	c.Start()
	w.cron = c
	w.log.Info("reminders.worker: started", zap.String("spec", spec))
}

// Stop waits for a running job to finish.
func (w *Worker) Stop() {
	select {
	case <-w.stop:
	default:
		close(w.stop)
	}
	if w.cancel != nil {
		w.cancel()
	}
	if w.cron != nil {
		<-w.cron.Stop().Done()
	}
}

func (w *Worker) runOnce(ctx context.Context) {
	acquired, token, err := w.locker.TryLock(ctx, constvars.RedisKeyReminderLeader, leaderLockTTL)
	if err != nil {
		w.log.Warn("reminders.worker: leader lock attempt failed", zap.Error(err))
		return
	}
	if !acquired {
		w.log.Info("reminders.worker: leader lock held by another instance")
		return
	}
	defer func() {
		if err := w.locker.Unlock(context.Background(), constvars.RedisKeyReminderLeader, token); err != nil {
			w.log.Warn("reminders.worker: failed to release leader lock", zap.Error(err))
		}
	}()

	refreshCtx, cancelRefresh := context.WithCancel(ctx)
	defer cancelRefresh()
	go w.refreshLock(refreshCtx, token)

	sent, err := w.reminders.SendReminders(ctx)
	if err != nil {
		w.log.Warn("reminders.worker: run failed", zap.Error(err))
		return
	}
	w.log.Info("reminders.worker: run finished", zap.Int(constvars.LoggingReminderCountKey, sent))
}

func (w *Worker) refreshLock(ctx context.Context, token string) {
	tick := time.NewTicker(leaderLockTTL / 2)
	defer tick.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stop:
			return
		case <-tick.C:
			if err := w.locker.Refresh(ctx, constvars.RedisKeyReminderLeader, token, leaderLockTTL); err != nil {
				w.log.Warn("reminders.worker: failed to refresh leader lock", zap.Error(err))
			}
		}
	}
}
