package scheduler

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Locker guards a task so only one replica runs it at a time.
type Locker interface {
	AcquireLock(ctx context.Context, key, owner string, ttl time.Duration) (bool, error)
	ReleaseLock(ctx context.Context, key, owner string) error
}

// Task is a periodic unit of work.
type Task struct {
	Name    string
	Spec    string
	Timeout time.Duration
	// LockTTL enables the distributed lock when positive.
	LockTTL time.Duration
	Run     func(ctx context.Context) error
}

// Scheduler runs tasks on cron schedules. Overlapping runs of one task are skipped.
type Scheduler struct {
	cron   *cron.Cron
	locker Locker
	owner  string
	logger *zap.Logger
}

// New builds a scheduler. A nil locker disables cross-replica locking.
func New(locker Locker, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	host, _ := os.Hostname()
	cronLogger := zapCronLogger{logger: logger.Named("cron")}
	return &Scheduler{
		cron:   cron.New(cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger))),
		locker: locker,
		owner:  fmt.Sprintf("%s/%s", host, uuid.NewString()),
		logger: logger,
	}
}

// Add registers a task.
func (s *Scheduler) Add(task Task) error {
	if task.Run == nil {
		return fmt.Errorf("task %s has no run func", task.Name)
	}
	if task.Timeout <= 0 {
		task.Timeout = 5 * time.Minute
	}
	if _, err := s.cron.AddFunc(task.Spec, func() { s.RunOnce(context.Background(), task) }); err != nil {
		return fmt.Errorf("schedule %s: %w", task.Name, err)
	}
	s.logger.Info("task scheduled", zap.String("task", task.Name), zap.String("spec", task.Spec))
	return nil
}

// RunOnce executes task immediately, honouring its lock. It reports whether the task ran.
func (s *Scheduler) RunOnce(parent context.Context, task Task) bool {
	ctx, cancel := context.WithTimeout(parent, task.Timeout)
	defer cancel()

	if s.locker != nil && task.LockTTL > 0 {
		key := "lock:task:" + task.Name
		ok, err := s.locker.AcquireLock(ctx, key, s.owner, task.LockTTL)
		if err != nil {
			s.logger.Warn("task lock failed", zap.String("task", task.Name), zap.Error(err))
			return false
		}
		if !ok {
			s.logger.Debug("task held by another replica", zap.String("task", task.Name))
			return false
		}
		defer func() {
			if err := s.locker.ReleaseLock(context.Background(), key, s.owner); err != nil {
				s.logger.Warn("task unlock failed", zap.String("task", task.Name), zap.Error(err))
			}
		}()
	}

	start := time.Now()
	if err := task.Run(ctx); err != nil {
		s.logger.Error("task failed", zap.String("task", task.Name), zap.Duration("duration", time.Since(start)), zap.Error(err))
		return true
	}
	s.logger.Info("task completed", zap.String("task", task.Name), zap.Duration("duration", time.Since(start)))
	return true
}

// Start begins dispatching in the background.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts dispatching and waits for running tasks or ctx.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
	}
}

type zapCronLogger struct {
	logger *zap.Logger
}

func (l zapCronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Sugar().Debugw(msg, keysAndValues...)
}

func (l zapCronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Sugar().Errorw(msg, append(keysAndValues, "error", err)...)
}
