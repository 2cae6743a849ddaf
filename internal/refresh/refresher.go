// Package refresh keeps the calendar snapshot current by polling the booking
// store on a fixed interval.
package refresh

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
)

// JobName identifies the refresh job in logs and scheduler events.
const JobName = "calendar-refresh"

// ErrInvalidInterval is returned when the polling interval is not positive.
var ErrInvalidInterval = errors.New("refresh: interval must be positive")

// Target is reloaded on every tick.
type Target interface {
	Refresh(ctx context.Context) error
}

// Refresher runs Target.Refresh on a gocron duration job. Runs never
// overlap; a tick that fires while a refresh is in flight is skipped.
type Refresher struct {
	scheduler gocron.Scheduler
	target    Target
	interval  time.Duration
	timeout   time.Duration
	logger    *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc

	stopOnce sync.Once
	stopErr  error
}

// New registers the refresh job. The first run happens as soon as Start is
// called. Each run is bounded by the interval so a stuck store cannot pile
// up work.
func New(target Target, interval time.Duration, logger *slog.Logger) (*Refresher, error) {
	if interval <= 0 {
		return nil, ErrInvalidInterval
	}
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("job_name", JobName, "interval", interval.String())

	sched, err := gocron.NewScheduler(
		gocron.WithGlobalJobOptions(
			gocron.WithEventListeners(
				gocron.AfterJobRunsWithPanic(func(jobID uuid.UUID, jobName string, recoverData any) {
					logger.Error("refresh job panicked", "job_id", jobID.String(), "panic", recoverData)
				}),
				gocron.AfterJobRunsWithError(func(jobID uuid.UUID, jobName string, err error) {
					logger.Warn("refresh job failed", "job_id", jobID.String(), "error", err)
				}),
			),
		),
	)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	r := &Refresher{
		scheduler: sched,
		target:    target,
		interval:  interval,
		timeout:   interval,
		logger:    logger,
		ctx:       ctx,
		cancel:    cancel,
	}

	_, err = sched.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(r.run),
		gocron.WithName(JobName),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		cancel()
		_ = sched.Shutdown()
		return nil, err
	}
	logger.Info("refresh job registered")
	return r, nil
}

func (r *Refresher) run() error {
	ctx, cancel := context.WithTimeout(r.ctx, r.timeout)
	defer cancel()

	r.logger.Debug("refresh job started")
	if err := r.target.Refresh(ctx); err != nil {
		return err
	}
	r.logger.Debug("refresh job completed")
	return nil
}

// Start begins running the job in the background.
func (r *Refresher) Start() {
	r.logger.Info("refresh scheduler starting")
	r.scheduler.Start()
}

// Stop cancels any in-flight refresh and shuts the scheduler down. It is
// safe to call more than once.
func (r *Refresher) Stop() error {
	r.stopOnce.Do(func() {
		r.logger.Info("refresh scheduler stopping")
		r.cancel()
		r.stopErr = r.scheduler.Shutdown()
	})
	return r.stopErr
}
