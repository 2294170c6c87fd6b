package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/SergeyBogomolovv/storefront-orders/internal/service"

	"github.com/robfig/cron/v3"
)

type TrackingRefresher interface {
	RefreshAll(ctx context.Context) (service.BulkResult, error)
}

// TrackingRefreshJob polls the carrier for every order still on its way on a
// cron schedule. A run that is still going when the next one is due makes the
// next one skip.
type TrackingRefreshJob struct {
	refresher TrackingRefresher
	schedule  string
	cron      *cron.Cron
	logger    *slog.Logger
	stopOnce  sync.Once
}

func NewTrackingRefreshJob(refresher TrackingRefresher, schedule string, logger *slog.Logger) *TrackingRefreshJob {
	logger = logger.With(slog.String("job", "tracking_refresh"))
	cl := cronLogger{logger: logger}
	return &TrackingRefreshJob{
		refresher: refresher,
		schedule:  schedule,
		cron:      cron.New(cron.WithLogger(cl), cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl))),
		logger:    logger,
	}
}

// Start schedules the job and returns. The scheduler stops when ctx is done.
func (j *TrackingRefreshJob) Start(ctx context.Context) error {
	_, err := j.cron.AddFunc(j.schedule, func() { j.run(ctx) })
	if err != nil {
		return fmt.Errorf("invalid tracking refresh schedule %q: %w", j.schedule, err)
	}

	j.cron.Start()
	j.logger.InfoContext(ctx, "tracking refresh job started", slog.String("schedule", j.schedule))

	go func() {
		<-ctx.Done()
		j.Stop()
	}()
	return nil
}

// Stop waits for a running refresh to finish. Calls after the first are
// no-ops.
func (j *TrackingRefreshJob) Stop() {
	j.stopOnce.Do(func() {
		<-j.cron.Stop().Done()
		j.logger.Info("tracking refresh job stopped")
	})
}

func (j *TrackingRefreshJob) run(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}

	res, err := j.refresher.RefreshAll(ctx)
	if err != nil {
		j.logger.ErrorContext(ctx, "tracking refresh failed", slog.Any("error", err))
		return
	}
	if res.Failed > 0 {
		j.logger.WarnContext(ctx, "tracking refresh finished with failures",
			slog.Int("failed", res.Failed),
			slog.Int("total", res.Total),
		)
	}
}

type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error(msg, append(keysAndValues, slog.Any("error", err))...)
}
