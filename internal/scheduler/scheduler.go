package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"wikipicbot/internal/pipeline"
)

const (
	DailyPostSpec         = "0 9 * * *"
	Timezone              = "UTC+3"
	TimezoneOffsetSeconds = 3 * 60 * 60

	dailyPostTimeout = 5 * time.Minute
)

// Scheduler triggers one pipeline run every morning. A failed run is
// logged and left to the next day's trigger; there is no retry.
type Scheduler struct {
	ctx      context.Context
	cron     *cron.Cron
	pipeline *pipeline.Pipeline
	log      *slog.Logger
}

func New(ctx context.Context, pipeline *pipeline.Pipeline, log *slog.Logger) *Scheduler {
	c := cron.New(cron.WithLocation(time.FixedZone(Timezone, TimezoneOffsetSeconds)))

	return &Scheduler{
		ctx:      ctx,
		cron:     c,
		pipeline: pipeline,
		log:      log,
	}
}

func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(DailyPostSpec, s.postDailyImage); err != nil {
		return err
	}

	s.cron.Start()

	return nil
}

func (s *Scheduler) Stop() {
	s.cron.Stop()
}

func (s *Scheduler) postDailyImage() {
	ctx, cancel := context.WithTimeout(s.ctx, dailyPostTimeout)
	defer cancel()

	select {
	case <-ctx.Done():
		s.log.InfoContext(ctx, "Scheduler context is done",
			"error", ctx.Err())
		return
	default:
	}

	result, err := s.pipeline.Run(ctx)
	if err != nil {
		s.log.ErrorContext(ctx, "Failed to post daily image",
			"error", err,
			"spec", DailyPostSpec)

		return
	}

	s.log.InfoContext(ctx, "Daily image run finished",
		"statusID", result.StatusID,
		"posted", result.Posted)
}
