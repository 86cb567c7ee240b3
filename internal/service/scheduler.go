package service

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// everyMinute fires at second 0 of every minute.
const everyMinute = "0 * * * * *"

// Scheduler wraps cron-based jobs.
type Scheduler struct {
	cron   *cron.Cron
	logger *zap.Logger
}

func NewScheduler(logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		cron:   cron.New(cron.WithLocation(time.UTC), cron.WithSeconds()),
		logger: logger,
	}
}

// ScheduleCheckins runs the reminder check-ins once a minute.
func (s *Scheduler) ScheduleCheckins(reminders *ReminderService) (cron.EntryID, error) {
	return s.cron.AddFunc(everyMinute, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Second)
		defer cancel()

		sent, err := reminders.RunCheckins(ctx, time.Now())
		if err != nil {
			s.logger.Error("run check-ins", zap.Error(err))
			return
		}
		if sent > 0 {
			s.logger.Info("check-ins sent", zap.Int("count", sent))
		}
	})
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}
