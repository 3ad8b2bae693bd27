// Package scheduler wires the periodic dispatch tasks onto cron triggers.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/arttherapy/planandbill-backend/internal/metrics"
	"github.com/arttherapy/planandbill-backend/internal/task"
)

const (
	// Top of every hour.
	reminderSpec = "0 * * * *"
	// Midnight on the first of every month.
	reportSpec = "0 0 1 * *"
)

// Scheduler runs the reminder dispatcher hourly and the monthly reporter on
// the first of each month. Task failures are logged; the next tick is never
// affected.
type Scheduler struct {
	cron      *cron.Cron
	reminders *task.ReminderDispatcher
	reports   *task.MonthlyReporter
}

// New registers both triggers on a fresh cron instance.
func New(reminders *task.ReminderDispatcher, reports *task.MonthlyReporter) (*Scheduler, error) {
	s := &Scheduler{
		cron:      cron.New(),
		reminders: reminders,
		reports:   reports,
	}

	if _, err := s.cron.AddFunc(reminderSpec, s.runReminders); err != nil {
		return nil, err
	}
	if _, err := s.cron.AddFunc(reportSpec, s.runReports); err != nil {
		return nil, err
	}

	return s, nil
}

// Start begins trigger delivery in the cron's own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
	slog.Info("Scheduler started", "reminders", reminderSpec, "reports", reportSpec)
}

// Stop halts trigger delivery and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	slog.Info("Scheduler stopped")
}

func (s *Scheduler) runReminders() {
	if _, err := s.reminders.Run(context.Background(), time.Now()); err != nil {
		slog.Error("Reminder run failed", "error", err)
		return
	}
	metrics.TaskRuns.WithLabelValues("reminders").Inc()
}

func (s *Scheduler) runReports() {
	if _, err := s.reports.Run(context.Background(), time.Now()); err != nil {
		slog.Error("Monthly report run failed", "error", err)
		return
	}
	metrics.TaskRuns.WithLabelValues("reports").Inc()
}
