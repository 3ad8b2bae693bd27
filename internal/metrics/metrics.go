// Package metrics defines the Prometheus instrumentation for the backend tasks.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// TaskRuns counts completed runs of the scheduled tasks, by task name.
	TaskRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "planandbill_task_runs_total",
		Help: "Completed runs of the scheduled dispatch tasks.",
	}, []string{"task"})

	// RemindersSent counts reminder notifications attempted, by result.
	RemindersSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "planandbill_reminders_total",
		Help: "Reminder push notifications, by result (sent, skipped, failed).",
	}, []string{"result"})

	// ReportsSent counts monthly report emails attempted, by result.
	ReportsSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "planandbill_reports_total",
		Help: "Monthly report emails, by result (sent, skipped, failed).",
	}, []string{"result"})

	// BillsCreated counts documents created by the completion trigger.
	BillsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "planandbill_bills_created_total",
		Help: "Billing documents created on appointment completion.",
	})
)
