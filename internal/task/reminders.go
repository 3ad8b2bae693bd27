// Package task implements the three triggered backend tasks: the reminder
// dispatcher, the monthly report dispatcher, and the completion-triggered
// billing creator.
package task

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/arttherapy/planandbill-backend/internal/delivery"
	"github.com/arttherapy/planandbill-backend/internal/metrics"
	"github.com/arttherapy/planandbill-backend/internal/storage"
)

// ReminderOutcome is the result of one reminder attempt. A skipped outcome
// means the owner had no push token; it is not an error.
type ReminderOutcome struct {
	AppointmentID string
	UserID        string
	Skipped       bool
	Err           error
}

// ReminderDispatcher sends push reminders for appointments starting soon.
//
// Each hourly run covers the window [now+1h, now+2h), so an appointment
// rescheduled into and out of the window between two ticks gets no reminder.
// Best-effort by contract: one attempt per window, no retry.
type ReminderDispatcher struct {
	store storage.Store
	push  delivery.PushSender
}

// NewReminderDispatcher creates a reminder dispatcher.
func NewReminderDispatcher(store storage.Store, push delivery.PushSender) *ReminderDispatcher {
	return &ReminderDispatcher{store: store, push: push}
}

// Run performs one reminder pass for the window [now+1h, now+2h).
// Sends proceed concurrently and independently; Run returns only after every
// attempt has settled, with one outcome per matched appointment. A send
// failure never aborts sibling sends.
func (d *ReminderDispatcher) Run(ctx context.Context, now time.Time) ([]ReminderOutcome, error) {
	from := now.Add(1 * time.Hour)
	to := now.Add(2 * time.Hour)

	appts, err := d.store.ListScheduledAppointments(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query reminder window: %w", err)
	}

	outcomes := make([]ReminderOutcome, len(appts))
	var wg sync.WaitGroup
	for i, appt := range appts {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			outcomes[i] = d.sendOne(ctx, appt.ID, appt.UserID, appt.ClientName)
		}(i)
	}
	wg.Wait()

	var sent, skipped, failed int
	for _, o := range outcomes {
		switch {
		case o.Err != nil:
			failed++
			metrics.RemindersSent.WithLabelValues("failed").Inc()
			slog.Error("Reminder send failed", "appointment_id", o.AppointmentID, "user_id", o.UserID, "error", o.Err)
		case o.Skipped:
			skipped++
			metrics.RemindersSent.WithLabelValues("skipped").Inc()
		default:
			sent++
			metrics.RemindersSent.WithLabelValues("sent").Inc()
		}
	}
	slog.Info("Reminder run finished",
		"window_start", from,
		"window_end", to,
		"matched", len(appts),
		"sent", sent,
		"skipped", skipped,
		"failed", failed,
	)

	return outcomes, nil
}

func (d *ReminderDispatcher) sendOne(ctx context.Context, apptID, userID, clientName string) ReminderOutcome {
	outcome := ReminderOutcome{AppointmentID: apptID, UserID: userID}

	user, err := d.store.GetUser(ctx, userID)
	if err != nil {
		outcome.Err = fmt.Errorf("failed to look up owner: %w", err)
		return outcome
	}
	if user == nil || user.FCMToken == "" {
		outcome.Skipped = true
		return outcome
	}

	outcome.Err = d.push.Send(ctx, delivery.Notification{
		Token: user.FCMToken,
		Title: "Upcoming Appointment",
		Body:  fmt.Sprintf("You have an appointment with %s in about an hour.", clientName),
		Data: map[string]string{
			"appointmentId": apptID,
			"type":          "reminder",
		},
	})
	return outcome
}
