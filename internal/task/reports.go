package task

import (
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/arttherapy/planandbill-backend/internal/delivery"
	"github.com/arttherapy/planandbill-backend/internal/metrics"
	"github.com/arttherapy/planandbill-backend/internal/models"
	"github.com/arttherapy/planandbill-backend/internal/storage"
)

// reportTemplate renders the monthly activity summary email body.
var reportTemplate = template.Must(template.New("report").Parse(`
<h1>Monthly Activity Report</h1>
<p>Hello {{.DisplayName}},</p>
<p>Here's your activity summary for {{.MonthYear}}:</p>

<h2>Appointments</h2>
<p>Total appointments: <strong>{{.Appointments}}</strong></p>

<h2>Billing</h2>
<p>Total documents generated: <strong>{{.Documents}}</strong></p>
<p>Total amount billed: <strong>{{.TotalBilled}}</strong></p>

<p>Thank you for using PlanAndBill!</p>
`))

type reportData struct {
	DisplayName  string
	MonthYear    string
	Appointments int
	Documents    int
	TotalBilled  string
}

// ReportOutcome is the result of one user's monthly report pipeline.
// A skipped outcome means the user has no email address.
type ReportOutcome struct {
	UserID  string
	Email   string
	Skipped bool
	Err     error
}

// MonthlyReporter emails each user a summary of the previous calendar month.
//
// Re-running within the same month sends duplicate emails; there is no dedup.
type MonthlyReporter struct {
	store  storage.Store
	mailer delivery.Mailer
	from   string
}

// NewMonthlyReporter creates a monthly report dispatcher. Emails are sent
// from the given sender identity.
func NewMonthlyReporter(store storage.Store, mailer delivery.Mailer, from string) *MonthlyReporter {
	return &MonthlyReporter{store: store, mailer: mailer, from: from}
}

// lastMonthRange returns the previous calendar month as the half-open
// interval [first day of last month, first day of this month).
func lastMonthRange(now time.Time) (from, to time.Time) {
	to = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	from = to.AddDate(0, -1, 0)
	return from, to
}

// Run generates and sends one report per user with a non-empty email.
// Per-user pipelines are independent and concurrent; Run returns after all
// have settled, with one outcome per user.
func (r *MonthlyReporter) Run(ctx context.Context, now time.Time) ([]ReportOutcome, error) {
	from, to := lastMonthRange(now)

	users, err := r.store.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	outcomes := make([]ReportOutcome, len(users))
	var wg sync.WaitGroup
	for i, user := range users {
		wg.Add(1)
		go func(i int, user models.User) {
			defer wg.Done()
			outcomes[i] = r.reportOne(ctx, user, from, to)
		}(i, user)
	}
	wg.Wait()

	var sent, skipped, failed int
	for _, o := range outcomes {
		switch {
		case o.Err != nil:
			failed++
			metrics.ReportsSent.WithLabelValues("failed").Inc()
			slog.Error("Monthly report failed", "user_id", o.UserID, "error", o.Err)
		case o.Skipped:
			skipped++
			metrics.ReportsSent.WithLabelValues("skipped").Inc()
		default:
			sent++
			metrics.ReportsSent.WithLabelValues("sent").Inc()
		}
	}
	slog.Info("Monthly report run finished",
		"month", from.Format("January 2006"),
		"users", len(users),
		"sent", sent,
		"skipped", skipped,
		"failed", failed,
	)

	return outcomes, nil
}

func (r *MonthlyReporter) reportOne(ctx context.Context, user models.User, from, to time.Time) ReportOutcome {
	outcome := ReportOutcome{UserID: user.ID, Email: user.Email}

	if user.Email == "" {
		outcome.Skipped = true
		return outcome
	}

	apptCount, err := r.store.CountAppointments(ctx, user.ID, from, to)
	if err != nil {
		outcome.Err = fmt.Errorf("failed to count appointments: %w", err)
		return outcome
	}

	docs, err := r.store.ListDocuments(ctx, user.ID, from, to)
	if err != nil {
		outcome.Err = fmt.Errorf("failed to list documents: %w", err)
		return outcome
	}
	var total float64
	for _, doc := range docs {
		total += doc.Amount
	}

	displayName := user.DisplayName
	if displayName == "" {
		displayName = "Therapist"
	}

	var body strings.Builder
	err = reportTemplate.Execute(&body, reportData{
		DisplayName:  displayName,
		MonthYear:    from.Format("January 2006"),
		Appointments: apptCount,
		Documents:    len(docs),
		TotalBilled:  fmt.Sprintf("€%.2f", total),
	})
	if err != nil {
		outcome.Err = fmt.Errorf("failed to render report: %w", err)
		return outcome
	}

	outcome.Err = r.mailer.Send(ctx, delivery.Email{
		From:    r.from,
		To:      user.Email,
		Subject: fmt.Sprintf("Your Monthly Report - %s", from.Format("January 2006")),
		HTML:    body.String(),
	})
	return outcome
}
