package task

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/arttherapy/planandbill-backend/internal/metrics"
	"github.com/arttherapy/planandbill-backend/internal/models"
	"github.com/arttherapy/planandbill-backend/internal/storage"
)

// BillingCreator reacts to appointment updates. The only transition it acts
// on is not-completed -> completed; on that transition, and only when the
// owner has auto-billing enabled, it inserts exactly one bill document.
type BillingCreator struct {
	store storage.Store
}

// NewBillingCreator creates a completion-triggered billing creator.
func NewBillingCreator(store storage.Store) *BillingCreator {
	return &BillingCreator{store: store}
}

// HandleAppointmentUpdate inspects a before/after snapshot pair and creates
// a bill if the update completed the appointment. Every other transition,
// including a completed -> completed re-save, is a no-op. The appointment
// itself is never modified.
//
// Idempotent under duplicate delivery: a bill already referencing the
// appointment makes the handler a silent no-op.
func (c *BillingCreator) HandleAppointmentUpdate(ctx context.Context, before, after *models.Appointment) error {
	if before.Status == models.StatusCompleted || after.Status != models.StatusCompleted {
		return nil
	}

	user, err := c.store.GetUser(ctx, after.UserID)
	if err != nil {
		return fmt.Errorf("failed to look up owner: %w", err)
	}
	if user == nil || !user.AutoBilling {
		return nil
	}

	now := time.Now()
	doc := &models.Document{
		UserID:        after.UserID,
		Type:          models.DocumentTypeBill,
		Title:         fmt.Sprintf("Session with %s", after.ClientName),
		ClientName:    after.ClientName,
		Description:   fmt.Sprintf("Therapy session on %s", after.Date.Format("January 2, 2006")),
		Amount:        user.DefaultRate,
		IssueDate:     now,
		DueDate:       now.AddDate(0, 0, 30),
		CreatedAt:     now,
		AppointmentID: after.ID,
	}

	if err := c.store.CreateDocument(ctx, doc); err != nil {
		if errors.Is(err, storage.ErrDocumentExists) {
			slog.Debug("Bill already exists for appointment", "appointment_id", after.ID)
			return nil
		}
		return fmt.Errorf("failed to create bill: %w", err)
	}

	metrics.BillsCreated.Inc()
	slog.Info("Bill created for completed appointment",
		"appointment_id", after.ID,
		"user_id", after.UserID,
		"document_id", doc.ID,
		"amount", doc.Amount,
	)
	return nil
}
