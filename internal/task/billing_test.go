package task

import (
	"context"
	"testing"
	"time"

	"github.com/arttherapy/planandbill-backend/internal/models"
	"github.com/arttherapy/planandbill-backend/internal/storage/sqlite"
)

func completeAppointment(appt *models.Appointment) (before, after *models.Appointment) {
	b := *appt
	a := *appt
	a.Status = models.StatusCompleted
	return &b, &a
}

func billFor(t *testing.T, store *sqlite.SQLiteStore, appointmentID string) *models.Document {
	t.Helper()
	doc, err := store.GetDocumentByAppointment(context.Background(), appointmentID)
	if err != nil {
		t.Fatalf("GetDocumentByAppointment failed: %v", err)
	}
	return doc
}

func TestBillingCreator_CompletionCreatesBill(t *testing.T) {
	store := newTaskStore(t)
	ctx := context.Background()

	owner := seedUser(t, store, models.User{AutoBilling: true, DefaultRate: 80})
	appt := seedAppointment(t, store, models.Appointment{
		UserID:     owner.ID,
		ClientName: "Jane Doe",
		Date:       time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
		Status:     models.StatusScheduled,
	})

	before, after := completeAppointment(appt)
	if err := NewBillingCreator(store).HandleAppointmentUpdate(ctx, before, after); err != nil {
		t.Fatalf("HandleAppointmentUpdate failed: %v", err)
	}

	doc := billFor(t, store, appt.ID)
	if doc == nil {
		t.Fatal("Expected a bill to be created")
	}
	if doc.Type != models.DocumentTypeBill {
		t.Errorf("Expected type bill, got %s", doc.Type)
	}
	if doc.Title != "Session with Jane Doe" {
		t.Errorf("Unexpected title %q", doc.Title)
	}
	if doc.Description != "Therapy session on March 1, 2024" {
		t.Errorf("Unexpected description %q", doc.Description)
	}
	if doc.Amount != 80 {
		t.Errorf("Expected amount 80, got %v", doc.Amount)
	}
	if doc.UserID != owner.ID || doc.AppointmentID != appt.ID {
		t.Errorf("Bad references: user=%s appointment=%s", doc.UserID, doc.AppointmentID)
	}
	if !doc.DueDate.Equal(doc.IssueDate.AddDate(0, 0, 30)) {
		t.Errorf("Expected due date 30 days after issue, got issue=%v due=%v", doc.IssueDate, doc.DueDate)
	}
}

func TestBillingCreator_NoOpTransitions(t *testing.T) {
	store := newTaskStore(t)
	ctx := context.Background()
	creator := NewBillingCreator(store)

	owner := seedUser(t, store, models.User{AutoBilling: true, DefaultRate: 80})
	date := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		before models.AppointmentStatus
		after  models.AppointmentStatus
	}{
		{"scheduled stays scheduled", models.StatusScheduled, models.StatusScheduled},
		{"completed re-save", models.StatusCompleted, models.StatusCompleted},
		{"completed reverts to scheduled", models.StatusCompleted, models.StatusScheduled},
		{"scheduled to cancelled", models.StatusScheduled, models.StatusCancelled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			appt := seedAppointment(t, store, models.Appointment{
				UserID: owner.ID, ClientName: "C", Date: date, Status: tt.before,
			})
			before := *appt
			after := *appt
			after.Status = tt.after

			if err := creator.HandleAppointmentUpdate(ctx, &before, &after); err != nil {
				t.Fatalf("HandleAppointmentUpdate failed: %v", err)
			}
			if doc := billFor(t, store, appt.ID); doc != nil {
				t.Errorf("Expected no bill for %s -> %s, got %+v", tt.before, tt.after, doc)
			}
		})
	}
}

func TestBillingCreator_AutoBillingDisabled(t *testing.T) {
	store := newTaskStore(t)
	ctx := context.Background()

	owner := seedUser(t, store, models.User{AutoBilling: false, DefaultRate: 80})
	appt := seedAppointment(t, store, models.Appointment{
		UserID: owner.ID, ClientName: "C",
		Date: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC), Status: models.StatusScheduled,
	})

	before, after := completeAppointment(appt)
	if err := NewBillingCreator(store).HandleAppointmentUpdate(ctx, before, after); err != nil {
		t.Fatalf("HandleAppointmentUpdate failed: %v", err)
	}
	if doc := billFor(t, store, appt.ID); doc != nil {
		t.Errorf("Expected no bill with auto-billing disabled, got %+v", doc)
	}
}

func TestBillingCreator_UnsetRateBillsZero(t *testing.T) {
	store := newTaskStore(t)
	ctx := context.Background()

	owner := seedUser(t, store, models.User{AutoBilling: true})
	appt := seedAppointment(t, store, models.Appointment{
		UserID: owner.ID, ClientName: "C",
		Date: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC), Status: models.StatusScheduled,
	})

	before, after := completeAppointment(appt)
	if err := NewBillingCreator(store).HandleAppointmentUpdate(ctx, before, after); err != nil {
		t.Fatalf("HandleAppointmentUpdate failed: %v", err)
	}

	doc := billFor(t, store, appt.ID)
	if doc == nil {
		t.Fatal("Expected a bill to be created")
	}
	if doc.Amount != 0 {
		t.Errorf("Expected amount 0 for unset rate, got %v", doc.Amount)
	}
}

func TestBillingCreator_DuplicateTriggerIsIdempotent(t *testing.T) {
	store := newTaskStore(t)
	ctx := context.Background()
	creator := NewBillingCreator(store)

	owner := seedUser(t, store, models.User{AutoBilling: true, DefaultRate: 80})
	appt := seedAppointment(t, store, models.Appointment{
		UserID: owner.ID, ClientName: "C",
		Date: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC), Status: models.StatusScheduled,
	})

	before, after := completeAppointment(appt)
	for i := 0; i < 2; i++ {
		if err := creator.HandleAppointmentUpdate(ctx, before, after); err != nil {
			t.Fatalf("Delivery %d failed: %v", i+1, err)
		}
	}

	docs, err := store.ListDocuments(ctx, owner.ID, time.Now().Add(-time.Hour), time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("ListDocuments failed: %v", err)
	}
	if len(docs) != 1 {
		t.Errorf("Expected exactly 1 bill after duplicate delivery, got %d", len(docs))
	}
}
