package sqlite

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/arttherapy/planandbill-backend/internal/models"
	"github.com/arttherapy/planandbill-backend/internal/storage"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	store, err := New(dbPath)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSQLiteStore_Users(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	t.Run("CreateUser generates ID", func(t *testing.T) {
		user := &models.User{
			DisplayName: "Anna",
			Email:       "anna@example.com",
			FCMToken:    "token-1",
			AutoBilling: true,
			DefaultRate: 80,
		}
		if err := store.CreateUser(ctx, user); err != nil {
			t.Fatalf("CreateUser failed: %v", err)
		}
		if user.ID == "" {
			t.Error("Expected user ID to be generated")
		}
		if user.CreatedAt.IsZero() {
			t.Error("Expected CreatedAt to be set")
		}
	})

	t.Run("GetUser round-trips all fields", func(t *testing.T) {
		user := &models.User{
			DisplayName: "Ben",
			Email:       "ben@example.com",
			AutoBilling: true,
			DefaultRate: 65.5,
		}
		if err := store.CreateUser(ctx, user); err != nil {
			t.Fatalf("CreateUser failed: %v", err)
		}

		got, err := store.GetUser(ctx, user.ID)
		if err != nil {
			t.Fatalf("GetUser failed: %v", err)
		}
		if got == nil {
			t.Fatal("Expected user, got nil")
		}
		if got.DisplayName != "Ben" || got.Email != "ben@example.com" {
			t.Errorf("Unexpected user: %+v", got)
		}
		if !got.AutoBilling {
			t.Error("Expected AutoBilling to survive round-trip")
		}
		if got.DefaultRate != 65.5 {
			t.Errorf("Expected DefaultRate 65.5, got %v", got.DefaultRate)
		}
	})

	t.Run("GetUser returns nil for unknown ID", func(t *testing.T) {
		got, err := store.GetUser(ctx, "missing")
		if err != nil {
			t.Fatalf("GetUser failed: %v", err)
		}
		if got != nil {
			t.Errorf("Expected nil, got %+v", got)
		}
	})

	t.Run("ListUsers returns every user", func(t *testing.T) {
		users, err := store.ListUsers(ctx)
		if err != nil {
			t.Fatalf("ListUsers failed: %v", err)
		}
		if len(users) != 2 {
			t.Errorf("Expected 2 users, got %d", len(users))
		}
	})
}

func TestSQLiteStore_Appointments(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	owner := &models.User{DisplayName: "Owner"}
	if err := store.CreateUser(ctx, owner); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	mk := func(date time.Time, status models.AppointmentStatus) *models.Appointment {
		t.Helper()
		appt := &models.Appointment{
			UserID:     owner.ID,
			ClientName: "Client",
			Date:       date,
			Status:     status,
		}
		if err := store.CreateAppointment(ctx, appt); err != nil {
			t.Fatalf("CreateAppointment failed: %v", err)
		}
		return appt
	}

	t.Run("ListScheduledAppointments uses half-open window and status filter", func(t *testing.T) {
		from := base
		to := base.Add(time.Hour)

		inWindow := mk(base.Add(30*time.Minute), models.StatusScheduled)
		atLowerBound := mk(base, models.StatusScheduled)
		mk(to, models.StatusScheduled)                                   // at upper bound: excluded
		mk(base.Add(-time.Minute), models.StatusScheduled)               // before window
		mk(base.Add(10*time.Minute), models.StatusCompleted)             // wrong status
		mk(base.Add(20*time.Minute), models.StatusCancelled)             // wrong status
		mk(base.Add(2*time.Hour), models.StatusScheduled)                // after window

		appts, err := store.ListScheduledAppointments(ctx, from, to)
		if err != nil {
			t.Fatalf("ListScheduledAppointments failed: %v", err)
		}
		if len(appts) != 2 {
			t.Fatalf("Expected 2 appointments, got %d", len(appts))
		}
		ids := map[string]bool{appts[0].ID: true, appts[1].ID: true}
		if !ids[inWindow.ID] || !ids[atLowerBound.ID] {
			t.Errorf("Unexpected window contents: %v", ids)
		}
	})

	t.Run("UpdateAppointment returns the prior snapshot", func(t *testing.T) {
		appt := mk(base.Add(48*time.Hour), models.StatusScheduled)

		updated := *appt
		updated.Status = models.StatusCompleted
		before, err := store.UpdateAppointment(ctx, &updated)
		if err != nil {
			t.Fatalf("UpdateAppointment failed: %v", err)
		}
		if before.Status != models.StatusScheduled {
			t.Errorf("Expected before status scheduled, got %s", before.Status)
		}

		got, err := store.GetAppointment(ctx, appt.ID)
		if err != nil {
			t.Fatalf("GetAppointment failed: %v", err)
		}
		if got.Status != models.StatusCompleted {
			t.Errorf("Expected stored status completed, got %s", got.Status)
		}
	})

	t.Run("UpdateAppointment fails for unknown ID", func(t *testing.T) {
		_, err := store.UpdateAppointment(ctx, &models.Appointment{
			ID:     "missing",
			UserID: owner.ID,
			Date:   base,
			Status: models.StatusScheduled,
		})
		if err == nil {
			t.Error("Expected error for unknown appointment")
		}
	})

	t.Run("CountAppointments counts regardless of status", func(t *testing.T) {
		count, err := store.CountAppointments(ctx, owner.ID, base, base.Add(time.Hour))
		if err != nil {
			t.Fatalf("CountAppointments failed: %v", err)
		}
		// Window holds two scheduled, one completed, one cancelled.
		if count != 4 {
			t.Errorf("Expected 4 appointments, got %d", count)
		}
	})
}

func TestSQLiteStore_Documents(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	owner := &models.User{DisplayName: "Owner"}
	if err := store.CreateUser(ctx, owner); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	appt := &models.Appointment{
		UserID: owner.ID,
		Date:   time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
		Status: models.StatusCompleted,
	}
	if err := store.CreateAppointment(ctx, appt); err != nil {
		t.Fatalf("CreateAppointment failed: %v", err)
	}

	t.Run("CreateDocument fills defaults", func(t *testing.T) {
		doc := &models.Document{
			UserID:        owner.ID,
			Type:          models.DocumentTypeBill,
			Title:         "Session with Jane Doe",
			Amount:        80,
			AppointmentID: appt.ID,
		}
		if err := store.CreateDocument(ctx, doc); err != nil {
			t.Fatalf("CreateDocument failed: %v", err)
		}
		if doc.ID == "" {
			t.Error("Expected document ID to be generated")
		}
		if !doc.DueDate.Equal(doc.IssueDate.AddDate(0, 0, 30)) {
			t.Errorf("Expected due date 30 days after issue date, got issue=%v due=%v", doc.IssueDate, doc.DueDate)
		}
	})

	t.Run("Second bill for the same appointment is rejected", func(t *testing.T) {
		err := store.CreateDocument(ctx, &models.Document{
			UserID:        owner.ID,
			Type:          models.DocumentTypeBill,
			Amount:        80,
			AppointmentID: appt.ID,
		})
		if !errors.Is(err, storage.ErrDocumentExists) {
			t.Errorf("Expected ErrDocumentExists, got %v", err)
		}
	})

	t.Run("GetDocumentByAppointment finds the bill", func(t *testing.T) {
		doc, err := store.GetDocumentByAppointment(ctx, appt.ID)
		if err != nil {
			t.Fatalf("GetDocumentByAppointment failed: %v", err)
		}
		if doc == nil {
			t.Fatal("Expected a bill, got nil")
		}
		if doc.Title != "Session with Jane Doe" || doc.Amount != 80 {
			t.Errorf("Unexpected document: %+v", doc)
		}
	})

	t.Run("ListDocuments filters by creation window", func(t *testing.T) {
		old := &models.Document{
			UserID:    owner.ID,
			Type:      models.DocumentTypeBill,
			Amount:    50,
			CreatedAt: time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
			IssueDate: time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
		}
		if err := store.CreateDocument(ctx, old); err != nil {
			t.Fatalf("CreateDocument failed: %v", err)
		}

		from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		to := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
		docs, err := store.ListDocuments(ctx, owner.ID, from, to)
		if err != nil {
			t.Fatalf("ListDocuments failed: %v", err)
		}
		if len(docs) != 1 {
			t.Fatalf("Expected 1 document in January, got %d", len(docs))
		}
		if docs[0].Amount != 50 {
			t.Errorf("Expected the January document, got %+v", docs[0])
		}
	})
}

func TestNewCreatesParentDirectory(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "dir", "test.db")
	store, err := New(dbPath)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); err != nil {
		t.Errorf("Expected database file to exist: %v", err)
	}
}
