// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/arttherapy/planandbill-backend/internal/models"
)

// ErrDocumentExists is returned by CreateDocument when a bill for the same
// appointment already exists. The billing creator treats it as a no-op so
// duplicate trigger delivery cannot create duplicate bills.
var ErrDocumentExists = errors.New("a bill for this appointment already exists")

// Store defines the interface over the shared document store.
// This abstraction allows swapping storage backends (SQLite, Postgres, a
// managed document database) without changing the task layer.
type Store interface {
	// CreateUser persists a new user. The ID field is populated if empty.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUser retrieves a user by ID. Returns (nil, nil) if not found.
	GetUser(ctx context.Context, id string) (*models.User, error)

	// ListUsers returns every user, in creation order.
	ListUsers(ctx context.Context) ([]models.User, error)

	// CreateAppointment persists a new appointment. The ID and CreatedAt
	// fields are populated if empty.
	CreateAppointment(ctx context.Context, appt *models.Appointment) error

	// GetAppointment retrieves an appointment by ID.
	// Returns (nil, nil) if not found.
	GetAppointment(ctx context.Context, id string) (*models.Appointment, error)

	// UpdateAppointment overwrites an existing appointment and returns the
	// record as it was before the update, so callers can detect transitions.
	UpdateAppointment(ctx context.Context, appt *models.Appointment) (before *models.Appointment, err error)

	// ListScheduledAppointments returns appointments with status "scheduled"
	// and date in the half-open interval [from, to).
	ListScheduledAppointments(ctx context.Context, from, to time.Time) ([]models.Appointment, error)

	// CountAppointments counts a user's appointments with date in [from, to),
	// regardless of status.
	CountAppointments(ctx context.Context, userID string, from, to time.Time) (int, error)

	// CreateDocument persists a new document. The ID, IssueDate, DueDate and
	// CreatedAt fields are populated if empty. Returns ErrDocumentExists when
	// a bill already references the same appointment.
	CreateDocument(ctx context.Context, doc *models.Document) error

	// GetDocumentByAppointment retrieves the bill referencing the given
	// appointment. Returns (nil, nil) if none exists.
	GetDocumentByAppointment(ctx context.Context, appointmentID string) (*models.Document, error)

	// ListDocuments returns a user's documents with createdAt in [from, to).
	ListDocuments(ctx context.Context, userID string, from, to time.Time) ([]models.Document, error)

	// Close releases any resources held by the store.
	Close() error
}
