package models

import "time"

// AppointmentStatus is the lifecycle state of an appointment.
type AppointmentStatus string

const (
	// StatusScheduled marks an upcoming appointment eligible for reminders.
	StatusScheduled AppointmentStatus = "scheduled"

	// StatusCompleted marks a finished appointment. The transition into this
	// status is what drives automatic bill creation.
	StatusCompleted AppointmentStatus = "completed"

	// StatusCancelled marks an appointment that will not take place.
	StatusCancelled AppointmentStatus = "cancelled"
)

// Appointment represents a single therapy session.
// It is created and mutated by the application; the backend tasks only read
// it, except for the update path that records a status change.
type Appointment struct {
	// ID is the unique identifier for the appointment (UUID format).
	ID string

	// UserID is the owning therapist's user ID.
	UserID string

	// ClientName is the display name of the client attending the session.
	ClientName string

	// Date is when the session takes place.
	Date time.Time

	// Status is the current lifecycle state.
	Status AppointmentStatus

	// CreatedAt is when the appointment record was created.
	CreatedAt time.Time
}
