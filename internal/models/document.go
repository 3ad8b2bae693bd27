package models

import "time"

// DocumentTypeBill is the only document type this system creates.
const DocumentTypeBill = "bill"

// Document represents a billing/report unit.
//
// Documents of type "bill" are created exclusively by the completion-triggered
// billing creator and are never mutated or deleted afterwards.
type Document struct {
	// ID is the unique identifier for the document (UUID format).
	ID string

	// UserID is the owning therapist's user ID.
	UserID string

	// Type is the document kind, currently always DocumentTypeBill.
	Type string

	// Title is the human-readable name, e.g. "Session with Jane Doe".
	Title string

	// ClientName is copied from the appointment the bill is for.
	ClientName string

	// Description summarizes the billed session.
	Description string

	// Amount is the billed amount. Never negative.
	Amount float64

	// IssueDate is when the bill was issued.
	IssueDate time.Time

	// DueDate is always IssueDate plus 30 days.
	DueDate time.Time

	// CreatedAt is when the document record was created.
	CreatedAt time.Time

	// AppointmentID is a non-owning back-reference to the completed
	// appointment. At most one bill exists per appointment.
	AppointmentID string
}
