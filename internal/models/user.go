package models

import "time"

// User represents a therapist account.
//
// Users are owned by the application layer; the reminder, report, and billing
// tasks treat them as read-only lookups.
type User struct {
	// ID is the unique identifier for the user (UUID format).
	ID string

	// DisplayName is the name rendered in reports.
	// Empty is allowed; reports fall back to a generic salutation.
	DisplayName string

	// Email is the address monthly reports are sent to.
	// Users with an empty email are skipped by the report dispatcher.
	Email string

	// FCMToken is the push delivery address for reminders.
	// Optional; appointments whose owner has no token are silently skipped.
	FCMToken string

	// AutoBilling enables automatic bill creation when an appointment
	// completes.
	AutoBilling bool

	// DefaultRate is the amount billed per session when auto-billing fires.
	// Zero when the user never configured a rate.
	DefaultRate float64

	// CreatedAt is when the user account was created.
	CreatedAt time.Time
}
