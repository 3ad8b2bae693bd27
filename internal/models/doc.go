// Package models defines the core domain models for the PlanAndBill backend.
//
// # Models
//
//   - Appointment: a therapy session owned by a user, moved through a small
//     status lifecycle by the application
//   - User: the therapist account; owner of appointments and documents
//   - Document: a billing/report unit, today always of type "bill"
//
// # Design Principles
//
//  1. **Opaque store mapping**: models carry no storage tags; the storage
//     layer owns the translation to its backend
//  2. **Avoid circular references**: relationships use ID strings, never
//     pointers (Document.AppointmentID is a non-owning back-reference)
//  3. **Read-only users**: the backend tasks never mutate a User; accounts
//     are managed by the application layer
package models
