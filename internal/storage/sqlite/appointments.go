package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/arttherapy/planandbill-backend/internal/models"
)

// CreateAppointment inserts a new appointment into the database.
func (s *SQLiteStore) CreateAppointment(ctx context.Context, appt *models.Appointment) error {
	if appt.ID == "" {
		appt.ID = uuid.New().String()
	}
	if appt.CreatedAt.IsZero() {
		appt.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO appointments (id, user_id, client_name, date, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		appt.ID,
		appt.UserID,
		appt.ClientName,
		appt.Date.Unix(),
		string(appt.Status),
		appt.CreatedAt.Unix(),
	)

	if err != nil {
		return fmt.Errorf("failed to create appointment: %w", err)
	}

	return nil
}

// GetAppointment retrieves an appointment by its ID.
func (s *SQLiteStore) GetAppointment(ctx context.Context, id string) (*models.Appointment, error) {
	query := `
		SELECT id, user_id, client_name, date, status, created_at
		FROM appointments
		WHERE id = ?
	`

	appt, err := scanAppointment(s.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil // Appointment not found
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}

	return appt, nil
}

// UpdateAppointment overwrites an existing appointment and returns the prior
// record, so the caller can compare before/after snapshots.
func (s *SQLiteStore) UpdateAppointment(ctx context.Context, appt *models.Appointment) (*models.Appointment, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	before, err := scanAppointment(tx.QueryRowContext(ctx,
		"SELECT id, user_id, client_name, date, status, created_at FROM appointments WHERE id = ?",
		appt.ID,
	))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("appointment not found: %s", appt.ID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		"UPDATE appointments SET user_id = ?, client_name = ?, date = ?, status = ? WHERE id = ?",
		appt.UserID,
		appt.ClientName,
		appt.Date.Unix(),
		string(appt.Status),
		appt.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update appointment: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	appt.CreatedAt = before.CreatedAt
	return before, nil
}

// ListScheduledAppointments returns appointments with status "scheduled" and
// date in the half-open interval [from, to).
func (s *SQLiteStore) ListScheduledAppointments(ctx context.Context, from, to time.Time) ([]models.Appointment, error) {
	query := `
		SELECT id, user_id, client_name, date, status, created_at
		FROM appointments
		WHERE date >= ? AND date < ? AND status = ?
		ORDER BY date
	`

	rows, err := s.db.QueryContext(ctx, query, from.Unix(), to.Unix(), string(models.StatusScheduled))
	if err != nil {
		return nil, fmt.Errorf("failed to list scheduled appointments: %w", err)
	}
	defer rows.Close()

	var appts []models.Appointment
	for rows.Next() {
		appt, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan appointment: %w", err)
		}
		appts = append(appts, *appt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate appointments: %w", err)
	}

	return appts, nil
}

// CountAppointments counts a user's appointments with date in [from, to).
func (s *SQLiteStore) CountAppointments(ctx context.Context, userID string, from, to time.Time) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM appointments
		WHERE user_id = ? AND date >= ? AND date < ?
	`

	var count int
	err := s.db.QueryRowContext(ctx, query, userID, from.Unix(), to.Unix()).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count appointments: %w", err)
	}

	return count, nil
}

func scanAppointment(row scanner) (*models.Appointment, error) {
	appt := &models.Appointment{}
	var date, createdAt int64
	var status string
	err := row.Scan(
		&appt.ID,
		&appt.UserID,
		&appt.ClientName,
		&date,
		&status,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}
	appt.Date = time.Unix(date, 0)
	appt.Status = models.AppointmentStatus(status)
	appt.CreatedAt = time.Unix(createdAt, 0)
	return appt, nil
}
