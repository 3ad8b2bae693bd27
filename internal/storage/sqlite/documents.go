package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/arttherapy/planandbill-backend/internal/models"
	"github.com/arttherapy/planandbill-backend/internal/storage"
)

// CreateDocument inserts a new document into the database.
// A bill whose appointment already has one fails with storage.ErrDocumentExists;
// the unique index enforces this even under concurrent inserts.
func (s *SQLiteStore) CreateDocument(ctx context.Context, doc *models.Document) error {
	if doc.ID == "" {
		doc.ID = uuid.New().String()
	}
	now := time.Now()
	if doc.IssueDate.IsZero() {
		doc.IssueDate = now
	}
	if doc.DueDate.IsZero() {
		doc.DueDate = doc.IssueDate.AddDate(0, 0, 30)
	}
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = now
	}

	query := `
		INSERT INTO documents (id, user_id, type, title, client_name, description, amount, issue_date, due_date, created_at, appointment_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		doc.ID,
		doc.UserID,
		doc.Type,
		doc.Title,
		doc.ClientName,
		doc.Description,
		doc.Amount,
		doc.IssueDate.Unix(),
		doc.DueDate.Unix(),
		doc.CreatedAt.Unix(),
		doc.AppointmentID,
	)

	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return storage.ErrDocumentExists
		}
		return fmt.Errorf("failed to create document: %w", err)
	}

	return nil
}

// GetDocumentByAppointment retrieves the bill referencing the given appointment.
func (s *SQLiteStore) GetDocumentByAppointment(ctx context.Context, appointmentID string) (*models.Document, error) {
	query := `
		SELECT id, user_id, type, title, client_name, description, amount, issue_date, due_date, created_at, appointment_id
		FROM documents
		WHERE appointment_id = ? AND type = ?
	`

	doc, err := scanDocument(s.db.QueryRowContext(ctx, query, appointmentID, models.DocumentTypeBill))
	if err == sql.ErrNoRows {
		return nil, nil // No bill for this appointment
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get document by appointment: %w", err)
	}

	return doc, nil
}

// ListDocuments returns a user's documents with createdAt in [from, to).
func (s *SQLiteStore) ListDocuments(ctx context.Context, userID string, from, to time.Time) ([]models.Document, error) {
	query := `
		SELECT id, user_id, type, title, client_name, description, amount, issue_date, due_date, created_at, appointment_id
		FROM documents
		WHERE user_id = ? AND created_at >= ? AND created_at < ?
		ORDER BY created_at
	`

	rows, err := s.db.QueryContext(ctx, query, userID, from.Unix(), to.Unix())
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	defer rows.Close()

	var docs []models.Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		docs = append(docs, *doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate documents: %w", err)
	}

	return docs, nil
}

func scanDocument(row scanner) (*models.Document, error) {
	doc := &models.Document{}
	var issueDate, dueDate, createdAt int64
	err := row.Scan(
		&doc.ID,
		&doc.UserID,
		&doc.Type,
		&doc.Title,
		&doc.ClientName,
		&doc.Description,
		&doc.Amount,
		&issueDate,
		&dueDate,
		&createdAt,
		&doc.AppointmentID,
	)
	if err != nil {
		return nil, err
	}
	doc.IssueDate = time.Unix(issueDate, 0)
	doc.DueDate = time.Unix(dueDate, 0)
	doc.CreatedAt = time.Unix(createdAt, 0)
	return doc, nil
}
