package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/Zachkp/portfolio/internal/models"
)

const messageColumns = `id, token, name, email, content, created_at, delivery_status, delivery_attempts, last_error, notified_at`

// CreateMessage inserts m with status pending. ID, Token and CreatedAt are
// filled in when empty. A token that already exists yields ErrDuplicateToken.
func (s *Store) CreateMessage(ctx context.Context, m *models.Message) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if m.Token == "" {
		m.Token = uuid.NewString()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = s.now().UTC()
	}
	m.DeliveryStatus = models.DeliveryPending
	m.DeliveryAttempts = 0
	m.LastError = ""
	m.NotifiedAt = nil

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO messages (id, token, name, email, content, created_at, delivery_status)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, m.ID, m.Token, m.Name, m.Email, m.Content, formatTime(m.CreatedAt), string(m.DeliveryStatus))
	if isUniqueViolation(err) {
		return ErrDuplicateToken
	}
	if err != nil {
		return fmt.Errorf("store.CreateMessage: %w", err)
	}
	return nil
}

// GetMessage returns the message with the given id.
func (s *Store) GetMessage(ctx context.Context, id string) (*models.Message, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+messageColumns+` FROM messages WHERE id = ?`, id)
	m, err := scanMessage(row)
	if err != nil {
		return nil, fmt.Errorf("store.GetMessage: %w", err)
	}
	return m, nil
}

// MessageByToken returns the message created with the given submission token.
func (s *Store) MessageByToken(ctx context.Context, token string) (*models.Message, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+messageColumns+` FROM messages WHERE token = ?`, token)
	m, err := scanMessage(row)
	if err != nil {
		return nil, fmt.Errorf("store.MessageByToken: %w", err)
	}
	return m, nil
}

// ListMessages returns the newest messages first.
func (s *Store) ListMessages(ctx context.Context, limit int) ([]models.Message, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+messageColumns+`
		FROM messages
		ORDER BY created_at DESC, id ASC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("store.ListMessages: %w", err)
	}
	defer rows.Close()
	return collectMessages(rows)
}

// PendingDeliveries returns messages whose notification has not been sent and
// that have been attempted fewer than maxAttempts times, oldest first.
func (s *Store) PendingDeliveries(ctx context.Context, maxAttempts, limit int) ([]models.Message, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+messageColumns+`
		FROM messages
		WHERE delivery_status IN (?, ?) AND delivery_attempts < ?
		ORDER BY created_at ASC, id ASC
		LIMIT ?
	`, string(models.DeliveryPending), string(models.DeliveryFailed), maxAttempts, limit)
	if err != nil {
		return nil, fmt.Errorf("store.PendingDeliveries: %w", err)
	}
	defer rows.Close()
	return collectMessages(rows)
}

// RecordDelivery stores the outcome of one notification attempt. A nil
// deliveryErr marks the message sent.
func (s *Store) RecordDelivery(ctx context.Context, id string, deliveryErr error) error {
	var (
		res sql.Result
		err error
	)
	if deliveryErr == nil {
		res, err = s.db.ExecContext(ctx, `
			UPDATE messages
			SET delivery_status = ?, delivery_attempts = delivery_attempts + 1, last_error = '', notified_at = ?
			WHERE id = ?
		`, string(models.DeliverySent), formatTime(s.now()), id)
	} else {
		res, err = s.db.ExecContext(ctx, `
			UPDATE messages
			SET delivery_status = ?, delivery_attempts = delivery_attempts + 1, last_error = ?
			WHERE id = ?
		`, string(models.DeliveryFailed), deliveryErr.Error(), id)
	}
	if err != nil {
		return fmt.Errorf("store.RecordDelivery: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("store.RecordDelivery: %w", ErrNotFound)
	}
	return nil
}

// CountMessages returns the number of messages per delivery status.
func (s *Store) CountMessages(ctx context.Context) (map[models.DeliveryStatus]int64, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT delivery_status, COUNT(*) FROM messages GROUP BY delivery_status`)
	if err != nil {
		return nil, fmt.Errorf("store.CountMessages: %w", err)
	}
	defer rows.Close()

	counts := map[models.DeliveryStatus]int64{
		models.DeliveryPending: 0,
		models.DeliverySent:    0,
		models.DeliveryFailed:  0,
	}
	for rows.Next() {
		var (
			status string
			n      int64
		)
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("store.CountMessages: %w", err)
		}
		counts[models.DeliveryStatus(status)] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store.CountMessages: %w", err)
	}
	return counts, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMessage(row rowScanner) (*models.Message, error) {
	var (
		m          models.Message
		createdAt  string
		status     string
		notifiedAt sql.NullString
	)
	err := row.Scan(&m.ID, &m.Token, &m.Name, &m.Email, &m.Content, &createdAt, &status,
		&m.DeliveryAttempts, &m.LastError, &notifiedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	m.DeliveryStatus = models.DeliveryStatus(status)
	if m.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if m.NotifiedAt, err = parseNullTime(notifiedAt); err != nil {
		return nil, err
	}
	return &m, nil
}

func collectMessages(rows *sql.Rows) ([]models.Message, error) {
	messages := []models.Message{}
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		messages = append(messages, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return messages, nil
}
