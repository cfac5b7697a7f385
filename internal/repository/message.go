package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/witple/witple/internal/model"
)

// ErrMessageNotFound is returned when no message matches the given id.
var ErrMessageNotFound = errors.New("message not found")

const messageColumns = `id, content, created_at, updated_at`

// CreateMessage inserts a new message and fills in the DB-assigned id and
// creation timestamp.
func (r *Repository) CreateMessage(ctx context.Context, msg *model.Message) error {
	query := `
		INSERT INTO messages (content)
		VALUES ($1)
		RETURNING id, created_at
	`

	err := r.pool.QueryRow(ctx, query, msg.Content).Scan(&msg.ID, &msg.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create message: %w", err)
	}

	return nil
}

// GetMessageByID retrieves a message by its ID.
func (r *Repository) GetMessageByID(ctx context.Context, id int64) (*model.Message, error) {
	query := `SELECT ` + messageColumns + ` FROM messages WHERE id = $1`

	msg, err := scanMessage(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrMessageNotFound
		}
		return nil, fmt.Errorf("failed to get message by ID: %w", err)
	}

	return msg, nil
}

// ListMessages retrieves messages in ascending id order (insertion order),
// windowed by offset and limit.
func (r *Repository) ListMessages(ctx context.Context, offset, limit int) ([]*model.Message, error) {
	query := `SELECT ` + messageColumns + ` FROM messages ORDER BY id ASC OFFSET $1 LIMIT $2`

	rows, err := r.pool.Query(ctx, query, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	defer rows.Close()

	messages := make([]*model.Message, 0)
	for rows.Next() {
		msg, err := scanMessage(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		messages = append(messages, msg)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating messages: %w", err)
	}

	return messages, nil
}

// UpdateMessage applies a partial update: only non-nil patch fields are
// written. Returns the updated record, or ErrMessageNotFound if the id
// does not exist.
func (r *Repository) UpdateMessage(ctx context.Context, id int64, patch model.MessagePatch) (*model.Message, error) {
	if patch.IsZero() {
		return r.GetMessageByID(ctx, id)
	}

	query := `
		UPDATE messages
		SET content = $2, updated_at = $3
		WHERE id = $1
		RETURNING ` + messageColumns

	msg, err := scanMessage(r.pool.QueryRow(ctx, query, id, *patch.Content, time.Now().UTC()))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrMessageNotFound
		}
		return nil, fmt.Errorf("failed to update message: %w", err)
	}

	return msg, nil
}

// DeleteMessage removes a message. Returns true if a row was removed,
// false if no message had the given id.
func (r *Repository) DeleteMessage(ctx context.Context, id int64) (bool, error) {
	result, err := r.pool.Exec(ctx, `DELETE FROM messages WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete message: %w", err)
	}

	return result.RowsAffected() > 0, nil
}

func scanMessage(row rowScanner) (*model.Message, error) {
	var msg model.Message
	err := row.Scan(
		&msg.ID,
		&msg.Content,
		&msg.CreatedAt,
		&msg.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &msg, nil
}
