package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Nnadozi/kram-backend/internal/app/models"
	"github.com/Nnadozi/kram-backend/internal/pkg/apperrors"
)

// MessageRepository handles database operations for chat messages
type MessageRepository struct {
	db *pgxpool.Pool
}

// NewMessageRepository creates a new MessageRepository
func NewMessageRepository(db *pgxpool.Pool) *MessageRepository {
	return &MessageRepository{db: db}
}

const messageColumns = "id, group_id, sender_id, sender_name, text, created_at"

func scanMessage(row pgx.Row) (*models.Message, error) {
	var message models.Message
	err := row.Scan(
		&message.ID,
		&message.GroupID,
		&message.SenderID,
		&message.SenderName,
		&message.Text,
		&message.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &message, nil
}

// Create inserts a new message
func (r *MessageRepository) Create(ctx context.Context, message *models.Message) error {
	query := squirrel.Insert("messages").
		Columns("id", "group_id", "sender_id", "sender_name", "text", "created_at").
		Values(message.ID, message.GroupID, message.SenderID, message.SenderName,
			message.Text, message.CreatedAt).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	_, err = r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error executing query: %w", err)
	}

	return nil
}

// GetByID retrieves a message by ID
func (r *MessageRepository) GetByID(ctx context.Context, id string) (*models.Message, error) {
	query := squirrel.Select(messageColumns).
		From("messages").
		Where("id = ?", id).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	message, err := scanMessage(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrMessageNotFound
		}
		return nil, fmt.Errorf("error executing query: %w", err)
	}

	return message, nil
}

// GetRecentByGroupID retrieves the latest messages in a group, newest first
func (r *MessageRepository) GetRecentByGroupID(ctx context.Context, groupID string, limit int) ([]*models.Message, error) {
	query := squirrel.Select(messageColumns).
		From("messages").
		Where("group_id = ?", groupID).
		OrderBy("created_at DESC").
		Limit(uint64(limit)).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	messages := []*models.Message{}
	for rows.Next() {
		message, err := scanMessage(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		messages = append(messages, message)
	}

	return messages, nil
}

// GetAllByGroupID retrieves every message in a group in chronological order
func (r *MessageRepository) GetAllByGroupID(ctx context.Context, groupID string) ([]*models.Message, error) {
	query := squirrel.Select(messageColumns).
		From("messages").
		Where("group_id = ?", groupID).
		OrderBy("created_at ASC").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	messages := []*models.Message{}
	for rows.Next() {
		message, err := scanMessage(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		messages = append(messages, message)
	}

	return messages, nil
}

// Delete removes a message
func (r *MessageRepository) Delete(ctx context.Context, id string) error {
	query := squirrel.Delete("messages").
		Where("id = ?", id).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	result, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error executing query: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrMessageNotFound
	}

	return nil
}
