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
	"github.com/Nnadozi/kram-backend/internal/pkg/dberrors"
)

// MeetupRepository handles database operations for meetups and attendance
type MeetupRepository struct {
	db *pgxpool.Pool
}

// NewMeetupRepository creates a new MeetupRepository
func NewMeetupRepository(db *pgxpool.Pool) *MeetupRepository {
	return &MeetupRepository{db: db}
}

const meetupColumns = `id, group_id, name, description, meetup_type, location,
	starts_at, duration_mins, cancelled, created_by, created_at, updated_at`

func scanMeetup(row pgx.Row) (*models.Meetup, error) {
	var meetup models.Meetup
	err := row.Scan(
		&meetup.ID,
		&meetup.GroupID,
		&meetup.Name,
		&meetup.Description,
		&meetup.Type,
		&meetup.Location,
		&meetup.StartsAt,
		&meetup.DurationMins,
		&meetup.Cancelled,
		&meetup.CreatedBy,
		&meetup.CreatedAt,
		&meetup.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &meetup, nil
}

// Create inserts a new meetup and enrolls the creator as its first attendee
// in the same transaction.
func (r *MeetupRepository) Create(ctx context.Context, meetup *models.Meetup) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	insertMeetup := squirrel.Insert("meetups").
		Columns("id", "group_id", "name", "description", "meetup_type", "location",
			"starts_at", "duration_mins", "cancelled", "created_by", "created_at", "updated_at").
		Values(meetup.ID, meetup.GroupID, meetup.Name, meetup.Description, meetup.Type,
			meetup.Location, meetup.StartsAt, meetup.DurationMins, meetup.Cancelled,
			meetup.CreatedBy, meetup.CreatedAt, meetup.UpdatedAt).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := insertMeetup.ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	if _, err := tx.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("error executing query: %w", err)
	}

	insertAttendee := squirrel.Insert("meetup_attendees").
		Columns("meetup_id", "user_id").
		Values(meetup.ID, meetup.CreatedBy).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err = insertAttendee.ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	if _, err := tx.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("error executing query: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetByID retrieves a meetup by ID
func (r *MeetupRepository) GetByID(ctx context.Context, id string) (*models.Meetup, error) {
	query := squirrel.Select(meetupColumns).
		From("meetups").
		Where("id = ?", id).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	meetup, err := scanMeetup(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrMeetupNotFound
		}
		return nil, fmt.Errorf("error executing query: %w", err)
	}

	return meetup, nil
}

// GetByGroupID retrieves all meetups scheduled in a group
func (r *MeetupRepository) GetByGroupID(ctx context.Context, groupID string) ([]*models.Meetup, error) {
	query := squirrel.Select(meetupColumns).
		From("meetups").
		Where("group_id = ?", groupID).
		OrderBy("starts_at DESC NULLS LAST").
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

	meetups := []*models.Meetup{}
	for rows.Next() {
		meetup, err := scanMeetup(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		meetups = append(meetups, meetup)
	}

	return meetups, nil
}

// GetByUserMembership retrieves every meetup in every group the user belongs
// to, in one membership join.
func (r *MeetupRepository) GetByUserMembership(ctx context.Context, userID string) ([]*models.Meetup, error) {
	query := squirrel.Select(
		"m.id", "m.group_id", "m.name", "m.description", "m.meetup_type", "m.location",
		"m.starts_at", "m.duration_mins", "m.cancelled", "m.created_by", "m.created_at", "m.updated_at",
	).
		From("meetups m").
		Join("group_members gm ON gm.group_id = m.group_id").
		Where("gm.user_id = ?", userID).
		OrderBy("m.starts_at DESC NULLS LAST").
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

	meetups := []*models.Meetup{}
	for rows.Next() {
		meetup, err := scanMeetup(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		meetups = append(meetups, meetup)
	}

	return meetups, nil
}

// Update updates a meetup's editable fields
func (r *MeetupRepository) Update(ctx context.Context, meetup *models.Meetup) error {
	query := squirrel.Update("meetups").
		Set("name", meetup.Name).
		Set("description", meetup.Description).
		Set("meetup_type", meetup.Type).
		Set("location", meetup.Location).
		Set("starts_at", meetup.StartsAt).
		Set("duration_mins", meetup.DurationMins).
		Set("cancelled", meetup.Cancelled).
		Set("updated_at", meetup.UpdatedAt).
		Where("id = ?", meetup.ID).
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
		return apperrors.ErrMeetupNotFound
	}

	return nil
}

// Delete removes a meetup. Attendance rows go with it through ON DELETE CASCADE.
func (r *MeetupRepository) Delete(ctx context.Context, id string) error {
	query := squirrel.Delete("meetups").
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
		return apperrors.ErrMeetupNotFound
	}

	return nil
}

// AddAttendee marks a user as attending a meetup
func (r *MeetupRepository) AddAttendee(ctx context.Context, meetupID, userID string) error {
	query := squirrel.Insert("meetup_attendees").
		Columns("meetup_id", "user_id").
		Values(meetupID, userID).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	_, err = r.db.Exec(ctx, sql, args...)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.ErrAlreadyAttending
		}
		return fmt.Errorf("error executing query: %w", err)
	}

	return nil
}

// RemoveAttendee removes a user's attendance from a meetup
func (r *MeetupRepository) RemoveAttendee(ctx context.Context, meetupID, userID string) error {
	query := squirrel.Delete("meetup_attendees").
		Where("meetup_id = ? AND user_id = ?", meetupID, userID).
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
		return apperrors.ErrNotAttending
	}

	return nil
}

// GetAttendeeIDs retrieves the user IDs of everyone attending a meetup
func (r *MeetupRepository) GetAttendeeIDs(ctx context.Context, meetupID string) ([]string, error) {
	query := squirrel.Select("user_id").
		From("meetup_attendees").
		Where("meetup_id = ?", meetupID).
		OrderBy("joined_at").
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

	userIDs := []string{}
	for rows.Next() {
		var userID string
		if err := rows.Scan(&userID); err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		userIDs = append(userIDs, userID)
	}

	return userIDs, nil
}
