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

// GroupRepository handles database operations for study groups
type GroupRepository struct {
	db *pgxpool.Pool
}

// NewGroupRepository creates a new GroupRepository
func NewGroupRepository(db *pgxpool.Pool) *GroupRepository {
	return &GroupRepository{db: db}
}

const groupColumns = "id, name, description, subjects, created_by, created_at, updated_at"

func scanGroup(row pgx.Row) (*models.Group, error) {
	var group models.Group
	err := row.Scan(
		&group.ID,
		&group.Name,
		&group.Description,
		&group.Subjects,
		&group.CreatedBy,
		&group.CreatedAt,
		&group.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &group, nil
}

// Create inserts a new group and enrolls the creator as its first member
// in the same transaction.
func (r *GroupRepository) Create(ctx context.Context, group *models.Group) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	insertGroup := squirrel.Insert("groups").
		Columns("id", "name", "description", "subjects", "created_by", "created_at", "updated_at").
		Values(group.ID, group.Name, group.Description, group.Subjects,
			group.CreatedBy, group.CreatedAt, group.UpdatedAt).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := insertGroup.ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	if _, err := tx.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("error executing query: %w", err)
	}

	insertMember := squirrel.Insert("group_members").
		Columns("group_id", "user_id").
		Values(group.ID, group.CreatedBy).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err = insertMember.ToSql()
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

// GetByID retrieves a group by ID
func (r *GroupRepository) GetByID(ctx context.Context, id string) (*models.Group, error) {
	query := squirrel.Select(groupColumns).
		From("groups").
		Where("id = ?", id).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	group, err := scanGroup(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrGroupNotFound
		}
		return nil, fmt.Errorf("error executing query: %w", err)
	}

	return group, nil
}

// GetByIDs retrieves multiple groups by their IDs
func (r *GroupRepository) GetByIDs(ctx context.Context, ids []string) ([]*models.Group, error) {
	if len(ids) == 0 {
		return []*models.Group{}, nil
	}

	query := squirrel.Select(groupColumns).
		From("groups").
		Where(squirrel.Eq{"id": ids}).
		OrderBy("created_at DESC").
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

	groups := []*models.Group{}
	for rows.Next() {
		group, err := scanGroup(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		groups = append(groups, group)
	}

	return groups, nil
}

// Update updates a group's editable fields
func (r *GroupRepository) Update(ctx context.Context, group *models.Group) error {
	query := squirrel.Update("groups").
		Set("name", group.Name).
		Set("description", group.Description).
		Set("subjects", group.Subjects).
		Set("updated_at", group.UpdatedAt).
		Where("id = ?", group.ID).
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
		return apperrors.ErrGroupNotFound
	}

	return nil
}

// TransferOwnership reassigns the group creator
func (r *GroupRepository) TransferOwnership(ctx context.Context, groupID, newOwnerID string) error {
	query := squirrel.Update("groups").
		Set("created_by", newOwnerID).
		Where("id = ?", groupID).
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
		return apperrors.ErrGroupNotFound
	}

	return nil
}

// Delete removes a group. Memberships, meetups, attendance and messages go
// with it through ON DELETE CASCADE.
func (r *GroupRepository) Delete(ctx context.Context, id string) error {
	query := squirrel.Delete("groups").
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
		return apperrors.ErrGroupNotFound
	}

	return nil
}
