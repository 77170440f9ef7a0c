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

// MembershipRepository handles database operations for group membership
type MembershipRepository struct {
	db *pgxpool.Pool
}

// NewMembershipRepository creates a new MembershipRepository
func NewMembershipRepository(db *pgxpool.Pool) *MembershipRepository {
	return &MembershipRepository{db: db}
}

// AddMember enrolls a user in a group
func (r *MembershipRepository) AddMember(ctx context.Context, groupID, userID string) error {
	query := squirrel.Insert("group_members").
		Columns("group_id", "user_id").
		Values(groupID, userID).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	_, err = r.db.Exec(ctx, sql, args...)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.ErrAlreadyMember
		}
		return fmt.Errorf("error executing query: %w", err)
	}

	return nil
}

// RemoveMember removes a user from a group
func (r *MembershipRepository) RemoveMember(ctx context.Context, groupID, userID string) error {
	query := squirrel.Delete("group_members").
		Where("group_id = ? AND user_id = ?", groupID, userID).
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
		return apperrors.ErrNotMember
	}

	return nil
}

// IsMember checks if a user belongs to a group
func (r *MembershipRepository) IsMember(ctx context.Context, groupID, userID string) (bool, error) {
	query := squirrel.Select("1").
		From("group_members").
		Where("group_id = ? AND user_id = ?", groupID, userID).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return false, fmt.Errorf("error building SQL: %w", err)
	}

	var exists int
	err = r.db.QueryRow(ctx, sql, args...).Scan(&exists)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("error executing query: %w", err)
	}

	return true, nil
}

// GetGroupIDsByUser retrieves the IDs of all groups a user belongs to
func (r *MembershipRepository) GetGroupIDsByUser(ctx context.Context, userID string) ([]string, error) {
	query := squirrel.Select("group_id").
		From("group_members").
		Where("user_id = ?", userID).
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

	groupIDs := []string{}
	for rows.Next() {
		var groupID string
		if err := rows.Scan(&groupID); err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		groupIDs = append(groupIDs, groupID)
	}

	return groupIDs, nil
}

// GetMembers retrieves all members of a group with their profiles
func (r *MembershipRepository) GetMembers(ctx context.Context, groupID string) ([]*models.GroupMember, error) {
	query := squirrel.Select(
		"gm.id", "gm.group_id", "gm.user_id", "gm.joined_at",
		"u.email", "u.first_name", "u.last_name", "u.school", "u.avatar_url",
	).
		From("group_members gm").
		Join("users u ON u.id = gm.user_id").
		Where("gm.group_id = ?", groupID).
		OrderBy("gm.joined_at").
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

	members := []*models.GroupMember{}
	for rows.Next() {
		var member models.GroupMember
		var user models.User
		err := rows.Scan(
			&member.ID,
			&member.GroupID,
			&member.UserID,
			&member.JoinedAt,
			&user.Email,
			&user.FirstName,
			&user.LastName,
			&user.School,
			&user.AvatarURL,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		user.ID = member.UserID
		member.User = &user
		members = append(members, &member)
	}

	return members, nil
}

// CountByGroupIDs retrieves member counts for multiple groups
func (r *MembershipRepository) CountByGroupIDs(ctx context.Context, groupIDs []string) (map[string]int, error) {
	if len(groupIDs) == 0 {
		return make(map[string]int), nil
	}

	query := squirrel.Select("group_id", "COUNT(*)").
		From("group_members").
		Where(squirrel.Eq{"group_id": groupIDs}).
		GroupBy("group_id").
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

	counts := make(map[string]int)
	for rows.Next() {
		var groupID string
		var count int
		if err := rows.Scan(&groupID, &count); err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		counts[groupID] = count
	}

	return counts, nil
}
