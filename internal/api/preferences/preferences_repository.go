package preferences

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/FACorreiaa/go-group-trip-planner/internal/types"
)

// Ensure RepositoryImpl implements the Repository interface
var _ Repository = (*RepositoryImpl)(nil)

// Repository defines the interface for per-user preference storage.
type Repository interface {
	GetUserPreferences(ctx context.Context, userID uuid.UUID) ([]*types.UserPreference, error)
	GetPreferencesForUsers(ctx context.Context, userIDs []uuid.UUID) ([]*types.UserPreference, error)
	SetPreference(ctx context.Context, userID uuid.UUID, categorySlug string, score int) (*types.UserPreference, error)
	DeletePreference(ctx context.Context, userID uuid.UUID, categorySlug string) error
}

// RepositoryImpl struct holds the logger and database connection pool
type RepositoryImpl struct {
	logger *slog.Logger
	pgpool *pgxpool.Pool
}

func NewRepository(pgxpool *pgxpool.Pool, logger *slog.Logger) *RepositoryImpl {
	return &RepositoryImpl{
		logger: logger,
		pgpool: pgxpool,
	}
}

// GetUserPreferences retrieves all category preferences for one user.
func (r *RepositoryImpl) GetUserPreferences(ctx context.Context, userID uuid.UUID) ([]*types.UserPreference, error) {
	query := `
        SELECT user_id, category_slug, score, created_at, updated_at
        FROM user_preferences
        WHERE user_id = $1
        ORDER BY category_slug
    `
	rows, err := r.pgpool.Query(ctx, query, userID)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to get user preferences", slog.Any("error", err))
		return nil, fmt.Errorf("failed to get user preferences: %w", err)
	}
	defer rows.Close()

	var prefs []*types.UserPreference
	for rows.Next() {
		var p types.UserPreference
		if err := rows.Scan(&p.UserID, &p.CategorySlug, &p.Score, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan user preference: %w", err)
		}
		prefs = append(prefs, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating user preferences: %w", err)
	}
	return prefs, nil
}

// GetPreferencesForUsers retrieves preferences for a set of users in one query.
func (r *RepositoryImpl) GetPreferencesForUsers(ctx context.Context, userIDs []uuid.UUID) ([]*types.UserPreference, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	query := `
        SELECT user_id, category_slug, score, created_at, updated_at
        FROM user_preferences
        WHERE user_id = ANY($1)
        ORDER BY user_id, category_slug
    `
	rows, err := r.pgpool.Query(ctx, query, userIDs)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to get preferences for users", slog.Any("error", err))
		return nil, fmt.Errorf("failed to get preferences for users: %w", err)
	}
	defer rows.Close()

	var prefs []*types.UserPreference
	for rows.Next() {
		var p types.UserPreference
		if err := rows.Scan(&p.UserID, &p.CategorySlug, &p.Score, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan user preference: %w", err)
		}
		prefs = append(prefs, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating user preferences: %w", err)
	}
	return prefs, nil
}

// SetPreference upserts a user's score for a category. The caller is expected
// to have clamped the score already.
func (r *RepositoryImpl) SetPreference(ctx context.Context, userID uuid.UUID, categorySlug string, score int) (*types.UserPreference, error) {
	query := `
        INSERT INTO user_preferences (user_id, category_slug, score, created_at, updated_at)
        VALUES ($1, $2, $3, NOW(), NOW())
        ON CONFLICT (user_id, category_slug)
        DO UPDATE SET score = EXCLUDED.score, updated_at = NOW()
        RETURNING user_id, category_slug, score, created_at, updated_at
    `
	var p types.UserPreference
	err := r.pgpool.QueryRow(ctx, query, userID, categorySlug, score).Scan(
		&p.UserID, &p.CategorySlug, &p.Score, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to set preference", slog.Any("error", err))
		return nil, fmt.Errorf("failed to set preference: %w", err)
	}
	return &p, nil
}

// DeletePreference removes a user's rating for a category.
func (r *RepositoryImpl) DeletePreference(ctx context.Context, userID uuid.UUID, categorySlug string) error {
	query := `DELETE FROM user_preferences WHERE user_id = $1 AND category_slug = $2`
	_, err := r.pgpool.Exec(ctx, query, userID, categorySlug)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to delete preference", slog.Any("error", err))
		return fmt.Errorf("failed to delete preference: %w", err)
	}
	return nil
}
