package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"threadline/internal/metrics"
	"threadline/internal/model"
)

const userColumns = `id, external_id, username, name, bio, image, onboarded, created_at, updated_at`

// userRepository implements UserRepository using sqlx
type userRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *sqlx.DB) UserRepository {
	return &userRepository{db: db}
}

// GetByExternalID retrieves a user by the identity provider's ID
func (r *userRepository) GetByExternalID(ctx context.Context, externalID string) (*model.User, error) {
	defer metrics.TrackQuery("get_by_external_id", "users")()

	query := `SELECT ` + userColumns + ` FROM users WHERE external_id = $1`

	var u model.User
	err := r.db.GetContext(ctx, &u, query, externalID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, model.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by external id: %w", err)
	}

	return &u, nil
}

// GetByID retrieves a user by their internal ID
func (r *userRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	defer metrics.TrackQuery("get_by_id", "users")()

	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	var u model.User
	err := r.db.GetContext(ctx, &u, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, model.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}

	return &u, nil
}

// List runs the filtered page query and a matching COUNT(*).
func (r *userRepository) List(ctx context.Context, filter UserFilter) ([]model.User, int, error) {
	defer metrics.TrackQuery("list", "users")()

	direction := "DESC"
	if filter.Sort == model.SortAsc {
		direction = "ASC"
	}

	where := []string{"external_id <> $1"}
	args := []interface{}{filter.ExcludeExternalID}

	if strings.TrimSpace(filter.Search) != "" {
		args = append(args, "%"+escapeLike(filter.Search)+"%")
		n := len(args)
		where = append(where, fmt.Sprintf("(username ILIKE $%d OR name ILIKE $%d)", n, n))
	}

	whereClause := strings.Join(where, " AND ")

	var total int
	countQuery := `SELECT COUNT(*) FROM users WHERE ` + whereClause
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	pageQuery := fmt.Sprintf(`
		SELECT %s
		FROM users
		WHERE %s
		ORDER BY created_at %s, id %s
		LIMIT $%d OFFSET $%d
	`, userColumns, whereClause, direction, direction, len(args)+1, len(args)+2)
	pageArgs := append(args, filter.Limit, filter.Offset)

	users := []model.User{}
	if err := r.db.SelectContext(ctx, &users, pageQuery, pageArgs...); err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}

	return users, total, nil
}

// Upsert inserts the profile or overwrites it when the external ID already exists.
// A unique violation can only come from the username, since external_id conflicts
// take the DO UPDATE branch.
func (r *userRepository) Upsert(ctx context.Context, u *model.User) error {
	defer metrics.TrackQuery("upsert", "users")()

	query := `
		INSERT INTO users (external_id, username, name, bio, image, onboarded, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, TRUE, NOW(), NOW())
		ON CONFLICT (external_id) DO UPDATE SET
			username = EXCLUDED.username,
			name = EXCLUDED.name,
			bio = EXCLUDED.bio,
			image = EXCLUDED.image,
			onboarded = TRUE,
			updated_at = NOW()
		RETURNING id, onboarded, created_at, updated_at
	`

	row := r.db.QueryRowxContext(ctx, query,
		u.ExternalID,
		u.Username,
		u.Name,
		u.Bio,
		u.Image,
	)

	err := row.Scan(&u.ID, &u.Onboarded, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return model.ErrUsernameExists
		}
		return fmt.Errorf("failed to upsert user: %w", err)
	}

	return nil
}

// escapeLike makes s match literally inside an ILIKE pattern.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
