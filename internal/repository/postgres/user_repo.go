package postgres

import (
	"context"
	"errors"
	"fmt"

	"storefront-service/internal/domain/auth"
	xerrors "storefront-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

type UserRepository struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

// FindByEmail retrieves a user by email
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*auth.User, error) {
	query := `
		SELECT id, email, password, created_at, updated_at
		FROM users
		WHERE LOWER(email) = LOWER($1)
	`

	var user auth.User
	err := r.db.QueryRow(ctx, query, email).Scan(
		&user.ID, &user.Email, &user.Password, &user.CreatedAt, &user.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return &user, nil
}

// FindByID retrieves a user by ID
func (r *UserRepository) FindByID(ctx context.Context, id int64) (*auth.User, error) {
	query := `
		SELECT id, email, password, created_at, updated_at
		FROM users
		WHERE id = $1
	`

	var user auth.User
	err := r.db.QueryRow(ctx, query, id).Scan(
		&user.ID, &user.Email, &user.Password, &user.CreatedAt, &user.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return &user, nil
}

// Create inserts a new user with a hashed credential
func (r *UserRepository) Create(ctx context.Context, user *auth.User) error {
	query := `
		INSERT INTO users (email, password)
		VALUES ($1, $2)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query, user.Email, user.Password).
		Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return xerrors.ErrDuplicateEntry
	}
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// LoadRoleGrants returns the user's role assignments, each with that
// role's permission names. Roles with no permissions come back with an
// empty slice, not NULL.
func (r *UserRepository) LoadRoleGrants(ctx context.Context, userID int64) ([]auth.RoleGrant, error) {
	query := `
		SELECT r.name,
		       COALESCE(array_agg(p.name) FILTER (WHERE p.name IS NOT NULL), '{}')
		FROM user_roles ur
		JOIN roles r ON r.id = ur.role_id
		LEFT JOIN role_permissions rp ON rp.role_id = r.id
		LEFT JOIN permissions p ON p.id = rp.permission_id
		WHERE ur.user_id = $1
		GROUP BY r.name
		ORDER BY r.name
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load role grants: %w", err)
	}
	defer rows.Close()

	var grants []auth.RoleGrant
	for rows.Next() {
		var grant auth.RoleGrant
		var permissions []string
		if err := rows.Scan(&grant.Role, pq.Array(&permissions)); err != nil {
			return nil, fmt.Errorf("failed to scan role grant: %w", err)
		}
		grant.Permissions = permissions
		grants = append(grants, grant)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read role grants: %w", err)
	}

	return grants, nil
}
