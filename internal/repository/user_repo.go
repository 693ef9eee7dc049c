package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"taskboard/internal/models"
)

type UserSQLite struct {
	db *sql.DB
}

func NewUserSQLite(db *sql.DB) *UserSQLite {
	return &UserSQLite{db: db}
}

// Ensure implementation of Users interface at compile time.
var _ Users = (*UserSQLite)(nil)

const (
	insertUserSQL = `
		INSERT INTO users (username, email, password_hash, full_name, is_active, is_admin, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	userColumns = `id, username, email, password_hash, full_name, is_active, is_admin, created_at, updated_at`

	selectUserByIDSQL       = `SELECT ` + userColumns + ` FROM users WHERE id = ?`
	selectUserByUsernameSQL = `SELECT ` + userColumns + ` FROM users WHERE username = ?`
	selectUserByEmailSQL    = `SELECT ` + userColumns + ` FROM users WHERE email = ?`
	selectAllUsersSQL       = `SELECT ` + userColumns + ` FROM users ORDER BY id ASC`

	updateUserSQL = `
		UPDATE users SET email = ?, full_name = ?, is_active = ?, updated_at = ?
		WHERE id = ?
	`
)

// mapUserConstraintErr translates SQLite UNIQUE violations into sentinel errors.
func mapUserConstraintErr(err error) error {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "users.username"):
		return ErrUsernameTaken
	case strings.Contains(msg, "users.email"):
		return ErrEmailTaken
	}
	return err
}

// Create inserts a new user and returns its ID. Uniqueness violations on
// username/email come back as ErrUsernameTaken/ErrEmailTaken.
func (r *UserSQLite) Create(ctx context.Context, u *models.User) (int, error) {
	res, err := r.db.ExecContext(ctx, insertUserSQL,
		u.Username,
		u.Email,
		u.PasswordHash,
		u.FullName,
		u.IsActive,
		u.IsAdmin,
		u.CreatedAt.UTC(),
	)
	if err != nil {
		if mapped := mapUserConstraintErr(err); mapped != err {
			return 0, mapped
		}
		return 0, fmt.Errorf("insert user %q: %w", u.Username, err)
	}
	lastID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("get last insert id for user %q: %w", u.Username, err)
	}
	return int(lastID), nil
}

// GetByID fetches a user by primary key. Returns (nil, nil) if not found.
func (r *UserSQLite) GetByID(ctx context.Context, id int) (*models.User, error) {
	return r.getOne(ctx, selectUserByIDSQL, id)
}

// GetByUsername fetches a user by username. Returns (nil, nil) if not found.
func (r *UserSQLite) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.getOne(ctx, selectUserByUsernameSQL, username)
}

// GetByEmail fetches a user by email. Returns (nil, nil) if not found.
func (r *UserSQLite) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getOne(ctx, selectUserByEmailSQL, email)
}

func (r *UserSQLite) getOne(ctx context.Context, query string, arg any) (*models.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select user: %w", err)
	}
	return u, nil
}

// List returns every user ordered by ID.
func (r *UserSQLite) List(ctx context.Context) ([]models.User, error) {
	rows, err := r.db.QueryContext(ctx, selectAllUsersSQL)
	if err != nil {
		return nil, fmt.Errorf("select users: %w", err)
	}
	defer rows.Close()

	out := make([]models.User, 0, 16)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user row: %w", err)
		}
		out = append(out, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Update persists the mutable profile fields (email, full name, active flag).
func (r *UserSQLite) Update(ctx context.Context, u *models.User) error {
	var updatedAt any
	if u.UpdatedAt != nil {
		updatedAt = u.UpdatedAt.UTC()
	}
	_, err := r.db.ExecContext(ctx, updateUserSQL,
		u.Email,
		u.FullName,
		u.IsActive,
		updatedAt,
		u.ID,
	)
	if err != nil {
		if mapped := mapUserConstraintErr(err); mapped != err {
			return mapped
		}
		return fmt.Errorf("update user %d: %w", u.ID, err)
	}
	return nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*models.User, error) {
	var (
		u         models.User
		updatedAt sql.NullTime
	)
	if err := row.Scan(
		&u.ID,
		&u.Username,
		&u.Email,
		&u.PasswordHash,
		&u.FullName,
		&u.IsActive,
		&u.IsAdmin,
		&u.CreatedAt,
		&updatedAt,
	); err != nil {
		return nil, err
	}
	u.CreatedAt = u.CreatedAt.UTC()
	if updatedAt.Valid {
		t := updatedAt.Time.UTC()
		u.UpdatedAt = &t
	}
	return &u, nil
}
