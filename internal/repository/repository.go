package repository

import (
	"context"
	"database/sql"
	"errors"

	"taskboard/internal/models"
)

// Uniqueness violations surfaced by the storage layer. The UNIQUE
// constraints in the schema are the authority; any pre-checks done in
// services are advisory only.
var (
	ErrUsernameTaken = errors.New("username already taken")
	ErrEmailTaken    = errors.New("email already taken")
)

type Users interface {
	Create(ctx context.Context, u *models.User) (int, error)
	GetByID(ctx context.Context, id int) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	Update(ctx context.Context, u *models.User) error
}

type Tasks interface {
	Create(ctx context.Context, t *models.Task) (int, error)
	GetByID(ctx context.Context, id int) (*models.Task, error)
	ListByOwner(ctx context.Context, ownerID int, f models.TaskFilter) ([]models.Task, error)
	Update(ctx context.Context, t *models.Task) error
	Delete(ctx context.Context, id int) error
}

type Repository struct {
	Users Users
	Tasks Tasks
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		Users: NewUserSQLite(db),
		Tasks: NewTaskSQLite(db),
	}
}
