package service

import (
	"context"
	"time"

	"taskboard/internal/events"
	"taskboard/internal/models"
	"taskboard/internal/repository"
)

type Authorization interface {
	Register(ctx context.Context, p RegisterParams) (*models.User, error)
	Login(ctx context.Context, username, password string) (string, error)
	ParseToken(accessToken string) (int, error)
}

// Users exposes profile reads/updates plus the admin-only account controls.
type Users interface {
	GetByID(ctx context.Context, id int) (*models.User, error)
	UpdateProfile(ctx context.Context, userID int, p ProfileUpdate) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	SetActive(ctx context.Context, actorID, userID int, active bool) (*models.User, error)
}

// Tasks exposes task CRUD. Every by-ID operation re-checks ownership against
// the acting user (admins pass the check).
type Tasks interface {
	Create(ctx context.Context, owner *models.User, p TaskCreateParams) (*models.Task, error)
	Get(ctx context.Context, actor *models.User, id int) (*models.Task, error)
	List(ctx context.Context, owner *models.User, f models.TaskFilter) ([]models.Task, error)
	Update(ctx context.Context, actor *models.User, id int, p TaskUpdateParams) (*models.Task, error)
	Delete(ctx context.Context, actor *models.User, id int) error
}

// Config carries the auth knobs services need; loaded from viper in main.
type Config struct {
	SigningKey string
	TokenTTL   time.Duration
}

//
// Root Service aggregates all sub-services.
//

type Service struct {
	Authorization
	Users
	Tasks
}

func NewService(repos *repository.Repository, feed *events.Broadcaster, cfg Config) *Service {
	return &Service{
		Authorization: NewAuthService(repos.Users, cfg),
		Users:         NewUserService(repos.Users),
		Tasks:         NewTaskService(repos.Tasks, feed),
	}
}
