package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"taskboard/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
)

func newUserRepoMock(t *testing.T) (*UserSQLite, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	cleanup := func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unmet sqlmock expectations: %v", err)
		}
		db.Close()
	}
	return NewUserSQLite(db), mock, cleanup
}

func userRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "username", "email", "password_hash", "full_name",
		"is_active", "is_admin", "created_at", "updated_at",
	})
}

func TestUserSQLite_Create(t *testing.T) {
	repo, mock, cleanup := newUserRepoMock(t)
	defer cleanup()

	created := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	mock.ExpectExec(regexp.QuoteMeta(insertUserSQL)).
		WithArgs("henry", "h@x.io", "$2a$10$hash", "Henry", true, false, created).
		WillReturnResult(sqlmock.NewResult(5, 1))

	id, err := repo.Create(context.Background(), &models.User{
		Username:     "henry",
		Email:        "h@x.io",
		PasswordHash: "$2a$10$hash",
		FullName:     "Henry",
		IsActive:     true,
		CreatedAt:    created,
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if id != 5 {
		t.Fatalf("expected id 5, got %d", id)
	}
}

func TestUserSQLite_Create_UniqueViolations(t *testing.T) {
	tests := []struct {
		name    string
		driver  string
		wantErr error
	}{
		{
			name:    "username taken",
			driver:  "constraint failed: UNIQUE constraint failed: users.username (2067)",
			wantErr: ErrUsernameTaken,
		},
		{
			name:    "email taken",
			driver:  "constraint failed: UNIQUE constraint failed: users.email (2067)",
			wantErr: ErrEmailTaken,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, cleanup := newUserRepoMock(t)
			defer cleanup()

			mock.ExpectExec(regexp.QuoteMeta(insertUserSQL)).
				WillReturnError(errors.New(tt.driver))

			_, err := repo.Create(context.Background(), &models.User{
				Username:  "dup",
				Email:     "dup@x.io",
				CreatedAt: time.Now().UTC(),
			})
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestUserSQLite_GetByUsername(t *testing.T) {
	repo, mock, cleanup := newUserRepoMock(t)
	defer cleanup()

	created := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta(selectUserByUsernameSQL)).
		WithArgs("iris").
		WillReturnRows(userRows().
			AddRow(3, "iris", "iris@x.io", "$2a$10$hash", "Iris", true, false, created, nil))

	u, err := repo.GetByUsername(context.Background(), "iris")
	if err != nil {
		t.Fatalf("GetByUsername returned error: %v", err)
	}
	if u == nil {
		t.Fatalf("expected user, got nil")
	}
	if u.ID != 3 || u.Username != "iris" {
		t.Fatalf("unexpected user: %+v", u)
	}
	if u.UpdatedAt != nil {
		t.Fatalf("expected nil UpdatedAt for NULL column, got %v", u.UpdatedAt)
	}
}

func TestUserSQLite_GetByID_NotFound(t *testing.T) {
	repo, mock, cleanup := newUserRepoMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(selectUserByIDSQL)).
		WithArgs(404).
		WillReturnRows(userRows())

	u, err := repo.GetByID(context.Background(), 404)
	if err != nil {
		t.Fatalf("expected nil error for missing user, got %v", err)
	}
	if u != nil {
		t.Fatalf("expected nil user, got %+v", u)
	}
}

func TestUserSQLite_List(t *testing.T) {
	repo, mock, cleanup := newUserRepoMock(t)
	defer cleanup()

	created := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	updated := created.Add(time.Hour)
	mock.ExpectQuery(regexp.QuoteMeta(selectAllUsersSQL)).
		WillReturnRows(userRows().
			AddRow(1, "a", "a@x.io", "h1", "", true, true, created, nil).
			AddRow(2, "b", "b@x.io", "h2", "B", false, false, created, updated))

	users, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("expected 2 users, got %d", len(users))
	}
	if !users[0].IsAdmin || users[1].IsActive {
		t.Fatalf("unexpected flags: %+v", users)
	}
	if users[1].UpdatedAt == nil || !users[1].UpdatedAt.Equal(updated) {
		t.Fatalf("expected updated_at %v, got %v", updated, users[1].UpdatedAt)
	}
}

func TestUserSQLite_Update(t *testing.T) {
	repo, mock, cleanup := newUserRepoMock(t)
	defer cleanup()

	now := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	mock.ExpectExec(regexp.QuoteMeta(updateUserSQL)).
		WithArgs("new@x.io", "New Name", true, now, 7).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Update(context.Background(), &models.User{
		ID:        7,
		Email:     "new@x.io",
		FullName:  "New Name",
		IsActive:  true,
		UpdatedAt: &now,
	})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
}

func TestUserSQLite_Update_EmailTaken(t *testing.T) {
	repo, mock, cleanup := newUserRepoMock(t)
	defer cleanup()

	mock.ExpectExec(regexp.QuoteMeta(updateUserSQL)).
		WillReturnError(errors.New("constraint failed: UNIQUE constraint failed: users.email (2067)"))

	err := repo.Update(context.Background(), &models.User{ID: 7, Email: "dup@x.io"})
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}
