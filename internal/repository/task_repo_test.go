package repository

import (
	"context"
	"database/sql/driver"
	"regexp"
	"testing"
	"time"

	"taskboard/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
)

func newTaskRepoMock(t *testing.T) (*TaskSQLite, sqlmock.Sqlmock, func()) {
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
	return NewTaskSQLite(db), mock, cleanup
}

func taskRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "owner_id", "title", "description", "status", "priority",
		"due_date", "created_at", "updated_at", "completed_at",
	})
}

func TestTaskSQLite_Create(t *testing.T) {
	repo, mock, cleanup := newTaskRepoMock(t)
	defer cleanup()

	created := time.Date(2025, 7, 1, 8, 0, 0, 0, time.UTC)
	due := created.Add(48 * time.Hour)
	mock.ExpectExec(regexp.QuoteMeta(insertTaskSQL)).
		WithArgs(1, "ship release", "cut the tag", models.StatusTodo, models.PriorityHigh, due, created).
		WillReturnResult(sqlmock.NewResult(11, 1))

	id, err := repo.Create(context.Background(), &models.Task{
		OwnerID:     1,
		Title:       "ship release",
		Description: "cut the tag",
		Status:      models.StatusTodo,
		Priority:    models.PriorityHigh,
		DueDate:     &due,
		CreatedAt:   created,
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if id != 11 {
		t.Fatalf("expected id 11, got %d", id)
	}
}

func TestTaskSQLite_Create_NilDueDate(t *testing.T) {
	repo, mock, cleanup := newTaskRepoMock(t)
	defer cleanup()

	created := time.Date(2025, 7, 1, 8, 0, 0, 0, time.UTC)
	mock.ExpectExec(regexp.QuoteMeta(insertTaskSQL)).
		WithArgs(1, "no deadline", "", models.StatusTodo, models.PriorityLow, nil, created).
		WillReturnResult(sqlmock.NewResult(12, 1))

	if _, err := repo.Create(context.Background(), &models.Task{
		OwnerID:   1,
		Title:     "no deadline",
		Status:    models.StatusTodo,
		Priority:  models.PriorityLow,
		CreatedAt: created,
	}); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
}

func TestTaskSQLite_GetByID(t *testing.T) {
	repo, mock, cleanup := newTaskRepoMock(t)
	defer cleanup()

	created := time.Date(2025, 7, 1, 8, 0, 0, 0, time.UTC)
	completed := created.Add(time.Hour)
	mock.ExpectQuery(regexp.QuoteMeta(selectTaskByIDSQL)).
		WithArgs(11).
		WillReturnRows(taskRows().
			AddRow(11, 1, "ship release", "cut the tag", models.StatusCompleted,
				models.PriorityHigh, nil, created, completed, completed))

	task, err := repo.GetByID(context.Background(), 11)
	if err != nil {
		t.Fatalf("GetByID returned error: %v", err)
	}
	if task == nil {
		t.Fatalf("expected task, got nil")
	}
	if task.Status != models.StatusCompleted {
		t.Errorf("expected completed status, got %q", task.Status)
	}
	if task.DueDate != nil {
		t.Errorf("expected nil due date for NULL column")
	}
	if task.CompletedAt == nil || !task.CompletedAt.Equal(completed) {
		t.Errorf("expected completed_at %v, got %v", completed, task.CompletedAt)
	}
}

func TestTaskSQLite_GetByID_NotFound(t *testing.T) {
	repo, mock, cleanup := newTaskRepoMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(selectTaskByIDSQL)).
		WithArgs(404).
		WillReturnRows(taskRows())

	task, err := repo.GetByID(context.Background(), 404)
	if err != nil {
		t.Fatalf("expected nil error for missing task, got %v", err)
	}
	if task != nil {
		t.Fatalf("expected nil task, got %+v", task)
	}
}

func TestTaskSQLite_ListByOwner_Filters(t *testing.T) {
	created := time.Date(2025, 7, 1, 8, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		filter    models.TaskFilter
		wantQuery string
		wantArgs  []driver.Value
	}{
		{
			name:      "owner only, paged",
			filter:    models.TaskFilter{Limit: 10},
			wantQuery: `SELECT ` + taskColumns + ` FROM tasks WHERE owner_id = ? ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`,
			wantArgs:  []driver.Value{1, 10, 0},
		},
		{
			name:      "status filter",
			filter:    models.TaskFilter{Status: models.StatusTodo, Limit: 5, Offset: 5},
			wantQuery: `SELECT ` + taskColumns + ` FROM tasks WHERE owner_id = ? AND status = ? ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`,
			wantArgs:  []driver.Value{1, models.StatusTodo, 5, 5},
		},
		{
			name:      "status and priority, no paging",
			filter:    models.TaskFilter{Status: models.StatusTodo, Priority: models.PriorityHigh},
			wantQuery: `SELECT ` + taskColumns + ` FROM tasks WHERE owner_id = ? AND status = ? AND priority = ? ORDER BY created_at DESC, id DESC`,
			wantArgs:  []driver.Value{1, models.StatusTodo, models.PriorityHigh},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, cleanup := newTaskRepoMock(t)
			defer cleanup()

			mock.ExpectQuery(regexp.QuoteMeta(tt.wantQuery)).
				WithArgs(tt.wantArgs...).
				WillReturnRows(taskRows().
					AddRow(2, 1, "b", "", models.StatusTodo, models.PriorityHigh, nil, created, nil, nil).
					AddRow(1, 1, "a", "", models.StatusTodo, models.PriorityHigh, nil, created, nil, nil))

			tasks, err := repo.ListByOwner(context.Background(), 1, tt.filter)
			if err != nil {
				t.Fatalf("ListByOwner returned error: %v", err)
			}
			if len(tasks) != 2 {
				t.Fatalf("expected 2 tasks, got %d", len(tasks))
			}
			if tasks[0].ID != 2 {
				t.Fatalf("expected newest-first ordering, got ids %d, %d", tasks[0].ID, tasks[1].ID)
			}
		})
	}
}

func TestTaskSQLite_Update(t *testing.T) {
	repo, mock, cleanup := newTaskRepoMock(t)
	defer cleanup()

	updated := time.Date(2025, 7, 2, 8, 0, 0, 0, time.UTC)
	mock.ExpectExec(regexp.QuoteMeta(updateTaskSQL)).
		WithArgs("new title", "desc", models.StatusInProgress, models.PriorityMedium, nil, updated, nil, 11).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Update(context.Background(), &models.Task{
		ID:          11,
		Title:       "new title",
		Description: "desc",
		Status:      models.StatusInProgress,
		Priority:    models.PriorityMedium,
		UpdatedAt:   &updated,
	})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
}

func TestTaskSQLite_Delete(t *testing.T) {
	repo, mock, cleanup := newTaskRepoMock(t)
	defer cleanup()

	mock.ExpectExec(regexp.QuoteMeta(deleteTaskSQL)).
		WithArgs(11).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Delete(context.Background(), 11); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
}
