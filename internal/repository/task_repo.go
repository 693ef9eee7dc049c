package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"taskboard/internal/models"
)

type TaskSQLite struct {
	db *sql.DB
}

func NewTaskSQLite(db *sql.DB) *TaskSQLite {
	return &TaskSQLite{db: db}
}

var _ Tasks = (*TaskSQLite)(nil)

const (
	insertTaskSQL = `
		INSERT INTO tasks (owner_id, title, description, status, priority, due_date, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	taskColumns = `id, owner_id, title, description, status, priority, due_date, created_at, updated_at, completed_at`

	selectTaskByIDSQL = `SELECT ` + taskColumns + ` FROM tasks WHERE id = ?`

	updateTaskSQL = `
		UPDATE tasks SET title = ?, description = ?, status = ?, priority = ?,
			due_date = ?, updated_at = ?, completed_at = ?
		WHERE id = ?
	`

	deleteTaskSQL = `DELETE FROM tasks WHERE id = ?`
)

// Create inserts a new task and returns its ID.
func (r *TaskSQLite) Create(ctx context.Context, t *models.Task) (int, error) {
	res, err := r.db.ExecContext(ctx, insertTaskSQL,
		t.OwnerID,
		t.Title,
		t.Description,
		t.Status,
		t.Priority,
		nullableTime(t.DueDate),
		t.CreatedAt.UTC(),
	)
	if err != nil {
		return 0, fmt.Errorf("insert task %q: %w", t.Title, err)
	}
	lastID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("get last insert id for task %q: %w", t.Title, err)
	}
	return int(lastID), nil
}

// GetByID fetches a task by primary key. Returns (nil, nil) if not found.
func (r *TaskSQLite) GetByID(ctx context.Context, id int) (*models.Task, error) {
	t, err := scanTask(r.db.QueryRowContext(ctx, selectTaskByIDSQL, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select task %d: %w", id, err)
	}
	return t, nil
}

// ListByOwner returns the owner's tasks, newest first, honoring the filter.
func (r *TaskSQLite) ListByOwner(ctx context.Context, ownerID int, f models.TaskFilter) ([]models.Task, error) {
	conds := []string{"owner_id = ?"}
	args := []any{ownerID}

	if f.Status != "" {
		conds = append(conds, "status = ?")
		args = append(args, f.Status)
	}
	if f.Priority != "" {
		conds = append(conds, "priority = ?")
		args = append(args, f.Priority)
	}

	q := `SELECT ` + taskColumns + ` FROM tasks WHERE ` + strings.Join(conds, " AND ") +
		` ORDER BY created_at DESC, id DESC`
	if f.Limit > 0 {
		q += " LIMIT ? OFFSET ?"
		args = append(args, f.Limit, f.Offset)
	}

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("select tasks for owner %d: %w", ownerID, err)
	}
	defer rows.Close()

	out := make([]models.Task, 0, 16)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task row: %w", err)
		}
		out = append(out, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Update persists all mutable task fields.
func (r *TaskSQLite) Update(ctx context.Context, t *models.Task) error {
	_, err := r.db.ExecContext(ctx, updateTaskSQL,
		t.Title,
		t.Description,
		t.Status,
		t.Priority,
		nullableTime(t.DueDate),
		nullableTime(t.UpdatedAt),
		nullableTime(t.CompletedAt),
		t.ID,
	)
	if err != nil {
		return fmt.Errorf("update task %d: %w", t.ID, err)
	}
	return nil
}

// Delete removes a task by ID. Deleting an unknown ID is not an error here;
// services resolve existence before calling.
func (r *TaskSQLite) Delete(ctx context.Context, id int) error {
	if _, err := r.db.ExecContext(ctx, deleteTaskSQL, id); err != nil {
		return fmt.Errorf("delete task %d: %w", id, err)
	}
	return nil
}

func nullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC()
}

func scanTask(row rowScanner) (*models.Task, error) {
	var (
		t           models.Task
		dueDate     sql.NullTime
		updatedAt   sql.NullTime
		completedAt sql.NullTime
	)
	if err := row.Scan(
		&t.ID,
		&t.OwnerID,
		&t.Title,
		&t.Description,
		&t.Status,
		&t.Priority,
		&dueDate,
		&t.CreatedAt,
		&updatedAt,
		&completedAt,
	); err != nil {
		return nil, err
	}
	t.CreatedAt = t.CreatedAt.UTC()
	t.DueDate = timePtr(dueDate)
	t.UpdatedAt = timePtr(updatedAt)
	t.CompletedAt = timePtr(completedAt)
	return &t, nil
}

func timePtr(nt sql.NullTime) *time.Time {
	if !nt.Valid {
		return nil
	}
	t := nt.Time.UTC()
	return &t
}
