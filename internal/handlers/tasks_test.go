package handlers

import (
	"net/http"
	"testing"

	"taskboard/internal/models"
	"taskboard/internal/service"
)

var activeUser = &models.User{ID: 1, Username: "alice", IsActive: true}

func taskRouter(tasks *mockTasks) http.Handler {
	return newTestRouter(&service.Service{
		Authorization: &mockAuth{parseID: activeUser.ID},
		Users:         knownUsers(activeUser),
		Tasks:         tasks,
	})
}

func TestCreateTask(t *testing.T) {
	tasks := &mockTasks{
		task: &models.Task{ID: 7, OwnerID: 1, Title: "ship release", Status: models.StatusTodo, Priority: models.PriorityHigh},
	}
	router := taskRouter(tasks)

	w := performJSON(t, router, http.MethodPost, "/api/tasks",
		`{"title":"ship release","priority":"high"}`, authHeader("tok"))

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	if tasks.createCalls != 1 {
		t.Fatalf("expected 1 Create call, got %d", tasks.createCalls)
	}
	if tasks.lastCreate.Title != "ship release" || tasks.lastCreate.Priority != "high" {
		t.Errorf("unexpected create params: %+v", tasks.lastCreate)
	}
	if tasks.lastActor == nil || tasks.lastActor.ID != activeUser.ID {
		t.Errorf("expected acting user forwarded to service")
	}
	if body := decodeBody(t, w); body["title"] != "ship release" {
		t.Errorf("expected task in response, got: %s", w.Body.String())
	}
}

func TestCreateTask_Validation(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		field string
	}{
		{name: "missing title", body: `{"priority":"high"}`, field: "title"},
		{name: "bad priority", body: `{"title":"x","priority":"urgent"}`, field: "priority"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tasks := &mockTasks{}
			router := taskRouter(tasks)

			w := performJSON(t, router, http.MethodPost, "/api/tasks", tt.body, authHeader("tok"))

			if w.Code != http.StatusUnprocessableEntity {
				t.Fatalf("expected 422, got %d: %s", w.Code, w.Body.String())
			}
			if msg := fieldError(t, w, tt.field); msg == "" {
				t.Errorf("expected error for field %q, got: %s", tt.field, w.Body.String())
			}
			if tasks.createCalls != 0 {
				t.Errorf("service must not be called on validation failure")
			}
		})
	}
}

func TestCreateTask_Unauthenticated(t *testing.T) {
	router := taskRouter(&mockTasks{})

	w := performJSON(t, router, http.MethodPost, "/api/tasks", `{"title":"x"}`, nil)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", w.Code)
	}
}

func TestListTasks(t *testing.T) {
	tasks := &mockTasks{
		list: []models.Task{
			{ID: 2, OwnerID: 1, Title: "b"},
			{ID: 1, OwnerID: 1, Title: "a"},
		},
	}
	router := taskRouter(tasks)

	w := performJSON(t, router, http.MethodGet, "/api/tasks?status=todo&limit=20&offset=5", "", authHeader("tok"))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	body := decodeBody(t, w)
	if body["count"] != float64(2) {
		t.Errorf("expected count 2, got: %s", w.Body.String())
	}
	if tasks.lastFilter.Status != "todo" || tasks.lastFilter.Limit != 20 || tasks.lastFilter.Offset != 5 {
		t.Errorf("unexpected filter: %+v", tasks.lastFilter)
	}
}

func TestListTasks_BadPagination(t *testing.T) {
	router := taskRouter(&mockTasks{})

	w := performJSON(t, router, http.MethodGet, "/api/tasks?limit=abc", "", authHeader("tok"))

	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for garbage limit, got %d", w.Code)
	}
	if msg := fieldError(t, w, "limit"); msg == "" {
		t.Errorf("expected limit error, got: %s", w.Body.String())
	}
}

func TestListTasks_InvalidStatusFilter(t *testing.T) {
	router := taskRouter(&mockTasks{listErr: service.ErrInvalidStatus})

	w := performJSON(t, router, http.MethodGet, "/api/tasks?status=done", "", authHeader("tok"))

	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d: %s", w.Code, w.Body.String())
	}
	if msg := fieldError(t, w, "status"); msg == "" {
		t.Errorf("expected status error, got: %s", w.Body.String())
	}
}

func TestGetTask(t *testing.T) {
	tasks := &mockTasks{task: &models.Task{ID: 7, OwnerID: 1, Title: "ship release"}}
	router := taskRouter(tasks)

	w := performJSON(t, router, http.MethodGet, "/api/tasks/7", "", authHeader("tok"))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if tasks.lastID != 7 {
		t.Errorf("expected id 7 forwarded, got %d", tasks.lastID)
	}
}

func TestGetTask_ErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		svcErr   error
		wantCode int
	}{
		{name: "not found", svcErr: service.ErrTaskNotFound, wantCode: http.StatusNotFound},
		{name: "someone else's task", svcErr: service.ErrForbidden, wantCode: http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := taskRouter(&mockTasks{err: tt.svcErr})

			w := performJSON(t, router, http.MethodGet, "/api/tasks/7", "", authHeader("tok"))

			if w.Code != tt.wantCode {
				t.Fatalf("expected %d, got %d: %s", tt.wantCode, w.Code, w.Body.String())
			}
		})
	}
}

func TestGetTask_BadID(t *testing.T) {
	router := taskRouter(&mockTasks{})

	for _, target := range []string{"/api/tasks/abc", "/api/tasks/-1", "/api/tasks/0"} {
		w := performJSON(t, router, http.MethodGet, target, "", authHeader("tok"))
		if w.Code != http.StatusUnprocessableEntity {
			t.Errorf("%s: expected 422, got %d", target, w.Code)
		}
	}
}

func TestUpdateTask(t *testing.T) {
	tasks := &mockTasks{
		task: &models.Task{ID: 7, OwnerID: 1, Title: "ship release", Status: models.StatusCompleted},
	}
	router := taskRouter(tasks)

	w := performJSON(t, router, http.MethodPut, "/api/tasks/7",
		`{"status":"completed"}`, authHeader("tok"))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if tasks.lastUpdate.Status == nil || *tasks.lastUpdate.Status != "completed" {
		t.Errorf("expected status update forwarded, got %+v", tasks.lastUpdate)
	}
	if tasks.lastUpdate.Title != nil {
		t.Errorf("absent fields must stay nil, got title %v", *tasks.lastUpdate.Title)
	}
}

func TestUpdateTask_InvalidStatus(t *testing.T) {
	router := taskRouter(&mockTasks{})

	w := performJSON(t, router, http.MethodPut, "/api/tasks/7",
		`{"status":"done"}`, authHeader("tok"))

	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d: %s", w.Code, w.Body.String())
	}
}

func TestDeleteTask(t *testing.T) {
	tasks := &mockTasks{}
	router := taskRouter(tasks)

	w := performJSON(t, router, http.MethodDelete, "/api/tasks/7", "", authHeader("tok"))

	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d: %s", w.Code, w.Body.String())
	}
	if w.Body.Len() != 0 {
		t.Errorf("expected empty body, got: %s", w.Body.String())
	}
	if tasks.deleteCalls != 1 || tasks.lastID != 7 {
		t.Errorf("expected Delete(7), got calls=%d id=%d", tasks.deleteCalls, tasks.lastID)
	}
}

func TestDeleteTask_ErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		svcErr   error
		wantCode int
	}{
		{name: "not found", svcErr: service.ErrTaskNotFound, wantCode: http.StatusNotFound},
		{name: "forbidden", svcErr: service.ErrForbidden, wantCode: http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := taskRouter(&mockTasks{deleteErr: tt.svcErr})

			w := performJSON(t, router, http.MethodDelete, "/api/tasks/7", "", authHeader("tok"))

			if w.Code != tt.wantCode {
				t.Fatalf("expected %d, got %d: %s", tt.wantCode, w.Code, w.Body.String())
			}
		})
	}
}
