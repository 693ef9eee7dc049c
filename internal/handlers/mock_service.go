package handlers

import (
	"context"
	"net/http"

	"taskboard/internal/models"
	"taskboard/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockAuth struct {
	registerUser *models.User
	registerErr  error
	loginToken   string
	loginErr     error
	parseID      int
	parseErr     error

	lastRegister      service.RegisterParams
	lastLoginUsername string
	lastLoginPassword string
	lastParseToken    string
}

func (m *mockAuth) Register(ctx context.Context, p service.RegisterParams) (*models.User, error) {
	m.lastRegister = p
	return m.registerUser, m.registerErr
}
func (m *mockAuth) Login(ctx context.Context, username, password string) (string, error) {
	m.lastLoginUsername = username
	m.lastLoginPassword = password
	return m.loginToken, m.loginErr
}
func (m *mockAuth) ParseToken(token string) (int, error) {
	m.lastParseToken = token
	return m.parseID, m.parseErr
}

type mockUsers struct {
	byID      map[int]*models.User
	getErr    error
	updated   *models.User
	updateErr error
	list      []models.User
	listErr   error
	setActive *models.User
	setErr    error

	lastUpdateID     int
	lastUpdateParams service.ProfileUpdate
	lastSetActorID   int
	lastSetUserID    int
	lastSetActive    bool
}

func (m *mockUsers) GetByID(ctx context.Context, id int) (*models.User, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	u, ok := m.byID[id]
	if !ok {
		return nil, service.ErrUserNotFound
	}
	return u, nil
}
func (m *mockUsers) UpdateProfile(ctx context.Context, userID int, p service.ProfileUpdate) (*models.User, error) {
	m.lastUpdateID = userID
	m.lastUpdateParams = p
	return m.updated, m.updateErr
}
func (m *mockUsers) List(ctx context.Context) ([]models.User, error) {
	return m.list, m.listErr
}
func (m *mockUsers) SetActive(ctx context.Context, actorID, userID int, active bool) (*models.User, error) {
	m.lastSetActorID = actorID
	m.lastSetUserID = userID
	m.lastSetActive = active
	return m.setActive, m.setErr
}

type mockTasks struct {
	task      *models.Task
	err       error
	list      []models.Task
	listErr   error
	deleteErr error

	createCalls int
	deleteCalls int
	lastCreate  service.TaskCreateParams
	lastUpdate  service.TaskUpdateParams
	lastID      int
	lastFilter  models.TaskFilter
	lastActor   *models.User
}

func (m *mockTasks) Create(ctx context.Context, owner *models.User, p service.TaskCreateParams) (*models.Task, error) {
	m.createCalls++
	m.lastActor = owner
	m.lastCreate = p
	return m.task, m.err
}
func (m *mockTasks) Get(ctx context.Context, actor *models.User, id int) (*models.Task, error) {
	m.lastActor = actor
	m.lastID = id
	return m.task, m.err
}
func (m *mockTasks) List(ctx context.Context, owner *models.User, f models.TaskFilter) ([]models.Task, error) {
	m.lastActor = owner
	m.lastFilter = f
	return m.list, m.listErr
}
func (m *mockTasks) Update(ctx context.Context, actor *models.User, id int, p service.TaskUpdateParams) (*models.Task, error) {
	m.lastActor = actor
	m.lastID = id
	m.lastUpdate = p
	return m.task, m.err
}
func (m *mockTasks) Delete(ctx context.Context, actor *models.User, id int) error {
	m.deleteCalls++
	m.lastActor = actor
	m.lastID = id
	return m.deleteErr
}

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	h := NewHandler(s, nil, nil, nil)
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}

// knownUsers builds the Users mock the auth middleware resolves tokens
// against.
func knownUsers(users ...*models.User) *mockUsers {
	byID := make(map[int]*models.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}
	return &mockUsers{byID: byID}
}

func authHeader(token string) http.Header {
	h := http.Header{}
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}
