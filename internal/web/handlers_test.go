package web

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jyang234/timeledger/internal/auth"
	"github.com/jyang234/timeledger/internal/core"
	"github.com/jyang234/timeledger/internal/storage"
)

// MockTaskService implements TaskService for testing
type MockTaskService struct {
	CreateFunc     func(ctx context.Context, requesterID string, req core.CreateTaskRequest) (*core.Task, error)
	GetFunc        func(ctx context.Context, taskID, requesterID string) (*core.Task, error)
	ListFunc       func(ctx context.Context, requesterID string) ([]*core.Task, error)
	UpdateFunc     func(ctx context.Context, taskID, requesterID string, req core.UpdateTaskRequest) (*core.Task, error)
	DeleteFunc     func(ctx context.Context, taskID, requesterID string) error
	TransitionFunc func(ctx context.Context, taskID, requesterID, newStatus string) (*core.TransitionResult, error)
	LogTimeFunc    func(ctx context.Context, taskID, requesterID string, minutes int) (*core.TimeEntry, error)
	EntriesFunc    func(ctx context.Context, taskID, requesterID string) ([]*core.TimeEntry, error)
	SelfFunc       func(ctx context.Context, requesterID string) (*core.SelfReport, error)
	AdminFunc      func(ctx context.Context) (*core.AdminReport, error)
}

func (m *MockTaskService) CreateTask(ctx context.Context, requesterID string, req core.CreateTaskRequest) (*core.Task, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, requesterID, req)
	}
	return &core.Task{ID: "t1", UserID: requesterID, Title: req.Title, Status: core.StatusTodo}, nil
}

func (m *MockTaskService) GetTask(ctx context.Context, taskID, requesterID string) (*core.Task, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, taskID, requesterID)
	}
	return nil, core.ErrNotFound
}

func (m *MockTaskService) ListTasks(ctx context.Context, requesterID string) ([]*core.Task, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, requesterID)
	}
	return nil, nil
}

func (m *MockTaskService) UpdateTask(ctx context.Context, taskID, requesterID string, req core.UpdateTaskRequest) (*core.Task, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, taskID, requesterID, req)
	}
	return nil, core.ErrNotFound
}

func (m *MockTaskService) DeleteTask(ctx context.Context, taskID, requesterID string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, taskID, requesterID)
	}
	return nil
}

func (m *MockTaskService) Transition(ctx context.Context, taskID, requesterID, newStatus string) (*core.TransitionResult, error) {
	if m.TransitionFunc != nil {
		return m.TransitionFunc(ctx, taskID, requesterID, newStatus)
	}
	return &core.TransitionResult{TaskID: taskID, Status: newStatus}, nil
}

func (m *MockTaskService) LogTime(ctx context.Context, taskID, requesterID string, minutes int) (*core.TimeEntry, error) {
	if m.LogTimeFunc != nil {
		return m.LogTimeFunc(ctx, taskID, requesterID, minutes)
	}
	return &core.TimeEntry{ID: "e1", TaskID: taskID, UserID: requesterID, Minutes: minutes}, nil
}

func (m *MockTaskService) ListEntries(ctx context.Context, taskID, requesterID string) ([]*core.TimeEntry, error) {
	if m.EntriesFunc != nil {
		return m.EntriesFunc(ctx, taskID, requesterID)
	}
	return nil, nil
}

func (m *MockTaskService) SelfReport(ctx context.Context, requesterID string) (*core.SelfReport, error) {
	if m.SelfFunc != nil {
		return m.SelfFunc(ctx, requesterID)
	}
	return &core.SelfReport{Empty: true, Days: []core.SelfDay{}}, nil
}

func (m *MockTaskService) AdminReport(ctx context.Context) (*core.AdminReport, error) {
	if m.AdminFunc != nil {
		return m.AdminFunc(ctx)
	}
	return &core.AdminReport{Empty: true, Days: []core.AdminDay{}}, nil
}

// MockUserStorage implements UserStorage for testing
type MockUserStorage struct {
	CreateFunc func(ctx context.Context, user *storage.UserRecord) error
	GetFunc    func(ctx context.Context, username string) (*storage.UserRecord, error)
}

func (m *MockUserStorage) CreateUser(ctx context.Context, user *storage.UserRecord) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, user)
	}
	return nil
}

func (m *MockUserStorage) GetUserByUsername(ctx context.Context, username string) (*storage.UserRecord, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, username)
	}
	return nil, storage.ErrNotFound
}

// testServer wires handlers with mocks and a real token manager
type testServer struct {
	server *Server
	tasks  *MockTaskService
	users  *MockUserStorage
	tokens *auth.Manager
}

func newTestServer() *testServer {
	gin.SetMode(gin.TestMode)

	tasks := &MockTaskService{}
	users := &MockUserStorage{}
	tokens := auth.NewManager("test-secret", time.Hour)

	return &testServer{
		server: NewServer(tasks, users, tokens),
		tasks:  tasks,
		users:  users,
		tokens: tokens,
	}
}

func (ts *testServer) request(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("Failed to encode body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	ts.server.router.ServeHTTP(w, req)
	return w
}

func (ts *testServer) token(t *testing.T, userID string, admin bool) string {
	t.Helper()
	token, err := ts.tokens.IssueToken(userID, "user-"+userID, admin)
	if err != nil {
		t.Fatalf("Failed to issue token: %v", err)
	}
	return token
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("Failed to decode response %q: %v", w.Body.String(), err)
	}
	return body
}

// =============================================================================
// TestAuthMiddleware
// =============================================================================

func TestAuthRequired(t *testing.T) {
	ts := newTestServer()

	tests := []struct {
		name  string
		token string
	}{
		{name: "Given no token When listing tasks Then 401", token: ""},
		{name: "Given a garbage token When listing tasks Then 401", token: "not-a-jwt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := ts.request(t, http.MethodGet, "/api/tasks", tt.token, nil)
			if w.Code != http.StatusUnauthorized {
				t.Errorf("Expected 401, got %d", w.Code)
			}
		})
	}
}

// =============================================================================
// TestTransitionHandler
// =============================================================================

func TestTransitionHandler(t *testing.T) {
	ts := newTestServer()
	token := ts.token(t, "u1", false)

	ts.tasks.TransitionFunc = func(ctx context.Context, taskID, requesterID, newStatus string) (*core.TransitionResult, error) {
		if requesterID != "u1" {
			t.Errorf("Expected requester u1, got %s", requesterID)
		}
		return &core.TransitionResult{TaskID: taskID, Status: newStatus, AutoTimeLogged: true}, nil
	}

	w := ts.request(t, http.MethodPatch, "/api/tasks/t1/status", token, gin.H{"status": "done"})
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}

	body := decodeBody(t, w)
	if body["status"] != "done" {
		t.Errorf("Expected status done, got %v", body["status"])
	}
	if body["auto_time_logged"] != true || body["auto_time_removed"] != false {
		t.Errorf("Unexpected auto time flags: %v", body)
	}
}

func TestTransitionHandlerErrors(t *testing.T) {
	ts := newTestServer()
	token := ts.token(t, "u1", false)

	tests := []struct {
		name     string
		err      error
		wantCode int
	}{
		{
			name:     "Given a missing task When transitioning Then 404",
			err:      fmt.Errorf("task t1: %w", core.ErrNotFound),
			wantCode: http.StatusNotFound,
		},
		{
			name:     "Given an unknown status When transitioning Then 400",
			err:      fmt.Errorf("status %q: %w", "archived", core.ErrInvalidStatus),
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "Given a storage failure When transitioning Then 500",
			err:      fmt.Errorf("disk on fire"),
			wantCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts.tasks.TransitionFunc = func(ctx context.Context, taskID, requesterID, newStatus string) (*core.TransitionResult, error) {
				return nil, tt.err
			}

			w := ts.request(t, http.MethodPatch, "/api/tasks/t1/status", token, gin.H{"status": "done"})
			if w.Code != tt.wantCode {
				t.Errorf("Expected %d, got %d: %s", tt.wantCode, w.Code, w.Body.String())
			}

			body := decodeBody(t, w)
			if body["success"] != false {
				t.Errorf("Expected success=false, got %v", body)
			}
		})
	}
}

// =============================================================================
// TestLogTimeHandler
// =============================================================================

func TestLogTimeHandler(t *testing.T) {
	ts := newTestServer()
	token := ts.token(t, "u1", false)

	ts.tasks.LogTimeFunc = func(ctx context.Context, taskID, requesterID string, minutes int) (*core.TimeEntry, error) {
		return &core.TimeEntry{ID: "e1", TaskID: taskID, UserID: requesterID, Minutes: minutes}, nil
	}

	w := ts.request(t, http.MethodPost, "/api/tasks/t1/time", token, gin.H{"minutes": 30})
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
	}

	body := decodeBody(t, w)
	entry := body["entry"].(map[string]any)
	if entry["minutes"] != float64(30) {
		t.Errorf("Expected 30 minutes, got %v", entry["minutes"])
	}
}

func TestLogTimeHandlerRejectsOutOfRange(t *testing.T) {
	ts := newTestServer()
	token := ts.token(t, "u1", false)

	ts.tasks.LogTimeFunc = func(ctx context.Context, taskID, requesterID string, minutes int) (*core.TimeEntry, error) {
		return nil, fmt.Errorf("minutes must be between 1 and 1440, got %d: %w", minutes, core.ErrInvalidInput)
	}

	w := ts.request(t, http.MethodPost, "/api/tasks/t1/time", token, gin.H{"minutes": 1441})
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d", w.Code)
	}
}

// =============================================================================
// TestReportHandler - self vs. admin dispatch on the token claim
// =============================================================================

func TestReportHandlerSelf(t *testing.T) {
	ts := newTestServer()
	token := ts.token(t, "u1", false)

	ts.tasks.SelfFunc = func(ctx context.Context, requesterID string) (*core.SelfReport, error) {
		return &core.SelfReport{Days: []core.SelfDay{{Date: "2026-08-27", TotalMinutes: 75, LogCount: 2}}}, nil
	}
	ts.tasks.AdminFunc = func(ctx context.Context) (*core.AdminReport, error) {
		t.Error("Admin report must not be reachable for a non-admin caller")
		return nil, nil
	}

	w := ts.request(t, http.MethodGet, "/api/reports/time", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}

	body := decodeBody(t, w)
	if body["scope"] != "self" {
		t.Errorf("Expected self scope, got %v", body["scope"])
	}
}

func TestReportHandlerAdmin(t *testing.T) {
	ts := newTestServer()
	token := ts.token(t, "admin", true)

	ts.tasks.AdminFunc = func(ctx context.Context) (*core.AdminReport, error) {
		return &core.AdminReport{
			Days: []core.AdminDay{{Date: "2026-08-27", TotalMinutes: 135, LogCount: 4}},
			Summary: core.AdminSummary{
				ActiveDays: 1, TotalMinutes: 135, AutoMinutes: 45, ManualMinutes: 90,
			},
		}, nil
	}

	w := ts.request(t, http.MethodGet, "/api/reports/time", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}

	body := decodeBody(t, w)
	if body["scope"] != "admin" {
		t.Errorf("Expected admin scope, got %v", body["scope"])
	}
	report := body["report"].(map[string]any)
	summary := report["summary"].(map[string]any)
	if summary["total_minutes"] != float64(135) {
		t.Errorf("Expected summary total 135, got %v", summary["total_minutes"])
	}
}

func TestReportHandlerEmpty(t *testing.T) {
	ts := newTestServer()
	token := ts.token(t, "u1", false)

	w := ts.request(t, http.MethodGet, "/api/reports/time", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}

	body := decodeBody(t, w)
	report := body["report"].(map[string]any)
	if report["empty"] != true {
		t.Errorf("Expected explicit empty flag, got %v", report)
	}
}

// =============================================================================
// TestRegisterAndLogin
// =============================================================================

func TestRegisterIssuesToken(t *testing.T) {
	ts := newTestServer()

	var saved *storage.UserRecord
	ts.users.CreateFunc = func(ctx context.Context, user *storage.UserRecord) error {
		saved = user
		return nil
	}

	w := ts.request(t, http.MethodPost, "/api/auth/register", "", gin.H{
		"username": "alice",
		"password": "correct-horse",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
	}

	if saved == nil || saved.PasswordHash == "correct-horse" {
		t.Error("Expected a stored user with a hashed password")
	}

	body := decodeBody(t, w)
	claims, err := ts.tokens.VerifyToken(body["token"].(string))
	if err != nil {
		t.Fatalf("Issued token does not verify: %v", err)
	}
	if claims.Username != "alice" || claims.IsAdmin {
		t.Errorf("Unexpected claims: %+v", claims)
	}
}

func TestRegisterRejectsShortPassword(t *testing.T) {
	ts := newTestServer()

	w := ts.request(t, http.MethodPost, "/api/auth/register", "", gin.H{
		"username": "alice",
		"password": "short",
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d", w.Code)
	}
}

func TestLoginRejectsBadPassword(t *testing.T) {
	ts := newTestServer()

	hash, _ := ts.tokens.HashPassword("correct-horse")
	ts.users.GetFunc = func(ctx context.Context, username string) (*storage.UserRecord, error) {
		return &storage.UserRecord{ID: "u1", Username: username, PasswordHash: hash}, nil
	}

	w := ts.request(t, http.MethodPost, "/api/auth/login", "", gin.H{
		"username": "alice",
		"password": "wrong",
	})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401, got %d", w.Code)
	}
}
