package web

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/jyang234/timeledger/internal/auth"
	"github.com/jyang234/timeledger/internal/core"
	"github.com/jyang234/timeledger/internal/storage"
)

// TaskService defines the engine operations used by the handlers.
// Implementations: core.Engine
type TaskService interface {
	CreateTask(ctx context.Context, requesterID string, req core.CreateTaskRequest) (*core.Task, error)
	GetTask(ctx context.Context, taskID, requesterID string) (*core.Task, error)
	ListTasks(ctx context.Context, requesterID string) ([]*core.Task, error)
	UpdateTask(ctx context.Context, taskID, requesterID string, req core.UpdateTaskRequest) (*core.Task, error)
	DeleteTask(ctx context.Context, taskID, requesterID string) error
	Transition(ctx context.Context, taskID, requesterID, newStatus string) (*core.TransitionResult, error)
	LogTime(ctx context.Context, taskID, requesterID string, minutes int) (*core.TimeEntry, error)
	ListEntries(ctx context.Context, taskID, requesterID string) ([]*core.TimeEntry, error)
	SelfReport(ctx context.Context, requesterID string) (*core.SelfReport, error)
	AdminReport(ctx context.Context) (*core.AdminReport, error)
}

// UserStorage defines the user operations used by the auth handlers.
// Implementations: storage.Store
type UserStorage interface {
	CreateUser(ctx context.Context, user *storage.UserRecord) error
	GetUserByUsername(ctx context.Context, username string) (*storage.UserRecord, error)
}

// Server is the timeledger HTTP server
type Server struct {
	tasks  TaskService
	users  UserStorage
	tokens *auth.Manager
	router *gin.Engine
}

// NewServer creates a new HTTP server
func NewServer(tasks TaskService, users UserStorage, tokens *auth.Manager) *Server {
	router := gin.Default()

	s := &Server{
		tasks:  tasks,
		users:  users,
		tokens: tokens,
		router: router,
	}

	// Public routes
	api := router.Group("/api")
	{
		api.POST("/auth/register", s.handleRegister)
		api.POST("/auth/login", s.handleLogin)
	}

	// Authenticated routes
	authed := api.Group("")
	authed.Use(s.requireAuth())
	{
		authed.GET("/tasks", s.handleListTasks)
		authed.POST("/tasks", s.handleCreateTask)
		authed.GET("/tasks/:id", s.handleGetTask)
		authed.PUT("/tasks/:id", s.handleUpdateTask)
		authed.DELETE("/tasks/:id", s.handleDeleteTask)
		authed.PATCH("/tasks/:id/status", s.handleTransition)
		authed.POST("/tasks/:id/time", s.handleLogTime)
		authed.GET("/tasks/:id/time", s.handleListEntries)
		authed.GET("/reports/time", s.handleReport)
	}

	return s
}

// Run starts the HTTP server
func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}
