package web

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jyang234/timeledger/internal/core"
	"github.com/jyang234/timeledger/internal/storage"
)

const (
	maxTitleSize    = 500
	maxUsernameSize = 100
)

// Auth handlers

type credentialsRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (s *Server) handleRegister(c *gin.Context) {
	var req credentialsRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	if len(req.Username) > maxUsernameSize || len(req.Password) < 8 {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "username too long or password shorter than 8 characters",
		})
		return
	}

	hash, err := s.tokens.HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	user := &storage.UserRecord{
		ID:           storage.GenerateID(),
		Username:     req.Username,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.users.CreateUser(c.Request.Context(), user); err != nil {
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"error":   "username already taken",
		})
		return
	}

	token, err := s.tokens.IssueToken(user.ID, user.Username, user.IsAdmin)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"token":   token,
		"user_id": user.ID,
	})
}

func (s *Server) handleLogin(c *gin.Context) {
	var req credentialsRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	user, err := s.users.GetUserByUsername(c.Request.Context(), req.Username)
	if err != nil || !s.tokens.CheckPassword(user.PasswordHash, req.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error":   "invalid credentials",
		})
		return
	}

	token, err := s.tokens.IssueToken(user.ID, user.Username, user.IsAdmin)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"token":   token,
		"user_id": user.ID,
	})
}

// Task handlers

func (s *Server) handleListTasks(c *gin.Context) {
	tasks, err := s.tasks.ListTasks(c.Request.Context(), requesterID(c))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"tasks":   tasks,
		"count":   len(tasks),
	})
}

func (s *Server) handleCreateTask(c *gin.Context) {
	var req core.CreateTaskRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	if len(req.Title) > maxTitleSize {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "title exceeds maximum size of 500 characters",
		})
		return
	}

	task, err := s.tasks.CreateTask(c.Request.Context(), requesterID(c), req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"task":    task,
	})
}

func (s *Server) handleGetTask(c *gin.Context) {
	task, err := s.tasks.GetTask(c.Request.Context(), c.Param("id"), requesterID(c))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"task":    task,
	})
}

func (s *Server) handleUpdateTask(c *gin.Context) {
	var req core.UpdateTaskRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	task, err := s.tasks.UpdateTask(c.Request.Context(), c.Param("id"), requesterID(c), req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"task":    task,
	})
}

func (s *Server) handleDeleteTask(c *gin.Context) {
	if err := s.tasks.DeleteTask(c.Request.Context(), c.Param("id"), requesterID(c)); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Task deleted",
	})
}

// Transition and time logging handlers

type transitionRequest struct {
	Status string `json:"status" binding:"required"`
}

func (s *Server) handleTransition(c *gin.Context) {
	var req transitionRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	result, err := s.tasks.Transition(c.Request.Context(), c.Param("id"), requesterID(c), req.Status)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":           true,
		"status":            result.Status,
		"auto_time_logged":  result.AutoTimeLogged,
		"auto_time_removed": result.AutoTimeRemoved,
	})
}

type logTimeRequest struct {
	Minutes int `json:"minutes" binding:"required"`
}

func (s *Server) handleLogTime(c *gin.Context) {
	var req logTimeRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	entry, err := s.tasks.LogTime(c.Request.Context(), c.Param("id"), requesterID(c), req.Minutes)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"entry":   entry,
	})
}

func (s *Server) handleListEntries(c *gin.Context) {
	entries, err := s.tasks.ListEntries(c.Request.Context(), c.Param("id"), requesterID(c))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"entries": entries,
		"count":   len(entries),
	})
}

// Report handler

func (s *Server) handleReport(c *gin.Context) {
	if isAdmin(c) {
		report, err := s.tasks.AdminReport(c.Request.Context())
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"scope":   "admin",
			"report":  report,
		})
		return
	}

	report, err := s.tasks.SelfReport(c.Request.Context(), requesterID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"scope":   "self",
		"report":  report,
	})
}

// writeError maps engine errors onto HTTP status codes
func writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, core.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, core.ErrInvalidStatus), errors.Is(err, core.ErrInvalidInput):
		status = http.StatusBadRequest
	}

	c.JSON(status, gin.H{
		"success": false,
		"error":   err.Error(),
	})
}
