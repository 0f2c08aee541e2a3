package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/roomtalk/roomtalk-server/internal/config"
	"github.com/roomtalk/roomtalk-server/internal/core"
	"github.com/roomtalk/roomtalk-server/internal/store"
)

// APIHandlers provides HTTP handlers for REST API endpoints.
type APIHandlers struct {
	hub   *core.Hub
	rooms []string
	log   *zerolog.Logger
}

// NewAPIHandlers creates a new API handlers instance.
func NewAPIHandlers(hub *core.Hub, cfg *config.Config, logger *zerolog.Logger) *APIHandlers {
	return &APIHandlers{
		hub:   hub,
		rooms: cfg.Rooms,
		log:   logger,
	}
}

// LogoutRequest represents the logout request body.
type LogoutRequest struct {
	UserID      int64          `json:"user_id" binding:"required"`
	NewMessages map[string]int `json:"new_messages"`
}

// ErrorResponse represents an error response body.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Health reports liveness.
// GET /health
func (h *APIHandlers) Health(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}

// ListRooms returns the static room list.
// GET /rooms
func (h *APIHandlers) ListRooms(c *gin.Context) {
	c.JSON(http.StatusOK, h.rooms)
}

// Logout marks the user offline, stores the unread counters reported by
// the client, and triggers a directory rebroadcast to everyone else.
// DELETE /logout
func (h *APIHandlers) Logout(c *gin.Context) {
	var req LogoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Debug().Err(err).Msg("invalid logout request")
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	if err := h.hub.Logout(c.Request.Context(), req.UserID, req.NewMessages); err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			h.log.Debug().Int64("user_id", req.UserID).Msg("logout for unknown user")
		} else {
			h.log.Error().Err(err).Int64("user_id", req.UserID).Msg("failed to log out user")
		}
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "logout failed"})
		return
	}

	h.log.Info().Int64("user_id", req.UserID).Msg("user logged out")
	c.Status(http.StatusOK)
}
