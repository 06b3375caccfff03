package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/graduat/graduat-backend/internal/middleware"
	"github.com/graduat/graduat-backend/internal/repository"
	"github.com/graduat/graduat-backend/internal/response"
	"github.com/graduat/graduat-backend/internal/service"
)

// NotificationHandler handles the teacher notification endpoints.
type NotificationHandler struct {
	notificationService *service.NotificationService
}

// NewNotificationHandler creates a new NotificationHandler.
func NewNotificationHandler(notificationService *service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

// ListUnread godoc
// GET /api/v1/maestro/notificaciones
// Lists unread notifications in the teacher's subjects, newest first.
func (h *NotificationHandler) ListUnread(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	notifications, err := h.notificationService.ListUnreadForTeacher(c.Request.Context(), claims.Usuario)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"notificaciones": notifications,
	})
}

// MarkRead godoc
// PUT /api/v1/maestro/notificaciones/:id/leida
// Marks a single notification as read.
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if err := h.notificationService.MarkRead(c.Request.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.SuccessWithMessage(c, http.StatusOK, gin.H{}, "Notificación marcada como leída.")
}
