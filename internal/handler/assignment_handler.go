package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/graduat/graduat-backend/internal/middleware"
	"github.com/graduat/graduat-backend/internal/model"
	"github.com/graduat/graduat-backend/internal/response"
	"github.com/graduat/graduat-backend/internal/service"
	"github.com/graduat/graduat-backend/internal/validator"
)

// AssignmentHandler handles the teacher-facing assignment ledger endpoints.
type AssignmentHandler struct {
	assignmentService *service.AssignmentService
}

// NewAssignmentHandler creates a new AssignmentHandler.
func NewAssignmentHandler(assignmentService *service.AssignmentService) *AssignmentHandler {
	return &AssignmentHandler{assignmentService: assignmentService}
}

// CreateAssignments godoc
// POST /api/v1/maestro/asignaciones
// Assigns one or more tests to a cohort of students. One ledger entry is
// created per test id.
func (h *AssignmentHandler) CreateAssignments(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	var req model.CreateAssignmentRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	created, err := h.assignmentService.Create(c.Request.Context(), &req, claims.Usuario)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyCohort):
			response.Fail(c, http.StatusBadRequest, response.ErrEmptyCohort)
		case errors.Is(err, service.ErrNoTests):
			response.Fail(c, http.StatusBadRequest, response.ErrValidation)
		case errors.Is(err, service.ErrInvalidSubject):
			response.Fail(c, http.StatusBadRequest, response.ErrInvalidSubject)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.SuccessWithMessage(c, http.StatusCreated, gin.H{
		"asignaciones": created,
	}, "Asignaciones creadas correctamente.")
}

// ListAssignments godoc
// GET /api/v1/maestro/asignaciones
// Lists ledger entries scoped to the teacher's subjects.
func (h *AssignmentHandler) ListAssignments(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	assignments, err := h.assignmentService.ListForTeacher(c.Request.Context(), claims.Usuario)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"asignaciones": assignments,
	})
}

// GetBoard godoc
// GET /api/v1/maestro/tablero
// Returns the combined assignment+result board for the teacher's subjects.
func (h *AssignmentHandler) GetBoard(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	board, err := h.assignmentService.Board(c.Request.Context(), claims.Usuario)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, board)
}

// BulkClear godoc
// DELETE /api/v1/maestro/asignaciones
// Irreversibly deletes every assignment, result and notification in the
// teacher's subjects. Returns per-collection deletion counts.
func (h *AssignmentHandler) BulkClear(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	summary, err := h.assignmentService.BulkClear(c.Request.Context(), claims.Usuario)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.SuccessWithMessage(c, http.StatusOK, summary, "Datos eliminados correctamente.")
}
