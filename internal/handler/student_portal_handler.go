package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/graduat/graduat-backend/internal/middleware"
	"github.com/graduat/graduat-backend/internal/model"
	"github.com/graduat/graduat-backend/internal/repository"
	"github.com/graduat/graduat-backend/internal/response"
	"github.com/graduat/graduat-backend/internal/service"
	"github.com/graduat/graduat-backend/internal/validator"
)

// StudentPortalHandler handles the student-facing assignment and test
// endpoints.
type StudentPortalHandler struct {
	assignmentService *service.AssignmentService
	contentService    *service.ContentService
	submissionService *service.SubmissionService
}

// NewStudentPortalHandler creates a new StudentPortalHandler.
func NewStudentPortalHandler(
	assignmentService *service.AssignmentService,
	contentService *service.ContentService,
	submissionService *service.SubmissionService,
) *StudentPortalHandler {
	return &StudentPortalHandler{
		assignmentService: assignmentService,
		contentService:    contentService,
		submissionService: submissionService,
	}
}

// ListAssignments godoc
// GET /api/v1/alumno/asignaciones
// Lists the authenticated student's assignments with the resolved test
// document and the per-student estado.
func (h *StudentPortalHandler) ListAssignments(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	views, err := h.assignmentService.ListForStudent(c.Request.Context(), claims.Usuario)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"asignaciones": views,
	})
}

// GetTestPaper godoc
// GET /api/v1/alumno/tests/:testType/:testId
// Returns the test document with its questions, correct answers stripped.
func (h *StudentPortalHandler) GetTestPaper(c *gin.Context) {
	subject, testID, ok := parseTestParams(c)
	if !ok {
		return
	}

	payload, err := h.contentService.GetTestPayload(c.Request.Context(), subject, testID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrTestNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, payload)
}

// ListResults godoc
// GET /api/v1/alumno/resultados
// Lists the authenticated student's submission history, newest first.
func (h *StudentPortalHandler) ListResults(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	results, err := h.submissionService.History(c.Request.Context(), claims.Usuario)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	if results == nil {
		results = []model.Result{}
	}

	response.Success(c, http.StatusOK, gin.H{
		"resultados": results,
	})
}

// SubmitAnswers godoc
// POST /api/v1/alumno/tests/:testType/:testId/envio
// Grades the student's answers, records the result, splits the cohort and
// notifies the subject's teachers.
func (h *StudentPortalHandler) SubmitAnswers(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	subject, testID, ok := parseTestParams(c)
	if !ok {
		return
	}

	var req model.SubmitAnswersRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	result, err := h.submissionService.Submit(
		c.Request.Context(),
		claims.Usuario,
		subject,
		testID,
		req.Answers,
		req.Timestamp,
	)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			response.Fail(c, http.StatusNotFound, response.ErrTestNotFound)
		case errors.Is(err, service.ErrNoQuestions):
			response.Fail(c, http.StatusConflict, response.ErrNoQuestions)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.SuccessWithMessage(c, http.StatusCreated, result, "Respuestas registradas correctamente.")
}

// parseTestParams validates the :testType and :testId route params. On
// failure it writes the error response and returns ok=false.
func parseTestParams(c *gin.Context) (model.Subject, uuid.UUID, bool) {
	subject := model.Subject(c.Param("testType"))
	if !model.ValidSubject(subject) {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidSubject)
		return "", uuid.Nil, false
	}

	testID, err := uuid.Parse(c.Param("testId"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return "", uuid.Nil, false
	}

	return subject, testID, true
}
