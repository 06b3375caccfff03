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

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// LoginAlumno godoc
// POST /api/v1/auth/alumno/login
// Authenticates a student by usuario (or correo) and password.
func (h *AuthHandler) LoginAlumno(c *gin.Context) {
	var req model.LoginRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	token, err := h.authService.LoginStudent(c.Request.Context(), req.Usuario, req.Contrasena)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			response.Fail(c, http.StatusUnauthorized, response.ErrInvalidCredentials)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, model.LoginResponse{Token: token})
}

// LoginMaestro godoc
// POST /api/v1/auth/maestro/login
// Authenticates a teacher by usuario (or correo) and password.
func (h *AuthHandler) LoginMaestro(c *gin.Context) {
	var req model.LoginRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	token, err := h.authService.LoginTeacher(c.Request.Context(), req.Usuario, req.Contrasena)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			response.Fail(c, http.StatusUnauthorized, response.ErrInvalidCredentials)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, model.LoginResponse{Token: token})
}

// GetAlumnoProfile godoc
// GET /api/v1/alumno/me
// Returns the profile of the currently authenticated student.
func (h *AuthHandler) GetAlumnoProfile(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	student, err := h.authService.GetStudent(c.Request.Context(), claims.Usuario)
	if err != nil {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"alumno": gin.H{
			"usuario":           student.Usuario,
			"correo":            student.Correo,
			"nombre":            student.Nombre,
			"codigoInstitucion": student.CodigoInstitucion,
		},
	})
}

// GetMaestroProfile godoc
// GET /api/v1/maestro/me
// Returns the profile of the currently authenticated teacher,
// including the subjects derived from their assigned courses.
func (h *AuthHandler) GetMaestroProfile(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	teacher, err := h.authService.GetTeacher(c.Request.Context(), claims.Usuario)
	if err != nil {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"maestro": gin.H{
			"usuario":           teacher.Usuario,
			"correo":            teacher.Correo,
			"nombre":            teacher.Nombre,
			"codigoInstitucion": teacher.CodigoInstitucion,
			"cursos":            teacher.Cursos,
			"materias":          teacher.Subjects().Strings(),
		},
	})
}
