package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/graduat/graduat-backend/internal/config"
	"github.com/graduat/graduat-backend/internal/model"
	"github.com/graduat/graduat-backend/internal/repository"
)

// ErrInvalidCredentials is returned for any usuario/contraseña mismatch.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Rol values carried in the JWT. Other roles exist in the wider system
// (Director, Supervisor, Admin) but the engine only gates these two.
const (
	RolAlumno  = "Alumno"
	RolMaestro = "Maestro"
)

// Claims extends JWT standard claims with the identity fields the engine
// trusts: usuario, rol and the institution code.
type Claims struct {
	jwt.RegisteredClaims
	Usuario           string `json:"usuario"`
	Rol               string `json:"rol"`
	CodigoInstitucion string `json:"codigoInstitucion,omitempty"`
}

// AuthService handles credential checks and JWT issuance/validation.
type AuthService struct {
	cfg      *config.Config
	students repository.StudentStore
	teachers repository.TeacherStore
}

// NewAuthService creates a new AuthService.
func NewAuthService(cfg *config.Config, students repository.StudentStore, teachers repository.TeacherStore) *AuthService {
	return &AuthService{cfg: cfg, students: students, teachers: teachers}
}

// HashPassword hashes a password with the configured bcrypt cost.
func (s *AuthService) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cfg.BcryptCost)
	return string(hash), err
}

// CheckPassword compares a plaintext password against a bcrypt hash.
func (s *AuthService) CheckPassword(hash, password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}

// LoginStudent validates alumno credentials and returns a signed token.
func (s *AuthService) LoginStudent(ctx context.Context, usuario, contrasena string) (string, error) {
	student, err := s.students.GetByUsuario(ctx, usuario)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", fmt.Errorf("lookup student: %w", err)
	}
	if err := s.CheckPassword(student.PasswordHash, contrasena); err != nil {
		return "", err
	}
	return s.generateToken(student.Usuario, RolAlumno, student.CodigoInstitucion)
}

// LoginTeacher validates maestro credentials and returns a signed token.
func (s *AuthService) LoginTeacher(ctx context.Context, usuario, contrasena string) (string, error) {
	teacher, err := s.teachers.GetByUsuario(ctx, usuario)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", fmt.Errorf("lookup teacher: %w", err)
	}
	if err := s.CheckPassword(teacher.PasswordHash, contrasena); err != nil {
		return "", err
	}
	return s.generateToken(teacher.Usuario, RolMaestro, teacher.CodigoInstitucion)
}

// GetStudent resolves the student behind a token's usuario claim.
func (s *AuthService) GetStudent(ctx context.Context, usuario string) (*model.Student, error) {
	return s.students.GetByUsuario(ctx, usuario)
}

// GetTeacher resolves the teacher behind a token's usuario claim.
func (s *AuthService) GetTeacher(ctx context.Context, usuario string) (*model.Teacher, error) {
	return s.teachers.GetByUsuario(ctx, usuario)
}

func (s *AuthService) generateToken(usuario, rol, codigoInstitucion string) (string, error) {
	now := time.Now()

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   usuario,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.JWTExpiry)),
		},
		Usuario:           usuario,
		Rol:               rol,
		CodigoInstitucion: codigoInstitucion,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken parses and validates a JWT, returning the claims.
func (s *AuthService) ValidateToken(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}

	return claims, nil
}
