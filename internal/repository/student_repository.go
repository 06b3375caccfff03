package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/graduat/graduat-backend/internal/model"
)

// StudentRepository handles Alumno account lookups.
type StudentRepository struct {
	pool *pgxpool.Pool
}

// NewStudentRepository creates a new StudentRepository.
func NewStudentRepository(pool *pgxpool.Pool) *StudentRepository {
	return &StudentRepository{pool: pool}
}

// GetByUsuario resolves a student by usuario.
func (r *StudentRepository) GetByUsuario(ctx context.Context, usuario string) (*model.Student, error) {
	s := &model.Student{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, usuario, correo, nombre, password_hash, codigo_institucion, created_at
		 FROM students WHERE usuario = $1`, usuario,
	).Scan(&s.ID, &s.Usuario, &s.Correo, &s.Nombre, &s.PasswordHash, &s.CodigoInstitucion, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s, nil
}
