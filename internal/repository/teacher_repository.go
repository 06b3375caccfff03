package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/graduat/graduat-backend/internal/model"
)

// TeacherRepository handles Maestro account data access.
type TeacherRepository struct {
	pool *pgxpool.Pool
}

// NewTeacherRepository creates a new TeacherRepository.
func NewTeacherRepository(pool *pgxpool.Pool) *TeacherRepository {
	return &TeacherRepository{pool: pool}
}

// Create inserts a teacher account. Used by cmd/create-teacher.
func (r *TeacherRepository) Create(ctx context.Context, t *model.Teacher) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO teachers (usuario, correo, nombre, cursos, password_hash, codigo_institucion)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at`,
		t.Usuario, t.Correo, t.Nombre, t.Cursos, t.PasswordHash, t.CodigoInstitucion,
	).Scan(&t.ID, &t.CreatedAt)
}

// GetByUsuario resolves a teacher by usuario, falling back to correo. The
// fallback mirrors the teacher-directory contract: some tokens carry the
// email where usuario is expected.
func (r *TeacherRepository) GetByUsuario(ctx context.Context, usuario string) (*model.Teacher, error) {
	t := &model.Teacher{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, usuario, correo, nombre, cursos, password_hash, codigo_institucion, created_at
		 FROM teachers WHERE usuario = $1 OR correo = $1`, usuario,
	).Scan(&t.ID, &t.Usuario, &t.Correo, &t.Nombre, &t.Cursos, &t.PasswordHash, &t.CodigoInstitucion, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return t, nil
}
