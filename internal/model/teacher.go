package model

import "time"

// Teacher is a Maestro account. Cursos drives subject scoping: every
// teacher-facing operation is restricted to CoursesToSubjects(Cursos).
type Teacher struct {
	ID                int       `json:"id"`
	Usuario           string    `json:"usuario"`
	Correo            string    `json:"correo"`
	Nombre            string    `json:"nombre"`
	Cursos            []string  `json:"cursos"`
	PasswordHash      string    `json:"-"`
	CodigoInstitucion string    `json:"codigoInstitucion"`
	CreatedAt         time.Time `json:"createdAt"`
}

// Subjects returns the subject set implied by the teacher's course list.
func (t *Teacher) Subjects() SubjectSet {
	return CoursesToSubjects(t.Cursos)
}
