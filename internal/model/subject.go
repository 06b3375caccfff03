package model

import "strings"

// Subject identifies one of the two fixed curricula.
type Subject string

const (
	SubjectMatematicas  Subject = "matematicas"
	SubjectComunicacion Subject = "comunicacion"
)

// Course names as they appear in a teacher's CURSO list.
const (
	CursoMatematicas  = "Matemáticas"
	CursoComunicacion = "Comunicación"
)

// ValidSubject reports whether s is one of the known subject tags.
func ValidSubject(s Subject) bool {
	return s == SubjectMatematicas || s == SubjectComunicacion
}

// SubjectSet is the set of subjects a teacher is authorized to see.
type SubjectSet map[Subject]struct{}

// Contains reports membership.
func (ss SubjectSet) Contains(s Subject) bool {
	_, ok := ss[s]
	return ok
}

// Slice returns the set as a sorted-by-constant-order slice for SQL binding.
func (ss SubjectSet) Slice() []Subject {
	out := make([]Subject, 0, len(ss))
	for _, s := range []Subject{SubjectMatematicas, SubjectComunicacion} {
		if ss.Contains(s) {
			out = append(out, s)
		}
	}
	return out
}

// Strings returns the set as plain strings, for text[] query parameters.
func (ss SubjectSet) Strings() []string {
	subjects := ss.Slice()
	out := make([]string, len(subjects))
	for i, s := range subjects {
		out[i] = string(s)
	}
	return out
}

// CoursesToSubjects maps a teacher's course list to the subjects they are
// authorized to teach. The mapping is a substring test against the two fixed
// course names; a course list matching neither yields an empty set, which
// scopes every teacher-facing operation to zero rows rather than erroring.
func CoursesToSubjects(courses []string) SubjectSet {
	set := make(SubjectSet, 2)
	for _, c := range courses {
		if strings.Contains(c, CursoMatematicas) {
			set[SubjectMatematicas] = struct{}{}
		}
		if strings.Contains(c, CursoComunicacion) {
			set[SubjectComunicacion] = struct{}{}
		}
	}
	return set
}
