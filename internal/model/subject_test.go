package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCoursesToSubjects(t *testing.T) {
	tests := []struct {
		name    string
		courses []string
		want    []Subject
	}{
		{
			name:    "exact names",
			courses: []string{"Matemáticas", "Comunicación"},
			want:    []Subject{SubjectMatematicas, SubjectComunicacion},
		},
		{
			name:    "course name with section suffix",
			courses: []string{"Matemáticas 5A"},
			want:    []Subject{SubjectMatematicas},
		},
		{
			name:    "substring inside longer label",
			courses: []string{"Taller de Comunicación Integral"},
			want:    []Subject{SubjectComunicacion},
		},
		{
			name:    "unrelated courses yield empty set",
			courses: []string{"Historia", "Ciencias Naturales"},
			want:    []Subject{},
		},
		{
			name:    "duplicates collapse",
			courses: []string{"Matemáticas 5A", "Matemáticas 5B"},
			want:    []Subject{SubjectMatematicas},
		},
		{
			name:    "no accent means no match",
			courses: []string{"Matematicas"},
			want:    []Subject{},
		},
		{
			name:    "nil course list",
			courses: nil,
			want:    []Subject{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CoursesToSubjects(tt.courses)
			assert.ElementsMatch(t, tt.want, got.Slice())
		})
	}
}

func TestSubjectSetContains(t *testing.T) {
	set := CoursesToSubjects([]string{"Matemáticas 5A"})
	assert.True(t, set.Contains(SubjectMatematicas))
	assert.False(t, set.Contains(SubjectComunicacion))
}

func TestValidSubject(t *testing.T) {
	assert.True(t, ValidSubject(SubjectMatematicas))
	assert.True(t, ValidSubject(SubjectComunicacion))
	assert.False(t, ValidSubject(Subject("historia")))
	assert.False(t, ValidSubject(Subject("")))
}
