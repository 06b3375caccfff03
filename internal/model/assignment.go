package model

import (
	"time"

	"github.com/google/uuid"
)

// AssignmentState enumerates ledger entry states.
type AssignmentState string

const (
	AssignmentStateAssigned  AssignmentState = "assigned"
	AssignmentStateCompleted AssignmentState = "completed"
)

// Assignment is one Assignment Ledger entry: a test bound to a cohort of
// students. A completed entry is either an exhausted cohort or a synthesized
// single-student marker recording one student's completion.
type Assignment struct {
	ID          uuid.UUID       `json:"id"`
	TestID      uuid.UUID       `json:"testId"`
	Subject     Subject         `json:"testType"`
	StudentIDs  []string        `json:"studentIds"`
	AssignedBy  string          `json:"asignadoPor"`
	AssignedAt  time.Time       `json:"fechaAsignacion"`
	DueAt       time.Time       `json:"fechaVencimiento"`
	State       AssignmentState `json:"estado"`
	CompletedAt *time.Time      `json:"fechaCompletado,omitempty"`
}

// CreateAssignmentRequest is the teacher's assign payload. Field names keep
// the domain's Spanish casing for client compatibility.
type CreateAssignmentRequest struct {
	TestIDs          []uuid.UUID `json:"testIds" binding:"required,min=1"`
	TestType         Subject     `json:"testType" binding:"required,oneof=matematicas comunicacion"`
	StudentIDs       []string    `json:"studentIds" binding:"required,min=1,dive,min=1"`
	FechaAsignacion  *time.Time  `json:"fechaAsignacion" binding:"omitempty"`
	FechaVencimiento *time.Time  `json:"fechaVencimiento" binding:"omitempty"`
}

// StudentAssignmentView is an assignment annotated for the student portal:
// the resolved test document plus the per-student estado, which flips to
// "completado" as soon as a Result exists even before the ledger mutation
// propagates.
type StudentAssignmentView struct {
	Assignment
	Test   *WeeklyTest `json:"test,omitempty"`
	Estado string      `json:"estadoAlumno"`
}

const (
	EstadoPendiente  = "pendiente"
	EstadoCompletado = "completado"
)
