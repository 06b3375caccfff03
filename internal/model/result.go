package model

import (
	"time"

	"github.com/google/uuid"
)

// PointsPerQuestion is fixed across all weekly tests.
const PointsPerQuestion = 2

// Result is one immutable submission record. Append-only; duplicate
// submissions by the same student produce additional rows, there is no
// uniqueness constraint.
type Result struct {
	ID                uuid.UUID         `json:"id"`
	StudentID         string            `json:"studentId"`
	TestID            uuid.UUID         `json:"testId"`
	Subject           Subject           `json:"testType"`
	Answers           map[string]string `json:"answers"`
	Score             int               `json:"score"`
	CorrectCount      int               `json:"correctAnswers"`
	TotalQuestions    int               `json:"totalQuestions"`
	EarnedPoints      int               `json:"earnedPoints"`
	TotalPoints       int               `json:"totalPoints"`
	PointsPerQuestion int               `json:"pointsPerQuestion"`
	SubmittedAt       time.Time         `json:"submittedAt"`
}

// SubmitAnswersRequest is the student's submission payload.
type SubmitAnswersRequest struct {
	Answers   map[string]string `json:"answers" binding:"required"`
	Timestamp *time.Time        `json:"timestamp" binding:"omitempty"`
}

// SubmissionResponse is the grading summary returned to the student.
type SubmissionResponse struct {
	Score             int `json:"score"`
	TotalQuestions    int `json:"totalQuestions"`
	CorrectAnswers    int `json:"correctAnswers"`
	EarnedPoints      int `json:"earnedPoints"`
	TotalPoints       int `json:"totalPoints"`
	PointsPerQuestion int `json:"pointsPerQuestion"`
	TimeSpent         int `json:"timeSpent"`
}
