package model

import (
	"time"

	"github.com/google/uuid"
)

// NotificationType enumerates notification kinds. Only submissions emit
// notifications today.
type NotificationType string

const NotificationTestCompleted NotificationType = "test_completed"

// Notification is a teacher-facing record of a student's submission.
// Mutated only by mark-as-read.
type Notification struct {
	ID        uuid.UUID        `json:"id"`
	Type      NotificationType `json:"type"`
	StudentID string           `json:"studentId"`
	TestID    uuid.UUID        `json:"testId"`
	Subject   Subject          `json:"testType"`
	Score     int              `json:"score"`
	Read      bool             `json:"read"`
	CreatedAt time.Time        `json:"createdAt"`
}
