package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// WeeklyTest is an immutable content-store document: one test authored for a
// subject and week. The engine only ever reads these.
type WeeklyTest struct {
	ID         uuid.UUID `json:"id"`
	Subject    Subject   `json:"subject"`
	WeekNumber int       `json:"weekNumber"`
	Title      string    `json:"titulo"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Question is a single question inside a weekly test.
type Question struct {
	ID            uuid.UUID       `json:"id"`
	TestID        uuid.UUID       `json:"testId"`
	Prompt        string          `json:"pregunta"`
	Options       json.RawMessage `json:"opciones,omitempty"`
	CorrectAnswer string          `json:"-"`
	OrderNum      int             `json:"orden"`
}

// TestPayload is the Redis-cached document served to students. Correct
// answers never leave the server.
type TestPayload struct {
	TestID     uuid.UUID            `json:"testId"`
	Subject    Subject              `json:"subject"`
	WeekNumber int                  `json:"weekNumber"`
	Title      string               `json:"titulo"`
	Questions  []QuestionForStudent `json:"preguntas"`
}

// QuestionForStudent is a question stripped of its correct answer.
type QuestionForStudent struct {
	ID       uuid.UUID       `json:"id"`
	Prompt   string          `json:"pregunta"`
	Options  json.RawMessage `json:"opciones,omitempty"`
	OrderNum int             `json:"orden"`
}
