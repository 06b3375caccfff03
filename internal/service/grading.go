package service

import (
	"errors"
	"math"

	"github.com/graduat/graduat-backend/internal/model"
)

// ErrNoQuestions is returned when grading is attempted against a test with
// an empty answer key. Left unguarded this would divide by zero.
var ErrNoQuestions = errors.New("test has no questions")

// ScoreBreakdown is the outcome of grading one submission.
type ScoreBreakdown struct {
	Score             int
	CorrectCount      int
	TotalQuestions    int
	EarnedPoints      int
	TotalPoints       int
	PointsPerQuestion int
}

// Grade scores a submission against an answer key. Each question is worth a
// fixed two points; an answer counts only on exact string equality, with no
// partial credit and no case or whitespace normalization. The final score is
// earned/total as a percentage, rounded half up to an integer.
func Grade(answerKey map[string]string, answers map[string]string) (ScoreBreakdown, error) {
	total := len(answerKey)
	if total == 0 {
		return ScoreBreakdown{}, ErrNoQuestions
	}

	correct := 0
	for qID, correctAns := range answerKey {
		if submitted, ok := answers[qID]; ok && submitted == correctAns {
			correct++
		}
	}

	earned := correct * model.PointsPerQuestion
	totalPoints := total * model.PointsPerQuestion

	return ScoreBreakdown{
		Score:             int(math.Round(float64(earned) / float64(totalPoints) * 100)),
		CorrectCount:      correct,
		TotalQuestions:    total,
		EarnedPoints:      earned,
		TotalPoints:       totalPoints,
		PointsPerQuestion: model.PointsPerQuestion,
	}, nil
}
