// Package quiz contains the scoring evaluator and the timed session
// state machine. Both are pure with respect to storage; persisting an
// attempt is the caller's job.
package quiz

import (
	"errors"
	"math"

	"tsinda/internal/model"
)

// ErrNoQuestions is returned when a quiz has no questions. Scoring an
// empty question set would divide by zero, so it is rejected here and
// at quiz-load time.
var ErrNoQuestions = errors.New("quiz has no questions")

// ScoreResult is the outcome of scoring one submission.
type ScoreResult struct {
	CorrectCount   int
	TotalQuestions int
	PercentScore   int
	Passed         bool
}

// Score evaluates submitted answers against the question set. A match
// requires the submitted index to equal the question's correct-answer
// index exactly; a question with no entry in submitted counts as
// incorrect. The percentage is rounded half-up and compared against
// passThreshold with >=.
func Score(questions []model.Question, submitted map[string]int, passThreshold int) (ScoreResult, error) {
	if len(questions) == 0 {
		return ScoreResult{}, ErrNoQuestions
	}

	correct := 0
	for _, q := range questions {
		if idx, ok := submitted[q.ID]; ok && idx == q.CorrectAnswer {
			correct++
		}
	}

	percent := int(math.Round(float64(correct) / float64(len(questions)) * 100))
	return ScoreResult{
		CorrectCount:   correct,
		TotalQuestions: len(questions),
		PercentScore:   percent,
		Passed:         percent >= passThreshold,
	}, nil
}
