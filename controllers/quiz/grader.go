package controllers

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"sort"
	"strings"

	quizModels "ssoma/models/quiz"
)

// questionPoints returns the points a question is worth inside a quiz,
// honoring the per-quiz override.
func questionPoints(link quizModels.QuizQuestion) int {
	if link.PointsOverride != nil {
		return *link.PointsOverride
	}
	return link.Question.Points
}

// selectAttemptQuestions picks the question set for a new attempt from the
// quiz's ordered pool: shuffle first when configured, then truncate to
// questionsPerAttempt (first N of the shuffled sequence).
func selectAttemptQuestions(rng *rand.Rand, links []quizModels.QuizQuestion, shuffle bool, perAttempt int) []quizModels.QuizQuestion {
	selected := make([]quizModels.QuizQuestion, len(links))
	copy(selected, links)

	if shuffle {
		rng.Shuffle(len(selected), func(i, j int) {
			selected[i], selected[j] = selected[j], selected[i]
		})
	}

	if perAttempt > 0 && perAttempt < len(selected) {
		selected = selected[:perAttempt]
	}

	return selected
}

// shuffleAttemptOptions returns a shuffled copy of a question's options
func shuffleAttemptOptions(rng *rand.Rand, options []quizModels.QuestionOption) []quizModels.QuestionOption {
	shuffled := make([]quizModels.QuestionOption, len(options))
	copy(shuffled, options)
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	return shuffled
}

// validateAnswer checks the answer payload shape for a question type before
// any grading happens. Unknown types are not a validation error; they grade
// as incorrect.
func validateAnswer(questionType string, raw json.RawMessage) error {
	switch questionType {
	case quizModels.TypeSingleChoice, quizModels.TypeTrueFalse:
		var id uint
		if err := json.Unmarshal(raw, &id); err != nil {
			return fmt.Errorf("expected a single option id")
		}
	case quizModels.TypeMultipleChoice, quizModels.TypeOrder:
		var ids []uint
		if err := json.Unmarshal(raw, &ids); err != nil {
			return fmt.Errorf("expected an array of option ids")
		}
	case quizModels.TypeFillBlank:
		var text string
		if err := json.Unmarshal(raw, &text); err != nil {
			return fmt.Errorf("expected a text answer")
		}
	}
	return nil
}

// gradeQuestion scores one answer against a question's options. A missing
// or malformed answer grades as incorrect; validation happens beforehand.
func gradeQuestion(question quizModels.Question, options []quizModels.QuestionOption, raw json.RawMessage) bool {
	if raw == nil {
		return false
	}

	switch question.Type {
	case quizModels.TypeSingleChoice, quizModels.TypeTrueFalse:
		var id uint
		if err := json.Unmarshal(raw, &id); err != nil {
			return false
		}
		correct := correctOptionIDs(options)
		return len(correct) == 1 && correct[0] == id

	case quizModels.TypeMultipleChoice:
		var ids []uint
		if err := json.Unmarshal(raw, &ids); err != nil {
			return false
		}
		// Set equality, order-independent, no partial credit
		correct := correctOptionIDs(options)
		if len(ids) != len(correct) {
			return false
		}
		submitted := make([]uint, len(ids))
		copy(submitted, ids)
		sort.Slice(submitted, func(i, j int) bool { return submitted[i] < submitted[j] })
		sort.Slice(correct, func(i, j int) bool { return correct[i] < correct[j] })
		for i := range correct {
			if submitted[i] != correct[i] {
				return false
			}
		}
		return true

	case quizModels.TypeOrder:
		var ids []uint
		if err := json.Unmarshal(raw, &ids); err != nil {
			return false
		}
		// Exact sequence against the defined option order
		expected := make([]quizModels.QuestionOption, len(options))
		copy(expected, options)
		sort.Slice(expected, func(i, j int) bool { return expected[i].OrderIndex < expected[j].OrderIndex })
		if len(ids) != len(expected) {
			return false
		}
		for i := range expected {
			if ids[i] != expected[i].ID {
				return false
			}
		}
		return true

	case quizModels.TypeFillBlank:
		var text string
		if err := json.Unmarshal(raw, &text); err != nil {
			return false
		}
		// Case- and whitespace-insensitive match against any accepted answer
		submitted := strings.TrimSpace(text)
		for _, option := range options {
			if option.IsCorrect && strings.EqualFold(submitted, strings.TrimSpace(option.OptionText)) {
				return true
			}
		}
		return false
	}

	// Unsupported type: incorrect, no points
	return false
}

// correctOptionIDs collects the ids of the options flagged correct
func correctOptionIDs(options []quizModels.QuestionOption) []uint {
	var ids []uint
	for _, option := range options {
		if option.IsCorrect {
			ids = append(ids, option.ID)
		}
	}
	return ids
}

// attemptScore computes the percentage score against the attempt's frozen
// point total. A zero-point attempt scores 0 rather than dividing by zero.
func attemptScore(pointsEarned, pointsTotal int) float64 {
	if pointsTotal <= 0 {
		return 0
	}
	return float64(pointsEarned) / float64(pointsTotal) * 100
}
