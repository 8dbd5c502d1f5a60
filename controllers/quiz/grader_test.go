package controllers

import (
	"encoding/json"
	"math/rand"
	"testing"

	quizModels "ssoma/models/quiz"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func option(id uint, text string, correct bool, orderIndex int) quizModels.QuestionOption {
	return quizModels.QuestionOption{
		Model:      gorm.Model{ID: id},
		OptionText: text,
		IsCorrect:  correct,
		OrderIndex: orderIndex,
	}
}

func rawJSON(t *testing.T, v interface{}) json.RawMessage {
	t.Helper()
	data, err := json.Marshal(v)
	assert.NoError(t, err)
	return data
}

func TestGradeSingleChoice(t *testing.T) {
	question := quizModels.Question{Type: quizModels.TypeSingleChoice, Points: 1}
	options := []quizModels.QuestionOption{
		option(1, "A", true, 0),
		option(2, "B", false, 1),
		option(3, "C", false, 2),
	}

	assert.True(t, gradeQuestion(question, options, rawJSON(t, 1)))
	assert.False(t, gradeQuestion(question, options, rawJSON(t, 2)))
	assert.False(t, gradeQuestion(question, options, nil))
	assert.False(t, gradeQuestion(question, options, json.RawMessage(`"not-an-id"`)))
}

func TestGradeTrueFalse(t *testing.T) {
	question := quizModels.Question{Type: quizModels.TypeTrueFalse, Points: 1}
	options := []quizModels.QuestionOption{
		option(10, "True", true, 0),
		option(11, "False", false, 1),
	}

	assert.True(t, gradeQuestion(question, options, rawJSON(t, 10)))
	assert.False(t, gradeQuestion(question, options, rawJSON(t, 11)))
}

func TestGradeMultipleChoiceSetEquality(t *testing.T) {
	question := quizModels.Question{Type: quizModels.TypeMultipleChoice, Points: 2}
	options := []quizModels.QuestionOption{
		option(1, "A", true, 0),
		option(2, "B", true, 1),
		option(3, "C", false, 2),
		option(4, "D", false, 3),
	}

	// Order-independent
	assert.True(t, gradeQuestion(question, options, rawJSON(t, []uint{1, 2})))
	assert.True(t, gradeQuestion(question, options, rawJSON(t, []uint{2, 1})))

	// No partial credit
	assert.False(t, gradeQuestion(question, options, rawJSON(t, []uint{1})))
	assert.False(t, gradeQuestion(question, options, rawJSON(t, []uint{1, 2, 3})))
	assert.False(t, gradeQuestion(question, options, rawJSON(t, []uint{1, 3})))
	assert.False(t, gradeQuestion(question, options, rawJSON(t, []uint{})))
}

func TestGradeOrderExactSequence(t *testing.T) {
	question := quizModels.Question{Type: quizModels.TypeOrder, Points: 3}
	// Stored out of sequence; OrderIndex defines the correct one
	options := []quizModels.QuestionOption{
		option(7, "third", false, 2),
		option(5, "first", false, 0),
		option(6, "second", false, 1),
	}

	assert.True(t, gradeQuestion(question, options, rawJSON(t, []uint{5, 6, 7})))
	assert.False(t, gradeQuestion(question, options, rawJSON(t, []uint{5, 7, 6})))
	assert.False(t, gradeQuestion(question, options, rawJSON(t, []uint{5, 6})))
	assert.False(t, gradeQuestion(question, options, rawJSON(t, []uint{5, 6, 7, 8})))
}

func TestGradeFillBlank(t *testing.T) {
	question := quizModels.Question{Type: quizModels.TypeFillBlank, Points: 1}
	options := []quizModels.QuestionOption{
		option(1, "Harness", true, 0),
		option(2, "Safety harness", true, 1),
		option(3, "wrong answer", false, 2),
	}

	assert.True(t, gradeQuestion(question, options, rawJSON(t, "harness")))
	assert.True(t, gradeQuestion(question, options, rawJSON(t, "  HARNESS  ")))
	assert.True(t, gradeQuestion(question, options, rawJSON(t, "safety HARNESS")))
	assert.False(t, gradeQuestion(question, options, rawJSON(t, "wrong answer")))
	assert.False(t, gradeQuestion(question, options, rawJSON(t, "helmet")))
}

func TestGradeUnknownTypeIncorrect(t *testing.T) {
	question := quizModels.Question{Type: "ESSAY", Points: 5}
	options := []quizModels.QuestionOption{option(1, "A", true, 0)}

	assert.False(t, gradeQuestion(question, options, rawJSON(t, 1)))
}

func TestValidateAnswerShapes(t *testing.T) {
	assert.NoError(t, validateAnswer(quizModels.TypeSingleChoice, rawJSON(t, 3)))
	assert.Error(t, validateAnswer(quizModels.TypeSingleChoice, rawJSON(t, []uint{3})))

	assert.NoError(t, validateAnswer(quizModels.TypeMultipleChoice, rawJSON(t, []uint{1, 2})))
	assert.Error(t, validateAnswer(quizModels.TypeMultipleChoice, rawJSON(t, 1)))

	assert.NoError(t, validateAnswer(quizModels.TypeOrder, rawJSON(t, []uint{1, 2, 3})))
	assert.Error(t, validateAnswer(quizModels.TypeOrder, rawJSON(t, "abc")))

	assert.NoError(t, validateAnswer(quizModels.TypeFillBlank, rawJSON(t, "text")))
	assert.Error(t, validateAnswer(quizModels.TypeFillBlank, rawJSON(t, 42)))

	// Unknown types pass shape validation and grade as incorrect instead
	assert.NoError(t, validateAnswer("ESSAY", rawJSON(t, "anything")))
}

func TestQuestionPointsOverride(t *testing.T) {
	override := 10
	link := quizModels.QuizQuestion{
		Question:       quizModels.Question{Points: 2},
		PointsOverride: &override,
	}
	assert.Equal(t, 10, questionPoints(link))

	link.PointsOverride = nil
	assert.Equal(t, 2, questionPoints(link))
}

func TestAttemptScore(t *testing.T) {
	assert.InDelta(t, 70.0, attemptScore(7, 10), 0.0001)
	assert.InDelta(t, 100.0, attemptScore(5, 5), 0.0001)
	assert.InDelta(t, 0.0, attemptScore(0, 10), 0.0001)

	// Zero-point quiz scores 0 instead of dividing by zero
	assert.InDelta(t, 0.0, attemptScore(0, 0), 0.0001)
	assert.InDelta(t, 0.0, attemptScore(3, 0), 0.0001)
}

func TestSelectAttemptQuestionsDeterministic(t *testing.T) {
	links := make([]quizModels.QuizQuestion, 6)
	for i := range links {
		links[i] = quizModels.QuizQuestion{
			Model:      gorm.Model{ID: uint(i + 1)},
			QuestionID: uint(i + 1),
			OrderIndex: i,
		}
	}

	// Same seed, same selection
	first := selectAttemptQuestions(rand.New(rand.NewSource(42)), links, true, 3)
	second := selectAttemptQuestions(rand.New(rand.NewSource(42)), links, true, 3)
	assert.Equal(t, first, second)
	assert.Len(t, first, 3)

	// No shuffle preserves the pool order
	ordered := selectAttemptQuestions(rand.New(rand.NewSource(1)), links, false, 0)
	assert.Len(t, ordered, 6)
	for i, link := range ordered {
		assert.Equal(t, uint(i+1), link.QuestionID)
	}

	// perAttempt larger than the pool returns the full pool
	all := selectAttemptQuestions(rand.New(rand.NewSource(1)), links, false, 10)
	assert.Len(t, all, 6)

	// The input slice is never mutated
	selectAttemptQuestions(rand.New(rand.NewSource(7)), links, true, 0)
	for i, link := range links {
		assert.Equal(t, uint(i+1), link.QuestionID)
	}
}

func TestShuffleAttemptOptionsKeepsElements(t *testing.T) {
	options := []quizModels.QuestionOption{
		option(1, "A", false, 0),
		option(2, "B", true, 1),
		option(3, "C", false, 2),
	}

	shuffled := shuffleAttemptOptions(rand.New(rand.NewSource(3)), options)
	assert.Len(t, shuffled, 3)

	seen := map[uint]bool{}
	for _, opt := range shuffled {
		seen[opt.ID] = true
	}
	assert.True(t, seen[1] && seen[2] && seen[3])

	// Original order untouched
	assert.Equal(t, uint(1), options[0].ID)
	assert.Equal(t, uint(2), options[1].ID)
	assert.Equal(t, uint(3), options[2].ID)
}

func TestCorrectOptionIDs(t *testing.T) {
	options := []quizModels.QuestionOption{
		option(1, "A", true, 0),
		option(2, "B", false, 1),
		option(3, "C", true, 2),
	}
	assert.Equal(t, []uint{1, 3}, correctOptionIDs(options))
	assert.Nil(t, correctOptionIDs([]quizModels.QuestionOption{option(4, "D", false, 0)}))
}
