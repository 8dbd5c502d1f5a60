package controllers

import (
	"encoding/json"
	"log"
	"math/rand"
	"strconv"
	"time"

	"ssoma/database"
	"ssoma/middleware"
	"ssoma/models"
	quizModels "ssoma/models/quiz"
	"ssoma/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// attemptOption is an answer-safe option payload: no is_correct flag, no
// order_index (the option order would leak ORDER answers).
type attemptOption struct {
	ID         uint   `json:"id"`
	OptionText string `json:"option_text"`
}

// attemptQuestion is an answer-safe question payload
type attemptQuestion struct {
	ID           uint            `json:"id"`
	QuestionText string          `json:"question_text"`
	Type         string          `json:"type"`
	Points       int             `json:"points"`
	Options      []attemptOption `json:"options"`
}

// questionResult is the per-question feedback returned on submission
type questionResult struct {
	QuestionID       uint   `json:"question_id"`
	Correct          bool   `json:"correct"`
	PointsAwarded    int    `json:"points_awarded"`
	Explanation      string `json:"explanation,omitempty"`
	CorrectOptionIDs []uint `json:"correct_option_ids,omitempty"` // only when the quiz shows correct answers
}

// getCollaborator resolves the calling user to a collaborator profile.
// On failure it writes the rejection response itself and returns ok=false;
// the handler must return nil so the written response stands.
func getCollaborator(c *fiber.Ctx) (*models.Collaborator, bool) {
	userID, idOk := c.Locals("userId").(uint)
	if !idOk {
		middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
		return nil, false
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
		return nil, false
	}

	var collaborator models.Collaborator
	if err := database.Database.Db.Where("user_id = ? AND is_deleted = ?", userID, false).First(&collaborator).Error; err != nil {
		middleware.JsonResponse(c, fiber.StatusForbidden, false, "No collaborator profile linked to this account!", nil)
		return nil, false
	}

	return &collaborator, true
}

// StartQuizAttempt starts (or resumes) a quiz attempt. Exactly one
// IN_PROGRESS attempt exists per collaborator and quiz; double-clicking
// "start" resumes the open attempt instead of creating a duplicate.
func StartQuizAttempt(c *fiber.Ctx) error {
	collaborator, ok := getCollaborator(c)
	if !ok {
		return nil
	}

	quizID := c.Locals("quizID").(int)

	var quiz quizModels.Quiz
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", quizID, false).First(&quiz).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Quiz not found!", nil)
	}

	if quiz.Status != quizModels.StatusPublished {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Quiz is not published!", nil)
	}

	var attempt quizModels.QuizAttempt
	var resumed bool
	var rejected bool

	txErr := database.Database.Db.Transaction(func(tx *gorm.DB) error {
		// Lock prior attempts so two concurrent starts serialize
		var priorAttempts []quizModels.QuizAttempt
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("quiz_id = ? AND collaborator_id = ? AND is_deleted = ?", quiz.ID, collaborator.ID, false).
			Order("attempt_number desc").
			Find(&priorAttempts).Error; err != nil {
			return err
		}

		// Idempotent resume of an open attempt
		if len(priorAttempts) > 0 && priorAttempts[0].Status == quizModels.AttemptInProgress {
			attempt = priorAttempts[0]
			resumed = true
			return nil
		}

		if quiz.MaxAttempts > 0 && len(priorAttempts) >= quiz.MaxAttempts {
			middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Maximum attempts reached for this quiz!", nil)
			rejected = true
			return nil
		}

		// A failed attempt blocks retries until its remediation is done
		if len(priorAttempts) > 0 {
			last := priorAttempts[0]
			if last.Status == quizModels.AttemptFailed && last.RequiresRemediation && !last.RemediationCompleted {
				middleware.JsonResponse(c, fiber.StatusUnprocessableEntity, false, "Remediation required before retrying!", fiber.Map{
					"requires_remediation": true,
					"blocking_attempt_id":  last.ID,
				})
				rejected = true
				return nil
			}
		}

		var links []quizModels.QuizQuestion
		if err := tx.Where("quiz_id = ? AND is_deleted = ?", quiz.ID, false).
			Preload("Question").
			Order("order_index asc").
			Find(&links).Error; err != nil {
			return err
		}
		if len(links) == 0 {
			middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Quiz has no questions!", nil)
			rejected = true
			return nil
		}

		rng := rand.New(rand.NewSource(time.Now().UnixNano()))
		selected := selectAttemptQuestions(rng, links, quiz.ShuffleQuestions, quiz.QuestionsPerAttempt)

		pointsTotal := 0
		questionIDs := make([]uint, len(selected))
		for i, link := range selected {
			pointsTotal += questionPoints(link)
			questionIDs[i] = link.QuestionID
		}

		// The selected question set and its point total are frozen into the
		// attempt; later quiz edits do not affect it.
		idsJSON, err := json.Marshal(questionIDs)
		if err != nil {
			return err
		}

		attempt = quizModels.QuizAttempt{
			QuizID:         quiz.ID,
			CollaboratorID: collaborator.ID,
			AttemptNumber:  len(priorAttempts) + 1,
			Status:         quizModels.AttemptInProgress,
			QuestionIDs:    idsJSON,
			PointsTotal:    pointsTotal,
			StartedAt:      time.Now(),
		}

		return tx.Create(&attempt).Error
	})
	if txErr != nil {
		log.Printf("Error starting quiz attempt: %v", txErr)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to start quiz attempt!", nil)
	}
	if rejected {
		return nil
	}

	questions, err := buildAttemptQuestions(quiz, attempt)
	if err != nil {
		log.Printf("Error building attempt questions: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to load quiz questions!", nil)
	}

	message := "Quiz attempt started!"
	if resumed {
		message = "Quiz attempt resumed!"
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, message, fiber.Map{
		"attempt": attempt,
		"quiz": fiber.Map{
			"id":            quiz.ID,
			"title":         quiz.Title,
			"passing_score": quiz.PassingScore,
			"time_limit":    quiz.TimeLimit,
			"max_attempts":  quiz.MaxAttempts,
		},
		"questions": questions,
	})
}

// buildAttemptQuestions renders the attempt's frozen question set as
// answer-safe payloads in the frozen order.
func buildAttemptQuestions(quiz quizModels.Quiz, attempt quizModels.QuizAttempt) ([]attemptQuestion, error) {
	var questionIDs []uint
	if err := json.Unmarshal(attempt.QuestionIDs, &questionIDs); err != nil {
		return nil, err
	}

	var links []quizModels.QuizQuestion
	if err := database.Database.Db.Where("quiz_id = ? AND question_id IN ? AND is_deleted = ?", quiz.ID, questionIDs, false).
		Preload("Question").
		Find(&links).Error; err != nil {
		return nil, err
	}

	linkByQuestion := make(map[uint]quizModels.QuizQuestion, len(links))
	for _, link := range links {
		linkByQuestion[link.QuestionID] = link
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	questions := make([]attemptQuestion, 0, len(questionIDs))
	for _, questionID := range questionIDs {
		link, ok := linkByQuestion[questionID]
		if !ok {
			continue
		}

		var options []quizModels.QuestionOption
		database.Database.Db.Where("question_id = ? AND is_deleted = ?", questionID, false).Order("order_index asc").Find(&options)

		if quiz.ShuffleOptions {
			options = shuffleAttemptOptions(rng, options)
		}

		safeOptions := make([]attemptOption, len(options))
		for i, option := range options {
			safeOptions[i] = attemptOption{ID: option.ID, OptionText: option.OptionText}
		}

		questions = append(questions, attemptQuestion{
			ID:           link.Question.ID,
			QuestionText: link.Question.QuestionText,
			Type:         link.Question.Type,
			Points:       questionPoints(link),
			Options:      safeOptions,
		})
	}

	return questions, nil
}

// SubmitQuizAttempt grades an open attempt. Grading is all-or-nothing: the
// answer payload is validated up front and the terminal status is written
// with a conditional update so a double submit cannot grade twice.
func SubmitQuizAttempt(c *fiber.Ctx) error {
	collaborator, ok := getCollaborator(c)
	if !ok {
		return nil
	}

	attemptID := c.Locals("attemptID").(int)

	var attempt quizModels.QuizAttempt
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", attemptID, false).First(&attempt).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Attempt not found!", nil)
	}

	if attempt.CollaboratorID != collaborator.ID {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Attempt does not belong to this collaborator!", nil)
	}

	if attempt.Status != quizModels.AttemptInProgress {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Attempt already submitted!", nil)
	}

	var quiz quizModels.Quiz
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", attempt.QuizID, false).First(&quiz).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Quiz not found!", nil)
	}

	reqData, ok := c.Locals("validatedAttemptAnswers").(*struct {
		Answers map[string]json.RawMessage `json:"answers"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	answers := make(map[uint]json.RawMessage, len(reqData.Answers))
	for key, raw := range reqData.Answers {
		questionID, err := strconv.ParseUint(key, 10, 64)
		if err != nil {
			return middleware.ValidationErrorResponse(c, map[string]string{key: "Invalid question id!"})
		}
		answers[uint(questionID)] = raw
	}

	// Load the frozen question set
	var questionIDs []uint
	if err := json.Unmarshal(attempt.QuestionIDs, &questionIDs); err != nil {
		log.Printf("Error decoding attempt question ids: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to grade attempt!", nil)
	}

	var links []quizModels.QuizQuestion
	if err := database.Database.Db.Where("quiz_id = ? AND question_id IN ? AND is_deleted = ?", quiz.ID, questionIDs, false).
		Preload("Question").
		Find(&links).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to load quiz questions!", nil)
	}

	linkByQuestion := make(map[uint]quizModels.QuizQuestion, len(links))
	for _, link := range links {
		linkByQuestion[link.QuestionID] = link
	}

	// Validate every answer shape before any grading happens
	validationErrors := make(map[string]string)
	for _, questionID := range questionIDs {
		link, ok := linkByQuestion[questionID]
		if !ok {
			continue
		}
		raw, answered := answers[questionID]
		if !answered {
			continue
		}
		if err := validateAnswer(link.Question.Type, raw); err != nil {
			validationErrors[strconv.FormatUint(uint64(questionID), 10)] = err.Error()
		}
	}
	if len(validationErrors) > 0 {
		return middleware.ValidationErrorResponse(c, validationErrors)
	}

	// Grade
	now := time.Now()
	pointsEarned := 0
	correctCount := 0
	results := make([]questionResult, 0, len(questionIDs))
	for _, questionID := range questionIDs {
		link, ok := linkByQuestion[questionID]
		if !ok {
			continue
		}

		var options []quizModels.QuestionOption
		database.Database.Db.Where("question_id = ? AND is_deleted = ?", questionID, false).Order("order_index asc").Find(&options)

		correct := gradeQuestion(link.Question, options, answers[questionID])
		awarded := 0
		if correct {
			awarded = questionPoints(link)
			pointsEarned += awarded
			correctCount++
		}

		result := questionResult{
			QuestionID:    questionID,
			Correct:       correct,
			PointsAwarded: awarded,
			Explanation:   link.Question.Explanation,
		}
		if quiz.ShowCorrectAnswers {
			result.CorrectOptionIDs = correctOptionIDs(options)
		}
		results = append(results, result)
	}

	score := attemptScore(pointsEarned, attempt.PointsTotal)
	passed := score >= float64(quiz.PassingScore)

	status := quizModels.AttemptFailed
	if passed {
		status = quizModels.AttemptPassed
	}

	answersJSON, err := json.Marshal(reqData.Answers)
	if err != nil {
		log.Printf("Error encoding attempt answers: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to grade attempt!", nil)
	}

	// Conditional update: only one submission can move the attempt out of
	// IN_PROGRESS.
	updateResult := database.Database.Db.Model(&quizModels.QuizAttempt{}).
		Where("id = ? AND status = ?", attempt.ID, quizModels.AttemptInProgress).
		Updates(map[string]interface{}{
			"status":               status,
			"answers":              answersJSON,
			"score":                score,
			"points_earned":        pointsEarned,
			"submitted_at":         now,
			"time_spent":           int(now.Sub(attempt.StartedAt).Seconds()),
			"requires_remediation": !passed,
		})
	if updateResult.Error != nil {
		log.Printf("Error updating attempt: %v", updateResult.Error)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to submit attempt!", nil)
	}
	if updateResult.RowsAffected == 0 {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Attempt already submitted!", nil)
	}

	if !passed {
		utils.NotifyQuizFailed(collaborator.ID, quiz.Title)
	}

	database.Database.Db.Where("id = ?", attempt.ID).First(&attempt)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Attempt submitted!", fiber.Map{
		"attempt": attempt,
		"results": results,
		"summary": fiber.Map{
			"score":           score,
			"passed":          passed,
			"points_earned":   pointsEarned,
			"points_total":    attempt.PointsTotal,
			"correct_count":   correctCount,
			"total_questions": len(results),
		},
	})
}

// CompleteRemediation marks a failed attempt's remediation as done,
// unblocking new attempts for the quiz.
func CompleteRemediation(c *fiber.Ctx) error {
	collaborator, ok := getCollaborator(c)
	if !ok {
		return nil
	}

	attemptID := c.Locals("attemptID").(int)

	var attempt quizModels.QuizAttempt
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", attemptID, false).First(&attempt).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Attempt not found!", nil)
	}

	if attempt.CollaboratorID != collaborator.ID {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Attempt does not belong to this collaborator!", nil)
	}

	if !attempt.RequiresRemediation {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Attempt does not require remediation!", nil)
	}

	if attempt.RemediationCompleted {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Remediation already completed!", nil)
	}

	attempt.RemediationCompleted = true
	if err := database.Database.Db.Save(&attempt).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to complete remediation!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Remediation completed!", attempt)
}

// GetQuizAttempts lists the caller's attempts for a quiz
func GetQuizAttempts(c *fiber.Ctx) error {
	collaborator, ok := getCollaborator(c)
	if !ok {
		return nil
	}

	quizID := c.Locals("quizID").(int)

	var attempts []quizModels.QuizAttempt
	if err := database.Database.Db.Where("quiz_id = ? AND collaborator_id = ? AND is_deleted = ?", quizID, collaborator.ID, false).
		Order("attempt_number desc").
		Find(&attempts).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch attempts!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Attempts fetched successfully!", attempts)
}
