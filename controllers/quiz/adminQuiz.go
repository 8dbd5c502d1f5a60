package controllers

import (
	"ssoma/database"
	"ssoma/middleware"
	"ssoma/models"
	courseModels "ssoma/models/course"
	quizModels "ssoma/models/quiz"

	"github.com/gofiber/fiber/v2"
)

// requireAdmin resolves the calling user and rejects non-admins. On
// rejection it writes the response itself and returns ok=false; the
// handler must return nil so the written response stands.
func requireAdmin(c *fiber.Ctx) (*models.User, bool) {
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

	if user.Role != "ADMIN" {
		middleware.JsonResponse(c, fiber.StatusForbidden, false, "Access denied! Admin only.", nil)
		return nil, false
	}

	return &user, true
}

// QuizPayload is the admin create/update quiz body
type QuizPayload struct {
	CourseID            uint   `json:"course_id" validate:"required"`
	Title               string `json:"title" validate:"required,min=3,max=255"`
	Description         string `json:"description"`
	PassingScore        int    `json:"passing_score" validate:"min=0,max=100"`
	MaxAttempts         int    `json:"max_attempts" validate:"min=0"`
	TimeLimit           int    `json:"time_limit" validate:"min=0"`
	ShuffleQuestions    bool   `json:"shuffle_questions"`
	ShuffleOptions      bool   `json:"shuffle_options"`
	QuestionsPerAttempt int    `json:"questions_per_attempt" validate:"min=0"`
	ShowCorrectAnswers  bool   `json:"show_correct_answers"`
}

// QuestionPayload is the admin create question body
type QuestionPayload struct {
	QuestionText string `json:"question_text" validate:"required"`
	Type         string `json:"type" validate:"required,oneof=SINGLE_CHOICE MULTIPLE_CHOICE TRUE_FALSE ORDER FILL_BLANK"`
	Points       int    `json:"points" validate:"min=1"`
	Explanation  string `json:"explanation"`
	Options      []struct {
		OptionText string `json:"option_text" validate:"required"`
		IsCorrect  bool   `json:"is_correct"`
		OrderIndex int    `json:"order_index"`
	} `json:"options" validate:"required,min=1,dive"`
}

// AdminCreateQuiz creates a quiz for a course
func AdminCreateQuiz(c *fiber.Ctx) error {
	if _, ok := requireAdmin(c); !ok {
		return nil
	}

	reqData, ok := c.Locals("validatedQuiz").(*QuizPayload)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", reqData.CourseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	quiz := quizModels.Quiz{
		CourseID:            reqData.CourseID,
		Title:               reqData.Title,
		Description:         reqData.Description,
		PassingScore:        reqData.PassingScore,
		MaxAttempts:         reqData.MaxAttempts,
		TimeLimit:           reqData.TimeLimit,
		ShuffleQuestions:    reqData.ShuffleQuestions,
		ShuffleOptions:      reqData.ShuffleOptions,
		QuestionsPerAttempt: reqData.QuestionsPerAttempt,
		ShowCorrectAnswers:  reqData.ShowCorrectAnswers,
		Status:              quizModels.StatusDraft,
	}

	if err := database.Database.Db.Create(&quiz).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create quiz!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Quiz created successfully!", quiz)
}

// AdminUpdateQuiz updates a quiz configuration
func AdminUpdateQuiz(c *fiber.Ctx) error {
	if _, ok := requireAdmin(c); !ok {
		return nil
	}

	quizID := c.Locals("quizID").(int)

	var quiz quizModels.Quiz
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", quizID, false).First(&quiz).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Quiz not found!", nil)
	}

	reqData, ok := c.Locals("validatedQuiz").(*QuizPayload)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	quiz.Title = reqData.Title
	quiz.Description = reqData.Description
	quiz.PassingScore = reqData.PassingScore
	quiz.MaxAttempts = reqData.MaxAttempts
	quiz.TimeLimit = reqData.TimeLimit
	quiz.ShuffleQuestions = reqData.ShuffleQuestions
	quiz.ShuffleOptions = reqData.ShuffleOptions
	quiz.QuestionsPerAttempt = reqData.QuestionsPerAttempt
	quiz.ShowCorrectAnswers = reqData.ShowCorrectAnswers

	if err := database.Database.Db.Save(&quiz).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update quiz!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz updated successfully!", quiz)
}

// AdminPublishQuiz moves a quiz from DRAFT to PUBLISHED
func AdminPublishQuiz(c *fiber.Ctx) error {
	if _, ok := requireAdmin(c); !ok {
		return nil
	}

	quizID := c.Locals("quizID").(int)

	var quiz quizModels.Quiz
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", quizID, false).First(&quiz).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Quiz not found!", nil)
	}

	var questionCount int64
	database.Database.Db.Model(&quizModels.QuizQuestion{}).Where("quiz_id = ? AND is_deleted = ?", quizID, false).Count(&questionCount)
	if questionCount == 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Cannot publish a quiz without questions!", nil)
	}

	quiz.Status = quizModels.StatusPublished
	if err := database.Database.Db.Save(&quiz).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to publish quiz!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz published successfully!", quiz)
}

// AdminCreateQuestion creates a question with its options and links it into
// a quiz.
func AdminCreateQuestion(c *fiber.Ctx) error {
	if _, ok := requireAdmin(c); !ok {
		return nil
	}

	quizID := c.Locals("quizID").(int)

	var quiz quizModels.Quiz
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", quizID, false).First(&quiz).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Quiz not found!", nil)
	}

	reqData, ok := c.Locals("validatedQuestion").(*QuestionPayload)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	question := quizModels.Question{
		QuestionText: reqData.QuestionText,
		Type:         reqData.Type,
		Points:       reqData.Points,
		Explanation:  reqData.Explanation,
	}

	tx := database.Database.Db.Begin()
	if err := tx.Create(&question).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create question!", nil)
	}

	for _, optionData := range reqData.Options {
		option := quizModels.QuestionOption{
			QuestionID: question.ID,
			OptionText: optionData.OptionText,
			IsCorrect:  optionData.IsCorrect,
			OrderIndex: optionData.OrderIndex,
		}
		if err := tx.Create(&option).Error; err != nil {
			tx.Rollback()
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create question options!", nil)
		}
	}

	var linkCount int64
	tx.Model(&quizModels.QuizQuestion{}).Where("quiz_id = ? AND is_deleted = ?", quizID, false).Count(&linkCount)

	link := quizModels.QuizQuestion{
		QuizID:     uint(quizID),
		QuestionID: question.ID,
		OrderIndex: int(linkCount),
	}
	if err := tx.Create(&link).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to link question to quiz!", nil)
	}
	tx.Commit()

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Question created successfully!", fiber.Map{
		"question": question,
		"link":     link,
	})
}

// AdminListQuizzes lists all quizzes with question counts
func AdminListQuizzes(c *fiber.Ctx) error {
	if _, ok := requireAdmin(c); !ok {
		return nil
	}

	var quizzes []quizModels.Quiz
	if err := database.Database.Db.Where("is_deleted = ?", false).Order("created_at desc").Find(&quizzes).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch quizzes!", nil)
	}

	type quizWithCount struct {
		quizModels.Quiz
		QuestionCount int64 `json:"question_count"`
	}

	result := make([]quizWithCount, len(quizzes))
	for i, quiz := range quizzes {
		var count int64
		database.Database.Db.Model(&quizModels.QuizQuestion{}).Where("quiz_id = ? AND is_deleted = ?", quiz.ID, false).Count(&count)
		result[i] = quizWithCount{Quiz: quiz, QuestionCount: count}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quizzes fetched successfully!", result)
}
