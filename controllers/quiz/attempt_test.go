package controllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"ssoma/config"
	"ssoma/database"
	"ssoma/models"
	quizModels "ssoma/models/quiz"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestMain(m *testing.M) {
	config.LoadConfig()
	os.Exit(m.Run())
}

type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	database.RunMigrations(db)
	database.Database = database.DbInstance{Db: db}

	t.Cleanup(func() {
		sqlDB, err := db.DB()
		if err == nil {
			sqlDB.Close()
		}
	})

	return db
}

// newAttemptApp mounts the attempt routes behind a stub auth middleware
// that injects the given user id.
func newAttemptApp(userID uint) *fiber.App {
	app := fiber.New()

	app.Use(func(c *fiber.Ctx) error {
		c.Locals("userId", userID)
		return c.Next()
	})

	app.Post("/quiz/:quiz_id/attempt/start", func(c *fiber.Ctx) error {
		var id int
		if _, err := fmt.Sscanf(c.Params("quiz_id"), "%d", &id); err != nil || id <= 0 {
			return c.SendStatus(fiber.StatusBadRequest)
		}
		c.Locals("quizID", id)
		return c.Next()
	}, StartQuizAttempt)

	app.Post("/quiz/attempt/:attempt_id/submit", func(c *fiber.Ctx) error {
		var id int
		if _, err := fmt.Sscanf(c.Params("attempt_id"), "%d", &id); err != nil || id <= 0 {
			return c.SendStatus(fiber.StatusBadRequest)
		}
		c.Locals("attemptID", id)

		reqData := new(struct {
			Answers map[string]json.RawMessage `json:"answers"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return c.SendStatus(fiber.StatusBadRequest)
		}
		c.Locals("validatedAttemptAnswers", reqData)
		return c.Next()
	}, SubmitQuizAttempt)

	app.Post("/quiz/attempt/:attempt_id/remediation", func(c *fiber.Ctx) error {
		var id int
		if _, err := fmt.Sscanf(c.Params("attempt_id"), "%d", &id); err != nil || id <= 0 {
			return c.SendStatus(fiber.StatusBadRequest)
		}
		c.Locals("attemptID", id)
		return c.Next()
	}, CompleteRemediation)

	app.Get("/quiz/:quiz_id/attempts", func(c *fiber.Ctx) error {
		var id int
		if _, err := fmt.Sscanf(c.Params("quiz_id"), "%d", &id); err != nil || id <= 0 {
			return c.SendStatus(fiber.StatusBadRequest)
		}
		c.Locals("quizID", id)
		return c.Next()
	}, GetQuizAttempts)

	return app
}

type quizFixture struct {
	user         models.User
	collaborator models.Collaborator
	quiz         quizModels.Quiz
	single       quizModels.Question
	multi        quizModels.Question
	singleOpts   []quizModels.QuestionOption
	multiOpts    []quizModels.QuestionOption
}

func seedQuizFixture(t *testing.T, db *gorm.DB, passingScore int) quizFixture {
	t.Helper()

	f := quizFixture{}

	f.user = models.User{Name: "Ana Torres", Email: "ana@acme.test", Password: "x"}
	require.NoError(t, db.Create(&f.user).Error)

	f.collaborator = models.Collaborator{
		UserID:         f.user.ID,
		FirstName:      "Ana",
		LastName:       "Torres",
		DocumentNumber: "DOC-0001",
	}
	require.NoError(t, db.Create(&f.collaborator).Error)

	f.quiz = quizModels.Quiz{
		CourseID:     1,
		Title:        "Working at Heights",
		PassingScore: passingScore,
		MaxAttempts:  3,
		Status:       quizModels.StatusPublished,
	}
	require.NoError(t, db.Create(&f.quiz).Error)

	f.single = quizModels.Question{
		QuestionText: "Minimum anchor height?",
		Type:         quizModels.TypeSingleChoice,
		Points:       1,
	}
	require.NoError(t, db.Create(&f.single).Error)

	f.singleOpts = []quizModels.QuestionOption{
		{QuestionID: f.single.ID, OptionText: "1.8m", IsCorrect: true},
		{QuestionID: f.single.ID, OptionText: "1.0m"},
	}
	require.NoError(t, db.Create(&f.singleOpts).Error)

	f.multi = quizModels.Question{
		QuestionText: "Required PPE?",
		Type:         quizModels.TypeMultipleChoice,
		Points:       1,
	}
	require.NoError(t, db.Create(&f.multi).Error)

	f.multiOpts = []quizModels.QuestionOption{
		{QuestionID: f.multi.ID, OptionText: "Harness", IsCorrect: true},
		{QuestionID: f.multi.ID, OptionText: "Helmet", IsCorrect: true},
		{QuestionID: f.multi.ID, OptionText: "Sandals"},
	}
	require.NoError(t, db.Create(&f.multiOpts).Error)

	links := []quizModels.QuizQuestion{
		{QuizID: f.quiz.ID, QuestionID: f.single.ID, OrderIndex: 0},
		{QuizID: f.quiz.ID, QuestionID: f.multi.ID, OrderIndex: 1},
	}
	require.NoError(t, db.Create(&links).Error)

	return f
}

func seedOpenAttempt(t *testing.T, db *gorm.DB, f quizFixture) quizModels.QuizAttempt {
	t.Helper()

	idsJSON, err := json.Marshal([]uint{f.single.ID, f.multi.ID})
	require.NoError(t, err)

	attempt := quizModels.QuizAttempt{
		QuizID:         f.quiz.ID,
		CollaboratorID: f.collaborator.ID,
		AttemptNumber:  1,
		Status:         quizModels.AttemptInProgress,
		QuestionIDs:    idsJSON,
		PointsTotal:    2,
		StartedAt:      time.Now().Add(-2 * time.Minute),
	}
	require.NoError(t, db.Create(&attempt).Error)
	return attempt
}

func submitAnswers(t *testing.T, app *fiber.App, attemptID uint, answers map[string]interface{}) (*envelope, int) {
	t.Helper()

	body, err := json.Marshal(fiber.Map{"answers": answers})
	require.NoError(t, err)

	req := httptest.NewRequest("POST", fmt.Sprintf("/quiz/attempt/%d/submit", attemptID), bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var env envelope
	require.NoError(t, json.Unmarshal(raw, &env))
	return &env, resp.StatusCode
}

func TestSubmitAttemptPassing(t *testing.T) {
	db := setupTestDB(t)
	f := seedQuizFixture(t, db, 70)
	attempt := seedOpenAttempt(t, db, f)
	app := newAttemptApp(f.user.ID)

	env, code := submitAnswers(t, app, attempt.ID, map[string]interface{}{
		fmt.Sprint(f.single.ID): f.singleOpts[0].ID,
		fmt.Sprint(f.multi.ID):  []uint{f.multiOpts[0].ID, f.multiOpts[1].ID},
	})

	assert.Equal(t, fiber.StatusOK, code)
	assert.True(t, env.Status)

	var updated quizModels.QuizAttempt
	require.NoError(t, db.First(&updated, attempt.ID).Error)
	assert.Equal(t, quizModels.AttemptPassed, updated.Status)
	assert.InDelta(t, 100.0, updated.Score, 0.0001)
	assert.Equal(t, 2, updated.PointsEarned)
	assert.False(t, updated.RequiresRemediation)
	assert.NotNil(t, updated.SubmittedAt)
}

func TestSubmitAttemptPassBoundaryInclusive(t *testing.T) {
	db := setupTestDB(t)
	f := seedQuizFixture(t, db, 50)
	attempt := seedOpenAttempt(t, db, f)
	app := newAttemptApp(f.user.ID)

	// One of two equal-point questions correct: exactly the passing score
	_, code := submitAnswers(t, app, attempt.ID, map[string]interface{}{
		fmt.Sprint(f.single.ID): f.singleOpts[0].ID,
		fmt.Sprint(f.multi.ID):  []uint{f.multiOpts[2].ID},
	})
	assert.Equal(t, fiber.StatusOK, code)

	var updated quizModels.QuizAttempt
	require.NoError(t, db.First(&updated, attempt.ID).Error)
	assert.Equal(t, quizModels.AttemptPassed, updated.Status)
	assert.InDelta(t, 50.0, updated.Score, 0.0001)
}

func TestSubmitAttemptFailingRequiresRemediation(t *testing.T) {
	db := setupTestDB(t)
	f := seedQuizFixture(t, db, 70)
	attempt := seedOpenAttempt(t, db, f)
	app := newAttemptApp(f.user.ID)

	env, code := submitAnswers(t, app, attempt.ID, map[string]interface{}{
		fmt.Sprint(f.single.ID): f.singleOpts[1].ID,
		fmt.Sprint(f.multi.ID):  []uint{f.multiOpts[2].ID},
	})

	assert.Equal(t, fiber.StatusOK, code)
	assert.True(t, env.Status)

	var updated quizModels.QuizAttempt
	require.NoError(t, db.First(&updated, attempt.ID).Error)
	assert.Equal(t, quizModels.AttemptFailed, updated.Status)
	assert.Equal(t, 0, updated.PointsEarned)
	assert.True(t, updated.RequiresRemediation)

	// A failed submission leaves a notification behind
	var count int64
	db.Model(&models.Notification{}).Where("collaborator_id = ?", f.collaborator.ID).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestSubmitAttemptUnansweredGradeAsIncorrect(t *testing.T) {
	db := setupTestDB(t)
	f := seedQuizFixture(t, db, 70)
	attempt := seedOpenAttempt(t, db, f)
	app := newAttemptApp(f.user.ID)

	_, code := submitAnswers(t, app, attempt.ID, map[string]interface{}{
		fmt.Sprint(f.single.ID): f.singleOpts[0].ID,
	})
	assert.Equal(t, fiber.StatusOK, code)

	var updated quizModels.QuizAttempt
	require.NoError(t, db.First(&updated, attempt.ID).Error)
	assert.Equal(t, 1, updated.PointsEarned)
	assert.InDelta(t, 50.0, updated.Score, 0.0001)
}

func TestSubmitAttemptTwiceConflicts(t *testing.T) {
	db := setupTestDB(t)
	f := seedQuizFixture(t, db, 70)
	attempt := seedOpenAttempt(t, db, f)
	app := newAttemptApp(f.user.ID)

	answers := map[string]interface{}{
		fmt.Sprint(f.single.ID): f.singleOpts[0].ID,
	}

	_, code := submitAnswers(t, app, attempt.ID, answers)
	assert.Equal(t, fiber.StatusOK, code)

	env, code := submitAnswers(t, app, attempt.ID, answers)
	assert.Equal(t, fiber.StatusConflict, code)
	assert.False(t, env.Status)
	assert.Equal(t, "Attempt already submitted!", env.Message)
}

func TestSubmitAttemptMalformedAnswerRejectedBeforeGrading(t *testing.T) {
	db := setupTestDB(t)
	f := seedQuizFixture(t, db, 70)
	attempt := seedOpenAttempt(t, db, f)
	app := newAttemptApp(f.user.ID)

	// Array where a single option id is expected
	env, code := submitAnswers(t, app, attempt.ID, map[string]interface{}{
		fmt.Sprint(f.single.ID): []uint{f.singleOpts[0].ID},
	})
	assert.Equal(t, fiber.StatusUnprocessableEntity, code)
	assert.False(t, env.Status)

	// Attempt stays open: nothing was graded
	var updated quizModels.QuizAttempt
	require.NoError(t, db.First(&updated, attempt.ID).Error)
	assert.Equal(t, quizModels.AttemptInProgress, updated.Status)
}

func TestSubmitAttemptOwnership(t *testing.T) {
	db := setupTestDB(t)
	f := seedQuizFixture(t, db, 70)
	attempt := seedOpenAttempt(t, db, f)

	otherUser := models.User{Name: "Luis Prado", Email: "luis@acme.test", Password: "x"}
	require.NoError(t, db.Create(&otherUser).Error)
	other := models.Collaborator{UserID: otherUser.ID, FirstName: "Luis", LastName: "Prado", DocumentNumber: "DOC-0002"}
	require.NoError(t, db.Create(&other).Error)

	app := newAttemptApp(otherUser.ID)

	env, code := submitAnswers(t, app, attempt.ID, map[string]interface{}{
		fmt.Sprint(f.single.ID): f.singleOpts[0].ID,
	})
	assert.Equal(t, fiber.StatusForbidden, code)
	assert.False(t, env.Status)
}

func TestSubmitAttemptWithoutCollaboratorProfile(t *testing.T) {
	db := setupTestDB(t)
	f := seedQuizFixture(t, db, 70)
	attempt := seedOpenAttempt(t, db, f)

	bareUser := models.User{Name: "No Profile", Email: "bare@acme.test", Password: "x"}
	require.NoError(t, db.Create(&bareUser).Error)

	app := newAttemptApp(bareUser.ID)

	env, code := submitAnswers(t, app, attempt.ID, map[string]interface{}{
		fmt.Sprint(f.single.ID): f.singleOpts[0].ID,
	})
	assert.Equal(t, fiber.StatusForbidden, code)
	assert.Equal(t, "No collaborator profile linked to this account!", env.Message)
}

func TestCompleteRemediationLifecycle(t *testing.T) {
	db := setupTestDB(t)
	f := seedQuizFixture(t, db, 70)
	attempt := seedOpenAttempt(t, db, f)
	app := newAttemptApp(f.user.ID)

	// Fail the attempt first
	_, code := submitAnswers(t, app, attempt.ID, map[string]interface{}{
		fmt.Sprint(f.single.ID): f.singleOpts[1].ID,
	})
	require.Equal(t, fiber.StatusOK, code)

	remediate := func() (*envelope, int) {
		req := httptest.NewRequest("POST", fmt.Sprintf("/quiz/attempt/%d/remediation", attempt.ID), nil)
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		raw, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		var env envelope
		require.NoError(t, json.Unmarshal(raw, &env))
		return &env, resp.StatusCode
	}

	env, code := remediate()
	assert.Equal(t, fiber.StatusOK, code)
	assert.True(t, env.Status)

	var updated quizModels.QuizAttempt
	require.NoError(t, db.First(&updated, attempt.ID).Error)
	assert.True(t, updated.RemediationCompleted)

	// Redundant completion is rejected
	env, code = remediate()
	assert.Equal(t, fiber.StatusConflict, code)
	assert.Equal(t, "Remediation already completed!", env.Message)
}

func TestCompleteRemediationNotRequired(t *testing.T) {
	db := setupTestDB(t)
	f := seedQuizFixture(t, db, 70)
	attempt := seedOpenAttempt(t, db, f)
	app := newAttemptApp(f.user.ID)

	// Pass the attempt: no remediation needed
	_, code := submitAnswers(t, app, attempt.ID, map[string]interface{}{
		fmt.Sprint(f.single.ID): f.singleOpts[0].ID,
		fmt.Sprint(f.multi.ID):  []uint{f.multiOpts[0].ID, f.multiOpts[1].ID},
	})
	require.Equal(t, fiber.StatusOK, code)

	req := httptest.NewRequest("POST", fmt.Sprintf("/quiz/attempt/%d/remediation", attempt.ID), nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestGetQuizAttemptsListsOwnOnly(t *testing.T) {
	db := setupTestDB(t)
	f := seedQuizFixture(t, db, 70)

	idsJSON, err := json.Marshal([]uint{f.single.ID})
	require.NoError(t, err)

	for i := 1; i <= 2; i++ {
		attempt := quizModels.QuizAttempt{
			QuizID:         f.quiz.ID,
			CollaboratorID: f.collaborator.ID,
			AttemptNumber:  i,
			Status:         quizModels.AttemptFailed,
			QuestionIDs:    idsJSON,
			PointsTotal:    1,
			StartedAt:      time.Now(),
		}
		require.NoError(t, db.Create(&attempt).Error)
	}

	otherUser := models.User{Name: "Luis Prado", Email: "luis@acme.test", Password: "x"}
	require.NoError(t, db.Create(&otherUser).Error)
	other := models.Collaborator{UserID: otherUser.ID, FirstName: "Luis", LastName: "Prado", DocumentNumber: "DOC-0002"}
	require.NoError(t, db.Create(&other).Error)
	foreign := quizModels.QuizAttempt{
		QuizID:         f.quiz.ID,
		CollaboratorID: other.ID,
		AttemptNumber:  1,
		Status:         quizModels.AttemptPassed,
		QuestionIDs:    idsJSON,
		PointsTotal:    1,
		StartedAt:      time.Now(),
	}
	require.NoError(t, db.Create(&foreign).Error)

	app := newAttemptApp(f.user.ID)
	req := httptest.NewRequest("GET", fmt.Sprintf("/quiz/%d/attempts", f.quiz.ID), nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var env envelope
	require.NoError(t, json.Unmarshal(raw, &env))

	var attempts []quizModels.QuizAttempt
	require.NoError(t, json.Unmarshal(env.Data, &attempts))
	assert.Len(t, attempts, 2)
	// Newest attempt first
	assert.Equal(t, 2, attempts[0].AttemptNumber)
}

func startAttempt(t *testing.T, app *fiber.App, quizID uint) (*envelope, int) {
	t.Helper()

	req := httptest.NewRequest("POST", fmt.Sprintf("/quiz/%d/attempt/start", quizID), nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var env envelope
	require.NoError(t, json.Unmarshal(raw, &env))
	return &env, resp.StatusCode
}

func TestStartAttemptIdempotentResume(t *testing.T) {
	db := setupTestDB(t)
	f := seedQuizFixture(t, db, 70)
	app := newAttemptApp(f.user.ID)

	env, code := startAttempt(t, app, f.quiz.ID)
	require.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, "Quiz attempt started!", env.Message)

	// A second start resumes the open attempt instead of creating another
	env, code = startAttempt(t, app, f.quiz.ID)
	require.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, "Quiz attempt resumed!", env.Message)

	var attempts []quizModels.QuizAttempt
	require.NoError(t, db.Where("quiz_id = ? AND collaborator_id = ?", f.quiz.ID, f.collaborator.ID).Find(&attempts).Error)
	require.Len(t, attempts, 1)
	assert.Equal(t, quizModels.AttemptInProgress, attempts[0].Status)
	assert.Equal(t, 1, attempts[0].AttemptNumber)
	assert.Equal(t, 2, attempts[0].PointsTotal)
}

func TestStartAttemptMaxAttemptsReached(t *testing.T) {
	db := setupTestDB(t)
	f := seedQuizFixture(t, db, 70)

	idsJSON, err := json.Marshal([]uint{f.single.ID, f.multi.ID})
	require.NoError(t, err)

	// Burn through the quiz's attempt allowance
	for i := 1; i <= f.quiz.MaxAttempts; i++ {
		attempt := quizModels.QuizAttempt{
			QuizID:               f.quiz.ID,
			CollaboratorID:       f.collaborator.ID,
			AttemptNumber:        i,
			Status:               quizModels.AttemptFailed,
			QuestionIDs:          idsJSON,
			PointsTotal:          2,
			StartedAt:            time.Now(),
			RequiresRemediation:  true,
			RemediationCompleted: true,
		}
		require.NoError(t, db.Create(&attempt).Error)
	}

	app := newAttemptApp(f.user.ID)
	env, code := startAttempt(t, app, f.quiz.ID)
	assert.Equal(t, fiber.StatusBadRequest, code)
	assert.False(t, env.Status)
	assert.Equal(t, "Maximum attempts reached for this quiz!", env.Message)

	var count int64
	db.Model(&quizModels.QuizAttempt{}).Where("quiz_id = ? AND collaborator_id = ?", f.quiz.ID, f.collaborator.ID).Count(&count)
	assert.Equal(t, int64(f.quiz.MaxAttempts), count)
}

func TestStartAttemptBlockedByPendingRemediation(t *testing.T) {
	db := setupTestDB(t)
	f := seedQuizFixture(t, db, 70)

	idsJSON, err := json.Marshal([]uint{f.single.ID, f.multi.ID})
	require.NoError(t, err)

	failed := quizModels.QuizAttempt{
		QuizID:              f.quiz.ID,
		CollaboratorID:      f.collaborator.ID,
		AttemptNumber:       1,
		Status:              quizModels.AttemptFailed,
		QuestionIDs:         idsJSON,
		PointsTotal:         2,
		StartedAt:           time.Now(),
		RequiresRemediation: true,
	}
	require.NoError(t, db.Create(&failed).Error)

	app := newAttemptApp(f.user.ID)
	env, code := startAttempt(t, app, f.quiz.ID)
	assert.Equal(t, fiber.StatusUnprocessableEntity, code)
	assert.False(t, env.Status)
	assert.Equal(t, "Remediation required before retrying!", env.Message)

	var payload struct {
		RequiresRemediation bool `json:"requires_remediation"`
		BlockingAttemptID   uint `json:"blocking_attempt_id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &payload))
	assert.True(t, payload.RequiresRemediation)
	assert.Equal(t, failed.ID, payload.BlockingAttemptID)

	var count int64
	db.Model(&quizModels.QuizAttempt{}).Where("quiz_id = ? AND collaborator_id = ?", f.quiz.ID, f.collaborator.ID).Count(&count)
	assert.Equal(t, int64(1), count)

	// Completing remediation unblocks the retry
	require.NoError(t, db.Model(&quizModels.QuizAttempt{}).Where("id = ?", failed.ID).Update("remediation_completed", true).Error)

	env, code = startAttempt(t, app, f.quiz.ID)
	assert.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, "Quiz attempt started!", env.Message)
}

func TestAdminPublishQuizRejectsNonAdmin(t *testing.T) {
	db := setupTestDB(t)
	f := seedQuizFixture(t, db, 70)

	draft := quizModels.Quiz{
		CourseID:     1,
		Title:        "Confined Spaces",
		PassingScore: 70,
		Status:       quizModels.StatusDraft,
	}
	require.NoError(t, db.Create(&draft).Error)
	link := quizModels.QuizQuestion{QuizID: draft.ID, QuestionID: f.single.ID}
	require.NoError(t, db.Create(&link).Error)

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("userId", f.user.ID)
		return c.Next()
	})
	app.Post("/admin/quiz/:quiz_id/publish", func(c *fiber.Ctx) error {
		var id int
		if _, err := fmt.Sscanf(c.Params("quiz_id"), "%d", &id); err != nil || id <= 0 {
			return c.SendStatus(fiber.StatusBadRequest)
		}
		c.Locals("quizID", id)
		return c.Next()
	}, AdminPublishQuiz)

	req := httptest.NewRequest("POST", fmt.Sprintf("/admin/quiz/%d/publish", draft.ID), nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	// The rejection must also stop the mutation
	var reloaded quizModels.Quiz
	require.NoError(t, db.First(&reloaded, draft.ID).Error)
	assert.Equal(t, quizModels.StatusDraft, reloaded.Status)
}
