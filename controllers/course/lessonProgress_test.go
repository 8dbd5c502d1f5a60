package controllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"ssoma/database"
	"ssoma/models"
	courseModels "ssoma/models/course"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupCourseTestDB(t *testing.T) *gorm.DB {
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

type courseFixture struct {
	user         models.User
	collaborator models.Collaborator
	course       courseModels.Course
	lessons      []courseModels.Lesson
}

func seedCourseFixture(t *testing.T, db *gorm.DB) courseFixture {
	t.Helper()

	f := courseFixture{}

	f.user = models.User{Name: "Ana Torres", Email: "ana@acme.test", Password: "x"}
	require.NoError(t, db.Create(&f.user).Error)

	f.collaborator = models.Collaborator{
		UserID:         f.user.ID,
		FirstName:      "Ana",
		LastName:       "Torres",
		DocumentNumber: "DOC-0001",
	}
	require.NoError(t, db.Create(&f.collaborator).Error)

	f.course = courseModels.Course{
		Title:    "Lockout Tagout",
		Duration: 1,
		Status:   "PUBLISHED",
	}
	require.NoError(t, db.Create(&f.course).Error)

	f.lessons = []courseModels.Lesson{
		{CourseID: f.course.ID, Title: "Energy sources", ContentType: "VIDEO", DurationSec: 100, CompletionThreshold: 90, OrderIndex: 0, IsPublished: true},
		{CourseID: f.course.ID, Title: "Lock application", ContentType: "VIDEO", DurationSec: 100, CompletionThreshold: 90, OrderIndex: 1, IsPublished: true},
	}
	require.NoError(t, db.Create(&f.lessons).Error)

	enrollment := courseModels.Enrollment{CollaboratorID: f.collaborator.ID, CourseID: f.course.ID}
	require.NoError(t, db.Create(&enrollment).Error)

	return f
}

// newProgressApp mounts the progress route behind stub auth and validation
// middlewares.
func newProgressApp(userID uint) *fiber.App {
	app := fiber.New()

	app.Use(func(c *fiber.Ctx) error {
		c.Locals("userId", userID)
		return c.Next()
	})

	app.Put("/course/:course_id/lesson/:lesson_id/progress", func(c *fiber.Ctx) error {
		var courseID, lessonID int
		if _, err := fmt.Sscanf(c.Params("course_id"), "%d", &courseID); err != nil || courseID <= 0 {
			return c.SendStatus(fiber.StatusBadRequest)
		}
		if _, err := fmt.Sscanf(c.Params("lesson_id"), "%d", &lessonID); err != nil || lessonID <= 0 {
			return c.SendStatus(fiber.StatusBadRequest)
		}
		c.Locals("courseID", courseID)
		c.Locals("lessonID", lessonID)

		reqData := new(struct {
			ViewPercentage   int   `json:"view_percentage"`
			TimeDeltaSeconds *int  `json:"time_delta_seconds"`
			Duration         *int  `json:"duration"`
			ManualComplete   *bool `json:"manual_complete"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return c.SendStatus(fiber.StatusBadRequest)
		}
		c.Locals("validatedLessonProgress", reqData)
		return c.Next()
	}, UpdateLessonProgress)

	return app
}

func reportProgress(t *testing.T, app *fiber.App, courseID, lessonID uint, body fiber.Map) (*fiber.Map, int) {
	t.Helper()

	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest("PUT", fmt.Sprintf("/course/%d/lesson/%d/progress", courseID, lessonID), bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var env struct {
		Status bool      `json:"status"`
		Data   fiber.Map `json:"data"`
	}
	require.NoError(t, json.Unmarshal(raw, &env))
	return &env.Data, resp.StatusCode
}

func TestUpdateLessonProgressAccumulatesCourseTime(t *testing.T) {
	db := setupCourseTestDB(t)
	f := seedCourseFixture(t, db)
	app := newProgressApp(f.user.ID)

	delta := 200
	data, code := reportProgress(t, app, f.course.ID, f.lessons[0].ID, fiber.Map{
		"view_percentage":    50,
		"time_delta_seconds": delta,
	})
	require.Equal(t, fiber.StatusOK, code)

	var progress courseModels.LessonProgress
	require.NoError(t, db.Where("collaborator_id = ? AND lesson_id = ?", f.collaborator.ID, f.lessons[0].ID).First(&progress).Error)
	assert.Equal(t, 50, progress.ViewPercentage)
	assert.False(t, progress.Completed)

	// The course aggregate is written in the same transaction and carried
	// in the response
	courseData, ok := (*data)["course_progress"].(map[string]interface{})
	require.True(t, ok, "course_progress missing from response")
	assert.EqualValues(t, 200, courseData["time_spent"])

	var courseProgress courseModels.CourseProgress
	require.NoError(t, db.Where("collaborator_id = ? AND course_id = ?", f.collaborator.ID, f.course.ID).First(&courseProgress).Error)
	assert.EqualValues(t, 200, courseProgress.TimeSpent)
	assert.Equal(t, 0, courseProgress.ProgressPercent)
}

func TestUpdateCourseProgressPassTransition(t *testing.T) {
	db := setupCourseTestDB(t)
	f := seedCourseFixture(t, db)

	now := time.Now()
	for _, lesson := range f.lessons {
		lp := courseModels.LessonProgress{
			CollaboratorID: f.collaborator.ID,
			LessonID:       lesson.ID,
			CourseID:       f.course.ID,
			ViewPercentage: 95,
			Completed:      true,
			LastViewedAt:   now,
			CompletedAt:    &now,
		}
		require.NoError(t, db.Create(&lp).Error)
	}

	var courseProgress *courseModels.CourseProgress
	var newlyPassed bool
	require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
		var err error
		courseProgress, newlyPassed, err = updateCourseProgress(tx, f.collaborator, f.course, 120)
		return err
	}))

	require.NotNil(t, courseProgress)
	assert.True(t, newlyPassed)
	assert.Equal(t, courseModels.ProgressPassed, courseProgress.Status)
	assert.Equal(t, 100, courseProgress.ProgressPercent)
	assert.NotNil(t, courseProgress.CompletedAt)
	// Certified time is the course's nominal duration, not tracked seconds
	assert.EqualValues(t, 3600, courseProgress.TimeSpent)

	// Re-running the aggregation does not report a second transition
	require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
		var err error
		courseProgress, newlyPassed, err = updateCourseProgress(tx, f.collaborator, f.course, 15)
		return err
	}))
	assert.False(t, newlyPassed)
	assert.EqualValues(t, 3600, courseProgress.TimeSpent)
}
