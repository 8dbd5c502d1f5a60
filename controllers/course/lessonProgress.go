package controllers

import (
	"log"
	"ssoma/database"
	"ssoma/middleware"
	"ssoma/models"
	courseModels "ssoma/models/course"
	"ssoma/utils"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UpdateLessonProgress records a player progress report for a lesson.
// The reported percentage is capped by elapsed-time signals before it is
// persisted, and the parent course progress is recomputed afterwards.
func UpdateLessonProgress(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	// Progress rows belong to the collaborator profile, not the bare user
	var collaborator models.Collaborator
	if err := database.Database.Db.Where("user_id = ? AND is_deleted = ?", userID, false).First(&collaborator).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "No collaborator profile linked to this account!", nil)
	}

	courseID := c.Locals("courseID").(int)
	lessonID := c.Locals("lessonID").(int)

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ? AND status = ?", courseID, false, "PUBLISHED").First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found or not published!", nil)
	}

	var lesson courseModels.Lesson
	if err := database.Database.Db.Where("id = ? AND course_id = ? AND is_deleted = ? AND is_published = ?", lessonID, courseID, false, true).First(&lesson).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Lesson not found!", nil)
	}

	var enrollment courseModels.Enrollment
	if err := database.Database.Db.Where("collaborator_id = ? AND course_id = ? AND is_deleted = ?", collaborator.ID, courseID, false).First(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Collaborator not enrolled in this course!", nil)
	}

	reqData, ok := c.Locals("validatedLessonProgress").(*struct {
		ViewPercentage   int   `json:"view_percentage"`
		TimeDeltaSeconds *int  `json:"time_delta_seconds"`
		Duration         *int  `json:"duration"`
		ManualComplete   *bool `json:"manual_complete"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	clientDeltaSec := 0
	if reqData.TimeDeltaSeconds != nil {
		clientDeltaSec = *reqData.TimeDeltaSeconds
	}

	durationSec := lesson.DurationSec
	if reqData.Duration != nil {
		durationSec = *reqData.Duration
	}

	now := time.Now()
	var progress courseModels.LessonProgress
	var capped progressCap
	var courseProgress *courseModels.CourseProgress
	var newlyPassed bool

	// Read-then-write under a row lock so two concurrent reports cannot
	// regress the percentage or drop a TimeSpent increment.
	err := database.Database.Db.Transaction(func(tx *gorm.DB) error {
		var serverDeltaSec *int
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("collaborator_id = ? AND lesson_id = ? AND is_deleted = ?", collaborator.ID, lessonID, false).
			First(&progress).Error
		if err == nil {
			delta := int(now.Sub(progress.LastViewedAt).Seconds())
			serverDeltaSec = &delta
		} else if err == gorm.ErrRecordNotFound {
			progress = courseModels.LessonProgress{
				CollaboratorID: collaborator.ID,
				LessonID:       uint(lessonID),
				CourseID:       uint(courseID),
			}
		} else {
			return err
		}

		capped = capLessonProgress(progress.ViewPercentage, reqData.ViewPercentage, serverDeltaSec, clientDeltaSec, durationSec)
		newView := capped.CappedView
		completed := newView >= lesson.CompletionThreshold

		// Non-video content can be marked complete by the learner once the
		// player decides enough dwell time has passed.
		if reqData.ManualComplete != nil && *reqData.ManualComplete && lesson.ContentType != "VIDEO" {
			completed = true
			forced := reqData.ViewPercentage
			if lesson.CompletionThreshold > forced {
				forced = lesson.CompletionThreshold
			}
			if forced > newView {
				newView = clampPct(forced)
			}
		}

		progress.ViewPercentage = newView
		progress.LastViewedAt = now
		if completed && !progress.Completed {
			progress.Completed = true
			progress.CompletedAt = &now
		}

		if err := tx.Save(&progress).Error; err != nil {
			return err
		}

		// Aggregate into the course-level record inside the same
		// transaction so the increment cannot be lost to a racing report
		courseProgress, newlyPassed, err = updateCourseProgress(tx, collaborator, course, capped.EffectiveDeltaSec)
		return err
	})
	if err != nil {
		log.Printf("Error saving lesson progress: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update lesson progress!", nil)
	}

	// Side effects fire only once the transaction has committed
	if newlyPassed {
		issueCertificate(collaborator, course)
		utils.NotifyCoursePassed(collaborator.ID, course.Title)
		go utils.SendCourseCompletionWebhook(collaborator.DocumentNumber, course.Title, courseProgress.TimeSpent)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lesson progress updated successfully!", fiber.Map{
		"progress":          progress,
		"allowed_delta_pct": capped.AllowedDeltaPct,
		"course_progress":   courseProgress,
	})
}

// updateCourseProgress recomputes the completed-lesson ratio for the course
// and accumulates the effective watched seconds. It must run inside the
// caller's transaction; the progress row is locked so the read-modify-write
// cannot drop a concurrent increment. When the course reaches 100% it is
// marked PASSED, certified time is overwritten with the course's nominal
// duration, and newlyPassed reports the transition so the caller can fire
// side effects after commit.
func updateCourseProgress(tx *gorm.DB, collaborator models.Collaborator, course courseModels.Course, deltaSec int) (*courseModels.CourseProgress, bool, error) {
	var totalLessons int64
	var completedLessons int64
	if err := tx.Model(&courseModels.Lesson{}).Where("course_id = ? AND is_deleted = ? AND is_published = ?", course.ID, false, true).Count(&totalLessons).Error; err != nil {
		return nil, false, err
	}
	if err := tx.Model(&courseModels.LessonProgress{}).Where("collaborator_id = ? AND course_id = ? AND completed = ? AND is_deleted = ?", collaborator.ID, course.ID, true, false).Count(&completedLessons).Error; err != nil {
		return nil, false, err
	}

	var courseProgress courseModels.CourseProgress
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("collaborator_id = ? AND course_id = ? AND is_deleted = ?", collaborator.ID, course.ID, false).
		First(&courseProgress).Error; err != nil {
		if err != gorm.ErrRecordNotFound {
			return nil, false, err
		}
		courseProgress = courseModels.CourseProgress{
			CollaboratorID: collaborator.ID,
			CourseID:       course.ID,
			Status:         courseModels.ProgressNotStarted,
		}
	}

	percent := 0
	if totalLessons > 0 {
		percent = int(float64(completedLessons)/float64(totalLessons)*100 + 0.5)
	}

	courseProgress.ProgressPercent = percent
	courseProgress.TimeSpent += int64(deltaSec)

	alreadyPassed := courseProgress.Status == courseModels.ProgressPassed

	if percent >= 100 {
		courseProgress.Status = courseModels.ProgressPassed
		if courseProgress.CompletedAt == nil {
			now := time.Now()
			courseProgress.CompletedAt = &now
		}
		// Certified time reflects curriculum design, not raw tracked seconds
		if course.Duration > 0 {
			courseProgress.TimeSpent = course.Duration * 3600
		}
	} else if percent > 0 {
		courseProgress.Status = courseModels.ProgressInProgress
	}

	if err := tx.Save(&courseProgress).Error; err != nil {
		return nil, false, err
	}

	return &courseProgress, percent >= 100 && !alreadyPassed, nil
}

// GetCourseProgress returns the caller's progress across a course
func GetCourseProgress(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	var collaborator models.Collaborator
	if err := database.Database.Db.Where("user_id = ? AND is_deleted = ?", userID, false).First(&collaborator).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "No collaborator profile linked to this account!", nil)
	}

	courseID := c.Locals("courseID").(int)

	var enrollment courseModels.Enrollment
	if err := database.Database.Db.Where("collaborator_id = ? AND course_id = ? AND is_deleted = ?", collaborator.ID, courseID, false).First(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Collaborator not enrolled in this course!", nil)
	}

	var courseProgress courseModels.CourseProgress
	if err := database.Database.Db.Where("collaborator_id = ? AND course_id = ? AND is_deleted = ?", collaborator.ID, courseID, false).First(&courseProgress).Error; err != nil {
		courseProgress = courseModels.CourseProgress{
			CollaboratorID: collaborator.ID,
			CourseID:       uint(courseID),
			Status:         courseModels.ProgressNotStarted,
		}
	}

	var lessonProgress []courseModels.LessonProgress
	database.Database.Db.Where("collaborator_id = ? AND course_id = ? AND is_deleted = ?", collaborator.ID, courseID, false).Find(&lessonProgress)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Progress fetched successfully!", fiber.Map{
		"course_progress": courseProgress,
		"lessons":         lessonProgress,
	})
}
