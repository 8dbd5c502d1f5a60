package controllers

import (
	"ssoma/database"
	"ssoma/middleware"
	"ssoma/models"
	courseModels "ssoma/models/course"

	"github.com/gofiber/fiber/v2"
)

// LessonWithProgress represents a lesson with the caller's progress
type LessonWithProgress struct {
	courseModels.Lesson
	ViewPercentage int  `json:"view_percentage"`
	IsCompleted    bool `json:"is_completed"`
}

// GetAllCourses lists published courses
func GetAllCourses(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	// Retrieve validated pagination request
	reqData, _ := c.Locals("validatedCourseList").(*struct {
		Page  *int `json:"page"`
		Limit *int `json:"limit"`
	})

	page := 1
	limit := 10
	if reqData != nil && reqData.Page != nil {
		page = *reqData.Page
	}
	if reqData != nil && reqData.Limit != nil {
		limit = *reqData.Limit
	}
	offset := (page - 1) * limit

	db := database.Database.Db.Model(&courseModels.Course{}).Where("is_deleted = ? AND status = ?", false, "PUBLISHED")

	var total int64
	db.Count(&total)

	var courses []courseModels.Course
	if err := db.Offset(offset).Limit(limit).Order("created_at desc").Find(&courses).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch courses!", nil)
	}

	response := map[string]interface{}{
		"courses": courses,
		"pagination": map[string]interface{}{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Courses fetched successfully!", response)
}

// GetCourseDetails returns a published course with its lesson list and,
// when the caller has a collaborator profile, per-lesson progress.
func GetCourseDetails(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	courseID := c.Locals("courseID").(int)

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ? AND status = ?", courseID, false, "PUBLISHED").First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found or not published!", nil)
	}

	var lessons []courseModels.Lesson
	if err := database.Database.Db.Where("course_id = ? AND is_deleted = ? AND is_published = ?", courseID, false, true).Order("order_index asc").Find(&lessons).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch lessons!", nil)
	}

	result := make([]LessonWithProgress, len(lessons))
	for i, lesson := range lessons {
		result[i] = LessonWithProgress{Lesson: lesson}
	}

	// Per-lesson progress only exists for collaborator profiles
	var collaborator models.Collaborator
	if err := database.Database.Db.Where("user_id = ? AND is_deleted = ?", userID, false).First(&collaborator).Error; err == nil {
		for i := range result {
			var progress courseModels.LessonProgress
			if err := database.Database.Db.Where("collaborator_id = ? AND lesson_id = ? AND is_deleted = ?", collaborator.ID, result[i].ID, false).First(&progress).Error; err == nil {
				result[i].ViewPercentage = progress.ViewPercentage
				result[i].IsCompleted = progress.Completed
			}
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course fetched successfully!", fiber.Map{
		"course":  course,
		"lessons": result,
	})
}
