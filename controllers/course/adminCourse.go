package controllers

import (
	"ssoma/database"
	"ssoma/middleware"
	"ssoma/models"
	courseModels "ssoma/models/course"

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

// AdminCreateCourse creates a new course
func AdminCreateCourse(c *fiber.Ctx) error {
	if _, ok := requireAdmin(c); !ok {
		return nil
	}

	reqData, ok := c.Locals("validatedCourse").(*struct {
		Title          string `json:"title"`
		Description    string `json:"description"`
		Author         string `json:"author"`
		Duration       int64  `json:"duration"`
		ValidityMonths int    `json:"validity_months"`
		IsMandatory    bool   `json:"is_mandatory"`
		ThumbnailURL   string `json:"thumbnail_url"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	course := courseModels.Course{
		Title:          reqData.Title,
		Description:    reqData.Description,
		Author:         reqData.Author,
		Duration:       reqData.Duration,
		ValidityMonths: reqData.ValidityMonths,
		IsMandatory:    reqData.IsMandatory,
		ThumbnailURL:   reqData.ThumbnailURL,
		Status:         "DRAFT",
	}

	if err := database.Database.Db.Create(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Course created successfully!", course)
}

// AdminUpdateCourse updates an existing course
func AdminUpdateCourse(c *fiber.Ctx) error {
	if _, ok := requireAdmin(c); !ok {
		return nil
	}

	courseID := c.Locals("courseID").(int)

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	reqData, ok := c.Locals("validatedCourse").(*struct {
		Title          string `json:"title"`
		Description    string `json:"description"`
		Author         string `json:"author"`
		Duration       int64  `json:"duration"`
		ValidityMonths int    `json:"validity_months"`
		IsMandatory    bool   `json:"is_mandatory"`
		ThumbnailURL   string `json:"thumbnail_url"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	course.Title = reqData.Title
	course.Description = reqData.Description
	course.Author = reqData.Author
	course.Duration = reqData.Duration
	course.ValidityMonths = reqData.ValidityMonths
	course.IsMandatory = reqData.IsMandatory
	course.ThumbnailURL = reqData.ThumbnailURL

	if err := database.Database.Db.Save(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course updated successfully!", course)
}

// AdminPublishCourse moves a course from DRAFT to PUBLISHED
func AdminPublishCourse(c *fiber.Ctx) error {
	if _, ok := requireAdmin(c); !ok {
		return nil
	}

	courseID := c.Locals("courseID").(int)

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	var lessonCount int64
	database.Database.Db.Model(&courseModels.Lesson{}).Where("course_id = ? AND is_deleted = ? AND is_published = ?", courseID, false, true).Count(&lessonCount)
	if lessonCount == 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Cannot publish a course without published lessons!", nil)
	}

	course.Status = "PUBLISHED"
	if err := database.Database.Db.Save(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to publish course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course published successfully!", course)
}

// AdminDeleteCourse soft-deletes a course
func AdminDeleteCourse(c *fiber.Ctx) error {
	if _, ok := requireAdmin(c); !ok {
		return nil
	}

	courseID := c.Locals("courseID").(int)

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	course.IsDeleted = true
	if err := database.Database.Db.Save(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course deleted successfully!", nil)
}

// AdminCreateLesson adds a lesson to a course
func AdminCreateLesson(c *fiber.Ctx) error {
	if _, ok := requireAdmin(c); !ok {
		return nil
	}

	courseID := c.Locals("courseID").(int)

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	reqData, ok := c.Locals("validatedLesson").(*struct {
		Title               string `json:"title"`
		Description         string `json:"description"`
		ContentType         string `json:"content_type"`
		ContentURL          string `json:"content_url"`
		HTMLContent         string `json:"html_content"`
		DurationSec         int    `json:"duration_sec"`
		CompletionThreshold *int   `json:"completion_threshold"`
		OrderIndex          int    `json:"order_index"`
		IsPublished         bool   `json:"is_published"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	lesson := courseModels.Lesson{
		CourseID:    uint(courseID),
		Title:       reqData.Title,
		Description: reqData.Description,
		ContentType: reqData.ContentType,
		ContentURL:  reqData.ContentURL,
		HTMLContent: reqData.HTMLContent,
		DurationSec: reqData.DurationSec,
		OrderIndex:  reqData.OrderIndex,
		IsPublished: reqData.IsPublished,
	}
	if reqData.CompletionThreshold != nil {
		lesson.CompletionThreshold = *reqData.CompletionThreshold
	} else {
		lesson.CompletionThreshold = 90
	}

	if err := database.Database.Db.Create(&lesson).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create lesson!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Lesson created successfully!", lesson)
}

// AdminListCourses lists all courses regardless of status
func AdminListCourses(c *fiber.Ctx) error {
	if _, ok := requireAdmin(c); !ok {
		return nil
	}

	var courses []courseModels.Course
	if err := database.Database.Db.Where("is_deleted = ?", false).Order("created_at desc").Find(&courses).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch courses!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Courses fetched successfully!", courses)
}
