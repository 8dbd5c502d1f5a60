package courseValidator

import (
	"ssoma/middleware"
	"strings"

	"github.com/gofiber/fiber/v2"
)

var lessonContentTypes = map[string]bool{
	"VIDEO": true,
	"PDF":   true,
	"PPT":   true,
	"HTML":  true,
}

// CreateCourse validates the admin course create/update body
func CreateCourse() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Title          string `json:"title"`
			Description    string `json:"description"`
			Author         string `json:"author"`
			Duration       int64  `json:"duration"`
			ValidityMonths int    `json:"validity_months"`
			IsMandatory    bool   `json:"is_mandatory"`
			ThumbnailURL   string `json:"thumbnail_url"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if len(strings.TrimSpace(reqData.Title)) < 3 {
			errors["title"] = "Title must be at least 3 characters long!"
		}

		if reqData.Duration < 0 {
			errors["duration"] = "Duration cannot be negative!"
		}

		if reqData.ValidityMonths < 0 {
			errors["validity_months"] = "Validity months cannot be negative!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedCourse", reqData)
		return c.Next()
	}
}

// UpdateCourse validates the course id param plus the body
func UpdateCourse() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := parseIDParam(c, "course_id", "courseID", "Course ID"); err != nil {
			return err
		}
		return CreateCourse()(c)
	}
}

// CourseIDParam validates just the course id param
func CourseIDParam() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := parseIDParam(c, "course_id", "courseID", "Course ID"); err != nil {
			return err
		}
		return c.Next()
	}
}

// CreateLesson validates the admin lesson create body
func CreateLesson() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := parseIDParam(c, "course_id", "courseID", "Course ID"); err != nil {
			return err
		}

		reqData := new(struct {
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

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if len(strings.TrimSpace(reqData.Title)) < 3 {
			errors["title"] = "Title must be at least 3 characters long!"
		}

		if reqData.ContentType != "" && !lessonContentTypes[reqData.ContentType] {
			errors["content_type"] = "Content type must be one of VIDEO, PDF, PPT, HTML!"
		}

		if reqData.DurationSec < 0 {
			errors["duration_sec"] = "Duration cannot be negative!"
		}

		if reqData.CompletionThreshold != nil && (*reqData.CompletionThreshold < 1 || *reqData.CompletionThreshold > 100) {
			errors["completion_threshold"] = "Completion threshold must be between 1 and 100!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedLesson", reqData)
		return c.Next()
	}
}
