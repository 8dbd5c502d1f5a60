package courseValidator

import (
	"ssoma/middleware"

	"github.com/gofiber/fiber/v2"
)

// UpdateLessonProgress validates the player progress report body
func UpdateLessonProgress() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := parseIDParam(c, "course_id", "courseID", "Course ID"); err != nil {
			return err
		}
		if err := parseIDParam(c, "lesson_id", "lessonID", "Lesson ID"); err != nil {
			return err
		}

		reqData := new(struct {
			ViewPercentage   int   `json:"view_percentage"`
			TimeDeltaSeconds *int  `json:"time_delta_seconds"`
			Duration         *int  `json:"duration"`
			ManualComplete   *bool `json:"manual_complete"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if reqData.ViewPercentage < 0 || reqData.ViewPercentage > 100 {
			errors["view_percentage"] = "View percentage must be between 0 and 100!"
		}

		if reqData.TimeDeltaSeconds != nil && (*reqData.TimeDeltaSeconds < 0 || *reqData.TimeDeltaSeconds > 7200) {
			errors["time_delta_seconds"] = "Time delta must be between 0 and 7200 seconds!"
		}

		if reqData.Duration != nil && (*reqData.Duration < 1 || *reqData.Duration > 86400) {
			errors["duration"] = "Duration must be between 1 and 86400 seconds!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedLessonProgress", reqData)
		return c.Next()
	}
}
