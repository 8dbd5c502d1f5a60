package quizValidator

import (
	"encoding/json"
	"ssoma/middleware"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
)

func parseIDParam(c *fiber.Ctx, param, key, label string) error {
	idStr := strings.TrimSpace(c.Params(param))
	if idStr == "" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, label+" is required!", nil)
	}

	id, err := strconv.Atoi(idStr)
	if err != nil || id <= 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid "+label+"!", nil)
	}

	c.Locals(key, id)
	return nil
}

// StartAttempt validates the quiz id param
func StartAttempt() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := parseIDParam(c, "quiz_id", "quizID", "Quiz ID"); err != nil {
			return err
		}
		return c.Next()
	}
}

// SubmitAttempt validates the attempt id param and the answers envelope.
// Per-question answer shapes are validated against the question types
// during grading, before any state changes.
func SubmitAttempt() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := parseIDParam(c, "attempt_id", "attemptID", "Attempt ID"); err != nil {
			return err
		}

		reqData := new(struct {
			Answers map[string]json.RawMessage `json:"answers"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if reqData.Answers == nil {
			return middleware.ValidationErrorResponse(c, map[string]string{"answers": "Answers are required!"})
		}

		c.Locals("validatedAttemptAnswers", reqData)
		return c.Next()
	}
}

// AttemptIDParam validates just the attempt id param
func AttemptIDParam() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := parseIDParam(c, "attempt_id", "attemptID", "Attempt ID"); err != nil {
			return err
		}
		return c.Next()
	}
}

// QuizIDParam validates just the quiz id param
func QuizIDParam() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := parseIDParam(c, "quiz_id", "quizID", "Quiz ID"); err != nil {
			return err
		}
		return c.Next()
	}
}
