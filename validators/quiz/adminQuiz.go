package quizValidator

import (
	"fmt"

	quizControllers "ssoma/controllers/quiz"
	"ssoma/middleware"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// fieldErrors flattens validator.ValidationErrors into the response map
func fieldErrors(err error) map[string]string {
	errors := make(map[string]string)
	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		for _, fieldError := range validationErrors {
			errors[fieldError.Field()] = fmt.Sprintf("Failed validation: %s", fieldError.Tag())
		}
	} else {
		errors["body"] = "Invalid request data!"
	}
	return errors
}

// CreateQuiz validates the admin quiz create/update body
func CreateQuiz() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(quizControllers.QuizPayload)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if err := validate.Struct(reqData); err != nil {
			return middleware.ValidationErrorResponse(c, fieldErrors(err))
		}

		c.Locals("validatedQuiz", reqData)
		return c.Next()
	}
}

// UpdateQuiz validates the quiz id param plus the body
func UpdateQuiz() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := parseIDParam(c, "quiz_id", "quizID", "Quiz ID"); err != nil {
			return err
		}
		return CreateQuiz()(c)
	}
}

// CreateQuestion validates the admin question create body
func CreateQuestion() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := parseIDParam(c, "quiz_id", "quizID", "Quiz ID"); err != nil {
			return err
		}

		reqData := new(quizControllers.QuestionPayload)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if err := validate.Struct(reqData); err != nil {
			return middleware.ValidationErrorResponse(c, fieldErrors(err))
		}

		c.Locals("validatedQuestion", reqData)
		return c.Next()
	}
}
