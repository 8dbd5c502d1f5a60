package quizRoutes

import (
	controllers "ssoma/controllers/quiz"
	"ssoma/middleware"
	validators "ssoma/validators/quiz"

	"github.com/gofiber/fiber/v2"
)

// SetupQuizRoutes sets up attempt lifecycle routes for collaborators
func SetupQuizRoutes(app *fiber.App) {
	quizGroup := app.Group("/quiz")

	quizGroup.Post("/:quiz_id/attempt/start", middleware.JWTMiddleware, validators.StartAttempt(), controllers.StartQuizAttempt)
	quizGroup.Get("/:quiz_id/attempts", middleware.JWTMiddleware, validators.QuizIDParam(), controllers.GetQuizAttempts)

	attemptGroup := app.Group("/quiz/attempt")
	attemptGroup.Post("/:attempt_id/submit", middleware.JWTMiddleware, validators.SubmitAttempt(), controllers.SubmitQuizAttempt)
	attemptGroup.Post("/:attempt_id/remediation", middleware.JWTMiddleware, validators.AttemptIDParam(), controllers.CompleteRemediation)
}

// SetupAdminQuizRoutes sets up quiz management routes
func SetupAdminQuizRoutes(app *fiber.App) {
	adminGroup := app.Group("/admin/quiz", middleware.JWTMiddleware, middleware.CheckPermissionMiddleware("manage-quiz"))

	adminGroup.Post("/create", validators.CreateQuiz(), controllers.AdminCreateQuiz)
	adminGroup.Put("/:quiz_id", validators.UpdateQuiz(), controllers.AdminUpdateQuiz)
	adminGroup.Get("/list", controllers.AdminListQuizzes)
	adminGroup.Post("/:quiz_id/publish", validators.QuizIDParam(), controllers.AdminPublishQuiz)
	adminGroup.Post("/:quiz_id/question", validators.CreateQuestion(), controllers.AdminCreateQuestion)
}
