package userProfileRoutes

import (
	userProfileController "ssoma/controllers/userControllers"
	"ssoma/middleware"
	userProfileValidator "ssoma/validators/userValidator"

	"github.com/gofiber/fiber/v2"
)

func SetupUserRoutes(app *fiber.App) {
	userGroup := app.Group("/user")

	userGroup.Get("/profile", middleware.JWTMiddleware, userProfileController.GetProfile)
	userGroup.Put("/profile", userProfileValidator.UpdateProfile(), middleware.JWTMiddleware, userProfileController.UpdateProfile)
	userGroup.Put("/collaborator", userProfileValidator.CollaboratorProfile(), middleware.JWTMiddleware, userProfileController.UpsertCollaboratorProfile)

	userGroup.Get("/notifications", userProfileValidator.NotificationList(), middleware.JWTMiddleware, userProfileController.NotificationList)
	userGroup.Patch("/notification/:notification_id/read", userProfileValidator.NotificationIDParam(), middleware.JWTMiddleware, userProfileController.MarkNotificationRead)
}
