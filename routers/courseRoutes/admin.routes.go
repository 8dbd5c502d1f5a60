package courseRoutes

import (
	controllers "ssoma/controllers/course"
	"ssoma/middleware"
	validators "ssoma/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupAdminCourseRoutes sets up all admin course management routes
func SetupAdminCourseRoutes(app *fiber.App) {
	adminGroup := app.Group("/admin/course", middleware.JWTMiddleware, middleware.CheckPermissionMiddleware("manage-course"))

	// Course CRUD
	adminGroup.Post("/create", validators.CreateCourse(), controllers.AdminCreateCourse)
	adminGroup.Put("/:course_id", validators.UpdateCourse(), controllers.AdminUpdateCourse)
	adminGroup.Delete("/:course_id", validators.CourseIDParam(), controllers.AdminDeleteCourse)
	adminGroup.Get("/list", controllers.AdminListCourses)
	adminGroup.Post("/:course_id/publish", validators.CourseIDParam(), controllers.AdminPublishCourse)

	// Lesson management
	adminGroup.Post("/:course_id/lesson", validators.CreateLesson(), controllers.AdminCreateLesson)
}
