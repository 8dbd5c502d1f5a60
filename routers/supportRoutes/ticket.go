package supportRoutes

import (
	controller "ssoma/controllers/support"
	"ssoma/middleware"
	validator "ssoma/validators/support"

	"github.com/gofiber/fiber/v2"
)

func SetupSupportRoutes(app *fiber.App) {
	support := app.Group("/support")

	support.Post("/create", validator.CreateSupportTicket(), middleware.JWTMiddleware, controller.CreateSupportTicket)
	support.Get("/list", validator.TicketList(), middleware.JWTMiddleware, controller.TicketList)
	support.Get("/admin-list", validator.AdminTicketList(), middleware.JWTMiddleware, controller.AdminTicketList)
	support.Post("/close-ticket", validator.CloseTicket(), middleware.JWTMiddleware, controller.CloseTicket)
}
