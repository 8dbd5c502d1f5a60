package main

import (
	"log"
	"ssoma/config"
	"ssoma/database"
	authRoutes "ssoma/routers/authRoutes"
	courseRoutes "ssoma/routers/courseRoutes"
	quizRoutes "ssoma/routers/quizRoutes"
	supportRoutes "ssoma/routers/supportRoutes"
	userProfileRoutes "ssoma/routers/userRoutes"
	"ssoma/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

func main() {
	config.LoadConfig()
	database.ConnectDb()

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE",  // Allowed HTTP methods
		AllowHeaders: "Content-Type,Authorization", // Allowed headers
	}))

	// Enable the built-in logger middleware to log all requests
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${ip} ${method} ${path} ${status} ${latency}\n",
	}))

	authRoutes.SetupAuthRoutes(app)
	userProfileRoutes.SetupUserRoutes(app)
	courseRoutes.SetupCourseRoutes(app)
	courseRoutes.SetupAdminCourseRoutes(app)
	quizRoutes.SetupQuizRoutes(app)
	quizRoutes.SetupAdminQuizRoutes(app)
	supportRoutes.SetupSupportRoutes(app)

	// Daily certificate expiry sweep and reminder notifications
	utils.InitializeTrainingScheduler()

	log.Printf("Server is running on port %s", config.AppConfig.Port)
	log.Fatal(app.Listen(":" + config.AppConfig.Port))
}
