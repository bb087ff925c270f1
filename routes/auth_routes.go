package routes

import (
	"github.com/Alexandr290700/online-tutor/handlers"
	"github.com/Alexandr290700/online-tutor/middleware"
	"github.com/gofiber/fiber/v2"
)

func AuthRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	auth := api.Group("/auth")
	auth.Post("/register", handlers.RegisterAccount)
	auth.Get("/activate/:code", handlers.ActivateAccount)
	auth.Post("/login", handlers.LoginAccount)
	auth.Post("/refresh", handlers.RefreshToken)
	auth.Post("/logout", middleware.Protected(), handlers.LogoutAccount)
}
