package routes

import (
	"github.com/Alexandr290700/online-tutor/handlers"
	"github.com/Alexandr290700/online-tutor/middleware"
	"github.com/gofiber/fiber/v2"
)

func PaymentRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	payments := api.Group("/payments", middleware.Protected())
	payments.Post("", handlers.CreatePayment)
	payments.Get("/me", handlers.ListMyPayments)
}
