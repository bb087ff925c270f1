package routes

import (
	"github.com/Alexandr290700/online-tutor/handlers"
	"github.com/Alexandr290700/online-tutor/middleware"
	"github.com/gofiber/fiber/v2"
)

func ServiceCardRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	cards := api.Group("/service-cards")
	cards.Get("", handlers.ListServiceCards)
	cards.Get("/:id", handlers.GetServiceCard)
	cards.Get("/:id/reviews", handlers.ListCardReviews)

	cards.Post("", middleware.Protected(), middleware.TutorRequired(), handlers.CreateServiceCard)
	cards.Put("/:id", middleware.Protected(), middleware.TutorRequired(), handlers.UpdateServiceCard)
	cards.Delete("/:id", middleware.Protected(), handlers.DeleteServiceCard)

	cards.Post("/:id/complete", middleware.Protected(), middleware.TutorRequired(), handlers.MarkCardCompleted)
	cards.Post("/:id/enroll", middleware.Protected(), middleware.StudentRequired(), handlers.EnrollInCard)
	cards.Post("/:id/reviews", middleware.Protected(), middleware.StudentRequired(), handlers.CreateReview)

	reviews := api.Group("/reviews")
	reviews.Get("/:id", handlers.GetReview)
	reviews.Put("/:id", middleware.Protected(), middleware.StudentRequired(), handlers.UpdateReview)
	reviews.Delete("/:id", middleware.Protected(), handlers.DeleteReview)
}
