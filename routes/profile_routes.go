package routes

import (
	"github.com/Alexandr290700/online-tutor/handlers"
	"github.com/Alexandr290700/online-tutor/middleware"
	"github.com/gofiber/fiber/v2"
)

func ProfileRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	specialists := api.Group("/specialists")
	specialists.Get("", handlers.ListSpecialists)
	specialists.Get("/:id", handlers.GetSpecialist)
	specialists.Post("", middleware.Protected(), middleware.TutorRequired(), handlers.CreateSpecialist)
	specialists.Put("/:id", middleware.Protected(), middleware.TutorRequired(), handlers.UpdateSpecialist)
	specialists.Delete("/:id", middleware.Protected(), middleware.AdminRequired(), handlers.DeleteSpecialist)

	students := api.Group("/students")
	students.Get("", handlers.ListStudents)
	students.Get("/:id", handlers.GetStudent)
	students.Post("", middleware.Protected(), middleware.StudentRequired(), handlers.CreateStudent)
	students.Put("/:id", middleware.Protected(), middleware.StudentRequired(), handlers.UpdateStudent)
	students.Delete("/:id", middleware.Protected(), middleware.AdminRequired(), handlers.DeleteStudent)
}
