package routers

import (
	"odonto-service/internal/app/delivery/http/controllers"

	"github.com/go-chi/chi/v5"
)

func attachTurnoRoutes(router chi.Router, turnoController *controllers.TurnoController) {
	router.Get("/", turnoController.FindAll)
	router.Post("/", turnoController.Create)
	router.Get("/patient/{dni}", turnoController.FindByPatient)
	router.Put("/{id}", turnoController.Update)
	router.Delete("/{id}", turnoController.Delete)
}
