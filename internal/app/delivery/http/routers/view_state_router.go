package routers

import (
	"odonto-service/internal/app/delivery/http/controllers"

	"github.com/go-chi/chi/v5"
)

func attachViewStateRoutes(router chi.Router, viewStateController *controllers.ViewStateController) {
	router.Get("/", viewStateController.Get)
	router.Post("/open", viewStateController.Open)
	router.Post("/close", viewStateController.Close)
	router.Post("/view", viewStateController.SwitchView)
	router.Post("/select", viewStateController.Select)
}
