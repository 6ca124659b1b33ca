package routers

import (
	"odonto-service/internal/app/delivery/http/controllers"

	"github.com/go-chi/chi/v5"
)

func attachPatientRoutes(router chi.Router, patientController *controllers.PatientController) {
	router.Get("/", patientController.FindAll)
	router.Post("/", patientController.Create)
	router.Get("/dni/{dni}", patientController.FindByDNI)
	router.Get("/{id}", patientController.FindByID)
	router.Put("/{id}", patientController.Update)
	router.Delete("/{id}", patientController.Delete)
}
