package routers

import (
	"fmt"
	"odonto-service/internal/app/config"
	"odonto-service/internal/app/delivery/http/controllers"
	"odonto-service/internal/app/delivery/http/middlewares"
	"odonto-service/internal/pkg/constvars"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

func SetupRoutes(
	router *chi.Mux,
	internalConfig *config.InternalConfig,
	middlewares *middlewares.Middlewares,
	authController *controllers.AuthController,
	patientController *controllers.PatientController,
	turnoController *controllers.TurnoController,
	availabilityController *controllers.AvailabilityController,
	viewStateController *controllers.ViewStateController,
	healthController *controllers.HealthController,
) {
	corsOptions := cors.Options{
		AllowedOrigins: allowedOrigins(internalConfig.App.AllowedOrigins),
		AllowedMethods: []string{constvars.MethodGet, constvars.MethodPost, constvars.MethodPut, constvars.MethodDelete, "OPTIONS"},
		AllowedHeaders: []string{
			constvars.HeaderAccept,
			constvars.HeaderAuthorization,
			constvars.HeaderContentType,
			constvars.HeaderXCSRFToken,
			constvars.HeaderXRequestID,
		},
		ExposedHeaders:   []string{constvars.HeaderLink, constvars.HeaderXRequestID},
		AllowCredentials: true,
		MaxAge:           300,
	}
	router.Use(cors.Handler(corsOptions))
	router.Use(middlewares.GlobalRateLimit())
	router.Use(middlewares.RequestIDMiddleware)
	router.Use(middlewares.Logging)
	router.Use(middlewares.ErrorHandler)
	router.Use(middlewares.BodyLimit)

	router.Get("/health", healthController.Health)

	endpointPrefix := fmt.Sprintf("/%s", internalConfig.App.EndpointPrefix)
	versionPrefix := fmt.Sprintf("/%s", internalConfig.App.Version)

	router.Route(endpointPrefix, func(r chi.Router) {
		r.Route(versionPrefix, func(r chi.Router) {
			r.Get("/health", healthController.Health)

			r.Route("/auth", func(r chi.Router) {
				attachAuthRoutes(r, middlewares, authController)
			})

			r.Route("/patients", func(r chi.Router) {
				r.Use(middlewares.Authenticate)
				attachPatientRoutes(r, patientController)
			})

			r.Route("/turnos", func(r chi.Router) {
				r.Use(middlewares.Authenticate)
				attachTurnoRoutes(r, turnoController)
			})

			r.Route("/availability", func(r chi.Router) {
				r.Use(middlewares.Authenticate)
				attachAvailabilityRoutes(r, availabilityController)
			})

			r.Route("/view-state", func(r chi.Router) {
				r.Use(middlewares.Authenticate)
				attachViewStateRoutes(r, viewStateController)
			})
		})
	})
}

func allowedOrigins(raw string) []string {
	origins := make([]string, 0)
	for _, origin := range strings.Split(raw, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}
