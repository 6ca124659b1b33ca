package controllers

import (
	"context"
	"net/http"
	"odonto-service/internal/app/config"
	"odonto-service/internal/pkg/constvars"
	"odonto-service/internal/pkg/dto/responses"
	"odonto-service/internal/pkg/utils"
	"sort"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

const healthCheckTimeout = 3 * time.Second

// HealthCheck pings one dependency.
type HealthCheck func(ctx context.Context) error

type HealthController struct {
	Log            *zap.Logger
	InternalConfig *config.InternalConfig
	Checks         map[string]HealthCheck
}

func NewHealthController(logger *zap.Logger, internalConfig *config.InternalConfig, checks map[string]HealthCheck) *HealthController {
	return &HealthController{
		Log:            logger,
		InternalConfig: internalConfig,
		Checks:         checks,
	}
}

// Health answers 200 while every check passes and 503 otherwise.
func (ctrl *HealthController) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
	defer cancel()

	names := make([]string, 0, len(ctrl.Checks))
	for name := range ctrl.Checks {
		names = append(names, name)
	}
	sort.Strings(names)

	health := responses.Health{Status: "ok", Version: ctrl.InternalConfig.App.Version}
	code := constvars.StatusOK
	if len(names) > 0 {
		health.Checks = make(map[string]string, len(names))
	}
	for _, name := range names {
		if err := ctrl.Checks[name](ctx); err != nil {
			ctrl.Log.Warn("HealthController.Health check failed",
				zap.String("check", name),
				zap.Error(err),
			)
			health.Checks[name] = "down"
			health.Status = "degraded"
			code = constvars.StatusServiceUnavailable
			continue
		}
		health.Checks[name] = "ok"
	}

	if code != constvars.StatusOK {
		w.Header().Set(constvars.HeaderContentType, constvars.MIMEApplicationJSON)
		w.WriteHeader(code)
		json.NewEncoder(w).Encode(responses.ResponseDTO{
			Success: false,
			Message: constvars.UnhealthyMessage,
			Data:    health,
		})
		return
	}
	utils.BuildSuccessResponse(w, code, constvars.HealthyMessage, health)
}
