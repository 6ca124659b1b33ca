package controllers

import (
	"context"
	"net/http"
	"odonto-service/internal/app/config"
	"odonto-service/internal/app/contracts"
	"odonto-service/internal/pkg/constvars"
	"odonto-service/internal/pkg/dto/requests"
	"odonto-service/internal/pkg/exceptions"
	"odonto-service/internal/pkg/utils"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

type AvailabilityController struct {
	Log                 *zap.Logger
	AvailabilityUsecase contracts.AvailabilityUsecase
	InternalConfig      *config.InternalConfig
}

func NewAvailabilityController(logger *zap.Logger, availabilityUsecase contracts.AvailabilityUsecase, internalConfig *config.InternalConfig) *AvailabilityController {
	return &AvailabilityController{
		Log:                 logger,
		AvailabilityUsecase: availabilityUsecase,
		InternalConfig:      internalConfig,
	}
}

func (ctrl *AvailabilityController) GetAvailability(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	request := &requests.GetAvailability{
		Date:      strings.TrimSpace(query.Get("date")),
		TipoTurno: strings.TrimSpace(query.Get("tipoTurno")),
	}
	if raw := strings.TrimSpace(query.Get("duracion")); raw != "" {
		duracion, err := strconv.Atoi(raw)
		if err != nil {
			utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrInvalidFormat(err, "duracion"))
			return
		}
		request.Duracion = duracion
	}
	if err := utils.ValidateStruct(request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrInputValidation(err))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout(ctrl.InternalConfig))
	defer cancel()

	availability, err := ctrl.AvailabilityUsecase.GetAvailability(ctx, request)
	if err != nil {
		writeError(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.GetAvailabilitySuccessMessage, availability)
}
