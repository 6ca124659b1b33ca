package controllers

import (
	"context"
	"net/http"
	"odonto-service/internal/app/config"
	"odonto-service/internal/app/contracts"
	"odonto-service/internal/app/models"
	"odonto-service/internal/pkg/constvars"
	"odonto-service/internal/pkg/dto/requests"
	"odonto-service/internal/pkg/exceptions"
	"odonto-service/internal/pkg/utils"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type TurnoController struct {
	Log              *zap.Logger
	TurnoUsecase     contracts.TurnoUsecase
	ViewStateUsecase contracts.ViewStateUsecase
	InternalConfig   *config.InternalConfig
}

func NewTurnoController(logger *zap.Logger, turnoUsecase contracts.TurnoUsecase, viewStateUsecase contracts.ViewStateUsecase, internalConfig *config.InternalConfig) *TurnoController {
	return &TurnoController{
		Log:              logger,
		TurnoUsecase:     turnoUsecase,
		ViewStateUsecase: viewStateUsecase,
		InternalConfig:   internalConfig,
	}
}

// FindAll lists turnos between the inclusive from/to dates, optionally for a
// single patient DNI.
func (ctrl *TurnoController) FindAll(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	request := &requests.FindAllTurnos{
		From:       strings.TrimSpace(query.Get("from")),
		To:         strings.TrimSpace(query.Get("to")),
		PatientDNI: strings.TrimSpace(query.Get("dni")),
	}
	if err := utils.ValidateStruct(request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrInputValidation(err))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout(ctrl.InternalConfig))
	defer cancel()

	turnos, err := ctrl.TurnoUsecase.FindAll(ctx, request)
	if err != nil {
		writeError(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.GetTurnosSuccessMessage, turnos)
}

func (ctrl *TurnoController) FindByPatient(w http.ResponseWriter, r *http.Request) {
	dni := chi.URLParam(r, constvars.URLParamDNI)
	if err := utils.ValidateVar(dni, "dni"); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrURLParamValidation(err, constvars.URLParamDNI))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout(ctrl.InternalConfig))
	defer cancel()

	turnos, err := ctrl.TurnoUsecase.FindByPatient(ctx, dni)
	if err != nil {
		writeError(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.GetTurnosSuccessMessage, turnos)
}

func (ctrl *TurnoController) Create(w http.ResponseWriter, r *http.Request) {
	request := new(requests.UpsertTurno)
	if err := decodeBody(r, request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout(ctrl.InternalConfig))
	defer cancel()

	turno, err := ctrl.TurnoUsecase.Create(ctx, request)
	if err != nil {
		writeError(ctrl.Log, w, err)
		return
	}

	utils.LogBusinessEvent(ctrl.Log, "turno_created", utils.GetRequestID(r.Context()),
		zap.String(constvars.LoggingTurnoIDKey, turno.ID),
		zap.String(constvars.LoggingTurnoTypeKey, turno.TipoTurno),
	)
	utils.BuildSuccessResponse(w, constvars.StatusCreated, constvars.CreateTurnoSuccessMessage, turno)
}

func (ctrl *TurnoController) Update(w http.ResponseWriter, r *http.Request) {
	request := new(requests.UpsertTurno)
	if err := decodeBody(r, request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}
	request.ID = chi.URLParam(r, constvars.URLParamID)

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout(ctrl.InternalConfig))
	defer cancel()

	turno, err := ctrl.TurnoUsecase.Update(ctx, request)
	if err != nil {
		writeError(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.UpdateTurnoSuccessMessage, turno)
}

func (ctrl *TurnoController) Delete(w http.ResponseWriter, r *http.Request) {
	requestID := utils.GetRequestID(r.Context())
	turnoID := chi.URLParam(r, constvars.URLParamID)

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout(ctrl.InternalConfig))
	defer cancel()

	if err := ctrl.TurnoUsecase.Delete(ctx, turnoID); err != nil {
		writeError(ctrl.Log, w, err)
		return
	}

	if sessionID := utils.GetSessionID(r.Context()); sessionID != "" {
		if _, err := ctrl.ViewStateUsecase.Forget(ctx, sessionID, models.EntityTurno, turnoID); err != nil {
			ctrl.Log.Warn("TurnoController.Delete error clearing view state",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.String(constvars.LoggingTurnoIDKey, turnoID),
				zap.Error(err),
			)
		}
	}

	utils.LogBusinessEvent(ctrl.Log, "turno_deleted", requestID,
		zap.String(constvars.LoggingTurnoIDKey, turnoID),
	)
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.DeleteTurnoSuccessMessage, nil)
}
