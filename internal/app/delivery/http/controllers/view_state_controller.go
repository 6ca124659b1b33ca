package controllers

import (
	"net/http"
	"odonto-service/internal/app/contracts"
	"odonto-service/internal/app/models"
	"odonto-service/internal/pkg/constvars"
	"odonto-service/internal/pkg/dto/requests"
	"odonto-service/internal/pkg/utils"
	"strings"

	"go.uber.org/zap"
)

// ViewStateController exposes the per session dashboard state: which view
// is active, which dialog is open and what is selected.
type ViewStateController struct {
	Log              *zap.Logger
	ViewStateUsecase contracts.ViewStateUsecase
}

func NewViewStateController(logger *zap.Logger, viewStateUsecase contracts.ViewStateUsecase) *ViewStateController {
	return &ViewStateController{
		Log:              logger,
		ViewStateUsecase: viewStateUsecase,
	}
}

func (ctrl *ViewStateController) Get(w http.ResponseWriter, r *http.Request) {
	session, err := sessionFromRequest(r)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	state, err := ctrl.ViewStateUsecase.Get(r.Context(), session.SessionID)
	if err != nil {
		writeError(ctrl.Log, w, err)
		return
	}
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.GetViewStateSuccessMessage, state)
}

func (ctrl *ViewStateController) Open(w http.ResponseWriter, r *http.Request) {
	session, err := sessionFromRequest(r)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	request := new(requests.OpenDialog)
	if err := decodeBody(r, request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	dialog := models.Dialog(strings.TrimSpace(request.Dialog))
	state, err := ctrl.ViewStateUsecase.Open(r.Context(), session.SessionID, dialog, request.EntityID)
	ctrl.respond(w, state, err)
}

func (ctrl *ViewStateController) Close(w http.ResponseWriter, r *http.Request) {
	session, err := sessionFromRequest(r)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	state, err := ctrl.ViewStateUsecase.Close(r.Context(), session.SessionID)
	ctrl.respond(w, state, err)
}

func (ctrl *ViewStateController) SwitchView(w http.ResponseWriter, r *http.Request) {
	session, err := sessionFromRequest(r)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	request := new(requests.SwitchView)
	if err := decodeBody(r, request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	view := models.View(strings.TrimSpace(request.View))
	state, err := ctrl.ViewStateUsecase.SwitchView(r.Context(), session.SessionID, view)
	ctrl.respond(w, state, err)
}

func (ctrl *ViewStateController) Select(w http.ResponseWriter, r *http.Request) {
	session, err := sessionFromRequest(r)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	request := new(requests.SelectEntity)
	if err := decodeBody(r, request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	state, err := ctrl.ViewStateUsecase.Select(r.Context(), session.SessionID, models.EntityKind(request.Kind), request.EntityID)
	ctrl.respond(w, state, err)
}

func (ctrl *ViewStateController) respond(w http.ResponseWriter, state *models.ViewState, err error) {
	if err != nil {
		writeError(ctrl.Log, w, err)
		return
	}
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.UpdateViewStateSuccessMessage, state)
}
