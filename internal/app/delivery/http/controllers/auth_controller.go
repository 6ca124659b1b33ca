package controllers

import (
	"context"
	"net/http"
	"odonto-service/internal/app/config"
	"odonto-service/internal/app/contracts"
	"odonto-service/internal/pkg/constvars"
	"odonto-service/internal/pkg/dto/requests"
	"odonto-service/internal/pkg/utils"
	"strings"

	"go.uber.org/zap"
)

type AuthController struct {
	Log            *zap.Logger
	AuthUsecase    contracts.AuthUsecase
	InternalConfig *config.InternalConfig
}

func NewAuthController(logger *zap.Logger, authUsecase contracts.AuthUsecase, internalConfig *config.InternalConfig) *AuthController {
	return &AuthController{
		Log:            logger,
		AuthUsecase:    authUsecase,
		InternalConfig: internalConfig,
	}
}

func (ctrl *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	request := new(requests.Login)
	if err := decodeBody(r, request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}
	request.Username = strings.TrimSpace(request.Username)

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout(ctrl.InternalConfig))
	defer cancel()

	response, err := ctrl.AuthUsecase.Login(ctx, request)
	if err != nil {
		writeError(ctrl.Log, w, err)
		return
	}

	utils.LogBusinessEvent(ctrl.Log, "admin_logged_in", utils.GetRequestID(r.Context()),
		zap.String(constvars.LoggingUsernameKey, response.Username),
	)
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.LoginSuccess, response)
}

func (ctrl *AuthController) Logout(w http.ResponseWriter, r *http.Request) {
	session, err := sessionFromRequest(r)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout(ctrl.InternalConfig))
	defer cancel()

	if err := ctrl.AuthUsecase.Logout(ctx, session.SessionID); err != nil {
		writeError(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.LogoutSuccess, nil)
}

func (ctrl *AuthController) ChangePassword(w http.ResponseWriter, r *http.Request) {
	session, err := sessionFromRequest(r)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	request := new(requests.ChangePassword)
	if err := decodeBody(r, request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout(ctrl.InternalConfig))
	defer cancel()

	if err := ctrl.AuthUsecase.ChangePassword(ctx, session, request); err != nil {
		writeError(ctrl.Log, w, err)
		return
	}

	utils.LogSecurityEvent(ctrl.Log, "password_changed", utils.GetRequestID(r.Context()), "info",
		zap.String(constvars.LoggingUsernameKey, session.Username),
	)
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.ChangePasswordSuccess, nil)
}
