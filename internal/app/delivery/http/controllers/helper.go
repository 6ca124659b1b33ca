package controllers

import (
	"context"
	"errors"
	"net/http"
	"odonto-service/internal/app/config"
	"odonto-service/internal/app/models"
	"odonto-service/internal/pkg/constvars"
	"odonto-service/internal/pkg/exceptions"
	"odonto-service/internal/pkg/utils"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

const defaultRequestTimeout = 20 * time.Second

func requestTimeout(cfg *config.InternalConfig) time.Duration {
	if cfg == nil || cfg.App.RequestTimeoutInSeconds <= 0 {
		return defaultRequestTimeout
	}
	return time.Duration(cfg.App.RequestTimeoutInSeconds) * time.Second
}

// decodeBody binds a JSON body into dst and validates it.
func decodeBody(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return exceptions.ErrCannotParseJSON(err)
	}
	if err := utils.ValidateStruct(dst); err != nil {
		return exceptions.ErrInputValidation(err)
	}
	return nil
}

func sessionFromRequest(r *http.Request) (*models.Session, error) {
	session, ok := r.Context().Value(constvars.CONTEXT_SESSION_DATA_KEY).(*models.Session)
	if !ok || session == nil || session.SessionID == "" {
		return nil, exceptions.ErrMissingSessionData(nil)
	}
	return session, nil
}

// writeError turns a context deadline into a 504 before building the error
// envelope.
func writeError(log *zap.Logger, w http.ResponseWriter, err error) {
	if errors.Is(err, context.DeadlineExceeded) {
		var customErr *exceptions.CustomError
		if !errors.As(err, &customErr) {
			err = exceptions.ErrServerDeadlineExceeded(err)
		}
	}
	utils.BuildErrorResponse(log, w, err)
}
