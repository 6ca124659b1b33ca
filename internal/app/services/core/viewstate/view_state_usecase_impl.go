package viewstate

import (
	"context"
	"errors"
	"odonto-service/internal/app/config"
	"odonto-service/internal/app/contracts"
	"odonto-service/internal/app/models"
	"odonto-service/internal/pkg/constvars"
	"odonto-service/internal/pkg/exceptions"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

// viewStateUsecase keeps one models.ViewState per admin session in redis
// and moves it only through ViewState.Apply.
type viewStateUsecase struct {
	RedisRepository contracts.RedisRepository
	TTL             time.Duration
	Now             func() time.Time
	Log             *zap.Logger
}

func NewViewStateUsecase(redisRepository contracts.RedisRepository, internalConfig *config.InternalConfig, logger *zap.Logger) contracts.ViewStateUsecase {
	ttl := time.Duration(internalConfig.Session.ViewStateTTLInHours) * time.Hour
	if ttl <= 0 {
		ttl = time.Duration(internalConfig.Session.ExpiredTimeInHours) * time.Hour
	}
	return &viewStateUsecase{
		RedisRepository: redisRepository,
		TTL:             ttl,
		Now:             time.Now,
		Log:             logger,
	}
}

func viewStateKey(sessionID string) string {
	return constvars.RedisKeyViewStatePrefix + sessionID
}

func (uc *viewStateUsecase) Get(ctx context.Context, sessionID string) (*models.ViewState, error) {
	state, err := uc.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return &state, nil
}

func (uc *viewStateUsecase) Open(ctx context.Context, sessionID string, dialog models.Dialog, entityID string) (*models.ViewState, error) {
	return uc.apply(ctx, sessionID, models.ViewAction{Type: models.ActionOpen, Dialog: dialog, EntityID: entityID})
}

func (uc *viewStateUsecase) Close(ctx context.Context, sessionID string) (*models.ViewState, error) {
	return uc.apply(ctx, sessionID, models.ViewAction{Type: models.ActionClose})
}

func (uc *viewStateUsecase) SwitchView(ctx context.Context, sessionID string, view models.View) (*models.ViewState, error) {
	return uc.apply(ctx, sessionID, models.ViewAction{Type: models.ActionSwitchView, View: view})
}

func (uc *viewStateUsecase) Select(ctx context.Context, sessionID string, kind models.EntityKind, entityID string) (*models.ViewState, error) {
	return uc.apply(ctx, sessionID, models.ViewAction{Type: models.ActionSelect, Kind: kind, EntityID: entityID})
}

// Forget drops a deleted entity from the selection, closing a dialog that
// still points at it.
func (uc *viewStateUsecase) Forget(ctx context.Context, sessionID string, kind models.EntityKind, entityID string) (*models.ViewState, error) {
	return uc.apply(ctx, sessionID, models.ViewAction{Type: models.ActionForget, Kind: kind, EntityID: entityID})
}

func (uc *viewStateUsecase) apply(ctx context.Context, sessionID string, action models.ViewAction) (*models.ViewState, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("viewStateUsecase.apply called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingSessionIDKey, sessionID),
		zap.String(constvars.LoggingOperationKey, string(action.Type)),
		zap.String(constvars.LoggingDialogKey, string(action.Dialog)),
		zap.String(constvars.LoggingEntityIDKey, action.EntityID),
	)

	current, err := uc.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	next, err := current.Apply(action)
	if err != nil {
		uc.Log.Info("viewStateUsecase.apply rejected transition",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingOperationKey, string(action.Type)),
			zap.Error(err),
		)
		return nil, transitionError(err, action)
	}
	if next == current {
		return &current, nil
	}

	next.UpdatedAt = uc.Now().UTC()
	if err := uc.RedisRepository.Set(ctx, viewStateKey(sessionID), next, uc.TTL); err != nil {
		uc.Log.Error("viewStateUsecase.apply error saving state",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingSessionIDKey, sessionID),
			zap.Error(err),
		)
		return nil, err
	}

	uc.Log.Info("viewStateUsecase.apply succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingViewKey, string(next.View)),
		zap.String(constvars.LoggingDialogKey, string(next.Dialog)),
	)
	return &next, nil
}

// load returns the stored state, or the default one for a fresh session.
// An unreadable entry is treated as fresh.
func (uc *viewStateUsecase) load(ctx context.Context, sessionID string) (models.ViewState, error) {
	if sessionID == "" {
		return models.ViewState{}, exceptions.ErrMissingSessionData(nil)
	}

	raw, err := uc.RedisRepository.Get(ctx, viewStateKey(sessionID))
	if err != nil {
		return models.ViewState{}, err
	}
	if raw == "" {
		return models.DefaultViewState(), nil
	}

	var state models.ViewState
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		uc.Log.Warn("viewStateUsecase.load found unreadable state, starting over",
			zap.String(constvars.LoggingSessionIDKey, sessionID),
			zap.Error(err),
		)
		return models.DefaultViewState(), nil
	}
	return state, nil
}

func transitionError(err error, action models.ViewAction) error {
	switch {
	case errors.Is(err, models.ErrUnknownView),
		errors.Is(err, models.ErrUnknownDialog),
		errors.Is(err, models.ErrUnknownEntityKind),
		errors.Is(err, models.ErrUnknownAction):
		return exceptions.ErrClientCustomMessage(err)
	default:
		return exceptions.ErrInvalidViewTransition(err, string(action.Type))
	}
}
