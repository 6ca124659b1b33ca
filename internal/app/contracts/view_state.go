package contracts

import (
	"context"
	"odonto-service/internal/app/models"
)

type ViewStateUsecase interface {
	Get(ctx context.Context, sessionID string) (*models.ViewState, error)
	Open(ctx context.Context, sessionID string, dialog models.Dialog, entityID string) (*models.ViewState, error)
	Close(ctx context.Context, sessionID string) (*models.ViewState, error)
	SwitchView(ctx context.Context, sessionID string, view models.View) (*models.ViewState, error)
	Select(ctx context.Context, sessionID string, kind models.EntityKind, entityID string) (*models.ViewState, error)
	Forget(ctx context.Context, sessionID string, kind models.EntityKind, entityID string) (*models.ViewState, error)
}
