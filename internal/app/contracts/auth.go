package contracts

import (
	"context"
	"odonto-service/internal/app/models"
	"odonto-service/internal/pkg/dto/requests"
	"odonto-service/internal/pkg/dto/responses"
)

type AuthUsecase interface {
	Login(ctx context.Context, request *requests.Login) (*responses.Login, error)
	Logout(ctx context.Context, sessionID string) error
	ChangePassword(ctx context.Context, session *models.Session, request *requests.ChangePassword) error
	Authenticate(ctx context.Context, token string) (*models.Session, error)
}
