package contracts

import (
	"context"
	"odonto-service/internal/app/models"
	"odonto-service/internal/pkg/dto/requests"
)

type TurnoUsecase interface {
	FindAll(ctx context.Context, request *requests.FindAllTurnos) ([]models.Turno, error)
	FindByPatient(ctx context.Context, dni string) ([]models.Turno, error)
	Create(ctx context.Context, request *requests.UpsertTurno) (*models.Turno, error)
	Update(ctx context.Context, request *requests.UpsertTurno) (*models.Turno, error)
	Delete(ctx context.Context, turnoID string) error
}
