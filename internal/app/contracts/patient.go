package contracts

import (
	"context"
	"odonto-service/internal/app/models"
	"odonto-service/internal/pkg/dto/requests"
)

type PatientUsecase interface {
	FindAll(ctx context.Context, request *requests.FindAllPatients) ([]models.Patient, int, error)
	FindByID(ctx context.Context, patientID string) (*models.Patient, error)
	FindByDNI(ctx context.Context, dni string) (*models.Patient, error)
	Create(ctx context.Context, request *requests.CreatePatient) (*models.Patient, error)
	Update(ctx context.Context, request *requests.UpdatePatient) (*models.Patient, error)
	Delete(ctx context.Context, patientID string) error
}
