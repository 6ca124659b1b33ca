package contracts

import (
	"context"
	"io"
	"odonto-service/internal/app/models"
	"time"
)

// Attachment is a file forwarded to the patient webhook as multipart.
type Attachment struct {
	FieldName   string
	FileName    string
	ContentType string
	Content     io.Reader
}

type PatientWebhookClient interface {
	ListPatients(ctx context.Context) ([]models.Patient, error)
	CreatePatient(ctx context.Context, patient models.Patient, attachments []Attachment) (*models.Patient, error)
	UpdatePatient(ctx context.Context, patient models.Patient) (*models.Patient, error)
	DeletePatient(ctx context.Context, patientID string) error
	FindPatientByDNI(ctx context.Context, dni string) (*models.Patient, error)
}

type TurnoWebhookClient interface {
	ListTurnos(ctx context.Context, from, to time.Time) ([]models.Turno, error)
	CreateTurno(ctx context.Context, turno models.Turno) (*models.Turno, error)
	UpdateTurno(ctx context.Context, turno models.Turno) (*models.Turno, error)
	DeleteTurno(ctx context.Context, turnoID string) error
}

type AvailabilityWebhookClient interface {
	GetBusyIntervals(ctx context.Context, date time.Time) ([]models.TimeRange, error)
}

type AuthWebhookClient interface {
	Login(ctx context.Context, username, password string) (*models.AdminUser, error)
	ChangePassword(ctx context.Context, username, currentPassword, newPassword string) error
}
