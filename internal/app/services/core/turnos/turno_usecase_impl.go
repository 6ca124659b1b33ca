package turnos

import (
	"context"
	"errors"
	"odonto-service/internal/app/config"
	"odonto-service/internal/app/contracts"
	"odonto-service/internal/app/models"
	"odonto-service/internal/app/services/shared/notifier"
	"odonto-service/internal/pkg/constvars"
	"odonto-service/internal/pkg/dto/requests"
	"odonto-service/internal/pkg/exceptions"
	"odonto-service/internal/pkg/normalizer"
	"odonto-service/internal/pkg/utils"
	"strings"
	"time"

	"go.uber.org/zap"
)

type turnoUsecase struct {
	TurnoWebhookClient   contracts.TurnoWebhookClient
	PatientWebhookClient contracts.PatientWebhookClient
	EventPublisher       contracts.EventPublisher
	InternalConfig       *config.InternalConfig
	Location             *time.Location
	Log                  *zap.Logger
}

func NewTurnoUsecase(
	turnoWebhookClient contracts.TurnoWebhookClient,
	patientWebhookClient contracts.PatientWebhookClient,
	eventPublisher contracts.EventPublisher,
	internalConfig *config.InternalConfig,
	logger *zap.Logger,
) contracts.TurnoUsecase {
	return &turnoUsecase{
		TurnoWebhookClient:   turnoWebhookClient,
		PatientWebhookClient: patientWebhookClient,
		EventPublisher:       eventPublisher,
		InternalConfig:       internalConfig,
		Location:             internalConfig.App.Location(),
		Log:                  logger,
	}
}

// FindAll lists turnos between From and To, both inclusive dates. A missing
// bound is left to the calendar flow.
func (uc *turnoUsecase) FindAll(ctx context.Context, request *requests.FindAllTurnos) ([]models.Turno, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("turnoUsecase.FindAll called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingDateKey, request.From+".."+request.To),
	)

	var from, to time.Time
	if request.From != "" {
		parsed, err := utils.ParseDate(request.From, uc.Location)
		if err != nil {
			return nil, exceptions.ErrCannotParseDate(err)
		}
		from = parsed
	}
	if request.To != "" {
		parsed, err := utils.ParseDate(request.To, uc.Location)
		if err != nil {
			return nil, exceptions.ErrCannotParseDate(err)
		}
		to = parsed.AddDate(0, 0, 1)
	}
	if !from.IsZero() && !to.IsZero() && !to.After(from) {
		return nil, exceptions.ErrClientCustomMessage(errors.New("the range must end on or after its start date"))
	}

	turnos, err := uc.TurnoWebhookClient.ListTurnos(ctx, from, to)
	if err != nil {
		return nil, err
	}
	turnos = filterByPatient(turnos, request.PatientDNI)

	uc.Log.Info("turnoUsecase.FindAll succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int(constvars.LoggingTurnoCountKey, len(turnos)),
	)
	return turnos, nil
}

func (uc *turnoUsecase) FindByPatient(ctx context.Context, dni string) ([]models.Turno, error) {
	turnos, err := uc.TurnoWebhookClient.ListTurnos(ctx, time.Time{}, time.Time{})
	if err != nil {
		return nil, err
	}
	return filterByPatient(turnos, dni), nil
}

func (uc *turnoUsecase) Create(ctx context.Context, request *requests.UpsertTurno) (*models.Turno, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("turnoUsecase.Create called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPatientDNIKey, request.PatientDNI),
	)

	turno, err := uc.buildTurno(ctx, request)
	if err != nil {
		return nil, err
	}
	if turno.Estado == "" {
		turno.Estado = constvars.TurnoStatusConfirmed
	}
	if err := uc.checkOverlap(ctx, turno); err != nil {
		return nil, err
	}

	created, err := uc.TurnoWebhookClient.CreateTurno(ctx, turno)
	if err != nil {
		return nil, err
	}
	uc.publish(ctx, constvars.TurnoEventCreated, created.ID, created)

	utils.LogBusinessEvent(uc.Log, "turno_created", requestID,
		zap.String(constvars.LoggingTurnoIDKey, created.ID),
		zap.String(constvars.LoggingTurnoTypeKey, created.TipoTurno),
	)
	return created, nil
}

func (uc *turnoUsecase) Update(ctx context.Context, request *requests.UpsertTurno) (*models.Turno, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("turnoUsecase.Update called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingTurnoIDKey, request.ID),
	)

	turno, err := uc.buildTurno(ctx, request)
	if err != nil {
		return nil, err
	}
	if err := uc.checkOverlap(ctx, turno); err != nil {
		return nil, err
	}

	updated, err := uc.TurnoWebhookClient.UpdateTurno(ctx, turno)
	if err != nil {
		var customErr *exceptions.CustomError
		if errors.As(err, &customErr) && customErr.StatusCode == constvars.StatusNotFound {
			return nil, exceptions.ErrTurnoNotFound(err, request.ID)
		}
		return nil, err
	}
	uc.publish(ctx, constvars.TurnoEventUpdated, updated.ID, updated)

	uc.Log.Info("turnoUsecase.Update succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingTurnoIDKey, updated.ID),
	)
	return updated, nil
}

func (uc *turnoUsecase) Delete(ctx context.Context, turnoID string) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("turnoUsecase.Delete called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingTurnoIDKey, turnoID),
	)

	if err := uc.TurnoWebhookClient.DeleteTurno(ctx, turnoID); err != nil {
		var customErr *exceptions.CustomError
		if errors.As(err, &customErr) && customErr.StatusCode == constvars.StatusNotFound {
			return exceptions.ErrTurnoNotFound(err, turnoID)
		}
		return err
	}
	uc.publish(ctx, constvars.TurnoEventDeleted, turnoID, nil)

	utils.LogBusinessEvent(uc.Log, "turno_deleted", requestID,
		zap.String(constvars.LoggingTurnoIDKey, turnoID),
	)
	return nil
}

// buildTurno resolves times, duration and patient linkage of a create or
// update request.
func (uc *turnoUsecase) buildTurno(ctx context.Context, request *requests.UpsertTurno) (models.Turno, error) {
	start, _, err := normalizer.ParseTime(request.Start, uc.Location)
	if err != nil {
		return models.Turno{}, exceptions.ErrCannotParseDate(err)
	}

	turno := models.Turno{
		ID:           request.ID,
		Start:        start,
		PatientName:  strings.TrimSpace(request.PatientName),
		PatientDNI:   normalizer.NormalizeDNI(request.PatientDNI),
		PatientPhone: strings.TrimSpace(request.PatientPhone),
		TipoTurno:    strings.ToLower(strings.TrimSpace(request.TipoTurno)),
		Duracion:     request.Duracion,
		Estado:       request.Estado,
		Notas:        request.Notas,
	}

	if request.End != "" {
		end, _, err := normalizer.ParseTime(request.End, uc.Location)
		if err != nil {
			return models.Turno{}, exceptions.ErrCannotParseDate(err)
		}
		if !end.After(start) {
			return models.Turno{}, exceptions.ErrClientCustomMessage(errors.New(constvars.ErrClientTurnoEndBeforeStart))
		}
		turno.End = end
		if turno.Duracion == 0 {
			turno.Duracion = int(end.Sub(start) / time.Minute)
		}
	}
	if turno.Duracion == 0 {
		turno.Duracion = models.DurationFor(turno.TipoTurno, uc.InternalConfig.Schedule.DefaultTurnoMinutes)
	}
	if turno.End.IsZero() {
		turno.End = start.Add(time.Duration(turno.Duracion) * time.Minute)
	}

	if turno.PatientDNI != "" {
		patient, err := uc.PatientWebhookClient.FindPatientByDNI(ctx, turno.PatientDNI)
		if err != nil {
			return models.Turno{}, err
		}
		if patient == nil {
			return models.Turno{}, exceptions.ErrPatientNotFound(nil, turno.PatientDNI)
		}
		if turno.PatientName == "" {
			turno.PatientName = patient.FullName()
		}
		if turno.PatientPhone == "" {
			turno.PatientPhone = patient.Telefono
		}
	}
	if turno.PatientName == "" {
		return models.Turno{}, exceptions.ErrClientCustomMessage(errors.New("patientname is required when patientdni is empty"))
	}

	turno.Summary = normalizer.BuildSummary(turno)
	turno.Description = normalizer.BuildDescription(turno)
	return turno, nil
}

// checkOverlap compares against the calendar as listed right now. Nothing is
// locked, so two admins booking at once can still collide.
func (uc *turnoUsecase) checkOverlap(ctx context.Context, turno models.Turno) error {
	dayStart := utils.StartOfDay(turno.Start.In(uc.Location))
	dayEnd := utils.StartOfDay(turno.End.In(uc.Location)).AddDate(0, 0, 1)

	existing, err := uc.TurnoWebhookClient.ListTurnos(ctx, dayStart, dayEnd)
	if err != nil {
		return err
	}

	for _, other := range existing {
		if other.ID == turno.ID && turno.ID != "" {
			continue
		}
		if other.IsCancelled() || other.AllDay {
			continue
		}
		if turno.Overlaps(other) {
			return exceptions.ErrTurnoOverlap(nil, other.ID)
		}
	}
	return nil
}

// publish failures are logged only; the calendar already holds the change.
func (uc *turnoUsecase) publish(ctx context.Context, eventType, turnoID string, turno *models.Turno) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	event := notifier.TurnoEvent{
		Type:       eventType,
		RequestID:  requestID,
		OccurredAt: time.Now().UTC(),
		Turno:      turno,
		TurnoID:    turnoID,
	}

	if err := uc.EventPublisher.Publish(ctx, uc.InternalConfig.Reminder.Events, event); err != nil {
		uc.Log.Warn("turnoUsecase.publish failed",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingEventTypeKey, eventType),
			zap.String(constvars.LoggingTurnoIDKey, turnoID),
			zap.Error(err),
		)
	}
}

func filterByPatient(turnos []models.Turno, dni string) []models.Turno {
	dni = normalizer.NormalizeDNI(dni)
	if dni == "" {
		return turnos
	}

	filtered := make([]models.Turno, 0, len(turnos))
	for _, turno := range turnos {
		if turno.PatientDNI == dni {
			filtered = append(filtered, turno)
		}
	}
	return filtered
}
