package availability

import (
	"context"
	"odonto-service/internal/app/config"
	"odonto-service/internal/app/contracts"
	"odonto-service/internal/app/models"
	"odonto-service/internal/pkg/constvars"
	"odonto-service/internal/pkg/dto/requests"
	"odonto-service/internal/pkg/dto/responses"
	"odonto-service/internal/pkg/exceptions"
	"strings"
	"time"

	"go.uber.org/zap"
)

type availabilityUsecase struct {
	AvailabilityWebhookClient contracts.AvailabilityWebhookClient
	InternalConfig            *config.InternalConfig
	Location                  *time.Location
	Plan                      weeklyPlan
	Now                       func() time.Time
	Log                       *zap.Logger
}

// NewAvailabilityUsecase fails when the configured working hours can't be
// parsed, so a bad SCHEDULE_WORKING_HOURS stops the service at boot.
func NewAvailabilityUsecase(
	availabilityWebhookClient contracts.AvailabilityWebhookClient,
	internalConfig *config.InternalConfig,
	logger *zap.Logger,
) (contracts.AvailabilityUsecase, error) {
	plan, err := parseWorkingHours(internalConfig.Schedule.WorkingHours)
	if err != nil {
		return nil, err
	}

	return &availabilityUsecase{
		AvailabilityWebhookClient: availabilityWebhookClient,
		InternalConfig:            internalConfig,
		Location:                  internalConfig.App.Location(),
		Plan:                      plan,
		Now:                       time.Now,
		Log:                       logger,
	}, nil
}

func (uc *availabilityUsecase) GetAvailability(ctx context.Context, request *requests.GetAvailability) (*responses.Availability, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("availabilityUsecase.GetAvailability called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingDateKey, request.Date),
		zap.String(constvars.LoggingTurnoTypeKey, request.TipoTurno),
	)

	day, err := time.ParseInLocation(constvars.DateOnlyLayout, request.Date, uc.Location)
	if err != nil {
		return nil, exceptions.ErrCannotParseDate(err)
	}

	tipoTurno := strings.ToLower(strings.TrimSpace(request.TipoTurno))
	duration := request.Duracion
	if duration <= 0 {
		duration = models.DurationFor(tipoTurno, uc.InternalConfig.Schedule.DefaultTurnoMinutes)
	}

	result := &responses.Availability{
		Date:      request.Date,
		TipoTurno: tipoTurno,
		Duracion:  duration,
		Slots:     []responses.Slot{},
		Busy:      []responses.Slot{},
	}

	windows := dayWorkIntervals(day, uc.Location, uc.Plan.forWeekday(day.Weekday()))
	if len(windows) == 0 {
		uc.Log.Info("availabilityUsecase.GetAvailability practice closed that day",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingDateKey, request.Date),
		)
		return result, nil
	}

	busy, err := uc.AvailabilityWebhookClient.GetBusyIntervals(ctx, day)
	if err != nil {
		return nil, err
	}
	for _, b := range busy {
		result.Busy = append(result.Busy, responses.Slot{Start: b.Start.In(uc.Location), End: b.End.In(uc.Location)})
	}

	now := uc.Now()
	for _, window := range windows {
		for _, slot := range generateSlotsBetween(window.Start, window.End, duration) {
			if slot.Start.Before(now) || overlapsAny(slot, busy) {
				continue
			}
			result.Slots = append(result.Slots, responses.Slot{Start: slot.Start, End: slot.End})
		}
	}

	uc.Log.Info("availabilityUsecase.GetAvailability succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int(constvars.LoggingSlotCountKey, len(result.Slots)),
	)
	return result, nil
}
