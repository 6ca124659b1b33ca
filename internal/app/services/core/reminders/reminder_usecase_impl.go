package reminders

import (
	"context"
	"fmt"
	"odonto-service/internal/app/config"
	"odonto-service/internal/app/contracts"
	"odonto-service/internal/app/models"
	"odonto-service/internal/app/services/shared/notifier"
	"odonto-service/internal/pkg/constvars"
	"odonto-service/internal/pkg/utils"
	"strings"
	"time"

	"go.uber.org/zap"
)

// sentMarkerTTL outlives the day a reminder refers to, so a second run on
// the same evening never sends it twice.
const sentMarkerTTL = 48 * time.Hour

type reminderUsecase struct {
	TurnoWebhookClient contracts.TurnoWebhookClient
	RedisRepository    contracts.RedisRepository
	EventPublisher     contracts.EventPublisher
	InternalConfig     *config.InternalConfig
	Location           *time.Location
	Now                func() time.Time
	Log                *zap.Logger
}

func NewReminderUsecase(
	turnoWebhookClient contracts.TurnoWebhookClient,
	redisRepository contracts.RedisRepository,
	eventPublisher contracts.EventPublisher,
	internalConfig *config.InternalConfig,
	logger *zap.Logger,
) contracts.ReminderUsecase {
	return &reminderUsecase{
		TurnoWebhookClient: turnoWebhookClient,
		RedisRepository:    redisRepository,
		EventPublisher:     eventPublisher,
		InternalConfig:     internalConfig,
		Location:           internalConfig.App.Location(),
		Now:                time.Now,
		Log:                logger,
	}
}

// SendReminders publishes one reminder per turno scheduled for tomorrow and
// returns how many were sent in this run.
func (uc *reminderUsecase) SendReminders(ctx context.Context) (int, error) {
	tomorrow := utils.StartOfDay(uc.Now().In(uc.Location)).AddDate(0, 0, 1)
	date := tomorrow.Format(constvars.DateOnlyLayout)

	uc.Log.Info("reminderUsecase.SendReminders called",
		zap.String(constvars.LoggingDateKey, date),
	)

	turnos, err := uc.TurnoWebhookClient.ListTurnos(ctx, tomorrow, tomorrow.AddDate(0, 0, 1))
	if err != nil {
		uc.Log.Error("reminderUsecase.SendReminders error listing turnos",
			zap.String(constvars.LoggingDateKey, date),
			zap.Error(err),
		)
		return 0, err
	}

	sent := 0
	for _, turno := range turnos {
		if !remindable(turno) {
			continue
		}

		key := fmt.Sprintf(constvars.RedisKeyReminderSentFmt, date, turno.ID)
		fresh, err := uc.RedisRepository.TrySetNX(ctx, key, uc.Now().UTC(), sentMarkerTTL)
		if err != nil {
			uc.Log.Warn("reminderUsecase.SendReminders error marking reminder",
				zap.String(constvars.LoggingTurnoIDKey, turno.ID),
				zap.Error(err),
			)
			continue
		}
		if !fresh {
			continue
		}

		if err := uc.EventPublisher.Publish(ctx, uc.InternalConfig.Reminder.Queue, uc.buildMessage(turno)); err != nil {
			uc.Log.Error("reminderUsecase.SendReminders error publishing reminder",
				zap.String(constvars.LoggingTurnoIDKey, turno.ID),
				zap.String(constvars.LoggingQueueNameKey, uc.InternalConfig.Reminder.Queue),
				zap.Error(err),
			)
			// let the next run try again
			if delErr := uc.RedisRepository.Delete(ctx, key); delErr != nil {
				uc.Log.Warn("reminderUsecase.SendReminders error clearing marker", zap.Error(delErr))
			}
			continue
		}
		sent++
	}

	uc.Log.Info("reminderUsecase.SendReminders succeeded",
		zap.String(constvars.LoggingDateKey, date),
		zap.Int(constvars.LoggingTurnoCountKey, len(turnos)),
		zap.Int(constvars.LoggingReminderCountKey, sent),
	)
	return sent, nil
}

func remindable(turno models.Turno) bool {
	return turno.ID != "" &&
		strings.TrimSpace(turno.PatientPhone) != "" &&
		!turno.AllDay &&
		!turno.IsCancelled()
}

func (uc *reminderUsecase) buildMessage(turno models.Turno) notifier.ReminderMessage {
	start := turno.Start.In(uc.Location)
	name := strings.TrimSpace(turno.PatientName)
	if name == "" {
		name = "paciente"
	}

	text := fmt.Sprintf("Hola %s, te recordamos tu turno del %s a las %s.", name, start.Format("02/01"), start.Format("15:04"))
	if turno.TipoTurno != "" {
		text = fmt.Sprintf("Hola %s, te recordamos tu turno de %s del %s a las %s.", name, turno.TipoTurno, start.Format("02/01"), start.Format("15:04"))
	}

	return notifier.ReminderMessage{
		Type:         constvars.TurnoEventRemind,
		TurnoID:      turno.ID,
		PatientName:  name,
		PatientPhone: turno.PatientPhone,
		TipoTurno:    turno.TipoTurno,
		Start:        turno.Start,
		Text:         text,
	}
}
