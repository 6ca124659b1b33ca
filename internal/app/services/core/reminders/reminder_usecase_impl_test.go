package reminders

import (
	"context"
	"errors"
	"fmt"
	"odonto-service/internal/app/config"
	"odonto-service/internal/app/contracts"
	"odonto-service/internal/app/models"
	"odonto-service/internal/app/services/shared/locker"
	"odonto-service/internal/app/services/shared/notifier"
	sharedredis "odonto-service/internal/app/services/shared/redis"
	"odonto-service/internal/pkg/constvars"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type MockTurnoWebhookClient struct {
	mock.Mock
}

func (m *MockTurnoWebhookClient) ListTurnos(ctx context.Context, from, to time.Time) ([]models.Turno, error) {
	args := m.Called(ctx, from, to)
	turnos, _ := args.Get(0).([]models.Turno)
	return turnos, args.Error(1)
}

func (m *MockTurnoWebhookClient) CreateTurno(ctx context.Context, turno models.Turno) (*models.Turno, error) {
	args := m.Called(ctx, turno)
	created, _ := args.Get(0).(*models.Turno)
	return created, args.Error(1)
}

func (m *MockTurnoWebhookClient) UpdateTurno(ctx context.Context, turno models.Turno) (*models.Turno, error) {
	args := m.Called(ctx, turno)
	updated, _ := args.Get(0).(*models.Turno)
	return updated, args.Error(1)
}

func (m *MockTurnoWebhookClient) DeleteTurno(ctx context.Context, turnoID string) error {
	return m.Called(ctx, turnoID).Error(0)
}

type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, queueName string, payload interface{}) error {
	return m.Called(ctx, queueName, payload).Error(0)
}

type MockReminderUsecase struct {
	mock.Mock
}

func (m *MockReminderUsecase) SendReminders(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

var (
	today    = time.Date(2026, 3, 10, 18, 0, 0, 0, time.UTC)
	tomorrow = time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC)
)

func testConfig() *config.InternalConfig {
	return &config.InternalConfig{
		App:      config.App{Timezone: "UTC"},
		Reminder: config.Reminder{Queue: "reminders", CronSpec: "0 18 * * *"},
	}
}

func newTestRedis(t *testing.T) (contracts.RedisRepository, *miniredis.Miniredis) {
	t.Helper()
	server := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: server.Addr()})
	t.Cleanup(func() { client.Close() })
	return sharedredis.NewRedisRepository(client), server
}

func newTestUsecase(t *testing.T) (*reminderUsecase, *MockTurnoWebhookClient, *MockEventPublisher, *miniredis.Miniredis) {
	t.Helper()
	repo, server := newTestRedis(t)
	turnoClient := new(MockTurnoWebhookClient)
	publisher := new(MockEventPublisher)

	uc := NewReminderUsecase(turnoClient, repo, publisher, testConfig(), zap.NewNop()).(*reminderUsecase)
	uc.Now = func() time.Time { return today }
	return uc, turnoClient, publisher, server
}

func tomorrowTurnos() []models.Turno {
	return []models.Turno{
		{ID: "t1", PatientName: "Ana Pérez", PatientPhone: "1155550000", TipoTurno: "limpieza", Start: tomorrow.Add(9 * time.Hour), End: tomorrow.Add(9*time.Hour + 40*time.Minute)},
		{ID: "t2", PatientName: "Sin Teléfono", Start: tomorrow.Add(10 * time.Hour), End: tomorrow.Add(10*time.Hour + 30*time.Minute)},
		{ID: "t3", PatientName: "Cancelado", PatientPhone: "1155551111", Estado: constvars.TurnoStatusCancelled, Start: tomorrow.Add(11 * time.Hour)},
	}
}

func TestReminderUsecase_SendReminders(t *testing.T) {
	ctx := context.Background()

	t.Run("Publishes Only Remindable Turnos", func(t *testing.T) {
		uc, turnoClient, publisher, server := newTestUsecase(t)
		turnoClient.On("ListTurnos", mock.Anything, tomorrow, tomorrow.AddDate(0, 0, 1)).Return(tomorrowTurnos(), nil)
		publisher.On("Publish", mock.Anything, "reminders", mock.MatchedBy(func(msg notifier.ReminderMessage) bool {
			return msg.TurnoID == "t1" &&
				msg.Type == constvars.TurnoEventRemind &&
				msg.Text == "Hola Ana Pérez, te recordamos tu turno de limpieza del 11/03 a las 09:00."
		})).Return(nil).Once()

		sent, err := uc.SendReminders(ctx)

		require.NoError(t, err)
		assert.Equal(t, 1, sent)
		assert.True(t, server.Exists(fmt.Sprintf(constvars.RedisKeyReminderSentFmt, "2026-03-11", "t1")))
		publisher.AssertExpectations(t)
	})

	t.Run("Second Run Does Not Resend", func(t *testing.T) {
		uc, turnoClient, publisher, _ := newTestUsecase(t)
		turnoClient.On("ListTurnos", mock.Anything, mock.Anything, mock.Anything).Return(tomorrowTurnos(), nil)
		publisher.On("Publish", mock.Anything, "reminders", mock.Anything).Return(nil).Once()

		first, err := uc.SendReminders(ctx)
		require.NoError(t, err)
		second, err := uc.SendReminders(ctx)
		require.NoError(t, err)

		assert.Equal(t, 1, first)
		assert.Equal(t, 0, second)
		publisher.AssertNumberOfCalls(t, "Publish", 1)
	})

	t.Run("Failed Publish Is Retried Next Run", func(t *testing.T) {
		uc, turnoClient, publisher, server := newTestUsecase(t)
		turnoClient.On("ListTurnos", mock.Anything, mock.Anything, mock.Anything).Return(tomorrowTurnos(), nil)
		publisher.On("Publish", mock.Anything, "reminders", mock.Anything).Return(errors.New("broker down")).Once()
		publisher.On("Publish", mock.Anything, "reminders", mock.Anything).Return(nil).Once()

		first, err := uc.SendReminders(ctx)
		require.NoError(t, err)
		assert.Equal(t, 0, first)
		assert.False(t, server.Exists(fmt.Sprintf(constvars.RedisKeyReminderSentFmt, "2026-03-11", "t1")))

		second, err := uc.SendReminders(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, second)
	})

	t.Run("Listing Error", func(t *testing.T) {
		uc, turnoClient, publisher, _ := newTestUsecase(t)
		turnoClient.On("ListTurnos", mock.Anything, mock.Anything, mock.Anything).Return(nil, errors.New("webhook down"))

		_, err := uc.SendReminders(ctx)

		assert.Error(t, err)
		publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestBuildMessageWithoutType(t *testing.T) {
	uc, _, _, _ := newTestUsecase(t)

	msg := uc.buildMessage(models.Turno{ID: "t9", PatientPhone: "11", Start: tomorrow.Add(15*time.Hour + 30*time.Minute)})

	assert.Equal(t, "paciente", msg.PatientName)
	assert.Equal(t, "Hola paciente, te recordamos tu turno del 11/03 a las 15:30.", msg.Text)
}

func TestWorker_RunOnce(t *testing.T) {
	ctx := context.Background()

	t.Run("Leader Sends And Releases Lock", func(t *testing.T) {
		repo, server := newTestRedis(t)
		reminderUsecase := new(MockReminderUsecase)
		reminderUsecase.On("SendReminders", mock.Anything).Return(2, nil).Once()
		worker := NewWorker(zap.NewNop(), testConfig(), locker.NewLockService(repo, zap.NewNop()), reminderUsecase)

		worker.runOnce(ctx)

		reminderUsecase.AssertExpectations(t)
		assert.False(t, server.Exists(constvars.RedisKeyReminderLeader))
	})

	t.Run("Skips When Another Instance Leads", func(t *testing.T) {
		repo, server := newTestRedis(t)
		require.NoError(t, server.Set(constvars.RedisKeyReminderLeader, `"other-instance"`))
		reminderUsecase := new(MockReminderUsecase)
		worker := NewWorker(zap.NewNop(), testConfig(), locker.NewLockService(repo, zap.NewNop()), reminderUsecase)

		worker.runOnce(ctx)

		reminderUsecase.AssertNotCalled(t, "SendReminders", mock.Anything)
		assert.True(t, server.Exists(constvars.RedisKeyReminderLeader))
	})

	t.Run("Start And Stop With Invalid Spec", func(t *testing.T) {
		repo, _ := newTestRedis(t)
		cfg := testConfig()
		cfg.Reminder.CronSpec = "not a spec"
		core, logs := observer.New(zap.InfoLevel)
		worker := NewWorker(zap.New(core), cfg, locker.NewLockService(repo, zap.NewNop()), new(MockReminderUsecase))

		worker.Start(ctx)
		require.NotNil(t, worker.cron)
		assert.Len(t, worker.cron.Entries(), 1)

		started := logs.FilterMessage("reminders.worker: started").All()
		require.Len(t, started, 1)
		assert.Equal(t, fallbackCronSpec, started[0].ContextMap()["spec"])

		worker.Stop()
		worker.Stop()
	})
}
