package auth

import (
	"context"
	"errors"
	"odonto-service/internal/app/config"
	"odonto-service/internal/app/contracts"
	"odonto-service/internal/app/models"
	"odonto-service/internal/app/services/shared/jwtmanager"
	sharedredis "odonto-service/internal/app/services/shared/redis"
	sharedsession "odonto-service/internal/app/services/shared/session"
	"odonto-service/internal/pkg/constvars"
	"odonto-service/internal/pkg/dto/requests"
	"odonto-service/internal/pkg/exceptions"
	"testing"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockAuthWebhookClient struct {
	mock.Mock
}

func (m *MockAuthWebhookClient) Login(ctx context.Context, username, password string) (*models.AdminUser, error) {
	args := m.Called(ctx, username, password)
	user, _ := args.Get(0).(*models.AdminUser)
	return user, args.Error(1)
}

func (m *MockAuthWebhookClient) ChangePassword(ctx context.Context, username, currentPassword, newPassword string) error {
	args := m.Called(ctx, username, currentPassword, newPassword)
	return args.Error(0)
}

func newTestUsecase(t *testing.T) (contracts.AuthUsecase, *MockAuthWebhookClient, *miniredis.Miniredis) {
	t.Helper()

	server := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: server.Addr()})
	t.Cleanup(func() { client.Close() })

	cfg := &config.InternalConfig{
		App: config.App{
			LoginMaxAttemptsPerMinute: 2,
			LoginBlockTimeInMinutes:   5,
		},
		JWT:     config.JWT{Secret: "test-secret", ExpTimeInHour: 12},
		Session: config.Session{ExpiredTimeInHours: 8},
	}
	logger := zap.NewNop()
	jwtManager, err := jwtmanager.NewJWTManager(cfg, logger)
	require.NoError(t, err)

	repo := sharedredis.NewRedisRepository(client)
	webhookClient := new(MockAuthWebhookClient)
	uc := NewAuthUsecase(webhookClient, sharedsession.NewSessionService(repo, logger), repo, jwtManager, cfg, logger)
	return uc, webhookClient, server
}

func statusOf(t *testing.T, err error) int {
	t.Helper()
	var customErr *exceptions.CustomError
	require.True(t, errors.As(err, &customErr), "expected CustomError, got %v", err)
	return customErr.StatusCode
}

func TestAuthUsecase_LoginAndAuthenticate(t *testing.T) {
	ctx := context.Background()
	uc, webhookClient, _ := newTestUsecase(t)
	webhookClient.On("Login", mock.Anything, "recepcion", "secreto").Return(&models.AdminUser{Username: "recepcion", DisplayName: "Recepción"}, nil)

	login, err := uc.Login(ctx, &requests.Login{Username: " recepcion ", Password: "secreto"})
	require.NoError(t, err)
	assert.NotEmpty(t, login.Token)
	assert.Equal(t, "Recepción", login.DisplayName)

	session, err := uc.Authenticate(ctx, login.Token)
	require.NoError(t, err)
	assert.Equal(t, "recepcion", session.Username)
	assert.WithinDuration(t, login.ExpiresAt, session.ExpiresAt, 2e9)

	require.NoError(t, uc.Logout(ctx, session.SessionID))
	_, err = uc.Authenticate(ctx, login.Token)
	assert.Equal(t, constvars.StatusUnauthorized, statusOf(t, err))
}

func TestAuthUsecase_Authenticate(t *testing.T) {
	ctx := context.Background()
	uc, _, _ := newTestUsecase(t)

	_, err := uc.Authenticate(ctx, "")
	assert.Equal(t, constvars.StatusUnauthorized, statusOf(t, err))

	_, err = uc.Authenticate(ctx, "not-a-jwt")
	assert.Equal(t, constvars.StatusUnauthorized, statusOf(t, err))
}

func TestAuthUsecase_LoginLockout(t *testing.T) {
	ctx := context.Background()
	uc, webhookClient, server := newTestUsecase(t)
	webhookClient.On("Login", mock.Anything, "recepcion", "mal").Return(nil, exceptions.ErrInvalidUsernameOrPassword(nil))

	for i := 0; i < 2; i++ {
		_, err := uc.Login(ctx, &requests.Login{Username: "recepcion", Password: "mal"})
		assert.Equal(t, constvars.StatusUnauthorized, statusOf(t, err))
	}

	_, err := uc.Login(ctx, &requests.Login{Username: "Recepcion", Password: "mal"})
	assert.Equal(t, constvars.StatusTooManyRequests, statusOf(t, err))
	webhookClient.AssertNumberOfCalls(t, "Login", 2)
	assert.True(t, server.Exists(constvars.RedisKeyAttemptPrefix+"LOGIN:recepcion"))
}

func TestAuthUsecase_LoginStoreDownDoesNotCountAsFailure(t *testing.T) {
	ctx := context.Background()
	uc, webhookClient, server := newTestUsecase(t)
	webhookClient.On("Login", mock.Anything, "recepcion", "secreto").Return(nil, exceptions.ErrSendHTTPRequest(errors.New("refused")))

	_, err := uc.Login(ctx, &requests.Login{Username: "recepcion", Password: "secreto"})

	assert.Equal(t, constvars.StatusBadGateway, statusOf(t, err))
	assert.False(t, server.Exists(constvars.RedisKeyAttemptPrefix+"LOGIN:recepcion"))
}

func TestAuthUsecase_ChangePassword(t *testing.T) {
	ctx := context.Background()
	adminSession := &models.Session{SessionID: "s1", Username: "recepcion"}

	t.Run("Forwarded", func(t *testing.T) {
		uc, webhookClient, _ := newTestUsecase(t)
		webhookClient.On("ChangePassword", mock.Anything, "recepcion", "viejo1", "nuevo12").Return(nil)

		err := uc.ChangePassword(ctx, adminSession, &requests.ChangePassword{CurrentPassword: "viejo1", NewPassword: "nuevo12", ConfirmPassword: "nuevo12"})

		require.NoError(t, err)
		webhookClient.AssertExpectations(t)
	})

	t.Run("Confirmation Mismatch", func(t *testing.T) {
		uc, _, _ := newTestUsecase(t)

		err := uc.ChangePassword(ctx, adminSession, &requests.ChangePassword{CurrentPassword: "viejo1", NewPassword: "nuevo12", ConfirmPassword: "nuevo13"})

		assert.Equal(t, constvars.StatusBadRequest, statusOf(t, err))
	})

	t.Run("Same As Current", func(t *testing.T) {
		uc, _, _ := newTestUsecase(t)

		err := uc.ChangePassword(ctx, adminSession, &requests.ChangePassword{CurrentPassword: "viejo1", NewPassword: "viejo1", ConfirmPassword: "viejo1"})

		assert.Equal(t, constvars.StatusBadRequest, statusOf(t, err))
	})

	t.Run("No Session", func(t *testing.T) {
		uc, _, _ := newTestUsecase(t)

		err := uc.ChangePassword(ctx, nil, &requests.ChangePassword{})

		assert.Equal(t, constvars.StatusUnauthorized, statusOf(t, err))
	})
}
