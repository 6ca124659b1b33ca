package auth

import (
	"context"
	"errors"
	"odonto-service/internal/app/config"
	"odonto-service/internal/app/contracts"
	"odonto-service/internal/app/models"
	"odonto-service/internal/app/services/shared/jwtmanager"
	"odonto-service/internal/app/services/shared/ratelimiter"
	"odonto-service/internal/pkg/constvars"
	"odonto-service/internal/pkg/dto/requests"
	"odonto-service/internal/pkg/dto/responses"
	"odonto-service/internal/pkg/exceptions"
	"odonto-service/internal/pkg/utils"
	"strings"
	"time"

	"go.uber.org/zap"
)

const loginLimiterGroup = "login"

type authUsecase struct {
	AuthWebhookClient contracts.AuthWebhookClient
	SessionService    contracts.SessionService
	JWTManager        *jwtmanager.JWTManager
	LoginLimiter      *ratelimiter.AttemptLimiter
	InternalConfig    *config.InternalConfig
	Log               *zap.Logger
}

func NewAuthUsecase(
	authWebhookClient contracts.AuthWebhookClient,
	sessionService contracts.SessionService,
	redisRepository contracts.RedisRepository,
	jwtManager *jwtmanager.JWTManager,
	internalConfig *config.InternalConfig,
	logger *zap.Logger,
) contracts.AuthUsecase {
	window := time.Duration(internalConfig.App.LoginBlockTimeInMinutes) * time.Minute
	return &authUsecase{
		AuthWebhookClient: authWebhookClient,
		SessionService:    sessionService,
		JWTManager:        jwtManager,
		LoginLimiter:      ratelimiter.NewAttemptLimiter(redisRepository, logger, loginLimiterGroup, window, internalConfig.App.LoginMaxAttemptsPerMinute),
		InternalConfig:    internalConfig,
		Log:               logger,
	}
}

func (uc *authUsecase) Login(ctx context.Context, request *requests.Login) (*responses.Login, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	username := strings.TrimSpace(request.Username)
	uc.Log.Info("authUsecase.Login called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingUsernameKey, username),
	)

	if !uc.LoginLimiter.Allowed(ctx, username) {
		utils.LogSecurityEvent(uc.Log, "login_blocked", requestID, "medium",
			zap.String(constvars.LoggingUsernameKey, username),
		)
		return nil, exceptions.ErrLoginRateLimited(nil)
	}

	user, err := uc.AuthWebhookClient.Login(ctx, username, request.Password)
	if err != nil {
		var customErr *exceptions.CustomError
		if errors.As(err, &customErr) && customErr.StatusCode == constvars.StatusUnauthorized {
			failures := uc.LoginLimiter.RegisterFailure(ctx, username)
			utils.LogSecurityEvent(uc.Log, "login_failed", requestID, "low",
				zap.String(constvars.LoggingUsernameKey, username),
				zap.Int("failures", failures),
			)
		}
		return nil, err
	}
	uc.LoginLimiter.Reset(ctx, username)

	now := time.Now()
	ttl := time.Duration(uc.InternalConfig.Session.ExpiredTimeInHours) * time.Hour
	if ttl <= 0 {
		ttl = uc.JWTManager.TTL()
	}
	session := &models.Session{
		SessionID:   utils.GenerateSessionID(),
		Username:    user.Username,
		DisplayName: user.DisplayName,
		Role:        user.Role,
		CreatedAt:   now,
		ExpiresAt:   now.Add(ttl),
	}
	if err := uc.SessionService.CreateSession(ctx, session, ttl); err != nil {
		return nil, err
	}

	token, err := uc.JWTManager.CreateToken(ctx, &jwtmanager.CreateTokenInput{
		SessionID: session.SessionID,
		Subject:   session.Username,
	})
	if err != nil {
		uc.Log.Error("authUsecase.Login error creating token",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, exceptions.ErrTokenGenerate(err)
	}

	expiresAt := token.ExpiresAt
	if session.ExpiresAt.Before(expiresAt) {
		expiresAt = session.ExpiresAt
	}

	uc.Log.Info("authUsecase.Login succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingUsernameKey, session.Username),
		zap.String(constvars.LoggingSessionIDKey, session.SessionID),
	)
	return &responses.Login{
		Token:       token.Token,
		ExpiresAt:   expiresAt,
		Username:    session.Username,
		DisplayName: session.DisplayName,
	}, nil
}

func (uc *authUsecase) Logout(ctx context.Context, sessionID string) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("authUsecase.Logout called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingSessionIDKey, sessionID),
	)
	return uc.SessionService.DeleteSession(ctx, sessionID)
}

func (uc *authUsecase) ChangePassword(ctx context.Context, session *models.Session, request *requests.ChangePassword) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	if session == nil {
		return exceptions.ErrMissingSessionData(nil)
	}
	uc.Log.Info("authUsecase.ChangePassword called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingUsernameKey, session.Username),
	)

	if request.NewPassword != request.ConfirmPassword {
		return exceptions.ErrPasswordDoNotMatch(nil)
	}
	if request.NewPassword == request.CurrentPassword {
		return exceptions.ErrClientCustomMessage(errors.New("new password must be different from the current one"))
	}

	if err := uc.AuthWebhookClient.ChangePassword(ctx, session.Username, request.CurrentPassword, request.NewPassword); err != nil {
		return err
	}

	utils.LogSecurityEvent(uc.Log, "password_changed", requestID, "info",
		zap.String(constvars.LoggingUsernameKey, session.Username),
	)
	return nil
}

// Authenticate resolves a browser token to its live session.
func (uc *authUsecase) Authenticate(ctx context.Context, token string) (*models.Session, error) {
	if strings.TrimSpace(token) == "" {
		return nil, exceptions.ErrTokenMissing(nil)
	}

	claims, err := uc.JWTManager.VerifyToken(ctx, &jwtmanager.VerifyTokenInput{Token: token})
	if err != nil {
		return nil, exceptions.ErrTokenInvalidOrExpired(err)
	}

	session, err := uc.SessionService.GetSession(ctx, claims.SessionID)
	if err != nil {
		return nil, err
	}
	if claims.Subject != "" && claims.Subject != session.Username {
		return nil, exceptions.ErrInvalidSession(nil)
	}
	return session, nil
}
