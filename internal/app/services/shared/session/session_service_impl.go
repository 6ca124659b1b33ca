package session

import (
	"context"
	"odonto-service/internal/app/contracts"
	"odonto-service/internal/app/models"
	"odonto-service/internal/pkg/constvars"
	"odonto-service/internal/pkg/exceptions"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

type sessionService struct {
	redisRepo contracts.RedisRepository
	Log       *zap.Logger
}

func NewSessionService(repo contracts.RedisRepository, logger *zap.Logger) contracts.SessionService {
	return &sessionService{
		redisRepo: repo,
		Log:       logger,
	}
}

func sessionKey(sessionID string) string {
	return constvars.RedisKeySessionPrefix + sessionID
}

func (s *sessionService) CreateSession(ctx context.Context, session *models.Session, ttl time.Duration) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	s.Log.Info("sessionService.CreateSession called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingSessionIDKey, session.SessionID),
		zap.String(constvars.LoggingUsernameKey, session.Username),
	)

	if err := s.redisRepo.Set(ctx, sessionKey(session.SessionID), session, ttl); err != nil {
		s.Log.Error("sessionService.CreateSession error storing session",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return err
	}
	return nil
}

// GetSession returns ErrInvalidSession for unknown or expired sessions.
func (s *sessionService) GetSession(ctx context.Context, sessionID string) (*models.Session, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)

	raw, err := s.redisRepo.Get(ctx, sessionKey(sessionID))
	if err != nil {
		s.Log.Error("sessionService.GetSession error reading session",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingSessionIDKey, sessionID),
			zap.Error(err),
		)
		return nil, err
	}
	if raw == "" {
		return nil, exceptions.ErrInvalidSession(nil)
	}

	session := new(models.Session)
	if err := json.Unmarshal([]byte(raw), session); err != nil {
		return nil, exceptions.ErrInvalidSession(err)
	}
	if session.IsExpired(time.Now()) {
		return nil, exceptions.ErrInvalidSession(nil)
	}
	return session, nil
}

func (s *sessionService) DeleteSession(ctx context.Context, sessionID string) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	s.Log.Info("sessionService.DeleteSession called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingSessionIDKey, sessionID),
	)
	return s.redisRepo.Delete(ctx, sessionKey(sessionID))
}
