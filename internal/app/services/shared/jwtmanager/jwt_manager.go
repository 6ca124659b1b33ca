package jwtmanager

import (
	"context"
	"errors"
	"fmt"
	"odonto-service/internal/app/config"
	"odonto-service/internal/pkg/constvars"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"go.uber.org/zap"
)

const sessionClaimKey = "session_id"

var ErrEmptySecret = errors.New("JWT_SECRET is empty")

// JWTManager signs and verifies the HS256 browser tokens that carry an admin
// session id.
type JWTManager struct {
	log    *zap.Logger
	secret []byte
	ttl    time.Duration
}

type CreateTokenInput struct {
	SessionID string
	Subject   string
}

type CreateTokenOutput struct {
	Token     string
	ExpiresAt time.Time
}

type VerifyTokenInput struct {
	Token string
}

type VerifyTokenOutput struct {
	SessionID string
	Subject   string
	ExpiresAt time.Time
}

func NewJWTManager(cfg *config.InternalConfig, log *zap.Logger) (*JWTManager, error) {
	secret := strings.TrimSpace(cfg.JWT.Secret)
	if secret == "" {
		return nil, ErrEmptySecret
	}

	hours := cfg.JWT.ExpTimeInHour
	if hours <= 0 {
		hours = 1
	}

	return &JWTManager{
		log:    log,
		secret: []byte(secret),
		ttl:    time.Duration(hours) * time.Hour,
	}, nil
}

func (j *JWTManager) TTL() time.Duration {
	return j.ttl
}

// CreateToken signs a token with iat and nbf set to now and exp to now + ttl.
func (j *JWTManager) CreateToken(ctx context.Context, in *CreateTokenInput) (*CreateTokenOutput, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	j.log.Info("JWTManager.CreateToken called", zap.String(constvars.LoggingRequestIDKey, requestID))

	if in == nil || strings.TrimSpace(in.SessionID) == "" {
		return nil, fmt.Errorf("session id is required")
	}

	now := time.Now().UTC()
	expiresAt := now.Add(j.ttl)
	claims := jwt.MapClaims{
		sessionClaimKey: in.SessionID,
		"sub":           in.Subject,
		"iat":           now.Unix(),
		"nbf":           now.Unix(),
		"exp":           expiresAt.Unix(),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(j.secret)
	if err != nil {
		return nil, err
	}

	j.log.Info("JWTManager.CreateToken succeeded", zap.String(constvars.LoggingRequestIDKey, requestID))
	return &CreateTokenOutput{Token: token, ExpiresAt: expiresAt}, nil
}

func (j *JWTManager) VerifyToken(ctx context.Context, in *VerifyTokenInput) (*VerifyTokenOutput, error) {
	if in == nil || strings.TrimSpace(in.Token) == "" {
		return nil, fmt.Errorf("token is required")
	}

	parsed, err := jwt.Parse(in.Token, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("%s: %v", constvars.ErrDevAuthSigningMethod, token.Header["alg"])
		}
		return j.secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok || !parsed.Valid {
		return nil, errors.New(constvars.ErrDevAuthTokenInvalidOrExpired)
	}

	sessionID, _ := claims[sessionClaimKey].(string)
	if sessionID == "" {
		return nil, fmt.Errorf("token carries no session id")
	}
	subject, _ := claims["sub"].(string)

	out := &VerifyTokenOutput{SessionID: sessionID, Subject: subject}
	if exp, ok := claims["exp"].(float64); ok {
		out.ExpiresAt = time.Unix(int64(exp), 0)
	}
	return out, nil
}
