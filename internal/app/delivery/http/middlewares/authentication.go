package middlewares

import (
	"context"
	"net/http"
	"odonto-service/internal/pkg/constvars"
	"odonto-service/internal/pkg/utils"

	"go.uber.org/zap"
)

// Authenticate resolves the bearer token into an admin session and stores
// both the session id and the session itself in the request context.
func (m *Middlewares) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := utils.GetRequestID(r.Context())
		token := utils.ExtractBearerToken(r)

		session, err := m.AuthUsecase.Authenticate(r.Context(), token)
		if err != nil {
			m.Log.Info("Authenticate rejected request",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.String(constvars.LoggingEndpointKey, r.URL.Path),
				zap.Error(err),
			)
			utils.BuildErrorResponse(m.Log, w, err)
			return
		}

		ctx := context.WithValue(r.Context(), constvars.CONTEXT_SESSION_ID_KEY, session.SessionID)
		ctx = context.WithValue(ctx, constvars.CONTEXT_SESSION_DATA_KEY, session)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
