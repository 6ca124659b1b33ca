package webhook

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"odonto-service/internal/app/config"
	"odonto-service/internal/pkg/constvars"
	"odonto-service/internal/pkg/exceptions"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var practiceLocation = time.FixedZone("ART", -3*60*60)

func newTestServer(t *testing.T, handler http.HandlerFunc) (*Transport, config.Webhook) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := config.Webhook{
		BaseUrl:            server.URL + "/webhook/",
		Token:              "secret-token",
		TimeoutInSeconds:   2,
		PatientsListPath:   "/pacientes",
		PatientCreatePath:  "/pacientes/crear",
		PatientUpdatePath:  "/pacientes/actualizar",
		PatientDeletePath:  "/pacientes/eliminar",
		PatientByDNIPath:   "/pacientes/verificar-dni",
		TurnosListPath:     "/turnos",
		TurnoCreatePath:    "/turnos/crear",
		TurnoUpdatePath:    "/turnos/actualizar",
		TurnoDeletePath:    "/turnos/eliminar",
		AvailabilityPath:   "/disponibilidad",
		LoginPath:          "/login",
		ChangePasswordPath: "/cambiar-password",
	}
	return NewTransport(cfg, zap.NewNop()), cfg
}

func requestContext() context.Context {
	return context.WithValue(context.Background(), constvars.CONTEXT_REQUEST_ID_KEY, "req-123")
}

func requireCustomError(t *testing.T, err error, statusCode int) *exceptions.CustomError {
	t.Helper()

	var customErr *exceptions.CustomError
	require.True(t, errors.As(err, &customErr), "expected CustomError, got %v", err)
	require.Equal(t, statusCode, customErr.StatusCode)
	return customErr
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set(constvars.HeaderContentType, constvars.MIMEApplicationJSON)
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}
