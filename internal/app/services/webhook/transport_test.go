package webhook

import (
	"context"
	"net/http"
	"odonto-service/internal/app/config"
	"odonto-service/internal/pkg/constvars"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestTransportHeaders(t *testing.T) {
	var got http.Header
	var path string
	transport, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		path = r.URL.Path
		writeJSON(w, http.StatusOK, `{"success":true}`)
	})

	_, err := transport.postJSON(requestContext(), "test.Call", constvars.ResourcePatients, "/pacientes/crear", map[string]string{"nombre": "Ana"})

	require.NoError(t, err)
	assert.Equal(t, "/webhook/pacientes/crear", path)
	assert.Equal(t, "req-123", got.Get(constvars.HeaderXRequestID))
	assert.Equal(t, "secret-token", got.Get(constvars.HeaderXWebhookToken))
	assert.Equal(t, constvars.MIMEApplicationJSON, got.Get(constvars.HeaderContentType))
}

func TestTransportErrorMapping(t *testing.T) {
	tests := []struct {
		name          string
		status        int
		body          string
		wantStatus    int
		wantClientMsg string
	}{
		{"Server Error With Message", http.StatusInternalServerError, `{"message":"sheet locked"}`, constvars.StatusBadGateway, "sheet locked"},
		{"Server Error Without Message", http.StatusInternalServerError, ``, constvars.StatusBadGateway, constvars.ErrClientWebhookUnavailable},
		{"Bad Request Error Field", http.StatusBadRequest, `{"error":"dni invalido"}`, constvars.StatusBadRequest, "dni invalido"},
		{"Nested Error Object", http.StatusConflict, `{"error":{"message":"duplicado"}}`, constvars.StatusConflict, "duplicado"},
		{"Plain Text Body", http.StatusBadRequest, `falta el nombre`, constvars.StatusBadRequest, "falta el nombre"},
		{"Unauthorized", http.StatusUnauthorized, `{}`, constvars.StatusUnauthorized, constvars.ErrClientInvalidUsernameOrPassword},
		{"Not Found", http.StatusNotFound, `{}`, constvars.StatusNotFound, constvars.ErrClientCannotProcessRequest},
		{"Success False", http.StatusOK, `{"success":false,"msg":"no se pudo guardar"}`, constvars.StatusUnprocessableEntity, "no se pudo guardar"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			transport, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, tt.status, tt.body)
			})

			_, err := transport.getJSON(requestContext(), "test.Call", constvars.ResourcePatients, "/pacientes", nil)

			customErr := requireCustomError(t, err, tt.wantStatus)
			assert.Equal(t, tt.wantClientMsg, customErr.ClientMessage)
		})
	}
}

func TestTransportTimeout(t *testing.T) {
	transport, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(time.Second):
		case <-r.Context().Done():
		}
		writeJSON(w, http.StatusOK, `[]`)
	})
	transport.HTTPClient.Timeout = 50 * time.Millisecond

	_, err := transport.getJSON(requestContext(), "test.Call", constvars.ResourceTurnos, "/turnos", nil)

	requireCustomError(t, err, constvars.StatusGatewayTimeout)
}

func TestTransportContextDeadline(t *testing.T) {
	transport, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})
	ctx, cancel := context.WithTimeout(requestContext(), 50*time.Millisecond)
	defer cancel()

	_, err := transport.getJSON(ctx, "test.Call", constvars.ResourceTurnos, "/turnos", nil)

	requireCustomError(t, err, constvars.StatusGatewayTimeout)
}

func TestTransportUnreachable(t *testing.T) {
	transport := NewTransport(config.Webhook{BaseUrl: "http://127.0.0.1:1", TimeoutInSeconds: 1}, zap.NewNop())

	_, err := transport.getJSON(requestContext(), "test.Call", constvars.ResourcePatients, "/pacientes", nil)

	requireCustomError(t, err, constvars.StatusBadGateway)
}
