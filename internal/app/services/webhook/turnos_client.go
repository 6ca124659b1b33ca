package webhook

import (
	"context"
	"net/url"
	"odonto-service/internal/app/config"
	"odonto-service/internal/app/contracts"
	"odonto-service/internal/app/models"
	"odonto-service/internal/pkg/constvars"
	"odonto-service/internal/pkg/exceptions"
	"odonto-service/internal/pkg/normalizer"
	"time"

	"go.uber.org/zap"
)

type turnoWebhookClient struct {
	transport      *Transport
	paths          config.Webhook
	location       *time.Location
	defaultMinutes int
	Log            *zap.Logger
}

func NewTurnoWebhookClient(transport *Transport, cfg config.Webhook, location *time.Location, defaultMinutes int, logger *zap.Logger) contracts.TurnoWebhookClient {
	return &turnoWebhookClient{
		transport:      transport,
		paths:          cfg,
		location:       location,
		defaultMinutes: defaultMinutes,
		Log:            logger,
	}
}

// ListTurnos asks the calendar for events between from and to. A zero bound
// is left out and the flow applies its own default.
func (c *turnoWebhookClient) ListTurnos(ctx context.Context, from, to time.Time) ([]models.Turno, error) {
	query := url.Values{}
	if !from.IsZero() {
		query.Set("timeMin", from.Format(time.RFC3339))
	}
	if !to.IsZero() {
		query.Set("timeMax", to.Format(time.RFC3339))
	}

	body, err := c.transport.getJSON(ctx, "turnoWebhookClient.ListTurnos", constvars.ResourceTurnos, c.paths.TurnosListPath, query)
	if err != nil {
		return nil, err
	}

	turnos, err := normalizer.NormalizeTurnos(body, c.location, c.defaultMinutes)
	if err != nil {
		c.Log.Error("turnoWebhookClient.ListTurnos error decoding response",
			zap.Error(err),
		)
		return nil, exceptions.ErrWebhookDecode(err, constvars.ResourceTurnos)
	}
	return turnos, nil
}

func (c *turnoWebhookClient) CreateTurno(ctx context.Context, turno models.Turno) (*models.Turno, error) {
	return c.send(ctx, "turnoWebhookClient.CreateTurno", c.paths.TurnoCreatePath, turno)
}

func (c *turnoWebhookClient) UpdateTurno(ctx context.Context, turno models.Turno) (*models.Turno, error) {
	return c.send(ctx, "turnoWebhookClient.UpdateTurno", c.paths.TurnoUpdatePath, turno)
}

func (c *turnoWebhookClient) DeleteTurno(ctx context.Context, turnoID string) error {
	_, err := c.transport.postJSON(ctx, "turnoWebhookClient.DeleteTurno", constvars.ResourceTurnos, c.paths.TurnoDeletePath, map[string]string{"id": turnoID})
	return err
}

func (c *turnoWebhookClient) send(ctx context.Context, operation, path string, turno models.Turno) (*models.Turno, error) {
	payload := normalizer.DenormalizeTurno(turno, c.location)

	body, err := c.transport.postJSON(ctx, operation, constvars.ResourceTurnos, path, payload)
	if err != nil {
		return nil, err
	}

	saved, err := normalizer.NormalizeTurnoObject(body, c.location, c.defaultMinutes, turno)
	if err != nil {
		c.Log.Error(operation+" error decoding response",
			zap.Error(err),
		)
		return nil, exceptions.ErrWebhookDecode(err, constvars.ResourceTurnos)
	}
	if saved.ID == "" {
		saved.ID = turno.ID
	}
	return &saved, nil
}
