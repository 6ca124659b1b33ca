package webhook

import (
	"context"
	"odonto-service/internal/app/config"
	"odonto-service/internal/app/contracts"
	"odonto-service/internal/app/models"
	"odonto-service/internal/pkg/constvars"
	"odonto-service/internal/pkg/exceptions"
	"odonto-service/internal/pkg/normalizer"
	"time"

	"go.uber.org/zap"
)

type availabilityWebhookClient struct {
	transport      *Transport
	path           string
	location       *time.Location
	defaultMinutes int
	Log            *zap.Logger
}

func NewAvailabilityWebhookClient(transport *Transport, cfg config.Webhook, location *time.Location, defaultMinutes int, logger *zap.Logger) contracts.AvailabilityWebhookClient {
	return &availabilityWebhookClient{
		transport:      transport,
		path:           cfg.AvailabilityPath,
		location:       location,
		defaultMinutes: defaultMinutes,
		Log:            logger,
	}
}

func (c *availabilityWebhookClient) GetBusyIntervals(ctx context.Context, date time.Time) ([]models.TimeRange, error) {
	query := dateQuery("date", date.In(c.location))

	body, err := c.transport.getJSON(ctx, "availabilityWebhookClient.GetBusyIntervals", constvars.ResourceAvailability, c.path, query)
	if err != nil {
		return nil, err
	}

	busy, err := normalizer.NormalizeBusy(body, c.location, c.defaultMinutes)
	if err != nil {
		c.Log.Error("availabilityWebhookClient.GetBusyIntervals error decoding response",
			zap.Error(err),
		)
		return nil, exceptions.ErrWebhookDecode(err, constvars.ResourceAvailability)
	}
	return busy, nil
}
