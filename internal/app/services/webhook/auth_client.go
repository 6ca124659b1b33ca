package webhook

import (
	"context"
	"errors"
	"odonto-service/internal/app/config"
	"odonto-service/internal/app/contracts"
	"odonto-service/internal/app/models"
	"odonto-service/internal/pkg/constvars"
	"odonto-service/internal/pkg/exceptions"
	"odonto-service/internal/pkg/normalizer"

	"go.uber.org/zap"
)

type authWebhookClient struct {
	transport *Transport
	paths     config.Webhook
	Log       *zap.Logger
}

func NewAuthWebhookClient(transport *Transport, cfg config.Webhook, logger *zap.Logger) contracts.AuthWebhookClient {
	return &authWebhookClient{
		transport: transport,
		paths:     cfg,
		Log:       logger,
	}
}

func (c *authWebhookClient) Login(ctx context.Context, username, password string) (*models.AdminUser, error) {
	body, err := c.transport.postJSON(ctx, "authWebhookClient.Login", constvars.ResourceAuth, c.paths.LoginPath, map[string]string{
		"username": username,
		"password": password,
	})
	if err != nil {
		return nil, credentialsError(err)
	}

	user, err := normalizer.NormalizeAdminUser(body, username)
	if err != nil {
		c.Log.Error("authWebhookClient.Login error decoding response",
			zap.String(constvars.LoggingUsernameKey, username),
			zap.Error(err),
		)
		return nil, exceptions.ErrWebhookDecode(err, constvars.ResourceAuth)
	}
	return &user, nil
}

func (c *authWebhookClient) ChangePassword(ctx context.Context, username, currentPassword, newPassword string) error {
	_, err := c.transport.postJSON(ctx, "authWebhookClient.ChangePassword", constvars.ResourceAuth, c.paths.ChangePasswordPath, map[string]string{
		"username":        username,
		"currentPassword": currentPassword,
		"newPassword":     newPassword,
	})
	if err != nil {
		return credentialsError(err)
	}
	return nil
}

// credentialsError turns a rejection by the login flow into the generic
// invalid credentials error. Transport failures pass through untouched.
func credentialsError(err error) error {
	var customErr *exceptions.CustomError
	if !errors.As(err, &customErr) {
		return err
	}
	switch customErr.StatusCode {
	case constvars.StatusUnauthorized, constvars.StatusForbidden, constvars.StatusUnprocessableEntity, constvars.StatusBadRequest:
		return exceptions.ErrInvalidUsernameOrPassword(err)
	}
	return err
}
