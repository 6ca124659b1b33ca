package webhook

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"
	"odonto-service/internal/app/config"
	"odonto-service/internal/pkg/constvars"
	"odonto-service/internal/pkg/exceptions"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const maxResponseBytes = 10 << 20

var messageKeys = []string{"message", "error", "msg", "mensaje"}

// Transport is the shared HTTP plumbing every webhook client goes through.
type Transport struct {
	BaseUrl    string
	Token      string
	HTTPClient *http.Client
	Limiter    *rate.Limiter
	Log        *zap.Logger
}

func NewTransport(cfg config.Webhook, logger *zap.Logger) *Transport {
	timeout := time.Duration(cfg.TimeoutInSeconds) * time.Second
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}

	return &Transport{
		BaseUrl:    strings.TrimRight(cfg.BaseUrl, "/"),
		Token:      cfg.Token,
		HTTPClient: &http.Client{Timeout: timeout},
		Limiter:    rate.NewLimiter(limit, burst),
		Log:        logger,
	}
}

type request struct {
	Operation   string
	Resource    string
	Method      string
	Path        string
	Query       url.Values
	Body        io.Reader
	ContentType string
}

func (t *Transport) getJSON(ctx context.Context, operation, resource, path string, query url.Values) ([]byte, error) {
	return t.do(ctx, &request{
		Operation: operation,
		Resource:  resource,
		Method:    constvars.MethodGet,
		Path:      path,
		Query:     query,
	})
}

func (t *Transport) postJSON(ctx context.Context, operation, resource, path string, payload any) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, exceptions.ErrCannotMarshalJSON(err)
	}
	return t.do(ctx, &request{
		Operation:   operation,
		Resource:    resource,
		Method:      constvars.MethodPost,
		Path:        path,
		Body:        bytes.NewReader(body),
		ContentType: constvars.MIMEApplicationJSON,
	})
}

// do sends one request and returns the raw body of a successful answer.
// Failures come back as CustomErrors; nothing is retried.
func (t *Transport) do(ctx context.Context, in *request) ([]byte, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	endpoint := t.BaseUrl + in.Path
	if len(in.Query) > 0 {
		endpoint += "?" + in.Query.Encode()
	}

	t.Log.Info(in.Operation+" called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingWebhookResourceKey, in.Resource),
		zap.String(constvars.LoggingWebhookURLKey, endpoint),
	)

	if err := t.Limiter.Wait(ctx); err != nil {
		t.Log.Error(in.Operation+" error waiting for rate limiter",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, transportError(err)
	}

	req, err := http.NewRequestWithContext(ctx, in.Method, endpoint, in.Body)
	if err != nil {
		t.Log.Error(in.Operation+" error creating HTTP request",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, exceptions.ErrCreateHTTPRequest(err)
	}
	req.Header.Set(constvars.HeaderAccept, constvars.MIMEApplicationJSON)
	if in.ContentType != "" {
		req.Header.Set(constvars.HeaderContentType, in.ContentType)
	}
	if requestID != "" {
		req.Header.Set(constvars.HeaderXRequestID, requestID)
	}
	if t.Token != "" {
		req.Header.Set(constvars.HeaderXWebhookToken, t.Token)
	}

	start := time.Now()
	resp, err := t.HTTPClient.Do(req)
	if err != nil {
		t.Log.Error(in.Operation+" error sending HTTP request",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, transportError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		t.Log.Error(in.Operation+" error reading response body",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, exceptions.ErrWebhookDecode(err, in.Resource)
	}

	if err := statusError(resp.StatusCode, body, in.Resource); err != nil {
		t.Log.Error(in.Operation+" webhook responded with an error",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Int(constvars.LoggingWebhookStatusKey, resp.StatusCode),
			zap.Duration(constvars.LoggingLatencyKey, time.Since(start)),
			zap.Error(err),
		)
		return nil, err
	}

	t.Log.Info(in.Operation+" succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int(constvars.LoggingWebhookStatusKey, resp.StatusCode),
		zap.Duration(constvars.LoggingLatencyKey, time.Since(start)),
		zap.Int(constvars.LoggingResponseLengthKey, len(body)),
	)
	return body, nil
}

func transportError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return exceptions.ErrServerDeadlineExceeded(err)
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Timeout() {
		return exceptions.ErrServerDeadlineExceeded(err)
	}
	return exceptions.ErrSendHTTPRequest(err)
}

// statusError maps a webhook answer onto a CustomError. n8n flows often
// answer 200 with {"success": false}, so that shape counts as a failure too.
func statusError(statusCode int, body []byte, resource string) error {
	message := extractMessage(body)
	cause := errors.New(firstNonEmpty(message, http.StatusText(statusCode)))

	switch {
	case statusCode >= 200 && statusCode < 300:
		if !reportsFailure(body) {
			return nil
		}
		return exceptions.ErrWebhookCall(cause, constvars.StatusUnprocessableEntity, firstNonEmpty(message, constvars.ErrClientCannotProcessRequest), resource)
	case statusCode == constvars.StatusUnauthorized || statusCode == constvars.StatusForbidden:
		return exceptions.ErrWebhookUnauthorized(cause, resource)
	case statusCode == constvars.StatusNotFound:
		return exceptions.ErrWebhookNotFound(cause, resource)
	case statusCode >= 400 && statusCode < 500:
		return exceptions.ErrWebhookCall(cause, statusCode, firstNonEmpty(message, constvars.ErrClientCannotProcessRequest), resource)
	default:
		return exceptions.ErrWebhookCall(cause, constvars.StatusBadGateway, firstNonEmpty(message, constvars.ErrClientWebhookUnavailable), resource)
	}
}

func extractMessage(body []byte) string {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return ""
	}

	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		if body[0] == '{' || body[0] == '[' || len(body) > 200 {
			return ""
		}
		return string(body)
	}

	for _, key := range messageKeys {
		switch v := payload[key].(type) {
		case string:
			if s := strings.TrimSpace(v); s != "" {
				return s
			}
		case map[string]any:
			if s, ok := v["message"].(string); ok && strings.TrimSpace(s) != "" {
				return strings.TrimSpace(s)
			}
		}
	}
	return ""
}

func reportsFailure(body []byte) bool {
	var payload map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(body), &payload); err != nil {
		return false
	}
	for _, key := range []string{"success", "ok"} {
		if flag, ok := payload[key].(bool); ok && !flag {
			return true
		}
	}
	return false
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func dateQuery(key string, value time.Time) url.Values {
	query := url.Values{}
	query.Set(key, value.Format(constvars.DateOnlyLayout))
	return query
}
