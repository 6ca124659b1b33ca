package webhook

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"net/url"
	"odonto-service/internal/app/config"
	"odonto-service/internal/app/contracts"
	"odonto-service/internal/app/models"
	"odonto-service/internal/pkg/constvars"
	"odonto-service/internal/pkg/exceptions"
	"odonto-service/internal/pkg/normalizer"
	"sort"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

const defaultAttachmentField = "documentos"

type patientWebhookClient struct {
	transport *Transport
	paths     config.Webhook
	Log       *zap.Logger
}

func NewPatientWebhookClient(transport *Transport, cfg config.Webhook, logger *zap.Logger) contracts.PatientWebhookClient {
	return &patientWebhookClient{
		transport: transport,
		paths:     cfg,
		Log:       logger,
	}
}

func (c *patientWebhookClient) ListPatients(ctx context.Context) ([]models.Patient, error) {
	body, err := c.transport.getJSON(ctx, "patientWebhookClient.ListPatients", constvars.ResourcePatients, c.paths.PatientsListPath, nil)
	if err != nil {
		return nil, err
	}

	patients, err := normalizer.NormalizePatients(body)
	if err != nil {
		c.Log.Error("patientWebhookClient.ListPatients error decoding response",
			zap.Error(err),
		)
		return nil, exceptions.ErrWebhookDecode(err, constvars.ResourcePatients)
	}
	return patients, nil
}

func (c *patientWebhookClient) CreatePatient(ctx context.Context, patient models.Patient, attachments []contracts.Attachment) (*models.Patient, error) {
	operation := "patientWebhookClient.CreatePatient"
	payload := normalizer.DenormalizePatient(patient)

	var (
		body []byte
		err  error
	)
	if len(attachments) == 0 {
		body, err = c.transport.postJSON(ctx, operation, constvars.ResourcePatients, c.paths.PatientCreatePath, payload)
	} else {
		body, err = c.postMultipart(ctx, operation, payload, attachments)
	}
	if err != nil {
		return nil, err
	}

	return c.decodePatient(operation, body, patient)
}

func (c *patientWebhookClient) UpdatePatient(ctx context.Context, patient models.Patient) (*models.Patient, error) {
	operation := "patientWebhookClient.UpdatePatient"
	payload := normalizer.DenormalizePatient(patient)

	body, err := c.transport.postJSON(ctx, operation, constvars.ResourcePatients, c.paths.PatientUpdatePath, payload)
	if err != nil {
		return nil, err
	}
	return c.decodePatient(operation, body, patient)
}

func (c *patientWebhookClient) DeletePatient(ctx context.Context, patientID string) error {
	_, err := c.transport.postJSON(ctx, "patientWebhookClient.DeletePatient", constvars.ResourcePatients, c.paths.PatientDeletePath, map[string]string{"id": patientID})
	return err
}

func (c *patientWebhookClient) FindPatientByDNI(ctx context.Context, dni string) (*models.Patient, error) {
	dni = normalizer.NormalizeDNI(dni)
	query := url.Values{}
	query.Set("dni", dni)

	body, err := c.transport.getJSON(ctx, "patientWebhookClient.FindPatientByDNI", constvars.ResourcePatients, c.paths.PatientByDNIPath, query)
	if err != nil {
		return nil, err
	}

	patient, err := normalizer.NormalizePatientLookup(body, dni)
	if err != nil {
		c.Log.Error("patientWebhookClient.FindPatientByDNI error decoding response",
			zap.String(constvars.LoggingPatientDNIKey, dni),
			zap.Error(err),
		)
		return nil, exceptions.ErrWebhookDecode(err, constvars.ResourcePatients)
	}
	return patient, nil
}

// decodePatient prefers the record the webhook echoes back. Flows that only
// acknowledge get the sent patient returned, with an echoed id merged in.
func (c *patientWebhookClient) decodePatient(operation string, body []byte, sent models.Patient) (*models.Patient, error) {
	echoed, err := normalizer.NormalizePatientObject(body)
	if err != nil {
		c.Log.Error(operation+" error decoding response",
			zap.Error(err),
		)
		return nil, exceptions.ErrWebhookDecode(err, constvars.ResourcePatients)
	}

	if echoed.Nombre == "" && echoed.DNI == "" {
		if echoed.ID != "" {
			sent.ID = echoed.ID
		}
		return &sent, nil
	}
	if echoed.ID == "" {
		echoed.ID = sent.ID
	}
	if len(echoed.Documentos) == 0 {
		echoed.Documentos = sent.Documentos
	}
	return &echoed, nil
}

// postMultipart sends the patient as form fields plus a "data" field holding
// the whole JSON payload, followed by the attached files.
func (c *patientWebhookClient) postMultipart(ctx context.Context, operation string, payload map[string]any, attachments []contracts.Attachment) ([]byte, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, exceptions.ErrCannotMarshalJSON(err)
	}
	if err := writer.WriteField("data", string(data)); err != nil {
		return nil, exceptions.ErrCreateHTTPRequest(err)
	}

	keys := make([]string, 0, len(payload))
	for key := range payload {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		value, ok := payload[key].(string)
		if !ok {
			continue
		}
		if err := writer.WriteField(key, value); err != nil {
			return nil, exceptions.ErrCreateHTTPRequest(err)
		}
	}

	for _, attachment := range attachments {
		if err := writeAttachment(writer, attachment); err != nil {
			return nil, exceptions.ErrCreateHTTPRequest(err)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, exceptions.ErrCreateHTTPRequest(err)
	}

	return c.transport.do(ctx, &request{
		Operation:   operation,
		Resource:    constvars.ResourcePatients,
		Method:      constvars.MethodPost,
		Path:        c.paths.PatientCreatePath,
		Body:        &buf,
		ContentType: writer.FormDataContentType(),
	})
}

func writeAttachment(writer *multipart.Writer, attachment contracts.Attachment) error {
	field := attachment.FieldName
	if field == "" {
		field = defaultAttachmentField
	}
	contentType := attachment.ContentType
	if contentType == "" {
		contentType = constvars.MIMEOctetStream
	}

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, field, attachment.FileName))
	header.Set(constvars.HeaderContentType, contentType)

	part, err := writer.CreatePart(header)
	if err != nil {
		return err
	}
	_, err = io.Copy(part, attachment.Content)
	return err
}
