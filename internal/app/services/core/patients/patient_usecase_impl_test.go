package patients

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"odonto-service/internal/app/config"
	"odonto-service/internal/app/contracts"
	"odonto-service/internal/app/models"
	sharedredis "odonto-service/internal/app/services/shared/redis"
	"odonto-service/internal/pkg/constvars"
	"odonto-service/internal/pkg/dto/requests"
	"odonto-service/internal/pkg/exceptions"
	"testing"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockPatientWebhookClient struct {
	mock.Mock
}

func (m *MockPatientWebhookClient) ListPatients(ctx context.Context) ([]models.Patient, error) {
	args := m.Called(ctx)
	patients, _ := args.Get(0).([]models.Patient)
	return patients, args.Error(1)
}

func (m *MockPatientWebhookClient) CreatePatient(ctx context.Context, patient models.Patient, attachments []contracts.Attachment) (*models.Patient, error) {
	args := m.Called(ctx, patient, attachments)
	created, _ := args.Get(0).(*models.Patient)
	return created, args.Error(1)
}

func (m *MockPatientWebhookClient) UpdatePatient(ctx context.Context, patient models.Patient) (*models.Patient, error) {
	args := m.Called(ctx, patient)
	updated, _ := args.Get(0).(*models.Patient)
	return updated, args.Error(1)
}

func (m *MockPatientWebhookClient) DeletePatient(ctx context.Context, patientID string) error {
	args := m.Called(ctx, patientID)
	return args.Error(0)
}

func (m *MockPatientWebhookClient) FindPatientByDNI(ctx context.Context, dni string) (*models.Patient, error) {
	args := m.Called(ctx, dni)
	patient, _ := args.Get(0).(*models.Patient)
	return patient, args.Error(1)
}

var storedPatients = []models.Patient{
	{ID: "1", Nombre: "Ana", Apellido: "García", DNI: "30123456", Telefono: "1155551234"},
	{ID: "2", Nombre: "Juan", Apellido: "Pérez", DNI: "28999888"},
	{ID: "3", Nombre: "Lucía", Apellido: "Gómez", DNI: "35111222"},
}

func newTestUsecase(t *testing.T, cacheTTL int) (*patientUsecase, *MockPatientWebhookClient, *miniredis.Miniredis) {
	t.Helper()

	server := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: server.Addr()})
	t.Cleanup(func() { client.Close() })

	webhookClient := new(MockPatientWebhookClient)
	cfg := &config.InternalConfig{
		App:     config.App{Timezone: "UTC"},
		Cache:   config.Cache{PatientsTTLInSeconds: cacheTTL},
		Session: config.Session{MaxDocumentsPerPatient: 2},
	}

	uc := NewPatientUsecase(webhookClient, sharedredis.NewRedisRepository(client), nil, cfg, zap.NewNop()).(*patientUsecase)
	return uc, webhookClient, server
}

func uploadedFiles(t *testing.T, names ...string) []*multipart.FileHeader {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for _, name := range names {
		part, err := writer.CreateFormFile("documentos", name)
		require.NoError(t, err)
		_, err = part.Write([]byte("contenido"))
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	form, err := multipart.NewReader(body, writer.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { form.RemoveAll() })
	return form.File["documentos"]
}

func statusOf(t *testing.T, err error) int {
	t.Helper()
	var customErr *exceptions.CustomError
	require.True(t, errors.As(err, &customErr), "expected CustomError, got %v", err)
	return customErr.StatusCode
}

func TestPatientUsecase_FindAll(t *testing.T) {
	ctx := context.Background()

	t.Run("Filters And Paginates", func(t *testing.T) {
		uc, webhookClient, _ := newTestUsecase(t, 0)
		webhookClient.On("ListPatients", mock.Anything).Return(storedPatients, nil)

		patients, total, err := uc.FindAll(ctx, &requests.FindAllPatients{
			Query:      "g",
			Pagination: &requests.Pagination{Page: 1, PageSize: 1},
		})

		require.NoError(t, err)
		assert.Equal(t, 2, total)
		require.Len(t, patients, 1)
		assert.Equal(t, "1", patients[0].ID)
	})

	t.Run("Search By DNI Fragment", func(t *testing.T) {
		uc, webhookClient, _ := newTestUsecase(t, 0)
		webhookClient.On("ListPatients", mock.Anything).Return(storedPatients, nil)

		patients, total, err := uc.FindAll(ctx, &requests.FindAllPatients{Query: "28999"})

		require.NoError(t, err)
		assert.Equal(t, 1, total)
		assert.Equal(t, "Juan", patients[0].Nombre)
	})

	t.Run("Served From Cache", func(t *testing.T) {
		uc, webhookClient, server := newTestUsecase(t, 30)
		webhookClient.On("ListPatients", mock.Anything).Return(storedPatients, nil).Once()

		_, _, err := uc.FindAll(ctx, &requests.FindAllPatients{})
		require.NoError(t, err)
		assert.True(t, server.Exists(constvars.RedisKeyPatientsCache))

		patients, total, err := uc.FindAll(ctx, &requests.FindAllPatients{})
		require.NoError(t, err)
		assert.Equal(t, 3, total)
		assert.Equal(t, storedPatients, patients)
		webhookClient.AssertNumberOfCalls(t, "ListPatients", 1)
	})

	t.Run("Cache Outage Falls Back To Webhook", func(t *testing.T) {
		uc, webhookClient, server := newTestUsecase(t, 30)
		webhookClient.On("ListPatients", mock.Anything).Return(storedPatients, nil)
		server.Close()

		_, total, err := uc.FindAll(ctx, &requests.FindAllPatients{})

		require.NoError(t, err)
		assert.Equal(t, 3, total)
	})

	t.Run("Webhook Error", func(t *testing.T) {
		uc, webhookClient, _ := newTestUsecase(t, 0)
		webhookClient.On("ListPatients", mock.Anything).Return(nil, exceptions.ErrSendHTTPRequest(errors.New("refused")))

		_, _, err := uc.FindAll(ctx, &requests.FindAllPatients{})

		assert.Equal(t, constvars.StatusBadGateway, statusOf(t, err))
	})
}

func TestPatientUsecase_FindByIDAndDNI(t *testing.T) {
	ctx := context.Background()
	uc, webhookClient, _ := newTestUsecase(t, 0)
	webhookClient.On("ListPatients", mock.Anything).Return(storedPatients, nil)
	webhookClient.On("FindPatientByDNI", mock.Anything, "30123456").Return(&storedPatients[0], nil)
	webhookClient.On("FindPatientByDNI", mock.Anything, "11111111").Return(nil, nil)

	patient, err := uc.FindByID(ctx, "2")
	require.NoError(t, err)
	assert.Equal(t, "Juan", patient.Nombre)

	_, err = uc.FindByID(ctx, "99")
	assert.Equal(t, constvars.StatusNotFound, statusOf(t, err))

	patient, err = uc.FindByDNI(ctx, "30.123.456")
	require.NoError(t, err)
	assert.Equal(t, "1", patient.ID)

	_, err = uc.FindByDNI(ctx, "11111111")
	assert.Equal(t, constvars.StatusNotFound, statusOf(t, err))
}

func TestPatientUsecase_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("Success Invalidates Cache", func(t *testing.T) {
		uc, webhookClient, server := newTestUsecase(t, 30)
		server.Set(constvars.RedisKeyPatientsCache, `[]`)
		webhookClient.On("FindPatientByDNI", mock.Anything, "40123456").Return(nil, nil)
		webhookClient.On("CreatePatient", mock.Anything, mock.MatchedBy(func(p models.Patient) bool {
			return p.Nombre == "Sofía" && p.DNI == "40123456" && p.FechaAlta != ""
		}), []contracts.Attachment(nil)).Return(&models.Patient{ID: "4", Nombre: "Sofía", DNI: "40123456"}, nil)

		created, err := uc.Create(ctx, &requests.CreatePatient{Nombre: "Sofía", DNI: "40.123.456"})

		require.NoError(t, err)
		assert.Equal(t, "4", created.ID)
		assert.False(t, server.Exists(constvars.RedisKeyPatientsCache))
	})

	t.Run("Duplicate DNI", func(t *testing.T) {
		uc, webhookClient, _ := newTestUsecase(t, 0)
		webhookClient.On("FindPatientByDNI", mock.Anything, "30123456").Return(&storedPatients[0], nil)

		_, err := uc.Create(ctx, &requests.CreatePatient{Nombre: "Ana", DNI: "30123456"})

		assert.Equal(t, constvars.StatusConflict, statusOf(t, err))
		webhookClient.AssertNotCalled(t, "CreatePatient", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Files Forwarded Without Storage", func(t *testing.T) {
		uc, webhookClient, _ := newTestUsecase(t, 0)
		files := uploadedFiles(t, "radiografia.png")
		webhookClient.On("FindPatientByDNI", mock.Anything, "40123456").Return(nil, nil)
		webhookClient.On("CreatePatient", mock.Anything, mock.Anything, mock.MatchedBy(func(attachments []contracts.Attachment) bool {
			return len(attachments) == 1 && attachments[0].FileName == "radiografia.png"
		})).Return(&models.Patient{ID: "5", DNI: "40123456"}, nil)

		created, err := uc.Create(ctx, &requests.CreatePatient{Nombre: "Sofía", DNI: "40123456", Files: files})

		require.NoError(t, err)
		assert.Equal(t, "5", created.ID)
		webhookClient.AssertExpectations(t)
	})

	t.Run("Too Many Documents", func(t *testing.T) {
		uc, webhookClient, _ := newTestUsecase(t, 0)

		_, err := uc.Create(ctx, &requests.CreatePatient{Nombre: "Ana", DNI: "30123456", Documentos: []string{"a", "b", "c"}})

		assert.Equal(t, constvars.StatusBadRequest, statusOf(t, err))
		webhookClient.AssertNotCalled(t, "FindPatientByDNI", mock.Anything, mock.Anything)
	})
}

func TestPatientUsecase_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("Merges Over Current Record", func(t *testing.T) {
		uc, webhookClient, _ := newTestUsecase(t, 0)
		webhookClient.On("ListPatients", mock.Anything).Return(storedPatients, nil)
		webhookClient.On("UpdatePatient", mock.Anything, mock.MatchedBy(func(p models.Patient) bool {
			return p.ID == "1" && p.Nombre == "Ana" && p.Telefono == "1144443333" && p.DNI == "30123456"
		})).Return(&models.Patient{ID: "1", Nombre: "Ana", Telefono: "1144443333"}, nil)

		updated, err := uc.Update(ctx, &requests.UpdatePatient{ID: "1", Telefono: "1144443333"})

		require.NoError(t, err)
		assert.Equal(t, "1144443333", updated.Telefono)
	})

	t.Run("DNI Taken By Another Patient", func(t *testing.T) {
		uc, webhookClient, _ := newTestUsecase(t, 0)
		webhookClient.On("ListPatients", mock.Anything).Return(storedPatients, nil)
		webhookClient.On("FindPatientByDNI", mock.Anything, "28999888").Return(&storedPatients[1], nil)

		_, err := uc.Update(ctx, &requests.UpdatePatient{ID: "1", DNI: "28.999.888"})

		assert.Equal(t, constvars.StatusConflict, statusOf(t, err))
	})

	t.Run("Unknown Patient", func(t *testing.T) {
		uc, webhookClient, _ := newTestUsecase(t, 0)
		webhookClient.On("ListPatients", mock.Anything).Return(storedPatients, nil)

		_, err := uc.Update(ctx, &requests.UpdatePatient{ID: "404"})

		assert.Equal(t, constvars.StatusNotFound, statusOf(t, err))
	})
}

func TestPatientUsecase_Delete(t *testing.T) {
	ctx := context.Background()
	uc, webhookClient, _ := newTestUsecase(t, 0)
	webhookClient.On("ListPatients", mock.Anything).Return(storedPatients, nil)
	webhookClient.On("DeletePatient", mock.Anything, "3").Return(nil)

	require.NoError(t, uc.Delete(ctx, "3"))
	webhookClient.AssertCalled(t, "DeletePatient", mock.Anything, "3")

	err := uc.Delete(ctx, "404")
	assert.Equal(t, constvars.StatusNotFound, statusOf(t, err))
}
