package patients

import (
	"context"
	"fmt"
	"mime/multipart"
	"odonto-service/internal/app/config"
	"odonto-service/internal/app/contracts"
	"odonto-service/internal/app/models"
	"odonto-service/internal/pkg/constvars"
	"odonto-service/internal/pkg/dto/requests"
	"odonto-service/internal/pkg/exceptions"
	"odonto-service/internal/pkg/normalizer"
	"odonto-service/internal/pkg/utils"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

const documentObjectPrefix = "paciente"

type patientUsecase struct {
	PatientWebhookClient contracts.PatientWebhookClient
	RedisRepository      contracts.RedisRepository
	Storage              contracts.Storage
	InternalConfig       *config.InternalConfig
	Location             *time.Location
	Log                  *zap.Logger
}

// NewPatientUsecase wires the patient flows. storage may be nil, in which
// case uploaded documents are forwarded to the create webhook as multipart.
func NewPatientUsecase(
	patientWebhookClient contracts.PatientWebhookClient,
	redisRepository contracts.RedisRepository,
	storage contracts.Storage,
	internalConfig *config.InternalConfig,
	logger *zap.Logger,
) contracts.PatientUsecase {
	return &patientUsecase{
		PatientWebhookClient: patientWebhookClient,
		RedisRepository:      redisRepository,
		Storage:              storage,
		InternalConfig:       internalConfig,
		Location:             internalConfig.App.Location(),
		Log:                  logger,
	}
}

func (uc *patientUsecase) FindAll(ctx context.Context, request *requests.FindAllPatients) ([]models.Patient, int, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("patientUsecase.FindAll called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingQueryKey, request.Query),
	)

	patients, err := uc.listPatients(ctx)
	if err != nil {
		return nil, 0, err
	}

	matched := make([]models.Patient, 0, len(patients))
	for _, patient := range patients {
		if patient.Matches(request.Query) {
			matched = append(matched, patient)
		}
	}

	uc.Log.Info("patientUsecase.FindAll succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int(constvars.LoggingPatientCountKey, len(matched)),
	)
	return utils.Paginate(matched, request.Pagination), len(matched), nil
}

func (uc *patientUsecase) FindByID(ctx context.Context, patientID string) (*models.Patient, error) {
	patients, err := uc.listPatients(ctx)
	if err != nil {
		return nil, err
	}

	for _, patient := range patients {
		if patient.ID == patientID {
			found := patient
			return &found, nil
		}
	}
	return nil, exceptions.ErrPatientNotFound(nil, patientID)
}

func (uc *patientUsecase) FindByDNI(ctx context.Context, dni string) (*models.Patient, error) {
	dni = normalizer.NormalizeDNI(dni)

	patient, err := uc.PatientWebhookClient.FindPatientByDNI(ctx, dni)
	if err != nil {
		return nil, err
	}
	if patient == nil {
		return nil, exceptions.ErrPatientNotFound(nil, dni)
	}
	return patient, nil
}

func (uc *patientUsecase) Create(ctx context.Context, request *requests.CreatePatient) (*models.Patient, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	dni := normalizer.NormalizeDNI(request.DNI)
	uc.Log.Info("patientUsecase.Create called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPatientDNIKey, dni),
	)

	maxDocuments := uc.InternalConfig.Session.MaxDocumentsPerPatient
	if maxDocuments > 0 && len(request.Files)+len(request.Documentos) > maxDocuments {
		return nil, exceptions.ErrClientCustomMessage(fmt.Errorf("at most %d documents can be attached to a patient", maxDocuments))
	}

	existing, err := uc.PatientWebhookClient.FindPatientByDNI(ctx, dni)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		uc.Log.Info("patientUsecase.Create rejected duplicate DNI",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingPatientDNIKey, dni),
		)
		return nil, exceptions.ErrPatientAlreadyExists(nil, dni)
	}

	patient := models.Patient{
		Nombre:          request.Nombre,
		Apellido:        request.Apellido,
		DNI:             dni,
		Telefono:        request.Telefono,
		Email:           request.Email,
		FechaNacimiento: request.FechaNacimiento,
		ObraSocial:      request.ObraSocial,
		NumeroAfiliado:  request.NumeroAfiliado,
		Direccion:       request.Direccion,
		Notas:           request.Notas,
		Alergias:        request.Alergias,
		FechaAlta:       time.Now().In(uc.Location).Format(constvars.DateOnlyLayout),
		Documentos:      append([]string(nil), request.Documentos...),
	}

	var attachments []contracts.Attachment
	if len(request.Files) > 0 {
		if uc.Storage != nil {
			urls, err := uc.storeDocuments(ctx, dni, request.Files)
			if err != nil {
				return nil, err
			}
			patient.Documentos = append(patient.Documentos, urls...)
		} else {
			attachments, err = openAttachments(request.Files)
			if err != nil {
				return nil, err
			}
			defer closeAttachments(attachments)
		}
	}

	created, err := uc.PatientWebhookClient.CreatePatient(ctx, patient, attachments)
	if err != nil {
		return nil, err
	}
	uc.invalidateCache(ctx)

	utils.LogBusinessEvent(uc.Log, "patient_created", requestID,
		zap.String(constvars.LoggingPatientIDKey, created.ID),
		zap.String(constvars.LoggingPatientDNIKey, dni),
	)
	return created, nil
}

func (uc *patientUsecase) Update(ctx context.Context, request *requests.UpdatePatient) (*models.Patient, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("patientUsecase.Update called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPatientIDKey, request.ID),
	)

	current, err := uc.FindByID(ctx, request.ID)
	if err != nil {
		return nil, err
	}

	merged := mergePatient(*current, request)
	if merged.DNI != current.DNI {
		existing, err := uc.PatientWebhookClient.FindPatientByDNI(ctx, merged.DNI)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.ID != current.ID {
			return nil, exceptions.ErrPatientAlreadyExists(nil, merged.DNI)
		}
	}

	updated, err := uc.PatientWebhookClient.UpdatePatient(ctx, merged)
	if err != nil {
		return nil, err
	}
	uc.invalidateCache(ctx)

	uc.Log.Info("patientUsecase.Update succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPatientIDKey, updated.ID),
	)
	return updated, nil
}

func (uc *patientUsecase) Delete(ctx context.Context, patientID string) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("patientUsecase.Delete called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPatientIDKey, patientID),
	)

	if _, err := uc.FindByID(ctx, patientID); err != nil {
		return err
	}
	if err := uc.PatientWebhookClient.DeletePatient(ctx, patientID); err != nil {
		return err
	}
	uc.invalidateCache(ctx)

	utils.LogBusinessEvent(uc.Log, "patient_deleted", requestID,
		zap.String(constvars.LoggingPatientIDKey, patientID),
	)
	return nil
}

// listPatients serves the normalized list from redis when fresh. Cache
// failures are logged and the webhook is asked instead.
func (uc *patientUsecase) listPatients(ctx context.Context) ([]models.Patient, error) {
	ttl := time.Duration(uc.InternalConfig.Cache.PatientsTTLInSeconds) * time.Second
	if ttl > 0 {
		if patients, ok := uc.cachedPatients(ctx); ok {
			return patients, nil
		}
	}

	patients, err := uc.PatientWebhookClient.ListPatients(ctx)
	if err != nil {
		return nil, err
	}

	if ttl > 0 {
		if err := uc.RedisRepository.Set(ctx, constvars.RedisKeyPatientsCache, patients, ttl); err != nil {
			uc.Log.Warn("patientUsecase.listPatients failed to cache patients",
				zap.String(constvars.LoggingCacheKey, constvars.RedisKeyPatientsCache),
				zap.Error(err),
			)
		}
	}
	return patients, nil
}

func (uc *patientUsecase) cachedPatients(ctx context.Context) ([]models.Patient, bool) {
	raw, err := uc.RedisRepository.Get(ctx, constvars.RedisKeyPatientsCache)
	if err != nil {
		uc.Log.Warn("patientUsecase.cachedPatients failed to read cache",
			zap.String(constvars.LoggingCacheKey, constvars.RedisKeyPatientsCache),
			zap.Error(err),
		)
		return nil, false
	}
	if raw == "" {
		return nil, false
	}

	var patients []models.Patient
	if err := json.Unmarshal([]byte(raw), &patients); err != nil {
		uc.Log.Warn("patientUsecase.cachedPatients found unreadable cache entry",
			zap.String(constvars.LoggingCacheKey, constvars.RedisKeyPatientsCache),
			zap.Error(err),
		)
		return nil, false
	}
	return patients, true
}

func (uc *patientUsecase) invalidateCache(ctx context.Context) {
	if err := uc.RedisRepository.Delete(ctx, constvars.RedisKeyPatientsCache); err != nil {
		uc.Log.Warn("patientUsecase.invalidateCache failed",
			zap.String(constvars.LoggingCacheKey, constvars.RedisKeyPatientsCache),
			zap.Error(err),
		)
	}
}

func (uc *patientUsecase) storeDocuments(ctx context.Context, dni string, files []*multipart.FileHeader) ([]string, error) {
	bucket := uc.InternalConfig.Minio.BucketName
	expiry := time.Duration(uc.InternalConfig.Minio.PresignedUrlExpiryInHour) * time.Hour

	urls := make([]string, 0, len(files))
	for _, header := range files {
		file, err := header.Open()
		if err != nil {
			return nil, exceptions.ErrCannotParseMultipartForm(err)
		}

		objectName := utils.GenerateFileName(documentObjectPrefix, dni, header.Filename)
		_, err = uc.Storage.UploadFile(ctx, file, header.Size, header.Header.Get(constvars.HeaderContentType), bucket, objectName)
		file.Close()
		if err != nil {
			return nil, err
		}

		url, err := uc.Storage.GetObjectUrlWithExpiryTime(ctx, bucket, objectName, expiry)
		if err != nil {
			return nil, err
		}
		urls = append(urls, url)
	}
	return urls, nil
}

func openAttachments(files []*multipart.FileHeader) ([]contracts.Attachment, error) {
	attachments := make([]contracts.Attachment, 0, len(files))
	for _, header := range files {
		file, err := header.Open()
		if err != nil {
			closeAttachments(attachments)
			return nil, exceptions.ErrCannotParseMultipartForm(err)
		}
		attachments = append(attachments, contracts.Attachment{
			FileName:    header.Filename,
			ContentType: header.Header.Get(constvars.HeaderContentType),
			Content:     file,
		})
	}
	return attachments, nil
}

func closeAttachments(attachments []contracts.Attachment) {
	for _, attachment := range attachments {
		if closer, ok := attachment.Content.(multipart.File); ok {
			closer.Close()
		}
	}
}

// mergePatient applies the non-empty fields of request over current.
func mergePatient(current models.Patient, request *requests.UpdatePatient) models.Patient {
	set := func(target *string, value string) {
		if value != "" {
			*target = value
		}
	}

	set(&current.Nombre, request.Nombre)
	set(&current.Apellido, request.Apellido)
	set(&current.DNI, normalizer.NormalizeDNI(request.DNI))
	set(&current.Telefono, request.Telefono)
	set(&current.Email, request.Email)
	set(&current.FechaNacimiento, request.FechaNacimiento)
	set(&current.ObraSocial, request.ObraSocial)
	set(&current.NumeroAfiliado, request.NumeroAfiliado)
	set(&current.Direccion, request.Direccion)
	set(&current.Notas, request.Notas)
	set(&current.Alergias, request.Alergias)
	if request.Documentos != nil {
		current.Documentos = request.Documentos
	}
	return current
}
