package controllers

import (
	"context"
	"fmt"
	"net/http"
	"odonto-service/internal/app/config"
	"odonto-service/internal/app/contracts"
	"odonto-service/internal/app/models"
	"odonto-service/internal/pkg/constvars"
	"odonto-service/internal/pkg/dto/requests"
	"odonto-service/internal/pkg/exceptions"
	"odonto-service/internal/pkg/utils"
	"sort"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

const multipartMemory = 32 << 20

type PatientController struct {
	Log              *zap.Logger
	PatientUsecase   contracts.PatientUsecase
	ViewStateUsecase contracts.ViewStateUsecase
	InternalConfig   *config.InternalConfig
}

func NewPatientController(logger *zap.Logger, patientUsecase contracts.PatientUsecase, viewStateUsecase contracts.ViewStateUsecase, internalConfig *config.InternalConfig) *PatientController {
	return &PatientController{
		Log:              logger,
		PatientUsecase:   patientUsecase,
		ViewStateUsecase: viewStateUsecase,
		InternalConfig:   internalConfig,
	}
}

func (ctrl *PatientController) FindAll(w http.ResponseWriter, r *http.Request) {
	pagination := utils.BuildPaginationRequest(r)
	request := &requests.FindAllPatients{
		Query:      strings.TrimSpace(r.URL.Query().Get("q")),
		Pagination: pagination,
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout(ctrl.InternalConfig))
	defer cancel()

	patients, total, err := ctrl.PatientUsecase.FindAll(ctx, request)
	if err != nil {
		writeError(ctrl.Log, w, err)
		return
	}

	paginationData := utils.BuildPaginationResponse(total, pagination.Page, pagination.PageSize, utils.BuildBaseURL(r))
	utils.BuildSuccessResponseWithPagination(w, constvars.StatusOK, constvars.GetPatientsSuccessMessage, paginationData, patients)
}

func (ctrl *PatientController) FindByID(w http.ResponseWriter, r *http.Request) {
	patientID := chi.URLParam(r, constvars.URLParamID)

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout(ctrl.InternalConfig))
	defer cancel()

	patient, err := ctrl.PatientUsecase.FindByID(ctx, patientID)
	if err != nil {
		writeError(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.GetPatientSuccessMessage, patient)
}

func (ctrl *PatientController) FindByDNI(w http.ResponseWriter, r *http.Request) {
	dni := chi.URLParam(r, constvars.URLParamDNI)
	if err := utils.ValidateVar(dni, "dni"); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrURLParamValidation(err, constvars.URLParamDNI))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout(ctrl.InternalConfig))
	defer cancel()

	patient, err := ctrl.PatientUsecase.FindByDNI(ctx, dni)
	if err != nil {
		writeError(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.GetPatientSuccessMessage, patient)
}

// Create accepts either a JSON body or a multipart form carrying the patient
// fields (or a "data" JSON field) plus document files.
func (ctrl *PatientController) Create(w http.ResponseWriter, r *http.Request) {
	requestID := utils.GetRequestID(r.Context())

	request := new(requests.CreatePatient)
	var err error
	if strings.HasPrefix(r.Header.Get(constvars.HeaderContentType), constvars.MIMEMultipartForm) {
		err = ctrl.bindMultipart(r, request)
	} else if decodeErr := json.NewDecoder(r.Body).Decode(request); decodeErr != nil {
		err = exceptions.ErrCannotParseJSON(decodeErr)
	}
	if err != nil {
		ctrl.Log.Info("PatientController.Create rejected body",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	if err := utils.ValidateStruct(request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrInputValidation(err))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout(ctrl.InternalConfig))
	defer cancel()

	patient, err := ctrl.PatientUsecase.Create(ctx, request)
	if err != nil {
		writeError(ctrl.Log, w, err)
		return
	}

	utils.LogBusinessEvent(ctrl.Log, "patient_created", requestID,
		zap.String(constvars.LoggingPatientIDKey, patient.ID),
		zap.Int("document_count", len(patient.Documentos)),
	)
	utils.BuildSuccessResponse(w, constvars.StatusCreated, constvars.CreatePatientSuccessMessage, patient)
}

func (ctrl *PatientController) Update(w http.ResponseWriter, r *http.Request) {
	request := new(requests.UpdatePatient)
	if err := decodeBody(r, request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}
	request.ID = chi.URLParam(r, constvars.URLParamID)

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout(ctrl.InternalConfig))
	defer cancel()

	patient, err := ctrl.PatientUsecase.Update(ctx, request)
	if err != nil {
		writeError(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.UpdatePatientSuccessMessage, patient)
}

// Delete removes the patient and drops it from the caller's view state.
func (ctrl *PatientController) Delete(w http.ResponseWriter, r *http.Request) {
	requestID := utils.GetRequestID(r.Context())
	patientID := chi.URLParam(r, constvars.URLParamID)

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout(ctrl.InternalConfig))
	defer cancel()

	if err := ctrl.PatientUsecase.Delete(ctx, patientID); err != nil {
		writeError(ctrl.Log, w, err)
		return
	}

	if sessionID := utils.GetSessionID(r.Context()); sessionID != "" {
		if _, err := ctrl.ViewStateUsecase.Forget(ctx, sessionID, models.EntityPatient, patientID); err != nil {
			ctrl.Log.Warn("PatientController.Delete error clearing view state",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.String(constvars.LoggingPatientIDKey, patientID),
				zap.Error(err),
			)
		}
	}

	utils.LogBusinessEvent(ctrl.Log, "patient_deleted", requestID,
		zap.String(constvars.LoggingPatientIDKey, patientID),
	)
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.DeletePatientSuccessMessage, nil)
}

func (ctrl *PatientController) bindMultipart(r *http.Request, request *requests.CreatePatient) error {
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		return exceptions.ErrCannotParseMultipartForm(err)
	}
	form := r.MultipartForm

	if data := form.Value["data"]; len(data) > 0 && strings.TrimSpace(data[0]) != "" {
		if err := json.Unmarshal([]byte(data[0]), request); err != nil {
			return exceptions.ErrCannotParseJSON(err)
		}
	} else if err := bindFormValues(form.Value, request); err != nil {
		return err
	}

	maxBytes := int64(ctrl.InternalConfig.Session.MaxUploadSizeInMB) << 20
	fields := make([]string, 0, len(form.File))
	for field := range form.File {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	for _, field := range fields {
		for _, header := range form.File[field] {
			if maxBytes > 0 && header.Size > maxBytes {
				return exceptions.ErrClientCustomMessage(fmt.Errorf(constvars.ErrClientDocumentTooLarge, ctrl.InternalConfig.Session.MaxUploadSizeInMB))
			}
			request.Files = append(request.Files, header)
		}
	}
	return nil
}

// bindFormValues maps plain form fields onto the JSON field names of the
// request. Repeated "documentos" values become the document list.
func bindFormValues(values map[string][]string, request *requests.CreatePatient) error {
	fields := make(map[string]interface{}, len(values))
	for key, list := range values {
		if len(list) == 0 {
			continue
		}
		if key == "documentos" {
			fields[key] = list
			continue
		}
		fields[key] = list[0]
	}

	raw, err := json.Marshal(fields)
	if err != nil {
		return exceptions.ErrCannotMarshalJSON(err)
	}
	if err := json.Unmarshal(raw, request); err != nil {
		return exceptions.ErrInvalidFormat(err, "form")
	}
	return nil
}
