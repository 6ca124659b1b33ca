package utils

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"odonto-service/internal/pkg/constvars"
	"odonto-service/internal/pkg/dto/requests"
	"odonto-service/internal/pkg/exceptions"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type dniRequest struct {
	DNI   string `json:"dni" validate:"required,dni"`
	Tipo  string `json:"tipo_turno" validate:"omitempty,turno_type"`
	Fecha string `json:"fecha" validate:"omitempty,date_only"`
}

func TestValidateStruct_CustomTags(t *testing.T) {
	tests := []struct {
		name    string
		req     dniRequest
		wantErr bool
	}{
		{name: "plain dni", req: dniRequest{DNI: "30123456"}},
		{name: "dotted dni", req: dniRequest{DNI: "30.123.456"}},
		{name: "short dni", req: dniRequest{DNI: "123"}, wantErr: true},
		{name: "letters in dni", req: dniRequest{DNI: "30A23456"}, wantErr: true},
		{name: "known type", req: dniRequest{DNI: "30123456", Tipo: "Consulta"}},
		{name: "free type", req: dniRequest{DNI: "30123456", Tipo: "blanqueamiento"}},
		{name: "type with digits", req: dniRequest{DNI: "30123456", Tipo: "tipo 2"}, wantErr: true},
		{name: "valid date", req: dniRequest{DNI: "30123456", Fecha: "2026-03-10"}},
		{name: "bad date", req: dniRequest{DNI: "30123456", Fecha: "10/03/2026"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct(tt.req)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateStruct_MessageUsesJSONName(t *testing.T) {
	err := ValidateStruct(dniRequest{DNI: "1"})
	require.Error(t, err)
	assert.Equal(t, "dni must be a valid DNI (7 or 8 digits)", exceptions.FormatFirstValidationError(err))
}

func TestValidateVar(t *testing.T) {
	assert.NoError(t, ValidateVar("12345678", "dni"))
	assert.Error(t, ValidateVar("abc", "dni"))
}

func TestBuildPaginationRequest(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/patients?page=3&page_size=10", nil)
	p := BuildPaginationRequest(req)
	assert.Equal(t, 3, p.Page)
	assert.Equal(t, 10, p.PageSize)

	req = httptest.NewRequest(http.MethodGet, "/patients?page=-1&page_size=100000", nil)
	p = BuildPaginationRequest(req)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, constvars.AppMaxPageSize, p.PageSize)

	req = httptest.NewRequest(http.MethodGet, "/patients", nil)
	p = BuildPaginationRequest(req)
	assert.Equal(t, constvars.AppDefaultPageSize, p.PageSize)
}

func TestPaginate(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}

	assert.Equal(t, []int{3, 4}, Paginate(items, &requests.Pagination{Page: 2, PageSize: 2}))
	assert.Equal(t, []int{5}, Paginate(items, &requests.Pagination{Page: 3, PageSize: 2}))
	assert.Empty(t, Paginate(items, &requests.Pagination{Page: 4, PageSize: 2}))
	assert.Equal(t, items, Paginate(items, nil))
}

func TestBuildPaginationResponse(t *testing.T) {
	p := BuildPaginationResponse(25, 2, 10, "/api/v1/patients")
	assert.Equal(t, "/api/v1/patients?page=3&page_size=10", p.NextURL)
	assert.Equal(t, "/api/v1/patients?page=1&page_size=10", p.PrevURL)

	last := BuildPaginationResponse(25, 3, 10, "/api/v1/patients")
	assert.Empty(t, last.NextURL)
}

func TestExtractBearerToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(constvars.HeaderAuthorization, "Bearer abc.def")
	assert.Equal(t, "abc.def", ExtractBearerToken(req))

	req.Header.Set(constvars.HeaderAuthorization, "Basic xyz")
	assert.Empty(t, ExtractBearerToken(req))
}

func TestBuildErrorResponse_CustomError(t *testing.T) {
	t.Setenv("APP_ENV", constvars.EnvironmentProduction)
	rec := httptest.NewRecorder()

	BuildErrorResponse(zap.NewNop(), rec, exceptions.ErrPatientNotFound(nil, "p-1"))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, false, body["success"])
	assert.NotContains(t, body, "dev_message")
	assert.NotContains(t, body, "locations")
}

func TestBuildErrorResponse_PlainErrorIsInternal(t *testing.T) {
	t.Setenv("APP_ENV", constvars.EnvironmentDevelopment)
	rec := httptest.NewRecorder()

	BuildErrorResponse(zap.NewNop(), rec, errors.New("boom"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), constvars.ErrClientSomethingWrongWithApplication)
}

func TestParseDateAndStartOfDay(t *testing.T) {
	loc := time.FixedZone("ART", -3*3600)
	day, err := ParseDate("2026-03-10", loc)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 10, 0, 0, 0, 0, loc), day)

	assert.Equal(t, day, StartOfDay(day.Add(15*time.Hour+30*time.Minute)))

	_, err = ParseDate("2026-13-01", loc)
	assert.Error(t, err)
}

func TestGetEnvHelpers(t *testing.T) {
	t.Setenv("ODONTO_TEST_INT", "42")
	t.Setenv("ODONTO_TEST_BOOL", "true")
	t.Setenv("ODONTO_TEST_BAD_INT", "nope")

	assert.Equal(t, 42, GetEnvInt("ODONTO_TEST_INT", 1))
	assert.True(t, GetEnvBool("ODONTO_TEST_BOOL", false))
	assert.Equal(t, 7, GetEnvInt("ODONTO_TEST_BAD_INT", 7))
	assert.Equal(t, "fallback", GetEnvString("ODONTO_TEST_MISSING", "fallback"))
}
