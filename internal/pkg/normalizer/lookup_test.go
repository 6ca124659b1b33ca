package normalizer

import (
	"odonto-service/internal/app/models"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizePatientLookup(t *testing.T) {
	t.Run("Exists With Patient", func(t *testing.T) {
		patient, err := NormalizePatientLookup([]byte(`{"exists":true,"patient":{"nombre":"Ana","dni":"30123456","telefono":1155551234}}`), "30123456")

		require.NoError(t, err)
		require.NotNil(t, patient)
		assert.Equal(t, "Ana", patient.Nombre)
		assert.Equal(t, "1155551234", patient.Telefono)
	})

	t.Run("Bare Exists Flag", func(t *testing.T) {
		patient, err := NormalizePatientLookup([]byte(`{"existe":"si"}`), "30123456")

		require.NoError(t, err)
		require.NotNil(t, patient)
		assert.Equal(t, "30123456", patient.DNI)
		assert.Nil(t, patient.Extra)
	})

	t.Run("Not Found Answers", func(t *testing.T) {
		for _, body := range []string{`{"exists":false}`, `[]`, ``, `{"found":0}`, `[{"nombre":"Otro","dni":"11222333"}]`} {
			patient, err := NormalizePatientLookup([]byte(body), "30123456")

			require.NoError(t, err, body)
			assert.Nil(t, patient, body)
		}
	})

	t.Run("Row List Picks Matching DNI", func(t *testing.T) {
		patient, err := NormalizePatientLookup([]byte(`[{"nombre":"Otro","dni":"11222333"},{"nombre":"Ana","DNI":"30.123.456"}]`), "30123456")

		require.NoError(t, err)
		require.NotNil(t, patient)
		assert.Equal(t, "Ana", patient.Nombre)
	})
}

func TestNormalizePatientLookup_RowsWithoutDNI(t *testing.T) {
	t.Run("Skipped Ahead Of Match", func(t *testing.T) {
		patient, err := NormalizePatientLookup([]byte(`[{"nombre":"Ana Gomez","telefono":"111"},{"nombre":"Juan","dni":"30123456","telefono":"222"}]`), "30123456")

		require.NoError(t, err)
		require.NotNil(t, patient)
		assert.Equal(t, "Juan", patient.Nombre)
		assert.Equal(t, "222", patient.Telefono)
	})

	t.Run("Alone Is Not A Match", func(t *testing.T) {
		patient, err := NormalizePatientLookup([]byte(`[{"nombre":"Ana Gomez","telefono":"111"}]`), "30123456")

		require.NoError(t, err)
		assert.Nil(t, patient)
	})

	t.Run("Flag With Foreign Record", func(t *testing.T) {
		patient, err := NormalizePatientLookup([]byte(`{"exists":true,"nombre":"Ana Gomez"}`), "30123456")

		require.NoError(t, err)
		assert.Nil(t, patient)
	})
}

func TestNormalizeTurnoObject(t *testing.T) {
	fallback := models.Turno{PatientName: "Ana", Duracion: 30}

	t.Run("Full Event", func(t *testing.T) {
		turno, err := NormalizeTurnoObject([]byte(`{"data":{"id":"evt9","start":{"dateTime":"2026-10-20T10:00:00-03:00"}}}`), practiceLocation, 30, fallback)

		require.NoError(t, err)
		assert.Equal(t, "evt9", turno.ID)
		assert.Equal(t, 10, turno.Start.Hour())
	})

	t.Run("Only Id Echoed", func(t *testing.T) {
		turno, err := NormalizeTurnoObject([]byte(`{"success":true,"eventId":"evt10"}`), practiceLocation, 30, fallback)

		require.NoError(t, err)
		assert.Equal(t, "evt10", turno.ID)
		assert.Equal(t, "Ana", turno.PatientName)
	})
}

func TestNormalizeAdminUser(t *testing.T) {
	user, err := NormalizeAdminUser([]byte(`{"success":true,"user":{"usuario":"recepcion","nombre":"Recepción","rol":"ADMIN"}}`), "x")
	require.NoError(t, err)
	assert.Equal(t, models.AdminUser{Username: "recepcion", DisplayName: "Recepción", Role: "admin"}, user)

	fallback, err := NormalizeAdminUser([]byte(`{"success":true}`), "doctora")
	require.NoError(t, err)
	assert.Equal(t, "doctora", fallback.Username)
}

