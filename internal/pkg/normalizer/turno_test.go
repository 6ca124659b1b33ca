package normalizer

import (
	"odonto-service/internal/app/models"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var practiceLocation = time.FixedZone("ART", -3*60*60)

func TestNormalizeTurno(t *testing.T) {
	t.Run("Calendar Event Objects", func(t *testing.T) {
		turno, ok := NormalizeTurno(map[string]any{
			"id":      "evt1",
			"summary": "Turno - Ana Perez (limpieza)",
			"start":   map[string]any{"dateTime": "2026-10-20T10:00:00-03:00"},
			"end":     map[string]any{"dateTime": "2026-10-20T10:40:00-03:00"},
			"status":  "confirmed",
		}, practiceLocation, 30)

		require.True(t, ok)
		assert.Equal(t, "evt1", turno.ID)
		assert.Equal(t, 40, turno.Duracion, "duration is derived from end - start")
		assert.Equal(t, "Ana Perez", turno.PatientName)
		assert.Equal(t, "limpieza", turno.TipoTurno)
		assert.Equal(t, "confirmed", turno.Estado)
		assert.Equal(t, 10, turno.Start.Hour())
	})

	t.Run("Flat Local Times And Explicit Duration", func(t *testing.T) {
		turno, ok := NormalizeTurno(map[string]any{
			"eventId":     "evt2",
			"fechaInicio": "2026-10-20 15:30",
			"duracion":    "45 min",
			"paciente":    "Juan",
			"dni":         float64(28999111),
		}, practiceLocation, 30)

		require.True(t, ok)
		assert.Equal(t, time.Date(2026, 10, 20, 15, 30, 0, 0, practiceLocation), turno.Start)
		assert.Equal(t, time.Date(2026, 10, 20, 16, 15, 0, 0, practiceLocation), turno.End)
		assert.Equal(t, "28999111", turno.PatientDNI)
	})

	t.Run("Missing End Uses Type Duration", func(t *testing.T) {
		turno, ok := NormalizeTurno(map[string]any{
			"start":     "2026-10-20T09:00:00",
			"tipoTurno": "Conducto",
		}, practiceLocation, 30)

		require.True(t, ok)
		assert.Equal(t, "conducto", turno.TipoTurno)
		assert.Equal(t, 60, turno.Duracion)
		assert.Equal(t, turno.Start.Add(time.Hour), turno.End)
	})

	t.Run("Missing End And Type Uses Default", func(t *testing.T) {
		turno, ok := NormalizeTurno(map[string]any{"inicio": "2026-10-20T09:00"}, practiceLocation, 25)

		require.True(t, ok)
		assert.Equal(t, 25, turno.Duracion)
	})

	t.Run("All Day Event", func(t *testing.T) {
		turno, ok := NormalizeTurno(map[string]any{
			"start": map[string]any{"date": "2026-10-21"},
		}, practiceLocation, 30)

		require.True(t, ok)
		assert.True(t, turno.AllDay)
	})

	t.Run("Linkage From Extended Properties", func(t *testing.T) {
		turno, ok := NormalizeTurno(map[string]any{
			"start": "2026-10-20T09:00:00-03:00",
			"extendedProperties": map[string]any{
				"private": map[string]any{
					"patientName":  "Eva",
					"patientDni":   "30.111.222",
					"patientPhone": "1144443333",
					"tipoTurno":    "control",
				},
			},
		}, practiceLocation, 30)

		require.True(t, ok)
		assert.Equal(t, "Eva", turno.PatientName)
		assert.Equal(t, "30111222", turno.PatientDNI)
		assert.Equal(t, "1144443333", turno.PatientPhone)
		assert.Equal(t, 20, turno.Duracion)
	})

	t.Run("Linkage From Description", func(t *testing.T) {
		turno, ok := NormalizeTurno(map[string]any{
			"start":       "2026-10-20T09:00:00-03:00",
			"summary":     "Turno - Eva Diaz",
			"description": "DNI: 30.111.222\nTel: 11 4444 3333\nTipo: Extraccion",
		}, practiceLocation, 30)

		require.True(t, ok)
		assert.Equal(t, "Eva Diaz", turno.PatientName)
		assert.Equal(t, "30111222", turno.PatientDNI)
		assert.Equal(t, "11 4444 3333", turno.PatientPhone)
		assert.Equal(t, "extraccion", turno.TipoTurno)
		assert.Equal(t, 45, turno.Duracion)
	})

	t.Run("Explicit Fields Beat Recovered Ones", func(t *testing.T) {
		turno, ok := NormalizeTurno(map[string]any{
			"start":       "2026-10-20T09:00:00-03:00",
			"summary":     "Turno - Otro Nombre (control)",
			"patientName": "Eva",
			"tipoTurno":   "consulta",
		}, practiceLocation, 30)

		require.True(t, ok)
		assert.Equal(t, "Eva", turno.PatientName)
		assert.Equal(t, "consulta", turno.TipoTurno)
	})

	t.Run("Invalid Or Missing Start", func(t *testing.T) {
		_, ok := NormalizeTurno(map[string]any{"start": "mañana"}, practiceLocation, 30)
		assert.False(t, ok)

		_, ok = NormalizeTurno(map[string]any{"summary": "Turno - Ana"}, practiceLocation, 30)
		assert.False(t, ok)

		_, ok = NormalizeTurno(nil, practiceLocation, 30)
		assert.False(t, ok)
	})
}

func TestNormalizeTurnos(t *testing.T) {
	body := []byte(`{"events":[
		{"id":"b","start":{"dateTime":"2026-10-20T11:00:00-03:00"}},
		{"id":"x","start":{"dateTime":"2026-10-20T08:00:00-03:00"},"status":"cancelled"},
		{"id":"a","start":{"dateTime":"2026-10-20T09:00:00-03:00"}},
		{"id":"broken","start":"not a date"}
	]}`)

	turnos, err := NormalizeTurnos(body, practiceLocation, 30)

	require.NoError(t, err)
	require.Len(t, turnos, 2, "cancelled and undated events are dropped")
	assert.Equal(t, "a", turnos[0].ID, "sorted by start")
	assert.Equal(t, "b", turnos[1].ID)
}

func TestDenormalizeTurno(t *testing.T) {
	start := time.Date(2026, 10, 20, 10, 0, 0, 0, practiceLocation)
	turno := models.Turno{
		Start:        start,
		End:          start.Add(40 * time.Minute),
		Duracion:     40,
		PatientName:  "Ana Perez",
		PatientDNI:   "30123456",
		PatientPhone: "1155551234",
		TipoTurno:    "limpieza",
	}

	payload := DenormalizeTurno(turno, practiceLocation)

	assert.Equal(t, "2026-10-20T10:00:00-03:00", payload["start"])
	assert.Equal(t, "2026-10-20T10:40:00-03:00", payload["end"])
	assert.Equal(t, "Turno - Ana Perez (limpieza)", payload["summary"])
	assert.Equal(t, "DNI: 30123456\nTel: 1155551234\nTipo: limpieza", payload["description"])

	roundTrip, ok := NormalizeTurno(map[string]any{
		"start":       payload["start"],
		"end":         payload["end"],
		"summary":     payload["summary"],
		"description": payload["description"],
	}, practiceLocation, 30)
	require.True(t, ok)
	assert.Equal(t, "Ana Perez", roundTrip.PatientName)
	assert.Equal(t, "30123456", roundTrip.PatientDNI)
	assert.Equal(t, "limpieza", roundTrip.TipoTurno)
}
