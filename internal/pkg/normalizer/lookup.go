package normalizer

import (
	"odonto-service/internal/app/models"
	"strings"
	"time"
)

var (
	existsFlagAliases     = []string{"exists", "existe", "found", "encontrado"}
	patientLookupEnvelope = []string{"patient", "paciente", "data", "patients", "pacientes", "items", "rows"}
	adminUserEnvelope     = []string{"user", "usuario", "data"}
)

// NormalizePatientObject reads a single patient answer (create or update).
func NormalizePatientObject(body []byte) (models.Patient, error) {
	row, err := DecodeObject(body, patientEnvelopeKeys...)
	if err != nil {
		return models.Patient{}, err
	}
	return NormalizePatient(row), nil
}

// NormalizePatientLookup reads the check-by-DNI answer. It returns nil when
// the store reports no patient with that DNI. Rows are only accepted when
// their DNI matches. A bare {"exists": true} yields a patient carrying only
// the DNI.
func NormalizePatientLookup(body []byte, dni string) (*models.Patient, error) {
	rows, err := decodeList(body, patientLookupEnvelope...)
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		flag, hasFlag := pick(row, existsFlagAliases...)
		if hasFlag && !truthy(flag) {
			continue
		}

		patient := NormalizePatient(row)
		if patient.DNI == "" {
			// Only a bare flag answers for the requested DNI.
			if !hasFlag || !patient.IsEmpty() {
				continue
			}
			patient.DNI = dni
		} else if NormalizeDNI(patient.DNI) != NormalizeDNI(dni) {
			continue
		}
		delete(patient.Extra, "exists")
		delete(patient.Extra, "existe")
		delete(patient.Extra, "found")
		delete(patient.Extra, "encontrado")
		if len(patient.Extra) == 0 {
			patient.Extra = nil
		}
		return &patient, nil
	}
	return nil, nil
}

// NormalizeTurnoObject reads a single turno answer. Webhooks that only echo
// an id get that id merged into fallback.
func NormalizeTurnoObject(body []byte, loc *time.Location, defaultMinutes int, fallback models.Turno) (models.Turno, error) {
	row, err := DecodeObject(body, turnoEnvelopeKeys...)
	if err != nil {
		return models.Turno{}, err
	}

	if turno, ok := NormalizeTurno(row, loc, defaultMinutes); ok {
		return turno, nil
	}
	if id := pickString(row, turnoIDAliases...); id != "" {
		fallback.ID = id
	}
	return fallback, nil
}

// NormalizeAdminUser reads the login answer, falling back to username when
// the webhook does not echo one.
func NormalizeAdminUser(body []byte, username string) (models.AdminUser, error) {
	row, err := DecodeObject(body, adminUserEnvelope...)
	if err != nil {
		return models.AdminUser{}, err
	}

	user := models.AdminUser{
		Username:    pickString(row, "username", "usuario", "user", "email"),
		DisplayName: pickString(row, "displayName", "nombre", "name", "fullName"),
		Role:        strings.ToLower(pickString(row, "role", "rol")),
	}
	if user.Username == "" {
		user.Username = username
	}
	return user, nil
}

func truthy(value any) bool {
	switch v := value.(type) {
	case bool:
		return v
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true", "1", "si", "sí", "yes":
			return true
		}
		return false
	default:
		n, ok := intValue(v)
		return ok && n != 0
	}
}
