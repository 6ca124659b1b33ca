package normalizer

import (
	"odonto-service/internal/app/models"
	"strings"
)

var (
	patientIDAliases              = []string{"id", "ID", "_id", "row_number", "rowNumber", "patientId"}
	patientNombreAliases          = []string{"nombre", "name", "Nombre", "first_name", "firstName"}
	patientApellidoAliases        = []string{"apellido", "lastname", "lastName", "last_name", "Apellido", "surname"}
	patientDNIAliases             = []string{"dni", "DNI", "Dni", "documento", "document"}
	patientTelefonoAliases        = []string{"telefono", "phone", "Telefono", "tel", "celular", "whatsapp"}
	patientEmailAliases           = []string{"email", "Email", "mail", "correo"}
	patientFechaNacimientoAliases = []string{"fechaNacimiento", "fecha_nacimiento", "birthDate", "birthdate", "dob"}
	patientObraSocialAliases      = []string{"obraSocial", "obra_social", "insurance", "ObraSocial", "prepaga"}
	patientNumeroAfiliadoAliases  = []string{"numeroAfiliado", "nroAfiliado", "affiliateNumber", "numero_afiliado"}
	patientDireccionAliases       = []string{"direccion", "address", "domicilio", "Direccion"}
	patientNotasAliases           = []string{"notas", "notes", "observaciones", "Notas"}
	patientAlergiasAliases        = []string{"alergias", "allergies", "Alergias"}
	patientFechaAltaAliases       = []string{"fechaAlta", "createdAt", "created_at", "fecha_alta"}
	patientDocumentosAliases      = []string{"documentos", "documents", "attachments"}

	patientEnvelopeKeys = []string{"data", "patients", "pacientes", "items", "rows", "patient", "paciente"}
)

var knownPatientKeys = func() map[string]bool {
	known := make(map[string]bool)
	groups := [][]string{
		patientIDAliases, patientNombreAliases, patientApellidoAliases, patientDNIAliases,
		patientTelefonoAliases, patientEmailAliases, patientFechaNacimientoAliases,
		patientObraSocialAliases, patientNumeroAfiliadoAliases, patientDireccionAliases,
		patientNotasAliases, patientAlergiasAliases, patientFechaAltaAliases, patientDocumentosAliases,
	}
	for _, group := range groups {
		for _, alias := range group {
			known[alias] = true
		}
	}
	return known
}()

// NormalizePatient maps a raw row onto models.Patient. The first non-empty
// alias of each field wins and keys no alias claims are kept in Extra.
func NormalizePatient(raw map[string]any) models.Patient {
	if raw == nil {
		return models.Patient{}
	}

	patient := models.Patient{
		ID:              pickString(raw, patientIDAliases...),
		Nombre:          pickString(raw, patientNombreAliases...),
		Apellido:        pickString(raw, patientApellidoAliases...),
		DNI:             NormalizeDNI(pickString(raw, patientDNIAliases...)),
		Telefono:        pickString(raw, patientTelefonoAliases...),
		Email:           strings.ToLower(pickString(raw, patientEmailAliases...)),
		FechaNacimiento: pickString(raw, patientFechaNacimientoAliases...),
		ObraSocial:      pickString(raw, patientObraSocialAliases...),
		NumeroAfiliado:  pickString(raw, patientNumeroAfiliadoAliases...),
		Direccion:       pickString(raw, patientDireccionAliases...),
		Notas:           pickString(raw, patientNotasAliases...),
		Alergias:        pickString(raw, patientAlergiasAliases...),
		FechaAlta:       pickString(raw, patientFechaAltaAliases...),
	}
	if documentos, ok := pick(raw, patientDocumentosAliases...); ok {
		patient.Documentos = stringList(documentos)
	}

	for key, value := range raw {
		if knownPatientKeys[key] || value == nil {
			continue
		}
		if patient.Extra == nil {
			patient.Extra = make(map[string]any)
		}
		patient.Extra[key] = value
	}

	return patient
}

// NormalizePatients decodes a list response and drops rows that carry no
// identifying data (blank sheet rows come back as empty objects).
func NormalizePatients(body []byte) ([]models.Patient, error) {
	rows, err := decodeList(body, patientEnvelopeKeys...)
	if err != nil {
		return nil, err
	}

	patients := make([]models.Patient, 0, len(rows))
	for _, row := range rows {
		patient := NormalizePatient(row)
		if patient.IsEmpty() {
			continue
		}
		patients = append(patients, patient)
	}
	return patients, nil
}

// NormalizeDNI strips separators people type into document numbers
// ("30.123.456" -> "30123456").
func NormalizeDNI(dni string) string {
	return digitsOnly(dni)
}

// DenormalizePatient builds the payload the patient webhooks expect.
func DenormalizePatient(patient models.Patient) map[string]any {
	payload := make(map[string]any)
	for key, value := range patient.Extra {
		payload[key] = value
	}

	fields := map[string]string{
		"id":              patient.ID,
		"nombre":          patient.Nombre,
		"apellido":        patient.Apellido,
		"dni":             patient.DNI,
		"telefono":        patient.Telefono,
		"email":           patient.Email,
		"fechaNacimiento": patient.FechaNacimiento,
		"obraSocial":      patient.ObraSocial,
		"numeroAfiliado":  patient.NumeroAfiliado,
		"direccion":       patient.Direccion,
		"notas":           patient.Notas,
		"alergias":        patient.Alergias,
		"fechaAlta":       patient.FechaAlta,
	}
	for key, value := range fields {
		if value != "" {
			payload[key] = value
		}
	}
	if len(patient.Documentos) > 0 {
		payload["documentos"] = patient.Documentos
	}
	return payload
}
