package models

import "strings"

// Patient is the normalized shape of a patient row held by the external store.
type Patient struct {
	ID              string         `json:"id"`
	Nombre          string         `json:"nombre"`
	Apellido        string         `json:"apellido,omitempty"`
	DNI             string         `json:"dni"`
	Telefono        string         `json:"telefono,omitempty"`
	Email           string         `json:"email,omitempty"`
	FechaNacimiento string         `json:"fechaNacimiento,omitempty"`
	ObraSocial      string         `json:"obraSocial,omitempty"`
	NumeroAfiliado  string         `json:"numeroAfiliado,omitempty"`
	Direccion       string         `json:"direccion,omitempty"`
	Notas           string         `json:"notas,omitempty"`
	Alergias        string         `json:"alergias,omitempty"`
	FechaAlta       string         `json:"fechaAlta,omitempty"`
	Documentos      []string       `json:"documentos,omitempty"`
	Extra           map[string]any `json:"extra,omitempty"`
}

func (p Patient) FullName() string {
	return strings.TrimSpace(strings.Join([]string{p.Nombre, p.Apellido}, " "))
}

// IsEmpty reports whether the record carries nothing that identifies a patient.
func (p Patient) IsEmpty() bool {
	return p.ID == "" && p.DNI == "" && p.Nombre == ""
}

// Matches does a case-insensitive substring search over the fields the
// dashboard search box covers.
func (p Patient) Matches(query string) bool {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return true
	}
	for _, field := range []string{p.FullName(), p.DNI, p.Telefono, p.Email} {
		if strings.Contains(strings.ToLower(field), query) {
			return true
		}
	}
	if digits := dniDigits(query); digits != "" && digits != query {
		return strings.Contains(dniDigits(p.DNI), digits)
	}
	return false
}

// dniDigits drops the dots, dashes and spaces people type inside a DNI.
// Anything else makes the value a non-DNI and yields "".
func dniDigits(value string) string {
	var b strings.Builder
	for _, r := range value {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' || r == '-' || r == ' ':
		default:
			return ""
		}
	}
	return b.String()
}
