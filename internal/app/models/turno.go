package models

import (
	"odonto-service/internal/pkg/constvars"
	"strings"
	"time"
)

// Turno is a calendar event carrying the patient linkage the practice adds
// to every appointment.
type Turno struct {
	ID           string    `json:"id"`
	Summary      string    `json:"summary,omitempty"`
	Description  string    `json:"description,omitempty"`
	Start        time.Time `json:"start"`
	End          time.Time `json:"end"`
	AllDay       bool      `json:"allDay,omitempty"`
	PatientName  string    `json:"patientName,omitempty"`
	PatientDNI   string    `json:"patientDni,omitempty"`
	PatientPhone string    `json:"patientPhone,omitempty"`
	TipoTurno    string    `json:"tipoTurno,omitempty"`
	Duracion     int       `json:"duracion"`
	Estado       string    `json:"estado,omitempty"`
	Notas        string    `json:"notas,omitempty"`
}

func (t Turno) IsCancelled() bool {
	return strings.EqualFold(t.Estado, constvars.TurnoStatusCancelled)
}

// Overlaps reports whether both turnos share any instant. Touching ends do
// not overlap, so back to back appointments are allowed.
func (t Turno) Overlaps(other Turno) bool {
	return t.Start.Before(other.End) && other.Start.Before(t.End)
}

// DurationFor returns the default length of a turno type, falling back to
// fallbackMinutes for unknown types.
func DurationFor(tipoTurno string, fallbackMinutes int) int {
	if minutes, ok := constvars.TurnoTypeDurations[strings.ToLower(strings.TrimSpace(tipoTurno))]; ok {
		return minutes
	}
	return fallbackMinutes
}
