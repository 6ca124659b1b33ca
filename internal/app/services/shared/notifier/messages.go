package notifier

import (
	"odonto-service/internal/app/models"
	"time"
)

// TurnoEvent is published after every successful turno mutation.
type TurnoEvent struct {
	Type       string        `json:"type"`
	RequestID  string        `json:"requestId,omitempty"`
	OccurredAt time.Time     `json:"occurredAt"`
	Turno      *models.Turno `json:"turno,omitempty"`
	TurnoID    string        `json:"turnoId"`
}

// ReminderMessage asks the messaging workflow to remind a patient of a turno.
type ReminderMessage struct {
	Type         string    `json:"type"`
	TurnoID      string    `json:"turnoId"`
	PatientName  string    `json:"patientName"`
	PatientPhone string    `json:"patientPhone"`
	TipoTurno    string    `json:"tipoTurno,omitempty"`
	Start        time.Time `json:"start"`
	Text         string    `json:"text"`
}
