package responses

import "time"

type Slot struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

type Availability struct {
	Date      string `json:"date"`
	TipoTurno string `json:"tipoTurno,omitempty"`
	Duracion  int    `json:"duracion"`
	Slots     []Slot `json:"slots"`
	Busy      []Slot `json:"busy"`
}
