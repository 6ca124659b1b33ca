package requests

type FindAllTurnos struct {
	From       string `validate:"omitempty,date_only"`
	To         string `validate:"omitempty,date_only"`
	PatientDNI string
}

type UpsertTurno struct {
	ID           string `json:"-"`
	Start        string `json:"start" validate:"required"`
	End          string `json:"end"`
	PatientDNI   string `json:"patientDni" validate:"omitempty,dni"`
	PatientName  string `json:"patientName" validate:"required_without=PatientDNI"`
	PatientPhone string `json:"patientPhone"`
	TipoTurno    string `json:"tipoTurno" validate:"omitempty,turno_type"`
	Duracion     int    `json:"duracion" validate:"omitempty,gte=5,lte=480"`
	Estado       string `json:"estado" validate:"omitempty,oneof=confirmed tentative"`
	Notas        string `json:"notas"`
}

type GetAvailability struct {
	Date      string `json:"date" validate:"required,date_only"`
	TipoTurno string `json:"tipoTurno" validate:"omitempty,turno_type"`
	Duracion  int    `json:"duracion" validate:"omitempty,gte=5,lte=480"`
}
