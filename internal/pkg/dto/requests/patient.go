package requests

import "mime/multipart"

type FindAllPatients struct {
	Query      string
	Pagination *Pagination
}

type CreatePatient struct {
	Nombre          string   `json:"nombre" validate:"required"`
	Apellido        string   `json:"apellido"`
	DNI             string   `json:"dni" validate:"required,dni"`
	Telefono        string   `json:"telefono"`
	Email           string   `json:"email" validate:"omitempty,email"`
	FechaNacimiento string   `json:"fechaNacimiento" validate:"omitempty,date_only"`
	ObraSocial      string   `json:"obraSocial"`
	NumeroAfiliado  string   `json:"numeroAfiliado"`
	Direccion       string   `json:"direccion"`
	Notas           string   `json:"notas"`
	Alergias        string   `json:"alergias"`
	Documentos      []string `json:"documentos"`

	Files []*multipart.FileHeader `json:"-"`
}

type UpdatePatient struct {
	ID              string   `json:"-"`
	Nombre          string   `json:"nombre"`
	Apellido        string   `json:"apellido"`
	DNI             string   `json:"dni" validate:"omitempty,dni"`
	Telefono        string   `json:"telefono"`
	Email           string   `json:"email" validate:"omitempty,email"`
	FechaNacimiento string   `json:"fechaNacimiento" validate:"omitempty,date_only"`
	ObraSocial      string   `json:"obraSocial"`
	NumeroAfiliado  string   `json:"numeroAfiliado"`
	Direccion       string   `json:"direccion"`
	Notas           string   `json:"notas"`
	Alergias        string   `json:"alergias"`
	Documentos      []string `json:"documentos"`
}
