package constvars

const (
	ResponseUnknown = "unknown"

	LoginSuccess          = "successfully login"
	LogoutSuccess         = "successfully logout"
	ChangePasswordSuccess = "password changed successfully"

	GetPatientsSuccessMessage   = "get patients successfully"
	GetPatientSuccessMessage    = "get patient successfully"
	CreatePatientSuccessMessage = "patient created successfully"
	UpdatePatientSuccessMessage = "patient updated successfully"
	DeletePatientSuccessMessage = "patient deleted successfully"

	GetTurnosSuccessMessage   = "get appointments successfully"
	CreateTurnoSuccessMessage = "appointment created successfully"
	UpdateTurnoSuccessMessage = "appointment updated successfully"
	DeleteTurnoSuccessMessage = "appointment deleted successfully"

	GetAvailabilitySuccessMessage = "get availability successfully"

	GetViewStateSuccessMessage    = "get view state successfully"
	UpdateViewStateSuccessMessage = "view state updated successfully"

	HealthyMessage   = "service healthy"
	UnhealthyMessage = "service degraded"
)
