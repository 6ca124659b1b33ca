package constvars

const (
	TurnoTypeConsulta   = "consulta"
	TurnoTypeControl    = "control"
	TurnoTypeLimpieza   = "limpieza"
	TurnoTypeExtraccion = "extraccion"
	TurnoTypeConducto   = "conducto"
	TurnoTypeOrtodoncia = "ortodoncia"
	TurnoTypeUrgencia   = "urgencia"
)

// TurnoTypeDurations holds the default length in minutes of each known turno type.
var TurnoTypeDurations = map[string]int{
	TurnoTypeConsulta:   30,
	TurnoTypeControl:    20,
	TurnoTypeLimpieza:   40,
	TurnoTypeExtraccion: 45,
	TurnoTypeConducto:   60,
	TurnoTypeOrtodoncia: 30,
	TurnoTypeUrgencia:   30,
}

const (
	TurnoStatusConfirmed = "confirmed"
	TurnoStatusCancelled = "cancelled"
)

const (
	TurnoEventCreated = "turno.created"
	TurnoEventUpdated = "turno.updated"
	TurnoEventDeleted = "turno.deleted"
	TurnoEventRemind  = "turno.reminder"
)
