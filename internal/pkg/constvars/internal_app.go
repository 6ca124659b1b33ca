package constvars

type ContextKey string

const (
	CONTEXT_REQUEST_ID_KEY           ContextKey = "request_id"
	CONTEXT_IS_CLIENT_REQUEST_ID_KEY ContextKey = "is_client_request_id"
	CONTEXT_SESSION_ID_KEY           ContextKey = "session_id"
	CONTEXT_SESSION_DATA_KEY         ContextKey = "session_data"
)

const (
	URLParamID  = "id"
	URLParamDNI = "dni"
)

const (
	ResourcePatients     = "patients"
	ResourceTurnos       = "turnos"
	ResourceAvailability = "availability"
	ResourceAuth         = "auth"
)

const (
	AppPaginationUrlFormat = "%s?page=%d&page_size=%d"
	AppDefaultPageSize     = 20
	AppMaxPageSize         = 200
)

const (
	DateOnlyLayout      = "2006-01-02"
	LocalDateTimeLayout = "2006-01-02T15:04:05"
	LocalMinuteLayout   = "2006-01-02 15:04"
	LocalMinuteTLayout  = "2006-01-02T15:04"
)

const (
	EnvironmentDevelopment = "development"
	EnvironmentProduction  = "production"
)
