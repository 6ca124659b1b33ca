package constvars

var CustomValidationErrorMessages = map[string]string{
	"required":         "is required",
	"email":            "must be a valid email",
	"min":              "must be at least %s characters long",
	"max":              "maximum at %s characters long",
	"eqfield":          "must match %s",
	"nefield":          "must be different from %s",
	"numeric":          "must be a number",
	"gte":              "must be greater than or equal to %s",
	"lte":              "must be less than or equal to %s",
	"oneof":            "must be one of [%s]",
	"dni":              "must be a valid DNI (7 or 8 digits)",
	"turno_type":       "must be a short turno type name",
	"required_without": "is required when %s is empty",
	"date_only":        "must be a date in YYYY-MM-DD format",
}

var TagsWithParams = map[string]bool{
	"min":     true,
	"max":     true,
	"eqfield": true,
	"nefield": true,
	"gte":     true,
	"lte":     true,
	"oneof":   true,

	"required_without": true,
}

// Error messages for clients
const (
	ErrClientCannotProcessRequest          = "failed to process your request"
	ErrClientSomethingWrongWithApplication = "there is something wrong with the application"
	ErrClientServerLongRespond             = "the app taking too long to respond"
	ErrClientNotLoggedIn                   = "your session ended, please login again"
	ErrClientInvalidUsernameOrPassword     = "invalid username or password"
	ErrClientPasswordsDoNotMatch           = "passwords do not match"
	ErrClientWebhookUnavailable            = "the practice records service is not responding, please try again"
	ErrClientPatientNotFound               = "patient not found"
	ErrClientPatientAlreadyExists          = "a patient with that DNI already exists"
	ErrClientTurnoNotFound                 = "appointment not found"
	ErrClientTurnoOverlap                  = "the selected time overlaps another appointment"
	ErrClientInvalidDialog                 = "that dialog can't be opened right now"
	ErrClientTooManyLoginAttempts          = "too many login attempts, please wait a moment"
	ErrClientTurnoEndBeforeStart           = "the appointment must end after it starts"
	ErrClientTooManyRequests               = "too many requests, please slow down"
	ErrClientDocumentTooLarge              = "each document must be at most %d MB"
)

// Error messages for developers
const (
	ErrDevInvalidInput             = "invalid input"
	ErrDevCannotParseJSON          = "cannot parse JSON into struct or other data types"
	ErrDevCannotMarshalJSON        = "cannot convert struct or other data types to JSON"
	ErrDevCannotParseMultipartForm = "cannot parse multipart form body"
	ErrDevCannotParseDate          = "cannot parse the requested date"
	ErrDevInvalidFormat            = "invalid %s format"
	ErrDevValidationFailed         = "validation failed"
	ErrDevURLParamValidationFailed = "parameter %s validation failed"
	ErrDevMissingSessionData       = "session data missing from context"

	ErrDevCreateHTTPRequest   = "failed to create HTTP request"
	ErrDevSendHTTPRequest     = "failed to send HTTP request"
	ErrDevWebhookCall         = "webhook %s responded with an error"
	ErrDevWebhookDecode       = "failed to decode webhook %s response"
	ErrDevWebhookUnauthorized = "webhook %s rejected the credentials"
	ErrDevWebhookNotFound     = "webhook %s reported the resource as missing"

	ErrDevAuthSigningMethod         = "unexpected signing method"
	ErrDevAuthTokenInvalidOrExpired = "invalid or expired token"
	ErrDevAuthTokenMissing          = "token missing"
	ErrDevAuthInvalidSession        = "invalid session"
	ErrDevAuthGenerateToken         = "failed to generate token"
	ErrDevInvalidCredentials        = "invalid credentials"
	ErrDevPasswordsDoNotMatch       = "passwords do not match"
	ErrDevLoginRateLimited          = "login attempts rate limited for address"
	ErrDevRequestRateLimited        = "requests rate limited for address %s"

	ErrDevPatientNotFound      = "patient %s not found in webhook listing"
	ErrDevPatientAlreadyExists = "patient with dni %s already exists"
	ErrDevTurnoNotFound        = "turno %s not found in calendar listing"
	ErrDevTurnoOverlap         = "turno overlaps existing turno %s"
	ErrDevInvalidTransition    = "invalid view state transition: %s"

	ErrDevRedisSetData    = "failed to SET data into redis"
	ErrDevRedisGetData    = "failed to GET data from redis"
	ErrDevRedisDeleteData = "failed to DELETE data from redis"
	ErrDevRedisUnlock     = "failed to release redis lock"

	ErrDevMinioFailedToCreateObject  = "failed to create object into minio storage with bucket name '%s'"
	ErrDevMinioFailedToPresignObject = "failed to presign object from minio storage with bucket name '%s'"
	ErrDevRabbitMQPublishMessage     = "failed to publish message into queue '%s'"

	ErrDevServerProcess          = "server failed to process something related to machine system"
	ErrDevServerDeadlineExceeded = "deadline exceeded"
)

const (
	ErrEnvParsing = "Error parsing %s: %v, will use default value"
)
