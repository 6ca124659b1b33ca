package config

import (
	"log"
	"odonto-service/internal/pkg/constvars"
	"odonto-service/internal/pkg/utils"
	"time"

	"github.com/joho/godotenv"
)

func init() {
	godotenv.Load()
}

func NewDriverConfig() *DriverConfig {
	return &DriverConfig{
		Redis: Redis{
			Host:     utils.GetEnvString("REDIS_HOST", "localhost"),
			Port:     utils.GetEnvString("REDIS_PORT", "6379"),
			Password: utils.GetEnvString("REDIS_PASSWORD", ""),
			DB:       utils.GetEnvInt("REDIS_DB", 0),
		},
		Logger: Logger{
			Level:               utils.GetEnvString("LOGGER_LEVEL", "debug"),
			OutputFileName:      utils.GetEnvString("LOGGER_OUTPUT_FILENAME", "logger.log"),
			OutputErrorFileName: utils.GetEnvString("LOGGER_OUTPUT_ERROR_FILENAME", "logger_error.log"),
		},
		RabbitMQ: RabbitMQ{
			Host:     utils.GetEnvString("RABBITMQ_HOST", ""),
			Port:     utils.GetEnvString("RABBITMQ_PORT", "5672"),
			Username: utils.GetEnvString("RABBITMQ_USERNAME", "guest"),
			Password: utils.GetEnvString("RABBITMQ_PASSWORD", "guest"),
		},
		Minio: Minio{
			Host:     utils.GetEnvString("MINIO_HOST", ""),
			Port:     utils.GetEnvString("MINIO_PORT", "9000"),
			Username: utils.GetEnvString("MINIO_USERNAME", ""),
			Password: utils.GetEnvString("MINIO_PASSWORD", ""),
			UseSSL:   utils.GetEnvBool("MINIO_USE_SSL", false),
		},
	}
}

func NewInternalConfig() *InternalConfig {
	return &InternalConfig{
		App: App{
			Env:                        utils.GetEnvString("APP_ENV", constvars.EnvironmentDevelopment),
			Port:                       utils.GetEnvString("APP_PORT", ":8080"),
			Version:                    utils.GetEnvString("APP_VERSION", "v1"),
			EndpointPrefix:             utils.GetEnvString("APP_ENDPOINT_PREFIX", "api"),
			Timezone:                   utils.GetEnvString("APP_TIMEZONE", "America/Argentina/Buenos_Aires"),
			AllowedOrigins:             utils.GetEnvString("APP_ALLOWED_ORIGINS", "*"),
			MaxRequests:                utils.GetEnvInt("APP_MAX_REQUEST", 20),
			ShutdownTimeoutInSeconds:   utils.GetEnvInt("APP_SHUTDOWN_TIMEOUT_IN_SECONDS", 10),
			RequestTimeoutInSeconds:    utils.GetEnvInt("APP_REQUEST_TIMEOUT_IN_SECONDS", 20),
			RequestBodyLimitInMegabyte: utils.GetEnvInt("APP_REQUEST_BODY_LIMIT_IN_MEGABYTE", 10),
			LoginMaxAttemptsPerMinute:  utils.GetEnvInt("APP_LOGIN_MAX_ATTEMPTS_PER_MINUTE", 5),
			LoginBlockTimeInMinutes:    utils.GetEnvInt("APP_LOGIN_BLOCK_TIME_IN_MINUTES", 5),
		},
		Webhook: Webhook{
			BaseUrl:            utils.GetEnvString("WEBHOOK_BASE_URL", "http://localhost:5678/webhook"),
			Token:              utils.GetEnvString("WEBHOOK_TOKEN", ""),
			TimeoutInSeconds:   utils.GetEnvInt("WEBHOOK_TIMEOUT_IN_SECONDS", 15),
			RequestsPerSecond:  utils.GetEnvInt("WEBHOOK_REQUESTS_PER_SECOND", 5),
			Burst:              utils.GetEnvInt("WEBHOOK_BURST", 10),
			PatientsListPath:   utils.GetEnvString("WEBHOOK_PATIENTS_LIST_PATH", "/pacientes"),
			PatientCreatePath:  utils.GetEnvString("WEBHOOK_PATIENT_CREATE_PATH", "/pacientes/crear"),
			PatientUpdatePath:  utils.GetEnvString("WEBHOOK_PATIENT_UPDATE_PATH", "/pacientes/actualizar"),
			PatientDeletePath:  utils.GetEnvString("WEBHOOK_PATIENT_DELETE_PATH", "/pacientes/eliminar"),
			PatientByDNIPath:   utils.GetEnvString("WEBHOOK_PATIENT_BY_DNI_PATH", "/pacientes/verificar-dni"),
			TurnosListPath:     utils.GetEnvString("WEBHOOK_TURNOS_LIST_PATH", "/turnos"),
			TurnoCreatePath:    utils.GetEnvString("WEBHOOK_TURNO_CREATE_PATH", "/turnos/crear"),
			TurnoUpdatePath:    utils.GetEnvString("WEBHOOK_TURNO_UPDATE_PATH", "/turnos/actualizar"),
			TurnoDeletePath:    utils.GetEnvString("WEBHOOK_TURNO_DELETE_PATH", "/turnos/eliminar"),
			AvailabilityPath:   utils.GetEnvString("WEBHOOK_AVAILABILITY_PATH", "/disponibilidad"),
			LoginPath:          utils.GetEnvString("WEBHOOK_LOGIN_PATH", "/login"),
			ChangePasswordPath: utils.GetEnvString("WEBHOOK_CHANGE_PASSWORD_PATH", "/cambiar-password"),
		},
		JWT: JWT{
			Secret:        utils.GetEnvString("JWT_SECRET", "change-me"),
			ExpTimeInHour: utils.GetEnvInt("JWT_EXP_TIME_IN_HOUR", 12),
		},
		Session: Session{
			ExpiredTimeInHours:     utils.GetEnvInt("SESSION_EXPIRED_TIME_IN_HOURS", 12),
			ViewStateTTLInHours:    utils.GetEnvInt("SESSION_VIEW_STATE_TTL_IN_HOURS", 12),
			MaxUploadSizeInMB:      utils.GetEnvInt("SESSION_MAX_UPLOAD_SIZE_IN_MB", 5),
			MaxDocumentsPerPatient: utils.GetEnvInt("SESSION_MAX_DOCUMENTS_PER_PATIENT", 5),
		},
		Cache: Cache{
			PatientsTTLInSeconds: utils.GetEnvInt("CACHE_PATIENTS_TTL_IN_SECONDS", 30),
		},
		Schedule: Schedule{
			WorkingHours:        utils.GetEnvString("SCHEDULE_WORKING_HOURS", "mon-fri 09:00-13:00,15:00-20:00; sat 09:00-13:00"),
			DefaultTurnoMinutes: utils.GetEnvInt("SCHEDULE_DEFAULT_TURNO_MINUTES", 30),
		},
		Reminder: Reminder{
			Enabled:  utils.GetEnvBool("REMINDER_ENABLED", true),
			CronSpec: utils.GetEnvString("REMINDER_CRON_SPEC", "0 18 * * *"),
			Queue:    utils.GetEnvString("REMINDER_QUEUE", "odonto_turno_reminders"),
			Events:   utils.GetEnvString("REMINDER_EVENTS_QUEUE", "odonto_turno_events"),
		},
		Minio: AppMinio{
			BucketName:               utils.GetEnvString("MINIO_BUCKET_NAME", "pacientes"),
			PresignedUrlExpiryInHour: utils.GetEnvInt("MINIO_PRESIGNED_URL_EXPIRY_IN_HOUR", 168),
		},
	}
}

// Location resolves the practice timezone, falling back to the host zone
// when the name is unknown.
func (a App) Location() *time.Location {
	loc, err := time.LoadLocation(a.Timezone)
	if err != nil {
		log.Printf("Unknown APP_TIMEZONE %q, using local time: %v", a.Timezone, err)
		return time.Local
	}
	return loc
}
