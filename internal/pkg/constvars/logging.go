package constvars

const (
	LoggingRequestIDKey      = "request_id"
	LoggingSessionIDKey      = "session_id"
	LoggingUsernameKey       = "username"
	LoggingRequestKey        = "request"
	LoggingResponseLengthKey = "response_length"
	LoggingMethodKey         = "method"
	LoggingEndpointKey       = "endpoint"
	LoggingRemoteAddrKey     = "remote_addr"
	LoggingUserAgentKey      = "user_agent"
	LoggingQueryKey          = "query"
	LoggingStatusCodeKey     = "status_code"
	LoggingLatencyKey        = "latency"
	LoggingDurationKey       = "duration"
	LoggingSuccessKey        = "success"
	LoggingOperationKey      = "operation"
	LoggingIsClientIDKey     = "is_client_request_id"

	LoggingWebhookURLKey      = "webhook_url"
	LoggingWebhookStatusKey   = "webhook_status"
	LoggingWebhookResourceKey = "webhook_resource"

	LoggingPatientIDKey     = "patient_id"
	LoggingPatientDNIKey    = "patient_dni"
	LoggingPatientCountKey  = "patient_count"
	LoggingTurnoIDKey       = "turno_id"
	LoggingTurnoCountKey    = "turno_count"
	LoggingTurnoTypeKey     = "turno_type"
	LoggingDateKey          = "date"
	LoggingSlotCountKey     = "slot_count"
	LoggingDialogKey        = "dialog"
	LoggingViewKey          = "view"
	LoggingEntityIDKey      = "entity_id"
	LoggingCacheKey         = "cache_key"
	LoggingRedisKey         = "redis_key"
	LoggingLockValueKey     = "lock_value"
	LoggingQueueNameKey     = "queue_name"
	LoggingBucketNameKey    = "bucket_name"
	LoggingObjectNameKey    = "object_name"
	LoggingEventTypeKey     = "event_type"
	LoggingReminderCountKey = "reminder_count"
)
