package constvars

const (
	RedisKeySessionPrefix   = "odonto:session:"
	RedisKeyViewStatePrefix = "odonto:viewstate:"
	RedisKeyPatientsCache   = "odonto:cache:patients"
	RedisKeyReminderLeader  = "odonto:reminders:leader"
	RedisKeyReminderSentFmt = "odonto:reminders:sent:%s:%s"
	RedisKeyAttemptPrefix   = "odonto:attempts:"
)
