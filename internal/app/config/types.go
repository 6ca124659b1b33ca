package config

type (
	InternalConfig struct {
		App      App
		Webhook  Webhook
		JWT      JWT
		Session  Session
		Cache    Cache
		Schedule Schedule
		Reminder Reminder
		Minio    AppMinio
	}

	DriverConfig struct {
		Redis    Redis
		Logger   Logger
		RabbitMQ RabbitMQ
		Minio    Minio
	}

	App struct {
		Env                        string
		Port                       string
		Version                    string
		EndpointPrefix             string
		Timezone                   string
		AllowedOrigins             string
		MaxRequests                int
		ShutdownTimeoutInSeconds   int
		RequestTimeoutInSeconds    int
		RequestBodyLimitInMegabyte int
		LoginMaxAttemptsPerMinute  int
		LoginBlockTimeInMinutes    int
	}

	// Webhook holds the n8n base url and the path of every workflow the
	// service calls.
	Webhook struct {
		BaseUrl            string
		Token              string
		TimeoutInSeconds   int
		RequestsPerSecond  int
		Burst              int
		PatientsListPath   string
		PatientCreatePath  string
		PatientUpdatePath  string
		PatientDeletePath  string
		PatientByDNIPath   string
		TurnosListPath     string
		TurnoCreatePath    string
		TurnoUpdatePath    string
		TurnoDeletePath    string
		AvailabilityPath   string
		LoginPath          string
		ChangePasswordPath string
	}

	JWT struct {
		Secret        string
		ExpTimeInHour int
	}

	Session struct {
		ExpiredTimeInHours     int
		ViewStateTTLInHours    int
		MaxUploadSizeInMB      int
		MaxDocumentsPerPatient int
	}

	Cache struct {
		PatientsTTLInSeconds int
	}

	Schedule struct {
		WorkingHours        string
		DefaultTurnoMinutes int
	}

	Reminder struct {
		Enabled  bool
		CronSpec string
		Queue    string
		Events   string
	}

	AppMinio struct {
		BucketName               string
		PresignedUrlExpiryInHour int
	}

	Redis struct {
		Host     string
		Port     string
		Password string
		DB       int
	}

	Logger struct {
		Level               string
		OutputFileName      string
		OutputErrorFileName string
	}

	RabbitMQ struct {
		Host     string
		Port     string
		Username string
		Password string
	}

	Minio struct {
		Host     string
		Port     string
		Username string
		Password string
		UseSSL   bool
	}
)
