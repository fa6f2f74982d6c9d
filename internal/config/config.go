package config

import "time"

const (
	EnvDev   = "dev"
	EnvProd  = "prod"
	EnvLocal = "local"
)

var globalConfig *Config

func Global() *Config {
	return globalConfig
}

func SetGlobal(cfg *Config) {
	globalConfig = cfg
}

type Config struct {
	Env           string `env:"ENV" env-required:"true"`
	HTTP          HTTPConfig
	JWT           JWTConfig
	Storage       StorageConfig
	Postgres      PostgresConfig
	Mongo         MongoConfig
	Log           LogConfig
	Notifications NotificationsConfig
}

type HTTPConfig struct {
	Host            string        `env:"HTTP_HOST" env-default:"0.0.0.0"`
	Port            string        `env:"HTTP_PORT" env-default:"8080"`
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" env-default:"5s"`
	AllowedOrigins  []string      `env:"HTTP_ALLOWED_ORIGINS" env-separator:"," env-default:"http://localhost:5173"`
}

type JWTConfig struct {
	Issuer          string        `env:"JWT_ISSUER" env-default:"taskboard"`
	SigningKey      string        `env:"JWT_SIGNING_KEY" env-required:"true"`
	AccessTokenTTL  time.Duration `env:"JWT_ACCESS_TOKEN_TTL" env-default:"15m"`
	RefreshTokenTTL time.Duration `env:"JWT_REFRESH_TOKEN_TTL" env-default:"720h"`
}

type StorageConfig struct {
	// Driver is one of postgres, mongo or memory.
	Driver string `env:"STORAGE_DRIVER" env-default:"postgres"`
}

type PostgresConfig struct {
	Host           string        `env:"POSTGRES_HOST" env-default:"localhost"`
	Port           int           `env:"POSTGRES_PORT" env-default:"5432"`
	Username       string        `env:"POSTGRES_USERNAME" env-default:"postgres"`
	Password       string        `env:"POSTGRES_PASSWORD"`
	Database       string        `env:"POSTGRES_DATABASE" env-default:"taskboard"`
	SSLMode        string        `env:"POSTGRES_SSL_MODE" env-default:"disable"`
	ConnectTimeout time.Duration `env:"POSTGRES_CONNECT_TIMEOUT" env-default:"10s"`
	PingTimeout    time.Duration `env:"POSTGRES_PING_TIMEOUT" env-default:"10s"`
}

type MongoConfig struct {
	URI            string        `env:"MONGO_URI" env-default:"mongodb://localhost:27017"`
	Database       string        `env:"MONGO_DATABASE" env-default:"taskboard"`
	ConnectTimeout time.Duration `env:"MONGO_CONNECT_TIMEOUT" env-default:"10s"`
}

type LogConfig struct {
	// File enables a rotating log file next to stdout when set.
	File       string `env:"LOG_FILE"`
	MaxSizeMB  int    `env:"LOG_FILE_MAX_SIZE_MB" env-default:"10"`
	MaxBackups int    `env:"LOG_FILE_MAX_BACKUPS" env-default:"3"`
	MaxAgeDays int    `env:"LOG_FILE_MAX_AGE_DAYS" env-default:"28"`
}

type NotificationsConfig struct {
	ListLimit          int           `env:"NOTIFICATIONS_LIST_LIMIT" env-default:"50"`
	BreakerMaxFailures uint32        `env:"NOTIFICATIONS_BREAKER_MAX_FAILURES" env-default:"5"`
	BreakerTimeout     time.Duration `env:"NOTIFICATIONS_BREAKER_TIMEOUT" env-default:"30s"`
}

// ReminderConfig configures the reminder client. It is read separately
// because the client runs without the server's storage and JWT settings.
type ReminderConfig struct {
	Env                  string        `env:"ENV" env-default:"local"`
	APIURL               string        `env:"REMINDER_API_URL" env-default:"http://localhost:8080/api/v1"`
	Email                string        `env:"REMINDER_EMAIL"`
	Password             string        `env:"REMINDER_PASSWORD"`
	StatePath            string        `env:"REMINDER_STATE_PATH" env-default:"taskboard-reminder.db"`
	PollInterval         time.Duration `env:"REMINDER_POLL_INTERVAL" env-default:"60s"`
	Lead                 time.Duration `env:"REMINDER_LEAD" env-default:"10m"`
	NightHour            int           `env:"REMINDER_NIGHT_HOUR" env-default:"21"`
	HighPriorityCooldown time.Duration `env:"REMINDER_HIGH_PRIORITY_COOLDOWN" env-default:"90m"`
	HighPriorityCheck    time.Duration `env:"REMINDER_HIGH_PRIORITY_CHECK" env-default:"30s"`
	Snooze               time.Duration `env:"REMINDER_SNOOZE" env-default:"10m"`
	RequestTimeout       time.Duration `env:"REMINDER_REQUEST_TIMEOUT" env-default:"10s"`
	Log                  LogConfig
}
