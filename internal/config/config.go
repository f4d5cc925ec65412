package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
)

// Config holds the application's configuration values.
// Tags like `envconfig:"APP_PORT"` specify the environment variable name.
// `default:""` provides a default value if the env var is not set.
// `required:"true"` makes an environment variable mandatory.
type Config struct {
	AppEnv     string `envconfig:"APP_ENV" default:"development" validate:"oneof=development staging production test"`
	LogLevel   string `envconfig:"LOG_LEVEL" default:"info" validate:"oneof=debug info warn error"`
	HttpServer ServerConfig
	GrpcServer GrpcServerConfig
	Postgres   PostgresConfig
	Redis      RedisConfig
	Auth       AuthConfig
}

// ServerConfig holds HTTP server-specific configurations.
type ServerConfig struct {
	Port         string        `envconfig:"HTTP_SERVER_PORT" default:"8080" validate:"required,numeric"`
	TimeoutRead  time.Duration `envconfig:"HTTP_SERVER_TIMEOUT_READ" default:"15s"`
	TimeoutWrite time.Duration `envconfig:"HTTP_SERVER_TIMEOUT_WRITE" default:"15s"`
	TimeoutIdle  time.Duration `envconfig:"HTTP_SERVER_TIMEOUT_IDLE" default:"60s"`
}

// GrpcServerConfig holds gRPC server-specific configurations.
type GrpcServerConfig struct {
	Port string `envconfig:"GRPC_SERVER_PORT" default:"9090" validate:"required,numeric"`
}

// PostgresConfig holds PostgreSQL database connection details.
type PostgresConfig struct {
	Host        string `envconfig:"POSTGRES_HOST" required:"true" validate:"required"`
	Port        string `envconfig:"POSTGRES_PORT" default:"5432" validate:"numeric"`
	User        string `envconfig:"POSTGRES_USER" required:"true" validate:"required"`
	Password    string `envconfig:"POSTGRES_PASSWORD" required:"true" validate:"required"`
	DBName      string `envconfig:"POSTGRES_DBNAME" required:"true" validate:"required"`
	SSLMode     string `envconfig:"POSTGRES_SSLMODE" default:"disable" validate:"oneof=disable allow prefer require verify-ca verify-full"`
	AutoMigrate bool   `envconfig:"POSTGRES_AUTO_MIGRATE" default:"false"`
}

// RedisConfig enables the design cache when URL is set.
type RedisConfig struct {
	URL        string        `envconfig:"REDIS_URL"`
	DesignsTTL time.Duration `envconfig:"REDIS_DESIGNS_TTL" default:"30s" validate:"gt=0"`
}

// AuthConfig enables the bearer token filter when JWTSecret is set.
type AuthConfig struct {
	JWTSecret string `envconfig:"AUTH_JWT_SECRET" validate:"omitempty,min=32"`
}

// DSN constructs the Data Source Name string for connecting to PostgreSQL.
func (pc *PostgresConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		pc.Host, pc.Port, pc.User, pc.Password, pc.DBName, pc.SSLMode)
}

// Load reads the configuration from environment variables and validates it.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process configuration: %w", err)
	}
	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}
