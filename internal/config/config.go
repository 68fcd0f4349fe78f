package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App struct {
		Name string `envconfig:"APP_NAME" default:"Fundly"`
		Env  string `envconfig:"APP_ENV" default:"dev"`
		Port int    `envconfig:"PORT" default:"8080"`
		// PublicBaseURL prefixes default placement donation links.
		PublicBaseURL string `envconfig:"PUBLIC_BASE_URL" default:"http://localhost:8080"`
		Migrate       bool   `envconfig:"APP_MIGRATE" default:"false"`
		// CORSOrigins is a comma separated list of allowed browser origins.
		CORSOrigins []string `envconfig:"CORS_ORIGINS" default:"*"`
	}

	DB struct {
		Host     string `envconfig:"DB_HOST" default:"localhost"`
		Port     int    `envconfig:"DB_PORT" default:"5432"`
		User     string `envconfig:"DB_USER" default:"postgres"`
		Password string `envconfig:"DB_PASSWORD" default:""`
		Name     string `envconfig:"DB_NAME" default:"fundly"`
	}

	Server struct {
		Timeout         time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
		ShutdownTimeout time.Duration `envconfig:"SERVER_SHUTDOWN_TIMEOUT" default:"15s"`
	}

	Auth struct {
		JWTSecret string        `envconfig:"JWT_SECRET" required:"true"`
		Issuer    string        `envconfig:"JWT_ISSUER" default:"fundly"`
		TokenTTL  time.Duration `envconfig:"JWT_TTL" default:"24h"`
		AdminRole string        `envconfig:"ADMIN_ROLE" default:"admin"`
	}

	Ledger struct {
		LockTimeout time.Duration `envconfig:"LEDGER_LOCK_TIMEOUT" default:"5s"`
		Retries     int           `envconfig:"LEDGER_RETRIES" default:"3"`
		Backoff     time.Duration `envconfig:"LEDGER_RETRY_BACKOFF" default:"100ms"`
	}

	Payment struct {
		// WebhookSecret authenticates payment confirmation callbacks.
		WebhookSecret string `envconfig:"PAYMENT_WEBHOOK_SECRET" required:"true"`
	}

	Storage struct {
		Driver   string `envconfig:"STORAGE_DRIVER" default:"local"`
		LocalDir string `envconfig:"STORAGE_LOCAL_DIR" default:"./data/assets"`
		BaseURL  string `envconfig:"STORAGE_BASE_URL" default:"http://localhost:8080/assets"`
		Bucket   string `envconfig:"STORAGE_S3_BUCKET"`
		Region   string `envconfig:"STORAGE_S3_REGION" default:"eu-west-1"`
	}

	Console struct {
		// Operator is recorded as the reviewer of withdrawals decided in the TUI.
		Operator string `envconfig:"CONSOLE_OPERATOR" default:"console"`
	}

	Worker struct {
		Size     int `envconfig:"WORKER_SIZE" default:"4"`
		Capacity int `envconfig:"WORKER_QUEUE_CAPACITY" default:"256"`
	}
}

func (c *Config) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name)
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}
