package config

import (
	"github.com/caarlos0/env/v11"
)

type Config struct {
	Env        string `env:"APP_ENV" envDefault:"development"`
	ServerPort string `env:"SERVER_PORT" envDefault:"8080"`
	// AppBaseURL is the public base used to build invitation links.
	AppBaseURL string `env:"APP_BASE_URL" envDefault:"http://localhost:8080"`

	DBHost     string `env:"DB_HOST" envDefault:"localhost"`
	DBPort     string `env:"DB_PORT" envDefault:"5432"`
	DBUser     string `env:"DB_USER" envDefault:"tandem"`
	DBPassword string `env:"DB_PASSWORD" envDefault:"tandem_dev_password"`
	DBName     string `env:"DB_NAME" envDefault:"tandem"`

	RedisAddr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD" envDefault:""`

	JWTSecret string `env:"JWT_SECRET" envDefault:"dev-secret-change-me"`

	SMTPHost     string `env:"SMTP_HOST" envDefault:""`
	SMTPPort     int    `env:"SMTP_PORT" envDefault:"587"`
	SMTPUser     string `env:"SMTP_USER" envDefault:""`
	SMTPPassword string `env:"SMTP_PASSWORD" envDefault:""`
	EmailFrom    string `env:"EMAIL_FROM" envDefault:"Tandem <no-reply@tandem.local>"`
}

func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}
