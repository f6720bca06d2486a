package config

import (
	"errors"
	"io/fs"
	"os"

	"github.com/spf13/viper"
)

type Config struct {
	Port           string   `mapstructure:"PORT"`
	Environment    string   `mapstructure:"ENVIRONMENT"`
	Version        string   `mapstructure:"VERSION"`
	TrustedOrigins []string `mapstructure:"TRUSTED_ORIGINS"`
	SiteURL        string   `mapstructure:"SITE_URL"`

	DBHost     string `mapstructure:"POSTGRES_HOST"`
	DBPort     string `mapstructure:"POSTGRES_PORT"`
	DBUser     string `mapstructure:"POSTGRES_USER"`
	DBPassword string `mapstructure:"POSTGRES_PASSWORD"`
	DBName     string `mapstructure:"POSTGRES_DB"`
	// MigrationsPath is applied on startup when set, e.g. "file://migrations".
	MigrationsPath string `mapstructure:"MIGRATIONS_PATH"`

	MailHost     string `mapstructure:"MAIL_HOST"`
	MailPort     int    `mapstructure:"MAIL_PORT"`
	MailUser     string `mapstructure:"MAIL_USER"`
	MailPassword string `mapstructure:"MAIL_PASSWORD"`
	MailSender   string `mapstructure:"MAIL_SENDER"`

	MQHost     string `mapstructure:"RABBITMQ_HOST"`
	MQPort     string `mapstructure:"RABBITMQ_PORT"`
	MQUser     string `mapstructure:"RABBITMQ_USER"`
	MQPassword string `mapstructure:"RABBITMQ_PASSWORD"`

	JWTSecret     string `mapstructure:"JWT_SECRET"`
	CloudinaryURL string `mapstructure:"CLOUDINARY_URL"`

	LimiterEnabled bool    `mapstructure:"LIMITER_ENABLED"`
	LimiterRPS     float64 `mapstructure:"LIMITER_RPS"`
	LimiterBurst   int     `mapstructure:"LIMITER_BURST"`

	TLSCertFile string `mapstructure:"TLS_CERT_FILE"`
	TLSKeyFile  string `mapstructure:"TLS_KEY_FILE"`
}

var defaults = map[string]any{
	"PORT":              "4000",
	"ENVIRONMENT":       "development",
	"VERSION":           "1.0.0",
	"TRUSTED_ORIGINS":   "",
	"SITE_URL":          "http://localhost:3000",
	"POSTGRES_HOST":     "localhost",
	"POSTGRES_PORT":     "5432",
	"POSTGRES_USER":     "",
	"POSTGRES_PASSWORD": "",
	"POSTGRES_DB":       "writeflow",
	"MIGRATIONS_PATH":   "",
	"MAIL_HOST":         "localhost",
	"MAIL_PORT":         25,
	"MAIL_USER":         "",
	"MAIL_PASSWORD":     "",
	"MAIL_SENDER":       "WriteFlow <no-reply@writeflow.local>",
	"RABBITMQ_HOST":     "localhost",
	"RABBITMQ_PORT":     "5672",
	"RABBITMQ_USER":     "guest",
	"RABBITMQ_PASSWORD": "guest",
	"JWT_SECRET":        "",
	"CLOUDINARY_URL":    "",
	"LIMITER_ENABLED":   true,
	"LIMITER_RPS":       2,
	"LIMITER_BURST":     4,
	"TLS_CERT_FILE":     "",
	"TLS_KEY_FILE":      "",
}

// Load reads the .env file at path, if it exists, and overlays the process
// environment on top of it.
func Load(path string) (*Config, error) {
	v := viper.New()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.AutomaticEnv()

	if path != "" {
		_, err := os.Stat(path)
		switch {
		case err == nil:
			v.SetConfigFile(path)
			v.SetConfigType("env")
			if err := v.ReadInConfig(); err != nil {
				return nil, err
			}
		case !errors.Is(err, fs.ErrNotExist):
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET must be set")
	}

	return &cfg, nil
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + c.Port
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
