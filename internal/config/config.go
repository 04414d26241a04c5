package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const DefaultClinicAPIURL = "https://controledeclientes-production.up.railway.app"

type Config struct {
	Port         string
	CORSOrigin   []string
	CookieSecure bool

	ClinicAPIURL     string
	ClinicAPITimeout time.Duration // 0 = sem timeout

	SessionStore         string // memory | postgres | redis
	DatabaseURL          string
	RedisURL             string
	SessionTTL           time.Duration
	SessionSweepInterval time.Duration

	RegistrationCloseDelay time.Duration

	RabbitMQURL string
	MailHost    string
	MailPort    int
	MailUser    string
	MailPass    string
	MailFrom    string
	ServiceUser string
	ServicePass string
}

// Load lê o .env (se existir) e as variáveis de ambiente.
func Load() (*Config, error) {
	_ = godotenv.Load()

	apiTimeout, err := getDuration("CLINIC_API_TIMEOUT", "0s")
	if err != nil {
		return nil, err
	}
	ttl, err := getDuration("SESSION_TTL", "12h")
	if err != nil {
		return nil, err
	}
	sweep, err := getDuration("SESSION_SWEEP_INTERVAL", "1m")
	if err != nil {
		return nil, err
	}
	closeDelay, err := getDuration("REGISTRATION_CLOSE_DELAY", "1500ms")
	if err != nil {
		return nil, err
	}
	cookieSecure, err := strconv.ParseBool(getEnv("COOKIE_SECURE", "false"))
	if err != nil {
		return nil, fmt.Errorf("invalid COOKIE_SECURE: %w", err)
	}
	mailPort, err := strconv.Atoi(getEnv("MAIL_PORT", "587"))
	if err != nil {
		return nil, fmt.Errorf("invalid MAIL_PORT: %w", err)
	}

	cfg := &Config{
		Port:         getEnv("PORT", "8080"),
		CORSOrigin:   splitList(getEnv("CORS_ORIGINS", "http://localhost:5173")),
		CookieSecure: cookieSecure,

		ClinicAPIURL:     strings.TrimRight(getEnv("CLINIC_API_URL", DefaultClinicAPIURL), "/"),
		ClinicAPITimeout: apiTimeout,

		SessionStore:         strings.ToLower(getEnv("SESSION_STORE", "memory")),
		DatabaseURL:          os.Getenv("DATABASE_URL"),
		RedisURL:             getEnv("REDIS_URL", "redis://localhost:6379/0"),
		SessionTTL:           ttl,
		SessionSweepInterval: sweep,

		RegistrationCloseDelay: closeDelay,

		RabbitMQURL: os.Getenv("RABBITMQ_URL"),
		MailHost:    os.Getenv("MAIL_HOST"),
		MailPort:    mailPort,
		MailUser:    os.Getenv("MAIL_USER"),
		MailPass:    os.Getenv("MAIL_PASS"),
		MailFrom:    getEnv("MAIL_FROM", "nao-responda@clinica.local"),
		ServiceUser: os.Getenv("SERVICE_USER"),
		ServicePass: os.Getenv("SERVICE_PASS"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.SessionStore {
	case "memory", "redis":
	case "postgres":
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required when SESSION_STORE=postgres")
		}
	default:
		return fmt.Errorf("invalid SESSION_STORE %q (memory, postgres or redis)", c.SessionStore)
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive")
	}
	if c.SessionSweepInterval <= 0 {
		return fmt.Errorf("SESSION_SWEEP_INTERVAL must be positive")
	}
	return nil
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%s", c.Port)
}

// ReceiptDeliveryEnabled indica se o envio de recibo por e-mail (fila + SMTP) está configurado.
func (c *Config) ReceiptDeliveryEnabled() bool {
	return c.RabbitMQURL != ""
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(getEnv(key, def))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func splitList(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
