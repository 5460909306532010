package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration
type Config struct {
	Env         string `envconfig:"APP_ENV" default:"development"`
	Port        int    `envconfig:"APP_PORT" default:"8080"`
	CompanyName string `envconfig:"COMPANY_NAME" required:"true"`
	Store       StoreConfig
	Redis       RedisConfig
	Zoom        ZoomConfig
	Mail        MailConfig
	Scoring     ScoringConfig
	Admin       AdminConfig
	Workflow    WorkflowConfig
	CORS        CORSConfig
}

// persistence configuration: "json" keeps flat documents under DataDir,
// "postgres" uses DatabaseURL
type StoreConfig struct {
	Driver      string `envconfig:"STORE_DRIVER" default:"json"`
	DataDir     string `envconfig:"DATA_DIR" default:"data"`
	DatabaseURL string `envconfig:"DATABASE_URL"`
	UploadsDir  string `envconfig:"UPLOADS_DIR" default:"uploads"`
}

// optional transition-event publishing
type RedisConfig struct {
	Enabled  bool   `envconfig:"REDIS_ENABLED" default:"false"`
	Addr     string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	Password string `envconfig:"REDIS_PASSWORD"`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

// Zoom server-to-server OAuth configuration
type ZoomConfig struct {
	AccountID       string        `envconfig:"ZOOM_ACCOUNT_ID" required:"true"`
	ClientID        string        `envconfig:"ZOOM_CLIENT_ID" required:"true"`
	ClientSecret    string        `envconfig:"ZOOM_CLIENT_SECRET" required:"true"`
	MeetingDuration time.Duration `envconfig:"ZOOM_MEETING_DURATION" default:"60m"`
}

// outbound mail submission configuration
type MailConfig struct {
	Host    string `envconfig:"SMTP_HOST" default:"smtp.gmail.com"`
	Port    int    `envconfig:"SMTP_PORT" default:"587"`
	Sender  string `envconfig:"EMAIL_SENDER" required:"true"`
	Passkey string `envconfig:"EMAIL_PASSKEY" required:"true"`
}

// resume scoring backend: "stub" is the deterministic reference scorer,
// "groq" uses a chat-completion model
type ScoringConfig struct {
	Provider  string `envconfig:"SCORING_PROVIDER" default:"stub"`
	GroqKey   string `envconfig:"GROQ_API_KEY"`
	GroqModel string `envconfig:"GROQ_MODEL" default:"meta-llama/llama-4-maverick-17b-128e-instruct"`
}

// recruiter authentication
type AdminConfig struct {
	PasswordHash string        `envconfig:"ADMIN_PASSWORD_HASH" required:"true"`
	JwtSecret    string        `envconfig:"JWT_SECRET" required:"true"`
	JwtTTL       time.Duration `envconfig:"JWT_TTL" default:"12h"`
}

// workflow tuning
type WorkflowConfig struct {
	PassThreshold  float64 `envconfig:"TEST_PASS_THRESHOLD" default:"70"`
	MaxReschedules int     `envconfig:"MAX_RESCHEDULES" default:"3"`
}

// CORS configuration
type CORSConfig struct {
	TrustedOrigins []string `envconfig:"CORS_TRUSTED_ORIGINS" default:"http://localhost:3000,http://localhost:5173"`
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// Validate rejects blank or out-of-range values. Blank credentials are a hard
// failure and are never substituted with embedded defaults.
func (c *Config) Validate() error {
	validEnvs := map[string]bool{
		"development": true,
		"staging":     true,
		"production":  true,
		"test":        true,
	}
	if !validEnvs[c.Env] {
		return fmt.Errorf("invalid environment: %s (must be one of: development, staging, production, test)", c.Env)
	}
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d (must be between 1 and 65535)", c.Port)
	}
	if strings.TrimSpace(c.CompanyName) == "" {
		return fmt.Errorf("COMPANY_NAME must not be blank")
	}

	switch c.Store.Driver {
	case "json":
		if strings.TrimSpace(c.Store.DataDir) == "" {
			return fmt.Errorf("DATA_DIR must not be blank when STORE_DRIVER=json")
		}
	case "postgres":
		if strings.TrimSpace(c.Store.DatabaseURL) == "" {
			return fmt.Errorf("DATABASE_URL is required when STORE_DRIVER=postgres")
		}
	default:
		return fmt.Errorf("invalid STORE_DRIVER: %s (must be json or postgres)", c.Store.Driver)
	}

	for name, v := range map[string]string{
		"ZOOM_ACCOUNT_ID":    c.Zoom.AccountID,
		"ZOOM_CLIENT_ID":     c.Zoom.ClientID,
		"ZOOM_CLIENT_SECRET": c.Zoom.ClientSecret,
		"EMAIL_SENDER":       c.Mail.Sender,
		"EMAIL_PASSKEY":      c.Mail.Passkey,
	} {
		if strings.TrimSpace(v) == "" {
			return fmt.Errorf("%s must not be blank", name)
		}
	}

	switch c.Scoring.Provider {
	case "stub":
	case "groq":
		if strings.TrimSpace(c.Scoring.GroqKey) == "" {
			return fmt.Errorf("GROQ_API_KEY is required when SCORING_PROVIDER=groq")
		}
	default:
		return fmt.Errorf("invalid SCORING_PROVIDER: %s (must be stub or groq)", c.Scoring.Provider)
	}

	if c.Mail.Port < 1 || c.Mail.Port > 65535 {
		return fmt.Errorf("invalid SMTP_PORT: %d", c.Mail.Port)
	}
	if c.Zoom.MeetingDuration < time.Minute {
		return fmt.Errorf("ZOOM_MEETING_DURATION must be at least 1m")
	}
	if len(c.Admin.JwtSecret) < 32 {
		return fmt.Errorf("JWT_SECRET must be at least 32 characters")
	}
	if strings.TrimSpace(c.Admin.PasswordHash) == "" {
		return fmt.Errorf("ADMIN_PASSWORD_HASH must not be blank")
	}
	if c.Workflow.PassThreshold < 0 || c.Workflow.PassThreshold > 100 {
		return fmt.Errorf("TEST_PASS_THRESHOLD must be between 0 and 100")
	}
	if c.Workflow.MaxReschedules < 0 {
		return fmt.Errorf("MAX_RESCHEDULES must be non-negative")
	}

	return nil
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func (c *Config) GetServerAddr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// GetCORSOrigins returns the list of trusted CORS origins
func (c *Config) GetCORSOrigins() []string {
	origins := make([]string, 0, len(c.CORS.TrustedOrigins))
	for _, origin := range c.CORS.TrustedOrigins {
		trimmed := strings.TrimSpace(origin)
		if trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}
