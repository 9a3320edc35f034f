package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"staybook/internal/models"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	App          AppConfig          `yaml:"app"`
	Database     DatabaseConfig     `yaml:"database"`
	Redis        RedisConfig        `yaml:"redis"`
	Mailer       MailerConfig       `yaml:"mailer"`
	Telegram     TelegramConfig     `yaml:"telegram"`
	Backup       BackupConfig       `yaml:"backup"`
	Monitoring   MonitoringConfig   `yaml:"monitoring"`
	Logging      LoggingConfig      `yaml:"logging"`
	API          APIConfig          `yaml:"api"`
	Verification VerificationConfig `yaml:"verification"`
	Exports      ExportConfig       `yaml:"exports"`
	Google       GoogleConfig       `yaml:"google"`
	Hotels       []models.Hotel     `yaml:"hotels"`
}

type AppConfig struct {
	Name        string `yaml:"name"`
	Environment string `yaml:"environment"`
	Version     string `yaml:"version"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"`
}

type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	PoolSize int    `yaml:"pool_size"`
}

type MailerConfig struct {
	// Provider selects the gateway: smtp, mailersend or dev.
	Provider       string           `yaml:"provider"`
	From           string           `yaml:"from"`
	FromName       string           `yaml:"from_name"`
	SMTP           SMTPConfig       `yaml:"smtp"`
	Send           MailerSendConfig `yaml:"mailersend"`
	TimeoutSeconds int              `yaml:"timeout_seconds"`
}

// Timeout bounds a single send call.
func (m MailerConfig) Timeout() time.Duration {
	return time.Duration(m.TimeoutSeconds) * time.Second
}

type SMTPConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	UseTLS   bool   `yaml:"use_tls"`
}

type MailerSendConfig struct {
	APIKey string `yaml:"api_key"`
}

type TelegramConfig struct {
	Enabled  bool    `yaml:"enabled"`
	BotToken string  `yaml:"bot_token"`
	Managers []int64 `yaml:"managers"`
}

type BackupConfig struct {
	Enabled       bool   `yaml:"enabled"`
	Schedule      string `yaml:"schedule"`
	RetentionDays int    `yaml:"retention_days"`
	StoragePath   string `yaml:"storage_path"`
}

type MonitoringConfig struct {
	PrometheusEnabled bool `yaml:"prometheus_enabled"`
	PrometheusPort    int  `yaml:"prometheus_port"`
}

type LoggingConfig struct {
	Level    string `yaml:"level"`
	Format   string `yaml:"format"`
	Output   string `yaml:"output"`
	FilePath string `yaml:"file_path"`
}

type APIConfig struct {
	Enabled   bool               `yaml:"enabled"`
	HTTP      APIHTTPConfig      `yaml:"http"`
	Auth      APIAuthConfig      `yaml:"auth"`
	RateLimit APIRateLimitConfig `yaml:"rate_limit"`
}

type APIHTTPConfig struct {
	Port int `yaml:"port"`
}

type APIAuthConfig struct {
	Enabled      bool           `yaml:"enabled"`
	HeaderAPIKey string         `yaml:"header_api_key"`
	HeaderExtra  string         `yaml:"header_extra"`
	APIKeys      []APIClientKey `yaml:"api_keys"`
}

type APIClientKey struct {
	Key         string   `yaml:"key"`
	Extra       string   `yaml:"extra"`
	Name        string   `yaml:"name"`
	Permissions []string `yaml:"permissions"`
}

type APIRateLimitConfig struct {
	RPS   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`
}

type VerificationConfig struct {
	CodeTTLMinutes int `yaml:"code_ttl_minutes"`
}

// CodeTTL is the validity window of an issued verification code.
func (v VerificationConfig) CodeTTL() time.Duration {
	return time.Duration(v.CodeTTLMinutes) * time.Minute
}

type ExportConfig struct {
	Path string `yaml:"path"`
}

type GoogleConfig struct {
	CredentialsFile      string `yaml:"credentials_file"`
	BookingSpreadSheetID string `yaml:"bookings_spreadsheet_id"`
}

func Load(configPath string) (*Config, error) {
	// .env подхватывается, если лежит рядом; его отсутствие не ошибка
	_ = godotenv.Load(".env")

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	// Предварительная замена переменных окружения в YAML
	expandedData := []byte(os.ExpandEnv(string(data)))

	var config Config
	if err := yaml.Unmarshal(expandedData, &config); err != nil {
		return nil, err
	}

	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

func (c *Config) Validate() error {
	if c.Database.Path == "" {
		return errors.New("database path is required")
	}

	if c.Telegram.Enabled && (c.Telegram.BotToken == "" || c.Telegram.BotToken == "YOUR_BOT_TOKEN_HERE") {
		return errors.New("telegram bot token is required when telegram is enabled")
	}

	switch c.Mailer.Provider {
	case "smtp":
		if c.Mailer.SMTP.Host == "" {
			return errors.New("mailer.smtp.host is required for smtp provider")
		}
	case "mailersend":
		if c.Mailer.Send.APIKey == "" {
			return errors.New("mailer.mailersend.api_key is required for mailersend provider")
		}
	case "dev", "":
	default:
		return fmt.Errorf("unknown mailer provider: %s", c.Mailer.Provider)
	}

	return ValidateHotels(c.Hotels)
}

func ValidateHotels(hotels []models.Hotel) error {
	names := make(map[string]bool)
	for _, h := range hotels {
		if h.Name == "" {
			return errors.New("hotel with empty name in catalog")
		}
		if names[h.Name] {
			return fmt.Errorf("duplicate hotel name found: %s", h.Name)
		}
		if h.Price < 0 {
			return fmt.Errorf("hotel '%s' has negative price", h.Name)
		}
		names[h.Name] = true
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.API.HTTP.Port == 0 {
		c.API.HTTP.Port = 8080
	}
	if c.Monitoring.PrometheusEnabled && c.Monitoring.PrometheusPort == 0 {
		c.Monitoring.PrometheusPort = 9090
	}
	if c.API.Auth.HeaderAPIKey == "" {
		c.API.Auth.HeaderAPIKey = "x-api-key"
	}
	if c.API.Auth.HeaderExtra == "" {
		c.API.Auth.HeaderExtra = "x-api-extra"
	}
	if c.Mailer.Provider == "" {
		c.Mailer.Provider = "dev"
	}
	if c.Mailer.TimeoutSeconds == 0 {
		c.Mailer.TimeoutSeconds = 10
	}
	if c.Verification.CodeTTLMinutes == 0 {
		c.Verification.CodeTTLMinutes = models.DefaultCodeTTLMinutes
	}
	if c.Exports.Path == "" {
		c.Exports.Path = "exports"
	}
}
