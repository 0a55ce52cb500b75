package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/creasty/defaults"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type GlobalConfig struct {
	Server     Server     `mapstructure:",squash"`
	Database   Database   `mapstructure:",squash"`
	Redis      Redis      `mapstructure:",squash"`
	SMTP       SMTP       `mapstructure:",squash"`
	Log        Log        `mapstructure:",squash"`
	Notify     Notify     `mapstructure:",squash"`
	Cron       Cron       `mapstructure:",squash"`
	University University `mapstructure:",squash"`
}

type Server struct {
	ListenPort     int    `mapstructure:"LISTEN_PORT" default:"8080"`
	AllowOrigins   string `mapstructure:"ALLOW_ORIGINS" default:"[\"http://localhost:5173\"]"`
	HMACSecret     string `mapstructure:"HMAC_SECRET"`
	CookieSameSite string `mapstructure:"COOKIE_SAMESITE" default:"Lax"`
	CookieSecure   bool   `mapstructure:"COOKIE_SECURE" default:"true"`
	PublicBaseURL  string `mapstructure:"PUBLIC_BASE_URL" default:"http://localhost:8080"`
	// DownloadLinkTTL bounds how long emailed document links stay valid
	DownloadLinkTTL time.Duration `mapstructure:"DOWNLOAD_LINK_TTL" default:"168h"`
}

type Database struct {
	Host            string        `mapstructure:"DB_HOST" default:"localhost"`
	Port            int           `mapstructure:"DB_PORT" default:"5432"`
	User            string        `mapstructure:"DB_USER" default:"postgres"`
	Password        string        `mapstructure:"DB_PASSWORD"`
	Name            string        `mapstructure:"DB_NAME" default:"sms"`
	SSLMode         string        `mapstructure:"DB_SSLMODE" default:"disable"`
	TimeZone        string        `mapstructure:"DB_TIMEZONE" default:"Asia/Colombo"`
	ConnTimeout     int           `mapstructure:"DB_CONN_TIMEOUT" default:"10"`
	Debug           bool          `mapstructure:"DB_DEBUG"`
	MaxOpenConns    int           `mapstructure:"DB_MAX_OPEN_CONNS" default:"25"`
	MaxIdleConns    int           `mapstructure:"DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `mapstructure:"DB_CONN_MAX_LIFETIME" default:"5m"`
	ConnMaxIdleTime time.Duration `mapstructure:"DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// DSN renders the libpq connection string
func (d Database) DSN() string {
	return fmt.Sprintf("host=%s connect_timeout=%d user=%s password=%s dbname=%s port=%d sslmode=%s TimeZone=%s",
		d.Host, d.ConnTimeout, d.User, d.Password, d.Name, d.Port, d.SSLMode, d.TimeZone)
}

type Redis struct {
	// An empty host disables the statistics cache
	Host     string        `mapstructure:"REDIS_HOST"`
	Port     int           `mapstructure:"REDIS_PORT" default:"6379"`
	Password string        `mapstructure:"REDIS_PASSWORD"`
	DB       int           `mapstructure:"REDIS_DB" default:"0"`
	StatsTTL time.Duration `mapstructure:"REDIS_STATS_TTL" default:"5m"`
}

func (r Redis) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

type SMTP struct {
	// An empty host logs outgoing mail instead of sending it
	Host string `mapstructure:"SMTP_HOST"`
	Port int    `mapstructure:"SMTP_PORT" default:"587"`
	User string `mapstructure:"SMTP_USER"`
	Pass string `mapstructure:"SMTP_PASS"`
	From string `mapstructure:"SMTP_FROM" default:"Student Service Division <no-reply@pdn.ac.lk>"`
}

type Log struct {
	Level      string `mapstructure:"LOG_LEVEL" default:"info"`
	File       string `mapstructure:"LOG_FILE"`
	MaxSizeMB  int    `mapstructure:"LOG_MAX_SIZE_MB" default:"50"`
	MaxBackups int    `mapstructure:"LOG_MAX_BACKUPS" default:"5"`
	MaxAgeDays int    `mapstructure:"LOG_MAX_AGE_DAYS" default:"30"`
}

type Notify struct {
	Workers   int `mapstructure:"NOTIFY_WORKERS" default:"4"`
	QueueSize int `mapstructure:"NOTIFY_QUEUE_SIZE" default:"256"`
}

type Cron struct {
	Enabled   bool   `mapstructure:"CRON_ENABLED" default:"true"`
	Lapse     string `mapstructure:"CRON_LAPSE" default:"0 2 1 * *"`
	Reminders string `mapstructure:"CRON_REMINDERS" default:"0 8 * * 1-5"`
}

type University struct {
	Name        string `mapstructure:"UNIVERSITY_NAME" default:"University of Peradeniya"`
	EmailDomain string `mapstructure:"UNIVERSITY_EMAIL_DOMAIN" default:"pdn.ac.lk"`
}

// Origins decodes ALLOW_ORIGINS, a JSON array of origins
func (s Server) Origins() ([]string, error) {
	var origins []string
	if err := json.Unmarshal([]byte(s.AllowOrigins), &origins); err != nil {
		return nil, fmt.Errorf("ALLOW_ORIGINS must be a JSON array: %w", err)
	}
	return origins, nil
}

var config = &GlobalConfig{}

func init() {
	if err := defaults.Set(config); err != nil {
		fmt.Printf("set default err: %+v", err)
		os.Exit(1)
	}
}

func Global() *GlobalConfig {
	return config
}

// Load reads .env when present, then overlays the process environment on
// top of the defaults.
func Load() (*GlobalConfig, error) {
	_ = godotenv.Load()

	v := viper.NewWithOptions(viper.ExperimentalBindStruct())
	v.AutomaticEnv()

	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate checks settings that have no usable default
func (c *GlobalConfig) Validate() error {
	if len(c.Server.HMACSecret) < 16 {
		return fmt.Errorf("HMAC_SECRET must be at least 16 characters")
	}
	if _, err := c.Server.Origins(); err != nil {
		return err
	}
	if c.Notify.Workers < 1 {
		return fmt.Errorf("NOTIFY_WORKERS must be positive")
	}
	return nil
}
