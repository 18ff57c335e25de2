// Package config loads process configuration from the environment and an optional .env file.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"github.com/zeebo/errs"
)

// Error is the error class for configuration problems.
var Error = errs.Class("config")

const (
	DefaultPort                = "8080"
	DefaultMaxUploadBytes      = 5 * 1024 * 1024
	DefaultWorkflowTimeout     = 60 * time.Second
	DefaultCompensationTimeout = 15 * time.Second
	DefaultReconcileGrace      = 24 * time.Hour
)

// Config holds every setting the server and the CLI commands need.
type Config struct {
	Env  string
	Port string

	DatabaseURL string

	CredentialsPath string
	CredentialsJSON string
	DriveFolderID   string
	DrivePublicRead bool

	JWTSecret   string
	RequireAuth bool

	MaxUploadBytes      int64
	StagingDir          string
	WorkflowTimeout     time.Duration
	CompensationTimeout time.Duration
	ReconcileGrace      time.Duration
}

// IsProduction reports whether ENV=production.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

// Addr returns the listen address. A leading colon in PORT (as some hosts set it) is tolerated.
func (c *Config) Addr() string {
	return "0.0.0.0:" + strings.TrimPrefix(c.Port, ":")
}

// Load reads .env (outside production) and then the process environment.
func Load() (*Config, error) {
	// .env values override the system environment, same as godotenv.Overload
	if !strings.EqualFold(os.Getenv("ENV"), "production") {
		_ = godotenv.Overload(".env")
	}
	return FromViper(newViper())
}

func newViper() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("PORT", DefaultPort)
	v.SetDefault("ENV", "development")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DRIVE_PUBLIC_READ", true)
	v.SetDefault("REQUIRE_AUTH", false)
	v.SetDefault("MAX_UPLOAD_BYTES", DefaultMaxUploadBytes)
	v.SetDefault("STAGING_DIR", os.TempDir())
	v.SetDefault("WORKFLOW_TIMEOUT", DefaultWorkflowTimeout)
	v.SetDefault("COMPENSATION_TIMEOUT", DefaultCompensationTimeout)
	v.SetDefault("RECONCILE_GRACE", DefaultReconcileGrace)
	return v
}

// FromViper builds a Config from an already populated viper instance.
func FromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Env:                 v.GetString("ENV"),
		Port:                v.GetString("PORT"),
		CredentialsPath:     v.GetString("GOOGLE_APPLICATION_CREDENTIALS"),
		CredentialsJSON:     v.GetString("GOOGLE_APPLICATION_CREDENTIALS_JSON"),
		DriveFolderID:       v.GetString("DRIVE_FOLDER_ID"),
		DrivePublicRead:     v.GetBool("DRIVE_PUBLIC_READ"),
		JWTSecret:           v.GetString("JWT_SECRET"),
		RequireAuth:         v.GetBool("REQUIRE_AUTH"),
		MaxUploadBytes:      v.GetInt64("MAX_UPLOAD_BYTES"),
		StagingDir:          v.GetString("STAGING_DIR"),
		WorkflowTimeout:     v.GetDuration("WORKFLOW_TIMEOUT"),
		CompensationTimeout: v.GetDuration("COMPENSATION_TIMEOUT"),
		ReconcileGrace:      v.GetDuration("RECONCILE_GRACE"),
	}

	dsn, err := databaseURL(v)
	if err != nil {
		return nil, err
	}
	cfg.DatabaseURL = dsn

	return cfg, nil
}

// databaseURL prefers DATABASE_URL and falls back to the individual DB_* variables.
func databaseURL(v *viper.Viper) (string, error) {
	if connStr := v.GetString("DATABASE_URL"); connStr != "" {
		return connStr, nil
	}

	host := v.GetString("DB_HOST")
	user := v.GetString("DB_USER")
	dbname := v.GetString("DB_NAME")
	if host == "" || user == "" || dbname == "" {
		return "", Error.New("database connection variables not set. Set DATABASE_URL or DB_HOST, DB_USER, DB_NAME")
	}

	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		host, v.GetString("DB_PORT"), user, v.GetString("DB_PASSWORD"), dbname, v.GetString("DB_SSLMODE")), nil
}

// ValidateServe checks the settings required by the HTTP server.
func (c *Config) ValidateServe() error {
	var group errs.Group
	if c.DriveFolderID == "" {
		group.Add(Error.New("DRIVE_FOLDER_ID is not set"))
	}
	if c.CredentialsPath == "" && c.CredentialsJSON == "" {
		group.Add(Error.New("GOOGLE_APPLICATION_CREDENTIALS or GOOGLE_APPLICATION_CREDENTIALS_JSON must be set"))
	}
	if c.RequireAuth && c.JWTSecret == "" {
		group.Add(Error.New("JWT_SECRET is required when REQUIRE_AUTH is enabled"))
	}
	if c.MaxUploadBytes <= 0 {
		group.Add(Error.New("MAX_UPLOAD_BYTES must be positive"))
	}
	if c.WorkflowTimeout <= 0 || c.CompensationTimeout <= 0 {
		group.Add(Error.New("WORKFLOW_TIMEOUT and COMPENSATION_TIMEOUT must be positive"))
	}
	return group.Err()
}
