package config_test

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kardly-server/config"
)

func newViper(values map[string]any) *viper.Viper {
	v := viper.New()
	v.SetDefault("PORT", config.DefaultPort)
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("MAX_UPLOAD_BYTES", config.DefaultMaxUploadBytes)
	v.SetDefault("WORKFLOW_TIMEOUT", config.DefaultWorkflowTimeout)
	v.SetDefault("COMPENSATION_TIMEOUT", config.DefaultCompensationTimeout)
	for k, val := range values {
		v.Set(k, val)
	}
	return v
}

func TestFromViperDatabaseURL(t *testing.T) {
	cfg, err := config.FromViper(newViper(map[string]any{
		"DATABASE_URL": "postgres://kardly@db/kardly",
		"DB_HOST":      "ignored",
	}))
	require.NoError(t, err)
	assert.Equal(t, "postgres://kardly@db/kardly", cfg.DatabaseURL)
}

func TestFromViperDatabaseParts(t *testing.T) {
	cfg, err := config.FromViper(newViper(map[string]any{
		"DB_HOST":     "localhost",
		"DB_USER":     "kardly",
		"DB_PASSWORD": "secret",
		"DB_NAME":     "cards",
	}))
	require.NoError(t, err)
	assert.Equal(t, "host=localhost port=5432 user=kardly password=secret dbname=cards sslmode=disable", cfg.DatabaseURL)
}

func TestFromViperMissingDatabase(t *testing.T) {
	_, err := config.FromViper(newViper(map[string]any{"DB_HOST": "localhost"}))
	require.Error(t, err)
	assert.True(t, config.Error.Has(err))
}

func TestFromViperDurations(t *testing.T) {
	cfg, err := config.FromViper(newViper(map[string]any{
		"DATABASE_URL":     "postgres://db",
		"WORKFLOW_TIMEOUT": "90s",
		"RECONCILE_GRACE":  "2h",
	}))
	require.NoError(t, err)
	assert.Equal(t, 90*time.Second, cfg.WorkflowTimeout)
	assert.Equal(t, config.DefaultCompensationTimeout, cfg.CompensationTimeout)
	assert.Equal(t, 2*time.Hour, cfg.ReconcileGrace)
	assert.Equal(t, int64(config.DefaultMaxUploadBytes), cfg.MaxUploadBytes)
}

func TestAddr(t *testing.T) {
	assert.Equal(t, "0.0.0.0:8080", (&config.Config{Port: "8080"}).Addr())
	assert.Equal(t, "0.0.0.0:3000", (&config.Config{Port: ":3000"}).Addr())
}

func TestIsProduction(t *testing.T) {
	assert.True(t, (&config.Config{Env: "Production"}).IsProduction())
	assert.False(t, (&config.Config{Env: "development"}).IsProduction())
}

func TestValidateServe(t *testing.T) {
	valid := config.Config{
		DriveFolderID:       "folder",
		CredentialsJSON:     `{"type":"service_account"}`,
		MaxUploadBytes:      config.DefaultMaxUploadBytes,
		WorkflowTimeout:     time.Minute,
		CompensationTimeout: time.Second,
	}
	require.NoError(t, valid.ValidateServe())

	broken := valid
	broken.DriveFolderID = ""
	broken.CredentialsJSON = ""
	broken.RequireAuth = true
	err := broken.ValidateServe()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DRIVE_FOLDER_ID")
	assert.Contains(t, err.Error(), "GOOGLE_APPLICATION_CREDENTIALS")
	assert.Contains(t, err.Error(), "JWT_SECRET")
}
