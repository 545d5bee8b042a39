package config_test

import (
	"testing"
	"time"

	"foodgram/internal/config"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViper_Defaults(t *testing.T) {
	v := viper.New()
	config.SetDefaults(v)
	v.Set("JWT_SECRET", "secret")

	cfg, err := config.FromViper(v)
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.AppPort)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
	assert.Equal(t, "local", cfg.MediaBackend)
	assert.Equal(t, "/media", cfg.MediaURL)
}

func TestFromViper_Validation(t *testing.T) {
	v := viper.New()
	config.SetDefaults(v)

	_, err := config.FromViper(v)
	assert.ErrorContains(t, err, "JWT_SECRET")

	v.Set("JWT_SECRET", "secret")
	v.Set("DB_DRIVER", "mysql")
	_, err = config.FromViper(v)
	assert.ErrorContains(t, err, "DB_DRIVER")

	v.Set("DB_DRIVER", "postgres")
	v.Set("MEDIA_BACKEND", "s3")
	_, err = config.FromViper(v)
	assert.ErrorContains(t, err, "S3_BUCKET")

	v.Set("S3_BUCKET", "recipes")
	cfg, err := config.FromViper(v)
	require.NoError(t, err)
	assert.Equal(t, "recipes", cfg.S3Bucket)
}
