package config

import (
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBindFlags(t *testing.T) {
	base := Server{
		Addr:           ":5001",
		AllowedOrigins: []string{"http://localhost:5173"},
		Log:            LogConfig{Level: "info", Format: "text"},
		Uploads:        UploadConfig{Dir: "./uploads", MaxBytes: DefaultMaxUploadBytes},
	}

	t.Run("unset flags keep loaded values", func(t *testing.T) {
		cfg := base
		fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
		BindFlags(fs, &cfg)
		require.NoError(t, fs.Parse(nil))
		assert.Equal(t, base, cfg)
	})

	t.Run("explicit flags override", func(t *testing.T) {
		cfg := base
		fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
		BindFlags(fs, &cfg)
		require.NoError(t, fs.Parse([]string{
			"--addr", ":8080",
			"--max-upload-bytes", "4096",
			"--cors-origin", "http://a.test",
			"--cors-origin", "http://b.test",
			"--log-format=json",
		}))
		assert.Equal(t, ":8080", cfg.Addr)
		assert.Equal(t, int64(4096), cfg.Uploads.MaxBytes)
		assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.AllowedOrigins)
		assert.Equal(t, "json", cfg.Log.Format)
		assert.Equal(t, "./uploads", cfg.Uploads.Dir)
	})

	t.Run("bad number is a parse error", func(t *testing.T) {
		cfg := base
		fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
		BindFlags(fs, &cfg)
		assert.Error(t, fs.Parse([]string{"--max-upload-bytes", "lots"}))
	})
}
