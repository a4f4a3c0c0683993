package config

import (
	"github.com/spf13/pflag"
)

// BindFlags registers command-line overrides for the most commonly changed
// settings. Defaults are the values already loaded into cfg, so a flag only
// wins when it is passed explicitly.
func BindFlags(fs *pflag.FlagSet, cfg *Server) {
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "listen address")
	fs.StringVar(&cfg.Uploads.Dir, "upload-dir", cfg.Uploads.Dir, "directory for uploaded documents")
	fs.Int64Var(&cfg.Uploads.MaxBytes, "max-upload-bytes", cfg.Uploads.MaxBytes, "largest accepted upload in bytes")
	fs.StringVar(&cfg.Log.Level, "log-level", cfg.Log.Level, "debug, info, warn or error")
	fs.StringVar(&cfg.Log.Format, "log-format", cfg.Log.Format, "text or json")
	fs.StringSliceVar(&cfg.AllowedOrigins, "cors-origin", cfg.AllowedOrigins, "allowed CORS origin (repeatable)")
	fs.StringVar(&cfg.Redis.URL, "redis-url", cfg.Redis.URL, "redis URL for the annotation cache")
}
