package server

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"go-stamppdf/internal/handlers"
	"go-stamppdf/internal/store"

	_ "github.com/joho/godotenv/autoload"
)

// Config is read from the environment; a .env file in the working directory
// is loaded first.
type Config struct {
	Port           int
	UploadDir      string
	MaxStoredFiles int
	PruneInterval  time.Duration
	MaxUploadSize  int64
	AllowedOrigins []string
}

func DefaultConfig() Config {
	return Config{
		Port:           8000,
		UploadDir:      "uploads",
		MaxStoredFiles: store.DefaultKeep,
		PruneInterval:  time.Minute,
		MaxUploadSize:  handlers.DefaultMaxUploadSize,
		AllowedOrigins: []string{"https://*", "http://*"},
	}
}

// LoadConfig reads PORT, UPLOAD_DIR, MAX_STORED_FILES, PRUNE_INTERVAL,
// MAX_UPLOAD_MB and ALLOWED_ORIGINS. Invalid values keep their default.
func LoadConfig() Config {
	cfg := DefaultConfig()

	if v, ok := positiveInt("PORT"); ok {
		cfg.Port = v
	}
	if v := strings.TrimSpace(os.Getenv("UPLOAD_DIR")); v != "" {
		cfg.UploadDir = v
	}
	if v, ok := positiveInt("MAX_STORED_FILES"); ok {
		cfg.MaxStoredFiles = v
	}
	if v, ok := positiveInt("MAX_UPLOAD_MB"); ok {
		cfg.MaxUploadSize = int64(v) * 1024 * 1024
	}
	if raw := os.Getenv("PRUNE_INTERVAL"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil || d <= 0 {
			log.Printf("[ERROR] invalid PRUNE_INTERVAL %q, using %s", raw, cfg.PruneInterval)
		} else {
			cfg.PruneInterval = d
		}
	}
	if raw := os.Getenv("ALLOWED_ORIGINS"); raw != "" {
		var origins []string
		for _, o := range strings.Split(raw, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		if len(origins) > 0 {
			cfg.AllowedOrigins = origins
		}
	}
	return cfg
}

func positiveInt(key string) (int, bool) {
	raw := os.Getenv(key)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || v <= 0 {
		log.Printf("[ERROR] invalid %s %q, using default", key, raw)
		return 0, false
	}
	return v, true
}
