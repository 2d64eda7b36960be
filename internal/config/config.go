package config

import (
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port           string
	DBDSN          string
	MockServiceURL string
	MockAPIKey     string
	Env            string
	LogFile        string
}

// Required in production; in development we warn and fall back to defaults
// so a fresh checkout still starts.
var required = []string{"MOCK_SERVICE_URL"}

func Load() Config {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := Config{
		Port:           getenv("PORT", "3000"),
		DBDSN:          getenv("DB_DSN", "bharatmandi.db"),
		MockServiceURL: normalizeURL(getenv("MOCK_SERVICE_URL", "https://ondc-private-mock-server-production.up.railway.app")),
		MockAPIKey:     os.Getenv("MOCK_API_KEY"),
		Env:            getenv("APP_ENV", "development"),
		LogFile:        os.Getenv("LOG_FILE"),
	}

	var missing []string
	for _, k := range required {
		if os.Getenv(k) == "" {
			missing = append(missing, k)
		}
	}
	if len(missing) > 0 {
		log.Printf("[config] missing environment variables: %s", strings.Join(missing, ", "))
		if cfg.Env == "production" {
			log.Fatalf("[config] refusing to start in production without: %s", strings.Join(missing, ", "))
		}
	}

	log.Printf("[config] PORT=%s DB_DSN=%s MOCK_SERVICE_URL=%s APP_ENV=%s", cfg.Port, cfg.DBDSN, cfg.MockServiceURL, cfg.Env)
	return cfg
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

// normalizeURL prepends https:// when the env var was set to a bare host.
func normalizeURL(u string) string {
	if strings.HasPrefix(u, "http://") || strings.HasPrefix(u, "https://") {
		return u
	}
	return "https://" + u
}
