// README: Config loader with env defaults for HTTP, external services, and story providers.
package config

import (
	"os"
	"strconv"
)

type Config struct {
	HTTP struct {
		Addr string
	}
	DB struct {
		// DSN is optional; when empty the story archive is disabled.
		DSN string
	}
	Redis struct {
		// Addr is optional; when empty the lookup cache is disabled.
		Addr string
	}
	Log struct {
		Level  string
		Format string
	}
	Geocode struct {
		BaseURL        string
		UserAgent      string
		TimeoutSeconds int
	}
	POI struct {
		BaseURL        string
		RadiusMeters   int
		TimeoutSeconds int
	}
	Routing struct {
		BaseURL        string
		TimeoutSeconds int
	}
	Story struct {
		Provider       string
		GeminiKey      string
		GeminiModel    string
		AnthropicKey   string
		AnthropicModel string
		MaxWords       int
	}
	Session struct {
		TTLMinutes int
	}
}

func Load() (Config, error) {
	var cfg Config
	cfg.HTTP.Addr = envOrDefault("FABLE_HTTP_ADDR", ":8080")
	cfg.DB.DSN = envOrDefault("FABLE_DB_DSN", "")
	cfg.Redis.Addr = envOrDefault("FABLE_REDIS_ADDR", "")
	cfg.Log.Level = envOrDefault("FABLE_LOG_LEVEL", "info")
	cfg.Log.Format = envOrDefault("FABLE_LOG_FORMAT", "json")

	cfg.Geocode.BaseURL = envOrDefault("FABLE_GEOCODE_URL", "https://nominatim.openstreetmap.org")
	cfg.Geocode.UserAgent = envOrDefault("FABLE_GEOCODE_USER_AGENT", "fable/1.0")
	cfg.Geocode.TimeoutSeconds = envOrDefaultInt("FABLE_GEOCODE_TIMEOUT", 10)

	cfg.POI.BaseURL = envOrDefault("FABLE_POI_URL", "https://overpass-api.de/api/interpreter")
	cfg.POI.RadiusMeters = envOrDefaultInt("FABLE_POI_RADIUS_M", 2000)
	cfg.POI.TimeoutSeconds = envOrDefaultInt("FABLE_POI_TIMEOUT", 25)

	cfg.Routing.BaseURL = envOrDefault("FABLE_ROUTING_URL", "https://router.project-osrm.org")
	cfg.Routing.TimeoutSeconds = envOrDefaultInt("FABLE_ROUTING_TIMEOUT", 10)

	// Provider keys are read here but validated by the story client on first
	// use, so the rest of the planner works without generation credentials.
	cfg.Story.Provider = envOrDefault("FABLE_STORY_PROVIDER", "gemini")
	cfg.Story.GeminiKey = os.Getenv("GEMINI_API_KEY")
	cfg.Story.GeminiModel = envOrDefault("FABLE_GEMINI_MODEL", "gemini-2.0-flash")
	cfg.Story.AnthropicKey = os.Getenv("ANTHROPIC_API_KEY")
	cfg.Story.AnthropicModel = envOrDefault("FABLE_ANTHROPIC_MODEL", "claude-sonnet-4-20250514")
	cfg.Story.MaxWords = envOrDefaultInt("FABLE_STORY_MAX_WORDS", 200)

	cfg.Session.TTLMinutes = envOrDefaultInt("FABLE_SESSION_TTL_MIN", 60)
	return cfg, nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envOrDefaultInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
