package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config aggregates runtime configuration used across the service.
type Config struct {
	App       AppConfig       `yaml:"app"`
	HTTP      HTTPConfig      `yaml:"http"`
	Auth      AuthConfig      `yaml:"auth"`
	Cache     CacheConfig     `yaml:"cache"`
	Postgres  PostgresConfig  `yaml:"postgres"`
	Mongo     MongoConfig     `yaml:"mongo"`
	Providers ProvidersConfig `yaml:"providers"`
	LLM       LLMConfig       `yaml:"llm"`
	Planner   PlannerConfig   `yaml:"planner"`
}

// AppConfig carries process wide settings.
type AppConfig struct {
	Environment string `yaml:"environment"`
}

// Development reports whether error details may be exposed to clients.
func (a AppConfig) Development() bool {
	return strings.EqualFold(strings.TrimSpace(a.Environment), "development")
}

// HTTPConfig controls server level behavior.
type HTTPConfig struct {
	Address      string          `yaml:"address"`
	ReadTimeout  time.Duration   `yaml:"readTimeout"`
	WriteTimeout time.Duration   `yaml:"writeTimeout"`
	RateLimit    RateLimitConfig `yaml:"rateLimit"`
	CORS         CORSConfig      `yaml:"cors"`
}

// RateLimitConfig drives the request limiting middleware.
type RateLimitConfig struct {
	Enabled           bool          `yaml:"enabled"`
	RequestsPerMinute int           `yaml:"requestsPerMinute"`
	Burst             int           `yaml:"burst"`
	IdleTTL           time.Duration `yaml:"idleTtl"`
}

// CORSConfig lists browser origins allowed to call the API.
type CORSConfig struct {
	AllowOrigins []string `yaml:"allowOrigins"`
}

// AuthConfig holds JWT signing settings.
type AuthConfig struct {
	Secret          string        `yaml:"secret"`
	TokenTTL        time.Duration `yaml:"tokenTtl"`
	RefreshTokenTTL time.Duration `yaml:"refreshTokenTtl"`
}

// CacheConfig controls the provider query cache.
type CacheConfig struct {
	TTL           time.Duration `yaml:"ttl"`
	WeatherTTL    time.Duration `yaml:"weatherTtl"`
	MaxSizeMB     int           `yaml:"maxSizeMb"`
	SweepInterval time.Duration `yaml:"sweepInterval"`
	Valkey        ValkeyConfig  `yaml:"valkey"`
}

// LongestTTL is the longest lifetime any cached entry is asked for. The
// in-process cache evicts everything older than this.
func (c CacheConfig) LongestTTL() time.Duration {
	return max(c.TTL, c.WeatherTTL)
}

// ValkeyConfig contains connection information for the shared cache.
type ValkeyConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

// PostgresConfig contains DSN and pooling settings for the user store.
type PostgresConfig struct {
	DSN      string `yaml:"dsn"`
	MaxConns int32  `yaml:"maxConns"`
	MinConns int32  `yaml:"minConns"`
}

// MongoConfig locates the saved itinerary collection.
type MongoConfig struct {
	URI        string `yaml:"uri"`
	Database   string `yaml:"database"`
	Collection string `yaml:"collection"`
}

// ProvidersConfig groups the external travel APIs.
type ProvidersConfig struct {
	Timeout   time.Duration   `yaml:"timeout"`
	Google    GoogleConfig    `yaml:"google"`
	Booking   BookingConfig   `yaml:"booking"`
	OpenMeteo OpenMeteoConfig `yaml:"openMeteo"`
	Breaker   BreakerConfig   `yaml:"breaker"`
}

// GoogleConfig covers Places, Geocoding, Distance Matrix and Directions.
type GoogleConfig struct {
	APIKey  string `yaml:"apiKey"`
	BaseURL string `yaml:"baseUrl"`
}

// BookingConfig targets the Booking.com RapidAPI listing.
type BookingConfig struct {
	APIKey  string `yaml:"apiKey"`
	Host    string `yaml:"host"`
	BaseURL string `yaml:"baseUrl"`
}

// OpenMeteoConfig needs no credentials.
type OpenMeteoConfig struct {
	BaseURL string `yaml:"baseUrl"`
}

// BreakerConfig tunes the circuit breaker placed in front of each provider.
type BreakerConfig struct {
	Enabled      bool          `yaml:"enabled"`
	FailureRatio float64       `yaml:"failureRatio"`
	MinRequests  uint32        `yaml:"minRequests"`
	OpenTimeout  time.Duration `yaml:"openTimeout"`
}

// LLMConfig contains ChatGPT/OpenAI settings.
type LLMConfig struct {
	APIKey      string  `yaml:"apiKey"`
	BaseURL     string  `yaml:"baseUrl"`
	Model       string  `yaml:"model"`
	Temperature float32 `yaml:"temperature"`
	Prompt      string  `yaml:"prompt"`
}

// PlannerConfig holds the knobs of the planning algorithms.
type PlannerConfig struct {
	RecommendationLimit int           `yaml:"recommendationLimit"`
	ClusterCount        int           `yaml:"clusterCount"`
	ClusterIterations   int           `yaml:"clusterIterations"`
	DayStart            string        `yaml:"dayStart"`
	TravelBuffer        time.Duration `yaml:"travelBuffer"`
	DefaultTravelMode   string        `yaml:"defaultTravelMode"`
	MaxDays             int           `yaml:"maxDays"`
	DefaultCurrency     string        `yaml:"defaultCurrency"`
}

// Load reads configuration from a YAML file and environment variables.
func Load() (*Config, error) {
	cfg := defaultConfig()

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := hydrateFromFile(cfg, path); err != nil {
			return nil, err
		}
	} else if _, err := os.Stat("configs/config.yaml"); err == nil {
		if err := hydrateFromFile(cfg, "configs/config.yaml"); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func hydrateFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("APP_ENV"); v != "" {
		cfg.App.Environment = v
	}
	if v := os.Getenv("HTTP_ADDRESS"); v != "" {
		cfg.HTTP.Address = v
	}
	if v := os.Getenv("PORT"); v != "" && os.Getenv("HTTP_ADDRESS") == "" {
		cfg.HTTP.Address = ":" + v
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_ENABLED"); v != "" {
		cfg.HTTP.RateLimit.Enabled = parseBool(v)
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_RPM"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.RequestsPerMinute = parsed
		}
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_BURST"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.Burst = parsed
		}
	}
	if v := os.Getenv("CORS_ALLOW_ORIGINS"); v != "" {
		cfg.HTTP.CORS.AllowOrigins = splitList(v)
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		cfg.Auth.Secret = v
	}
	if v := os.Getenv("JWT_TTL"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Auth.TokenTTL = parsed
		}
	}
	if v := os.Getenv("JWT_REFRESH_TTL"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Auth.RefreshTokenTTL = parsed
		}
	}
	if v := os.Getenv("CACHE_TTL"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Cache.TTL = parsed
		}
	}
	if v := os.Getenv("CACHE_WEATHER_TTL"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Cache.WeatherTTL = parsed
		}
	}
	if v := os.Getenv("VALKEY_ENABLED"); v != "" {
		cfg.Cache.Valkey.Enabled = parseBool(v)
	}
	if v := os.Getenv("VALKEY_ADDR"); v != "" {
		cfg.Cache.Valkey.Addr = v
	}
	if v := os.Getenv("POSTGRES_DSN"); v != "" {
		cfg.Postgres.DSN = v
	}
	if v := os.Getenv("POSTGRES_MAX_CONNS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Postgres.MaxConns = int32(parsed)
		}
	}
	if v := os.Getenv("POSTGRES_MIN_CONNS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Postgres.MinConns = int32(parsed)
		}
	}
	if v := os.Getenv("MONGO_URI"); v != "" {
		cfg.Mongo.URI = v
	}
	if v := os.Getenv("MONGO_DATABASE"); v != "" {
		cfg.Mongo.Database = v
	}
	if v := os.Getenv("GOOGLE_MAPS_API_KEY"); v != "" {
		cfg.Providers.Google.APIKey = v
	}
	if v := os.Getenv("RAPIDAPI_KEY"); v != "" {
		cfg.Providers.Booking.APIKey = v
	}
	if v := os.Getenv("RAPIDAPI_HOST"); v != "" {
		cfg.Providers.Booking.Host = v
	}
	if v := os.Getenv("PROVIDER_TIMEOUT"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Providers.Timeout = parsed
		}
	}
	if v := os.Getenv("PROVIDER_BREAKER_ENABLED"); v != "" {
		cfg.Providers.Breaker.Enabled = parseBool(v)
	}
	if v := os.Getenv("LLM_API_KEY"); v != "" {
		cfg.LLM.APIKey = v
	}
	if v := os.Getenv("LLM_BASE_URL"); v != "" {
		cfg.LLM.BaseURL = v
	}
	if v := os.Getenv("LLM_MODEL"); v != "" {
		cfg.LLM.Model = v
	}
	if v := os.Getenv("LLM_TEMPERATURE"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 32); err == nil {
			cfg.LLM.Temperature = float32(parsed)
		}
	}
	if v := os.Getenv("PLANNER_DAY_START"); v != "" {
		cfg.Planner.DayStart = v
	}
	if v := os.Getenv("PLANNER_TRAVEL_MODE"); v != "" {
		cfg.Planner.DefaultTravelMode = v
	}
	if v := os.Getenv("PLANNER_DEFAULT_CURRENCY"); v != "" {
		cfg.Planner.DefaultCurrency = v
	}
}

func parseBool(v string) bool {
	return v == "1" || strings.EqualFold(v, "true")
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func defaultConfig() *Config {
	return &Config{
		App: AppConfig{
			Environment: "production",
		},
		HTTP: HTTPConfig{
			Address:      ":8080",
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			RateLimit: RateLimitConfig{
				Enabled:           true,
				RequestsPerMinute: 100,
				Burst:             20,
				IdleTTL:           3 * time.Minute,
			},
			CORS: CORSConfig{
				AllowOrigins: []string{"http://localhost:3000", "http://localhost:5173"},
			},
		},
		Auth: AuthConfig{
			TokenTTL:        time.Hour,
			RefreshTokenTTL: 7 * 24 * time.Hour,
		},
		Cache: CacheConfig{
			TTL:           5 * time.Minute,
			WeatherTTL:    30 * time.Minute,
			MaxSizeMB:     64,
			SweepInterval: time.Minute,
		},
		Postgres: PostgresConfig{
			MaxConns: 4,
		},
		Mongo: MongoConfig{
			Database:   "trip_planner",
			Collection: "itineraries",
		},
		Providers: ProvidersConfig{
			Timeout: 15 * time.Second,
			Google: GoogleConfig{
				BaseURL: "https://maps.googleapis.com/maps/api",
			},
			Booking: BookingConfig{
				Host:    "booking-com.p.rapidapi.com",
				BaseURL: "https://booking-com.p.rapidapi.com",
			},
			OpenMeteo: OpenMeteoConfig{
				BaseURL: "https://api.open-meteo.com/v1/forecast",
			},
			Breaker: BreakerConfig{
				Enabled:      true,
				FailureRatio: 0.5,
				MinRequests:  5,
				OpenTimeout:  30 * time.Second,
			},
		},
		LLM: LLMConfig{
			Model:       "gpt-4o-mini",
			Temperature: 0.7,
			Prompt:      "You are a friendly travel planning assistant. Give concise, practical advice about destinations, itineraries, budgets, transport, food and accommodation. Keep answers under 200 words.",
		},
		Planner: PlannerConfig{
			RecommendationLimit: 10,
			ClusterCount:        3,
			ClusterIterations:   100,
			DayStart:            "09:00",
			TravelBuffer:        30 * time.Minute,
			DefaultTravelMode:   "driving",
			MaxDays:             30,
			DefaultCurrency:     "INR",
		},
	}
}

// Validate ensures the configuration is safe to use.
func (c *Config) Validate() error {
	if c.HTTP.Address == "" {
		return errors.New("http.address cannot be empty")
	}
	if c.HTTP.RateLimit.Enabled {
		if c.HTTP.RateLimit.RequestsPerMinute <= 0 {
			return errors.New("http.rateLimit.requestsPerMinute must be positive")
		}
		if c.HTTP.RateLimit.Burst <= 0 {
			return errors.New("http.rateLimit.burst must be positive")
		}
	}
	if strings.TrimSpace(c.Auth.Secret) == "" {
		return errors.New("auth.secret cannot be empty (set JWT_SECRET)")
	}
	if c.Auth.TokenTTL <= 0 || c.Auth.RefreshTokenTTL <= 0 {
		return errors.New("auth token ttls must be positive")
	}
	if c.Cache.TTL <= 0 || c.Cache.WeatherTTL <= 0 {
		return errors.New("cache.ttl and cache.weatherTtl must be positive")
	}
	if c.Cache.MaxSizeMB < 0 {
		return errors.New("cache.maxSizeMb cannot be negative")
	}
	if c.Cache.Valkey.Enabled && strings.TrimSpace(c.Cache.Valkey.Addr) == "" {
		return errors.New("cache.valkey.addr cannot be empty when valkey cache is enabled")
	}
	if strings.TrimSpace(c.Mongo.URI) != "" && (c.Mongo.Database == "" || c.Mongo.Collection == "") {
		return errors.New("mongo.database and mongo.collection are required when mongo.uri is set")
	}
	if c.Providers.Timeout <= 0 {
		return errors.New("providers.timeout must be positive")
	}
	if c.Providers.Breaker.Enabled && (c.Providers.Breaker.FailureRatio <= 0 || c.Providers.Breaker.FailureRatio > 1) {
		return errors.New("providers.breaker.failureRatio must be within (0, 1]")
	}
	if c.Planner.RecommendationLimit <= 0 {
		return errors.New("planner.recommendationLimit must be positive")
	}
	if c.Planner.ClusterCount <= 0 || c.Planner.ClusterIterations <= 0 {
		return errors.New("planner cluster settings must be positive")
	}
	if _, err := time.Parse("15:04", c.Planner.DayStart); err != nil {
		return fmt.Errorf("planner.dayStart must be HH:MM: %w", err)
	}
	if c.Planner.TravelBuffer < 0 {
		return errors.New("planner.travelBuffer cannot be negative")
	}
	if c.Planner.MaxDays <= 0 {
		return errors.New("planner.maxDays must be positive")
	}
	return nil
}
