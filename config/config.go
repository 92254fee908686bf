package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Resources file names, relative to the data directory or the remote base URL
const STATEWIDE_RESOURCE = "georgia.csv"
const COUNTIES_RESOURCE = "counties.csv"
const TABLES_PREFIX = "tables"

// Defaults
const DEFAULT_HTTP_ADDR = ":8080"
const DEFAULT_REDIS_ADDR = "redis:6379"
const DEFAULT_DATA_DIR = "resources"
const DEFAULT_DATA_REMOTE_BASE_URL = "https://raw.githubusercontent.com/briannaleilani/georgia_covid_cases/master/ga_data/output"

// 60*6: the state report is published twice a day
const DEFAULT_DATA_REFRESH_MINUTES = 360

var DEFAULT_FAMILY_COUNTIES = []string{"Fulton", "Cobb", "Fannin", "Walton", "Rockdale", "Gwinnett"}

// Config holds all server settings, read from a .env file and the environment.
type Config struct {
	Env             string        `validate:"oneof=dev prod test"`
	HTTPAddr        string        `validate:"required"`
	ShutdownTimeout time.Duration `validate:"gt=0"`

	RedisAddr     string
	RedisPassword string
	RedisDB       int           `validate:"gte=0"`
	CacheEnabled  bool
	CacheTTL      time.Duration `validate:"gt=0"`

	DataSource          string        `validate:"oneof=local remote"`
	DataDir             string        `validate:"required_if=DataSource local"`
	DataRemoteBaseURL   string        `validate:"required_if=DataSource remote"`
	DataRefreshInterval time.Duration `validate:"gte=0"`
	TrimToYesterday     bool

	FamilyCounties []string `validate:"dive,required"`
}

// envFiles are tried in order; the first readable one wins.
var envFiles = []string{".env", "../.env", "../../.env"}

// Load reads configuration from the first .env file found, falling back to the OS
// environment and then to defaults. A missing .env file is not an error.
func Load() (*Config, error) {
	env := map[string]string{}
	for _, f := range envFiles {
		if values, err := godotenv.Read(f); err == nil {
			env = values
			break
		}
	}
	get := func(key, def string) string {
		if v, ok := env[key]; ok && v != "" {
			return v
		}
		if v := os.Getenv(key); v != "" {
			return v
		}
		return def
	}

	shutdownTimeout, err := time.ParseDuration(get("SHUTDOWN_TIMEOUT", "5s"))
	if err != nil {
		return nil, fmt.Errorf("invalid SHUTDOWN_TIMEOUT: %w", err)
	}
	cacheTTL, err := time.ParseDuration(get("CACHE_TTL", "30m"))
	if err != nil {
		return nil, fmt.Errorf("invalid CACHE_TTL: %w", err)
	}
	refresh, err := time.ParseDuration(get("DATA_REFRESH_INTERVAL", strconv.Itoa(DEFAULT_DATA_REFRESH_MINUTES)+"m"))
	if err != nil {
		return nil, fmt.Errorf("invalid DATA_REFRESH_INTERVAL: %w", err)
	}
	redisDB, err := strconv.Atoi(get("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}
	cacheEnabled, err := strconv.ParseBool(get("CACHE_ENABLED", "true"))
	if err != nil {
		return nil, fmt.Errorf("invalid CACHE_ENABLED: %w", err)
	}
	trim, err := strconv.ParseBool(get("TRIM_TO_YESTERDAY", "true"))
	if err != nil {
		return nil, fmt.Errorf("invalid TRIM_TO_YESTERDAY: %w", err)
	}

	family := DEFAULT_FAMILY_COUNTIES
	if v := get("FAMILY_COUNTIES", ""); v != "" {
		family = splitList(v)
	}

	cfg := &Config{
		Env:                 get("APP_ENV", "prod"),
		HTTPAddr:            get("HTTP_ADDR", DEFAULT_HTTP_ADDR),
		ShutdownTimeout:     shutdownTimeout,
		RedisAddr:           get("REDIS_ADDR", DEFAULT_REDIS_ADDR),
		RedisPassword:       get("REDIS_PASSWORD", ""),
		RedisDB:             redisDB,
		CacheEnabled:        cacheEnabled,
		CacheTTL:            cacheTTL,
		DataSource:          get("DATA_SOURCE", "local"),
		DataDir:             get("DATA_DIR", filepath.Join(BaseDir(), DEFAULT_DATA_DIR)),
		DataRemoteBaseURL:   get("DATA_REMOTE_BASE_URL", DEFAULT_DATA_REMOTE_BASE_URL),
		DataRefreshInterval: refresh,
		TrimToYesterday:     trim,
		FamilyCounties:      family,
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the struct tags of cfg.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// BaseDir returns the absolute path of the project root directory
func BaseDir() string {
	// Check if PROJECT_ROOT is set
	if root := os.Getenv("PROJECT_ROOT"); root != "" {
		return root
	}

	// Default to the current working directory
	wd, err := os.Getwd()
	if err != nil {
		panic("Unable to determine working directory: " + err.Error())
	}

	return wd
}

// TableResource is the file name of a demographic table, e.g. "tables/age.csv".
func TableResource(name string) string {
	return TABLES_PREFIX + "/" + name + ".csv"
}
