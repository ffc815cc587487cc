package server

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

const (
	defaultFrontendURL = "https://blankdigi.com/suite"
	defaultSecret      = "CHANGE_ME"
	defaultAlgorithm   = "HS256"
)

// Config holds everything the API needs at runtime. Most settings accept two
// environment names because deployments predate the rename (JWT_SECRET_KEY vs
// SECRET_KEY, MYSQL_HOST vs DB_HOST); the first non-empty one wins.
type Config struct {
	Addr string

	Secret         string
	Algorithm      string
	AccessTokenTTL time.Duration

	RequireEmailVerification bool

	FrontendURL string
	APIBaseURL  string
	CORSOrigins []string

	GoogleClientID     string
	GoogleClientSecret string
	GithubClientID     string
	GithubClientSecret string

	DBHost     string
	DBPort     int
	DBUser     string
	DBPassword string
	DBName     string
}

type rawEnv struct {
	Port int `env:"PORT" envDefault:"8000"`

	JWTSecretKey string `env:"JWT_SECRET_KEY"`
	SecretKey    string `env:"SECRET_KEY"`
	JWTAlgorithm string `env:"JWT_ALGORITHM"`
	Algorithm    string `env:"ALGORITHM"`

	AccessTokenExpireMinutes int `env:"ACCESS_TOKEN_EXPIRE_MINUTES" envDefault:"60"`

	RequireEmailVerification string `env:"REQUIRE_EMAIL_VERIFICATION"`

	FrontendURL string `env:"FRONTEND_URL"`
	AppURL      string `env:"APP_URL"`
	APIBaseURL  string `env:"API_BASE_URL"`
	CORSOrigins string `env:"CORS_ORIGINS"`

	GoogleClientID     string `env:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `env:"GOOGLE_CLIENT_SECRET"`
	GithubClientID     string `env:"GITHUB_CLIENT_ID"`
	GithubClientSecret string `env:"GITHUB_CLIENT_SECRET"`

	MySQLHost     string `env:"MYSQL_HOST"`
	DBHost        string `env:"DB_HOST"`
	MySQLPort     string `env:"MYSQL_PORT"`
	DBPort        string `env:"DB_PORT"`
	MySQLUser     string `env:"MYSQL_USER"`
	DBUser        string `env:"DB_USER"`
	MySQLPassword string `env:"MYSQL_PASSWORD"`
	DBPassword    string `env:"DB_PASSWORD"`
	MySQLDatabase string `env:"MYSQL_DATABASE"`
	DBName        string `env:"DB_NAME"`
}

// LoadConfig reads the process environment into a Config.
func LoadConfig() (Config, error) {
	var raw rawEnv
	if err := env.Parse(&raw); err != nil {
		return Config{}, fmt.Errorf("failed to parse environment: %w", err)
	}

	frontendURL := strings.TrimRight(firstNonEmpty(raw.FrontendURL, raw.AppURL, defaultFrontendURL), "/")
	apiBaseURL := strings.TrimRight(firstNonEmpty(raw.APIBaseURL, frontendURL+"/api"), "/")

	dbPort := 3306
	if p := firstNonEmpty(raw.MySQLPort, raw.DBPort); p != "" {
		n, err := strconv.Atoi(p)
		if err != nil {
			return Config{}, fmt.Errorf("invalid database port %q: %w", p, err)
		}
		dbPort = n
	}

	cfg := Config{
		Addr:                     fmt.Sprintf(":%d", raw.Port),
		Secret:                   firstNonEmpty(raw.JWTSecretKey, raw.SecretKey, defaultSecret),
		Algorithm:                firstNonEmpty(raw.JWTAlgorithm, raw.Algorithm, defaultAlgorithm),
		AccessTokenTTL:           time.Duration(raw.AccessTokenExpireMinutes) * time.Minute,
		RequireEmailVerification: truthy(raw.RequireEmailVerification),
		FrontendURL:              frontendURL,
		APIBaseURL:               apiBaseURL,
		CORSOrigins:              splitOrigins(firstNonEmpty(raw.CORSOrigins, frontendURL)),
		GoogleClientID:           raw.GoogleClientID,
		GoogleClientSecret:       raw.GoogleClientSecret,
		GithubClientID:           raw.GithubClientID,
		GithubClientSecret:       raw.GithubClientSecret,
		DBHost:                   firstNonEmpty(raw.MySQLHost, raw.DBHost, "127.0.0.1"),
		DBPort:                   dbPort,
		DBUser:                   firstNonEmpty(raw.MySQLUser, raw.DBUser, "root"),
		DBPassword:               firstNonEmpty(raw.MySQLPassword, raw.DBPassword),
		DBName:                   firstNonEmpty(raw.MySQLDatabase, raw.DBName, "blankdigi"),
	}
	return cfg, nil
}

// DSN builds the MySQL connection string.
func (c Config) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func truthy(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "y", "on":
		return true
	}
	return false
}

func splitOrigins(value string) []string {
	var origins []string
	for _, origin := range strings.Split(value, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}
