package server

import (
	"testing"
	"time"
)

// clearSuiteEnv blanks every variable LoadConfig reads so values inherited
// from the host environment cannot leak into a test.
func clearSuiteEnv(t *testing.T) {
	t.Helper()
	keys := []string{
		"PORT",
		"JWT_SECRET_KEY", "SECRET_KEY",
		"JWT_ALGORITHM", "ALGORITHM",
		"ACCESS_TOKEN_EXPIRE_MINUTES",
		"REQUIRE_EMAIL_VERIFICATION",
		"FRONTEND_URL", "APP_URL", "API_BASE_URL", "CORS_ORIGINS",
		"GOOGLE_CLIENT_ID", "GOOGLE_CLIENT_SECRET",
		"GITHUB_CLIENT_ID", "GITHUB_CLIENT_SECRET",
		"MYSQL_HOST", "DB_HOST", "MYSQL_PORT", "DB_PORT",
		"MYSQL_USER", "DB_USER", "MYSQL_PASSWORD", "DB_PASSWORD",
		"MYSQL_DATABASE", "DB_NAME",
	}
	for _, key := range keys {
		t.Setenv(key, "")
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	clearSuiteEnv(t)

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	if cfg.Addr != ":8000" {
		t.Fatalf("expected addr :8000, got %q", cfg.Addr)
	}
	if cfg.Secret != "CHANGE_ME" {
		t.Fatalf("expected placeholder secret, got %q", cfg.Secret)
	}
	if cfg.Algorithm != "HS256" {
		t.Fatalf("expected HS256, got %q", cfg.Algorithm)
	}
	if cfg.AccessTokenTTL != 60*time.Minute {
		t.Fatalf("expected 60m token ttl, got %s", cfg.AccessTokenTTL)
	}
	if cfg.RequireEmailVerification {
		t.Fatal("verification should default to off")
	}
	if cfg.FrontendURL != "https://blankdigi.com/suite" {
		t.Fatalf("unexpected frontend url %q", cfg.FrontendURL)
	}
	if cfg.APIBaseURL != "https://blankdigi.com/suite/api" {
		t.Fatalf("unexpected api base url %q", cfg.APIBaseURL)
	}
	if len(cfg.CORSOrigins) != 1 || cfg.CORSOrigins[0] != cfg.FrontendURL {
		t.Fatalf("expected cors origins to default to the frontend url, got %v", cfg.CORSOrigins)
	}
	if cfg.DBHost != "127.0.0.1" || cfg.DBPort != 3306 || cfg.DBUser != "root" || cfg.DBName != "blankdigi" {
		t.Fatalf("unexpected database defaults: %s:%d %s/%s", cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBName)
	}
}

func TestLoadConfigNameFallbacks(t *testing.T) {
	t.Run("newer name wins", func(t *testing.T) {
		clearSuiteEnv(t)
		t.Setenv("JWT_SECRET_KEY", "newer")
		t.Setenv("SECRET_KEY", "older")
		t.Setenv("MYSQL_HOST", "db.internal")
		t.Setenv("DB_HOST", "legacy-db")

		cfg, err := LoadConfig()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.Secret != "newer" {
			t.Fatalf("expected JWT_SECRET_KEY to win, got %q", cfg.Secret)
		}
		if cfg.DBHost != "db.internal" {
			t.Fatalf("expected MYSQL_HOST to win, got %q", cfg.DBHost)
		}
	})

	t.Run("older name still works", func(t *testing.T) {
		clearSuiteEnv(t)
		t.Setenv("SECRET_KEY", "older")
		t.Setenv("ALGORITHM", "HS384")
		t.Setenv("DB_PORT", "3308")

		cfg, err := LoadConfig()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.Secret != "older" {
			t.Fatalf("expected SECRET_KEY fallback, got %q", cfg.Secret)
		}
		if cfg.Algorithm != "HS384" {
			t.Fatalf("expected ALGORITHM fallback, got %q", cfg.Algorithm)
		}
		if cfg.DBPort != 3308 {
			t.Fatalf("expected DB_PORT fallback, got %d", cfg.DBPort)
		}
	})
}

func TestLoadConfigURLDerivation(t *testing.T) {
	clearSuiteEnv(t)
	t.Setenv("APP_URL", "https://suite.example.com/")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.FrontendURL != "https://suite.example.com" {
		t.Fatalf("expected trailing slash to be trimmed, got %q", cfg.FrontendURL)
	}
	if cfg.APIBaseURL != "https://suite.example.com/api" {
		t.Fatalf("expected api base derived from frontend, got %q", cfg.APIBaseURL)
	}

	t.Setenv("FRONTEND_URL", "https://front.example.com")
	t.Setenv("API_BASE_URL", "https://api.example.com/v1/")

	cfg, err = LoadConfig()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.FrontendURL != "https://front.example.com" {
		t.Fatalf("expected FRONTEND_URL to beat APP_URL, got %q", cfg.FrontendURL)
	}
	if cfg.APIBaseURL != "https://api.example.com/v1" {
		t.Fatalf("expected explicit api base to win, got %q", cfg.APIBaseURL)
	}
}

func TestLoadConfigCORSOrigins(t *testing.T) {
	clearSuiteEnv(t)
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example ,,")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if len(cfg.CORSOrigins) != 2 {
		t.Fatalf("expected 2 origins, got %v", cfg.CORSOrigins)
	}
	if cfg.CORSOrigins[0] != "https://a.example" || cfg.CORSOrigins[1] != "https://b.example" {
		t.Fatalf("unexpected origins %v", cfg.CORSOrigins)
	}
}

func TestLoadConfigRequireVerification(t *testing.T) {
	cases := []struct {
		value string
		want  bool
	}{
		{"1", true},
		{"true", true},
		{"YES", true},
		{"on", true},
		{"0", false},
		{"no", false},
		{"", false},
	}
	for _, tc := range cases {
		t.Run("value "+tc.value, func(t *testing.T) {
			clearSuiteEnv(t)
			t.Setenv("REQUIRE_EMAIL_VERIFICATION", tc.value)

			cfg, err := LoadConfig()
			if err != nil {
				t.Fatalf("load config: %v", err)
			}
			if cfg.RequireEmailVerification != tc.want {
				t.Fatalf("value %q: expected %v", tc.value, tc.want)
			}
		})
	}
}

func TestLoadConfigRejectsBadDBPort(t *testing.T) {
	clearSuiteEnv(t)
	t.Setenv("MYSQL_PORT", "not-a-number")

	if _, err := LoadConfig(); err == nil {
		t.Fatal("expected an error for a non-numeric port")
	}
}

func TestConfigDSN(t *testing.T) {
	cfg := Config{
		DBHost:     "db.internal",
		DBPort:     3307,
		DBUser:     "suite",
		DBPassword: "pw",
		DBName:     "blankdigi",
	}
	want := "suite:pw@tcp(db.internal:3307)/blankdigi?charset=utf8mb4&parseTime=True&loc=UTC"
	if got := cfg.DSN(); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}
