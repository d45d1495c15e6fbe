package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/apex/log"
	"github.com/joho/godotenv"

	"SnapSolve-App/internal/domain/model"
)

// Config はSnapSolveバックエンドの設定
type Config struct {
	// Server
	Port         string
	MaxBodyBytes int64

	// Gemini
	GeminiAPIKey  string
	GeminiModel   string
	GeminiTimeout time.Duration

	// Google Maps
	GoogleMapsAPIKey string
	GeocodeTimeout   time.Duration

	// Ticket store
	TicketStore         string
	FirestoreProjectID  string
	FirestoreCollection string
	DatabaseURL         string
	SupabaseURL         string
	SupabaseDBPassword  string
	StoreTimeout        time.Duration

	// Identity
	AuthProvider      string
	FirebaseProjectID string
	SupabaseAnonKey   string

	// Mail
	SendGridAPIKey string
	MailFromEmail  string
	MailFromName   string
	NotifyTimeout  time.Duration

	// Logging
	LogLevel  string
	LogFormat string
}

// Load は .env（あれば）と環境変数から設定を読み込む
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Warn("⚠️ .env file not found, using system environment variables")
	}
	return FromEnv()
}

// FromEnv は環境変数だけから設定を組み立てる
func FromEnv() *Config {
	return &Config{
		Port:         getEnv("PORT", "4000"),
		MaxBodyBytes: int64(getIntEnv("MAX_BODY_BYTES", 15*1024*1024)),

		GeminiAPIKey:  getEnv("GEMINI_API_KEY", ""),
		GeminiModel:   getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
		GeminiTimeout: getDurationEnv("GEMINI_TIMEOUT", 15*time.Second),

		GoogleMapsAPIKey: getEnv("GOOGLE_MAPS_API_KEY", ""),
		GeocodeTimeout:   getDurationEnv("GEOCODE_TIMEOUT", 10*time.Second),

		TicketStore:         strings.ToLower(getEnv("TICKET_STORE", model.TicketStoreFirestore)),
		FirestoreProjectID:  getEnv("FIRESTORE_PROJECT_ID", ""),
		FirestoreCollection: getEnv("FIRESTORE_COLLECTION", "tickets"),
		DatabaseURL:         getEnv("DATABASE_URL", ""),
		SupabaseURL:         getEnv("SUPABASE_URL", ""),
		SupabaseDBPassword:  getEnv("SUPABASE_DB_PASSWORD", ""),
		StoreTimeout:        getDurationEnv("STORE_TIMEOUT", 10*time.Second),

		AuthProvider:      strings.ToLower(getEnv("AUTH_PROVIDER", model.AuthProviderFirebase)),
		FirebaseProjectID: getEnv("FIREBASE_PROJECT_ID", ""),
		SupabaseAnonKey:   getEnv("SUPABASE_ANON_KEY", ""),

		SendGridAPIKey: getEnv("SENDGRID_API_KEY", ""),
		MailFromEmail:  getEnv("MAIL_FROM_EMAIL", "noreply@snapsolve.app"),
		MailFromName:   getEnv("MAIL_FROM_NAME", "SnapSolve"),
		NotifyTimeout:  getDurationEnv("NOTIFY_TIMEOUT", 10*time.Second),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),
	}
}

// Validate は選択したバックエンドに必要な設定がそろっているかを確認する
func (c *Config) Validate() error {
	var errs []error

	if c.GeminiAPIKey == "" {
		errs = append(errs, errors.New("GEMINI_API_KEY is required"))
	}
	if c.GoogleMapsAPIKey == "" {
		errs = append(errs, errors.New("GOOGLE_MAPS_API_KEY is required"))
	}

	switch c.TicketStore {
	case model.TicketStoreFirestore:
		if c.FirestoreProjectID == "" {
			errs = append(errs, errors.New("FIRESTORE_PROJECT_ID is required for TICKET_STORE=firestore"))
		}
	case model.TicketStorePostgres:
		if c.DatabaseURL == "" && (c.SupabaseURL == "" || c.SupabaseDBPassword == "") {
			errs = append(errs, errors.New("DATABASE_URL or SUPABASE_URL + SUPABASE_DB_PASSWORD is required for TICKET_STORE=postgres"))
		}
	case model.TicketStoreMemory:
	default:
		errs = append(errs, fmt.Errorf("unknown TICKET_STORE %q", c.TicketStore))
	}

	switch c.AuthProvider {
	case model.AuthProviderFirebase:
		if c.FirebaseProjectID == "" {
			errs = append(errs, errors.New("FIREBASE_PROJECT_ID is required for AUTH_PROVIDER=firebase"))
		}
	case model.AuthProviderSupabase:
		if c.SupabaseURL == "" || c.SupabaseAnonKey == "" {
			errs = append(errs, errors.New("SUPABASE_URL and SUPABASE_ANON_KEY are required for AUTH_PROVIDER=supabase"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown AUTH_PROVIDER %q", c.AuthProvider))
	}

	if c.MaxBodyBytes <= 0 {
		errs = append(errs, errors.New("MAX_BODY_BYTES must be positive"))
	}

	return errors.Join(errs...)
}

// PostgresDSN はPostgreSQLの接続文字列を返す。DATABASE_URLが無ければSupabaseの設定から組み立てる
func (c *Config) PostgresDSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	// https://xxx.supabase.co -> db.xxx.supabase.co
	host := strings.TrimPrefix(strings.TrimPrefix(c.SupabaseURL, "https://"), "http://")
	host = strings.TrimSuffix(host, "/")

	dsn := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword("postgres", c.SupabaseDBPassword),
		Host:     "db." + host + ":6543",
		Path:     "/postgres",
		RawQuery: "sslmode=require",
	}
	return dsn.String()
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getDurationEnv gets a duration environment variable or returns a default value
func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// getIntEnv gets an integer environment variable or returns a default value
func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
