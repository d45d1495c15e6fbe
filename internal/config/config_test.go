package config

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnv_Defaults(t *testing.T) {
	for _, key := range []string{"PORT", "GEMINI_MODEL", "GEMINI_TIMEOUT", "TICKET_STORE", "AUTH_PROVIDER", "MAX_BODY_BYTES", "FIRESTORE_COLLECTION"} {
		t.Setenv(key, "")
	}

	cfg := FromEnv()

	assert.Equal(t, "4000", cfg.Port)
	assert.Equal(t, "gemini-2.0-flash", cfg.GeminiModel)
	assert.Equal(t, 15*time.Second, cfg.GeminiTimeout)
	assert.Equal(t, "firestore", cfg.TicketStore)
	assert.Equal(t, "firebase", cfg.AuthProvider)
	assert.Equal(t, "tickets", cfg.FirestoreCollection)
	assert.Equal(t, int64(15*1024*1024), cfg.MaxBodyBytes)
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("GEMINI_TIMEOUT", "3s")
	t.Setenv("TICKET_STORE", "Postgres")
	t.Setenv("MAX_BODY_BYTES", "1024")
	t.Setenv("GEOCODE_TIMEOUT", "not-a-duration")

	cfg := FromEnv()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 3*time.Second, cfg.GeminiTimeout)
	assert.Equal(t, "postgres", cfg.TicketStore)
	assert.Equal(t, int64(1024), cfg.MaxBodyBytes)
	assert.Equal(t, 10*time.Second, cfg.GeocodeTimeout)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			GeminiAPIKey:       "g",
			GoogleMapsAPIKey:   "m",
			TicketStore:        "firestore",
			FirestoreProjectID: "p",
			AuthProvider:       "firebase",
			FirebaseProjectID:  "p",
			MaxBodyBytes:       1,
		}
	}

	require.NoError(t, valid().Validate())

	cfg := valid()
	cfg.GeminiAPIKey = ""
	assert.ErrorContains(t, cfg.Validate(), "GEMINI_API_KEY")

	cfg = valid()
	cfg.TicketStore = "postgres"
	assert.ErrorContains(t, cfg.Validate(), "DATABASE_URL")
	cfg.SupabaseURL = "https://abc.supabase.co"
	cfg.SupabaseDBPassword = "pw"
	assert.NoError(t, cfg.Validate())

	cfg = valid()
	cfg.TicketStore = "memory"
	assert.NoError(t, cfg.Validate())

	cfg = valid()
	cfg.TicketStore = "mongo"
	assert.ErrorContains(t, cfg.Validate(), "unknown TICKET_STORE")

	cfg = valid()
	cfg.AuthProvider = "supabase"
	assert.ErrorContains(t, cfg.Validate(), "SUPABASE_ANON_KEY")
}

func TestPostgresDSN(t *testing.T) {
	cfg := &Config{DatabaseURL: "postgres://u:p@localhost/db?sslmode=disable"}
	assert.Equal(t, "postgres://u:p@localhost/db?sslmode=disable", cfg.PostgresDSN())

	cfg = &Config{SupabaseURL: "https://abc.supabase.co", SupabaseDBPassword: "pw"}
	assert.Equal(t, "postgres://postgres:pw@db.abc.supabase.co:6543/postgres?sslmode=require", cfg.PostgresDSN())
}

func TestPostgresDSN_PasswordWithSpecialCharacters(t *testing.T) {
	password := "p@ss w'rd:/?#"
	cfg := &Config{SupabaseURL: "https://abc.supabase.co", SupabaseDBPassword: password}

	parsed, err := url.Parse(cfg.PostgresDSN())
	require.NoError(t, err)

	got, ok := parsed.User.Password()
	require.True(t, ok)
	assert.Equal(t, password, got)
	assert.Equal(t, "postgres", parsed.User.Username())
	assert.Equal(t, "db.abc.supabase.co:6543", parsed.Host)
	assert.Equal(t, "/postgres", parsed.Path)
	assert.Equal(t, "require", parsed.Query().Get("sslmode"))
}
