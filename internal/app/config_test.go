package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/lironatar/TasksList/internal/auth"
)

func TestLoadConfigFromFile(t *testing.T) {
	cfg, err := LoadConfig("testdata")
	require.NoError(t, err)

	require.Equal(t, 9090, cfg.Server.Port)
	require.Equal(t, "debug", cfg.Server.LogLevel)
	require.Equal(t, []string{"https://tasks.example.com"}, cfg.Server.CORS.AllowedOrigins)
	require.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)

	require.Equal(t, "postgres", cfg.Database.Driver)
	require.Equal(t, "db.example.com", cfg.Database.Postgres.Host)
	require.Equal(t, 6543, cfg.Database.Postgres.Port)
	require.Equal(t, "require", cfg.Database.Postgres.Options["sslmode"])

	require.True(t, cfg.Cache.Redis.Enabled)
	require.Equal(t, "redis.example.com:6380", cfg.Cache.Redis.Address)
	require.Equal(t, 2, cfg.Cache.Redis.DB)
	require.Equal(t, 3*time.Second, cfg.Cache.Redis.Timeout)

	require.Equal(t, "jwt-secret", cfg.Auth.JWT.Secret)
	require.Equal(t, "tasks-test", cfg.Auth.JWT.Issuer)
	require.Equal(t, 30*time.Minute, cfg.Auth.JWT.TTL)

	require.Equal(t, 15*time.Minute, cfg.Verification.CodeTTL)
	require.Equal(t, 8, cfg.Verification.CodeLength)

	require.True(t, cfg.Email.SMTP.Enabled)
	require.Equal(t, "smtp.example.com", cfg.Email.SMTP.Host)
	require.Equal(t, 2525, cfg.Email.SMTP.Port)
	require.Equal(t, "smtp-user", cfg.Email.SMTP.Username)
	require.Equal(t, "smtp-pass", cfg.Email.SMTP.Password)
	require.Equal(t, "no-reply@example.com", cfg.Email.SMTP.From)
	require.True(t, cfg.Email.SMTP.UseTLS)
	require.Equal(t, 15*time.Second, cfg.Email.SMTP.Timeout)

	require.Equal(t, []string{"https://img.example.com/owl.png", "https://img.example.com/fox.png"}, cfg.Profile.Icons)

	require.Equal(t, "@hourly", cfg.Maintenance.VerificationCodes)
	require.Empty(t, cfg.Maintenance.CacheEntries)

	require.Equal(t, 30, cfg.RateLimit.Requests)
	require.Equal(t, 30*time.Second, cfg.RateLimit.Window)
	require.True(t, cfg.RateLimit.Enabled)
}

func TestLoadConfigDefaultsAndEnvironment(t *testing.T) {
	t.Setenv("TASKSLIST_SERVER_PORT", "9191")
	t.Setenv("TASKSLIST_VERIFICATION_CODE_TTL", "5m")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	require.Equal(t, 9191, cfg.Server.Port)
	require.Equal(t, 5*time.Minute, cfg.Verification.CodeTTL)
	require.Equal(t, 6, cfg.Verification.CodeLength)
	require.Equal(t, "sqlite", cfg.Database.Driver)
	require.Equal(t, 60*time.Minute, cfg.Auth.JWT.TTL)
	require.Equal(t, DefaultProfileIcons, cfg.Profile.Icons)
	require.Equal(t, "/metrics", cfg.Monitoring.Prometheus.Endpoint)
}

func TestAuthConfigAdapters(t *testing.T) {
	cfg := AuthConfig{
		JWT: JWTSettings{
			Secret: "secret",
			Issuer: "issuer",
			TTL:    30 * time.Minute,
		},
	}

	require.Equal(t, auth.JWTConfig{
		Secret:         "secret",
		Issuer:         "issuer",
		AccessTokenTTL: 30 * time.Minute,
	}, cfg.JWTServiceConfig())

	var empty AuthConfig
	require.Equal(t, auth.DefaultAccessTokenTTL, empty.JWTServiceConfig().AccessTokenTTL)
}

func TestVerificationConfigFallbacks(t *testing.T) {
	var cfg VerificationConfig
	require.Equal(t, 10*time.Minute, cfg.EffectiveCodeTTL())
	require.Equal(t, 6, cfg.EffectiveCodeLength())

	cfg = VerificationConfig{CodeTTL: time.Minute, CodeLength: 4}
	require.Equal(t, time.Minute, cfg.EffectiveCodeTTL())
	require.Equal(t, 4, cfg.EffectiveCodeLength())
}

func TestProfileCatalogueCopies(t *testing.T) {
	cfg := ProfileConfig{Icons: []string{"a"}}
	icons := cfg.Catalogue()
	icons[0] = "b"
	require.Equal(t, "a", cfg.Icons[0])

	require.Equal(t, DefaultProfileIcons, ProfileConfig{}.Catalogue())
}

func TestDatabaseOpenConfig(t *testing.T) {
	cfg := DatabaseConfig{
		Driver: "mysql",
		MySQL: DBAuthConfig{
			Host:     "mysql.local",
			Port:     3307,
			Database: "tasks",
			Username: "app",
			Password: "pw",
		},
		Postgres: DBAuthConfig{Host: "ignored"},
	}

	out := cfg.DatabaseOpenConfig()
	require.Equal(t, "mysql", out.Driver)
	require.Equal(t, "mysql.local", out.Host)
	require.Equal(t, 3307, out.Port)
	require.Equal(t, "tasks", out.Name)
	require.Equal(t, "app", out.User)
	require.Equal(t, "pw", out.Password)

	sqlite := DatabaseConfig{Driver: "sqlite", Path: "./data/x.db"}.DatabaseOpenConfig()
	require.Equal(t, "./data/x.db", sqlite.Path)
	require.Empty(t, sqlite.Host)
}

func TestEmailConfigAdapter(t *testing.T) {
	cfg := EmailConfig{
		SMTP: SMTPConfig{
			Enabled:  true,
			Host:     "smtp.example.com",
			Port:     2525,
			Username: "user",
			Password: "pass",
			From:     "no-reply@example.com",
			UseTLS:   true,
			Timeout:  10 * time.Second,
		},
	}

	settings := cfg.SMTPSettings()
	require.True(t, settings.Enabled)
	require.Equal(t, "smtp.example.com", settings.Host)
	require.Equal(t, 2525, settings.Port)
	require.Equal(t, "user", settings.Username)
	require.Equal(t, "pass", settings.Password)
	require.Equal(t, "no-reply@example.com", settings.From)
	require.True(t, settings.UseTLS)
	require.Equal(t, 10*time.Second, settings.Timeout)
}
