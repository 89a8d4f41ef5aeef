package config_test

import (
	"testing"

	"github.com/rk-consultants/rk-server/config"
	"github.com/rk-consultants/rk-server/models"
	"github.com/rk-consultants/rk-server/testutil"
	"github.com/rk-consultants/rk-server/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Setenv("JWT_SECRET", "jwt-secret")
	t.Setenv("RAZORPAY_KEY_SECRET", "rzp-secret")
}

func TestLoadConfigDefaults(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PORT", "")
	t.Setenv("SESSION_SECRET", "")
	t.Setenv("SMTP_PORT", "")
	for _, k := range []string{"ENV", "DB_NAME", "RATE_LIMIT_RPS", "RATE_LIMIT_BURST"} {
		t.Setenv(k, "")
	}

	cfg, err := config.LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, "development", cfg.Env)
	assert.False(t, cfg.IsProduction())
	assert.Equal(t, 587, cfg.SMTPPort)
	assert.Equal(t, "jwt-secret", cfg.SessionSecret)
	assert.Equal(t, float64(1), cfg.RateLimitRPS)
	assert.Equal(t, 10, cfg.RateLimitBurst)
	assert.Contains(t, cfg.DSN(), "dbname=rk_consultants")
}

func TestLoadConfigOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PORT", "8080")
	t.Setenv("ENV", "production")
	t.Setenv("SMTP_PORT", "2525")
	t.Setenv("RATE_LIMIT_RPS", "0.5")
	t.Setenv("SESSION_SECRET", "session-secret")

	cfg, err := config.LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, 2525, cfg.SMTPPort)
	assert.Equal(t, 0.5, cfg.RateLimitRPS)
	assert.Equal(t, "session-secret", cfg.SessionSecret)
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"missing jwt secret", map[string]string{"JWT_SECRET": ""}, "JWT_SECRET"},
		{"missing razorpay secret", map[string]string{"RAZORPAY_KEY_SECRET": ""}, "RAZORPAY_KEY_SECRET"},
		{"bad smtp port", map[string]string{"SMTP_PORT": "smtp"}, "SMTP_PORT"},
		{"bad rps", map[string]string{"RATE_LIMIT_RPS": "fast"}, "RATE_LIMIT_RPS"},
		{"zero burst", map[string]string{"RATE_LIMIT_BURST": "0"}, "rate limit"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequiredEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := config.LoadConfig()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestSeedAdmin(t *testing.T) {
	db := testutil.SetupTestDB(t)

	require.NoError(t, config.SeedAdmin(db, "", "secret"))
	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	assert.Zero(t, count)

	require.NoError(t, config.SeedAdmin(db, "owner", "owner-pass"))
	var admin models.User
	require.NoError(t, db.Where("username = ?", "owner").First(&admin).Error)
	assert.Equal(t, utils.RoleAdmin, admin.Role)
	assert.True(t, utils.CheckPassword("owner-pass", admin.Password))

	// An existing admin is left alone
	require.NoError(t, config.SeedAdmin(db, "second", "second-pass"))
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}
