package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	chdirTemp(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.Equal(t, "/api/v1", cfg.APIPrefix)
	assert.Equal(t, 72*time.Hour, cfg.Risk.ApprovalSLA)
	assert.Equal(t, "@every 15m", cfg.Risk.ScanSchedule)
	assert.Equal(t, 30*time.Minute, cfg.PrintPacks.SignedURLTTL)
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	chdirTemp(t)
	t.Setenv("RISK_APPROVAL_SLA", "6h")
	t.Setenv("RISK_REVIEW_SLA", "not-a-duration")
	t.Setenv("ALLOWED_ORIGINS", "https://a.school, https://b.school ,")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 6*time.Hour, cfg.Risk.ApprovalSLA)
	assert.Equal(t, 48*time.Hour, cfg.Risk.ReviewSLA)
	assert.Equal(t, []string{"https://a.school", "https://b.school"}, cfg.CORS.AllowedOrigins)
}

func chdirTemp(t *testing.T) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}
