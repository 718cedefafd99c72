package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNew_DefaultsAndFileOverride(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "test.yaml")
	require.NoError(t, os.WriteFile(file, []byte(`
env: prod
paddle:
  vendor_id: "1234"
  timeout: 3s
redis:
  url: redis://localhost:6379/2
admin_accounts:
  ops: pw
`), 0o600))
	t.Setenv("APP_CONFIG_FILE", file)
	t.Setenv("APP_SERVER_PORT", "9999")

	cfg, err := New()
	require.NoError(t, err)
	require.Equal(t, EnvProd, cfg.Env)
	require.Equal(t, 9999, cfg.Server.Port)
	require.Equal(t, "1234", cfg.Paddle.VendorID)
	require.Equal(t, 3*time.Second, cfg.Paddle.Timeout)
	require.Equal(t, "https://vendors.paddle.com/api", cfg.Paddle.BaseURL)
	require.Equal(t, "redis://localhost:6379/2", cfg.Redis.URL)
	require.Equal(t, 30*time.Second, cfg.Redis.LockTTL)
	require.Equal(t, map[string]string{"ops": "pw"}, cfg.AdminAccounts)
	require.Empty(t, cfg.MetricsAccounts)
}
