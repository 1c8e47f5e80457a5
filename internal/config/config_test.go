package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var envKeys = []string{
	"DB_URL", "RABBITMQ_URL", "R2_ACCOUNT_ID", "R2_ACCCOUNT_ID", "R2_BUCKET", "R2_ACCESS_KEY", "R2_SECRET_KEY",
	"GOOGLE_API_KEY", "AGENT_MODEL", "AGENT_RPS", "WORKERS", "PDF_TIMEOUT", "FETCH_TIMEOUT", "FETCH_USER_AGENT",
	"MAX_UPLOAD_BYTES", "REDIS_ADDR", "REDIS_PASS", "CACHE_TTL",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
	}
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.Workers)
	assert.Equal(t, 10*time.Second, cfg.PDFTimeout)
	assert.Equal(t, 30*time.Second, cfg.FetchTimeout)
	assert.Equal(t, "gemini-2.5-pro", cfg.AgentModel)
	assert.Equal(t, 1.0, cfg.AgentRPS)
	assert.Equal(t, int64(5<<20), cfg.MaxUploadBytes)
	assert.Equal(t, 24*time.Hour, cfg.CacheTTL)
	assert.Empty(t, cfg.RedisAddr)
	assert.EqualError(t, cfg.Validate(), "empty DB_URL in environment")
}

func TestLoadYAMLThenEnv(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
db_url: postgres://yaml
rabbitmq_url: amqp://yaml
workers: 5
pdf_timeout: 4s
r2:
  account_id: acct
  bucket: resumes
  access_key: ak
  secret_key: sk
google_api_key: yaml-key
`), 0o600))
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("DB_URL", "postgres://env")
	t.Setenv("WORKERS", "7")
	t.Setenv("CACHE_TTL", "1h")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres://env", cfg.DBURL)
	assert.Equal(t, "amqp://yaml", cfg.RabbitMQURL)
	assert.Equal(t, 7, cfg.Workers)
	assert.Equal(t, 4*time.Second, cfg.PDFTimeout)
	assert.Equal(t, time.Hour, cfg.CacheTTL)
	assert.Equal(t, "resumes", cfg.R2.Bucket)
	assert.NoError(t, cfg.Validate())
}

func TestLoadLegacyAccountID(t *testing.T) {
	clearEnv(t)
	t.Setenv("R2_ACCCOUNT_ID", "legacy")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "legacy", cfg.R2.AccountID)

	t.Setenv("R2_ACCOUNT_ID", "current")
	cfg, err = Load()
	require.NoError(t, err)
	assert.Equal(t, "current", cfg.R2.AccountID)
}

func TestLoadBadYAML(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("workers: [nope"), 0o600))
	t.Setenv("CONFIG_FILE", path)

	_, err := Load()

	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := Config{
		DBURL:        "postgres://x",
		RabbitMQURL:  "amqp://x",
		R2:           R2Config{AccountID: "a", Bucket: "b", AccessKey: "c", SecretKey: "d"},
		GoogleAPIKey: "k",
		Workers:      1,
		AgentRPS:     1,
	}
	require.NoError(t, valid.Validate())

	missing := valid
	missing.R2.SecretKey = ""
	assert.EqualError(t, missing.Validate(), "empty R2_SECRET_KEY in environment")

	noWorkers := valid
	noWorkers.Workers = 0
	assert.Error(t, noWorkers.Validate())
}
