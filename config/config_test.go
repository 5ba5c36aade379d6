package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "cfg.yaml")
	require.NoError(t, os.WriteFile(p, []byte(`
reviews:
  endpoint: "http://localhost:9000/api/user_api/homework_statuses/"
  mode: "http"
  request_timeout_seconds: 5
telegram:
  timeout_seconds: 7
kafka:
  host: "localhost"
  port: 9092
  status_changed_topic_name: "homework.status_changed"
logging:
  file: "homework_logs.log"
  file_max_size_mb: 2
  file_max_backups: 2
reviewbox:
  poll_interval_seconds: 600
  window_mode: "since_last_success"
  worker_http_addr: ":8082"
`), 0o600))

	cfg, err := LoadConfig(p)
	require.NoError(t, err)
	require.Equal(t, "http", cfg.Reviews.Mode)
	require.Equal(t, 5, cfg.Reviews.RequestTimeoutSeconds)
	require.Equal(t, 7, cfg.Telegram.TimeoutSeconds)
	require.Equal(t, "homework.status_changed", cfg.Kafka.StatusChangedTopicName)
	require.Equal(t, "homework_logs.log", cfg.Logging.File)
	require.Equal(t, 600, cfg.ReviewBox.PollIntervalSeconds)
	require.Equal(t, "since_last_success", cfg.ReviewBox.WindowMode)
	require.Equal(t, ":8082", cfg.ReviewBox.WorkerHTTPAddr)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoadConfigOrDefault_EmptyPath(t *testing.T) {
	cfg, err := LoadConfigOrDefault("")
	require.NoError(t, err)
	require.NotNil(t, cfg)
	require.Zero(t, cfg.ReviewBox.PollIntervalSeconds)
}

func envOf(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestCredentials_Validate_AllPresent(t *testing.T) {
	c := LoadCredentials(envOf(map[string]string{
		EnvPracticumToken: "p",
		EnvTelegramToken:  "t",
		EnvTelegramChatID: "42",
	}))
	require.NoError(t, c.Validate())
	require.Equal(t, "42", c.TelegramChatID)
}

func TestCredentials_Validate_AnyMissingFails(t *testing.T) {
	full := map[string]string{
		EnvPracticumToken: "p",
		EnvTelegramToken:  "t",
		EnvTelegramChatID: "42",
	}
	// every non-empty subset of the three keys blanked out
	keys := []string{EnvPracticumToken, EnvTelegramToken, EnvTelegramChatID}
	for mask := 1; mask < 1<<len(keys); mask++ {
		env := map[string]string{}
		for k, v := range full {
			env[k] = v
		}
		var want []string
		for i, k := range keys {
			if mask&(1<<i) != 0 {
				env[k] = ""
				want = append(want, k)
			}
		}

		err := LoadCredentials(envOf(env)).Validate()
		require.Error(t, err)
		var cfgErr *ConfigurationError
		require.True(t, errors.As(err, &cfgErr))
		require.Equal(t, want, cfgErr.Missing)
		for _, k := range want {
			require.Contains(t, err.Error(), k)
		}
	}
}

func TestCredentials_WhitespaceIsMissing(t *testing.T) {
	err := LoadCredentials(envOf(map[string]string{
		EnvPracticumToken: "  ",
		EnvTelegramToken:  "t",
		EnvTelegramChatID: "1",
	})).Validate()
	var cfgErr *ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	require.Equal(t, []string{EnvPracticumToken}, cfgErr.Missing)
}

func TestLoadDotEnv(t *testing.T) {
	require.NoError(t, LoadDotEnv(filepath.Join(t.TempDir(), "missing.env")))

	p := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(p, []byte("REVIEWBOX_TEST_DOTENV=from-file\n"), 0o600))
	t.Setenv("REVIEWBOX_TEST_DOTENV", "")
	require.NoError(t, os.Unsetenv("REVIEWBOX_TEST_DOTENV"))

	require.NoError(t, LoadDotEnv(p))
	require.Equal(t, "from-file", os.Getenv("REVIEWBOX_TEST_DOTENV"))
}

func TestLoadConfig_ShippedWorkerConfig(t *testing.T) {
	cfg, err := LoadConfig("review-worker.yaml")
	require.NoError(t, err)

	require.Equal(t, "http", cfg.Reviews.Mode)
	require.Equal(t, 10, cfg.Reviews.RequestTimeoutSeconds)
	require.Empty(t, cfg.Kafka.Host)
	require.Equal(t, "homework.status_changed", cfg.Kafka.StatusChangedTopicName)
	require.Equal(t, "homework_logs.log", cfg.Logging.File)
	require.Equal(t, 600, cfg.ReviewBox.PollIntervalSeconds)
	require.Equal(t, "trailing", cfg.ReviewBox.WindowMode)
	require.Equal(t, ":8082", cfg.ReviewBox.WorkerHTTPAddr)
}
