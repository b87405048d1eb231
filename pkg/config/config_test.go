package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("valid config", func(t *testing.T) {
		t.Setenv("TWEETBOT_TEST_ENDPOINT", "http://localhost:8888")
		cfg, err := Load("testdata/config.yml")
		require.NoError(t, err)
		require.NotNil(t, cfg)

		assert.Equal(t, ":9090", cfg.Server.Listen)
		assert.Equal(t, 45*time.Second, cfg.Server.Timeout)
		assert.Equal(t, 4*time.Hour, cfg.Schedule.Interval)
		assert.Empty(t, cfg.Schedule.Cron)
		assert.Equal(t, time.Minute, cfg.Publish.Timeout)
		assert.Equal(t, "http://localhost:8888", cfg.Twitter.Endpoint)
		assert.Equal(t, 50, cfg.Twitter.PostsPerDay)
		assert.Equal(t, 3, cfg.Twitter.MaxAttempts)

		require.NotNil(t, cfg.Content)
		assert.Equal(t, []string{"Go"}, cfg.Content.TopicNames())
		assert.Equal(t, []string{"Clear is better than clever"}, cfg.Content.Insights)
	})

	t.Run("defaults without file", func(t *testing.T) {
		cfg, err := Load("")
		require.NoError(t, err)

		assert.Empty(t, cfg.Server.Listen)
		assert.Equal(t, 30*time.Second, cfg.Server.Timeout)
		assert.Equal(t, 8*time.Hour, cfg.Schedule.Interval)
		assert.Equal(t, 2*time.Minute, cfg.Publish.Timeout)
		assert.Equal(t, "https://api.twitter.com", cfg.Twitter.Endpoint)
		assert.Equal(t, 17, cfg.Twitter.PostsPerDay)
		assert.Equal(t, 30*time.Second, cfg.Twitter.RequestTimeout)
		require.NotNil(t, cfg.Content)
		assert.Len(t, cfg.Content.Topics, 7)
	})

	t.Run("file not found", func(t *testing.T) {
		cfg, err := Load("/non/existent/file.yml")
		require.Error(t, err)
		assert.Nil(t, cfg)
		assert.Contains(t, err.Error(), "read config file")
	})

	t.Run("invalid yaml", func(t *testing.T) {
		configPath := writeConfig(t, "invalid: yaml: content: [")
		cfg, err := Load(configPath)
		require.Error(t, err)
		assert.Nil(t, cfg)
		assert.Contains(t, err.Error(), "parse config")
	})
}

func TestLoad_Validation(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr string
	}{
		{name: "cron", data: "schedule:\n  cron: \"0 */8 * * *\"\n"},
		{name: "bad cron", data: "schedule:\n  cron: \"every day\"\n", wantErr: "schedule.cron is invalid"},
		{name: "short interval", data: "schedule:\n  interval: 10s\n", wantErr: "schedule.interval must be at least 1 minute"},
		{name: "short server timeout", data: "server:\n  timeout: 10ms\n", wantErr: "server timeout"},
		{name: "short publish timeout", data: "publish:\n  timeout: 10ms\n", wantErr: "publish.timeout"},
		{name: "negative quota", data: "twitter:\n  posts_per_day: -1\n", wantErr: "twitter.posts_per_day"},
		{name: "negative attempts", data: "twitter:\n  max_attempts: -1\n", wantErr: "twitter.max_attempts"},
		{name: "bad content", data: "content:\n  insights: [a]\n  templates: [\"{insight}\"]\n", wantErr: "content: no topics defined"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(writeConfig(t, tt.data))
			if tt.wantErr == "" {
				require.NoError(t, err)
				assert.NotNil(t, cfg)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestGenerateSchema(t *testing.T) {
	schema := GenerateSchema()
	require.NotNil(t, schema)

	data, err := json.Marshal(schema)
	require.NoError(t, err)
	for _, key := range []string{"server", "schedule", "publish", "twitter", "content", "posts_per_day", "templates"} {
		assert.Contains(t, string(data), `"`+key+`"`)
	}
}

func writeConfig(t *testing.T, data string) string {
	t.Helper()
	configPath := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(configPath, []byte(data), 0o600))
	return configPath
}
