package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_MissingConfig(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
	defer cancel()

	err := run(ctx, Opts{Config: "non-existent-config.yml"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to load config")
}

func TestRun_InvalidConfig(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "invalid-config.yml")
	require.NoError(t, os.WriteFile(configPath, []byte("invalid: yaml: content: ["), 0o600))

	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
	defer cancel()

	err := run(ctx, Opts{Config: configPath})
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to load config")
}

func TestRun_ServerStartStop(t *testing.T) {
	port := freePort(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// no credentials, the service still runs and reports skipped posts
	runErr := make(chan error, 1)
	go func() { runErr <- run(ctx, Opts{Port: port}) }()

	base := fmt.Sprintf("http://127.0.0.1:%d", port)
	require.Eventually(t, func() bool {
		resp, err := http.Get(base + "/ping")
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 3*time.Second, 50*time.Millisecond)

	resp, err := http.Get(base + "/")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, "tweetbot running", string(body))

	resp, err = http.Get(base + "/post-now")
	require.NoError(t, err)
	body, err = io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.JSONEq(t, `{"posted": false, "status": "skipped", "error": "missing api credentials"}`, string(body))

	resp, err = http.Get(base + "/api/v1/status")
	require.NoError(t, err)
	var status map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&status))
	resp.Body.Close()
	assert.Equal(t, false, status["configured"])
	assert.NotEmpty(t, status["next_run"])

	cancel()
	select {
	case err := <-runErr:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server shutdown timeout")
	}
}

func TestRun_DryRunPostNow(t *testing.T) {
	port := freePort(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	opts := Opts{Port: port, DryRun: true}
	runErr := make(chan error, 1)
	go func() { runErr <- run(ctx, opts) }()

	base := fmt.Sprintf("http://127.0.0.1:%d", port)
	require.Eventually(t, func() bool {
		resp, err := http.Get(base + "/health")
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 3*time.Second, 50*time.Millisecond)

	resp, err := http.Get(base + "/post-now")
	require.NoError(t, err)
	var res map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, false, res["posted"])
	assert.Equal(t, "dry-run", res["status"])
	assert.NotEmpty(t, res["text"])

	cancel()
	select {
	case err := <-runErr:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server shutdown timeout")
	}
}

func TestRun_PortBusy(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer listener.Close()

	configPath := filepath.Join(t.TempDir(), "config.yml")
	cfg := fmt.Sprintf("server:\n  listen: %q\n", listener.Addr().String())
	require.NoError(t, os.WriteFile(configPath, []byte(cfg), 0o600))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err = run(ctx, Opts{Config: configPath})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server failed")
}

func TestCredentials(t *testing.T) {
	var opts Opts
	opts.Twitter.APIKey = "k"
	opts.Twitter.APISecret = "s"
	opts.Twitter.AccessToken = "t"
	creds := credentials(opts)
	assert.False(t, creds.Complete())
	opts.Twitter.AccessSecret = "ts"
	assert.True(t, credentials(opts).Complete())
}

func TestLoadEnvFile(t *testing.T) {
	require.NoError(t, loadEnvFile(filepath.Join(t.TempDir(), "missing.env")))

	envPath := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(envPath, []byte("TWEETBOT_TEST_VAR=from-file\n"), 0o600))
	t.Setenv("TWEETBOT_TEST_VAR", "")
	require.NoError(t, os.Unsetenv("TWEETBOT_TEST_VAR"))
	require.NoError(t, loadEnvFile(envPath))
	assert.Equal(t, "from-file", os.Getenv("TWEETBOT_TEST_VAR"))

	// process environment wins over the file
	t.Setenv("TWEETBOT_TEST_VAR", "from-env")
	require.NoError(t, loadEnvFile(envPath))
	assert.Equal(t, "from-env", os.Getenv("TWEETBOT_TEST_VAR"))
}

func TestSetupLog(t *testing.T) {
	t.Run("debug mode enabled", func(t *testing.T) {
		SetupLog(true, false)
	})

	t.Run("debug mode disabled", func(t *testing.T) {
		SetupLog(false, false)
	})

	t.Run("with secrets", func(t *testing.T) {
		SetupLog(true, true, "secret1", "secret2")
	})
}

func freePort(t *testing.T) int {
	t.Helper()
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := listener.Addr().(*net.TCPAddr).Port
	require.NoError(t, listener.Close())
	return port
}
