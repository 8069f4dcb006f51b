package main

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/assetserve/assetserve/server/config"
)

// syncBuffer lets the test read banner output while the server goroutine is
// still logging to it.
type syncBuffer struct {
	mu  sync.Mutex
	buf strings.Builder
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestRunServeBindFailure(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	cfg := config.TestConfig()
	cfg.Server.Root = t.TempDir()
	cfg.Server.Address = ln.Addr().String()

	var out syncBuffer
	err = runServe(context.Background(), cfg, &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bind")
	assert.Empty(t, out.String(), "no banner on bind failure")
}

func TestRunServeMissingRoot(t *testing.T) {
	cfg := config.TestConfig()
	cfg.Server.Root = filepath.Join(t.TempDir(), "missing")

	var out syncBuffer
	err := runServe(context.Background(), cfg, &out)
	require.Error(t, err)
	assert.Empty(t, out.String())
}

func TestRunServeServesAndStops(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "data.json"), []byte(`{"a":1}`), 0o644))

	cfg := config.TestConfig()
	cfg.Server.Root = root

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var out syncBuffer
	done := make(chan error, 1)
	go func() {
		done <- runServe(ctx, cfg, &out)
	}()

	url := waitForBanner(t, &out)

	resp, err := http.Get(url + "/data.json")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Equal(t, `{"a":1}`, string(body))

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}

	assert.Contains(t, out.String(), "Server stopped.")
	assert.Contains(t, out.String(), "Press Ctrl+C to stop the server")
	assert.Equal(t, 1, strings.Count(out.String(), "path=/data.json"))
}

var bannerURL = regexp.MustCompile(`http://localhost:(\d+)/`)

// waitForBanner blocks until the startup banner appears in out and returns
// the base URL the server is reachable at.
func waitForBanner(t *testing.T, out *syncBuffer) string {
	t.Helper()

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if m := bannerURL.FindStringSubmatch(out.String()); m != nil {
			return fmt.Sprintf("http://127.0.0.1:%s", m[1])
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("banner never printed")
	return ""
}
