package integration_test

import (
	"context"
	"io"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/waymark-dev/waymark/internal/config"
	"github.com/waymark-dev/waymark/internal/dev"
	"github.com/waymark-dev/waymark/pkg/manifest"
)

// copyFixture copies the demo project into a scratch directory the test
// is free to mutate.
func copyFixture(t *testing.T, src, dst string) {
	t.Helper()
	err := filepath.WalkDir(src, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, p)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if d.IsDir() {
			return os.MkdirAll(target, 0755)
		}
		data, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		return os.WriteFile(target, data, 0644)
	})
	if err != nil {
		t.Fatalf("copying fixture: %v", err)
	}
}

// freePort asks the kernel for an unused TCP port.
func freePort(t *testing.T) int {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port
}

func waitForServer(t *testing.T, url string) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		resp, err := http.Get(url)
		if err == nil {
			resp.Body.Close()
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatalf("server did not come up at %s", url)
}

func fetch(t *testing.T, url string) (int, string) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("reading %s: %v", url, err)
	}
	return resp.StatusCode, string(body)
}

// TestDevServerEndToEnd boots a real server on a loopback port, fetches
// manifests and pages over HTTP, then edits the project and waits for
// the rebuilt manifest and the reload push.
func TestDevServerEndToEnd(t *testing.T) {
	projectDir := t.TempDir()
	copyFixture(t, filepath.Join("testdata", "demo"), projectDir)

	cfg, err := config.Load(projectDir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	cfg.Dev.Host = "127.0.0.1"
	cfg.Dev.Port = freePort(t)

	srv := dev.NewServer(dev.ServerOptions{
		Config: cfg,
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Start(ctx) }()
	defer func() {
		cancel()
		select {
		case err := <-done:
			if err != nil {
				t.Errorf("Start returned %v", err)
			}
		case <-time.After(10 * time.Second):
			t.Error("server did not shut down")
		}
	}()

	base := cfg.DevURL()
	waitForServer(t, base+"/")

	t.Run("manifests over http", func(t *testing.T) {
		status, body := fetch(t, base+"/"+manifest.DevPagesManifestPath)
		if status != http.StatusOK {
			t.Fatalf("status = %d", status)
		}
		want := `{"pages":["/","/about","/api/health","/blog","/blog/[slug]","/docs/[[...path]]"]}`
		if body != want {
			t.Errorf("pages manifest = %s, want %s", body, want)
		}

		status, body = fetch(t, base+"/"+manifest.DevMiddlewareManifestPath)
		if status != http.StatusOK || body != "[]" {
			t.Errorf("middleware manifest = %d %q", status, body)
		}
	})

	t.Run("page carries reload client", func(t *testing.T) {
		status, body := fetch(t, base+"/about")
		if status != http.StatusOK {
			t.Fatalf("status = %d", status)
		}
		if !strings.Contains(body, "_dev/reload") {
			t.Error("served page is missing the live reload client")
		}
	})

	t.Run("unknown path is 404", func(t *testing.T) {
		status, _ := fetch(t, base+"/no/such/page")
		if status != http.StatusNotFound {
			t.Errorf("status = %d, want 404", status)
		}
	})

	t.Run("metrics endpoint", func(t *testing.T) {
		status, body := fetch(t, base+"/metrics")
		if status != http.StatusOK {
			t.Fatalf("status = %d", status)
		}
		if !strings.Contains(body, "waymark_requests_total") {
			t.Error("request counter missing from metrics output")
		}
	})

	t.Run("route change triggers reload", func(t *testing.T) {
		wsURL := "ws" + strings.TrimPrefix(base, "http") + dev.ReloadEndpoint
		conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
		if err != nil {
			t.Fatalf("dialing reload endpoint: %v", err)
		}
		defer conn.Close()

		route := filepath.Join(projectDir, "app", "routes", "contact.go")
		if err := os.WriteFile(route, []byte("package routes\n"), 0644); err != nil {
			t.Fatal(err)
		}

		conn.SetReadDeadline(time.Now().Add(10 * time.Second))
		var msg struct {
			Type string `json:"type"`
		}
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("reading reload message: %v", err)
		}
		if msg.Type != "reload" {
			t.Errorf("message type = %q, want reload", msg.Type)
		}

		// The rebuild runs before the push, so the manifest must already
		// list the new route.
		_, body := fetch(t, base+"/"+manifest.DevPagesManifestPath)
		if !strings.Contains(body, `"/contact"`) {
			t.Errorf("manifest did not pick up new route: %s", body)
		}
	})
}
