package dev

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/waymark-dev/waymark/internal/config"
	"github.com/waymark-dev/waymark/internal/errors"
	"github.com/waymark-dev/waymark/pkg/manifest"
)

func TestWatcher_Basic(t *testing.T) {
	tmpDir := t.TempDir()

	// Create initial file
	testFile := filepath.Join(tmpDir, "about.go")
	if err := os.WriteFile(testFile, []byte("package routes"), 0644); err != nil {
		t.Fatal(err)
	}

	watcher := NewWatcher(WatcherConfig{
		Paths:    []string{tmpDir},
		Debounce: 50 * time.Millisecond,
	})

	changes := make(chan Change, 10)
	watcher.OnChange(func(c Change) {
		changes <- c
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Start watcher in background
	go watcher.Start(ctx)

	// Wait for initial scan
	time.Sleep(100 * time.Millisecond)

	// Modify file
	if err := os.WriteFile(testFile, []byte("package routes\n\nvar about = 1"), 0644); err != nil {
		t.Fatal(err)
	}

	// Wait for change detection
	select {
	case change := <-changes:
		if change.Type != ChangeRoute {
			t.Errorf("Expected route change, got %v", change.Type)
		}
		if change.Path != testFile {
			t.Errorf("Expected path %q, got %q", testFile, change.Path)
		}
	case <-time.After(500 * time.Millisecond):
		t.Error("Timeout waiting for change")
	}

	watcher.Stop()
}

func TestWatcher_NewFile(t *testing.T) {
	tmpDir := t.TempDir()

	watcher := NewWatcher(WatcherConfig{
		Paths:    []string{tmpDir},
		Debounce: 50 * time.Millisecond,
	})

	changes := make(chan Change, 10)
	watcher.OnChange(func(c Change) {
		changes <- c
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go watcher.Start(ctx)

	time.Sleep(100 * time.Millisecond)

	newFile := filepath.Join(tmpDir, "new.go")
	if err := os.WriteFile(newFile, []byte("package routes"), 0644); err != nil {
		t.Fatal(err)
	}

	select {
	case change := <-changes:
		if change.Type != ChangeRoute {
			t.Errorf("Expected route change, got %v", change.Type)
		}
		if change.Path != newFile {
			t.Errorf("Expected path %q, got %q", newFile, change.Path)
		}
	case <-time.After(500 * time.Millisecond):
		t.Error("Timeout waiting for new file change")
	}

	watcher.Stop()
}

func TestWatcher_Ignore(t *testing.T) {
	tmpDir := t.TempDir()

	watcher := NewWatcher(WatcherConfig{
		Paths:  []string{tmpDir},
		Ignore: []string{"*_test.go", "vendor"},
	})

	// Test ignore patterns
	if !watcher.shouldIgnore(filepath.Join(tmpDir, "foo_test.go")) {
		t.Error("Should ignore *_test.go files")
	}
	if !watcher.shouldIgnore(filepath.Join(tmpDir, "vendor", "lib.go")) {
		t.Error("Should ignore vendor directory")
	}
	if watcher.shouldIgnore(filepath.Join(tmpDir, "main.go")) {
		t.Error("Should not ignore main.go")
	}
}

func TestWatcher_IgnoreSegments(t *testing.T) {
	watcher := NewWatcher(WatcherConfig{
		Paths:  []string{"."},
		Ignore: []string{"tmp"},
	})

	if !watcher.shouldIgnore(filepath.Join("foo", "tmp", "bar.go")) {
		t.Error("Should ignore tmp directory segment")
	}
	if watcher.shouldIgnore(filepath.Join("foo", "attempt.go")) {
		t.Error("Should not ignore substring match")
	}
}

func TestClassifyChange(t *testing.T) {
	tests := []struct {
		path string
		want ChangeType
	}{
		{"about.go", ChangeRoute},
		{"posts/[id].go", ChangeRoute},
		{"style.css", ChangeCSS},
		{"style.scss", ChangeCSS},
		{"image.png", ChangeAsset},
		{"data.json", ChangeAsset},
		{"index.html", ChangeAsset},
	}

	for _, tt := range tests {
		got := classifyChange(tt.path)
		if got != tt.want {
			t.Errorf("classifyChange(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestWatcher_IsRunning(t *testing.T) {
	watcher := NewWatcher(WatcherConfig{
		Paths: []string{"."},
	})

	if watcher.IsRunning() {
		t.Error("Watcher should not be running initially")
	}
}

func TestCollectWatchPaths(t *testing.T) {
	tmpDir := t.TempDir()
	writeConfig(t, tmpDir, `{"dev": {"watch": ["app/routes", "extra"]}}`)

	cfg, err := config.Load(tmpDir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	paths := CollectWatchPaths(cfg)

	want := map[string]bool{
		filepath.Join(tmpDir, "app", "routes"): true,
		filepath.Join(tmpDir, "public"):        true,
		filepath.Join(tmpDir, "extra"):         true,
	}
	for _, p := range paths {
		delete(want, p)
	}
	if len(want) != 0 {
		t.Errorf("CollectWatchPaths missing %v (got %v)", want, paths)
	}

	// app/routes appears in both paths.routes and dev.watch. It must not
	// be listed twice.
	seen := make(map[string]int)
	for _, p := range paths {
		seen[p]++
		if seen[p] > 1 {
			t.Errorf("duplicate watch path %q", p)
		}
	}
}

func TestReloadServer_ClientCount(t *testing.T) {
	rs := NewReloadServer()

	if rs.ClientCount() != 0 {
		t.Errorf("ClientCount() = %d, want 0", rs.ClientCount())
	}
}

func TestReloadMessage_JSON(t *testing.T) {
	msg := ReloadMessage{
		Type:  ReloadTypeFull,
		Error: "",
	}

	if msg.Type != "reload" {
		t.Errorf("Type = %q, want %q", msg.Type, "reload")
	}
}

func TestDevClientScript(t *testing.T) {
	// Verify the script contains essential parts
	if len(DevClientScript) == 0 {
		t.Error("DevClientScript should not be empty")
	}

	if !strings.Contains(DevClientScript, "WebSocket") {
		t.Error("DevClientScript should contain WebSocket")
	}
	if !strings.Contains(DevClientScript, "_dev/reload") {
		t.Error("DevClientScript should contain reload endpoint")
	}
	if !strings.Contains(DevClientScript, "location.reload") {
		t.Error("DevClientScript should contain reload logic")
	}
}

func TestInjectReloadScript(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"with body tag", "<html><body><h1>hi</h1></body></html>"},
		{"html tag only", "<html>bare</html>"},
		{"no markers", "just text"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := string(injectReloadScript([]byte(tt.body)))
			if !strings.Contains(got, "_dev/reload") {
				t.Errorf("injected body missing reload script: %q", got)
			}
			if !strings.Contains(got, "hi") && !strings.Contains(got, "bare") && !strings.Contains(got, "text") {
				t.Errorf("injected body lost original content: %q", got)
			}
		})
	}

	// Script lands before </body> when the tag is present.
	got := string(injectReloadScript([]byte("<body>x</body>")))
	if strings.Index(got, "<script>") > strings.Index(got, "</body>") {
		t.Error("expected script to be injected before </body>")
	}
}

func writeConfig(t *testing.T, dir, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, config.ConfigFileName), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func writeRoute(t *testing.T, dir, rel string) {
	t.Helper()
	full := filepath.Join(dir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(full, []byte("package routes"), 0644); err != nil {
		t.Fatal(err)
	}
}

func newTestServer(t *testing.T) *Server {
	t.Helper()

	tmpDir := t.TempDir()
	writeConfig(t, tmpDir, `{}`)
	writeRoute(t, tmpDir, "app/routes/index.go")
	writeRoute(t, tmpDir, "app/routes/about.go")
	writeRoute(t, tmpDir, "app/routes/api/health.go")
	if err := os.MkdirAll(filepath.Join(tmpDir, "public"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(tmpDir, "public", "app.css"), []byte("body {}"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := config.Load(tmpDir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	srv := NewServer(ServerOptions{
		Config: cfg,
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	if err := srv.rebuildSources(context.Background()); err != nil {
		t.Fatalf("rebuildSources: %v", err)
	}
	return srv
}

func TestServer_ServesManifests(t *testing.T) {
	srv := newTestServer(t)
	h := srv.handler()

	t.Run("pages manifest", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest("GET", "/"+manifest.DevPagesManifestPath, nil))

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		want := `{"pages":["/","/about","/api/health"]}`
		if rec.Body.String() != want {
			t.Errorf("body = %q, want %q", rec.Body.String(), want)
		}
		if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q, want application/json", ct)
		}
	})

	t.Run("build manifest", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest("GET", "/"+manifest.BuildManifestPath, nil))

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		body := rec.Body.String()
		if !strings.HasPrefix(body, "self.__BUILD_MANIFEST = {") {
			t.Errorf("body does not start with manifest assignment: %q", body)
		}
		if !strings.Contains(body, `"sortedPages":["/","/about"]`) {
			t.Errorf("body missing page routes: %q", body)
		}
	})

	t.Run("middleware manifest", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest("GET", "/"+manifest.DevMiddlewareManifestPath, nil))

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		if rec.Body.String() != "[]" {
			t.Errorf("body = %q, want []", rec.Body.String())
		}
	})
}

func TestServer_ServesPagesAndStatic(t *testing.T) {
	srv := newTestServer(t)
	h := srv.handler()

	t.Run("page with reload script", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest("GET", "/about", nil))

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		body := rec.Body.String()
		if !strings.Contains(body, `<div id="__waymark">`) {
			t.Errorf("page shell missing mount point: %q", body)
		}
		if !strings.Contains(body, "_dev/reload") {
			t.Error("expected reload script to be injected into HTML")
		}
	})

	t.Run("api route", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest("GET", "/api/health", nil))

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q, want application/json", ct)
		}
		if strings.Contains(rec.Body.String(), "_dev/reload") {
			t.Error("reload script must not be injected into JSON")
		}
	})

	t.Run("static file", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest("GET", "/app.css", nil))

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		if rec.Body.String() != "body {}" {
			t.Errorf("body = %q, want file content", rec.Body.String())
		}
	})

	t.Run("unknown path", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest("GET", "/nope", nil))

		if rec.Code != http.StatusNotFound {
			t.Fatalf("status = %d, want 404", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "404 Not Found") {
			t.Errorf("body missing 404 page: %q", rec.Body.String())
		}
	})
}

func TestServer_CanonicalizesRequestPaths(t *testing.T) {
	srv := newTestServer(t)
	h := srv.handler()

	tests := []struct {
		name       string
		target     string
		wantStatus int
	}{
		{"trailing slash", "/about/", http.StatusOK},
		{"double slash", "/api//health", http.StatusOK},
		{"dot dot resolves", "/nope/../about", http.StatusOK},
		{"escapes root", "/../secret", http.StatusBadRequest},
		{"backslash", `/a\b`, http.StatusBadRequest},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest("GET", tc.target, nil))

			if rec.Code != tc.wantStatus {
				t.Errorf("GET %s status = %d, want %d", tc.target, rec.Code, tc.wantStatus)
			}
		})
	}
}

func TestServer_RebuildPicksUpNewRoutes(t *testing.T) {
	srv := newTestServer(t)
	h := srv.handler()

	writeRoute(t, srv.config.Dir(), "app/routes/posts/[id].go")
	if err := srv.rebuildSources(context.Background()); err != nil {
		t.Fatalf("rebuildSources: %v", err)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/"+manifest.DevPagesManifestPath, nil))

	want := `{"pages":["/","/about","/api/health","/posts/[id]"]}`
	if rec.Body.String() != want {
		t.Errorf("body = %q, want %q", rec.Body.String(), want)
	}
}

func TestServer_MissingRoutesDir(t *testing.T) {
	tmpDir := t.TempDir()
	writeConfig(t, tmpDir, `{}`)

	cfg, err := config.Load(tmpDir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	srv := NewServer(ServerOptions{
		Config: cfg,
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})

	err = srv.Start(context.Background())
	if err == nil {
		t.Fatal("expected error for missing routes directory")
	}
	we, ok := err.(*errors.WaymarkError)
	if !ok || we.Code != "E100" {
		t.Errorf("error = %v, want E100", err)
	}
}
