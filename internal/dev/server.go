package dev

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"net/http"
	"os"
	"path"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/waymark-dev/waymark/internal/config"
	"github.com/waymark-dev/waymark/internal/errors"
	"github.com/waymark-dev/waymark/pkg/manifest"
	"github.com/waymark-dev/waymark/pkg/middleware"
	"github.com/waymark-dev/waymark/pkg/routepath"
	"github.com/waymark-dev/waymark/pkg/source"
)

// ServerOptions configures the development server.
type ServerOptions struct {
	// Config is the project configuration.
	Config *config.Config

	// Logger receives server logs. Defaults to slog.Default().
	Logger *slog.Logger

	// OnReload is called when browsers are reloaded.
	OnReload func(clients int)
}

// Server is the development server.
//
// It keeps a content-source tree built from the routes directory and
// dispatches every request into it: the manifest source answers the
// generated-manifest paths, page and API sources answer their routes, and
// the static source answers public files. When route files change the tree
// is rebuilt and connected browsers reload.
type Server struct {
	config       *config.Config
	logger       *slog.Logger
	options      ServerOptions
	watcher      *Watcher
	reloadServer *ReloadServer
	changeCh     chan Change
	httpServer   *http.Server
	hotReload    bool

	mu      sync.Mutex
	running bool

	sourceMu sync.RWMutex
	root     source.Source
}

// NewServer creates a new development server.
func NewServer(options ServerOptions) *Server {
	cfg := options.Config
	hotReload := cfg.Dev.HotReload

	logger := options.Logger
	if logger == nil {
		logger = slog.Default()
	}

	watcher := NewWatcher(WatcherConfig{
		Paths:    CollectWatchPaths(cfg),
		Ignore:   append(DefaultIgnore, cfg.Dev.Ignore...),
		Debounce: 100 * time.Millisecond,
	})

	var reloadServer *ReloadServer
	if hotReload {
		reloadServer = NewReloadServer()
	}

	return &Server{
		config:       cfg,
		logger:       logger,
		options:      options,
		watcher:      watcher,
		reloadServer: reloadServer,
		hotReload:    hotReload,
	}
}

// Start starts the development server. It blocks until ctx is cancelled
// or the server fails.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = true
	s.mu.Unlock()

	routesPath := s.config.RoutesPath()
	if _, err := os.Stat(routesPath); os.IsNotExist(err) {
		return errors.New("E100").
			WithDetail(fmt.Sprintf("looked in %s", routesPath)).
			WithSuggestion("Create the routes directory or set paths.routes in waymark.json.")
	}

	// Initial scan
	if err := s.rebuildSources(ctx); err != nil {
		return err
	}

	// Set up watcher callback
	s.changeCh = make(chan Change, 64)
	s.watcher.OnChange(func(change Change) {
		select {
		case s.changeCh <- change:
		default:
		}
	})

	// Start watcher in background
	go s.watcher.Start(ctx)
	go s.processChanges(ctx)

	s.httpServer = &http.Server{
		Addr:    s.config.DevAddress(),
		Handler: s.handler(),
	}

	s.logger.Info("dev server running", "url", s.config.DevURL())

	errCh := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		s.Stop()
		return nil
	case err := <-errCh:
		s.Stop()
		if err != nil {
			return errors.FromError(err, "E160")
		}
		return nil
	}
}

// Stop stops the development server.
func (s *Server) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}

	s.running = false
	s.watcher.Stop()
	if s.reloadServer != nil {
		s.reloadServer.Close()
	}

	if s.httpServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.httpServer.Shutdown(ctx)
	}
}

// handler builds the HTTP handler tree.
func (s *Server) handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Prometheus())
	r.Use(middleware.OpenTelemetry(
		middleware.WithRequestFilter(func(req *http.Request) bool {
			return req.URL.Path != "/metrics" && req.URL.Path != ReloadEndpoint
		}),
	))

	r.Handle("/metrics", promhttp.Handler())
	if s.reloadEnabled() {
		r.Get(ReloadEndpoint, s.reloadServer.HandleWebSocket)
	}
	r.NotFound(s.handleSource)

	return r
}

// rebuildSources rescans the routes directory and swaps in a fresh
// content-source tree. The previous tree keeps serving until the swap.
func (s *Server) rebuildSources(ctx context.Context) error {
	routes, err := source.Scan(s.config.RoutesPath(), source.ScanOptions{})
	if err != nil {
		return errors.FromError(err, "E101")
	}

	var opts []manifest.Option
	if rewrites := s.config.Rewrites(); rewrites != nil {
		opts = append(opts, manifest.WithRewrites(rewrites))
	}
	manifests := manifest.NewDevManifestSource([]source.Source{routes}, opts...)

	static := source.NewStaticSource(s.config.PublicPath(), s.config.StaticPrefix())

	// Manifests answer first so no catch-all page can shadow them. Static
	// files win over dynamic routes, literal page routes are unaffected.
	root := source.Combine(manifests, static, routes)

	s.sourceMu.Lock()
	s.root = root
	s.sourceMu.Unlock()

	// Walk the whole serving tree: the routes source is reachable both as
	// a direct child and through the manifest source's roots, and must be
	// expanded once.
	start := time.Now()
	found, err := manifest.DiscoverRoutes(ctx, root)
	if err != nil {
		s.logger.Warn("route discovery failed", "err", err)
		return nil
	}
	middleware.RecordDiscovery(len(found), time.Since(start))
	s.logger.Info("routes discovered", "count", len(found))

	return nil
}

// handleSource dispatches a request into the content-source tree.
func (s *Server) handleSource(w http.ResponseWriter, r *http.Request) {
	s.sourceMu.RLock()
	root := s.root
	s.sourceMu.RUnlock()
	if root == nil {
		http.Error(w, "server is starting", http.StatusServiceUnavailable)
		return
	}

	canon, err := routepath.CanonicalizePath(r.URL.Path)
	if err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	// Sources match paths without the leading slash.
	reqPath := strings.TrimPrefix(canon.Path, "/")

	res, err := root.Get(r.Context(), reqPath)
	if err != nil {
		s.logger.Error("request failed", "path", r.URL.Path, "err", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	if res.IsNotFound() {
		s.writeNotFound(w, r)
		return
	}

	switch reqPath {
	case manifest.DevPagesManifestPath, manifest.BuildManifestPath, manifest.DevMiddlewareManifestPath:
		middleware.RecordManifestRequest(path.Base(reqPath))
	}

	body := res.Body
	if s.reloadEnabled() && strings.Contains(res.ContentType, "text/html") {
		body = injectReloadScript(body)
	}

	if res.ContentType != "" {
		w.Header().Set("Content-Type", res.ContentType)
	}
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.Write(body)
}

// injectReloadScript inserts the live reload client before </body>.
func injectReloadScript(body []byte) []byte {
	s := string(body)
	if idx := strings.LastIndex(s, "</body>"); idx != -1 {
		s = s[:idx] + DevClientScript + s[idx:]
	} else if idx := strings.LastIndex(s, "</html>"); idx != -1 {
		s = s[:idx] + DevClientScript + s[idx:]
	} else {
		s += DevClientScript
	}
	return []byte(s)
}

// writeNotFound renders the development 404 page.
func (s *Server) writeNotFound(w http.ResponseWriter, r *http.Request) {
	reloadScript := ""
	if s.reloadEnabled() {
		reloadScript = DevClientScript
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	fmt.Fprintf(w, `<!DOCTYPE html>
<html>
<head><title>404 - Waymark Dev Server</title></head>
<body style="font-family: system-ui; padding: 40px; background: #1a1a1a; color: #fff;">
<h1 style="color: #ff5555;">404 Not Found</h1>
<p>No route matches <code>%s</code>.</p>
<p style="color: #888;">Add a file under the routes directory and this page will reload.</p>
%s
</body>
</html>`, html.EscapeString(r.URL.Path), reloadScript)
}

// processChanges serializes file change handling and coalesces bursts.
func (s *Server) processChanges(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case change := <-s.changeCh:
			changes := []Change{change}
			draining := true
			for draining {
				select {
				case next := <-s.changeCh:
					changes = append(changes, next)
				default:
					draining = false
				}
			}
			s.handleChanges(ctx, changes)
		}
	}
}

// handleChanges handles a batch of file changes.
func (s *Server) handleChanges(ctx context.Context, changes []Change) {
	if len(changes) == 0 {
		return
	}

	hasRoute := false
	hasCSS := false
	hasAsset := false

	for _, change := range changes {
		s.logger.Debug("changed", "path", change.Path)
		switch change.Type {
		case ChangeRoute:
			hasRoute = true
		case ChangeCSS:
			hasCSS = true
		case ChangeAsset:
			hasAsset = true
		}
	}

	if hasRoute {
		s.handleRouteChange(ctx)
		return
	}

	if hasCSS {
		s.handleCSSChange(changes)
		return
	}

	if hasAsset {
		s.handleAssetChange()
	}
}

func (s *Server) handleRouteChange(ctx context.Context) {
	s.logger.Info("routes changed, rescanning")
	if err := s.rebuildSources(ctx); err != nil {
		s.logger.Error("route scan failed", "err", err)
		s.notifyError(err.Error())
		return
	}

	s.clearReloadError()
	s.notifyReload()
}

func (s *Server) handleCSSChange(changes []Change) {
	if !s.reloadEnabled() {
		s.logger.Info("css changed (hot reload disabled)")
		return
	}

	var cssPath string
	for _, change := range changes {
		if change.Type == ChangeCSS {
			cssPath = change.Path
			break
		}
	}

	s.reloadServer.NotifyCSS(cssPath)
	s.logger.Info("css reloaded")
}

func (s *Server) handleAssetChange() {
	if !s.reloadEnabled() {
		s.logger.Info("asset changed (hot reload disabled)")
		return
	}

	s.reloadServer.NotifyReload()
	s.logger.Info("browsers reloaded", "clients", s.reloadServer.ClientCount())
}

func (s *Server) reloadEnabled() bool {
	return s.hotReload && s.reloadServer != nil
}

func (s *Server) notifyReload() {
	if !s.reloadEnabled() {
		s.logger.Info("hot reload disabled; rescan complete")
		return
	}

	s.reloadServer.NotifyReload()
	if s.options.OnReload != nil {
		s.options.OnReload(s.reloadServer.ClientCount())
	}
	s.logger.Info("browsers reloaded", "clients", s.reloadServer.ClientCount())
}

func (s *Server) notifyError(errMsg string) {
	if !s.reloadEnabled() {
		return
	}
	s.reloadServer.NotifyError(errMsg)
}

func (s *Server) clearReloadError() {
	if !s.reloadEnabled() {
		return
	}
	s.reloadServer.ClearError()
}
