package router

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// unmatchedRoute labels requests that hit no registered route
const unmatchedRoute = "unmatched"

type HandlerFunc func(http.ResponseWriter, *http.Request)

// AccessLogger receives one line per served request
type AccessLogger interface {
	Info(msg string, fields ...zap.Field)
}

// Observer is told about every served request, keyed by route pattern
type Observer func(method, route string, status int, d time.Duration)

type Router struct {
	mux      chi.Router
	log      AccessLogger
	observe  Observer
	shutdown time.Duration
	timeout  time.Duration
}

type Option func(*Router)

// WithLogger sets the access logger
func WithLogger(l AccessLogger) Option { return func(r *Router) { r.log = l } }

// WithObserver sets the per-request observer, typically a metrics recorder
func WithObserver(o Observer) Option { return func(r *Router) { r.observe = o } }

// WithShutdownTimeout bounds how long Start waits for in-flight requests
func WithShutdownTimeout(d time.Duration) Option { return func(r *Router) { r.shutdown = d } }

// WithRequestTimeout cancels each request's context after d and answers 504
// when the handler gave up without writing. Zero disables it.
func WithRequestTimeout(d time.Duration) Option { return func(r *Router) { r.timeout = d } }

func New(opts ...Option) *Router {
	r := &Router{
		mux:      chi.NewRouter(),
		log:      zap.NewNop(),
		observe:  func(string, string, int, time.Duration) {},
		shutdown: 10 * time.Second,
	}
	for _, opt := range opts {
		opt(r)
	}

	r.mux.Use(middleware.RequestID)
	r.mux.Use(middleware.RealIP)
	r.mux.Use(r.accessLog)
	r.mux.Use(middleware.Recoverer)
	if r.timeout > 0 {
		r.mux.Use(middleware.Timeout(r.timeout))
	}

	r.mux.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "Not Found", http.StatusNotFound)
	})
	r.mux.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
	})
	return r
}

// accessLog logs and observes every request once it has been served
func (r *Router) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, req.ProtoMajor)

		next.ServeHTTP(ww, req)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		route := unmatchedRoute
		if rctx := chi.RouteContext(req.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		duration := time.Since(start)

		r.observe(req.Method, route, status, duration)
		r.log.Info("HTTP request",
			zap.String("method", req.Method),
			zap.String("path", req.URL.Path),
			zap.String("route", route),
			zap.Int("status", status),
			zap.Duration("duration", duration),
			zap.String("request_id", middleware.GetReqID(req.Context())),
		)
	})
}

// --- Register paths ---
// Paths use chi patterns: "{name}" captures a segment, a trailing "*"
// matches the rest of the path.
func (r *Router) GET(path string, handler HandlerFunc)    { r.mux.Get(path, http.HandlerFunc(handler)) }
func (r *Router) POST(path string, handler HandlerFunc)   { r.mux.Post(path, http.HandlerFunc(handler)) }
func (r *Router) PUT(path string, handler HandlerFunc)    { r.mux.Put(path, http.HandlerFunc(handler)) }
func (r *Router) PATCH(path string, handler HandlerFunc)  { r.mux.Patch(path, http.HandlerFunc(handler)) }
func (r *Router) DELETE(path string, handler HandlerFunc) { r.mux.Delete(path, http.HandlerFunc(handler)) }

// Handle mounts an http.Handler for every method on path
func (r *Router) Handle(path string, h http.Handler) { r.mux.Handle(path, h) }

// Param returns a named path parameter of the current request
func Param(req *http.Request, name string) string { return chi.URLParam(req, name) }

// Routes lists registered routes as "METHOD path"
func (r *Router) Routes() []string {
	var routes []string
	_ = chi.Walk(r.mux, func(method, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		routes = append(routes, method+" "+route)
		return nil
	})
	return routes
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) { r.mux.ServeHTTP(w, req) }

// --- Start server ---
// Start serves on addr until ctx is done, then drains in-flight requests.
func (r *Router) Start(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           r.mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		r.log.Info("Server started", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), r.shutdown)
	defer cancel()
	r.log.Info("Server shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
