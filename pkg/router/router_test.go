package router

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestRouter_Routes(t *testing.T) {
	r := New()
	r.GET("/data", func(w http.ResponseWriter, _ *http.Request) { _, _ = w.Write([]byte("ok")) })
	r.POST("/imports", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusCreated) })
	r.GET("/charts/{chart}.svg", func(w http.ResponseWriter, req *http.Request) {
		_, _ = w.Write([]byte(Param(req, "chart")))
	})

	tests := []struct {
		method string
		path   string
		status int
		body   string
	}{
		{http.MethodGet, "/data", http.StatusOK, "ok"},
		{http.MethodPost, "/imports", http.StatusCreated, ""},
		{http.MethodGet, "/charts/topics.svg", http.StatusOK, "topics"},
		{http.MethodGet, "/missing", http.StatusNotFound, "Not Found\n"},
		{http.MethodDelete, "/data", http.StatusMethodNotAllowed, "Method Not Allowed\n"},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))
			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.body, rec.Body.String())
		})
	}

	assert.ElementsMatch(t, []string{"GET /data", "POST /imports", "GET /charts/{chart}.svg"}, r.Routes())
}

func TestRouter_AccessLogAndObserver(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)

	type seen struct {
		method, route string
		status        int
	}
	var observed []seen

	r := New(
		WithLogger(zap.New(core)),
		WithObserver(func(method, route string, status int, _ time.Duration) {
			observed = append(observed, seen{method, route, status})
		}),
	)
	r.GET("/charts/{chart}.svg", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNoContent) })

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/charts/topics.svg", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nope", nil))

	require.Len(t, observed, 2)
	assert.Equal(t, seen{"GET", "/charts/{chart}.svg", http.StatusNoContent}, observed[0])
	assert.Equal(t, seen{"GET", unmatchedRoute, http.StatusNotFound}, observed[1])

	entries := logs.FilterMessage("HTTP request").All()
	require.Len(t, entries, 2)
	fields := entries[0].ContextMap()
	assert.Equal(t, "/charts/topics.svg", fields["path"])
	assert.EqualValues(t, http.StatusNoContent, fields["status"])
	assert.NotEmpty(t, fields["request_id"])
}

func TestRouter_Recovers(t *testing.T) {
	r := New()
	r.GET("/panic", func(http.ResponseWriter, *http.Request) { panic("boom") })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/panic", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestRouter_RequestTimeout(t *testing.T) {
	r := New(WithRequestTimeout(20 * time.Millisecond))
	r.GET("/slow", func(_ http.ResponseWriter, req *http.Request) {
		<-req.Context().Done()
	})
	r.GET("/fast", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/slow", nil))
	assert.Equal(t, http.StatusGatewayTimeout, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/fast", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_StartAndShutdown(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())

	r := New(WithShutdownTimeout(time.Second))
	r.GET("/healthz", func(w http.ResponseWriter, _ *http.Request) { _, _ = w.Write([]byte("ok")) })

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Start(ctx, addr) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + addr + "/healthz")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("server did not stop")
	}
}
