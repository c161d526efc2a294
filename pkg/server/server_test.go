package server

import (
	"bytes"
	"context"
	"encoding/json"
	"image/png"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shadowboard/shadowboard/pkg/config"
	"github.com/shadowboard/shadowboard/pkg/errors"
	"github.com/shadowboard/shadowboard/pkg/pipeline"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	cfg := config.Default()
	for name, p := range cfg.Profiles {
		p.Logo = ""
		cfg.Profiles[name] = p
	}
	logger := log.NewWithOptions(io.Discard, log.Options{})
	srv := httptest.NewServer(New(pipeline.NewRunner(nil, nil, cfg, logger), logger).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func get(t *testing.T, srv *httptest.Server, path string) *http.Response {
	t.Helper()
	resp, err := http.Get(srv.URL + path)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)
	resp := get(t, srv, "/healthz")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body["status"])
}

func TestIndex(t *testing.T) {
	srv := newTestServer(t)
	resp := get(t, srv, "/")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "Shadowboard Grid Template Generator")
	assert.Contains(t, string(body), `value="fraction"`)
	assert.Contains(t, string(body), `value="alternate"`)
}

func TestDimensions(t *testing.T) {
	srv := newTestServer(t)

	t.Run("valid", func(t *testing.T) {
		resp := get(t, srv, "/api/dimensions?width=5&height=3")
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var body dimensionsResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.True(t, body.Valid)
		assert.Equal(t, 5.0, body.Dims.Width)
		assert.Equal(t, `5.00" x 3.00"`, body.Label)
		assert.Equal(t, "shadowboard-template-5x3.png", body.Filename)
		assert.InDelta(t, 127.0, body.Millimeters.Width, 1e-9)
		require.NotNil(t, body.Surface)
		assert.Equal(t, 504, body.Surface.Width)
		assert.Equal(t, 360, body.Surface.Height)
		require.NotNil(t, body.Pages)
		assert.Equal(t, 1, body.Pages.Total)
		assert.True(t, body.TiledPrinting)
	})

	t.Run("fraction", func(t *testing.T) {
		resp := get(t, srv, "/api/dimensions?mode=fraction&width_whole=2&width_num=1&width_den=4&height_whole=1&height_num=1&height_den=2")
		var body dimensionsResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, 2.25, body.Dims.Width)
		assert.Equal(t, 1.5, body.Dims.Height)
	})

	t.Run("empty", func(t *testing.T) {
		resp := get(t, srv, "/api/dimensions")
		var body dimensionsResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.False(t, body.Valid)
		assert.Nil(t, body.Surface)
		assert.Empty(t, body.Filename)
	})

	t.Run("bad mode", func(t *testing.T) {
		resp := get(t, srv, "/api/dimensions?mode=furlongs")
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestTemplatePNG(t *testing.T) {
	srv := newTestServer(t)
	resp := get(t, srv, "/template.png?width=5&height=3")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "shadowboard-template-5x3.png")

	img, err := png.Decode(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, 504, img.Bounds().Dx())
	assert.Equal(t, 360, img.Bounds().Dy())
}

func TestArtifacts(t *testing.T) {
	srv := newTestServer(t)
	tests := []struct {
		path        string
		contentType string
		prefix      string
	}{
		{"/print?width=5&height=3", "text/html; charset=utf-8", "<!DOCTYPE html>"},
		{"/print/tiled?width=10&height=10", "text/html; charset=utf-8", "<!DOCTYPE html>"},
		{"/template.pdf?width=5&height=3", "application/pdf", "%PDF"},
		{"/template.pdf?width=10&height=10&tiled=1", "application/pdf", "%PDF"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp := get(t, srv, tt.path)
			require.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Equal(t, tt.contentType, resp.Header.Get("Content-Type"))
			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			assert.True(t, bytes.HasPrefix(bytes.TrimSpace(body), []byte(tt.prefix)), "body starts with %q", tt.prefix)
		})
	}
}

func TestArtifactErrors(t *testing.T) {
	srv := newTestServer(t)
	tests := []struct {
		name   string
		path   string
		status int
		code   string
	}{
		{"no template", "/template.png?width=0&height=3", http.StatusNoContent, ""},
		{"missing input", "/print", http.StatusNoContent, ""},
		{"bad mode", "/template.png?mode=cubits&width=5&height=3", http.StatusBadRequest, "INVALID_MODE"},
		{"unknown profile", "/template.png?width=5&height=3&profile=nope", http.StatusBadRequest, "INVALID_PROFILE"},
		{"tiled disabled", "/print/tiled?width=5&height=3&profile=alternate", http.StatusForbidden, "UNSUPPORTED"},
		{"template too large", "/template.png?width=1e9&height=1", http.StatusBadRequest, "INVALID_INPUT"},
		{"tiled too large", "/print/tiled?width=1e9&height=1e9", http.StatusBadRequest, "INVALID_INPUT"},
		{"dimensions too large", "/api/dimensions?width=1e9&height=1e9", http.StatusBadRequest, "INVALID_INPUT"},
		{"metric too large", "/api/dimensions?mode=metric&width=5000&height=10", http.StatusBadRequest, "INVALID_INPUT"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := get(t, srv, tt.path)
			require.Equal(t, tt.status, resp.StatusCode)
			if tt.code == "" {
				return
			}
			var body errorResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, tt.code, string(body.Code))
			assert.NotEmpty(t, body.Error)
			assert.Equal(t, resp.Header.Get(RequestIDHeader), body.RequestID)
		})
	}
}

func TestStatusFor(t *testing.T) {
	_, missing := config.Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.Error(t, missing)

	tests := []struct {
		err  error
		want int
	}{
		{errors.New(errors.ErrCodeInvalidInput, "too large"), http.StatusBadRequest},
		{errors.New(errors.ErrCodeUnsupported, "tiled"), http.StatusForbidden},
		{missing, http.StatusNotFound},
		{errors.New(errors.ErrCodeEmptyTemplate, "empty"), http.StatusNoContent},
		{io.ErrUnexpectedEOF, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, statusFor(tt.err), "statusFor(%v)", tt.err)
	}
}

func TestRequestID(t *testing.T) {
	srv := newTestServer(t)

	t.Run("generated", func(t *testing.T) {
		resp := get(t, srv, "/healthz")
		assert.Len(t, resp.Header.Get(RequestIDHeader), 36)
	})

	t.Run("echoed", func(t *testing.T) {
		const id = "5f0c3c9e-4d7a-4b8e-9c57-3e1d2a6b7c80"
		req, err := http.NewRequest(http.MethodGet, srv.URL+"/healthz", nil)
		require.NoError(t, err)
		req.Header.Set(RequestIDHeader, id)
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, id, resp.Header.Get(RequestIDHeader))
	})

	t.Run("garbage replaced", func(t *testing.T) {
		req, err := http.NewRequest(http.MethodGet, srv.URL+"/healthz", nil)
		require.NoError(t, err)
		req.Header.Set(RequestIDHeader, "<script>")
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.False(t, strings.Contains(resp.Header.Get(RequestIDHeader), "script"))
	})
}

func TestListenAndServe(t *testing.T) {
	logger := log.NewWithOptions(io.Discard, log.Options{})
	s := New(pipeline.NewRunner(nil, nil, nil, logger), logger)

	ctx, cancel := context.WithCancel(context.Background())
	addrc := make(chan net.Addr, 1)
	done := make(chan error, 1)
	go func() { done <- s.ListenAndServe(ctx, "127.0.0.1:0", func(a net.Addr) { addrc <- a }) }()

	var addr net.Addr
	select {
	case addr = <-addrc:
	case err := <-done:
		t.Fatalf("server exited early: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not start")
	}

	resp, err := http.Get("http://" + addr.String() + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestListenAndServeDrainsRequests(t *testing.T) {
	logger := log.NewWithOptions(io.Discard, log.Options{})
	s := New(pipeline.NewRunner(nil, nil, nil, logger), logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	started := make(chan struct{})
	s.router.Get("/slow", func(w http.ResponseWriter, r *http.Request) {
		close(started)
		<-ctx.Done()
		if err := r.Context().Err(); err != nil {
			http.Error(w, err.Error(), http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte("done"))
	})

	addrc := make(chan net.Addr, 1)
	done := make(chan error, 1)
	go func() { done <- s.ListenAndServe(ctx, "127.0.0.1:0", func(a net.Addr) { addrc <- a }) }()

	var addr net.Addr
	select {
	case addr = <-addrc:
	case <-time.After(5 * time.Second):
		t.Fatal("server did not start")
	}

	type result struct {
		status int
		body   string
		err    error
	}
	resc := make(chan result, 1)
	go func() {
		resp, err := http.Get("http://" + addr.String() + "/slow")
		if err != nil {
			resc <- result{err: err}
			return
		}
		defer resp.Body.Close()
		body, err := io.ReadAll(resp.Body)
		resc <- result{status: resp.StatusCode, body: string(body), err: err}
	}()

	select {
	case <-started:
	case <-time.After(5 * time.Second):
		t.Fatal("request did not reach the handler")
	}
	cancel()

	select {
	case res := <-resc:
		require.NoError(t, res.err)
		assert.Equal(t, http.StatusOK, res.status)
		assert.Equal(t, "done", res.body)
	case <-time.After(5 * time.Second):
		t.Fatal("request did not complete")
	}
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
