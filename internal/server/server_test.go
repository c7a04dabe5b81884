package server

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-addressbook/internal/config"
)

// -----------------------------------------------------------------------------
// Handler Tests
// -----------------------------------------------------------------------------

func serve(t *testing.T, h http.Handler, req *http.Request) *http.Response {
	t.Helper()
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	resp := w.Result()
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

// TestHandler_ServingContent verifies headers and body for each published route.
func TestHandler_ServingContent(t *testing.T) {
	tests := []struct {
		route   string
		mime    string
		payload []byte
	}{
		{config.RouteCalendar, config.MimeTextCalendar, []byte("BEGIN:VCALENDAR\r\nVERSION:2.0\r\nEND:VCALENDAR")},
		{config.RouteContacts, config.MimeTextVCard, []byte("BEGIN:VCARD\r\nVERSION:4.0\r\nFN:Alice\r\nEND:VCARD")},
	}

	for _, tt := range tests {
		t.Run(tt.route, func(t *testing.T) {
			srv := NewFeedServer("0")
			require.NoError(t, srv.Publish(tt.route, tt.payload))

			resp := serve(t, srv.Handler(), httptest.NewRequest(http.MethodGet, tt.route, nil))

			assert.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Equal(t, tt.mime, resp.Header.Get(config.HeaderContentType))
			assert.Equal(t, config.MimeNoSniff, resp.Header.Get(config.HeaderXContentType))
			assert.Contains(t, resp.Header.Get(config.HeaderCacheControl), "no-cache")
			assert.NotEmpty(t, resp.Header.Get(config.HeaderETag))
			assert.NotEmpty(t, resp.Header.Get(config.HeaderLastModified))

			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			assert.Equal(t, tt.payload, body)
		})
	}
}

// TestHandler_RoutesAreIndependent ensures publishing one feed leaves the other untouched.
func TestHandler_RoutesAreIndependent(t *testing.T) {
	srv := NewFeedServer("0")
	require.NoError(t, srv.Publish(config.RouteCalendar, []byte("CAL")))

	resp := serve(t, srv.Handler(), httptest.NewRequest(http.MethodGet, config.RouteContacts, nil))
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	resp = serve(t, srv.Handler(), httptest.NewRequest(http.MethodGet, config.RouteCalendar, nil))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestHandler_UnknownPath(t *testing.T) {
	srv := NewFeedServer("0")
	resp := serve(t, srv.Handler(), httptest.NewRequest(http.MethodGet, "/secret", nil))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

// TestHandler_HeadHasNoBody verifies HEAD returns headers only.
func TestHandler_HeadHasNoBody(t *testing.T) {
	srv := NewFeedServer("0")
	require.NoError(t, srv.Publish(config.RouteCalendar, []byte("BEGIN:VCALENDAR")))

	resp := serve(t, srv.Handler(), httptest.NewRequest(http.MethodHead, config.RouteCalendar, nil))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get(config.HeaderETag))

	body, _ := io.ReadAll(resp.Body)
	assert.Empty(t, body)
}

// TestHandler_Caching verifies If-None-Match produces 304 Not Modified.
func TestHandler_Caching(t *testing.T) {
	srv := NewFeedServer("0")
	require.NoError(t, srv.Publish(config.RouteCalendar, []byte("DATA_VERSION_1")))
	h := srv.Handler()

	first := serve(t, h, httptest.NewRequest(http.MethodGet, config.RouteCalendar, nil))
	etag := first.Header.Get(config.HeaderETag)
	require.NotEmpty(t, etag, "Server must provide an ETag")

	req := httptest.NewRequest(http.MethodGet, config.RouteCalendar, nil)
	req.Header.Set(config.HeaderIfNoneMatch, etag)
	resp := serve(t, h, req)

	assert.Equal(t, http.StatusNotModified, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Empty(t, body, "Body must be empty on 304 Not Modified")

	t.Run("Stale ETag gets full body", func(t *testing.T) {
		require.NoError(t, srv.Publish(config.RouteCalendar, []byte("DATA_VERSION_2")))

		req := httptest.NewRequest(http.MethodGet, config.RouteCalendar, nil)
		req.Header.Set(config.HeaderIfNoneMatch, etag)
		resp := serve(t, h, req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.NotEqual(t, etag, resp.Header.Get(config.HeaderETag))
	})
}

func TestHandler_IfModifiedSince(t *testing.T) {
	srv := NewFeedServer("0")
	require.NoError(t, srv.Publish(config.RouteContacts, []byte("BEGIN:VCARD")))
	h := srv.Handler()

	future := time.Now().Add(time.Hour).UTC().Format(http.TimeFormat)
	req := httptest.NewRequest(http.MethodGet, config.RouteContacts, nil)
	req.Header.Set(config.HeaderIfModifiedSince, future)
	assert.Equal(t, http.StatusNotModified, serve(t, h, req).StatusCode)

	past := time.Now().Add(-24 * time.Hour).UTC().Format(http.TimeFormat)
	req = httptest.NewRequest(http.MethodGet, config.RouteContacts, nil)
	req.Header.Set(config.HeaderIfModifiedSince, past)
	assert.Equal(t, http.StatusOK, serve(t, h, req).StatusCode)

	req = httptest.NewRequest(http.MethodGet, config.RouteContacts, nil)
	req.Header.Set(config.HeaderIfModifiedSince, "yesterday")
	assert.Equal(t, http.StatusOK, serve(t, h, req).StatusCode, "Malformed dates are ignored")
}

// TestHandler_MethodNotAllowed ensures strictly GET and HEAD are accepted.
func TestHandler_MethodNotAllowed(t *testing.T) {
	srv := NewFeedServer("0")
	require.NoError(t, srv.Publish(config.RouteCalendar, []byte("X")))

	resp := serve(t, srv.Handler(), httptest.NewRequest(http.MethodPost, config.RouteCalendar, nil))

	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
	assert.Equal(t, config.AllowedMethods, resp.Header.Get(config.HeaderAllow))
}

// TestHandler_Initializing verifies the 503 behavior when data is not yet ready.
func TestHandler_Initializing(t *testing.T) {
	srv := NewFeedServer("0")

	resp := serve(t, srv.Handler(), httptest.NewRequest(http.MethodGet, config.RouteCalendar, nil))

	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, config.RetryAfterSeconds, resp.Header.Get(config.HeaderRetryAfter))
}

func TestPublish_UnknownRoute(t *testing.T) {
	srv := NewFeedServer("0")
	err := srv.Publish("/nope", []byte("x"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), config.ErrRouteUnknown)
}

func TestStart_RequiresPort(t *testing.T) {
	srv := NewFeedServer("")
	err := srv.Start(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), config.ErrPortRequired)
}

// -----------------------------------------------------------------------------
// Concurrency Tests (Race Detection)
// -----------------------------------------------------------------------------

// TestServer_RaceCondition runs writers and readers concurrently on both feeds.
// Run this with `go test -race`.
func TestServer_RaceCondition(t *testing.T) {
	srv := NewFeedServer("0")
	h := srv.Handler()
	routes := []string{config.RouteCalendar, config.RouteContacts}
	var wg sync.WaitGroup

	end := time.Now().Add(300 * time.Millisecond)

	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for i := 0; time.Now().Before(end); i++ {
				route := routes[i%len(routes)]
				if err := srv.Publish(route, []byte(fmt.Sprintf("VERSION:%d-%d", id, i))); err != nil {
					t.Errorf("publish failed: %v", err)
					return
				}
				time.Sleep(time.Microsecond)
			}
		}(w)
	}

	for r := 0; r < 16; r++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			route := routes[id%len(routes)]
			for time.Now().Before(end) {
				w := httptest.NewRecorder()
				h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, route, nil))

				if w.Code != http.StatusOK && w.Code != http.StatusServiceUnavailable {
					t.Errorf("Unexpected status code during race test: %d", w.Code)
				}
			}
		}(r)
	}

	wg.Wait()
}

// -----------------------------------------------------------------------------
// Integration Tests (Real TCP Lifecycle)
// -----------------------------------------------------------------------------

// TestServer_Lifecycle spins up the actual TCP listener to verify binding and
// graceful shutdown.
func TestServer_Lifecycle(t *testing.T) {
	const port = "18099"

	srv := NewFeedServer(port)
	ctx, cancel := context.WithCancel(context.Background())
	errChan := make(chan error, 1)

	go func() {
		errChan <- srv.Start(ctx)
	}()

	url := "http://127.0.0.1:" + port + config.RouteCalendar

	require.Eventually(t, func() bool {
		resp, err := http.Get(url)
		if err != nil {
			return false
		}
		_ = resp.Body.Close()
		return true
	}, 2*time.Second, 50*time.Millisecond, "Server failed to bind/listen in time")

	resp, err := http.Get(url)
	require.NoError(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	_ = resp.Body.Close()

	require.NoError(t, srv.Publish(config.RouteCalendar, []byte("BEGIN:VCALENDAR\nEND:VCALENDAR")))

	resp, err = http.Get(url)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, config.MimeTextCalendar, resp.Header.Get(config.HeaderContentType))

	body, err := io.ReadAll(resp.Body)
	assert.NoError(t, err)
	assert.Contains(t, string(body), "BEGIN:VCALENDAR")

	cancel()

	select {
	case err := <-errChan:
		assert.NoError(t, err, "Server should shutdown gracefully without error")
	case <-time.After(5 * time.Second):
		t.Fatal("Server shutdown timed out")
	}
}
