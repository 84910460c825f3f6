package service

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dastanaron/bookmark-organizer/internal/config"
	"github.com/dastanaron/bookmark-organizer/internal/models"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProber(timeout time.Duration) *ProbeService {
	cfg := config.ProbeConfig{Timeout: timeout, Delay: 0, UserAgent: "organizer-test/1.0"}
	return NewProbeService(cfg, zerolog.Nop()).WithSleep(func(context.Context, time.Duration) {})
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/ok", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/old", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/ok", http.StatusMovedPermanently)
	})
	mux.HandleFunc("/missing", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	mux.HandleFunc("/broken", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	mux.HandleFunc("/forbidden", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestProbe_Classification(t *testing.T) {
	srv := newTestServer(t)
	prober := newTestProber(2 * time.Second)
	ctx := context.Background()

	ok := prober.Probe(ctx, models.Bookmark{Title: "ok", URL: srv.URL + "/ok", Domain: "local"})
	assert.Equal(t, models.HTTPStatus(200), ok.Status)
	assert.False(t, ok.IsDead())
	assert.Equal(t, "ok", ok.Title)
	assert.Equal(t, "local", ok.Domain)

	redirected := prober.Probe(ctx, models.Bookmark{URL: srv.URL + "/old"})
	assert.Equal(t, models.HTTPStatus(200), redirected.Status)

	missing := prober.Probe(ctx, models.Bookmark{URL: srv.URL + "/missing"})
	assert.Equal(t, models.HTTPStatus(404), missing.Status)
	assert.True(t, missing.IsDead())
	assert.Empty(t, missing.Error)
	assert.Empty(t, missing.Note)

	broken := prober.Probe(ctx, models.Bookmark{URL: srv.URL + "/broken"})
	assert.Equal(t, models.HTTPStatus(500), broken.Status)
	assert.True(t, broken.IsDead())
	assert.Equal(t, "HTTP 500", broken.Note)
	assert.Empty(t, broken.Error)

	forbidden := prober.Probe(ctx, models.Bookmark{URL: srv.URL + "/forbidden"})
	assert.Equal(t, "HTTP 403", forbidden.Note)
}

func TestProbe_SendsHeadWithUserAgent(t *testing.T) {
	seen := make(chan *http.Request, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen <- r.Clone(context.Background())
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	res := newTestProber(2*time.Second).Probe(context.Background(), models.Bookmark{URL: srv.URL})
	require.False(t, res.IsDead())

	req := <-seen
	assert.Equal(t, http.MethodHead, req.Method)
	assert.Equal(t, "organizer-test/1.0", req.Header.Get("User-Agent"))
}

func TestProbe_ConnectionRefused(t *testing.T) {
	// unused local port to force a connection error
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	ln.Close()

	res := newTestProber(time.Second).Probe(context.Background(), models.Bookmark{URL: "http://" + addr})
	assert.Equal(t, models.StatusError, res.Status)
	assert.NotEmpty(t, res.Error)
	assert.True(t, res.IsDead())
}

func TestProbe_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	res := newTestProber(50*time.Millisecond).Probe(context.Background(), models.Bookmark{URL: srv.URL})
	assert.Equal(t, models.StatusError, res.Status)
	assert.NotEmpty(t, res.Error)
}

func TestProbe_MalformedURLs(t *testing.T) {
	prober := newTestProber(time.Second)
	for _, raw := range []string{"http://[::1", "not a url", "javascript:void(0)"} {
		res := prober.Probe(context.Background(), models.Bookmark{URL: raw})
		assert.Equal(t, models.StatusError, res.Status, raw)
		assert.NotEmpty(t, res.Error, raw)
	}
}

func TestProbeAll_SequentialWithDelayAfterEveryProbe(t *testing.T) {
	srv := newTestServer(t)

	var pauses []time.Duration
	cfg := config.ProbeConfig{Timeout: 2 * time.Second, Delay: 250 * time.Millisecond, UserAgent: "organizer-test/1.0"}
	prober := NewProbeService(cfg, zerolog.Nop()).WithSleep(func(_ context.Context, d time.Duration) {
		pauses = append(pauses, d)
	})

	bookmarks := []models.Bookmark{
		{URL: srv.URL + "/ok"},
		{URL: srv.URL + "/missing"},
		{URL: "http://[::1"},
		{URL: srv.URL + "/broken"},
	}
	results := prober.ProbeAll(context.Background(), bookmarks)

	require.Len(t, results, len(bookmarks))
	for i, r := range results {
		assert.Equal(t, bookmarks[i].URL, r.URL)
	}
	assert.Equal(t, []time.Duration{250 * time.Millisecond, 250 * time.Millisecond, 250 * time.Millisecond, 250 * time.Millisecond}, pauses)

	working, dead := 0, 0
	for _, r := range results {
		if r.IsDead() {
			dead++
		} else {
			working++
		}
	}
	assert.Equal(t, len(bookmarks), working+dead)
	assert.Equal(t, 1, working)
}

type stubClient struct {
	resp *http.Response
	err  error
	reqs []*http.Request
}

func (c *stubClient) Do(req *http.Request) (*http.Response, error) {
	c.reqs = append(c.reqs, req)
	return c.resp, c.err
}

func TestProbe_WithClient(t *testing.T) {
	client := &stubClient{resp: &http.Response{StatusCode: http.StatusTeapot, Body: http.NoBody}}
	res := newTestProber(time.Second).WithClient(client).Probe(context.Background(), models.Bookmark{URL: "https://example.com"})

	require.Len(t, client.reqs, 1)
	assert.Equal(t, models.HTTPStatus(418), res.Status)
	assert.Equal(t, "HTTP 418", res.Note)
}

func TestSleepContext_ReturnsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	sleepContext(ctx, time.Minute)
	assert.Less(t, time.Since(start), time.Second)
}
