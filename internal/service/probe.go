package service

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/dastanaron/bookmark-organizer/internal/config"
	"github.com/dastanaron/bookmark-organizer/internal/models"
	"github.com/rs/zerolog"
)

// HTTPClient sends probe requests
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// ProbeService checks bookmark reachability one request at a time
type ProbeService struct {
	client    HTTPClient
	timeout   time.Duration
	delay     time.Duration
	userAgent string
	sleep     func(context.Context, time.Duration)
	logger    zerolog.Logger
}

// NewProbeService creates a probe service from configuration
func NewProbeService(cfg config.ProbeConfig, logger zerolog.Logger) *ProbeService {
	return &ProbeService{
		client:    &http.Client{Timeout: cfg.Timeout},
		timeout:   cfg.Timeout,
		delay:     cfg.Delay,
		userAgent: cfg.UserAgent,
		sleep:     sleepContext,
		logger:    logger.With().Str("component", "prober").Logger(),
	}
}

// WithClient replaces the HTTP client
func (s *ProbeService) WithClient(c HTTPClient) *ProbeService {
	s.client = c
	return s
}

// WithSleep replaces the function used to pause between probes
func (s *ProbeService) WithSleep(fn func(context.Context, time.Duration)) *ProbeService {
	s.sleep = fn
	return s
}

// ProbeAll probes every bookmark in order and pauses for the configured delay
// after each one. Results are returned in input order.
func (s *ProbeService) ProbeAll(ctx context.Context, bookmarks []models.Bookmark) []models.ProbeResult {
	total := len(bookmarks)
	results := make([]models.ProbeResult, 0, total)

	for i, b := range bookmarks {
		n := i + 1
		if n%10 == 0 {
			s.logger.Info().Msgf("Progress: %d/%d (%.1f%%)", n, total, float64(n)/float64(total)*100)
		}

		res := s.Probe(ctx, b)
		s.logger.Debug().
			Str("url", res.URL).
			Stringer("status", res.Status).
			Bool("dead", res.IsDead()).
			Msg("Probed bookmark")
		results = append(results, res)

		s.sleep(ctx, s.delay)
	}

	return results
}

// Probe issues a single HEAD request for the bookmark, following redirects,
// and classifies the outcome.
func (s *ProbeService) Probe(ctx context.Context, b models.Bookmark) models.ProbeResult {
	result := models.ProbeResult{
		Title:  b.Title,
		URL:    b.URL,
		Domain: b.Domain,
	}

	// each probe gets its own timeout budget
	reqCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodHead, b.URL, nil)
	if err != nil {
		result.Status = models.StatusError
		result.Error = err.Error()
		return result
	}
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		result.Status = models.StatusError
		result.Error = err.Error()
		return result
	}
	resp.Body.Close()

	result.Status = models.HTTPStatus(resp.StatusCode)
	if resp.StatusCode != http.StatusNotFound && !result.Status.Working() {
		result.Note = fmt.Sprintf("HTTP %d", resp.StatusCode)
	}
	return result
}

func sleepContext(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
