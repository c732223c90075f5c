package hue

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

// TransportConfig contains HTTP settings for talking to a bridge.
type TransportConfig struct {
	Timeout      time.Duration // Per-request timeout
	RateLimitRPS float64       // Requests per second across all callers, 0 disables pacing
}

// DefaultTransportConfig returns the stock transport settings.
func DefaultTransportConfig() TransportConfig {
	return TransportConfig{
		Timeout:      10 * time.Second,
		RateLimitRPS: 10.0,
	}
}

// Transport issues requests against a bridge and decodes the response
// envelope, turning error entries into APIError values and wire failures
// into NetworkError values. It holds no bridge state and is safe for
// concurrent use.
type Transport struct {
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewTransport creates a Transport. Zero config fields fall back to
// DefaultTransportConfig values.
func NewTransport(cfg TransportConfig) *Transport {
	def := DefaultTransportConfig()
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}

	t := &Transport{
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
	if cfg.RateLimitRPS > 0 {
		burst := int(cfg.RateLimitRPS)
		if burst < 1 {
			burst = 1
		}
		t.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimitRPS), burst)
	}
	return t
}

// Get fetches path and returns the raw JSON body. Read endpoints answer
// with a plain object on success, but report failures in the array
// envelope, so the body is checked for a hidden error before it is
// handed back.
func (t *Transport) Get(ctx context.Context, address, path string) (json.RawMessage, error) {
	data, status, err := t.do(ctx, address, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	if apiErr := errorInEnvelope(data); apiErr != nil {
		return nil, apiErr
	}
	if status != http.StatusOK {
		return nil, &NetworkError{
			Kind: KindHTTP,
			Op:   fmt.Sprintf("GET %s", t.url(address, path)),
			Err:  fmt.Errorf("unexpected status code: %d", status),
		}
	}
	return json.RawMessage(data), nil
}

// Send issues a command (POST or PUT with a JSON body) and decodes the
// response envelope. Any error entry in the envelope surfaces as an
// APIError even when the HTTP status is 200, which is how the bridge
// reports most failures.
func (t *Transport) Send(ctx context.Context, address, method, path string, body interface{}) ([]Applied, error) {
	data, status, err := t.do(ctx, address, method, path, body)
	if err != nil {
		return nil, err
	}

	applied, err := decodeEnvelope(data)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) {
			return nil, apiErr
		}
		if status != http.StatusOK {
			return nil, &NetworkError{
				Kind: KindHTTP,
				Op:   fmt.Sprintf("%s %s", method, t.url(address, path)),
				Err:  fmt.Errorf("unexpected status code: %d", status),
			}
		}
		return nil, err
	}
	return applied, nil
}

// do performs one HTTP exchange and returns the raw body and status code.
// All wire-level failures come back as NetworkError.
func (t *Transport) do(ctx context.Context, address, method, path string, body interface{}) ([]byte, int, error) {
	if t.limiter != nil {
		if err := t.limiter.Wait(ctx); err != nil {
			return nil, 0, err
		}
	}

	url := t.url(address, path)
	op := fmt.Sprintf("%s %s", method, url)

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create request: %w", err)
	}
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	log.Debug().Str("method", method).Str("url", url).Msg("Sending bridge request")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return nil, 0, newNetworkError(op, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, newNetworkError(op, err)
	}
	return data, resp.StatusCode, nil
}

// url joins a bridge address and an API path. Addresses are plain hosts or
// host:port pairs; the bridge speaks HTTP on its LAN interface.
func (t *Transport) url(address, path string) string {
	return fmt.Sprintf("http://%s/%s", address, strings.TrimPrefix(path, "/"))
}
