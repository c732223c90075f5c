package hue

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"
)

// Session is an authenticated handle on one bridge: the address plus the
// bridge-issued username all requests are made under. It is immutable and
// safe to share between goroutines; concurrency control is left to the
// transport's rate limit and the bridge itself.
type Session struct {
	transport *Transport
	address   string
	username  string
}

// NewSession binds a transport to a bridge address and username. The
// username is treated as opaque, it is only ever spliced into request
// paths. Whether it is still valid only shows up when the bridge answers
// the first request.
func NewSession(transport *Transport, address, username string) (*Session, error) {
	if transport == nil {
		return nil, errors.New("transport must not be nil")
	}
	if address == "" {
		return nil, errors.New("bridge address must not be empty")
	}
	if username == "" {
		return nil, errors.New("username must not be empty")
	}

	return &Session{
		transport: transport,
		address:   address,
		username:  username,
	}, nil
}

// Address returns the bridge address this session talks to.
func (s *Session) Address() string {
	return s.address
}

// Username returns the bridge-issued username this session authenticates with.
func (s *Session) Username() string {
	return s.username
}

// Lights fetches all lights known to the bridge in one request. Lights come
// back in the bridge's response order with their bridge-local ids; nothing
// is renumbered or reordered.
func (s *Session) Lights(ctx context.Context) ([]Light, error) {
	raw, err := s.transport.Get(ctx, s.address, fmt.Sprintf("api/%s/lights", s.username))
	if err != nil {
		return nil, err
	}

	lights, err := decodeLightTable(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to decode lights response: %w", err)
	}

	log.Debug().Int("count", len(lights)).Msg("Fetched lights")
	return lights, nil
}

// Light fetches a single light by its bridge-local id.
func (s *Session) Light(ctx context.Context, id string) (*Light, error) {
	if id == "" {
		return nil, errors.New("light id must not be empty")
	}

	raw, err := s.transport.Get(ctx, s.address, fmt.Sprintf("api/%s/lights/%s", s.username, id))
	if err != nil {
		return nil, err
	}

	var light Light
	if err := json.Unmarshal(raw, &light); err != nil {
		return nil, fmt.Errorf("failed to decode light %s: %w", id, err)
	}
	light.ID = id
	return &light, nil
}

// SetLightState sends the set fields of change to one light and returns the
// attributes the bridge acknowledged, in response order. Unknown ids come
// back as the bridge's "resource not available" error, out-of-range values
// as its "invalid value" error; both are APIError values.
func (s *Session) SetLightState(ctx context.Context, id string, change StateChange) ([]Applied, error) {
	if id == "" {
		return nil, errors.New("light id must not be empty")
	}
	if change.IsEmpty() {
		return nil, errors.New("state change specifies no attribute")
	}

	path := fmt.Sprintf("api/%s/lights/%s/state", s.username, id)
	applied, err := s.transport.Send(ctx, s.address, http.MethodPut, path, change)
	if err != nil {
		return nil, err
	}

	log.Debug().Str("light", id).Int("applied", len(applied)).Msg("Updated light state")
	return applied, nil
}

// decodeLightTable decodes the id-to-light object read endpoints return.
// The id order of the response is preserved, which a plain map decode would
// lose.
func decodeLightTable(data []byte) ([]Light, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("expected object, got %v", tok)
	}

	lights := make([]Light, 0)
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		id, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("expected light id, got %v", keyTok)
		}

		var light Light
		if err := dec.Decode(&light); err != nil {
			return nil, fmt.Errorf("light %s: %w", id, err)
		}
		light.ID = id
		lights = append(lights, light)
	}
	return lights, nil
}
