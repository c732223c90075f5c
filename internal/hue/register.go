package hue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

// RegisterState is the observable state of the push-link handshake.
type RegisterState int

const (
	StateIdle RegisterState = iota
	StateRequesting
	StateWaiting
	StateSucceeded
	StateDenied
	StateTimedOut
)

// String returns a human-readable state name
func (s RegisterState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRequesting:
		return "requesting"
	case StateWaiting:
		return "waiting"
	case StateSucceeded:
		return "succeeded"
	case StateDenied:
		return "denied"
	case StateTimedOut:
		return "timed_out"
	default:
		return "unknown"
	}
}

// attemptOutcome classifies the result of one create-user request.
type attemptOutcome int

const (
	outcomePending attemptOutcome = iota // Bridge answered "link button not pressed"
	outcomeSuccess
	outcomeDenied // Non-retryable bridge error
	outcomeNetworkFailure
)

// advance decides the next handshake state from the outcome of the latest
// attempt and the number of attempts still in the budget. Success and
// denial end the handshake immediately; pending answers and transient
// failures retry while budget remains.
func advance(outcome attemptOutcome, remaining int) RegisterState {
	switch outcome {
	case outcomeSuccess:
		return StateSucceeded
	case outcomeDenied:
		return StateDenied
	}
	if remaining > 0 {
		return StateWaiting
	}
	return StateTimedOut
}

// RegisterConfig bounds the push-link polling loop.
type RegisterConfig struct {
	MaxAttempts   int           // Create-user attempts before giving up
	RetryInterval time.Duration // Pause between attempts
}

// DefaultRegisterConfig covers the bridge's ~30 second push-link window
// with room to spare: 12 attempts, 5 seconds apart.
func DefaultRegisterConfig() RegisterConfig {
	return RegisterConfig{
		MaxAttempts:   12,
		RetryInterval: 5 * time.Second,
	}
}

// Registrar drives the push-link handshake: it polls the bridge for a new
// username until the physical link button is pressed, a non-retryable error
// comes back, or the attempt budget runs out.
type Registrar struct {
	transport *Transport
	cfg       RegisterConfig

	// sleep waits between attempts; replaced in tests to avoid real delays.
	sleep func(ctx context.Context, d time.Duration) error
}

// NewRegistrar creates a Registrar. Zero config fields fall back to
// DefaultRegisterConfig values.
func NewRegistrar(transport *Transport, cfg RegisterConfig) *Registrar {
	def := DefaultRegisterConfig()
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = def.MaxAttempts
	}
	if cfg.RetryInterval <= 0 {
		cfg.RetryInterval = def.RetryInterval
	}

	return &Registrar{
		transport: transport,
		cfg:       cfg,
		sleep:     sleepContext,
	}
}

// Register performs the handshake against one bridge and returns the
// username the bridge issued. The device type is stored by the bridge as a
// label for the new user, it carries no semantics here.
//
// When the budget runs out the returned error distinguishes a reachable
// bridge whose button was never pressed (ErrPushLinkTimeout) from a bridge
// that never answered at all (the last NetworkError).
func (r *Registrar) Register(ctx context.Context, address, deviceType string) (string, error) {
	if address == "" {
		return "", errors.New("bridge address must not be empty")
	}
	if deviceType == "" {
		return "", errors.New("device type must not be empty")
	}

	var lastNetErr error
	sawBridge := false

	for attempt := 1; ; attempt++ {
		username, outcome, attemptErr := r.attempt(ctx, address, deviceType)

		switch outcome {
		case outcomePending:
			sawBridge = true
			log.Info().
				Str("bridge", address).
				Int("attempt", attempt).
				Int("max_attempts", r.cfg.MaxAttempts).
				Msg("Link button not pressed yet")
		case outcomeNetworkFailure:
			lastNetErr = attemptErr
			log.Warn().
				Err(attemptErr).
				Str("bridge", address).
				Int("attempt", attempt).
				Msg("Registration attempt failed")
		}

		switch advance(outcome, r.cfg.MaxAttempts-attempt) {
		case StateSucceeded:
			log.Info().Str("bridge", address).Msg("Bridge issued a username")
			return username, nil

		case StateDenied:
			return "", fmt.Errorf("registration denied: %w", attemptErr)

		case StateTimedOut:
			if !sawBridge && lastNetErr != nil {
				return "", fmt.Errorf("bridge never answered: %w", lastNetErr)
			}
			return "", fmt.Errorf("%w within %d attempts", ErrPushLinkTimeout, attempt)

		case StateWaiting:
			if err := r.sleep(ctx, r.cfg.RetryInterval); err != nil {
				return "", err
			}
		}
	}
}

// attempt sends one create-user request and classifies the result.
func (r *Registrar) attempt(ctx context.Context, address, deviceType string) (string, attemptOutcome, error) {
	applied, err := r.transport.Send(ctx, address, http.MethodPost, "api", createUserRequest{DeviceType: deviceType})
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) {
			if apiErr.Type == ErrTypeLinkButtonNotPressed {
				return "", outcomePending, err
			}
			return "", outcomeDenied, err
		}
		return "", outcomeNetworkFailure, err
	}

	for _, a := range applied {
		if a.Attribute() != "username" {
			continue
		}
		var username string
		if err := json.Unmarshal(a.Value, &username); err != nil {
			return "", outcomeDenied, fmt.Errorf("malformed username in response: %w", err)
		}
		if username != "" {
			return username, outcomeSuccess, nil
		}
	}
	return "", outcomeDenied, errors.New("response carried no username")
}

// sleepContext waits for d unless the context ends first.
func sleepContext(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
