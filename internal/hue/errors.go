package hue

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// Bridge error types as reported in the "type" field of an error envelope
// entry. The bridge documents more, these are the ones this client reacts to.
const (
	ErrTypeUnauthorized          = 1
	ErrTypeInvalidJSON           = 2
	ErrTypeNotFound              = 3
	ErrTypeMethodNotAvailable    = 4
	ErrTypeMissingParameter      = 5
	ErrTypeParameterNotAvailable = 6
	ErrTypeInvalidValue          = 7
	ErrTypeNotModifiable         = 8
	ErrTypeLinkButtonNotPressed  = 101
	ErrTypeInternal              = 901
)

// ErrPushLinkTimeout is returned by Registrar.Register when the attempt
// budget runs out while the bridge keeps answering "link button not pressed".
var ErrPushLinkTimeout = errors.New("link button was not pressed")

// APIError is an application-level error reported by the bridge inside an
// otherwise successful HTTP exchange. Transport decodes it out of the
// response envelope so callers never see envelope entries themselves.
type APIError struct {
	Type        int    `json:"type"`
	Address     string `json:"address"`
	Description string `json:"description"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("bridge error %d at %s: %s", e.Type, e.Address, e.Description)
}

// NetworkErrorKind classifies a transport-level failure.
type NetworkErrorKind string

const (
	KindTimeout    NetworkErrorKind = "timeout"
	KindDNS        NetworkErrorKind = "dns"
	KindConnection NetworkErrorKind = "connection"
	KindHTTP       NetworkErrorKind = "http"
	KindOther      NetworkErrorKind = "other"
)

// NetworkError is a failure to complete an HTTP exchange with the bridge:
// the request never produced a decodable bridge response. It wraps the
// underlying cause so callers can still inspect it with errors.As.
type NetworkError struct {
	Kind NetworkErrorKind
	Op   string
	Err  error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s failed (%s): %v", e.Op, e.Kind, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// newNetworkError wraps err with a classification of what went wrong.
func newNetworkError(op string, err error) *NetworkError {
	return &NetworkError{Kind: classifyNetworkError(err), Op: op, Err: err}
}

func classifyNetworkError(err error) NetworkErrorKind {
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return KindDNS
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return KindTimeout
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return KindConnection
	}
	return KindOther
}

// DiscoveryError reports that a discovery mechanism itself failed, as
// opposed to succeeding with zero bridges found.
type DiscoveryError struct {
	Mechanism string
	Err       error
}

func (e *DiscoveryError) Error() string {
	return fmt.Sprintf("%s discovery failed: %v", e.Mechanism, e.Err)
}

func (e *DiscoveryError) Unwrap() error {
	return e.Err
}

// IsUnauthorized reports whether err is the bridge rejecting the username.
// The only recovery is registering a new user.
func IsUnauthorized(err error) bool {
	return hasErrType(err, ErrTypeUnauthorized)
}

// IsNotFound reports whether err is the bridge's "resource not available",
// e.g. a light id that does not exist.
func IsNotFound(err error) bool {
	return hasErrType(err, ErrTypeNotFound)
}

// IsLinkButtonNotPressed reports whether err is the bridge refusing to
// create a user because its physical link button has not been pressed.
func IsLinkButtonNotPressed(err error) bool {
	return hasErrType(err, ErrTypeLinkButtonNotPressed)
}

// IsInvalidValue reports whether err is the bridge rejecting a parameter
// value, e.g. a brightness outside the accepted range.
func IsInvalidValue(err error) bool {
	return hasErrType(err, ErrTypeInvalidValue)
}

func hasErrType(err error, errType int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Type == errType
}
