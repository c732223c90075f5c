package hue

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// DefaultDiscoveryEndpoint is the public lookup service that maps the
// caller's external IP to the LAN addresses of bridges phoning home from
// the same network.
const DefaultDiscoveryEndpoint = "https://discovery.meethue.com"

const (
	ssdpMulticastAddr = "239.255.255.250:1900"
	ssdpSearchTarget  = "urn:schemas-upnp-org:device:basic:1"
)

// DiscoveryConfig contains bridge discovery settings.
type DiscoveryConfig struct {
	Endpoint      string        // Lookup service URL
	Timeout       time.Duration // HTTP timeout for the lookup request
	SearchTimeout time.Duration // How long to collect multicast answers
	LocalFallback bool          // Try multicast search when the lookup service fails
}

// DefaultDiscoveryConfig returns the stock discovery settings.
func DefaultDiscoveryConfig() DiscoveryConfig {
	return DiscoveryConfig{
		Endpoint:      DefaultDiscoveryEndpoint,
		Timeout:       10 * time.Second,
		SearchTimeout: 3 * time.Second,
		LocalFallback: true,
	}
}

// Discoverer locates Hue bridges reachable from this machine.
type Discoverer struct {
	cfg        DiscoveryConfig
	httpClient *http.Client
}

// NewDiscoverer creates a Discoverer. Zero config fields fall back to
// DefaultDiscoveryConfig values.
func NewDiscoverer(cfg DiscoveryConfig) *Discoverer {
	def := DefaultDiscoveryConfig()
	if cfg.Endpoint == "" {
		cfg.Endpoint = def.Endpoint
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}
	if cfg.SearchTimeout <= 0 {
		cfg.SearchTimeout = def.SearchTimeout
	}

	return &Discoverer{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

// Discover returns bridge addresses known to the lookup service,
// deduplicated in first-seen order. An empty result with a nil error means
// the service answered but knows of no bridge. When the service itself is
// unreachable and LocalFallback is set, a multicast search is tried before
// giving up.
func (d *Discoverer) Discover(ctx context.Context) ([]string, error) {
	addrs, err := d.lookup(ctx)
	if err == nil {
		return addrs, nil
	}
	if !d.cfg.LocalFallback {
		return nil, err
	}

	log.Warn().Err(err).Msg("Discovery service unreachable, falling back to local search")
	return d.DiscoverLocal(ctx)
}

// lookup queries the discovery service over HTTPS.
func (d *Discoverer) lookup(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.cfg.Endpoint, nil)
	if err != nil {
		return nil, &DiscoveryError{Mechanism: "nupnp", Err: err}
	}

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return nil, &DiscoveryError{Mechanism: "nupnp", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &DiscoveryError{
			Mechanism: "nupnp",
			Err:       fmt.Errorf("unexpected status code: %d", resp.StatusCode),
		}
	}

	var entries []struct {
		ID                string `json:"id"`
		InternalIPAddress string `json:"internalipaddress"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, &DiscoveryError{Mechanism: "nupnp", Err: fmt.Errorf("malformed response: %w", err)}
	}

	addrs := make([]string, 0, len(entries))
	for _, entry := range entries {
		addrs = append(addrs, entry.InternalIPAddress)
	}
	return dedupAddresses(addrs), nil
}

// DiscoverLocal performs an SSDP multicast search on the local network and
// collects answers for the configured search window. Bridges identify
// themselves by the IpBridge token in the SERVER header and by a
// hue-bridgeid header.
func (d *Discoverer) DiscoverLocal(ctx context.Context) ([]string, error) {
	conn, err := net.ListenPacket("udp4", ":0")
	if err != nil {
		return nil, &DiscoveryError{Mechanism: "ssdp", Err: err}
	}
	defer conn.Close()

	dst, err := net.ResolveUDPAddr("udp4", ssdpMulticastAddr)
	if err != nil {
		return nil, &DiscoveryError{Mechanism: "ssdp", Err: err}
	}

	search := "M-SEARCH * HTTP/1.1\r\n" +
		"HOST: " + ssdpMulticastAddr + "\r\n" +
		"MAN: \"ssdp:discover\"\r\n" +
		"MX: 2\r\n" +
		"ST: " + ssdpSearchTarget + "\r\n" +
		"\r\n"
	if _, err := conn.WriteTo([]byte(search), dst); err != nil {
		return nil, &DiscoveryError{Mechanism: "ssdp", Err: err}
	}

	deadline := time.Now().Add(d.cfg.SearchTimeout)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
		deadline = ctxDeadline
	}
	if err := conn.SetReadDeadline(deadline); err != nil {
		return nil, &DiscoveryError{Mechanism: "ssdp", Err: err}
	}

	var addrs []string
	buf := make([]byte, 2048)
	for {
		n, src, err := conn.ReadFrom(buf)
		if err != nil {
			// The read deadline ends the collection window.
			break
		}
		if !isBridgeAnswer(string(buf[:n])) {
			continue
		}
		host, _, err := net.SplitHostPort(src.String())
		if err != nil {
			continue
		}
		log.Debug().Str("bridge", host).Msg("Bridge answered multicast search")
		addrs = append(addrs, host)
	}

	if err := ctx.Err(); err != nil {
		return nil, &DiscoveryError{Mechanism: "ssdp", Err: err}
	}
	return dedupAddresses(addrs), nil
}

// isBridgeAnswer reports whether an SSDP response came from a Hue bridge
// rather than some other UPnP device on the network.
func isBridgeAnswer(msg string) bool {
	lower := strings.ToLower(msg)
	return strings.Contains(lower, "ipbridge") || strings.Contains(lower, "hue-bridgeid")
}

// dedupAddresses removes empty and repeated addresses, keeping first-seen
// order. The lookup service reports one entry per bridge id and a bridge
// that changed address may appear twice.
func dedupAddresses(addrs []string) []string {
	seen := make(map[string]struct{}, len(addrs))
	out := make([]string, 0, len(addrs))
	for _, addr := range addrs {
		if addr == "" {
			continue
		}
		if _, ok := seen[addr]; ok {
			continue
		}
		seen[addr] = struct{}{}
		out = append(out, addr)
	}
	return out
}
