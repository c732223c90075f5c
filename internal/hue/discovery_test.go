package hue

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"
)

func newTestDiscoverer(endpoint string) *Discoverer {
	return NewDiscoverer(DiscoveryConfig{
		Endpoint:      endpoint,
		Timeout:       2 * time.Second,
		SearchTimeout: 50 * time.Millisecond,
		LocalFallback: false,
	})
}

func TestDiscoverDedupsAddresses(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[{"id":"001788fffe29d301","internalipaddress":"192.168.1.2"},`+
			`{"id":"001788fffe4f0a22","internalipaddress":"192.168.1.3"},`+
			`{"id":"001788fffe29d301","internalipaddress":"192.168.1.2"}]`)
	}))
	defer srv.Close()

	addrs, err := newTestDiscoverer(srv.URL).Discover(context.Background())
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}
	want := []string{"192.168.1.2", "192.168.1.3"}
	if !reflect.DeepEqual(addrs, want) {
		t.Errorf("Discover() = %v, want %v", addrs, want)
	}
}

func TestDiscoverNoBridgesKnown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[]`)
	}))
	defer srv.Close()

	addrs, err := newTestDiscoverer(srv.URL).Discover(context.Background())
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}
	// Nothing found is a valid answer, not an error.
	if addrs == nil || len(addrs) != 0 {
		t.Errorf("Discover() = %v, want empty slice", addrs)
	}
}

func TestDiscoverServiceUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	endpoint := srv.URL
	srv.Close()

	_, err := newTestDiscoverer(endpoint).Discover(context.Background())

	var discErr *DiscoveryError
	if !errors.As(err, &discErr) {
		t.Fatalf("Discover() error = %v, want DiscoveryError", err)
	}
	if discErr.Mechanism != "nupnp" {
		t.Errorf("DiscoveryError.Mechanism = %q, want %q", discErr.Mechanism, "nupnp")
	}
}

func TestDiscoverServiceErrors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "bad_status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "nope", http.StatusServiceUnavailable)
			},
		},
		{
			name: "malformed_body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, `{"unexpected":"object"}`)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			_, err := newTestDiscoverer(srv.URL).Discover(context.Background())
			var discErr *DiscoveryError
			if !errors.As(err, &discErr) {
				t.Fatalf("Discover() error = %v, want DiscoveryError", err)
			}
		})
	}
}

func TestIsBridgeAnswer(t *testing.T) {
	bridgeResponse := "HTTP/1.1 200 OK\r\n" +
		"HOST: 239.255.255.250:1900\r\n" +
		"EXT:\r\n" +
		"CACHE-CONTROL: max-age=100\r\n" +
		"LOCATION: http://192.168.1.2:80/description.xml\r\n" +
		"SERVER: Hue/1.0 UPnP/1.0 IpBridge/1.56.0\r\n" +
		"hue-bridgeid: 001788FFFE29D301\r\n" +
		"ST: urn:schemas-upnp-org:device:basic:1\r\n" +
		"USN: uuid:2f402f80-da50-11e1-9b23-001788102201\r\n\r\n"

	otherResponse := "HTTP/1.1 200 OK\r\n" +
		"CACHE-CONTROL: max-age=1800\r\n" +
		"LOCATION: http://192.168.1.50:1400/xml/device_description.xml\r\n" +
		"SERVER: Linux UPnP/1.0 Sonos/70.4-35060\r\n" +
		"ST: urn:schemas-upnp-org:device:basic:1\r\n\r\n"

	tests := []struct {
		name     string
		msg      string
		expected bool
	}{
		{"bridge_response", bridgeResponse, true},
		{"server_token_only", "SERVER: FreeRTOS/6.0.5, UPnP/1.0, IpBridge/0.1\r\n", true},
		{"bridgeid_header_only", "hue-bridgeid: 001788FFFE29D301\r\n", true},
		{"other_upnp_device", otherResponse, false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := isBridgeAnswer(tt.msg)
			if got != tt.expected {
				t.Errorf("isBridgeAnswer() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestDedupAddresses(t *testing.T) {
	tests := []struct {
		name     string
		in       []string
		expected []string
	}{
		{"nil", nil, []string{}},
		{"no_duplicates", []string{"a", "b"}, []string{"a", "b"}},
		{"duplicates_keep_first_order", []string{"b", "a", "b", "a"}, []string{"b", "a"}},
		{"empty_entries_dropped", []string{"", "a", ""}, []string{"a"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := dedupAddresses(tt.in)
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("dedupAddresses() = %v, want %v", got, tt.expected)
			}
		})
	}
}
