package hue

import (
	"errors"
	"testing"
)

func TestDecodeEnvelope(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantPaths []string
		wantErr   int // Expected APIError type, 0 means success
	}{
		{
			name:      "empty_array",
			body:      `[]`,
			wantPaths: []string{},
		},
		{
			name:      "single_success",
			body:      `[{"success":{"/lights/1/state/on":true}}]`,
			wantPaths: []string{"/lights/1/state/on"},
		},
		{
			name: "multiple_entries_keep_order",
			body: `[{"success":{"/lights/1/state/on":true}},` +
				`{"success":{"/lights/1/state/bri":200}},` +
				`{"success":{"/lights/1/state/ct":300}}]`,
			wantPaths: []string{"/lights/1/state/on", "/lights/1/state/bri", "/lights/1/state/ct"},
		},
		{
			name:      "multi_key_entry_sorted",
			body:      `[{"success":{"/lights/1/state/on":true,"/lights/1/state/bri":10}}]`,
			wantPaths: []string{"/lights/1/state/bri", "/lights/1/state/on"},
		},
		{
			name:    "error_entry",
			body:    `[{"error":{"type":101,"address":"","description":"link button not pressed"}}]`,
			wantErr: ErrTypeLinkButtonNotPressed,
		},
		{
			name: "error_after_success_wins",
			body: `[{"success":{"/lights/1/state/on":true}},` +
				`{"error":{"type":7,"address":"/lights/1/state/bri","description":"invalid value"}}]`,
			wantErr: ErrTypeInvalidValue,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			applied, err := decodeEnvelope([]byte(tt.body))

			if tt.wantErr != 0 {
				var apiErr *APIError
				if !errors.As(err, &apiErr) {
					t.Fatalf("decodeEnvelope() error = %v, want APIError", err)
				}
				if apiErr.Type != tt.wantErr {
					t.Errorf("APIError.Type = %d, want %d", apiErr.Type, tt.wantErr)
				}
				return
			}

			if err != nil {
				t.Fatalf("decodeEnvelope() error = %v", err)
			}
			if len(applied) != len(tt.wantPaths) {
				t.Fatalf("decodeEnvelope() returned %d entries, want %d", len(applied), len(tt.wantPaths))
			}
			for i, want := range tt.wantPaths {
				if applied[i].Path != want {
					t.Errorf("applied[%d].Path = %q, want %q", i, applied[i].Path, want)
				}
			}
		})
	}
}

func TestDecodeEnvelopeMalformed(t *testing.T) {
	applied, err := decodeEnvelope([]byte(`{"not":"an array"}`))
	if err == nil {
		t.Fatal("decodeEnvelope() error = nil, want malformed envelope error")
	}
	if applied != nil {
		t.Errorf("decodeEnvelope() applied = %v, want nil", applied)
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		t.Errorf("decodeEnvelope() error = %v, want plain decode error, not APIError", err)
	}
}

func TestAppliedAttribute(t *testing.T) {
	tests := []struct {
		path     string
		expected string
	}{
		{"/lights/1/state/on", "on"},
		{"/lights/12/state/bri", "bri"},
		{"username", "username"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			got := Applied{Path: tt.path}.Attribute()
			if got != tt.expected {
				t.Errorf("Attribute() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestErrorInEnvelope(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantType int // 0 means no error expected
	}{
		{
			name: "plain_object_is_not_an_envelope",
			body: `{"1":{"name":"Desk"}}`,
		},
		{
			name: "success_envelope_has_no_error",
			body: `[{"success":{"username":"abc123"}}]`,
		},
		{
			name:     "error_envelope",
			body:     `[{"error":{"type":1,"address":"/","description":"unauthorized user"}}]`,
			wantType: ErrTypeUnauthorized,
		},
		{
			name:     "error_with_leading_whitespace",
			body:     "\n  [{\"error\":{\"type\":3,\"address\":\"/lights/99\",\"description\":\"resource not available\"}}]",
			wantType: ErrTypeNotFound,
		},
		{
			name: "garbage_array_is_ignored",
			body: `[1,2,3`,
		},
		{
			name: "empty_body",
			body: ``,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			apiErr := errorInEnvelope([]byte(tt.body))
			if tt.wantType == 0 {
				if apiErr != nil {
					t.Errorf("errorInEnvelope() = %v, want nil", apiErr)
				}
				return
			}
			if apiErr == nil {
				t.Fatal("errorInEnvelope() = nil, want APIError")
			}
			if apiErr.Type != tt.wantType {
				t.Errorf("APIError.Type = %d, want %d", apiErr.Type, tt.wantType)
			}
		})
	}
}
