package cmd

import (
	"testing"
)

func TestParseTurn(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		expected *bool
		wantErr  bool
	}{
		{"on", "on", boolPtr(true), false},
		{"off", "off", boolPtr(false), false},
		{"garbage", "dim", nil, true},
		{"wrong_case", "ON", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseTurn(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseTurn(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if got == nil || *got != *tt.expected {
				t.Errorf("parseTurn(%q) = %v, want %v", tt.in, got, *tt.expected)
			}
		})
	}
}

func TestMiredFromKelvin(t *testing.T) {
	tests := []struct {
		name     string
		kelvin   int
		expected uint16
		wantErr  bool
	}{
		{"warm_white", 2000, 500, false},
		{"neutral", 4000, 250, false},
		{"cold_white", 6500, 153, false},
		{"too_warm", 1999, 0, true},
		{"too_cold", 6501, 0, true},
		{"zero", 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := miredFromKelvin(tt.kelvin)
			if (err != nil) != tt.wantErr {
				t.Fatalf("miredFromKelvin(%d) error = %v, wantErr %v", tt.kelvin, err, tt.wantErr)
			}
			if got != tt.expected {
				t.Errorf("miredFromKelvin(%d) = %d, want %d", tt.kelvin, got, tt.expected)
			}
		})
	}
}

func TestKelvinFromMired(t *testing.T) {
	tests := []struct {
		name     string
		mired    uint16
		expected int
	}{
		{"warm_white", 500, 2000},
		{"bridge_default", 366, 2732},
		{"cold_white", 153, 6535},
		{"zero_stays_zero", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := kelvinFromMired(tt.mired)
			if got != tt.expected {
				t.Errorf("kelvinFromMired(%d) = %d, want %d", tt.mired, got, tt.expected)
			}
		})
	}
}

func TestCheckRange(t *testing.T) {
	tests := []struct {
		name    string
		v       int
		min     int
		max     int
		wantErr bool
	}{
		{"in_range", 128, 1, 254, false},
		{"at_min", 1, 1, 254, false},
		{"at_max", 254, 1, 254, false},
		{"below", 0, 1, 254, true},
		{"above", 255, 1, 254, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := checkRange("bri", tt.v, tt.min, tt.max)
			if (err != nil) != tt.wantErr {
				t.Fatalf("checkRange(%d) error = %v, wantErr %v", tt.v, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.v {
				t.Errorf("checkRange(%d) = %d, want the input back", tt.v, got)
			}
		})
	}
}

// Helper to create a bool pointer
func boolPtr(b bool) *bool {
	return &b
}
