package internal

import (
	"testing"

	"github.com/kcmvp/archunit"
)

func TestArchitecture(t *testing.T) {
	core := archunit.Packages("core", []string{".../internal/hue"})
	cli := archunit.Packages("cli", []string{".../internal/cmd", ".../internal/config"})

	// The bridge client must stay usable as a library: it may not reach
	// into the CLI or its configuration.
	if err := core.ShouldNotReferLayers(cli); err != nil {
		t.Errorf("Architecture violation: core depends on the CLI layer: %v", err)
	}
}
