package main

import (
	"os"

	"github.com/rs/zerolog/log"

	"github.com/kikei/hue-cli/internal/cmd"
)

func main() {
	// Create context that cancels on interrupt
	ctx := cmd.SignalContext()

	if err := cmd.ExecuteContext(ctx); err != nil {
		log.Error().Err(err).Msg("Command failed")
		os.Exit(1)
	}
}
