package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/kikei/hue-cli/internal/hue"
)

var (
	lightBridge string
	lightUser   string
	lightID     string
	lightTurn   string
	lightBri    int
	lightHue    int
	lightSat    int
	lightCt     int
)

var lightCmd = &cobra.Command{
	Use:   "light",
	Short: "Change the state of a light",
	Long: `light updates one light through its bridge. Only the attributes given as
flags are sent, everything else keeps its current value. Color temperature
is taken in Kelvin and converted to the mired scale the bridge expects.`,
	RunE: runLight,
}

func init() {
	lightCmd.Flags().StringVarP(&lightBridge, "bridge", "b", "", "bridge address (overrides config)")
	lightCmd.Flags().StringVarP(&lightUser, "user", "u", "", "bridge username (overrides config)")
	lightCmd.Flags().StringVarP(&lightID, "id", "i", "", "light id (required)")
	lightCmd.Flags().StringVar(&lightTurn, "turn", "", `switch the light "on" or "off"`)
	lightCmd.Flags().IntVar(&lightBri, "bri", 0, "brightness, 1-254")
	lightCmd.Flags().IntVar(&lightHue, "hue", 0, "hue, 0-65535")
	lightCmd.Flags().IntVar(&lightSat, "sat", 0, "saturation, 0-254")
	lightCmd.Flags().IntVar(&lightCt, "ct", 0, "color temperature in Kelvin, 2000-6500")
	_ = lightCmd.MarkFlagRequired("id")
	rootCmd.AddCommand(lightCmd)
}

func runLight(cmd *cobra.Command, args []string) error {
	session, err := newSession(lightBridge, lightUser)
	if err != nil {
		return err
	}

	change, err := buildStateChange(cmd.Flags())
	if err != nil {
		return err
	}

	applied, err := session.SetLightState(cmd.Context(), lightID, change)
	if err != nil {
		return describe(err)
	}

	for _, a := range applied {
		fmt.Printf("%s = %s\n", a.Path, a.Value)
	}
	return nil
}

// buildStateChange assembles the partial update from whichever flags were
// actually given on the command line.
func buildStateChange(flags *pflag.FlagSet) (hue.StateChange, error) {
	var change hue.StateChange

	if lightTurn != "" {
		on, err := parseTurn(lightTurn)
		if err != nil {
			return change, err
		}
		change.On = on
	}
	if flags.Changed("bri") {
		v, err := checkRange("bri", lightBri, 1, 254)
		if err != nil {
			return change, err
		}
		bri := uint8(v)
		change.Bri = &bri
	}
	if flags.Changed("hue") {
		v, err := checkRange("hue", lightHue, 0, 65535)
		if err != nil {
			return change, err
		}
		h := uint16(v)
		change.Hue = &h
	}
	if flags.Changed("sat") {
		v, err := checkRange("sat", lightSat, 0, 254)
		if err != nil {
			return change, err
		}
		sat := uint8(v)
		change.Sat = &sat
	}
	if flags.Changed("ct") {
		mired, err := miredFromKelvin(lightCt)
		if err != nil {
			return change, err
		}
		change.Ct = &mired
	}

	if change.IsEmpty() {
		return change, errors.New("nothing to change: pass --turn, --bri, --hue, --sat or --ct")
	}
	return change, nil
}

func parseTurn(s string) (*bool, error) {
	switch s {
	case "on":
		on := true
		return &on, nil
	case "off":
		off := false
		return &off, nil
	default:
		return nil, fmt.Errorf("invalid --turn value %q: on or off is acceptable", s)
	}
}

func checkRange(name string, v, min, max int) (int, error) {
	if v < min || v > max {
		return 0, fmt.Errorf("invalid --%s value %d: must be %d-%d", name, v, min, max)
	}
	return v, nil
}

// miredFromKelvin converts a Kelvin color temperature to the bridge's mired
// scale. The accepted range maps onto the 153-500 mired the bridge supports.
func miredFromKelvin(kelvin int) (uint16, error) {
	if kelvin < 2000 || kelvin > 6500 {
		return 0, fmt.Errorf("invalid --ct value %d: must be 2000-6500 Kelvin", kelvin)
	}
	return uint16(1_000_000 / kelvin), nil
}

func kelvinFromMired(mired uint16) int {
	if mired == 0 {
		return 0
	}
	return 1_000_000 / int(mired)
}
