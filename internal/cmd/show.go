package cmd

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kikei/hue-cli/internal/hue"
)

var (
	showBridge string
	showUser   string
	showID     string
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show lights and their state",
	Long: `show lists every light the bridge knows about, in the order the bridge
reports them. With --id a single light is shown in detail instead.`,
	RunE: runShow,
}

func init() {
	showCmd.Flags().StringVarP(&showBridge, "bridge", "b", "", "bridge address (overrides config)")
	showCmd.Flags().StringVarP(&showUser, "user", "u", "", "bridge username (overrides config)")
	showCmd.Flags().StringVarP(&showID, "id", "i", "", "show only the light with this id")
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	session, err := newSession(showBridge, showUser)
	if err != nil {
		return err
	}

	if showID != "" {
		light, err := session.Light(cmd.Context(), showID)
		if err != nil {
			return describe(err)
		}
		printLightDetail(light)
		return nil
	}

	lights, err := session.Lights(cmd.Context())
	if err != nil {
		return describe(err)
	}
	printLightTable(lights)
	return nil
}

func printLightTable(lights []hue.Light) {
	if len(lights) == 0 {
		fmt.Println("No lights found")
		return
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tON\tBRI\tHUE\tSAT\tCT\tREACHABLE")
	for _, l := range lights {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\t%s\t%s\t%v\n",
			l.ID, l.Name, onOff(l.State.On), l.State.Bri,
			fmtUint16(l.State.Hue), fmtUint8(l.State.Sat),
			fmtCt(l.State.Ct), l.State.Reachable)
	}
	tw.Flush()
}

func printLightDetail(l *hue.Light) {
	fmt.Printf("Light %s: %s\n", l.ID, l.Name)
	fmt.Printf("  Type:       %s\n", l.Type)
	fmt.Printf("  Model:      %s\n", l.ModelID)
	if l.ProductName != "" {
		fmt.Printf("  Product:    %s\n", l.ProductName)
	}
	if l.UniqueID != "" {
		fmt.Printf("  Unique id:  %s\n", l.UniqueID)
	}
	fmt.Printf("  On:         %s\n", onOff(l.State.On))
	fmt.Printf("  Bri:        %d\n", l.State.Bri)
	fmt.Printf("  Hue:        %s\n", fmtUint16(l.State.Hue))
	fmt.Printf("  Sat:        %s\n", fmtUint8(l.State.Sat))
	fmt.Printf("  CT:         %s\n", fmtCt(l.State.Ct))
	fmt.Printf("  XY:         %s\n", fmtXY(l.State.XY))
	if l.State.ColorMode != nil {
		fmt.Printf("  Color mode: %s\n", *l.State.ColorMode)
	}
	if l.State.Effect != nil {
		fmt.Printf("  Effect:     %s\n", *l.State.Effect)
	}
	fmt.Printf("  Reachable:  %v\n", l.State.Reachable)
}

func onOff(on bool) string {
	if on {
		return "on"
	}
	return "off"
}

func fmtUint8(v *uint8) string {
	if v == nil {
		return "N/A"
	}
	return strconv.Itoa(int(*v))
}

func fmtUint16(v *uint16) string {
	if v == nil {
		return "N/A"
	}
	return strconv.Itoa(int(*v))
}

// fmtCt renders a mired color temperature in Kelvin, which is what humans
// and the --ct flag use.
func fmtCt(v *uint16) string {
	if v == nil {
		return "N/A"
	}
	return fmt.Sprintf("%dK", kelvinFromMired(*v))
}

func fmtXY(xy []float32) string {
	if len(xy) != 2 {
		return "N/A"
	}
	return fmt.Sprintf("(%.4f, %.4f)", xy[0], xy[1])
}
