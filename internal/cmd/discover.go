package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var discoverLocal bool

var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Find Hue bridges on the local network",
	Long: `discover asks the public lookup service which bridges share your network
and prints their addresses. With --local the lookup service is skipped and
bridges are searched for directly via UPnP multicast, which also works
without internet access.`,
	RunE: runDiscover,
}

func init() {
	discoverCmd.Flags().BoolVar(&discoverLocal, "local", false, "search via UPnP multicast instead of the lookup service")
	rootCmd.AddCommand(discoverCmd)
}

func runDiscover(cmd *cobra.Command, args []string) error {
	d := newDiscoverer()

	var (
		addrs []string
		err   error
	)
	if discoverLocal {
		addrs, err = d.DiscoverLocal(cmd.Context())
	} else {
		addrs, err = d.Discover(cmd.Context())
	}
	if err != nil {
		return describe(err)
	}

	if len(addrs) == 0 {
		fmt.Println("No bridges found")
		return nil
	}

	fmt.Println("Hue bridges found:")
	for _, addr := range addrs {
		fmt.Printf("  %s\n", addr)
	}
	return nil
}
