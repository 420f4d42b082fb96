package cmd

import (
	"fmt"
	"math"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	sim "github.com/Sakal05/ns3/sim"
)

var (
	// CLI flags
	scenarioPath string // Path to the scenario YAML (topology + events)
	horizon      int64  // Total simulation time (in ticks)
	logLevel     string // Log verbosity level
	dynamicCache bool   // Enable dynamic neighbor cache maintenance
	noPopulate   bool   // Skip the initial global population
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "ns3",
	Short: "Discrete-event network simulator with neighbor cache pre-population",
}

// runCmd replays a scenario: build the topology, pre-populate ARP and NDISC
// caches, run the scheduled address churn, and report the resulting caches.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a neighbor cache scenario",
	RunE: func(cmd *cobra.Command, args []string) error {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			return fmt.Errorf("invalid log level %q", logLevel)
		}
		logrus.SetLevel(level)

		cfg, err := LoadScenario(scenarioPath)
		if err != nil {
			return err
		}
		topo, err := cfg.BuildTopology()
		if err != nil {
			return err
		}

		s := sim.NewSimulator(horizon, topo)
		if dynamicCache {
			s.Helper.SetDynamicNeighborCache(true)
		}
		if !noPopulate {
			s.Helper.PopulateNeighborCache()
		}
		if err := cfg.ScheduleEvents(s); err != nil {
			return err
		}
		s.Run()

		printCaches(topo)
		s.Helper.Metrics().Print()
		return nil
	},
}

// printCaches dumps every device's ARP and NDISC cache in topology order.
func printCaches(topo *sim.Topology) {
	fmt.Println("=== Neighbor Caches ===")
	for _, ch := range topo.Channels() {
		for _, d := range ch.Devices() {
			if iface := d.Ipv4Interface(); iface != nil {
				printCache(ch, d, "ARP", iface.Cache())
			}
			if iface := d.Ipv6Interface(); iface != nil {
				printCache(ch, d, "NDISC", iface.Cache())
			}
		}
	}
}

func printCache(ch *sim.Channel, d *sim.Device, kind string, cache *sim.NeighborCache) {
	fmt.Printf("%s/%s %s (%d entries)\n", ch.ID(), d.ID(), kind, cache.Len())
	for _, e := range cache.Entries() {
		fmt.Printf("  %-40s %-17s %s\n", e.Addr, e.LinkAddr, e.Origin)
	}
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	runCmd.Flags().StringVar(&scenarioPath, "scenario", "", "Path to the scenario YAML file")
	runCmd.Flags().Int64Var(&horizon, "horizon", math.MaxInt64, "Total simulation horizon (in ticks)")
	runCmd.Flags().StringVar(&logLevel, "log", "error", "Log level (trace, debug, info, warn, error, fatal, panic)")
	runCmd.Flags().BoolVar(&dynamicCache, "dynamic-cache", false, "Keep auto-generated entries consistent under address churn")
	runCmd.Flags().BoolVar(&noPopulate, "no-populate", false, "Skip the initial global cache population")
	_ = runCmd.MarkFlagRequired("scenario")

	rootCmd.AddCommand(runCmd)
}
