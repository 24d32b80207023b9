package cmd

import (
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/spf13/cobra"

	"osmvolume/internal/config"
	"osmvolume/internal/logger"
)

var (
	cfg             = config.DefaultConfig()
	verbose         bool
	logFile         string
	metricsInterval time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "osmvolume",
	Short: "Convert OSM building footprints into a 3D volume model",
	Long: `osmvolume extracts building and building:part geometries from an
OpenStreetMap export and reconstructs them as extrudable footprints.

The pipeline:
  1. Parses the tag-graph (OSM XML or PBF)
  2. Stitches fragmented relation members into closed rings
  3. Classifies holes against their enclosing outer rings
  4. Projects coordinates into a local metric tangent plane
  5. Infers heights from freeform OSM attributes
  6. Writes one capped solid per footprint as CityGML LOD1`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		cfg.Verbose = verbose
		cfg.LogFile = logFile
		cfg.MetricsInterval = metricsInterval

		if logFile != "" {
			logger.InitWithFile(verbose, logFile)
		} else {
			logger.Init(verbose)
		}
	},
}

func Execute() error {
	defer logger.Sync()
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().IntVarP(&cfg.Workers, "workers", "j", cfg.Workers, "Number of parallel workers")
	rootCmd.PersistentFlags().Float64Var(&cfg.DefaultHeight, "default-height", cfg.DefaultHeight, "Fallback height in metres when OSM data does not specify one")
	rootCmd.PersistentFlags().Float64Var(&cfg.LevelHeight, "level-height", cfg.LevelHeight, "Storey height used when only building:levels is provided")
	rootCmd.PersistentFlags().StringVar(&cfg.PolicyFile, "policy", "", "Path to extraction policy YAML (empty = built-in defaults)")

	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Path to log file for persistent logging (JSON format)")
	rootCmd.PersistentFlags().DurationVar(&metricsInterval, "metrics-interval", 30*time.Second, "Interval for system metrics logging (e.g., 10s, 1m)")
}

func exitWithError(msg string, err error) {
	log := logger.Get()
	if err != nil {
		log.Error(msg, zap.Error(err))
	} else {
		log.Error(msg)
	}
	logger.Sync()
	os.Exit(1)
}
