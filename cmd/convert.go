package cmd

import (
	"context"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/spf13/cobra"

	"osmvolume/internal/citygml"
	"osmvolume/internal/config"
	"osmvolume/internal/graph"
	"osmvolume/internal/logger"
	"osmvolume/internal/metrics"
	"osmvolume/internal/pipeline"
	"osmvolume/internal/policy"
)

var bboxFlag string

var convertCmd = &cobra.Command{
	Use:   "convert <input.osm|input.osm.pbf> <output.gml>",
	Short: "Convert an OSM export into a CityGML LOD1 volume model",
	Args:  cobra.ExactArgs(2),
	Run:   runConvert,
}

func init() {
	rootCmd.AddCommand(convertCmd)

	convertCmd.Flags().StringVar(&bboxFlag, "bbox", "", "Bounding box filter: minlon,minlat,maxlon,maxlat")
	convertCmd.Flags().StringVar(&cfg.NodeCacheDir, "node-cache-dir", "", "Directory for the PBF node coordinate cache (default: system temp)")
}

func runConvert(cmd *cobra.Command, args []string) {
	log := logger.Get()
	cfg.InputFile = args[0]
	cfg.OutputFile = args[1]

	bbox, err := config.ParseBBox(bboxFlag)
	if err != nil {
		exitWithError("invalid bbox", err)
	}
	cfg.BBox = bbox

	if err := cfg.Validate(); err != nil {
		exitWithError("invalid configuration", err)
	}

	pol, err := loadPolicy()
	if err != nil {
		exitWithError("failed to load extraction policy", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if cfg.MetricsInterval > 0 && cfg.Verbose {
		go metrics.NewCollector(cfg.MetricsInterval, log).Start(ctx)
	}

	log.Info("Starting conversion",
		zap.String("input", cfg.InputFile),
		zap.String("output", cfg.OutputFile),
		zap.Int("workers", cfg.Workers))
	start := time.Now()

	g, err := graph.Load(ctx, cfg.InputFile, cfg.NodeCacheDir)
	if err != nil {
		exitWithError("failed to read OSM input", err)
	}
	defer g.Close()

	result, err := pipeline.New(cfg, pol).Run(ctx, g)
	if err != nil {
		exitWithError("conversion failed", err)
	}

	out, err := os.Create(cfg.OutputFile)
	if err != nil {
		exitWithError("failed to create output file", err)
	}
	defer out.Close()

	if err := citygml.Write(out, result.Solids, result.Origin); err != nil {
		exitWithError("failed to write model", err)
	}

	log.Info("Conversion complete",
		zap.Duration("duration", time.Since(start).Round(time.Millisecond)),
		zap.Int("features", result.Stats.Features),
		zap.Int("emitted", result.Stats.Emitted),
		zap.Int("skipped", result.Stats.Skipped))
}

func loadPolicy() (*policy.Policy, error) {
	if cfg.PolicyFile == "" {
		return policy.Default(), nil
	}
	return policy.Load(cfg.PolicyFile)
}
