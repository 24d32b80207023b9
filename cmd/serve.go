package cmd

import (
	"github.com/spf13/cobra"

	"osmvolume/internal/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve a web interface for uploading and converting OSM files",
	Run:   runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&cfg.Host, "host", cfg.Host, "Interface to bind")
	serveCmd.Flags().IntVar(&cfg.Port, "port", cfg.Port, "Port to listen on")
}

func runServe(cmd *cobra.Command, args []string) {
	pol, err := loadPolicy()
	if err != nil {
		exitWithError("failed to load extraction policy", err)
	}

	if err := web.StartServer(cfg, pol); err != nil {
		exitWithError("server failed", err)
	}
}
