package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var cfgFile string

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "techcast",
		Short:         "Chart forecasted programming language popularity",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./config.yaml)")

	root.AddCommand(forecastCmd())
	root.AddCommand(renderCmd())
	root.AddCommand(snapshotCmd())
	root.AddCommand(serveCmd())
	root.AddCommand(runCmd())

	return root
}

func forecastCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "forecast",
		Short: "Show ranked forecast cards",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runForecast(cmd.OutOrStdout(), jsonOutput)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output as JSON")
	return cmd
}

func renderCmd() *cobra.Command {
	var (
		outDir string
		format string
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Write the forecast chart to disk",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd.OutOrStdout(), outDir, format)
		},
	}

	cmd.Flags().StringVar(&outDir, "out", ".", "output directory")
	cmd.Flags().StringVar(&format, "format", "both", "image format: svg, png or both")
	return cmd
}

func snapshotCmd() *cobra.Command {
	var list bool

	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Fetch trends and store them for offline rendering",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSnapshot(cmd.OutOrStdout(), list)
		},
	}

	cmd.Flags().BoolVar(&list, "list", false, "list stored snapshots instead of taking one")
	return cmd
}

func serveCmd() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(port)
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "server port (default: from config)")
	return cmd
}

func runCmd() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Start daemon with refresh scheduler and HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDaemon(port)
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "server port (default: from config)")
	return cmd
}
