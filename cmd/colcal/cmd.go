package main

import (
	"github.com/spf13/cobra"
)

func SetupCommands(a *App) *cobra.Command {
	// root command
	rootCmd := &cobra.Command{
		Use:           "colcal",
		Short:         "Lay out a day of calendar events as side-by-side columns",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.LoadConfig()
		},
	}
	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", "/etc/colcal/config.yaml", "Path to config file")
	rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level (overrides config if set)")

	// long-running server: scheduler, web UI/API and optional PNG capture
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the calendar and keep it up to date",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.Serve(cmd.Context())
		},
	}
	serveCmd.Flags().StringVar(&a.listen, "listen", "", "HTTP listen address (overrides config if set)")

	// one-shot layout printed to the terminal
	layoutCmd := &cobra.Command{
		Use:   "layout",
		Short: "Lay out one day and print the result",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.Layout(cmd.Context(), cmd.OutOrStdout())
		},
	}
	layoutCmd.Flags().StringVar(&a.eventsPath, "events", "", "YAML events file to use instead of the configured sources")
	layoutCmd.Flags().StringVar(&a.date, "date", "", "Day to lay out as YYYY-MM-DD (default today)")
	layoutCmd.Flags().BoolVar(&a.asJSON, "json", false, "Print the layout as JSON")

	// one-shot layout written as HTML or SVG
	renderCmd := &cobra.Command{
		Use:   "render",
		Short: "Render one day as HTML or SVG",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.Render(cmd.Context(), cmd.OutOrStdout())
		},
	}
	renderCmd.Flags().StringVar(&a.eventsPath, "events", "", "YAML events file to use instead of the configured sources")
	renderCmd.Flags().StringVar(&a.date, "date", "", "Day to render as YYYY-MM-DD (default today)")
	renderCmd.Flags().StringVar(&a.format, "format", "html", "Output format: html or svg")
	renderCmd.Flags().StringVar(&a.outPath, "out", "-", "Output file, - for stdout")
	_ = renderCmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return []string{"html", "svg"}, cobra.ShellCompDirectiveNoFileComp
	})

	// screenshot of a running server's calendar page
	captureCmd := &cobra.Command{
		Use:   "capture",
		Short: "Capture the calendar page of a running server as PNG",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.Capture(cmd.Context())
		},
	}
	captureCmd.Flags().StringVar(&a.url, "url", "", "Page to capture (default the configured server's /calendar)")
	captureCmd.Flags().StringVar(&a.outPath, "out", "", "PNG output path (default capture.output)")

	// add commands
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(layoutCmd)
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(captureCmd)

	return rootCmd
}
