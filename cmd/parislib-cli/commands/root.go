package commands

import (
	"context"
	"fmt"
	"os"

	"parislib/cmd/parislib-cli/globals"
	"parislib/internal/components/chrono"
	"parislib/internal/components/telemetry"
	"parislib/pkg/catalog"

	"github.com/spf13/cobra"
)

var (
	configPath *string
	debug      *bool
	jsonOutput *bool
	dumpHttp   *string
)

var otelProviders telemetry.Telemetry

func init() {
	configPath = rootCmd.PersistentFlags().String("config", "", "Path to a parislib.json5 config, it is searched for from the cwd upwards by default.")
	debug = rootCmd.PersistentFlags().Bool("debug", false, "Print debug logs, including every http request.")
	jsonOutput = rootCmd.PersistentFlags().Bool("json", false, "Print results as json instead of tables.")
	dumpHttp = rootCmd.PersistentFlags().String("dump-http", "", "Directory to write every http request and response to.")
}

var rootCmd = &cobra.Command{
	Use:           "parislib-cli",
	Short:         "parislib-cli queries the catalog of the Paris public libraries.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		telemetry.InitSlog(os.Stderr, *debug)
		if cmd == configCmd {
			return nil
		}

		cfg, err := loadConfig(*configPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		otelProviders, err = telemetry.Setup(cmd.Context(), "parislib-cli", cfg.Telemetry)
		if err != nil {
			return fmt.Errorf("setup telemetry: %w", err)
		}

		tel := telemetry.SlogAPI{}
		clientOpts := []catalog.ClientOption{catalog.WithTelemetryAPI(tel)}
		if *dumpHttp != "" {
			output, err := telemetry.NewFilesystemOutput(*dumpHttp)
			if err != nil {
				return fmt.Errorf("dump http: %w", err)
			}
			clientOpts = append(clientOpts, catalog.WithMessageOutput(output))
		}
		client, err := catalog.NewClient(cfg.clientOptions(), clientOpts...)
		if err != nil {
			return err
		}

		cmd.SetContext(globals.Set(cmd.Context(), &globals.Value{
			Client: client,
			Time:   chrono.NewStandardTime(),
			Json:   *jsonOutput,
		}))
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return otelProviders.Shutdown(context.WithoutCancel(cmd.Context()))
	},
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
