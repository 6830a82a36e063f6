package commands

import (
	"errors"
	"os"
	"time"

	"parislib/internal/components/telemetry"
	"parislib/lib/configutil"
	"parislib/pkg/catalog"

	"github.com/spf13/cobra"
)

const configFilename = "parislib.json5"

type Config struct {
	BaseUrl string `json:"base_url"`
	// Headers are merged with catalog.DefaultHeaders, keys set here win.
	Headers          map[string]string `json:"headers"`
	TimeoutSeconds   int               `json:"timeout_seconds"`
	CloudflareBypass bool              `json:"cloudflare_bypass"`
	Telemetry        telemetry.Config  `json:"telemetry"`
}

func defaultConfig() Config {
	opts := catalog.DefaultClientOptions()
	return Config{
		BaseUrl:        opts.BaseUrl,
		Headers:        opts.Headers,
		TimeoutSeconds: int(opts.Timeout / time.Second),
	}
}

// loadConfig reads the config at `path`, or looks for parislib.json5 from the cwd upwards
// when `path` is empty. No config file at all means the defaults.
func loadConfig(path string) (Config, error) {
	var (
		cfg Config
		err error
	)
	if path != "" {
		cfg, err = configutil.ReadConfig[Config](path)
	} else {
		cfg, err = configutil.ReadRecursively[Config](".", configFilename)
		if errors.Is(err, os.ErrNotExist) {
			err = nil
		}
	}
	if err != nil {
		return Config{}, err
	}
	return configutil.WithDefaults(cfg, defaultConfig())
}

func (c Config) clientOptions() catalog.ClientOptions {
	return catalog.ClientOptions{
		BaseUrl:          c.BaseUrl,
		Headers:          c.Headers,
		Timeout:          time.Duration(c.TimeoutSeconds) * time.Second,
		CloudflareBypass: c.CloudflareBypass,
	}
}

func init() {
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Prints the configuration in effect after merging files and defaults.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(*configPath)
		if err != nil {
			return err
		}
		return printJson(cmd, cfg)
	},
}
