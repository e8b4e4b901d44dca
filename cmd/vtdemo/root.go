package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/xqrs/vtview"
)

type config struct {
	Rows          int
	ItemHeight    int
	BufferPadding int
	ScrollBar     bool
	Debug         bool
	Seed          int64
	LogFile       string
	LogVerbosity  int
}

func addFlags(flags *pflag.FlagSet) {
	flags.String("config", "", "read settings from this YAML file")
	flags.Int("rows", 100000, "number of generated rows")
	flags.Int("item-height", 1, "height of every row in cells")
	flags.Int("buffer-padding", vtview.DefaultBufferPadding, "rows kept loaded beyond the visible ones")
	flags.Bool("scroll-bar", true, "show a scroll bar")
	flags.Bool("debug", false, "start with the window overlay shown")
	flags.Int64("seed", 0, "seed for the generated rows, 0 picks one")
	flags.String("log-file", "", "output logs to specified file")
	flags.Int("log-verbosity", 0, "log verbosity. Higher value means more log")
}

// loadConfig reads the settings from v. Flags win over the environment, which
// wins over the config file.
func loadConfig(v *viper.Viper) (config, error) {
	if path := v.GetString("config"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return config{}, fmt.Errorf("reading config: %w", err)
		}
	}
	cfg := config{
		Rows:          v.GetInt("rows"),
		ItemHeight:    v.GetInt("item-height"),
		BufferPadding: v.GetInt("buffer-padding"),
		ScrollBar:     v.GetBool("scroll-bar"),
		Debug:         v.GetBool("debug"),
		Seed:          v.GetInt64("seed"),
		LogFile:       v.GetString("log-file"),
		LogVerbosity:  v.GetInt("log-verbosity"),
	}
	if cfg.Rows < 0 {
		return config{}, fmt.Errorf("rows must not be negative (got %d)", cfg.Rows)
	}
	return cfg, nil
}

func newRootCmd(run func(cmd *cobra.Command, cfg config) error) *cobra.Command {
	v := viper.New()
	cmd := &cobra.Command{
		Use:           "vtdemo",
		Short:         "Scroll through a generated list with a recycling virtual list",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(v)
			if err != nil {
				return err
			}
			return run(cmd, cfg)
		},
	}
	addFlags(cmd.Flags())

	v.SetEnvPrefix("VTDEMO")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		panic(err)
	}
	return cmd
}
