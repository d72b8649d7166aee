package main

import (
	"github.com/spf13/cobra"

	"capsnav/internal/config"
)

// loggedError marks an error that has already been written to the log.
type loggedError struct {
	err error
}

func (e *loggedError) Error() string { return e.err.Error() }
func (e *loggedError) Unwrap() error { return e.err }

type rootOptions struct {
	configPath string
}

// path is the --config value, or the default lookup when it is empty.
func (o *rootOptions) path() string {
	if o.configPath != "" {
		return o.configPath
	}
	return config.ConfigPath()
}

func (o *rootOptions) loader() *config.Loader {
	return config.NewLoader(o.path())
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "capsnav",
		Short: "Caps Lock navigation layer for input_event streams",
		Long: `capsnav filters Linux input_event records from stdin to stdout.

While Caps Lock is held, I, J, K and L are replaced by Up, Left, Down and
Right. Caps Lock itself is swallowed. Left Ctrl and every other key pass
through unchanged. Non-key records are copied byte for byte.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runFilter(cmd.Context(), opts)
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "",
		"config file (default $CAPSNAV_CONFIG or $XDG_CONFIG_HOME/capsnav/config.toml)")

	cmd.AddCommand(
		newKeysCmd(),
		newConfigCmd(opts),
		newStatsCmd(opts),
		newVersionCmd(),
	)
	return cmd
}
