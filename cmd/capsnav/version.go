package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"capsnav/internal/inputevent"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "capsnav %s\n", version)
			fmt.Fprintf(cmd.OutOrStdout(), "  Go:          %s\n", runtime.Version())
			fmt.Fprintf(cmd.OutOrStdout(), "  Platform:    %s/%s\n", runtime.GOOS, runtime.GOARCH)
			fmt.Fprintf(cmd.OutOrStdout(), "  Record size: %d bytes\n", inputevent.Size)
		},
	}
}
