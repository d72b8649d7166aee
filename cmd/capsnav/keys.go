package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"capsnav/internal/inputevent"
	"capsnav/internal/remap"
)

func newKeysCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "keys",
		Short: "Show the Caps Lock layer table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return printKeys(cmd.OutOrStdout())
		},
	}
}

func printKeys(out io.Writer) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "HOLD\tKEY\tSENDS")
	caps := inputevent.KeyName(inputevent.KeyCapsLock)
	for _, m := range remap.LayerTable() {
		fmt.Fprintf(w, "%s\t%s (%d)\t%s (%d)\n",
			caps, inputevent.KeyName(m.From), m.From, inputevent.KeyName(m.To), m.To)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "%s is swallowed and acts only as the layer key.\n", caps)
	fmt.Fprintf(out, "%s is tracked and always passed through.\n",
		inputevent.KeyName(inputevent.KeyLeftCtrl))
	return nil
}
