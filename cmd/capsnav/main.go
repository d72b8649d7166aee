// capsnav - Caps Lock navigation layer for interception-tools pipelines
//
// capsnav reads Linux input_event records on stdin and writes them to
// stdout. While Caps Lock is held, I/J/K/L become Up/Left/Down/Right; Caps
// Lock itself never reaches the output. Typical use in a udevmon job:
//
//	intercept -g $DEVNODE | capsnav | uinput -d $DEVNODE
//
// Commands:
//
//	capsnav                  Run the filter (default)
//	capsnav keys             Show the layer table
//	capsnav config <action>  Manage the configuration file
//	capsnav stats            Show recorded runs
//	capsnav version          Show version information
package main

import (
	"errors"
	"fmt"
	"os"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		var logged *loggedError
		if !errors.As(err, &logged) {
			fmt.Fprintf(os.Stderr, "capsnav: %v\n", err)
		}
		os.Exit(1)
	}
}
