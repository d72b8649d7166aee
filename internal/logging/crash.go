package logging

import (
	"fmt"
	"os"
	"runtime/debug"
)

// exit is replaced in tests.
var exit = os.Exit

// RecoverAndExit logs a panic with its stack and terminates the process
// with status 2. Deferred at the top of main so a crash reaches the log
// before the supervisor restarts the filter.
func (l *Logger) RecoverAndExit() {
	v := recover()
	if v == nil {
		return
	}
	l.Error("panic",
		"value", fmt.Sprint(v),
		"stack", string(debug.Stack()),
	)
	_ = l.Close()
	exit(2)
}

