package main

import (
	"context"
	"errors"
	"fmt"
	"os"
)

// Exit codes: 0 all items succeeded, 1 some items failed, 2 fatal setup
// problem (configuration, discovery, lock).
const (
	exitOK    = 0
	exitDirty = 1
	exitFatal = 2
)

func main() {
	cmd := newRootCommand()
	if err := cmd.Execute(); err != nil {
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(exitCodeFor(err))
	}
}
