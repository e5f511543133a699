package main

import (
	"savedfile/pkg/lib"
)

// version is injected via ldflags at build time.
var version = "dev"

func main() {
	if err := newRootCommand(newApp()).Execute(); err != nil {
		lib.Exit(err)
	}
}
