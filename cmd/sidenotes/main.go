package main

import (
	"fmt"
	"os"
)

// Version is set at build time via ldflags
var Version = ""

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
