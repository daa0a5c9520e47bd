// Package main provides the charsheet command: it builds characters from
// YAML sheets, prints their derived values, and manages stored snapshots.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
