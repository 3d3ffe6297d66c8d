// Command tripctl is a terminal client for the trip planner API. It keeps
// the user's identity in a local SQLite file and sends it with every
// mutating request.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
