// SPDX-License-Identifier: MIT

// Command lvsdp solves block-diagonal semidefinite programs from problem
// files, in batches, or over HTTP.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
