// Command typedflow serves typed stores and processing pipelines over HTTP
// and runs pipelines over command line input.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
