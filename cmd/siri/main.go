// main is the entry point for the siri CLI.
package main

import (
	"fmt"
	"os"

	"github.com/huangsam/siri/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, "❌", err)
		os.Exit(1)
	}
}
