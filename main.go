// main is the entry point for the gapcast CLI.
package main

import (
	"fmt"
	"os"

	"github.com/abarry/gapcast/cmd"
	"github.com/abarry/gapcast/internal/runstore"
)

func main() {
	cmd.SetStoreManager(runstore.Manager)

	err := cmd.Execute()
	runstore.CloseStore()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
