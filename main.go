package main

import (
	"fmt"
	"os"

	"github.com/splashd/splashd/cmd"
	"github.com/splashd/splashd/internal/boot"
)

func main() {
	// As pid 1 the arguments belong to the real init, so the CLI stays
	// out of the way entirely.
	if boot.IsInit() {
		if err := cmd.ExecuteAsInit(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
