// UTCA - Ultimate TAG composition analysis tool
package main

import (
	"fmt"
	"os"

	"github.com/ChrisMcGann/utca/cmd/utca/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
