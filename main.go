// Punctual - meeting alerts for your terminal.
package main

import (
	"os"

	"github.com/manav03panchal/punctual/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
