package main

import (
	"os"

	"github.com/nagyistge/manta-madtom/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
