package main

import (
	"os"

	"github.com/abhisek/brainventure/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
