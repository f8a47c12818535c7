package main

import (
	"os"

	"github.com/jask/marsestate/cmd/marsestate/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
