package main

import (
	"os"

	"github.com/bitfun/appstate/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
