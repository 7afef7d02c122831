package main

import (
	"os"

	"github.com/modaledit/vintage/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
