package main

import (
	"os"

	"github.com/okanek/kashi/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
