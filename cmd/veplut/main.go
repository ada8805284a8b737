package main

import (
	"os"

	"github.com/ins-amu/veplut/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
