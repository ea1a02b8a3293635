package main

import (
	"os"

	"github.com/maumlog/maum/backend/internal/cli"
)

func main() {
	if err := cli.RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
