package main

import (
	"os"

	"github.com/agentcrate/agentcrate/cli"
)

func main() {
	cmd := cli.RootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
