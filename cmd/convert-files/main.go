package main

import (
	"os"

	"convert-files-go/internal/cli"
	"convert-files-go/pkg/logger"
)

var version = "dev"

func main() {
	log := logger.NewFromEnv()

	if err := cli.NewRootCommand(log, version).Execute(); err != nil {
		log.Critical("app: command failed", "err", err)
		os.Exit(1)
	}
}
