package main

import (
	"os"

	"github.com/oggyb/vidhub/internal/logger"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		logger.Error("admin command failed", "err", err)
		os.Exit(1)
	}
}
