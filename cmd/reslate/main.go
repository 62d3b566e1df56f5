// Command reslate converts PDF documents into editable PowerPoint decks.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/tsawler/reslate/internal/cli"
	"github.com/tsawler/reslate/internal/config"
	"github.com/tsawler/reslate/internal/logger"
)

func main() {
	// A .env file is optional; real environment variables win over it.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "warning: loading .env: %v\n", err)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "reslate: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Setup(cfg.LoggerConfig()); err != nil {
		fmt.Fprintf(os.Stderr, "reslate: %v\n", err)
		os.Exit(1)
	}

	cli.Execute(cfg)
}
