package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/cantata-audio/cantata/internal/cli"
	"github.com/cantata-audio/cantata/internal/config"
	"github.com/cantata-audio/cantata/internal/entrypoint"
)

// Version information - set at build time via ldflags
var (
	Version = "dev"
	Commit  = "unknown"
)

func main() {
	// Missing .env is fine; real deployments configure through the
	// process environment.
	_ = godotenv.Load()

	// If no arguments or "run" command, start the maintenance daemon
	if len(os.Args) < 2 || os.Args[1] == "run" {
		cfg := config.NewConfig()
		entrypoint.Run(cfg, Version)
		return
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "init-db":
		cmd := cli.NewInitDBCommand()
		if err := cmd.ParseFlags(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if err := cmd.Run(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

	case "-h", "--help", "help":
		printUsage()

	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, "Usage: %s <command> [options]\n\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "Commands:\n")
	fmt.Fprintf(os.Stderr, "  run      Start the maintenance daemon (default if no command given)\n")
	fmt.Fprintf(os.Stderr, "  init-db  Create all tables from entity definitions (development only)\n")
	fmt.Fprintf(os.Stderr, "\nUse '%s <command> -h' for help on a specific command.\n", os.Args[0])
}
