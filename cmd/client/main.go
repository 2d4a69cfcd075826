package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/appabyss/appabyss/internal/client/api"
	"github.com/appabyss/appabyss/internal/client/cli"
	"github.com/appabyss/appabyss/internal/client/session"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Глобальные флаги
	showVersion := flag.Bool("version", false, "Show version information")
	serverURL := flag.String("server", "http://localhost:8080", "Server URL")
	dbPath := flag.String("db", "appabyss-client.db", "Path to local session database")

	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	args := flag.Args()
	if len(args) == 0 {
		cli.PrintUsage()
		os.Exit(1)
	}

	command := args[0]
	ctx := context.Background()

	// Открываем локальное хранилище сессии
	sessions, err := session.Open(ctx, *dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open session database: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		if err := sessions.Close(); err != nil {
			slog.Error("failed to close session database", "error", err)
		}
	}()

	apiClient := api.NewClient(*serverURL)

	cli.New(apiClient, sessions).Run(ctx, command, args[1:])
}

func printVersion() {
	fmt.Printf("AppAbyss Client\n")
	fmt.Printf("Version:    %s\n", Version)
	fmt.Printf("Build date: %s\n", BuildDate)
	fmt.Printf("Git commit: %s\n", GitCommit)
}
