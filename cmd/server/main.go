package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/appabyss/appabyss/internal/server"
	"github.com/appabyss/appabyss/internal/server/config"
	"github.com/appabyss/appabyss/internal/server/handlers"
	"github.com/appabyss/appabyss/internal/server/storage/sqlite"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

func main() {
	if len(os.Args) > 1 && os.Args[1] == "-version" {
		printVersion()
		os.Exit(0)
	}

	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "server failed: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	cfg, err := config.Load(args)
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	st, err := sqlite.New(ctx, cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	defer st.Close()

	tokens := handlers.TokenConfig{
		Secret:      []byte(cfg.JWTSecret),
		TrustDomain: cfg.TrustDomain,
		TokenTTL:    cfg.TokenTTL,
	}

	router := server.NewRouter(server.Deps{
		Logger:     logger,
		Tokens:     tokens,
		Users:      st,
		Icons:      st,
		Systems:    st,
		Software:   st,
		Lists:      st,
		Version:    Version,
		AuthRate:   cfg.AuthRateLimit,
		AuthWindow: cfg.AuthRateWindow,
	})

	app := server.NewApp(logger, cfg.Address, router)
	return app.Run(ctx)
}

func printVersion() {
	fmt.Printf("AppAbyss Server\n")
	fmt.Printf("Version:    %s\n", Version)
	fmt.Printf("Build Date: %s\n", BuildDate)
	fmt.Printf("Git Commit: %s\n", GitCommit)
}
