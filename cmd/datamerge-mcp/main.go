package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/datamergehq/datamerge-mcp/internal/mcpserver"
	"github.com/datamergehq/datamerge-mcp/internal/session"
)

const (
	serverName    = "datamerge-mcp"
	serverVersion = "0.2.0"
)

var (
	version  = flag.Bool("version", false, "Print version and exit")
	debug    = flag.Bool("debug", false, "Enable debug logging")
	httpMode = flag.Bool("http", false, "Enable streamable HTTP transport instead of stdio")
)

func main() {
	flag.Parse()

	if *version {
		fmt.Printf("%s v%s\n", serverName, serverVersion)
		os.Exit(0)
	}

	// Structured logging goes to stderr; stdout belongs to the stdio
	// transport.
	logLevel := slog.LevelInfo
	if *debug {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// DATAMERGE_API_KEY is the process-wide fallback credential; sessions
	// without their own credential use it. Never logged.
	fallbackKey := os.Getenv("DATAMERGE_API_KEY")
	baseURL := os.Getenv("DATAMERGE_BASE_URL")

	httpPort := os.Getenv("HTTP_PORT")
	if httpPort == "" {
		httpPort = "8080"
	}

	logger.Info("starting DataMerge MCP server",
		"version", serverVersion,
		"debug", *debug,
		"http_mode", *httpMode,
		"http_port", httpPort,
		"fallback_credential_present", fallbackKey != "",
	)

	sessions := session.NewStore(fallbackKey, baseURL)
	srv := mcpserver.NewServer(mcpserver.Config{
		Name:    serverName,
		Version: serverVersion,
	}, sessions, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Info("received shutdown signal")
		cancel()
	}()

	var err error
	if *httpMode {
		err = srv.ServeHTTP(ctx, ":"+httpPort)
	} else {
		err = srv.ServeStdio()
	}
	if err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}

	logger.Info("shutdown complete")
}
