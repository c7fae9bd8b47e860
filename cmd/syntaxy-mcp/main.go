package main

import (
	"fmt"
	"os"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/pflag"

	"github.com/Gabzxcv/Syntaxy-FL/internal/config"
	"github.com/Gabzxcv/Syntaxy-FL/internal/logging"
	"github.com/Gabzxcv/Syntaxy-FL/internal/version"
	"github.com/Gabzxcv/Syntaxy-FL/mcp"
)

const serverName = "syntaxy"

func main() {
	flags := pflag.NewFlagSet(serverName+"-mcp", pflag.ExitOnError)
	configPath := flags.StringP("config", "c", "", "Configuration file path")
	flags.String("log-level", "", "Log level (trace, debug, info, warn, error)")
	flags.String("log-format", "", "Log format (text, json)")
	_ = flags.Parse(os.Args[1:])

	cfg, err := config.LoadConfig(*configPath, flags)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	// stdout carries JSON-RPC, so logs always go to stderr.
	logger, err := logging.New(logging.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format, Output: os.Stderr})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	deps, err := mcp.NewDependencies(cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	server := mcpserver.NewMCPServer(
		serverName,
		version.Short(),
		mcpserver.WithToolCapabilities(true),
		mcpserver.WithLogging(),
	)
	mcp.RegisterTools(server, mcp.NewHandlerSet(deps))

	logger.WithField("version", version.Short()).Info("MCP server ready on stdio (tools: analyze_code, list_languages)")
	if err := mcpserver.ServeStdio(server); err != nil {
		logger.WithError(err).Error("server stopped")
		os.Exit(1)
	}
}
