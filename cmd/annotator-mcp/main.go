// Package main serves the annotation tools to MCP clients over stdio.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	appconfig "github.com/entrhq/annotator/pkg/config"
	"github.com/entrhq/annotator/pkg/logging"
	"github.com/entrhq/annotator/pkg/tools/browser"
)

const (
	version = "0.1.0"

	minCleanupInterval = 10 * time.Second
)

var debugLog *logging.Logger

func init() {
	debugLog = logging.Component("mcp")
}

func main() {
	configPath := flag.String("config", "", "Path to the settings file (default ~/.annotator/config.json)")
	showVersion := flag.Bool("version", false, "Show version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("Annotator MCP v%s\n", version)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, *configPath); err != nil {
		stop()
		log.Printf("Server failed: %v", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, configPath string) error {
	if err := appconfig.Initialize(configPath); err != nil {
		return fmt.Errorf("failed to initialize configuration: %w", err)
	}

	manager := browser.NewSessionManager()
	manager.Configure(appconfig.GetBrowser(), appconfig.GetAnnotator())
	defer func() {
		if err := manager.Shutdown(); err != nil {
			debugLog.Errorf("shutdown: %v", err)
		}
	}()

	interval := minCleanupInterval
	if b := appconfig.GetBrowser(); b != nil {
		if _, idle := b.Limits(); idle/2 > interval {
			interval = idle / 2
		}
	}
	go manager.RunIdleCleanup(ctx, interval)

	srv := newServer(browser.NewToolRegistry(manager))
	debugLog.Infof("serving on stdio")
	if err := srv.Run(ctx, &mcp.StdioTransport{}); err != nil && ctx.Err() == nil {
		return fmt.Errorf("mcp server: %w", err)
	}
	return nil
}
