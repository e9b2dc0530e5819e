// Package main runs annotation plans against a page without a client:
// open the URL, apply every step, then write a screenshot and a report.
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

	appconfig "github.com/entrhq/annotator/pkg/config"
	"github.com/entrhq/annotator/pkg/executor/headless"
	"github.com/entrhq/annotator/pkg/tools/browser"
)

const version = "0.1.0"

// CLIConfig holds command-line configuration
type CLIConfig struct {
	PlanFile    string
	ConfigFile  string
	URL         string
	Selector    string
	Text        string
	Label       string
	OutputDir   string
	Verbosity   string
	Headed      bool
	Screenshot  bool
	Timeout     time.Duration
	ShowVersion bool
}

func main() {
	config := parseFlags()

	if config.ShowVersion {
		fmt.Printf("Annotator v%s\n", version)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println("\n\nShutting down gracefully...")
		cancel()
	}()

	if err := run(ctx, config); err != nil {
		cancel()
		log.Printf("Execution failed: %v", err)
		os.Exit(1)
	}
	cancel()
}

func parseFlags() *CLIConfig {
	config := &CLIConfig{}

	flag.StringVar(&config.PlanFile, "plan", "", "Path to an annotation plan (YAML)")
	flag.StringVar(&config.ConfigFile, "config", "", "Path to the settings file (default ~/.annotator/config.json)")
	flag.StringVar(&config.URL, "url", "", "Page to annotate (required without -plan)")
	flag.StringVar(&config.Selector, "selector", "", "CSS selector to highlight")
	flag.StringVar(&config.Text, "text", "", "Visible text to highlight")
	flag.StringVar(&config.Label, "label", "", "Label to attach to each highlight")
	flag.StringVar(&config.OutputDir, "output", "", "Artifact directory (overrides the plan)")
	flag.StringVar(&config.Verbosity, "verbosity", "", "quiet, normal, verbose or debug (overrides the plan)")
	flag.BoolVar(&config.Headed, "headed", false, "Show the browser window")
	flag.BoolVar(&config.Screenshot, "screenshot", true, "Capture the annotated page")
	flag.DurationVar(&config.Timeout, "timeout", 0, "Execution timeout (overrides the plan)")
	flag.BoolVar(&config.ShowVersion, "version", false, "Show version and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Annotator - highlight, label and comment on web pages\n\n")
		fmt.Fprintf(os.Stderr, "Usage: annotator [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  # Highlight one element\n")
		fmt.Fprintf(os.Stderr, "  annotator -url https://example.com -selector h1 -label Title\n\n")
		fmt.Fprintf(os.Stderr, "  # Run a plan\n")
		fmt.Fprintf(os.Stderr, "  annotator -plan review.yaml\n\n")
	}

	flag.Parse()
	return config
}

func run(ctx context.Context, cliConfig *CLIConfig) error {
	plan, err := loadPlan(cliConfig)
	if err != nil {
		return fmt.Errorf("failed to load plan: %w", err)
	}

	if err := appconfig.Initialize(cliConfig.ConfigFile); err != nil {
		return fmt.Errorf("failed to initialize configuration: %w", err)
	}
	if b := appconfig.GetBrowser(); b != nil && !b.IsEnabled() {
		return fmt.Errorf("browser tools are disabled in the configuration")
	}

	manager := browser.NewSessionManager()
	manager.Configure(appconfig.GetBrowser(), appconfig.GetAnnotator())
	defer func() {
		if err := manager.Shutdown(); err != nil {
			log.Printf("Shutdown: %v", err)
		}
	}()

	executor, err := headless.NewExecutor(manager, plan)
	if err != nil {
		return fmt.Errorf("failed to create executor: %w", err)
	}
	return executor.Run(ctx)
}

// loadPlan reads the plan file or builds a one-step plan from the flags.
// Flags given explicitly override the plan.
func loadPlan(cliConfig *CLIConfig) (*headless.Config, error) {
	var plan *headless.Config
	if cliConfig.PlanFile != "" {
		loaded, err := headless.LoadConfig(cliConfig.PlanFile)
		if err != nil {
			return nil, err
		}
		plan = loaded
		if cliConfig.URL != "" {
			plan.URL = cliConfig.URL
		}
	} else {
		if cliConfig.URL == "" {
			return nil, fmt.Errorf("url is required when not using a plan file")
		}
		if cliConfig.Selector == "" && cliConfig.Text == "" {
			return nil, fmt.Errorf("selector or text is required when not using a plan file")
		}
		plan = headless.DefaultConfig()
		plan.URL = cliConfig.URL
		plan.Steps = []headless.Step{annotateStep(cliConfig)}
		plan.Screenshot.Enabled = cliConfig.Screenshot
	}

	if cliConfig.OutputDir != "" {
		plan.Artifacts.Enabled = true
		plan.Artifacts.OutputDir = cliConfig.OutputDir
	}
	if cliConfig.Verbosity != "" {
		plan.Logging.Verbosity = cliConfig.Verbosity
	}
	if cliConfig.Timeout > 0 {
		plan.Timeout = cliConfig.Timeout
	}
	if cliConfig.Headed {
		headlessMode := false
		plan.Session.Headless = &headlessMode
	}
	return plan, nil
}

func annotateStep(cliConfig *CLIConfig) headless.Step {
	args := map[string]interface{}{}
	if cliConfig.Selector != "" {
		args["selector"] = cliConfig.Selector
	}
	if cliConfig.Text != "" {
		args["text"] = cliConfig.Text
	}
	if cliConfig.Label != "" {
		args["label"] = cliConfig.Label
	}
	return headless.Step{Kind: headless.StepAnnotate, Args: args}
}
