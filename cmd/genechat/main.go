package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"

	_ "embed"

	"genechat/internal/adapter/backend"
	"genechat/internal/adapter/tui/chat"
	"genechat/internal/adapter/tui/theme"
	"genechat/internal/adapter/tui/uxerror"
	"genechat/internal/domain"
	"genechat/internal/infra/config"
	"genechat/internal/infra/logger"
	"genechat/internal/infra/tracer"
	"genechat/internal/usecase/session"
)

//go:embed demo.json
var demoTranscript []byte

func main() {
	if len(os.Args) >= 2 {
		switch os.Args[1] {
		case "--help", "-h", "help":
			showUsage()
			return
		}
	}

	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, uxerror.Humanize(err).Render())
		fmt.Fprintf(os.Stderr, "\n%v\n", err)
		os.Exit(1)
	}
}

func showUsage() {
	fmt.Println(`genechat - terminal client for the genetic variant chat service

USAGE:
    genechat [FLAGS]

FLAGS:
    -h, --help          Show this help message
    --config PATH       Config file path (default: ./config.yaml)
    --backend URL       Backend base URL (overrides config)
    --transport NAME    Wire transport: rest or sse (overrides config)
    --demo              Preload a sample conversation transcript

CONFIGURATION:
    Config file: ./config.yaml (optional)
    Environment: GENECHAT_* variables override config

EXAMPLES:
    genechat                                  # Run with defaults
    genechat --backend http://localhost:8000  # Point at a local server
    genechat --transport sse                  # Use the streaming endpoint
    genechat --demo                           # Explore the UI offline`)
}

// cliFlags holds optional CLI flags that override config values.
type cliFlags struct {
	ConfigPath string
	Backend    string
	Transport  string
	Demo       bool
}

// parseFlags extracts --config, --backend, --transport, --demo from os.Args.
func parseFlags() cliFlags {
	flags := cliFlags{ConfigPath: "./config.yaml"}
	for i := 1; i < len(os.Args); i++ {
		switch {
		case os.Args[i] == "--config" && i+1 < len(os.Args):
			flags.ConfigPath = os.Args[i+1]
			i++
		case strings.HasPrefix(os.Args[i], "--config="):
			flags.ConfigPath = strings.TrimPrefix(os.Args[i], "--config=")
		case os.Args[i] == "--backend" && i+1 < len(os.Args):
			flags.Backend = os.Args[i+1]
			i++
		case strings.HasPrefix(os.Args[i], "--backend="):
			flags.Backend = strings.TrimPrefix(os.Args[i], "--backend=")
		case os.Args[i] == "--transport" && i+1 < len(os.Args):
			flags.Transport = os.Args[i+1]
			i++
		case strings.HasPrefix(os.Args[i], "--transport="):
			flags.Transport = strings.TrimPrefix(os.Args[i], "--transport=")
		case os.Args[i] == "--demo":
			flags.Demo = true
		}
	}
	return flags
}

func run() error {
	// 1. Config
	flags := parseFlags()

	cfg, err := config.Load(flags.ConfigPath)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if flags.Backend != "" {
		cfg.Backend.BaseURL = flags.Backend
	}
	if flags.Transport != "" {
		cfg.Backend.Transport = flags.Transport
	}
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	if cfg.UI.ASCIISymbols {
		theme.UseASCII()
	}

	// 2. Logger & Tracer
	log, logCloser, err := logger.New(cfg.Logger)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer logCloser()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tracerShutdown, err := tracer.Setup(ctx, cfg.Tracer)
	if err != nil {
		return fmt.Errorf("tracer: %w", err)
	}
	defer tracerShutdown(context.Background())

	// 3. Backend
	var be domain.ChatBackend
	switch cfg.Backend.Transport {
	case "sse":
		be = backend.NewStreamClient(cfg.Backend, log)
	default:
		be = backend.NewClient(cfg.Backend, log)
	}
	if cfg.Backend.CircuitBreaker.Enabled {
		be = backend.NewCircuitBreakerBackend(be, cfg.Backend.CircuitBreaker, log)
	}

	// 4. Session
	store := session.NewStore()
	ctrl := session.NewController(store, be, cfg.Backend.DropEcho, log)

	// 5. TUI
	model := chat.NewChatModel(chat.ChatModelDeps{
		Controller:  ctrl,
		Logger:      log,
		BackendName: backendHost(cfg.Backend.BaseURL),
		Stream:      chat.NewStreamConfig(cfg.UI.StreamInterval, cfg.UI.StreamChunk),
		Markdown:    cfg.UI.Markdown,
	})

	if flags.Demo {
		entries, err := loadDemoTranscript()
		if err != nil {
			return fmt.Errorf("demo transcript: %w", err)
		}
		store.Seed(entries)
		model.SeedTranscript(entries)
		log.Info("demo transcript loaded", "entries", len(entries))
	}

	log.Info("starting genechat",
		"backend", cfg.Backend.BaseURL,
		"transport", cfg.Backend.Transport,
	)

	return chat.NewProgram(model, log).Run(ctx)
}

// backendHost extracts the host portion of the base URL for display.
func backendHost(baseURL string) string {
	u, err := url.Parse(baseURL)
	if err != nil || u.Host == "" {
		return baseURL
	}
	return u.Host
}

// loadDemoTranscript parses the embedded sample conversation.
func loadDemoTranscript() ([]domain.Entry, error) {
	var turn domain.Turn
	if err := json.Unmarshal(demoTranscript, &turn); err != nil {
		return nil, err
	}
	return turn.Entries, nil
}
