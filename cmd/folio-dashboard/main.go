package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/bobmcallan/folio-dashboard/internal/app"
	"github.com/bobmcallan/folio-dashboard/internal/common"
	"github.com/bobmcallan/folio-dashboard/internal/config"
	"github.com/bobmcallan/folio-dashboard/internal/server"
)

const (
	configName      = "folio-dashboard.toml"
	shutdownTimeout = 10 * time.Second
)

// configPaths collects repeated -config flags.
type configPaths []string

func (c *configPaths) String() string { return strings.Join(*c, ",") }

func (c *configPaths) Set(value string) error {
	*c = append(*c, value)
	return nil
}

type options struct {
	configs configPaths
	port    int
	host    string
	version bool
}

func parseFlags() options {
	var o options
	var shortPort int
	flag.Var(&o.configs, "config", "TOML config file, repeatable; later files win")
	flag.Var(&o.configs, "c", "shorthand for -config")
	flag.IntVar(&o.port, "port", 0, "listen port, overrides [server] port")
	flag.IntVar(&shortPort, "p", 0, "shorthand for -port")
	flag.StringVar(&o.host, "host", "", "listen host, overrides [server] host")
	flag.BoolVar(&o.version, "version", false, "print version and exit")
	flag.Parse()

	if shortPort != 0 {
		o.port = shortPort
	}
	if len(o.configs) == 0 {
		if path, ok := findConfig(); ok {
			o.configs = append(o.configs, path)
		}
	}
	return o
}

func main() {
	opts := parseFlags()
	config.LoadVersionFromFile()

	if opts.version {
		fmt.Printf("folio-dashboard %s\n", config.GetFullVersion())
		return
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		reportConfigError(err)
		os.Exit(1)
	}

	logger := common.NewLoggerFromConfig(cfg.Logging)
	common.PrintBanner(cfg, logger)
	logger.Info().
		Str("environment", cfg.Environment).
		Str("api", cfg.API.BaseURL).
		Strs("config_files", opts.configs).
		Msg("Configuration loaded")

	if err := run(cfg, logger); err != nil {
		logger.Error().Err(err).Msg("folio-dashboard stopped with an error")
		os.Exit(1)
	}
	common.PrintShutdownBanner(logger)
}

// run serves the dashboard until SIGINT or SIGTERM.
func run(cfg *config.Config, logger *common.Logger) error {
	application, err := app.New(cfg, logger)
	if err != nil {
		return fmt.Errorf("initialize application: %w", err)
	}
	defer application.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application.Start(ctx)

	srv := server.New(application)
	serveErr := make(chan error, 1)
	go func() { serveErr <- srv.Start() }()

	logger.Info().Str("url", cfg.BaseURL()).Msg("Dashboard ready")

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
		logger.Info().Msg("Shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func loadConfig(opts options) (*config.Config, error) {
	cfg, err := config.LoadFromFiles(opts.configs...)
	if err != nil {
		return nil, err
	}
	config.ApplyFlagOverrides(cfg, opts.port, opts.host)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func reportConfigError(err error) {
	var cfgErr *config.ConfigError
	if !errors.As(err, &cfgErr) {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		return
	}
	fmt.Fprintln(os.Stderr, "folio-dashboard cannot start, the configuration is incomplete:")
	for _, issue := range cfgErr.Issues {
		fmt.Fprintf(os.Stderr, "  - %s\n", issue)
	}
	fmt.Fprintf(os.Stderr, "Set them in %s, FOLIO_* environment variables or flags (see config/%s.example).\n", configName, configName)
}

// findConfig returns the first existing config file in the working
// directory or next to the binary.
func findConfig() (string, bool) {
	dirs := []string{".", "config"}
	if exe, err := os.Executable(); err == nil {
		bin := filepath.Dir(exe)
		dirs = append(dirs, bin, filepath.Join(bin, "config"))
	}
	for _, dir := range dirs {
		path := filepath.Join(dir, configName)
		if _, err := os.Stat(path); err == nil {
			return path, true
		}
	}
	return "", false
}
