package common

import (
	"fmt"
	"os"
	"strings"

	"github.com/bobmcallan/folio-dashboard/internal/config"
	"github.com/ternarybob/banner"
)

// PrintBanner displays the application startup banner to stderr.
func PrintBanner(cfg *config.Config, logger *Logger) {
	version := config.GetVersion()
	build := config.GetBuild()
	commit := config.GetGitCommit()
	serviceURL := cfg.BaseURL()

	lineColor := banner.ColorCyan
	textColor := banner.ColorBold + banner.ColorWhite
	width := 64
	hr := lineColor + strings.Repeat("═", width) + banner.ColorReset

	art := []string{
		` 8888888888 .d88888b.  888      8888888  .d88888b.`,
		` 888       d88P" "Y88b 888        888   d88P" "Y88b`,
		` 888       888     888 888        888   888     888`,
		` 8888888   888     888 888        888   888     888`,
		` 888       888     888 888        888   888     888`,
		` 888       888     888 888        888   888     888`,
		` 888       Y88b. .d88P 888        888   Y88b. .d88P`,
		` 888        "Y88888P"  88888888 8888888  "Y88888P"`,
	}

	fmt.Fprintf(os.Stderr, "\n%s\n\n", hr)
	for _, line := range art {
		fmt.Fprintf(os.Stderr, "%s%s%s\n", textColor, line, banner.ColorReset)
	}
	fmt.Fprintf(os.Stderr, "\n%s  Portfolio Analytics Dashboard%s\n", textColor, banner.ColorReset)
	fmt.Fprintf(os.Stderr, "\n%s\n\n", hr)

	kvPad := 16
	kvLines := [][2]string{
		{"Version", version},
		{"Build", build},
		{"Commit", commit},
		{"Environment", cfg.Environment},
		{"Service URL", serviceURL},
		{"Data API", cfg.API.BaseURL},
	}
	for _, kv := range kvLines {
		fmt.Fprintf(os.Stderr, "%s  %-*s %s%s\n", textColor, kvPad, kv[0], kv[1], banner.ColorReset)
	}
	fmt.Fprintf(os.Stderr, "\n%s\n\n", hr)

	logger.Info().
		Str("version", version).
		Str("build", build).
		Str("commit", commit).
		Str("environment", cfg.Environment).
		Str("service_url", serviceURL).
		Str("api_base_url", cfg.API.BaseURL).
		Msg("Application started")
}

// PrintShutdownBanner displays the application shutdown banner to stderr.
func PrintShutdownBanner(logger *Logger) {
	lineColor := banner.ColorCyan
	textColor := banner.ColorBold + banner.ColorWhite
	hr := lineColor + strings.Repeat("═", 42) + banner.ColorReset

	fmt.Fprintf(os.Stderr, "\n%s\n", hr)
	fmt.Fprintf(os.Stderr, "%s  folio-dashboard shutting down%s\n", textColor, banner.ColorReset)
	fmt.Fprintf(os.Stderr, "%s\n\n", hr)

	logger.Info().Msg("Application shutdown")
}
