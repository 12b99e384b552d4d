// Package common holds the logging, formatting and banner helpers shared by
// every folio-dashboard package.
package common

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/bobmcallan/folio-dashboard/internal/config"
	"github.com/phuslu/log"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/arbor/models"
	"github.com/ternarybob/arbor/writers"
)

const (
	logTimeFormat     = "2006-01-02T15:04:05Z07:00"
	defaultLogFile    = "logs/folio-dashboard.log"
	defaultLogBackups = 5
	defaultLogMaxSize = 500 * 1024
)

// Logger is the arbor logger every service and handler receives.
type Logger struct {
	arbor.ILogger
}

// NewLogger creates a console logger at the given level.
func NewLogger(level string) *Logger {
	return NewLoggerFromConfig(config.LoggingConfig{Level: level})
}

// NewLoggerFromConfig builds a logger from the [logging] section. Outputs
// may name "console" (stderr) and "file"; a memory writer is always added.
func NewLoggerFromConfig(cfg config.LoggingConfig) *Logger {
	l := arbor.NewLogger()
	for _, out := range outputsOrDefault(cfg.Outputs) {
		switch out {
		case "console":
			l = l.WithConsoleWriter(models.WriterConfiguration{
				Type:       models.LogWriterTypeConsole,
				Writer:     os.Stderr,
				TimeFormat: logTimeFormat,
			})
		case "file":
			l = l.WithFileWriter(fileWriterConfig(cfg))
		}
	}

	l = l.WithMemoryWriter(models.WriterConfiguration{Type: models.LogWriterTypeMemory}).
		WithLevelFromString(levelOrDefault(cfg.Level))
	return &Logger{ILogger: l}
}

func outputsOrDefault(outputs []string) []string {
	if len(outputs) == 0 {
		return []string{"console"}
	}
	return outputs
}

func levelOrDefault(level string) string {
	if strings.TrimSpace(level) == "" {
		return "info"
	}
	return level
}

func fileWriterConfig(cfg config.LoggingConfig) models.WriterConfiguration {
	wc := models.WriterConfiguration{
		Type:       models.LogWriterTypeFile,
		FileName:   cfg.FilePath,
		MaxSize:    int64(cfg.MaxSizeMB) << 20,
		MaxBackups: cfg.MaxBackups,
		TimeFormat: logTimeFormat,
	}
	if wc.FileName == "" {
		wc.FileName = defaultLogFile
	}
	if wc.MaxSize <= 0 {
		wc.MaxSize = defaultLogMaxSize
	}
	if wc.MaxBackups <= 0 {
		wc.MaxBackups = defaultLogBackups
	}
	return wc
}

// NewLoggerWithOutput writes plain "message key=value" lines to w. Tests
// use it to assert on what was logged.
func NewLoggerWithOutput(level string, w io.Writer) *Logger {
	arbor.RegisterWriter(arbor.WRITER_CONSOLE, &lineWriter{out: w, min: log.ParseLevel(levelOrDefault(level))})

	l := arbor.NewLogger().
		WithMemoryWriter(models.WriterConfiguration{Type: models.LogWriterTypeMemory}).
		WithLevelFromString(levelOrDefault(level))
	return &Logger{ILogger: l}
}

// NewSilentLogger discards everything.
func NewSilentLogger() *Logger {
	return &Logger{ILogger: arbor.NewLogger().WithWriters([]writers.IWriter{discard{}})}
}

// WithCorrelationId tags every event with a request correlation ID.
func (l *Logger) WithCorrelationId(id string) *Logger {
	return &Logger{ILogger: l.ILogger.WithCorrelationId(id)}
}

type discard struct{}

func (discard) Write(p []byte) (int, error)           { return len(p), nil }
func (d discard) WithLevel(log.Level) writers.IWriter { return d }
func (discard) GetFilePath() string                   { return "" }
func (discard) Close() error                          { return nil }

// lineWriter decodes arbor's JSON events into single text lines with fields
// in key order.
type lineWriter struct {
	out io.Writer
	min log.Level
}

func (w *lineWriter) Write(p []byte) (int, error) {
	var evt models.LogEvent
	if err := json.Unmarshal(p, &evt); err != nil {
		return w.out.Write(p)
	}
	if evt.Level < w.min {
		return len(p), nil
	}

	keys := make([]string, 0, len(evt.Fields))
	for k := range evt.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(evt.Message)
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, evt.Fields[k])
	}
	if evt.Error != "" {
		fmt.Fprintf(&b, " error=%s", evt.Error)
	}
	b.WriteByte('\n')

	if _, err := io.WriteString(w.out, b.String()); err != nil {
		return 0, err
	}
	return len(p), nil
}

func (w *lineWriter) WithLevel(level log.Level) writers.IWriter {
	if level > w.min {
		w.min = level
	}
	return w
}

func (w *lineWriter) GetFilePath() string { return "" }
func (w *lineWriter) Close() error        { return nil }
