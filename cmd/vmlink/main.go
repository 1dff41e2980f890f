// Command vmlink merges relocatable object files produced by vmasm into
// a single linked executable (§6.4).
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/okvm/vm8/internal/config"
	"github.com/okvm/vm8/internal/linker"
	"github.com/okvm/vm8/internal/logging"
	"github.com/okvm/vm8/internal/objfile"
)

var outputPath string

func main() {
	cobra.OnInitialize(func() {}) // parity with vmasm's lifecycle; nothing else needed yet
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "vmlink -o OUTPUT INPUT...",
	Short: "Link vm8 object files into an executable",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runLink,
}

func init() {
	rootCmd.Flags().StringVarP(&outputPath, "output", "o", "", "output executable path (required)")
	_ = rootCmd.MarkFlagRequired("output")
}

func newLogger() *slog.Logger {
	c, err := config.Load("")
	if err != nil {
		c = &config.Config{LogLevel: "info"}
	}

	var level slog.Level
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	var jsonWriter io.Writer
	if c.LogFile != "" {
		if f, err := os.OpenFile(c.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644); err == nil {
			jsonWriter = f
		}
	}

	return logging.New(logging.Options{Level: level, JSONWriter: jsonWriter})
}

func runLink(cmd *cobra.Command, args []string) error {
	logger := newLogger()

	objs := make([]*objfile.Object, 0, len(args))
	for _, path := range args {
		raw, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		obj, err := objfile.ReadObject(path, raw)
		if err != nil {
			logger.Error("reading object failed", "path", path, "error", err)
			return err
		}
		objs = append(objs, obj)
	}

	result, err := linker.Link(objs)
	if err != nil {
		logger.Error("link failed", "error", err)
		return err
	}

	exeBytes := objfile.WriteExecutable(result.Text, result.Data, result.Symbols, result.Entry)
	if err := os.WriteFile(outputPath, exeBytes, 0o644); err != nil {
		return err
	}

	logger.Info("linked", "output", outputPath, "inputs", len(objs),
		"text_bytes", len(result.Text), "data_bytes", len(result.Data), "entry", fmt.Sprintf("0x%x", result.Entry))
	return nil
}
