package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/audiobook-master/version"
)

var (
	cfgFile  string
	workDir  string
	logLevel string
)

// parseLogLevel converts a string log level to slog.Level. Supports
// debug, info, warn, error (case-insensitive).
func parseLogLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid log level %q: must be debug, info, warn, or error", level)
	}
}

// getLogLevel resolves the effective log level from --log-level, falling
// back to MASTERCTL_LOG_LEVEL, then info.
func getLogLevel() slog.Level {
	level := logLevel
	if level == "" {
		level = os.Getenv("MASTERCTL_LOG_LEVEL")
	}
	if level == "" {
		level = "info"
	}
	parsed, err := parseLogLevel(level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v, using info\n", err)
		return slog.LevelInfo
	}
	return parsed
}

func newLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: getLogLevel()}))
}

var rootCmd = &cobra.Command{
	Use:   "masterctl",
	Short: "Audiobook mastering pipeline: align, time, and treat narration against a manuscript",
	Long: `masterctl turns a raw narration recording and its source manuscript into a
mastered, timed audiobook chapter.

The pipeline:
  - indexes the manuscript into words, sentences, paragraphs, and sections
  - dispatches narration audio to an ASR adapter
  - anchors the ASR transcript to the book text with n-gram matching
  - aligns the gaps between anchors with a windowed DP aligner
  - hydrates a per-word timeline and forced-aligns it for frame-accurate timing
  - analyzes pauses and treats them with roomtone
  - packages the result as an EPUB3 Media Overlay`,
	Version: version.GitRelease,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./config.yaml or ~/.masterctl/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&workDir, "work-dir", "", "book work_dir containing manuscript, audio, and per-chapter artifacts")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error (default: info, env: MASTERCTL_LOG_LEVEL)")
	rootCmd.PersistentFlags().StringVar(&bookTitle, "title", "", "book title, recorded in the book index")
	rootCmd.PersistentFlags().StringVar(&bookAuthor, "author", "", "book author, recorded in the book index")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(serveCronCmd)
}
