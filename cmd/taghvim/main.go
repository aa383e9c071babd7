package main

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	// Optional; the environment always wins.
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "taghvim",
		Short: "Jalali/Gregorian date conversion bot",
		Long:  "taghvim reads a date from a chat message, guesses whether it is Jalali or Gregorian, and replies with the date in the other calendar.",
	}

	rootCmd.AddCommand(newServeCommand())
	rootCmd.AddCommand(newConvertCommand())
	rootCmd.AddCommand(newVersionCommand())

	if err := rootCmd.Execute(); err != nil {
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}

func setupLogging(level string) {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})
	slog.SetDefault(slog.New(handler))
}
