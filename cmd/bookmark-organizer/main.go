package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/dastanaron/bookmark-organizer/internal/commands"
	"github.com/dastanaron/bookmark-organizer/internal/config"
	"github.com/dastanaron/bookmark-organizer/internal/logger"
	"github.com/dastanaron/bookmark-organizer/internal/ui"
)

func usage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintf(w, "Usage: %s [flags] <bookmarks_file.html>\n", fs.Name())
	fmt.Fprintln(w, "\nTo export bookmarks from Chrome:")
	fmt.Fprintln(w, "1. Open Chrome")
	fmt.Fprintln(w, "2. Go to Bookmarks > Bookmark Manager")
	fmt.Fprintln(w, "3. Click the three dots menu > Export bookmarks")
	fmt.Fprintln(w, "4. Save the HTML file and use it with this tool")
	fmt.Fprintln(w, "\nFlags:")
	fs.PrintDefaults()
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the CLI and returns the process exit code
func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("bookmark-organizer", flag.ContinueOnError)
	fs.SetOutput(stderr)

	configPath := fs.String("config", "", "Path to YAML configuration file")
	timeout := fs.Duration("timeout", config.DefaultTimeout, "Per-request timeout")
	delay := fs.Duration("delay", config.DefaultDelay, "Pause after every request")
	userAgent := fs.String("user-agent", config.DefaultUserAgent, "User-Agent header sent with every request")
	outputDir := fs.String("out", config.DefaultOutputDir, "Directory for report files")
	collapseTitles := fs.Bool("collapse-titles", false, "Report each duplicate title once instead of once per bookmark")
	logLevel := fs.String("log-level", "", "Log level: trace, debug, info, warn, error")
	logFormat := fs.String("log-format", "", "Log format: console or json")
	logFile := fs.String("log-file", "", "Also write logs to this file (rotated)")
	cleanPath := fs.String("clean", "", "Write a bookmarks file without duplicate URLs and dead links")
	browse := fs.Bool("ui", false, "Browse the results in a terminal UI when done")
	fs.Usage = func() { usage(fs, stderr) }

	if err := fs.Parse(args); err != nil {
		return 1
	}

	if fs.NArg() != 1 {
		fs.Usage()
		return 1
	}
	bookmarksFile := fs.Arg(0)

	if _, err := os.Stat(bookmarksFile); os.IsNotExist(err) {
		fmt.Fprintf(stderr, "Error: File '%s' not found\n", bookmarksFile)
		return 1
	}

	cfg := config.NewConfig()
	if *configPath != "" {
		if err := cfg.Load(*configPath); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
	}
	// flags given on the command line win over the config file
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "timeout":
			cfg.WithTimeout(*timeout)
		case "delay":
			cfg.WithDelay(*delay)
		case "user-agent":
			cfg.WithUserAgent(*userAgent)
		case "out":
			cfg.WithOutputDir(*outputDir)
		case "collapse-titles":
			cfg.WithCollapseTitleGroups(*collapseTitles)
		case "log-level":
			cfg.WithLogLevel(*logLevel)
		case "log-format":
			cfg.WithLogFormat(*logFormat)
		case "log-file":
			cfg.WithLogFile(*logFile)
		}
	})
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	log, err := logger.New(cfg.Log, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	analyzeCmd := commands.NewAnalyzeCommand(cfg, stdout, log)
	analysis, err := analyzeCmd.Execute(context.Background(), bookmarksFile)
	if err != nil {
		log.Error().Err(err).Msg("Analysis failed")
		return 1
	}

	if *cleanPath != "" {
		cleanCmd := commands.NewCleanCommand(log)
		if err := cleanCmd.Execute(analysis, *cleanPath); err != nil {
			log.Error().Err(err).Msg("Clean export failed")
			return 1
		}
	}

	if *browse {
		app := ui.NewApp(analysis)
		if err := app.Run(); err != nil {
			log.Error().Err(err).Msg("Results browser failed")
			return 1
		}
	}
	return 0
}
