// Package main is the entry point for the notion2siyuan CLI tool.
//
// notion2siyuan converts a Notion HTML export (a .zip archive or an unpacked
// directory) into SiYuan-flavored Markdown documents plus attribute view
// JSON for exported databases. Configuration comes from CLI flags, with
// N2S_* environment variables as fallback defaults.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/lmittmann/tint"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"

	"github.com/siyuan-tools/notion2siyuan/internal/convert"
	"github.com/siyuan-tools/notion2siyuan/internal/export"
)

func main() {
	if err := mainImpl(); err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintf(os.Stderr, "notion2siyuan: %v\n", err)
		os.Exit(1)
	}
}

func mainImpl() error {
	var opts convert.Options
	if err := envconfig.Process("n2s", &opts); err != nil {
		return fmt.Errorf("failed to read environment: %w", err)
	}

	version := flag.Bool("version", false, "Print version and exit")
	input := flag.String("input", "", "Notion HTML export: a .zip file or an unpacked directory (required)")
	output := flag.String("output", "./siyuan-import", "Output directory")
	logLevel := flag.String("log-level", "info", "Log level (debug, info, warn, error)")
	singleLineBreaks := flag.Bool("single-line-breaks", opts.SingleLineBreaks, "Separate blocks with a single newline instead of a blank line")
	dryRun := flag.Bool("dry-run", false, "List what would be imported without converting anything")
	flag.Parse()
	if len(flag.Args()) > 0 {
		return fmt.Errorf("unknown arguments: %v", flag.Args())
	}

	if *version {
		printVersion()
		return nil
	}
	if *input == "" {
		return errors.New("-input is required")
	}
	opts.SingleLineBreaks = *singleLineBreaks

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	defer stop()

	ll := &slog.LevelVar{}
	switch *logLevel {
	case "debug":
		ll.Set(slog.LevelDebug)
	case "info":
		ll.Set(slog.LevelInfo)
	case "warn":
		ll.Set(slog.LevelWarn)
	case "error":
		ll.Set(slog.LevelError)
	default:
		return fmt.Errorf("invalid log level %q", *logLevel)
	}
	logger := slog.New(tint.NewHandler(colorable.NewColorable(os.Stderr), &tint.Options{
		Level:      ll,
		TimeFormat: "15:04:05.000", // Like time.TimeOnly plus milliseconds.
		NoColor:    !isatty.IsTerminal(os.Stderr.Fd()),
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			// Drop empty values to keep warning lines short.
			switch t := a.Value.Any().(type) {
			case string:
				if t == "" {
					return slog.Attr{}
				}
			case time.Time:
				if t.IsZero() {
					return slog.Attr{}
				}
			case nil:
				return slog.Attr{}
			}
			return a
		},
	}))
	slog.SetDefault(logger)

	archive, err := export.Open(*input)
	if err != nil {
		return fmt.Errorf("failed to open export: %w", err)
	}
	defer func() { _ = archive.Close() }()

	writer := export.NewWriter(*output)
	progress := &export.CLIProgress{
		Out: os.Stdout,
		Err: os.Stderr,
	}
	importer := export.NewImporter(archive, writer, progress, opts)

	if *dryRun {
		out, err := importer.DryRunJSON()
		if err != nil {
			return fmt.Errorf("dry run failed: %w", err)
		}
		fmt.Println(out)
		return nil
	}

	stats, err := importer.Run(ctx)
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}
	fmt.Printf("\nOutput: %s/\n", *output)
	if stats.Errors > 0 {
		return fmt.Errorf("%d errors occurred during import", stats.Errors)
	}
	return nil
}

func printVersion() {
	version, goVersion, revision, dirty := getBuildInfo()
	fmt.Printf("notion2siyuan %s\n", version)
	fmt.Printf("  Go version: %s\n", goVersion)
	fmt.Printf("  Revision:   %s\n", revision)
	if dirty {
		fmt.Printf("  Modified:   true\n")
	}
}

func getBuildInfo() (version, goVersion, revision string, dirty bool) {
	version = "unknown"
	goVersion = "unknown"
	revision = "unknown"
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}
	version = info.Main.Version
	if version == "" || version == "(devel)" {
		version = "dev"
	}
	goVersion = info.GoVersion
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			if len(s.Value) >= 10 {
				revision = s.Value[:10]
			} else {
				revision = s.Value
			}
		case "vcs.modified":
			dirty = s.Value == "true"
		}
	}
	return
}
