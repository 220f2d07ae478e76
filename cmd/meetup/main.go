// meetup runs one round of pairwise meetings over an agent listing.
//
// Agents carry a condition (cure, healthy, sick, dying, dead). Healthy and
// dead agents sit out; the rest meet in consecutive pairs. A cure carrier
// improves its partner one step, two cure carriers leave each other alone,
// and any other pair worsens one step each.
//
// Usage:
//
//	meetup [-config config.yaml] [-listing agents.yaml] [-format table|yaml|json|csv] [-out file]
//	meetup -shell
//	meetup -init
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/r3d91ll/meetup/pkg/agent"
	"github.com/r3d91ll/meetup/pkg/config"
	merrors "github.com/r3d91ll/meetup/pkg/errors"
	"github.com/r3d91ll/meetup/pkg/export"
	"github.com/r3d91ll/meetup/pkg/round"
	"github.com/r3d91ll/meetup/pkg/shell"
)

const version = "1.0.0"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

type options struct {
	configPath  string
	listingPath string
	format      string
	outPath     string
	interactive bool
	initConfig  bool
	logLevel    string
	logFormat   string
	showVersion bool
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	fs := flag.NewFlagSet("meetup", flag.ContinueOnError)
	fs.SetOutput(stderr)

	opts := &options{}
	fs.StringVar(&opts.configPath, "config", "", "Config file path (default: ./config.yaml)")
	fs.StringVar(&opts.listingPath, "listing", "", "YAML listing file, overrides the config listing")
	fs.StringVar(&opts.format, "format", "", "Output format: table, yaml, json, csv (default from config)")
	fs.StringVar(&opts.outPath, "out", "", "Write output to this file instead of stdout")
	fs.BoolVar(&opts.interactive, "shell", false, "Start the interactive shell")
	fs.BoolVar(&opts.initConfig, "init", false, "Initialize default config file")
	fs.StringVar(&opts.logLevel, "log-level", "info", "Log level: debug, info, warn, error")
	fs.StringVar(&opts.logFormat, "log-format", logFormatText, "Log format: text, json")
	fs.BoolVar(&opts.showVersion, "version", false, "Show version and exit")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, merrors.Commandf(merrors.ErrCommandInvalidArgs, "unexpected arguments: %v", fs.Args())
	}
	return opts, nil
}

// run executes the command and returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		// flag has already reported its own parse errors.
		if merrors.IsCode(err, merrors.ErrCommandInvalidArgs) {
			fmt.Fprintln(stderr, merrors.Sprint(err))
		}
		return 2
	}

	errOut := &merrors.Formatter{UseColor: merrors.IsTTY(stderr), Writer: stderr, Indent: "  "}

	if opts.showVersion {
		fmt.Fprintf(stdout, "meetup %s\n", version)
		return 0
	}

	level, err := parseLogLevel(opts.logLevel)
	if err != nil {
		errOut.Display(merrors.Commandf(merrors.ErrCommandInvalidArgs, "%v", err))
		return 2
	}
	if opts.logFormat != logFormatText && opts.logFormat != logFormatJSON {
		errOut.Display(merrors.Commandf(merrors.ErrCommandInvalidArgs, "invalid log format %q", opts.logFormat))
		return 2
	}

	cfgPath := opts.configPath
	if cfgPath == "" {
		cfgPath = config.DefaultConfigPath()
	}

	if opts.initConfig {
		if err := config.InitConfig(cfgPath); err != nil {
			errOut.Display(err)
			return 1
		}
		fmt.Fprintf(stdout, "Config initialized at: %s\n", cfgPath)
		return 0
	}

	var cfg *config.Config
	if opts.configPath != "" {
		cfg, err = config.Load(cfgPath)
	} else {
		cfg, err = config.LoadOrDefault(cfgPath)
	}
	if err != nil {
		errOut.Display(err)
		return 1
	}

	useColor := colorEnabled(cfg.Output.Color, stderr)
	errOut.UseColor = useColor
	logger := newLogger(stderr, level, opts.logFormat, !useColor)

	listing := cfg.Listing
	if opts.listingPath != "" {
		listing, err = config.LoadListing(opts.listingPath)
		if err != nil {
			errOut.Display(err)
			return 1
		}
	}

	if opts.interactive {
		return runShell(ctx, cfg, listing, logger, errOut, colorEnabled(cfg.Output.Color, stdout))
	}

	formatName := string(cfg.Output.Format)
	if opts.format != "" {
		formatName = opts.format
	}
	format, err := export.ParseFormat(formatName)
	if err != nil {
		errOut.Display(err)
		return 1
	}

	if err := runOnce(listing, format, opts.outPath, stdout, logger); err != nil {
		errOut.Display(err)
		return 1
	}
	return 0
}

// runOnce runs a single round and writes the resulting listing.
func runOnce(listing []agent.Agent, format export.Format, outPath string, stdout io.Writer, logger *slog.Logger) error {
	logger.Debug("starting round",
		slog.Int("agents", len(listing)),
		slog.String("input_hash", export.ShortHash(export.ListingHash(listing))))

	r, err := round.Run(listing)
	if err != nil {
		logger.Error("round failed", slog.Any("error", err))
		return err
	}

	logger.Info("round complete",
		slog.String("round_id", r.ID),
		slog.Int("agents", len(r.After)),
		slog.Int("changes", len(r.Changes())))

	if outPath == "" {
		return export.WriteListing(stdout, format, r.After)
	}
	return export.WriteFile(outPath, func(w io.Writer) error {
		return export.WriteListing(w, format, r.After)
	})
}

func runShell(ctx context.Context, cfg *config.Config, listing []agent.Agent, logger *slog.Logger, errOut *merrors.Formatter, useColor bool) int {
	sh, err := shell.New(shell.Config{
		HistoryFile: cfg.Shell.HistoryFile,
		Listing:     listing,
		Logger:      logger,
		UseColor:    useColor,
	})
	if err != nil {
		errOut.Display(merrors.Wrap(err, merrors.ErrInternal, merrors.CategoryInternal, "failed to start shell"))
		return 1
	}

	if err := sh.Run(ctx); err != nil && err != context.Canceled {
		errOut.Display(err)
		return 1
	}
	return 0
}

func colorEnabled(mode string, w io.Writer) bool {
	switch mode {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	default:
		return merrors.IsTTY(w)
	}
}
