package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/xcgen/xcgen/pkg/config"
	"github.com/xcgen/xcgen/pkg/fsutil"
	"github.com/xcgen/xcgen/pkg/generator"
	"github.com/xcgen/xcgen/pkg/graph"
	"github.com/xcgen/xcgen/pkg/logging"
	"github.com/xcgen/xcgen/pkg/model"
	"github.com/xcgen/xcgen/pkg/output"
	"github.com/xcgen/xcgen/pkg/service"
	"github.com/xcgen/xcgen/pkg/watcher"
	"github.com/xcgen/xcgen/pkg/web"
	"github.com/xcgen/xcgen/pkg/xcodebuild"
)

const usageText = `xcgen - generate, build and run manifest-driven Xcode workspaces

Usage:
  xcgen generate [--path <dir>] [--watch]
  xcgen build [<scheme>] [--generate] [--clean] [-C <name>] [--output <dir>] [--path <dir>]
  xcgen run <scheme> [--generate] [--clean] [-C <name>] [--path <dir>] [-- <args>...]
  xcgen graph [--web] [--port <port>] [--path <dir>]

Run 'xcgen <command> --help' for command flags.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usageText)
		os.Exit(2)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var err error
	switch os.Args[1] {
	case "generate":
		err = runGenerate(ctx, os.Args[2:])
	case "build":
		err = runBuild(ctx, os.Args[2:])
	case "run":
		err = runRun(ctx, os.Args[2:])
	case "graph":
		err = runGraph(ctx, os.Args[2:])
	case "help", "-h", "--help":
		fmt.Print(usageText)
		return
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s", os.Args[1], usageText)
		os.Exit(2)
	}

	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		var exitErr *service.ExitCodeError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		output.Failure(err, service.IsBug(err))
		os.Exit(1)
	}
}

// newFlagSet creates a flag set carrying the flags every subcommand shares
func newFlagSet(name string) *pflag.FlagSet {
	f := pflag.NewFlagSet(name, pflag.ContinueOnError)
	f.String("path", ".", "Directory containing the project manifests")
	f.CountP("verbose", "v", "Increase log verbosity (repeatable)")
	f.String("verbosity", "", "Log level: debug, info, warn or error")
	return f
}

// loadConfig parses flags, loads the layered configuration and applies the
// logging verbosity.
func loadConfig(f *pflag.FlagSet, args []string) (*config.Config, error) {
	if err := f.Parse(args); err != nil {
		return nil, err
	}
	cfg, err := config.Load(f)
	if err != nil {
		return nil, err
	}
	applyVerbosity(cfg)
	return cfg, nil
}

func applyVerbosity(cfg *config.Config) {
	level := slog.LevelInfo
	switch cfg.Verbosity {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		if cfg.VerboseCnt > 0 {
			level = slog.LevelDebug
		}
	}
	logging.SetLevel(level)
}

func runGenerate(ctx context.Context, args []string) error {
	f := newFlagSet("generate")
	f.Bool("watch", false, "Regenerate when manifests change")
	cfg, err := loadConfig(f, args)
	if err != nil {
		return err
	}

	fs := fsutil.NewOsFileSystem()
	gen := generator.New(fs)

	if _, err := gen.Generate(ctx, cfg.Path); err != nil {
		return err
	}
	output.Success("The workspace generated successfully")

	if !cfg.Watch {
		return nil
	}
	return watchAndRegenerate(ctx, gen, cfg.Path, nil)
}

// watchAndRegenerate regenerates the workspace whenever manifests change,
// until the context is cancelled. onGraph, when set, receives each fresh
// graph (used by the web viewer).
func watchAndRegenerate(ctx context.Context, gen *generator.Generator, path string, onGraph func(*model.Graph)) error {
	mw, err := watcher.NewManifestWatcher(path)
	if err != nil {
		return err
	}
	if err := mw.Start(ctx); err != nil {
		return err
	}

	debouncer := watcher.NewDebouncer(mw.Events(), 500*time.Millisecond, 5*time.Second)
	debouncer.Start(ctx)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-debouncer.Output():
			if !ok {
				return nil
			}
			logging.Info("manifests changed, regenerating", "files", len(event.Paths))
			fresh, err := gen.Generate(ctx, path)
			if err != nil {
				logging.Error("regeneration failed", "error", err)
				continue
			}
			if onGraph != nil {
				onGraph(fresh)
			}
		}
	}
}

func runBuild(ctx context.Context, args []string) error {
	f := newFlagSet("build")
	f.Bool("generate", false, "Force workspace regeneration before building")
	f.Bool("clean", false, "Clean before building")
	f.StringP("configuration", "C", "", "Build configuration name")
	f.String("output", "", "Copy build products to this directory")
	cfg, err := loadConfig(f, args)
	if err != nil {
		return err
	}

	fs := fsutil.NewOsFileSystem()
	provider := graph.NewProvider(generator.New(fs), fs)
	build := service.NewBuildService(provider, xcodebuild.NewController(), fs)

	return build.Run(ctx, service.BuildOptions{
		Scheme:        f.Arg(0),
		Generate:      cfg.Generate,
		Clean:         cfg.Clean,
		Configuration: cfg.Configuration,
		Output:        cfg.Output,
		Path:          cfg.Path,
	})
}

func runRun(ctx context.Context, args []string) error {
	f := newFlagSet("run")
	f.Bool("generate", false, "Force workspace regeneration before building")
	f.Bool("clean", false, "Clean before building")
	f.StringP("configuration", "C", "", "Build configuration name")
	cfg, err := loadConfig(f, args)
	if err != nil {
		return err
	}

	positional := f.Args()
	var forwarded []string
	if dash := f.ArgsLenAtDash(); dash >= 0 {
		forwarded = positional[dash:]
		positional = positional[:dash]
	}
	if len(positional) == 0 {
		return fmt.Errorf("run requires a scheme name")
	}
	scheme := positional[0]
	// Tokens after the scheme that were not recognized as flags are
	// forwarded too, in their original order.
	forwarded = append(positional[1:], forwarded...)

	fs := fsutil.NewOsFileSystem()
	provider := graph.NewProvider(generator.New(fs), fs)
	build := service.NewBuildService(provider, xcodebuild.NewController(), fs)
	run := service.NewRunService(build, service.DefaultProcessRunner{}, service.UnsupportedLauncher{}, fs)

	return run.Run(ctx, service.RunOptions{
		Scheme:        scheme,
		Generate:      cfg.Generate,
		Clean:         cfg.Clean,
		Path:          cfg.Path,
		Configuration: cfg.Configuration,
		Arguments:     forwarded,
	})
}

func runGraph(ctx context.Context, args []string) error {
	f := newFlagSet("graph")
	f.Bool("web", false, "Serve the graph over HTTP instead of printing schemes")
	f.Int("port", 8080, "Port for the web server (only used with --web)")
	f.Bool("watch", false, "Regenerate and refresh the web view when manifests change")
	f.Bool("generate", false, "Force workspace regeneration")
	cfg, err := loadConfig(f, args)
	if err != nil {
		return err
	}

	fs := fsutil.NewOsFileSystem()
	gen := generator.New(fs)
	provider := graph.NewProvider(gen, fs)

	g, err := provider.Obtain(ctx, cfg.Path, cfg.Generate)
	if err != nil {
		return err
	}

	if !cfg.Web {
		output.PrintSchemes("Schemes:", graph.SchemeNames(g.Schemes()))
		return nil
	}

	server := web.NewServer()
	server.SetGraph(g)

	if cfg.Watch {
		go func() {
			err := watchAndRegenerate(ctx, gen, cfg.Path, server.SetGraph)
			if err != nil {
				logging.Error("watch failed", "error", err)
			}
		}()
	}

	return server.Start(cfg.Port)
}
