package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	flag "github.com/spf13/pflag"
	"go.uber.org/automaxprocs/maxprocs"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	mdexport "github.com/alnah/go-mdexport"
	"github.com/alnah/go-mdexport/internal/config"
	"github.com/alnah/go-mdexport/internal/hints"
	"github.com/alnah/go-mdexport/internal/prefs"
	"github.com/alnah/go-mdexport/internal/theme"
)

// Version is set at build time via ldflags.
var Version = "dev"

// ErrUsage reports malformed command lines.
var ErrUsage = errors.New("invalid usage")

func main() {
	ctx, stop := notifyContext(context.Background())
	code := runMain(ctx, os.Args, DefaultEnv())
	stop()
	os.Exit(code)
}

// runMain dispatches to a command and returns the process exit code.
func runMain(ctx context.Context, args []string, env *Environment) int {
	if len(args) < 2 {
		printUsage(env.Stderr)
		return ExitUsage
	}

	cmd := args[1]
	var err error
	switch cmd {
	case "convert":
		err = runConvert(ctx, args[2:], env)
	case "serve":
		err = runServe(ctx, args[2:], env)
	case "themes":
		runThemes(env.Stdout)
	case "version", "--version":
		fmt.Fprintf(env.Stdout, "mdexport %s\n", Version)
	case "help", "-h", "--help":
		runHelp(args[2:], env)
	default:
		if !looksLikeMarkdown(cmd) {
			fmt.Fprintf(env.Stderr, "Unknown command: %s\n", cmd)
			printUsage(env.Stderr)
			return ExitUsage
		}
		// Bare file arguments imply convert.
		err = runConvert(ctx, args[1:], env)
	}

	if err == nil || errors.Is(err, flag.ErrHelp) {
		return ExitSuccess
	}
	var batch *batchError
	if errors.As(err, &batch) {
		// Per-file failures and their hints are already printed.
		fmt.Fprintf(env.Stderr, "error: %v\n", err)
	} else {
		fmt.Fprintf(env.Stderr, "error: %v%s\n", err, hintFor(err))
	}
	return exitCodeFor(err)
}

// looksLikeMarkdown reports whether arg names a markdown file.
func looksLikeMarkdown(arg string) bool {
	switch strings.ToLower(filepath.Ext(arg)) {
	case ".md", ".markdown":
		return true
	}
	return false
}

func runThemes(w io.Writer) {
	for _, t := range theme.All() {
		mark := ""
		if t == theme.Default {
			mark = " *"
		}
		fmt.Fprintf(w, "  %-9s %s%s\n", t, t.Label(), mark)
	}
}

// newLogger writes console logs to w: debug level when verbose, warnings
// and errors otherwise.
func newLogger(verbose bool, w io.Writer) *zap.SugaredLogger {
	level := zapcore.WarnLevel
	if verbose {
		level = zapcore.DebugLevel
	}
	encCfg := zap.NewDevelopmentEncoderConfig()
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.AddSync(w), level)
	return zap.New(core).Sugar()
}

// setMaxProcs sizes GOMAXPROCS to the container CPU quota.
// maxprocs.Set only fails on an invalid GOMAXPROCS variable, in which case
// the runtime default stays in effect.
func setMaxProcs(log *zap.SugaredLogger) {
	_, _ = maxprocs.Set(maxprocs.Logger(log.Debugf))
}

// loadConfig returns the named config, or the defaults when name is empty.
func loadConfig(name string) (*config.Config, error) {
	if name == "" {
		return config.DefaultConfig(), nil
	}
	return config.LoadConfig(name)
}

// hintFor returns an actionable suffix for err, or "".
func hintFor(err error) string {
	switch {
	case errors.Is(err, mdexport.ErrBrowserConnect):
		return hints.ForBrowserConnect()
	case errors.Is(err, context.DeadlineExceeded):
		return hints.ForTimeout()
	case errors.Is(err, config.ErrConfigNotFound):
		return hints.ForConfigNotFound(searchedPaths(err))
	case errors.Is(err, theme.ErrUnknownTheme):
		return hints.ForUnknownTheme(theme.Names())
	case errors.Is(err, prefs.ErrStore):
		return hints.ForPrefsStore()
	case errors.Is(err, ErrCreateOutputDir):
		return hints.ForOutputDirectory()
	}
	return ""
}

// searchedPaths extracts the "tried a, b" list from a config lookup error.
func searchedPaths(err error) []string {
	_, tried, ok := strings.Cut(err.Error(), "tried ")
	if !ok {
		return nil
	}
	return strings.Split(tried, ", ")
}
