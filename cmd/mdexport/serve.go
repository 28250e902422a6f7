package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	flag "github.com/spf13/pflag"

	mdexport "github.com/alnah/go-mdexport"
	"github.com/alnah/go-mdexport/internal/config"
	"github.com/alnah/go-mdexport/internal/prefs"
	"github.com/alnah/go-mdexport/internal/server"
)

// sqliteExt replaces the default prefs file extension for the sqlite backend.
const sqliteExt = ".db"

// runServe runs the HTTP service until ctx is cancelled.
func runServe(ctx context.Context, args []string, env *Environment) error {
	flags, err := parseServeFlags(args, env.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) || errors.Is(err, ErrUsage) {
			return err
		}
		return fmt.Errorf("%w: %w", ErrUsage, err)
	}

	log := newLogger(flags.common.verbose, env.Stderr)
	defer func() { _ = log.Sync() }()
	setMaxProcs(log)

	cfg, err := loadConfig(flags.common.config)
	if err != nil {
		return err
	}
	// Precedence: flags > environment > config file.
	cfg.ApplyEnv(env.Getenv)
	mergeServeFlags(flags, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := validateWorkers(flags.workers); err != nil {
		return err
	}

	store, err := openPrefs(cfg.Prefs)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Warnw("closing preference store", "error", err)
		}
	}()

	pool := mdexport.NewConverterPool(mdexport.ResolvePoolSize(flags.workers), converterOptions(cfg, log)...)
	defer func() {
		if err := pool.Close(); err != nil {
			log.Warnw("closing converters", "error", err)
		}
	}()

	if !flags.common.quiet {
		fmt.Fprintf(env.Stdout, "Serving on %s (prefs: %s)\n", cfg.Server.Addr, cfg.Prefs.Backend)
	}

	srv := server.New(server.Config{
		Addr:         cfg.Server.Addr,
		MaxBodyBytes: cfg.Server.MaxBodyBytes,
	}, server.NewPoolExporter(pool), store, log)
	return srv.Run(ctx)
}

// mergeServeFlags applies explicitly set flags over config values.
func mergeServeFlags(f *serveFlags, cfg *config.Config) {
	if f.addr != "" {
		cfg.Server.Addr = f.addr
	}
	if f.prefsBackend != "" {
		cfg.Prefs.Backend = f.prefsBackend
	}
	if f.prefsPath != "" {
		cfg.Prefs.Path = f.prefsPath
	}
	if f.timeout != "" {
		cfg.Export.Timeout = f.timeout
	}
	if f.assetPath != "" {
		cfg.Assets.BasePath = f.assetPath
	}
}

// openPrefs opens the configured store, defaulting its location to the
// user config directory.
func openPrefs(pc config.PrefsConfig) (prefs.StoreCloser, error) {
	backend := prefs.Backend(strings.ToLower(pc.Backend))
	path, err := resolvePrefsPath(backend, pc.Path)
	if err != nil {
		return nil, err
	}
	if backend == prefs.BackendSQLite && path != ":memory:" {
		// The driver creates the database file but not its directory.
		if err := os.MkdirAll(filepath.Dir(path), dirPermissions); err != nil {
			return nil, fmt.Errorf("%w: %w", prefs.ErrStore, err)
		}
	}
	return prefs.Open(backend, path)
}

// resolvePrefsPath returns path, or the backend's default location.
func resolvePrefsPath(backend prefs.Backend, path string) (string, error) {
	if path != "" {
		return path, nil
	}
	def, err := prefs.DefaultPath()
	if err != nil {
		return "", err
	}
	if backend == prefs.BackendSQLite {
		def = strings.TrimSuffix(def, filepath.Ext(def)) + sqliteExt
	}
	return def, nil
}
