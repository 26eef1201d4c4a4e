package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/joshuapare/regkit/internal/logger"
	"github.com/joshuapare/regkit/pkg/registry"
)

var (
	// Global flags
	verbose    bool
	quiet      bool
	jsonOut    bool
	bestEffort bool
	cfgFile    string
)

// cfg holds the resolved configuration. Set by PersistentPreRunE so all
// subcommands can use it.
var cfg settings

// log is the process logger, replaced once configuration is loaded.
var log = logger.Discard()

var closeLog = func() error { return nil }

var rootCmd = &cobra.Command{
	Use:   "regctl",
	Short: "List, create, write and delete Windows registry keys",
	Long: `regctl reads and writes registry keys by address, for example
HKCU\Software\Acme. Hive names may be aliases (HKLM, HKCU, HKCR, HKU, HKCC)
or canonical names in any case.

On Windows the live registry is used by default. The bolt backend keeps an
emulated registry in a single file and works everywhere.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		v, err := loadConfig(cfgFile)
		if err != nil {
			return err
		}
		for _, key := range []string{cfgKeyBackend, cfgKeyDB} {
			if err := v.BindPFlag(key, cmd.Root().PersistentFlags().Lookup(key)); err != nil {
				return err
			}
		}
		s, err := settingsFrom(v)
		if err != nil {
			return err
		}
		if bestEffort {
			s.Policy = registry.BestEffort
		}
		return configure(s)
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return closeLog()
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	pf.BoolVarP(&quiet, "quiet", "q", false, "Suppress all output except errors")
	pf.BoolVar(&jsonOut, "json", false, "Output in JSON format")
	pf.BoolVar(&bestEffort, "best-effort", false, "Skip failing items instead of stopping at the first failure")
	pf.StringVar(&cfgFile, "config", "", "Config file (default: $XDG_CONFIG_HOME/regctl/config.yaml)")
	pf.String(cfgKeyBackend, "", "Backend: native, bolt or memory")
	pf.String(cfgKeyDB, "", "Registry file for the bolt backend")
}

// configure installs s as the active configuration and builds the logger.
func configure(s settings) error {
	l, closeFn, err := logger.New(logger.Options{
		Level:  s.LogLevel,
		Format: s.LogFormat,
		LogDir: s.LogDir,
	})
	if err != nil {
		return err
	}
	cfg, log, closeLog = s, l, closeFn
	log.Debug("configuration loaded", "backend", string(s.Backend), "db", s.DB, "policy", s.Policy.String())
	return nil
}

func execute() {
	// Interrupt stops a batch between items.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		printError("%v\n", err)
		os.Exit(1)
	}
}

// openClient opens the configured backend.
func openClient() (*registry.Client, error) {
	printVerbose("Opening %s backend\n", cfg.Backend)
	if cfg.Backend == registry.BackendFile && cfg.DB != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.DB), 0o755); err != nil {
			return nil, err
		}
	}
	c, err := registry.Open(cfg.Backend, cfg.DB,
		registry.WithLogger(log),
		registry.WithPolicy(cfg.Policy),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s backend: %w", cfg.Backend, err)
	}
	return c, nil
}

// Helper functions for output

// printInfo prints an info message if not in quiet mode
func printInfo(format string, args ...interface{}) {
	if !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printError prints an error message
func printError(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format, args...)
}

// printVerbose prints a verbose message if verbose mode is enabled
func printVerbose(format string, args ...interface{}) {
	if verbose && !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printJSON outputs data as JSON
func printJSON(v interface{}) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
