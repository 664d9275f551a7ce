// Command nexum is the CLI front-end for the engine: a thin
// cobra-based wrapper (subcommand-per-verb, persistent flags shared
// across subcommands) around internal/engine's Executor. Statements
// are supplied as JSON engine.WireStatement documents rather than SQL
// text: this binary has no SQL text parser, only the one AST shape
// engine.WireStatement/eval.WireExpr decode.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"nexumdb/internal/config"
	"nexumdb/internal/engine"
	"nexumdb/internal/kvstore"
	"nexumdb/internal/output"
)

var (
	configPath string
	formatName string
	verbose    bool
)

func main() {
	root := &cobra.Command{
		Use:   "nexum",
		Short: "nexum runs statements against the embedded relational engine",
		Long: "nexum is the CLI front-end for an embedded single-node relational\n" +
			"engine built over an ordered key-value store. Statements are supplied\n" +
			"as JSON (the engine's WireStatement/WireExpr shape); there is no SQL\n" +
			"text parser in this binary.",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to a TOML engine configuration file (default: in-memory store, no cache file)")
	root.PersistentFlags().StringVar(&formatName, "format", "human", "output format: human, json, or summary")
	root.PersistentFlags().BoolVar(&verbose, "verbose", false, "enable debug-level engine logging")

	root.AddCommand(execCmd(), replCmd(), dumpCatalogCmd(), cacheCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "nexum:", err)
		os.Exit(1)
	}
}

// newLogger builds the zap.Logger passed to the executor. Quiet by
// default; --verbose surfaces the executor's debug-level per-statement
// and per-stage messages.
func newLogger() *zap.Logger {
	if !verbose {
		return zap.NewNop()
	}
	logger, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

func loadConfig() (config.Config, error) {
	if configPath == "" {
		return config.Default(), nil
	}
	return config.Load(configPath)
}

func openStore(cfg config.Config) (kvstore.Store, error) {
	switch cfg.Store.Durability {
	case "sqlite":
		return kvstore.Open(cfg.Store.Path)
	default:
		return kvstore.NewMemory(), nil
	}
}

// session bundles everything a subcommand needs: an Executor over the
// configured store, and the formatter the user asked for. It loads the
// result cache from the configured cache file on entry and saves it
// back on Close; the in-process Cache type itself has no notion of a
// file, only Save/Load primitives this session wires up around it.
type session struct {
	cfg   config.Config
	store kvstore.Store
	ex    *engine.Executor
	out   output.Formatter
}

func newSession() (*session, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	store, err := openStore(cfg)
	if err != nil {
		return nil, err
	}
	ex := engine.New(store, newLogger())
	if cfg.Cache.File != "" {
		if err := ex.Cache().Load(cfg.Cache.File); err != nil && verbose {
			fmt.Fprintf(os.Stderr, "nexum: cache load: %v (starting with an empty cache)\n", err)
		}
	}
	formatter, err := output.NewFormatter(formatName)
	if err != nil {
		store.Close()
		return nil, err
	}
	return &session{cfg: cfg, store: store, ex: ex, out: formatter}, nil
}

// Close saves the result cache (if configured) and closes the store.
// Cache save failures are reported but never fail the command: cache
// persistence is best-effort and never propagates as a command
// failure.
func (s *session) Close() error {
	if s.cfg.Cache.File != "" {
		if err := s.ex.Cache().Save(s.cfg.Cache.File); err != nil {
			fmt.Fprintf(os.Stderr, "nexum: cache save: %v\n", err)
		}
	}
	return s.store.Close()
}

func (s *session) run(stmt engine.Statement) (string, error) {
	result, err := s.ex.Execute(stmt)
	if err != nil {
		return "", err
	}
	return s.out.Format(result)
}
