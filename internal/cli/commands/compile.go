package commands

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/graphite-graph/graphite-graph/internal/cli/config"
	"github.com/graphite-graph/graphite-graph/internal/cli/ui"
	"github.com/graphite-graph/graphite-graph/internal/compiler/cache"
	"github.com/graphite-graph/graphite-graph/internal/compiler/codegen"
	"github.com/graphite-graph/graphite-graph/internal/compiler/errors"
	"github.com/graphite-graph/graphite-graph/internal/loader"
	"github.com/graphite-graph/graphite-graph/internal/watch"
)

type compileOptions struct {
	format     string
	prefix     string
	vars       []string
	watch      bool
	sequential bool
}

// compiledTarget is one line of compile output
type compiledTarget struct {
	Name   string `json:"name"`
	Target string `json:"target"`
}

// NewCompileCommand creates the compile command
func NewCompileCommand() *cobra.Command {
	opts := &compileOptions{}

	cmd := &cobra.Command{
		Use:   "compile <file>",
		Short: "Compile a graph definition into render targets",
		Long: `Load a graph definition file (.yaml, .yml or .toml), resolve inheritance
and prefixes, and compile every metric into a Graphite render target.

Text output prints one "name<TAB>target" line per metric. JSON output prints
an array of {"name", "target"} objects.`,
		Example: `  # Compile a definition
  graphite-graph compile servers.yaml

  # Substitute {{IF}} markers and emit JSON
  graphite-graph compile interfaces.toml --var IF=Tunnel0 --format json

  # Recompile whenever the file is saved
  graphite-graph compile servers.yaml --watch`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "Output format: text or json (default from config)")
	cmd.Flags().StringVarP(&opts.prefix, "prefix", "p", "", "Prefix for every series that is not rooted")
	cmd.Flags().StringArrayVar(&opts.vars, "var", nil, "Substitute NAME=VALUE for {{NAME}} markers (repeatable)")
	cmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "Recompile when the file changes")
	cmd.Flags().BoolVar(&opts.sequential, "sequential", false, "Compile metrics one at a time")

	return cmd
}

// compileSession holds everything one compile run needs, so watch mode can
// repeat it
type compileSession struct {
	path      string
	format    string
	loadOpts  loader.Options
	generator *codegen.Generator
	logger    *zap.Logger
	out       io.Writer
	errOut    io.Writer
	mu        sync.Mutex

	// set in watch mode: unchanged content is not compiled or printed again
	cache       *cache.Targets
	fingerprint cache.Fingerprint
}

func runCompile(cmd *cobra.Command, path string, opts *compileOptions) error {
	cfg, logger, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	session, err := newCompileSession(cmd, cfg, logger, path, opts)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if !opts.watch {
		return session.run(ctx)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	return session.watch(ctx)
}

func newCompileSession(cmd *cobra.Command, cfg *config.Config, logger *zap.Logger, path string, opts *compileOptions) (*compileSession, error) {
	format := cfg.Format
	if opts.format != "" {
		format = strings.ToLower(opts.format)
	}
	if format != config.FormatText && format != config.FormatJSON {
		return nil, fmt.Errorf("unknown format %q (want %s or %s)", format, config.FormatText, config.FormatJSON)
	}

	vars := make(map[string]string, len(cfg.Compile.Vars)+len(opts.vars))
	for name, value := range cfg.Compile.Vars {
		vars[name] = value
	}
	for _, pair := range opts.vars {
		name, value, ok := strings.Cut(pair, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid --var %q (want NAME=VALUE)", pair)
		}
		vars[name] = value
	}

	prefix := cfg.Compile.Prefix
	if cmd.Flags().Changed("prefix") {
		prefix = opts.prefix
	}

	parallelism := cfg.Parallelism()
	if opts.sequential {
		parallelism = 1
	}

	return &compileSession{
		path:   path,
		format: format,
		loadOpts: loader.Options{
			Prefix: prefix,
			Vars:   vars,
			Logger: logger,
		},
		generator: codegen.NewGenerator(nil).WithLogger(logger).WithParallelism(parallelism),
		logger:    logger,
		out:       cmd.OutOrStdout(),
		errOut:    cmd.ErrOrStderr(),
	}, nil
}

// run loads, compiles and prints the definition once
func (s *compileSession) run(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var hash string
	if s.cache != nil {
		if h, err := s.fingerprint.HashFile(s.path); err == nil {
			if _, ok := s.cache.Lookup(s.path, h); ok {
				s.logger.Debug("definition unchanged, skipping", zap.String("file", s.path))
				return nil
			}
			hash = h
		}
	}

	graph, err := loader.Load(s.path, s.loadOpts)
	if err != nil {
		s.invalidate()
		return s.report(err)
	}

	targets, err := s.generator.GenerateAll(ctx, graph.Metrics)
	if err != nil {
		s.invalidate()
		return s.report(err)
	}

	names := make([]string, len(graph.Metrics))
	results := make([]compiledTarget, len(targets))
	for i, target := range targets {
		names[i] = graph.Metrics[i].Name
		results[i] = compiledTarget{Name: names[i], Target: target}
	}
	s.logger.Debug("compiled definition", zap.String("file", s.path), zap.Int("metrics", len(results)))

	if s.cache != nil && hash != "" {
		s.cache.Store(s.path, hash, names, targets)
	}

	return writeTargets(s.out, s.format, results)
}

// watch compiles once, then again on every change until ctx is done.
// Compile failures are reported without ending the session.
func (s *compileSession) watch(ctx context.Context) error {
	s.cache = cache.NewTargets()
	s.fingerprint = cache.Fingerprint{Prefix: s.loadOpts.Prefix, Vars: s.loadOpts.Vars}

	s.runReported(ctx)

	fw, err := watch.NewFileWatcher([]string{s.path}, func([]string) error {
		color.New(color.FgCyan).Fprintf(s.errOut, "→ %s changed, recompiling\n", s.path)
		s.runReported(ctx)
		return nil
	}, watch.WithLogger(s.logger))
	if err != nil {
		return err
	}
	if err := fw.Start(); err != nil {
		fw.Stop()
		return err
	}

	color.New(color.FgYellow).Fprintf(s.errOut, "Watching %s (Ctrl+C to stop)\n", s.path)
	<-ctx.Done()

	return fw.Stop()
}

func (s *compileSession) invalidate() {
	if s.cache != nil {
		s.cache.Invalidate(s.path)
	}
}

// runReported runs once and prints a failure instead of returning it
func (s *compileSession) runReported(ctx context.Context) {
	err := s.run(ctx)
	if err == nil {
		return
	}

	var failure *compileFailure
	if stderrors.As(err, &failure) {
		fmt.Fprint(s.errOut, ui.CompileFailed(failure.file, failure.count, color.NoColor))
		return
	}
	color.New(color.FgRed).Fprintf(s.errOut, "Error: %v\n", err)
}

// report prints compiler diagnostics and returns the summary error
func (s *compileSession) report(err error) error {
	var list errors.ErrorList
	var other []error
	for _, e := range splitErrors(err) {
		if ce, ok := errors.AsCompilerError(e); ok {
			list = append(list, ce)
		} else {
			other = append(other, e)
		}
	}

	if len(other) > 0 {
		return err
	}

	if s.format == config.FormatJSON {
		out, jerr := list.ToJSON()
		if jerr != nil {
			return fmt.Errorf("failed to encode errors: %w", jerr)
		}
		fmt.Fprintln(s.errOut, out)
	} else {
		fmt.Fprint(s.errOut, errors.FormatErrorList(list))
	}

	return &compileFailure{file: s.path, count: len(list)}
}

// compileFailure summarizes diagnostics that were already printed
type compileFailure struct {
	file  string
	count int
}

func (e *compileFailure) Error() string {
	if e.count == 1 {
		return e.file + ": 1 error"
	}
	return fmt.Sprintf("%s: %d errors", e.file, e.count)
}

// splitErrors flattens joined errors one level
func splitErrors(err error) []error {
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		return joined.Unwrap()
	}
	return []error{err}
}

func writeTargets(w io.Writer, format string, results []compiledTarget) error {
	if format == config.FormatJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(results)
	}

	for _, r := range results {
		if _, err := fmt.Fprintf(w, "%s\t%s\n", r.Name, r.Target); err != nil {
			return err
		}
	}
	return nil
}
