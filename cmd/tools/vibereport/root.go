package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zhouzirui/chat-vibes/backend/internal/analysis/metrics"
	"github.com/zhouzirui/chat-vibes/backend/internal/analysis/transcript"
	"github.com/zhouzirui/chat-vibes/backend/internal/config"
	"github.com/zhouzirui/chat-vibes/backend/internal/logging"
	"github.com/zhouzirui/chat-vibes/backend/internal/service/ingest"
	"github.com/zhouzirui/chat-vibes/backend/internal/service/narrator"
)

// maxFileBytes caps what the CLI is willing to read from disk.
const maxFileBytes = 256 << 20

type options struct {
	output  string
	verbose bool
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "vibereport",
		Short:         "Analyze an exported WhatsApp chat",
		SilenceUsage:  true,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.PersistentFlags().StringVarP(&opts.output, "output", "o", "text", "Output format: text, json, yaml")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log parse diagnostics to stderr")

	root.AddCommand(newAnalyzeCmd(opts), newCompareCmd(opts), newMetricsCmd())
	return root
}

func newAnalyzeCmd(opts *options) *cobra.Command {
	var (
		metric  string
		limit   int
		narrate bool
	)

	cmd := &cobra.Command{
		Use:   "analyze <file>",
		Short: "Print one or every metric for a .txt or .zip export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := newRenderer(cmd.OutOrStdout(), opts.output)
			if err != nil {
				return err
			}
			names := metrics.Names
			if metric != "" {
				if !slices.Contains(metrics.Names, metric) {
					return fmt.Errorf("unknown metric %q, run `vibereport metrics` for the list", metric)
				}
				if bounds, ok := metrics.Limits(metric); ok && limit != 0 && !bounds.Contains(limit) {
					return fmt.Errorf("limit must be between %d and %d", bounds.Min, bounds.Max)
				}
				names = []string{metric}
			}

			analyzer, err := load(cmd.Context(), args[0], newLogger(cmd.ErrOrStderr(), opts.verbose))
			if err != nil {
				return err
			}

			sections := make([]section, 0, len(names)+1)
			for _, name := range names {
				n := 0
				if metric != "" {
					n = limit
				}
				result, err := analyzer.Compute(name, n)
				if err != nil {
					return err
				}
				sections = append(sections, section{Metric: name, Result: result})
			}
			if narrate {
				sections = append(sections, section{Metric: "narrative", Result: narrative(cmd.Context(), analyzer, newLogger(cmd.ErrOrStderr(), opts.verbose))})
			}
			return r.render(sections)
		},
	}
	cmd.Flags().StringVarP(&metric, "metric", "m", "", "Metric to print (default: all)")
	cmd.Flags().IntVarP(&limit, "limit", "l", 0, "Ranking size for --metric (default: the metric's default)")
	cmd.Flags().BoolVar(&narrate, "narrate", false, "Append a narrative, using the Ark model when configured")
	return cmd
}

func newCompareCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "compare <file> <user>",
		Short: "Compare one participant with the group average",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := newRenderer(cmd.OutOrStdout(), opts.output)
			if err != nil {
				return err
			}
			analyzer, err := load(cmd.Context(), args[0], newLogger(cmd.ErrOrStderr(), opts.verbose))
			if err != nil {
				return err
			}
			cmp, ok := analyzer.Compare(args[1])
			if !ok {
				return fmt.Errorf("user '%s' not found in this chat", args[1])
			}
			return r.render([]section{{Metric: "compare", Result: cmp}})
		},
	}
}

func newMetricsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "metrics",
		Short: "List metric names and their limit ranges",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			out := cmd.OutOrStdout()
			for _, name := range metrics.Names {
				if r, ok := metrics.Limits(name); ok {
					fmt.Fprintf(out, "%-20s limit %d..%d (default %d)\n", name, r.Min, r.Max, r.Default)
					continue
				}
				fmt.Fprintln(out, name)
			}
		},
	}
}

// load reads, decodes and parses a transcript file.
func load(ctx context.Context, path string, logger logging.Logger) (*metrics.Analyzer, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.Size() > maxFileBytes {
		return nil, fmt.Errorf("%s is larger than %d MB", path, maxFileBytes>>20)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	text, err := ingest.NewDecoder(maxFileBytes).Decode(ctx, filepath.Base(path), data)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	result := transcript.Parse(text)
	logger.Debug("transcript parsed",
		logging.F("file", path),
		logging.F("grammar", result.Grammar.Name),
		logging.F("grammar_example", result.Grammar.Example),
		logging.F("date_order", string(result.DateOrder)),
		logging.F("messages", len(result.Messages)),
		logging.F("dropped", result.Dropped))
	if len(result.Messages) == 0 {
		return nil, fmt.Errorf("could not parse any messages from %s, check the file format", path)
	}
	return metrics.New(result.Messages), nil
}

func narrative(ctx context.Context, analyzer *metrics.Analyzer, logger logging.Logger) narrator.Narrative {
	svc := narrator.NewTemplateService(narrator.WithLogger(logger))
	if cfg, err := config.Load(); err == nil && cfg.AI.NarratorActive() {
		if chatModel, err := cfg.AI.NewChatModel(ctx); err == nil {
			if llm, err := narrator.NewService(ctx, chatModel,
				narrator.WithLogger(logger),
				narrator.WithModelName(cfg.AI.Model),
				narrator.WithTimeout(cfg.AI.Timeout)); err == nil {
				svc = llm
			}
		}
	}
	return svc.Narrate(ctx, analyzer.Summary())
}

func newLogger(w io.Writer, verbose bool) logging.Logger {
	level := logging.LevelWarn
	if verbose {
		level = logging.LevelDebug
	}
	return logging.NewLogger(&logging.Config{
		Level:       level,
		ServiceName: "vibereport",
		Output:      w,
	})
}

func normalizeFormat(f string) string {
	return strings.ToLower(strings.TrimSpace(f))
}
