package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/viant/afs"
	"github.com/viant/afs/url"
	"github.com/viant/effectlint/analyzer"
	"github.com/viant/effectlint/analyzer/linage"
	"github.com/viant/effectlint/config"
	"github.com/viant/effectlint/report"
)

// errFindings signals a non-zero exit once the report has been written
var errFindings = errors.New("findings reported")

type options struct {
	config         string
	format         string
	out            string
	effectHooks    []string
	stateHooks     []string
	disable        []string
	failOnFindings bool
	verbose        bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:           "effectlint [paths...]",
		Short:         "Flag effects that derive state or only notify the parent",
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				args = []string{"."}
			}
			err := run(cmd.Context(), opts, args, cmd.OutOrStdout(), cmd.ErrOrStderr())
			if err != nil && !errors.Is(err, errFindings) {
				fmt.Fprintln(cmd.ErrOrStderr(), "effectlint:", err)
			}
			return err
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&opts.config, "config", "", "Config file URL, defaults to the nearest "+config.DefaultFile+" up to the project root")
	flags.StringVarP(&opts.format, "format", "f", report.Text, "Output format: "+strings.Join(report.Formats, "|"))
	flags.StringVarP(&opts.out, "out", "o", "", "Write report to file instead of stdout")
	flags.StringSliceVar(&opts.effectHooks, "effect-hook", nil, "Effect hook names (replaces configured names)")
	flags.StringSliceVar(&opts.stateHooks, "state-hook", nil, "State hook names (replaces configured names)")
	flags.StringSliceVar(&opts.disable, "disable", nil, "Rules to disable")
	flags.BoolVar(&opts.failOnFindings, "fail-on-findings", false, "Exit with non-zero status when findings are reported")
	flags.BoolVar(&opts.verbose, "verbose", false, "Log analysis progress to stderr")
	return cmd
}

func run(ctx context.Context, opts *options, paths []string, stdout, stderr io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	fs := afs.New()
	location := opts.config
	if location == "" {
		found, err := config.Locate(ctx, fs, paths[0])
		if err != nil {
			return err
		}
		location = found
	}
	cfg := config.Default()
	var err error
	if location != "" {
		if cfg, err = config.Load(ctx, fs, location); err != nil {
			return err
		}
	}
	if err = cfg.Disable(opts.disable...); err != nil {
		return err
	}
	if len(opts.effectHooks) > 0 {
		cfg.EffectHooks = opts.effectHooks
	}
	if len(opts.stateHooks) > 0 {
		cfg.StateHooks = opts.stateHooks
	}

	lintOptions := append(cfg.Options(), analyzer.WithFS(fs))
	if opts.verbose {
		lintOptions = append(lintOptions, analyzer.WithLogger(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))))
	}
	lint := analyzer.New(lintOptions...)

	var findings []*linage.Finding
	for _, path := range paths {
		found, err := lint.Analyze(ctx, path)
		if err != nil {
			return err
		}
		findings = append(findings, found...)
	}
	diags := report.Diagnostics(linage.SortFindings(findings))
	for _, diag := range diags {
		diag.File = localPath(diag.File)
	}

	if err = writeReport(ctx, fs, opts, diags, stdout); err != nil {
		return err
	}
	if opts.failOnFindings && len(diags) > 0 {
		return errFindings
	}
	return nil
}

func writeReport(ctx context.Context, fs afs.Service, opts *options, diags []*report.Diagnostic, stdout io.Writer) error {
	if opts.out == "" {
		return report.Write(stdout, opts.format, diags)
	}
	var sb strings.Builder
	if err := report.Write(&sb, opts.format, diags); err != nil {
		return err
	}
	if err := fs.Upload(ctx, opts.out, 0o644, strings.NewReader(sb.String())); err != nil {
		return fmt.Errorf("failed to write report %s: %w", opts.out, err)
	}
	return nil
}

// localPath strips the file scheme added while walking local directories
func localPath(URL string) string {
	if url.Scheme(URL, "") != "file" {
		return URL
	}
	location := url.Path(URL)
	if wd, err := os.Getwd(); err == nil {
		if rel, ok := strings.CutPrefix(location, wd+"/"); ok {
			return rel
		}
	}
	return location
}
