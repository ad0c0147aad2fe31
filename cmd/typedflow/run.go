package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kbukum/typedflow/api"
	"github.com/kbukum/typedflow/bootstrap"
	"github.com/kbukum/typedflow/errors"
	"github.com/kbukum/typedflow/observability"
	"github.com/kbukum/typedflow/pipeline"
	"github.com/kbukum/typedflow/processor"
	"github.com/kbukum/typedflow/version"
)

type runFlags struct {
	stages      []string
	concurrency int
	verbose     bool
}

func newRunCmd(flags *globalFlags) *cobra.Command {
	rf := &runFlags{}
	cmd := &cobra.Command{
		Use:   "run text|numeric [values...]",
		Short: "Run a pipeline over values",
		Long: `Run the text or numeric pipeline over the given values, or over the
lines of standard input when no values are given. Results are printed in
input order. The command fails when any input fails.`,
		Example: `  typedflow run text improving straße
  typedflow run numeric --stages double,offset:1 10 20
  seq 1 100 | typedflow run numeric --concurrency 8 -o json`,
		Args:      cobra.MinimumNArgs(1),
		ValidArgs: []string{"text", "numeric"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags.configFile)
			if err != nil {
				return err
			}
			rf.apply(cmd, cfg)
			app, err := bootstrap.NewApp(cfg)
			if err != nil {
				return err
			}
			telemetry := observability.NewComponent(cfg.Telemetry, cfg.Name, version.Get().Short(), cfg.Environment, app.Logger)
			if err := app.RegisterComponent(telemetry); err != nil {
				return err
			}
			return app.RunTask(cmd.Context(), func(ctx context.Context) error {
				return runPipeline(ctx, app, args[0], args[1:], cmd.InOrStdin(), cmd.OutOrStdout(), flags.output)
			})
		},
	}
	cmd.Flags().StringSliceVar(&rf.stages, "stages", nil, "Stages to run, overriding the configured pipeline")
	cmd.Flags().IntVar(&rf.concurrency, "concurrency", 0, "Inputs processed at once (default from config)")
	cmd.Flags().BoolVarP(&rf.verbose, "verbose", "v", false, "Log at the configured level instead of warn")
	return cmd
}

// apply overrides cfg with flags. Logs go to stderr so stdout carries
// results only.
func (rf *runFlags) apply(cmd *cobra.Command, cfg *AppConfig) {
	cfg.Logging.Output = "stderr"
	if !rf.verbose {
		cfg.Logging.Level = "warn"
	}
	if cmd.Flags().Changed("concurrency") {
		cfg.Pipeline.Concurrency = rf.concurrency
	}
	if len(rf.stages) == 0 {
		return
	}
	switch cmd.Flags().Arg(0) {
	case "text":
		cfg.Pipeline.Text = rf.stages
	case "numeric":
		cfg.Pipeline.Numeric = rf.stages
	}
}

func runPipeline(ctx context.Context, app *bootstrap.App[*AppConfig], kind string, values []string, in io.Reader, out io.Writer, format string) error {
	opts := []pipeline.Option{pipeline.WithLogger(app.Logger)}
	if app.Cfg.Telemetry.Enabled {
		metrics, err := observability.NewMetrics(observability.Meter())
		if err != nil {
			return err
		}
		opts = append(opts, pipeline.WithMetrics(metrics))
	}
	ch, err := buildChains(app.Cfg.Pipeline, opts...)
	if err != nil {
		return err
	}

	lines := inputLines(values, in, app.Cfg.Pipeline.Concurrency)
	switch kind {
	case "text":
		src := pipeline.Map(lines, func(_ context.Context, s string) (processor.Data[string], error) {
			return processor.NewData(s), nil
		})
		return report(ctx, out, format, ch.text, src)
	case "numeric":
		src := pipeline.Map(lines, func(_ context.Context, s string) (processor.Data[int64], error) {
			n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
			if err != nil {
				return processor.Data[int64]{}, errors.InvalidInput("value", fmt.Sprintf("%q is not an integer", s))
			}
			return processor.NewData(n), nil
		})
		return report(ctx, out, format, ch.numeric, src)
	default:
		return fmt.Errorf("unknown pipeline %q (want text or numeric)", kind)
	}
}

// inputLines yields values, or the non-blank lines read from in when values
// is empty. Reading runs up to buffer lines ahead of the pipeline.
func inputLines(values []string, in io.Reader, buffer int) *pipeline.Pipeline[string] {
	if len(values) > 0 {
		return pipeline.FromSlice(values)
	}
	lines := pipeline.FromFunc(func(context.Context) pipeline.Iterator[string] {
		return &lineIter{scanner: bufio.NewScanner(in)}
	})
	lines = pipeline.Filter(lines, func(line string) bool {
		return strings.TrimSpace(line) != ""
	})
	return pipeline.Buffer(lines, buffer)
}

// lineIter yields the lines of a reader.
type lineIter struct {
	scanner *bufio.Scanner
}

func (it *lineIter) Next(ctx context.Context) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	if !it.scanner.Scan() {
		return "", false, it.scanner.Err()
	}
	return it.scanner.Text(), true, nil
}

func (it *lineIter) Close() error { return nil }

// report streams results through chain. Text output is printed as results
// arrive; JSON and YAML are written once the run completes.
func report[T any](ctx context.Context, out io.Writer, format string, chain *pipeline.Chain[T], src *pipeline.Pipeline[processor.Data[T]]) error {
	var views []api.ResultView[T]
	results := pipeline.Tap(chain.Stream(src), func(_ context.Context, r processor.Result[T]) error {
		if format == textFormat {
			printResult(out, r)
			return nil
		}
		views = append(views, api.NewResultView(r))
		return nil
	})
	sums, err := pipeline.Collect(ctx, pipeline.Summarize(results))
	if err != nil {
		return err
	}
	sum := sums[0]

	if format == textFormat {
		fmt.Fprintf(out, "%s: %d inputs, %d succeeded, %d failed\n", chain.Name(), sum.Total, sum.Succeeded, sum.Failed)
	} else {
		if views == nil {
			views = []api.ResultView[T]{}
		}
		resp := api.RunResponse[T]{Pipeline: chain.Name(), Results: views, Summary: sum}
		if err := writeStructured(out, format, resp); err != nil {
			return err
		}
	}
	if sum.Failed > 0 {
		return fmt.Errorf("%d of %d inputs failed", sum.Failed, sum.Total)
	}
	return nil
}

func printResult[T any](out io.Writer, r processor.Result[T]) {
	if r.Success {
		fmt.Fprintf(out, "%v\n", r.Value)
		return
	}
	code := errors.ErrCodeInternal
	if appErr, ok := errors.AsAppError(r.Err); ok {
		code = appErr.Code
	}
	fmt.Fprintf(out, "%v\tFAILED %s at %s: %s\n", r.Original, code, r.Stage, r.ErrorMessage())
}
