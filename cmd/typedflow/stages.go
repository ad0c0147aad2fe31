package main

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/language"

	"github.com/kbukum/typedflow/errors"
	"github.com/kbukum/typedflow/pipeline"
	"github.com/kbukum/typedflow/processor"
	"github.com/kbukum/typedflow/resilience"
)

// textStages builds text processors from names such as "trim", "upper" or
// "upper:tr" (language-specific casing).
func textStages(names []string) ([]processor.Processor[string], error) {
	stages := make([]processor.Processor[string], 0, len(names))
	for _, name := range names {
		kind, arg, _ := strings.Cut(name, ":")
		var opts []processor.TextOption
		if arg != "" {
			tag, err := language.Parse(arg)
			if err != nil {
				return nil, errors.InvalidInput("stage", fmt.Sprintf("%s: unknown language %q", name, arg))
			}
			opts = append(opts, processor.WithLanguage(tag))
		}
		switch kind {
		case "upper":
			stages = append(stages, processor.NewText(opts...))
		case "lower":
			stages = append(stages, processor.NewLower(opts...))
		case "fold":
			stages = append(stages, processor.NewFold())
		case "trim":
			stages = append(stages, processor.NewTrim())
		default:
			return nil, errors.InvalidInput("stage", fmt.Sprintf("unknown text stage %q", name))
		}
	}
	return stages, nil
}

// numericStages builds int64 processors from names such as "double",
// "scale:3", "offset:-1" or "bounded:0:100".
func numericStages(names []string) ([]processor.Processor[int64], error) {
	stages := make([]processor.Processor[int64], 0, len(names))
	for _, name := range names {
		parts := strings.Split(name, ":")
		args := make([]int64, 0, len(parts)-1)
		for _, p := range parts[1:] {
			n, err := strconv.ParseInt(p, 10, 64)
			if err != nil {
				return nil, errors.InvalidInput("stage", fmt.Sprintf("%s: %q is not an integer", name, p))
			}
			args = append(args, n)
		}

		switch {
		case parts[0] == "double" && len(args) == 0:
			stages = append(stages, processor.NewNumeric[int64]())
		case parts[0] == "scale" && len(args) == 1:
			stages = append(stages, processor.Scale(name, args[0]))
		case parts[0] == "offset" && len(args) == 1:
			stages = append(stages, processor.Offset(name, args[0]))
		case parts[0] == "bounded" && len(args) == 2 && args[0] <= args[1]:
			stages = append(stages, processor.Bounded(name, args[0], args[1]))
		default:
			return nil, errors.InvalidInput("stage", fmt.Sprintf("unknown numeric stage %q", name))
		}
	}
	return stages, nil
}

// chainOptions maps the pipeline section onto chain options.
func chainOptions(cfg PipelineConfig) []pipeline.Option {
	opts := []pipeline.Option{
		pipeline.WithConcurrency(cfg.Concurrency),
		pipeline.WithStageTimeout(cfg.StageTimeout),
	}
	if cfg.RetryAttempts > 1 {
		retry := resilience.DefaultRetryConfig()
		retry.MaxAttempts = cfg.RetryAttempts
		opts = append(opts, pipeline.WithRetry(retry))
	}
	return opts
}

// chains holds the configured text and numeric pipelines.
type chains struct {
	text    *pipeline.Chain[string]
	numeric *pipeline.Chain[int64]
}

func buildChains(cfg PipelineConfig, extra ...pipeline.Option) (chains, error) {
	text, err := textStages(cfg.Text)
	if err != nil {
		return chains{}, err
	}
	num, err := numericStages(cfg.Numeric)
	if err != nil {
		return chains{}, err
	}
	opts := append(chainOptions(cfg), extra...)
	return chains{
		text:    pipeline.NewChain(text, opts...),
		numeric: pipeline.NewChain(num, opts...),
	}, nil
}
