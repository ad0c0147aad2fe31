package pipeline

import (
	"github.com/kbukum/typedflow/errors"
	"github.com/kbukum/typedflow/processor"
)

// Summary counts the outcomes of a run. Failures are grouped by error code.
type Summary struct {
	Total     int            `json:"total" yaml:"total"`
	Succeeded int            `json:"succeeded" yaml:"succeeded"`
	Failed    int            `json:"failed" yaml:"failed"`
	Errors    map[string]int `json:"errors,omitempty" yaml:"errors,omitempty"`
}

func count[T any](s Summary, r processor.Result[T]) Summary {
	s.Total++
	if r.Success {
		s.Succeeded++
		return s
	}
	s.Failed++
	code := string(errors.ErrCodeInternal)
	if appErr, ok := errors.AsAppError(r.Err); ok {
		code = string(appErr.Code)
	}
	if s.Errors == nil {
		s.Errors = make(map[string]int)
	}
	s.Errors[code]++
	return s
}

// SummaryOf counts results.
func SummaryOf[T any](results []processor.Result[T]) Summary {
	var s Summary
	for _, r := range results {
		s = count(s, r)
	}
	return s
}

// Summarize reduces a result stream to a single Summary.
func Summarize[T any](p *Pipeline[processor.Result[T]]) *Pipeline[Summary] {
	return Reduce(p, Summary{}, count[T])
}
