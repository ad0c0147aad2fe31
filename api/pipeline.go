package api

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/typedflow/errors"
	"github.com/kbukum/typedflow/pipeline"
	"github.com/kbukum/typedflow/processor"
	"github.com/kbukum/typedflow/server"
)

// DefaultMaxInputs caps the inputs accepted by one run request.
const DefaultMaxInputs = 1000

// RunRequest is the body of a pipeline run.
type RunRequest[T any] struct {
	Inputs []T `json:"inputs"`
}

// ResultView is the wire form of one processor.Result.
type ResultView[T any] struct {
	Original   T                 `json:"original"`
	Value      T                 `json:"value"`
	Success    bool              `json:"success"`
	Stage      string            `json:"stage,omitempty"`
	DurationMS int64             `json:"duration_ms"`
	Error      *errors.ErrorBody `json:"error,omitempty"`
}

// RunResponse carries results in input order plus their summary.
type RunResponse[T any] struct {
	Pipeline string           `json:"pipeline"`
	Results  []ResultView[T]  `json:"results"`
	Summary  pipeline.Summary `json:"summary"`
}

// NewResultView converts r for rendering.
func NewResultView[T any](r processor.Result[T]) ResultView[T] {
	v := ResultView[T]{
		Original:   r.Original,
		Value:      r.Value,
		Success:    r.Success,
		Stage:      r.Stage,
		DurationMS: r.Duration.Milliseconds(),
	}
	if !r.Success && r.Err != nil {
		body := errors.Wrap(r.Err).ToResponse().Error
		v.Error = &body
	}
	return v
}

// PipelineHandler runs a Chain[T] over request inputs.
type PipelineHandler[T any] struct {
	chain     *pipeline.Chain[T]
	maxInputs int
}

// PipelineOption configures a PipelineHandler.
type PipelineOption func(*pipelineOptions)

type pipelineOptions struct {
	maxInputs int
}

// WithMaxInputs caps the inputs per request. n <= 0 keeps the default.
func WithMaxInputs(n int) PipelineOption {
	return func(o *pipelineOptions) {
		if n > 0 {
			o.maxInputs = n
		}
	}
}

// NewPipelineHandler creates a handler over chain.
func NewPipelineHandler[T any](chain *pipeline.Chain[T], opts ...PipelineOption) *PipelineHandler[T] {
	o := pipelineOptions{maxInputs: DefaultMaxInputs}
	for _, opt := range opts {
		opt(&o)
	}
	return &PipelineHandler[T]{chain: chain, maxInputs: o.maxInputs}
}

// Register mounts POST /run and GET "" (pipeline description) on r.
func (h *PipelineHandler[T]) Register(r gin.IRouter) {
	r.GET("", h.Describe)
	r.POST("/run", h.Run)
}

// Describe reports the chain name and stage count.
func (h *PipelineHandler[T]) Describe(c *gin.Context) {
	server.RespondOK(c, gin.H{"name": h.chain.Name(), "stages": h.chain.Len()})
}

// Run processes every input and answers 200 even when some inputs fail;
// per-input failures are reported in the results.
func (h *PipelineHandler[T]) Run(c *gin.Context) {
	var req RunRequest[T]
	if err := c.ShouldBindJSON(&req); err != nil {
		server.RespondWithError(c, errors.InvalidInput("body", err.Error()))
		return
	}
	if req.Inputs == nil {
		server.RespondWithError(c, errors.MissingField("inputs"))
		return
	}
	if len(req.Inputs) > h.maxInputs {
		server.RespondWithError(c, errors.InvalidInput("inputs",
			fmt.Sprintf("at most %d inputs are accepted", h.maxInputs)))
		return
	}

	results := h.chain.Run(c.Request.Context(), processor.Wrap(req.Inputs...))
	views := make([]ResultView[T], len(results))
	for i, r := range results {
		views[i] = NewResultView(r)
	}
	server.RespondOK(c, RunResponse[T]{
		Pipeline: h.chain.Name(),
		Results:  views,
		Summary:  pipeline.SummaryOf(results),
	})
}
