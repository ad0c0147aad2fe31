package api

import (
	"github.com/gin-gonic/gin"

	"github.com/kbukum/typedflow/pipeline"
	"github.com/kbukum/typedflow/store"
)

// Routes holds the backends served under /v1. Nil fields are not mounted.
type Routes struct {
	Texts   store.Store[string]
	Numbers store.Counter[int64]
	Text    *pipeline.Chain[string]
	Numeric *pipeline.Chain[int64]

	PipelineOptions []PipelineOption
}

// Register mounts the /v1 API on r.
func Register(r gin.IRouter, routes Routes) {
	v1 := r.Group("/v1")
	if routes.Texts != nil {
		NewStoreHandler(routes.Texts).Register(v1.Group("/texts"))
	}
	if routes.Numbers != nil {
		NewCounterHandler(routes.Numbers).Register(v1.Group("/numbers"))
	}
	if routes.Text != nil {
		NewPipelineHandler(routes.Text, routes.PipelineOptions...).Register(v1.Group("/pipelines/text"))
	}
	if routes.Numeric != nil {
		NewPipelineHandler(routes.Numeric, routes.PipelineOptions...).Register(v1.Group("/pipelines/numeric"))
	}
}
