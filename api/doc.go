// Package api exposes typed stores and processing pipelines over HTTP.
//
// Handlers are generic: a StoreHandler[T] serves any store.Store[T], a
// CounterHandler[T] adds the numeric increment route, and a
// PipelineHandler[T] runs a pipeline.Chain[T] over a request body.
//
//	api.Register(srv.Engine(), api.Routes{
//	    Texts:   store.New[string](),
//	    Numbers: store.NewNumeric[int64](),
//	    Text:    textChain,
//	    Numeric: numericChain,
//	})
package api
