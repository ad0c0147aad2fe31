package api

import (
	"github.com/gin-gonic/gin"

	"github.com/kbukum/typedflow/errors"
	"github.com/kbukum/typedflow/numeric"
	"github.com/kbukum/typedflow/server"
	"github.com/kbukum/typedflow/store"
)

// SetRequest is the PUT body for a single entry.
type SetRequest[T any] struct {
	Value *T `json:"value"`
}

// AddRequest is the body of a counter increment.
type AddRequest[T numeric.Number] struct {
	Delta *T `json:"delta"`
}

// AddResponse reports the value after an increment.
type AddResponse[T numeric.Number] struct {
	Key   string `json:"key"`
	Value T      `json:"value"`
}

// StoreHandler serves CRUD routes for a Store[T].
type StoreHandler[T any] struct {
	store store.Store[T]
}

// NewStoreHandler creates a handler over s.
func NewStoreHandler[T any](s store.Store[T]) *StoreHandler[T] {
	return &StoreHandler[T]{store: s}
}

// Register mounts the list and per-key routes on r.
func (h *StoreHandler[T]) Register(r gin.IRouter) {
	r.GET("", h.List)
	r.GET("/:key", h.Get)
	r.PUT("/:key", h.Set)
	r.DELETE("/:key", h.Delete)
}

// List returns every key in the store.
func (h *StoreHandler[T]) List(c *gin.Context) {
	keys, err := h.store.Keys(c.Request.Context())
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondList(c, keys, len(keys))
}

// Get returns the entry stored under :key.
func (h *StoreHandler[T]) Get(c *gin.Context) {
	key, err := keyParam(c)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	entry, err := h.store.Entry(c.Request.Context(), key)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondOK(c, entry)
}

// Set stores the request value under :key and returns the new entry.
func (h *StoreHandler[T]) Set(c *gin.Context) {
	key, err := keyParam(c)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	var req SetRequest[T]
	if err := c.ShouldBindJSON(&req); err != nil {
		server.RespondWithError(c, errors.InvalidInput("body", err.Error()))
		return
	}
	if req.Value == nil {
		server.RespondWithError(c, errors.MissingField("value"))
		return
	}
	ctx := c.Request.Context()
	if err := h.store.Set(ctx, key, *req.Value); err != nil {
		server.RespondWithError(c, err)
		return
	}
	entry, err := h.store.Entry(ctx, key)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondOK(c, entry)
}

// Delete removes :key. Deleting a missing key is not an error.
func (h *StoreHandler[T]) Delete(c *gin.Context) {
	key, err := keyParam(c)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	if err := h.store.Delete(c.Request.Context(), key); err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondNoContent(c)
}

// CounterHandler extends StoreHandler with an increment route.
type CounterHandler[T numeric.Number] struct {
	*StoreHandler[T]
	counter store.Counter[T]
}

// NewCounterHandler creates a handler over a numeric store.
func NewCounterHandler[T numeric.Number](s store.Counter[T]) *CounterHandler[T] {
	return &CounterHandler[T]{StoreHandler: NewStoreHandler[T](s), counter: s}
}

// Register mounts the store routes plus POST /:key/add.
func (h *CounterHandler[T]) Register(r gin.IRouter) {
	h.StoreHandler.Register(r)
	r.POST("/:key/add", h.Add)
}

// Add increments :key by the request delta. A missing key starts at zero.
func (h *CounterHandler[T]) Add(c *gin.Context) {
	key, err := keyParam(c)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	var req AddRequest[T]
	if err := c.ShouldBindJSON(&req); err != nil {
		server.RespondWithError(c, errors.InvalidInput("body", err.Error()))
		return
	}
	if req.Delta == nil {
		server.RespondWithError(c, errors.MissingField("delta"))
		return
	}
	v, err := h.counter.Add(c.Request.Context(), key, *req.Delta)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondOK(c, AddResponse[T]{Key: key, Value: v})
}
