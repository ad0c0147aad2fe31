package pipeline

import "context"

// Iterator yields values on demand.
type Iterator[T any] interface {
	// Next returns the next value, or (zero, false, nil) once exhausted.
	Next(ctx context.Context) (T, bool, error)
	// Close releases the iterator and everything it pulls from.
	Close() error
}

// Pipeline is a lazy source of values. Nothing is pulled until a terminal
// (Collect, Drain, ForEach) runs it, and every run builds fresh iterators.
type Pipeline[T any] struct {
	create func(ctx context.Context) Iterator[T]
}

// Runnable is a pipeline bound to a sink, ready to execute.
type Runnable struct {
	run func(ctx context.Context) error
}

// Run pulls until the source is exhausted, a stage fails or ctx is done.
func (r *Runnable) Run(ctx context.Context) error {
	return r.run(ctx)
}

// item carries a value or a terminal error between goroutines.
type item[T any] struct {
	val T
	ok  bool
	err error
}

type channelIter[T any] struct {
	ch     <-chan item[T]
	closer func() error
}

func (it *channelIter[T]) Next(ctx context.Context) (T, bool, error) {
	var zero T
	select {
	case r, open := <-it.ch:
		if !open {
			return zero, false, nil
		}
		return r.val, r.ok, r.err
	case <-ctx.Done():
		return zero, false, ctx.Err()
	}
}

func (it *channelIter[T]) Close() error {
	if it.closer != nil {
		return it.closer()
	}
	return nil
}

// From wraps an existing iterator. The pipeline can only be run once.
func From[T any](iter Iterator[T]) *Pipeline[T] {
	return &Pipeline[T]{
		create: func(_ context.Context) Iterator[T] { return iter },
	}
}

// FromSlice yields the items in order.
func FromSlice[T any](items []T) *Pipeline[T] {
	return &Pipeline[T]{
		create: func(_ context.Context) Iterator[T] {
			return &sliceIter[T]{items: items}
		},
	}
}

// FromFunc builds a pipeline whose iterator is created by fn on every run.
func FromFunc[T any](fn func(ctx context.Context) Iterator[T]) *Pipeline[T] {
	return &Pipeline[T]{create: fn}
}

// Drain returns a Runnable sending every value to sink.
func Drain[T any](p *Pipeline[T], sink func(context.Context, T) error) *Runnable {
	return &Runnable{
		run: func(ctx context.Context) error {
			iter := p.create(ctx)
			defer iter.Close()
			for {
				val, ok, err := iter.Next(ctx)
				if err != nil {
					return err
				}
				if !ok {
					return nil
				}
				if err := sink(ctx, val); err != nil {
					return err
				}
			}
		},
	}
}

// Collect runs p and returns its values. On error the values pulled so far
// are returned with it.
func Collect[T any](ctx context.Context, p *Pipeline[T]) ([]T, error) {
	iter := p.create(ctx)
	defer iter.Close()
	var out []T
	for {
		val, ok, err := iter.Next(ctx)
		if err != nil {
			return out, err
		}
		if !ok {
			return out, nil
		}
		out = append(out, val)
	}
}

// ForEach runs p calling fn for each value.
func ForEach[T any](ctx context.Context, p *Pipeline[T], fn func(context.Context, T) error) error {
	return Drain(p, fn).Run(ctx)
}

// Iter returns a fresh iterator over p. The caller must Close it.
func (p *Pipeline[T]) Iter(ctx context.Context) Iterator[T] {
	return p.create(ctx)
}

type sliceIter[T any] struct {
	items []T
	index int
}

func (it *sliceIter[T]) Next(_ context.Context) (T, bool, error) {
	if it.index >= len(it.items) {
		var zero T
		return zero, false, nil
	}
	val := it.items[it.index]
	it.index++
	return val, true, nil
}

func (it *sliceIter[T]) Close() error { return nil }
