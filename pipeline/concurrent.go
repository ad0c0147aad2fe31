package pipeline

import (
	"context"
	"sync"
)

// Buffer decouples p from its consumer with a channel holding up to size
// values, so the producer can run ahead.
func Buffer[T any](p *Pipeline[T], size int) *Pipeline[T] {
	if size <= 0 {
		size = 1
	}
	return &Pipeline[T]{
		create: func(ctx context.Context) Iterator[T] {
			source := p.create(ctx)
			bufCtx, cancel := context.WithCancel(ctx)
			ch := make(chan item[T], size)

			go func() {
				defer close(ch)
				for {
					val, ok, err := source.Next(bufCtx)
					if err != nil {
						select {
						case ch <- item[T]{err: err}:
						case <-bufCtx.Done():
						}
						return
					}
					if !ok {
						return
					}
					select {
					case ch <- item[T]{val: val, ok: true}:
					case <-bufCtx.Done():
						return
					}
				}
			}()

			return &channelIter[T]{
				ch: ch,
				closer: func() error {
					cancel()
					return source.Close()
				},
			}
		},
	}
}

type indexed[T any] struct {
	seq int
	it  item[T]
}

// ParallelOrdered applies fn to values with up to n concurrent workers and
// yields the outputs in source order. At most 2n values are in flight or
// waiting in the reorder buffer. An error from fn or the source ends the
// stream at its position.
func ParallelOrdered[I, O any](p *Pipeline[I], n int, fn func(context.Context, I) (O, error)) *Pipeline[O] {
	if n <= 0 {
		n = 1
	}
	return &Pipeline[O]{
		create: func(ctx context.Context) Iterator[O] {
			source := p.create(ctx)
			workerCtx, cancel := context.WithCancel(ctx)
			slots := make(chan struct{}, 2*n)
			jobs := make(chan indexed[I])
			out := make(chan indexed[O], n)

			var wg sync.WaitGroup
			wg.Add(1)
			go func() {
				defer wg.Done()
				defer close(jobs)
				for seq := 0; ; seq++ {
					select {
					case slots <- struct{}{}:
					case <-workerCtx.Done():
						return
					}
					val, ok, err := source.Next(workerCtx)
					if err != nil {
						select {
						case out <- indexed[O]{seq: seq, it: item[O]{err: err}}:
						case <-workerCtx.Done():
						}
						return
					}
					if !ok {
						return
					}
					select {
					case jobs <- indexed[I]{seq: seq, it: item[I]{val: val, ok: true}}:
					case <-workerCtx.Done():
						return
					}
				}
			}()

			for range n {
				wg.Add(1)
				go func() {
					defer wg.Done()
					for job := range jobs {
						o, err := fn(workerCtx, job.it.val)
						res := indexed[O]{seq: job.seq, it: item[O]{val: o, ok: err == nil, err: err}}
						select {
						case out <- res:
						case <-workerCtx.Done():
							return
						}
					}
				}()
			}

			go func() {
				wg.Wait()
				close(out)
			}()

			return &orderedIter[O]{
				ch:      out,
				slots:   slots,
				pending: make(map[int]item[O]),
				closer: func() error {
					cancel()
					return source.Close()
				},
			}
		},
	}
}

// orderedIter releases values strictly by sequence number.
type orderedIter[T any] struct {
	ch      <-chan indexed[T]
	slots   <-chan struct{}
	pending map[int]item[T]
	next    int
	done    bool
	closer  func() error
}

func (it *orderedIter[T]) Next(ctx context.Context) (T, bool, error) {
	var zero T
	for !it.done {
		if r, ok := it.pending[it.next]; ok {
			delete(it.pending, it.next)
			it.next++
			<-it.slots
			if r.err != nil {
				it.done = true
				return zero, false, r.err
			}
			return r.val, true, nil
		}
		select {
		case r, open := <-it.ch:
			if !open {
				it.done = true
				break
			}
			it.pending[r.seq] = r.it
		case <-ctx.Done():
			return zero, false, ctx.Err()
		}
	}
	return zero, false, nil
}

func (it *orderedIter[T]) Close() error {
	if it.closer != nil {
		return it.closer()
	}
	return nil
}
