// Package pipeline runs processors over many inputs.
//
// A Chain applies its stages in order to each input and short-circuits on
// the first failure. Run processes a batch and returns exactly one Result
// per input in input order, sequentially or with a bounded number of
// concurrent inputs:
//
//	chain := pipeline.NewChain([]processor.Processor[int]{processor.NewNumeric[int]()},
//		pipeline.WithConcurrency(4),
//		pipeline.WithStageTimeout(time.Second),
//	)
//	results := chain.Run(ctx, processor.Wrap(1, 2, 3)) // 2, 4, 6
//
// The package also carries lazy, pull-based operators for streaming work.
// Nothing runs until a terminal (Collect, Drain, ForEach) pulls values:
//
//   - FromSlice, From, FromFunc: sources
//   - Map, Filter, Tap, Reduce: single-goroutine operators
//   - Buffer: decouple producer and consumer with a channel
//   - ParallelOrdered: worker pool that keeps source order
//
// Chain.Stream joins the two: it turns a pipeline of inputs into a
// pipeline of Results.
package pipeline
