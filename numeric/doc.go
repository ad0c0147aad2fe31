// Package numeric defines the numeric type constraints used by the numeric
// store and processors, plus checked arithmetic over them.
//
// Instantiating a constrained generic with a non-numeric type is a compile
// error:
//
//	store.NewNumeric[string]() // string does not satisfy numeric.Number
//
// Integer overflow and non-finite float results are reported as errors:
//
//	_, err := numeric.Mul[int8](100, 2)
//	errors.Is(err, errors.ErrOverflow) // true
package numeric
