// Package stepper implements a bounded integer value with a text edit
// surface and discrete increment/decrement actions.
//
// A Stepper never exposes a value outside its inclusive [min, max] range
// once a mutation has been accepted. Malformed input is recovered locally by
// restoring the edit text to the last valid value; it is never returned to
// the caller. Out-of-range input is either clamped to the nearest bound or
// rejected, depending on the Policy chosen at construction.
package stepper
