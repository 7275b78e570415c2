// Package tensor models physical transport with named numeric operations
// over small n-dimensional fields. Operations are registered by name and
// validated for arity, shape, and post-conditions on every call.
package tensor

import (
	"errors"
	"fmt"
)

// #region errors

var (
	// ErrUnknownOperation is returned when no operation is registered under a name.
	ErrUnknownOperation = errors.New("unknown tensor operation")
	// ErrArityMismatch is returned when the input count differs from the declared roles.
	ErrArityMismatch = errors.New("tensor operation arity mismatch")
	// ErrInvalidResult is returned when an output fails its post-condition check.
	ErrInvalidResult = errors.New("invalid tensor result")
	// ErrShapeMismatch is returned when field shapes are incompatible.
	ErrShapeMismatch = errors.New("tensor shape mismatch")
)

// #endregion

// #region field

// Field is an n-dimensional numeric array with unit metadata.
// len(Data) always equals the product of Dims.
type Field struct {
	Dims []int
	Data []float64
	Unit string
	Desc string
}

// NewField builds a field, rejecting data whose length does not match the shape.
func NewField(dims []int, data []float64, unit, desc string) (Field, error) {
	want := 1
	for _, d := range dims {
		if d <= 0 {
			return Field{}, fmt.Errorf("%w: dimension %d is not positive", ErrShapeMismatch, d)
		}
		want *= d
	}
	if len(dims) == 0 {
		want = 0
	}
	if len(data) != want {
		return Field{}, fmt.Errorf("%w: shape %v wants %d values, got %d",
			ErrShapeMismatch, dims, want, len(data))
	}
	return Field{Dims: dims, Data: data, Unit: unit, Desc: desc}, nil
}

// Scalar wraps a single value as a 1-element field for scalar operation roles.
func Scalar(v float64, unit string) Field {
	return Field{Dims: []int{1}, Data: []float64{v}, Unit: unit}
}

// Size returns the element count.
func (f Field) Size() int { return len(f.Data) }

// SameShape reports whether two fields share identical dimensions.
func (f Field) SameShape(other Field) bool {
	if len(f.Dims) != len(other.Dims) {
		return false
	}
	for i, d := range f.Dims {
		if other.Dims[i] != d {
			return false
		}
	}
	return true
}

// clone returns a field with copied data, keeping inputs immutable.
func (f Field) clone() Field {
	out := Field{Dims: append([]int(nil), f.Dims...), Unit: f.Unit, Desc: f.Desc}
	out.Data = append([]float64(nil), f.Data...)
	return out
}

// #endregion
