package tensor

import (
	"fmt"
	"math"
)

// #region operation

// Validator checks a post-condition on an operation output.
type Validator func(Field) error

// Operation is one named numeric transform. Arity is fixed by Roles.
type Operation struct {
	Name   string
	Roles  []string // declared input roles, one per expected field
	Apply  func(inputs []Field) (Field, error)
	Checks []Validator
}

// #endregion

// #region registry

// Registry maps operation names to their implementations.
type Registry struct {
	ops map[string]Operation
}

// NewRegistry returns a registry preloaded with the builtin operations.
func NewRegistry() *Registry {
	r := &Registry{ops: make(map[string]Operation)}
	for _, op := range builtinOperations() {
		r.Register(op)
	}
	return r
}

// Register adds or replaces an operation under its name.
func (r *Registry) Register(op Operation) {
	r.ops[op.Name] = op
}

// Execute runs a named operation, enforcing arity and post-conditions.
func (r *Registry) Execute(name string, inputs ...Field) (Field, error) {
	op, ok := r.ops[name]
	if !ok {
		return Field{}, fmt.Errorf("%w: %q", ErrUnknownOperation, name)
	}
	if len(inputs) != len(op.Roles) {
		return Field{}, fmt.Errorf("%w: %q expects %d inputs %v, got %d",
			ErrArityMismatch, name, len(op.Roles), op.Roles, len(inputs))
	}
	out, err := op.Apply(inputs)
	if err != nil {
		return Field{}, fmt.Errorf("%s: %w", name, err)
	}
	for _, check := range op.Checks {
		if err := check(out); err != nil {
			return Field{}, fmt.Errorf("%w: %s: %v", ErrInvalidResult, name, err)
		}
	}
	return out, nil
}

// #endregion

// #region validators

func finite(f Field) error {
	for i, v := range f.Data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("element %d is not finite: %v", i, v)
		}
	}
	return nil
}

func nonNegative(f Field) error {
	if err := finite(f); err != nil {
		return err
	}
	for i, v := range f.Data {
		if v < 0 {
			return fmt.Errorf("element %d is negative: %v", i, v)
		}
	}
	return nil
}

func positive(f Field) error {
	if err := finite(f); err != nil {
		return err
	}
	for i, v := range f.Data {
		if v <= 0 {
			return fmt.Errorf("element %d is not positive: %v", i, v)
		}
	}
	return nil
}

func normalized(f Field) error {
	if err := finite(f); err != nil {
		return err
	}
	for i, v := range f.Data {
		if v < 0 || v > 1 {
			return fmt.Errorf("element %d is outside [0,1]: %v", i, v)
		}
	}
	return nil
}

// #endregion
