package formula

import (
	"errors"
	"fmt"
)

// ErrInvalidRequest marks a request rejected before any pipeline stage runs.
var ErrInvalidRequest = errors.New("invalid verification request")

// #region validate

// Validate enforces the input contract. A non-nil error aborts verification
// before any downstream stage runs.
func (r VerificationRequest) Validate() error {
	if r.Hypothesis == "" {
		return fmt.Errorf("%w: hypothesis is empty", ErrInvalidRequest)
	}
	if len(r.Ingredients) == 0 {
		return fmt.Errorf("%w: ingredient list is empty", ErrInvalidRequest)
	}
	for i, ing := range r.Ingredients {
		if ing.ID == "" || ing.Label == "" {
			return fmt.Errorf("%w: ingredient %d lacks id or label", ErrInvalidRequest, i)
		}
	}
	for i, c := range r.Constraints {
		if c.Type == "" || c.Parameter == "" {
			return fmt.Errorf("%w: constraint %d lacks type or parameter", ErrInvalidRequest, i)
		}
	}
	return nil
}

// #endregion

// #region environment

// Environment derives ambient conditions from the constraint list.
// Missing values default to pH 7.0 and 25 degrees C.
func (r VerificationRequest) Environment() map[string]float64 {
	env := map[string]float64{"ph": 7.0, "temperature": 25.0}
	for _, c := range r.Constraints {
		switch c.Type {
		case ConstraintPH:
			env["ph"] = c.Value
		case ConstraintTemperature:
			env["temperature"] = c.Value
		}
	}
	return env
}

// #endregion
