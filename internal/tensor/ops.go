package tensor

import (
	"fmt"
	"math"
)

// #region op-names

const (
	OpDiffusion             = "diffusion"
	OpPenetrationDepth      = "penetration_depth"
	OpLayerTransport        = "layer_transport"
	OpTensorAdd             = "tensor_add"
	OpIngredientInteraction = "ingredient_interaction"
	OpBarrierFunction       = "barrier_function"
	OpEffectiveness         = "effectiveness"
)

// #endregion

// #region coefficients

// InteractionCoefficient maps a declared relation kind to its score multiplier.
func InteractionCoefficient(kind string) float64 {
	switch kind {
	case "synergistic":
		return 1.2
	case "antagonistic":
		return 0.8
	case "competitive":
		return 0.9
	default:
		return 1.0
	}
}

// #endregion

// #region closed-forms

// PenetrationDepth is the closed-form depth model in micrometers:
// 100 * exp(-MW/1000) * clip(logP, 0.1, 2.0) * min(2.0, ln(conc+1)).
func PenetrationDepth(mw, logP, conc float64) float64 {
	lipophilicity := clamp(logP, 0.1, 2.0)
	solubility := math.Min(2.0, math.Log(conc+1))
	return 100 * math.Exp(-mw/1000) * lipophilicity * solubility
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// #endregion

// #region builtins

func builtinOperations() []Operation {
	return []Operation{
		{
			Name:   OpDiffusion,
			Roles:  []string{"concentration", "diffusivity", "timestep"},
			Apply:  applyDiffusion,
			Checks: []Validator{nonNegative},
		},
		{
			Name:   OpPenetrationDepth,
			Roles:  []string{"molecular_weight", "log_p", "concentration"},
			Apply:  applyPenetrationDepth,
			Checks: []Validator{positive},
		},
		{
			Name:   OpLayerTransport,
			Roles:  []string{"source", "target", "coefficient"},
			Apply:  applyLayerTransport,
			Checks: []Validator{finite},
		},
		{
			Name:   OpTensorAdd,
			Roles:  []string{"first", "second"},
			Apply:  applyTensorAdd,
			Checks: []Validator{finite},
		},
		{
			Name:   OpIngredientInteraction,
			Roles:  []string{"first", "second", "coefficient"},
			Apply:  applyInteraction,
			Checks: []Validator{nonNegative},
		},
		{
			Name:   OpBarrierFunction,
			Roles:  []string{"permeability", "integrity"},
			Apply:  applyBarrier,
			Checks: []Validator{normalized},
		},
		{
			Name:   OpEffectiveness,
			Roles:  []string{"concentration", "target_density", "mechanism_factor"},
			Apply:  applyEffectiveness,
			Checks: []Validator{normalized},
		},
	}
}

// #endregion

// #region diffusion

// applyDiffusion runs one explicit finite-difference step. Interior points
// receive C + D*dt*laplacian(C); boundary values are left untouched, which
// gives no-flux boundaries.
func applyDiffusion(in []Field) (Field, error) {
	conc := in[0]
	diff, err := scalarValue(in[1])
	if err != nil {
		return Field{}, err
	}
	dt, err := scalarValue(in[2])
	if err != nil {
		return Field{}, err
	}
	out := conc.clone()
	switch len(conc.Dims) {
	case 1:
		n := conc.Dims[0]
		for i := 1; i < n-1; i++ {
			lap := conc.Data[i-1] - 2*conc.Data[i] + conc.Data[i+1]
			out.Data[i] = conc.Data[i] + diff*dt*lap
		}
	case 2:
		rows, cols := conc.Dims[0], conc.Dims[1]
		for r := 1; r < rows-1; r++ {
			for c := 1; c < cols-1; c++ {
				i := r*cols + c
				lap := conc.Data[i-cols] + conc.Data[i+cols] +
					conc.Data[i-1] + conc.Data[i+1] - 4*conc.Data[i]
				out.Data[i] = conc.Data[i] + diff*dt*lap
			}
		}
	default:
		return Field{}, fmt.Errorf("%w: diffusion supports 1-D and 2-D fields, got rank %d",
			ErrShapeMismatch, len(conc.Dims))
	}
	return out, nil
}

// #endregion

// #region pointwise-ops

func applyPenetrationDepth(in []Field) (Field, error) {
	mw, err := scalarValue(in[0])
	if err != nil {
		return Field{}, err
	}
	logP, err := scalarValue(in[1])
	if err != nil {
		return Field{}, err
	}
	conc, err := scalarValue(in[2])
	if err != nil {
		return Field{}, err
	}
	return Scalar(PenetrationDepth(mw, logP, conc), "micrometers"), nil
}

func applyLayerTransport(in []Field) (Field, error) {
	source, target := in[0], in[1]
	if !source.SameShape(target) {
		return Field{}, fmt.Errorf("%w: source %v vs target %v",
			ErrShapeMismatch, source.Dims, target.Dims)
	}
	k, err := scalarValue(in[2])
	if err != nil {
		return Field{}, err
	}
	out := source.clone()
	out.Desc = "flux"
	for i := range out.Data {
		out.Data[i] = k * (source.Data[i] - target.Data[i])
	}
	return out, nil
}

func applyTensorAdd(in []Field) (Field, error) {
	a, b := in[0], in[1]
	if !a.SameShape(b) {
		return Field{}, fmt.Errorf("%w: %v vs %v", ErrShapeMismatch, a.Dims, b.Dims)
	}
	out := a.clone()
	for i := range out.Data {
		out.Data[i] = a.Data[i] + b.Data[i]
	}
	return out, nil
}

func applyInteraction(in []Field) (Field, error) {
	a, b := in[0], in[1]
	if !a.SameShape(b) {
		return Field{}, fmt.Errorf("%w: %v vs %v", ErrShapeMismatch, a.Dims, b.Dims)
	}
	k, err := scalarValue(in[2])
	if err != nil {
		return Field{}, err
	}
	out := a.clone()
	out.Desc = "interaction"
	for i := range out.Data {
		out.Data[i] = a.Data[i] * b.Data[i] * k
	}
	return out, nil
}

func applyBarrier(in []Field) (Field, error) {
	perm, integ := in[0], in[1]
	if !perm.SameShape(integ) {
		return Field{}, fmt.Errorf("%w: %v vs %v", ErrShapeMismatch, perm.Dims, integ.Dims)
	}
	out := perm.clone()
	out.Desc = "barrier"
	for i := range out.Data {
		out.Data[i] = perm.Data[i] * integ.Data[i]
	}
	return out, nil
}

func applyEffectiveness(in []Field) (Field, error) {
	conc, density, mech := in[0], in[1], in[2]
	if !conc.SameShape(density) || !conc.SameShape(mech) {
		return Field{}, fmt.Errorf("%w: %v vs %v vs %v",
			ErrShapeMismatch, conc.Dims, density.Dims, mech.Dims)
	}
	out := conc.clone()
	out.Desc = "effectiveness"
	for i := range out.Data {
		out.Data[i] = math.Min(1, conc.Data[i]*density.Data[i]*mech.Data[i]/100)
	}
	return out, nil
}

func scalarValue(f Field) (float64, error) {
	if f.Size() != 1 {
		return 0, fmt.Errorf("%w: scalar role wants 1 element, got %d", ErrShapeMismatch, f.Size())
	}
	return f.Data[0], nil
}

// #endregion
