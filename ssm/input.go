package ssm

import (
	"errors"

	"gonum.org/v1/gonum/mat"
)

// HeldInputSystem couples a linear state space model with an input vector
// held constant over time,
//
// x'(t) = A x(t) + B u
//
// which is the zero-order-hold assumption underlying exact discretization.
// It satisfies the ode package's DifferentiableSystem interface.
type HeldInputSystem struct {
	Model *LinearStateSpaceModel
	U     mat.Vector
}

// Hold returns the model driven by the constant input u. A model without
// inputs takes a nil u.
func (sys *LinearStateSpaceModel) Hold(u mat.Vector) *HeldInputSystem {
	m := sys.InputSpaceOrder()
	if m == 0 {
		if u != nil && u.Len() != 0 {
			panic(errors.New("ssm: input vector supplied to a model without inputs"))
		}
	} else if u == nil || u.Len() != m {
		panic(errors.New("ssm: input vector doesn't match input matrix"))
	}
	return &HeldInputSystem{sys, u}
}

// Derivative returns the state derivative
// x'(t) = A x(t) + B u
// at an arbitrary time t. The input contribution B u is constant in t.
func (sys HeldInputSystem) Derivative(t float64, state mat.Vector) mat.Vector {
	n := sys.Model.StateSpaceOrder()
	if state.Len() != n {
		panic(errors.New("ssm: state vector doesn't match state transition matrix"))
	}
	res := mat.NewVecDense(n, nil)
	res.MulVec(sys.Model.A, state)
	if sys.Model.InputSpaceOrder() > 0 {
		tmp := mat.NewVecDense(n, nil)
		tmp.MulVec(sys.Model.B, sys.U)
		res.AddVec(res, tmp)
	}
	return res
}
