package simulate

import (
	"gonum.org/v1/gonum/mat"
)

// Step advances a state vector one sampling period,
//
//	x[k+1] = Ad x[k] + Bd u[k]
//
// and returns the next state as a fresh vector; neither input is modified.
// The state must have length n and the input length m. A system without
// inputs accepts a nil input vector. Step has no other state, sequencing
// consecutive calls into a trajectory is up to the caller.
func (sys *DiscreteSystem) Step(state, input mat.Vector) (*mat.VecDense, error) {
	n := sys.StateSpaceOrder()
	m := sys.InputSpaceOrder()
	if state == nil || state.Len() != n {
		got := 0
		if state != nil {
			got = state.Len()
		}
		return nil, dimensionErrorf("Step", "state vector has length %d, system has %d states", got, n)
	}
	if m == 0 {
		if input != nil && input.Len() != 0 {
			return nil, dimensionErrorf("Step", "input vector has length %d, system has no inputs", input.Len())
		}
	} else if input == nil || input.Len() != m {
		got := 0
		if input != nil {
			got = input.Len()
		}
		return nil, dimensionErrorf("Step", "input vector has length %d, system has %d inputs", got, m)
	}

	next := mat.NewVecDense(n, nil)
	next.MulVec(sys.Ad, state)
	if m > 0 {
		tmp := mat.NewVecDense(n, nil)
		tmp.MulVec(sys.Bd, input)
		next.AddVec(next, tmp)
	}
	return next, nil
}
