package ssm

import (
	"fmt"

	"github.com/lhk/trailer-env/gonumExtensions"
	"gonum.org/v1/gonum/mat"
)

// LinearStateSpaceModel struct represents the continuous-time system
//
// x'(t) = A x(t) + B u(t)
//
// where A is the (n by n) state dynamics matrix and B the (n by m) input
// matrix. The model itself carries no input trajectory; pair it with a held
// input vector, see Hold, when a derivative function is needed.
type LinearStateSpaceModel struct {
	// State dynamics
	A mat.Matrix
	// Input matrix
	B mat.Matrix
}

// NewLinearStateSpaceModel creates a new linear state space model after
// validating that the matrix dimensions agree.
func NewLinearStateSpaceModel(A, B mat.Matrix) (*LinearStateSpaceModel, error) {
	m, n := A.Dims()
	if m != n {
		return nil, fmt.Errorf("ssm: state matrix must be square, got %d by %d", m, n)
	}
	if m == 0 {
		return nil, fmt.Errorf("ssm: state space order must be at least one")
	}
	if B != nil {
		mB, _ := B.Dims()
		if mB != m {
			return nil, fmt.Errorf("ssm: input matrix has %d rows, state matrix has %d", mB, m)
		}
	}
	return &LinearStateSpaceModel{A, B}, nil
}

// NewIntegratorChain returns a linear state space model of an integrator
// chain of size N where each stage amplifies by stageGain and the input
// enters at the first stage. The state dynamics matrix of such a chain is
// nilpotent which makes its matrix exponential exactly computable, a handy
// property for validation.
func NewIntegratorChain(N int, stageGain float64) *LinearStateSpaceModel {
	var A mat.Dense
	A.Scale(stageGain, gonumExtensions.Eye(N, N, -1))
	b := make([]float64, N)
	b[0] = 1
	sys, err := NewLinearStateSpaceModel(&A, mat.NewDense(N, 1, b))
	if err != nil {
		panic(err)
	}
	return sys
}

// StateSpaceOrder returns the number of state variables n.
func (sys LinearStateSpaceModel) StateSpaceOrder() int {
	m, _ := sys.A.Dims()
	return m
}

// InputSpaceOrder returns the number of inputs m. A model without an input
// matrix has input space order zero.
func (sys LinearStateSpaceModel) InputSpaceOrder() int {
	if sys.B == nil {
		return 0
	}
	_, n := sys.B.Dims()
	return n
}
