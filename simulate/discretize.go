// Package simulate turns continuous-time linear state space models into
// their exact discrete-time counterparts and advances state vectors under a
// zero-order-hold input.
//
// Given x'(t) = A x(t) + B u(t) with u held constant over a sampling period
// Ts, the discrete system
//
//	x[k+1] = Ad x[k] + Bd u[k]
//
// reproduces the continuous solution at the sampling instants exactly. Both
// Ad and Bd fall out of a single matrix exponential of the augmented block
// matrix
//
//	[ A B ]          [ Ad Bd ]
//	[ 0 0 ] Ts  -->  [ 0  I  ]
//
// which, unlike any explicit Runge-Kutta scheme, carries no truncation error
// for linear time-invariant dynamics regardless of step size.
package simulate

import (
	"gonum.org/v1/gonum/mat"

	"github.com/lhk/trailer-env/gonumExtensions"
)

// DiscreteSystem holds the zero-order-hold discretization of a continuous
// linear system for a fixed sampling period. Ad is (n by n) and Bd (n by m).
// A system without inputs has a nil Bd. The matrices are not modified after
// construction.
type DiscreteSystem struct {
	Ad mat.Matrix
	Bd mat.Matrix
	// Sampling period the matrices were computed for.
	Ts float64
}

// Discretize computes the exact zero-order-hold discretization of
// x'(t) = A x(t) + B u(t) for the sampling period ts. A must be square with
// at least one state and B, when not nil, must have as many rows as A. The
// matrix exponential is evaluated with gonum's scaling-and-squaring Padé
// approximation; should it come out non-finite an InstabilityError is
// returned and no matrices are produced.
func Discretize(A, B mat.Matrix, ts float64) (*DiscreteSystem, error) {
	n, nCols := A.Dims()
	if n != nCols {
		return nil, dimensionErrorf("Discretize", "state matrix must be square, got %d by %d", n, nCols)
	}
	if n == 0 {
		return nil, dimensionErrorf("Discretize", "state matrix must have at least one state")
	}
	m := 0
	if B != nil {
		mB, mCols := B.Dims()
		if mB != n {
			return nil, dimensionErrorf("Discretize", "input matrix has %d rows, state matrix has %d", mB, n)
		}
		m = mCols
	}
	if ts <= 0 {
		return nil, ErrInvalidTimestep
	}
	if gonumExtensions.NANORINF(A) || (B != nil && gonumExtensions.NANORINF(B)) {
		return nil, &InstabilityError{Ts: ts, A: A, B: B}
	}

	// Augmented block matrix [A B; 0 0] scaled by the sampling period. The
	// zero rows make the input columns integrate the state transition, so a
	// single exponential yields both Ad and Bd.
	aug := mat.NewDense(n+m, n+m, nil)
	aug.Slice(0, n, 0, n).(*mat.Dense).Copy(A)
	if m > 0 {
		aug.Slice(0, n, n, n+m).(*mat.Dense).Copy(B)
	}
	aug.Scale(ts, aug)
	var exp mat.Dense
	exp.Exp(aug)

	if gonumExtensions.NANORINF(&exp) {
		return nil, &InstabilityError{Ts: ts, A: A, B: B}
	}

	Ad := mat.DenseCopyOf(exp.Slice(0, n, 0, n))
	var Bd mat.Matrix
	if m > 0 {
		Bd = mat.DenseCopyOf(exp.Slice(0, n, n, n+m))
	}
	return &DiscreteSystem{Ad: Ad, Bd: Bd, Ts: ts}, nil
}

// StateSpaceOrder returns the number of state variables n.
func (sys DiscreteSystem) StateSpaceOrder() int {
	n, _ := sys.Ad.Dims()
	return n
}

// InputSpaceOrder returns the number of inputs m.
func (sys DiscreteSystem) InputSpaceOrder() int {
	if sys.Bd == nil {
		return 0
	}
	_, m := sys.Bd.Dims()
	return m
}
