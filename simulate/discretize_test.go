package simulate

import (
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/lhk/trailer-env/ssm"
)

func TestDiscretizeScalarDecay(t *testing.T) {
	// x' = -x + u has the exact zero-order-hold solution
	// Ad = e^(-Ts), Bd = 1 - e^(-Ts).
	A := mat.NewDense(1, 1, []float64{-1})
	B := mat.NewDense(1, 1, []float64{1})
	ts := 0.3

	sys, err := Discretize(A, B, ts)
	require.NoError(t, err)

	assert.InDelta(t, math.Exp(-ts), sys.Ad.At(0, 0), 1e-14)
	assert.InDelta(t, 1-math.Exp(-ts), sys.Bd.At(0, 0), 1e-14)
	assert.Equal(t, ts, sys.Ts)
}

func TestDiscretizeIntegratorChain(t *testing.T) {
	// The state dynamics matrix of an integrator chain is nilpotent, so its
	// exponential terminates after N terms:
	// Ad[i][j] = (g Ts)^(i-j) / (i-j)!
	// Bd[i] = g^i Ts^(i+1) / (i+1)!
	const (
		N  = 4
		g  = 2.5
		ts = 0.5
	)
	chain := ssm.NewIntegratorChain(N, g)

	sys, err := Discretize(chain.A, chain.B, ts)
	require.NoError(t, err)

	factorial := func(k int) float64 {
		res := 1.
		for i := 2; i <= k; i++ {
			res *= float64(i)
		}
		return res
	}
	for row := 0; row < N; row++ {
		for col := 0; col < N; col++ {
			want := 0.
			if row >= col {
				want = math.Pow(g*ts, float64(row-col)) / factorial(row-col)
			}
			assert.InDelta(t, want, sys.Ad.At(row, col), 1e-12, "Ad[%d][%d]", row, col)
		}
		want := math.Pow(g, float64(row)) * math.Pow(ts, float64(row+1)) / factorial(row+1)
		assert.InDelta(t, want, sys.Bd.At(row, 0), 1e-12, "Bd[%d]", row)
	}
}

func TestDiscretizeSmallTimestepLimit(t *testing.T) {
	A := mat.NewDense(2, 2, []float64{-14.5, 0.24, -42, -16.2})
	B := mat.NewDense(2, 1, []float64{-0.3, 2.25})

	sys, err := Discretize(A, B, 1e-12)
	require.NoError(t, err)

	for row := 0; row < 2; row++ {
		for col := 0; col < 2; col++ {
			want := 0.
			if row == col {
				want = 1.
			}
			assert.InDelta(t, want, sys.Ad.At(row, col), 1e-9)
		}
		assert.InDelta(t, 0, sys.Bd.At(row, 0), 1e-9)
	}
}

func TestDiscretizeComposition(t *testing.T) {
	// Discretizing for Ts1 and Ts2 and stepping twice must agree with a
	// single step of Ts1+Ts2; the exact solution operators of a
	// time-invariant system form a semigroup.
	A := mat.NewDense(2, 2, []float64{-14.516129032258064, 0.2412903225806452, -42, -16.1952})
	B := mat.NewDense(2, 1, []float64{-0.3024193548387097, 2.25})
	state := mat.NewVecDense(2, []float64{0.01, -0.02})
	input := mat.NewVecDense(1, []float64{0.05})

	first, err := Discretize(A, B, 0.2)
	require.NoError(t, err)
	second, err := Discretize(A, B, 0.3)
	require.NoError(t, err)
	whole, err := Discretize(A, B, 0.5)
	require.NoError(t, err)

	mid, err := first.Step(state, input)
	require.NoError(t, err)
	twoSteps, err := second.Step(mid, input)
	require.NoError(t, err)
	oneStep, err := whole.Step(state, input)
	require.NoError(t, err)

	for row := 0; row < 2; row++ {
		assert.InDelta(t, oneStep.AtVec(row), twoSteps.AtVec(row), 1e-10)
	}
}

func TestDiscretizeWithoutInputs(t *testing.T) {
	A := mat.NewDense(1, 1, []float64{-2})

	sys, err := Discretize(A, nil, 0.5)
	require.NoError(t, err)
	assert.Nil(t, sys.Bd)
	assert.Equal(t, 0, sys.InputSpaceOrder())
	assert.InDelta(t, math.Exp(-1), sys.Ad.At(0, 0), 1e-14)

	next, err := sys.Step(mat.NewVecDense(1, []float64{3}), nil)
	require.NoError(t, err)
	assert.InDelta(t, 3*math.Exp(-1), next.AtVec(0), 1e-14)
}

func TestDiscretizeRejectsNonSquare(t *testing.T) {
	A := mat.NewDense(2, 3, nil)
	B := mat.NewDense(2, 1, nil)

	_, err := Discretize(A, B, 0.1)
	var dimErr *DimensionError
	require.ErrorAs(t, err, &dimErr)
	assert.Equal(t, "Discretize", dimErr.Op)
}

func TestDiscretizeRejectsRowMismatch(t *testing.T) {
	A := mat.NewDense(2, 2, nil)
	B := mat.NewDense(3, 1, nil)

	_, err := Discretize(A, B, 0.1)
	var dimErr *DimensionError
	require.ErrorAs(t, err, &dimErr)
}

func TestDiscretizeRejectsInvalidTimestep(t *testing.T) {
	A := mat.NewDense(1, 1, []float64{-1})
	B := mat.NewDense(1, 1, []float64{1})

	for _, ts := range []float64{0, -0.5} {
		_, err := Discretize(A, B, ts)
		assert.ErrorIs(t, err, ErrInvalidTimestep, "Ts = %g", ts)
	}
}

func TestDiscretizeRejectsNonFiniteInput(t *testing.T) {
	A := mat.NewDense(1, 1, []float64{math.NaN()})
	B := mat.NewDense(1, 1, []float64{1})

	_, err := Discretize(A, B, 0.1)
	var instErr *InstabilityError
	require.ErrorAs(t, err, &instErr)
	assert.Equal(t, 0.1, instErr.Ts)
}

func TestDiscretizeReportsOverflow(t *testing.T) {
	// e^(A Ts) overflows float64 here; the failure must be reported rather
	// than a truncated result returned.
	A := mat.NewDense(1, 1, []float64{1000})
	B := mat.NewDense(1, 1, []float64{1})

	_, err := Discretize(A, B, 1000)
	var instErr *InstabilityError
	require.ErrorAs(t, err, &instErr)
	assert.False(t, errors.Is(err, ErrInvalidTimestep))
}

func TestDiscretizeConcurrentCalls(t *testing.T) {
	// Discretize shares no state between calls on distinct inputs.
	var wg sync.WaitGroup
	for worker := 0; worker < 8; worker++ {
		wg.Add(1)
		go func(k int) {
			defer wg.Done()
			rate := float64(k + 1)
			A := mat.NewDense(1, 1, []float64{-rate})
			sys, err := Discretize(A, nil, 0.25)
			if err != nil {
				t.Errorf("worker %d: %v", k, err)
				return
			}
			if got, want := sys.Ad.At(0, 0), math.Exp(-0.25*rate); math.Abs(got-want) > 1e-14 {
				t.Errorf("worker %d: Ad = %v, want %v", k, got, want)
			}
		}(worker)
	}
	wg.Wait()
}
