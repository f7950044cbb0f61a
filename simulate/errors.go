package simulate

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// ErrInvalidTimestep is returned by Discretize when the sampling period is
// zero or negative.
var ErrInvalidTimestep = errors.New("simulate: sampling period must be positive")

// DimensionError reports matrix or vector shapes that don't agree. The
// offending call is identified by Op.
type DimensionError struct {
	Op     string
	Detail string
}

func (e *DimensionError) Error() string {
	return "simulate: " + e.Op + ": " + e.Detail
}

// InstabilityError reports a matrix exponential that produced non-finite
// values, or non-finite inputs that would do so. The offending system and
// sampling period are retained so the caller can inspect and retry with
// adjusted parameters. A degraded result is never returned instead.
type InstabilityError struct {
	Ts float64
	A  mat.Matrix
	B  mat.Matrix
}

func (e *InstabilityError) Error() string {
	n, _ := e.A.Dims()
	m := 0
	if e.B != nil {
		_, m = e.B.Dims()
	}
	return fmt.Sprintf("simulate: matrix exponential is not finite for the %d state, %d input system at Ts = %g", n, m, e.Ts)
}

func dimensionErrorf(op, format string, args ...interface{}) error {
	return &DimensionError{Op: op, Detail: fmt.Sprintf(format, args...)}
}
