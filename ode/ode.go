// Package ode implements explicit Runge-Kutta methods,
// https://en.wikipedia.org/wiki/Runge–Kutta_methods, for systems exposing a
// state derivative. For linear time-invariant systems these integrators
// carry a step-size-dependent truncation error that the exact
// discretization in the simulate package does not; they remain here as the
// independent reference solution to validate against and for systems where
// no closed form applies.
package ode

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/mat"
)

// DifferentiableSystem is any system that can report its state derivative
// at a given time and state.
type DifferentiableSystem interface {
	Derivative(t float64, state mat.Vector) mat.Vector
}

// RungeKutta holds the butcherTableau which describes the Runge Kutta method.
type RungeKutta struct {
	Description butcherTableau
}

// butcherTableau which describes the approximate solution, see
// https://en.wikipedia.org/wiki/Runge–Kutta_methods.
type butcherTableau struct {
	stages           int
	weights          [][]float64
	nodes            []float64
	rungeKuttaMatrix [][]float64
}

// Compute advances value from t = from to t = to in a single Runge-Kutta
// step and writes the result back into value. The returned vector holds the
// embedded local error estimate for adaptive tableaus and is zero otherwise.
func (rk RungeKutta) Compute(from, to float64, value *mat.VecDense, system DifferentiableSystem) mat.Vector {
	var tmp mat.VecDense

	M := value.Len()
	// The derivative evaluations of the method
	K := make([]mat.Vector, rk.Description.stages)
	// Step length
	h := to - from
	for index := range K {
		tmp.CloneFromVec(value)
		// Combine previously computed derivative points according to the
		// Butcher tableau.
		for index2, a := range rk.Description.rungeKuttaMatrix[index] {
			if a != 0 {
				tmp.AddScaledVec(&tmp, h*a, K[index2])
			}
		}
		K[index] = system.Derivative(from+h*rk.Description.nodes[index], &tmp)
	}

	// Sum up the different contributions with relevant weights.
	tmp.CloneFromVec(value)
	err := mat.NewVecDense(M, nil)
	for index, k := range K {
		tmp.AddScaledVec(&tmp, h*rk.Description.weights[0][index], k)
		// If the Butcher tableau allows for an embedded error estimate
		if len(rk.Description.weights) == 2 {
			err.AddScaledVec(err, h*(rk.Description.weights[1][index]-rk.Description.weights[0][index]), k)
		}
	}
	value.CopyVec(&tmp)
	return err
}

// AdaptiveCompute advances value from t = from to t = to while keeping the
// embedded local error estimate below tol for every accepted step. The
// integration interval is halved recursively until the estimate passes. An
// error is returned if the method fails to converge within the iteration
// budget, in which case value holds the last accepted state.
func (rk RungeKutta) AdaptiveCompute(from, to, tol float64, value *mat.VecDense, system DifferentiableSystem) error {
	if len(rk.Description.weights) != 2 {
		return errors.New("ode: tableau carries no embedded error estimate")
	}

	const maxNumberOfIterations int = 10000

	var (
		trial        mat.VecDense
		currentError float64
		count        int
	)

	tnow := from
	for tnow < to {
		tnext := to
		for {
			trial.CloneFromVec(value)
			errVec := rk.Compute(tnow, tnext, &trial, system)
			currentError = 0.
			for index := 0; index < errVec.Len(); index++ {
				currentError += math.Abs(errVec.AtVec(index))
			}
			if currentError < tol {
				break
			}
			// Halve the integration interval and try again
			tnext = (tnext-tnow)/2. + tnow

			count++
			if count >= maxNumberOfIterations {
				return errors.New("ode: maximum number of iterations reached, adaptive Runge-Kutta doesn't converge")
			}
		}
		value.CopyVec(&trial)
		tnow = tnext
	}
	return nil
}

// NewRK4 function returns the classical forth order Runge-Kutta method.
func NewRK4() *RungeKutta {
	var temp butcherTableau
	temp.stages = 4
	temp.nodes = []float64{0, 1. / 2., 1. / 2., 1}
	temp.weights = [][]float64{{1. / 6., 1. / 3., 1. / 3., 1. / 6.}}
	temp.rungeKuttaMatrix = [][]float64{
		nil,
		{1. / 2.},
		{0, 1. / 2.},
		{0, 0, 1.},
	}
	rk := RungeKutta{temp}
	return &rk
}

// NewEulerMethod returns a pointer to a Runge-Kutta that does the Euler method.
func NewEulerMethod() *RungeKutta {
	var temp butcherTableau
	temp.stages = 1
	temp.nodes = []float64{0}
	temp.weights = [][]float64{{1}}
	temp.rungeKuttaMatrix = [][]float64{nil}
	rk := RungeKutta{temp}
	return &rk
}

// NewFehlberg45 implements https://en.wikipedia.org/wiki/Runge%E2%80%93Kutta%E2%80%93Fehlberg_method
func NewFehlberg45() *RungeKutta {
	var temp butcherTableau
	temp.stages = 6
	temp.nodes = []float64{0, 1. / 4., 3. / 8., 12. / 13., 1., 1. / 2.}
	temp.weights = [][]float64{
		{16. / 135., 0, 6656. / 12825., 28561. / 56430., -9. / 50., 2. / 55.},
		{25. / 216., 0, 1408. / 2565., 2197. / 4104., -1. / 5., 0},
	}
	temp.rungeKuttaMatrix = [][]float64{
		nil,
		{1. / 4.},
		{3. / 32., 9. / 32.},
		{1932. / 2197., -7200. / 2197., 7296. / 2197.},
		{439. / 216., -8., 3680. / 513., -845. / 4104.},
		{-8. / 27., 2, -3544. / 2565., 1859. / 4104., -11. / 40.},
	}
	rk := RungeKutta{temp}
	return &rk
}
