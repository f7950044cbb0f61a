package vehicle

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/lhk/trailer-env/ssm"
)

// SingleTrack returns the dynamic single-track model linearized around
// straight driving at the constant speed v. The state is
//
//	x = [sideslip angle, yaw rate]
//
// and the single input is the steering-wheel angle, scaled down to the road
// wheels by the steering ratio. The sideslip axis is oriented so that a
// positive steering-wheel angle initially pushes the sideslip angle
// negative; of the two derivations of the center-of-mass acceleration
// relation floating around this is the one consistent with the reference
// measurements (see DESIGN.md).
//
// The linearization divides by v, so v must be nonzero; the model is not
// valid at standstill.
func SingleTrack(p Parameters, v float64) (*ssm.LinearStateSpaceModel, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if v == 0 {
		return nil, fmt.Errorf("vehicle: single-track linearization is undefined at standstill")
	}

	cv := p.FrontCorneringStiffness
	ch := p.RearCorneringStiffness
	lv := p.FrontAxleDistance
	lh := p.RearAxleDistance
	m := p.Mass
	J := p.Inertia

	A := mat.NewDense(2, 2, []float64{
		-(cv + ch) / (m * v), 1 + (cv*lv-ch*lh)/(m*v*v),
		(cv*lv - ch*lh) / J, -(cv*lv*lv + ch*lh*lh) / (J * v),
	})
	B := mat.NewDense(2, 1, []float64{
		-cv / (m * v * p.SteeringRatio),
		cv * lv / (J * p.SteeringRatio),
	})
	return ssm.NewLinearStateSpaceModel(A, B)
}

// Kinematic returns the kinematic single-track model with a first order
// steering actuator, linearized around straight driving at the constant
// speed v. The state is
//
//	x = [lateral offset, traveled distance, heading, speed, road-wheel angle]
//
// and the inputs are a normalized pedal command and a normalized steering
// command. Pedal and steering commands map to physical units through the
// acceleration and steering command gains; the road-wheel angle follows the
// commanded angle with the steering time constant.
func Kinematic(p Parameters, v float64) (*ssm.LinearStateSpaceModel, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	tau := p.SteeringTimeConstant
	A := mat.NewDense(5, 5, []float64{
		0, 0, v, 0, 0,
		0, 0, 0, 1, 0,
		0, 0, 0, 0, v,
		0, 0, 0, 0, 0,
		0, 0, 0, 0, -1 / tau,
	})
	B := mat.NewDense(5, 2, []float64{
		0, 0,
		0, 0,
		0, 0,
		p.AccelerationGain, 0,
		0, p.SteeringCommandGain / tau,
	})
	return ssm.NewLinearStateSpaceModel(A, B)
}
