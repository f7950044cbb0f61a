// Package vehicle linearizes single-track ("bicycle") vehicle models around
// an operating point and exposes the resulting state space matrices. A
// single-track model collapses the left and right wheels of each axle into
// one effective front and one effective rear wheel.
package vehicle

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Parameters is the record of physical constants of a single-track vehicle.
// All values are SI unless noted. The defaults describe the mid-size test
// vehicle used throughout the reference scenarios.
type Parameters struct {
	// Vehicle mass in kg.
	Mass float64 `yaml:"mass"`
	// Yaw moment of inertia in kg m^2.
	Inertia float64 `yaml:"inertia"`
	// Distance from the center of mass to the front axle in m.
	FrontAxleDistance float64 `yaml:"front_axle_distance"`
	// Distance from the center of mass to the rear axle in m.
	RearAxleDistance float64 `yaml:"rear_axle_distance"`
	// Cornering stiffness of the effective front tire in N/rad.
	FrontCorneringStiffness float64 `yaml:"front_cornering_stiffness"`
	// Cornering stiffness of the effective rear tire in N/rad.
	RearCorneringStiffness float64 `yaml:"rear_cornering_stiffness"`
	// Steering-wheel angle to road-wheel angle ratio.
	SteeringRatio float64 `yaml:"steering_ratio"`
	// First order lag of the steering actuator in s.
	SteeringTimeConstant float64 `yaml:"steering_time_constant"`
	// Acceleration produced by a unit pedal command in m/s^2.
	AccelerationGain float64 `yaml:"acceleration_gain"`
	// Road-wheel angle produced by a unit steering command in rad.
	SteeringCommandGain float64 `yaml:"steering_command_gain"`
}

// DefaultParameters returns the reference vehicle.
func DefaultParameters() Parameters {
	return Parameters{
		Mass:                    1550,
		Inertia:                 2800,
		FrontAxleDistance:       1.344,
		RearAxleDistance:        1.456,
		FrontCorneringStiffness: 75000,
		RearCorneringStiffness:  150000,
		SteeringRatio:           16,
		SteeringTimeConstant:    0.1,
		AccelerationGain:        0.1,
		SteeringCommandGain:     0.1,
	}
}

// Validate reports the first physically meaningless parameter value.
func (p Parameters) Validate() error {
	checks := []struct {
		name  string
		value float64
	}{
		{"mass", p.Mass},
		{"inertia", p.Inertia},
		{"front_axle_distance", p.FrontAxleDistance},
		{"rear_axle_distance", p.RearAxleDistance},
		{"front_cornering_stiffness", p.FrontCorneringStiffness},
		{"rear_cornering_stiffness", p.RearCorneringStiffness},
		{"steering_ratio", p.SteeringRatio},
		{"steering_time_constant", p.SteeringTimeConstant},
	}
	for _, check := range checks {
		if check.value <= 0 {
			return fmt.Errorf("vehicle: %s must be positive, got %g", check.name, check.value)
		}
	}
	return nil
}

// LoadParameters reads a YAML parameter table from path. Missing keys keep
// their default values.
func LoadParameters(path string) (Parameters, error) {
	params := DefaultParameters()
	data, err := os.ReadFile(path)
	if err != nil {
		return params, err
	}
	if err := yaml.Unmarshal(data, &params); err != nil {
		return params, err
	}
	if err := params.Validate(); err != nil {
		return params, err
	}
	return params, nil
}
