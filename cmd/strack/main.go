package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/mat"

	"github.com/lhk/trailer-env/simulate"
	"github.com/lhk/trailer-env/ssm"
	"github.com/lhk/trailer-env/vehicle"
)

var (
	paramsFile string
	modelName  string
	speed      float64
	ts         float64
	stateArg   string
	inputArg   string
	steps      int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "strack",
		Short: "linearized single-track vehicle dynamics",
	}
	rootCmd.PersistentFlags().StringVar(&paramsFile, "params", "", "vehicle parameter file (yaml)")
	rootCmd.PersistentFlags().StringVar(&modelName, "model", "singletrack", "model: singletrack or kinematic")
	rootCmd.PersistentFlags().Float64Var(&speed, "speed", 10.0, "operating point speed in m/s")
	rootCmd.PersistentFlags().Float64Var(&ts, "ts", 0.5, "sampling period in s")

	discretizeCmd := &cobra.Command{
		Use:   "discretize",
		Short: "print the continuous and exact discrete system matrices",
		RunE:  runDiscretize,
	}

	stepCmd := &cobra.Command{
		Use:   "step",
		Short: "advance a state one or more sampling periods",
		RunE:  runStep,
	}
	stepCmd.Flags().StringVar(&stateArg, "state", "", "initial state, comma separated")
	stepCmd.Flags().StringVar(&inputArg, "input", "", "held input, comma separated")
	stepCmd.Flags().IntVar(&steps, "steps", 1, "number of sampling periods")

	rootCmd.AddCommand(discretizeCmd, stepCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func buildModel() (*ssm.LinearStateSpaceModel, error) {
	params := vehicle.DefaultParameters()
	if paramsFile != "" {
		var err error
		params, err = vehicle.LoadParameters(paramsFile)
		if err != nil {
			return nil, err
		}
	}
	switch modelName {
	case "singletrack":
		return vehicle.SingleTrack(params, speed)
	case "kinematic":
		return vehicle.Kinematic(params, speed)
	default:
		return nil, fmt.Errorf("unknown model %q", modelName)
	}
}

func runDiscretize(cmd *cobra.Command, args []string) error {
	model, err := buildModel()
	if err != nil {
		return err
	}
	sys, err := simulate.Discretize(model.A, model.B, ts)
	if err != nil {
		return err
	}
	fmt.Printf("A =\n%v\n\n", mat.Formatted(model.A))
	fmt.Printf("B =\n%v\n\n", mat.Formatted(model.B))
	fmt.Printf("Ad =\n%v\n\n", mat.Formatted(sys.Ad))
	fmt.Printf("Bd =\n%v\n", mat.Formatted(sys.Bd))
	return nil
}

func runStep(cmd *cobra.Command, args []string) error {
	model, err := buildModel()
	if err != nil {
		return err
	}
	sys, err := simulate.Discretize(model.A, model.B, ts)
	if err != nil {
		return err
	}

	state, err := parseVector(stateArg, model.StateSpaceOrder())
	if err != nil {
		return fmt.Errorf("state: %w", err)
	}
	input, err := parseVector(inputArg, model.InputSpaceOrder())
	if err != nil {
		return fmt.Errorf("input: %w", err)
	}

	for k := 0; k < steps; k++ {
		state, err = sys.Step(state, input)
		if err != nil {
			return err
		}
		fmt.Printf("x[%d] = %v\n", k+1, mat.Formatted(state.T()))
	}
	return nil
}

// parseVector turns a comma separated list into a vector of length n. An
// empty argument yields the zero vector.
func parseVector(arg string, n int) (*mat.VecDense, error) {
	if n == 0 {
		return nil, nil
	}
	if arg == "" {
		return mat.NewVecDense(n, nil), nil
	}
	fields := strings.Split(arg, ",")
	if len(fields) != n {
		return nil, fmt.Errorf("expected %d values, got %d", n, len(fields))
	}
	data := make([]float64, n)
	for i, field := range fields {
		value, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
		if err != nil {
			return nil, err
		}
		data[i] = value
	}
	return mat.NewVecDense(n, data), nil
}
