package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/wildstyl3r/tipem/internal/config"
	"github.com/wildstyl3r/tipem/internal/model"
	"github.com/wildstyl3r/tipem/internal/utils"
)

// readPoints parses "x y z [q]" rows, positions in the input length unit and charges in C.
func readPoints(path string, units []string) (positions []r3.Vec, charges []float64, err error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()

	rows, err := utils.ReadFloatRows(file, 3, 4)
	if err != nil {
		return nil, nil, err
	}
	length := []config.UnitElement{{Class: config.Length, Power: 1}}
	withCharges := len(rows) > 0 && len(rows[0]) == 4
	for _, row := range rows {
		if (len(row) == 4) != withCharges {
			return nil, nil, errors.New("either every point or none carries a charge")
		}
		positions = append(positions, r3.Vec{
			X: config.SI(row[0], length, units, true),
			Y: config.SI(row[1], length, units, true),
			Z: config.SI(row[2], length, units, true),
		})
		if withCharges {
			charges = append(charges, row[3])
		}
	}
	return positions, charges, nil
}

func newForceCmd() *cobra.Command {
	var configFileName, modelName, pointsPath string
	var timeIndex int
	var at float64

	cmd := &cobra.Command{
		Use:   "force",
		Short: "Print the force of the tip field on point charges",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, meta, err := config.LoadConfig(configFileName)
			if err != nil {
				return err
			}
			parameters, some := cfg.Models[modelName]
			if !some {
				return fmt.Errorf("model %q not found", modelName)
			}
			if err := parameters.CheckAndUnify(modelName, &cfg, &meta); err != nil {
				return err
			}
			te, err := model.NewFromParameters(parameters)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("time") {
				timeIndex = te.TimeIndexOf(config.SI(at, []config.UnitElement{{Class: config.Time, Power: 1}}, cfg.InputUnits, true))
			}

			if n := len(te.TimeSamples()); timeIndex < 0 || timeIndex >= n {
				return fmt.Errorf("%w: %d not in [0, %d)", model.ErrTimeIndexOutOfRange, timeIndex, n)
			}

			positions, charges, err := readPoints(pointsPath, cfg.InputUnits)
			if err != nil {
				return err
			}
			var forces []r3.Vec
			if charges == nil {
				forces, err = te.ElectronForce(positions, timeIndex)
			} else {
				forces, err = te.ElectricForce(charges, positions, timeIndex)
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "# t = %g s (index %d)\n# x y z [m]  F_x F_y F_z [N]\n", te.TimeSamples()[timeIndex], timeIndex)
			for i := range forces {
				fmt.Fprintf(out, "%g %g %g  %g %g %g\n",
					positions[i].X, positions[i].Y, positions[i].Z,
					forces[i].X, forces[i].Y, forces[i].Z)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&configFileName, "input", "c", defaultConfigName(), "model configuration in toml format")
	cmd.Flags().StringVarP(&modelName, "model", "m", "", "model name in the configuration")
	cmd.Flags().StringVar(&pointsPath, "points", "", "file with 'x y z [q]' rows")
	cmd.Flags().IntVar(&timeIndex, "index", 0, "time sample index")
	cmd.Flags().Float64Var(&at, "time", 0, "time in input units, nearest sample is used")
	_ = cmd.MarkFlagRequired("model")
	_ = cmd.MarkFlagRequired("points")
	return cmd
}
