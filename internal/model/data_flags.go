package model

import (
	"github.com/spf13/pflag"

	"github.com/wildstyl3r/tipem/internal/config"
)

type DataItem struct {
	saveFlag   *bool
	fileSuffix string
}

type SequentialDataItem struct {
	DataItem
	columnNames []string
	values      func(*DataExtractor) (args []float64, values [][]float64)
	xUnit       []config.UnitElement
	yUnits      [][]config.UnitElement // per column, the last one repeats
}

type DataFlags struct {
	all         *bool
	sequentials map[string]SequentialDataItem
	outputPath  string
}

var noUnit = []config.UnitElement{}
var lengthUnit = []config.UnitElement{{Class: config.Length, Power: 1}}
var timeUnit = []config.UnitElement{{Class: config.Time, Power: 1}}
var fieldUnit = []config.UnitElement{{Class: config.Field, Power: 1}}

func NewDataFlags(flags *pflag.FlagSet) DataFlags {
	return DataFlags{
		all: flags.Bool("all", false, "save every available table"),
		sequentials: map[string]SequentialDataItem{
			"Emission per patch": {
				DataItem: DataItem{
					saveFlag:   flags.BoolP("patches", "n", true, "save total emitted electrons per patch"),
					fileSuffix: "patches",
				},
				columnNames: []string{"z", "x", "y", "n_x", "n_y", "n_z", "area", "N_e"},
				values: func(de *DataExtractor) (args []float64, values [][]float64) {
					for j, p := range de.patches {
						args = append(args, p.PositionCart.Z)
						values = append(values, []float64{
							p.PositionCart.X, p.PositionCart.Y,
							p.NormalCart.X, p.NormalCart.Y, p.NormalCart.Z,
							p.Area,
							de.totals[j],
						})
					}
					return
				},
				xUnit: lengthUnit,
				yUnits: [][]config.UnitElement{
					lengthUnit, lengthUnit,
					noUnit, noUnit, noUnit,
					{{Class: config.Length, Power: 2}},
					noUnit,
				},
			},
			"Emission history": {
				DataItem: DataItem{
					saveFlag:   flags.BoolP("steps", "s", false, "save emitted electrons per time step"),
					fileSuffix: "steps",
				},
				columnNames: []string{"t", "N_e", "N_e cumulative"},
				values: func(de *DataExtractor) (args []float64, values [][]float64) {
					for i := range de.history.Times {
						args = append(args, de.history.Times[i])
						values = append(values, []float64{de.history.Emitted[i], de.history.Cumulative[i]})
					}
					return
				},
				xUnit:  timeUnit,
				yUnits: [][]config.UnitElement{noUnit},
			},
			"Apex field": {
				DataItem: DataItem{
					saveFlag:   flags.BoolP("apex", "f", false, "save normal field at the apex"),
					fileSuffix: "apex",
				},
				columnNames: []string{"t", "E_n"},
				values: func(de *DataExtractor) (args []float64, values [][]float64) {
					for i := range de.history.Times {
						args = append(args, de.history.Times[i])
						values = append(values, []float64{de.history.ApexField[i]})
					}
					return
				},
				xUnit:  timeUnit,
				yUnits: [][]config.UnitElement{fieldUnit},
			},
			"Waveform": {
				DataItem: DataItem{
					saveFlag:   flags.BoolP("waveform", "w", false, "save incident waveform"),
					fileSuffix: "waveform",
				},
				columnNames: []string{"t", "Re E", "Im E"},
				values: func(de *DataExtractor) (args []float64, values [][]float64) {
					for i := range de.waveform {
						args = append(args, de.history.Times[i])
						values = append(values, []float64{real(de.waveform[i]), imag(de.waveform[i])})
					}
					return
				},
				xUnit:  timeUnit,
				yUnits: [][]config.UnitElement{noUnit},
			},
			"Peak normal field": {
				DataItem: DataItem{
					saveFlag:   flags.BoolP("peak", "p", false, "save normal field per patch at the emission peak"),
					fileSuffix: "peak",
				},
				columnNames: []string{"z", "E_n", "N_e"},
				values: func(de *DataExtractor) (args []float64, values [][]float64) {
					for j, p := range de.patches {
						args = append(args, p.PositionCart.Z)
						values = append(values, []float64{de.peakField[j], de.peakCounts[j]})
					}
					return
				},
				xUnit:  lengthUnit,
				yUnits: [][]config.UnitElement{fieldUnit, noUnit},
			},
		},
	}
}

func (df *DataFlags) SetOutputPath(path string) {
	df.outputPath = path
}

func (df *DataFlags) GetOutputPath() string {
	return df.outputPath
}
