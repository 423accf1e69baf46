package model

import (
	"fmt"
	"io"
	"path/filepath"
	"strconv"

	"github.com/dustin/go-humanize"
	log "github.com/sirupsen/logrus"

	"github.com/wildstyl3r/tipem/internal/config"
	"github.com/wildstyl3r/tipem/internal/utils"
)

type waveformSource interface {
	Waveform() []complex128
}

// DataExtractor collects the tables of one finished run.
type DataExtractor struct {
	parameters config.ModelParameters

	patches    []Patch
	totals     []float64
	history    History
	waveform   []complex128
	peakField  []float64
	peakCounts []float64
}

// NewDataExtractor runs the full emission sweep of te.
func NewDataExtractor(te *TipEmission, parameters config.ModelParameters) (*DataExtractor, error) {
	totals, err := te.TotalNumberOfEmittedParticles()
	if err != nil {
		return nil, err
	}
	history, err := te.EmissionHistory()
	if err != nil {
		return nil, err
	}
	peakCounts, err := te.NumberOfEmittedParticles(history.PeakStep)
	if err != nil {
		return nil, err
	}
	de := DataExtractor{
		parameters: parameters,
		patches:    te.Patches(),
		totals:     totals,
		history:    history,
		peakField:  te.NormalEFields(),
		peakCounts: peakCounts,
	}
	if source, some := te.FieldModel().(waveformSource); some {
		de.waveform = source.Waveform()
	}

	if parameters.Verbose() {
		log.WithFields(log.Fields{
			"patches":   len(de.patches),
			"electrons": humanize.SIWithDigits(de.TotalElectrons(), 3, ""),
			"peak_t":    humanize.SIWithDigits(history.Times[history.PeakStep], 3, "s"),
		}).Info("emission computed")
	}
	return &de, nil
}

func (de *DataExtractor) Totals() []float64 {
	return de.totals
}

func (de *DataExtractor) History() History {
	return de.history
}

func (de *DataExtractor) Patches() []Patch {
	return de.patches
}

func (de *DataExtractor) TotalElectrons() float64 {
	return utils.SumSlice(de.totals)
}

func unitsOfColumn(units [][]config.UnitElement, i int) []config.UnitElement {
	if len(units) == 0 {
		return nil
	}
	return units[min(i, len(units)-1)]
}

func (de *DataExtractor) Save(modelName string, df DataFlags) error {
	outputUnits := de.parameters.OutputUnits()
	for name, output := range df.sequentials {
		if !*output.saveFlag && !*df.all {
			continue
		}
		file, err := utils.OpenFile(de.parameters.MakeDir, df.outputPath, output.fileSuffix, modelName)
		if err != nil {
			return fmt.Errorf("unable to save %s: %w", name, err)
		}
		xColumnValue, yColumnValues := output.values(de)
		rows := make(utils.CSV, 0, len(xColumnValue))
		for x := range xColumnValue {
			row := []string{strconv.FormatFloat(config.SI(xColumnValue[x], output.xUnit, outputUnits, false), 'g', -1, 64)}
			for i := range yColumnValues[x] {
				row = append(row, strconv.FormatFloat(config.SI(yColumnValues[x][i], unitsOfColumn(output.yUnits, i), outputUnits, false), 'g', -1, 64))
			}
			rows = append(rows, row)
		}
		err = utils.WriteCSV(file, output.columnNames, rows)
		if closeErr := file.Close(); err == nil {
			err = closeErr
		}
		if err != nil {
			return fmt.Errorf("error writing csv for %s: %w", name, err)
		}
		log.WithField("model", modelName).Debug(name + " saved")
	}
	return nil
}

var summaryColumns = []string{"model", "identifier", "patches", "N_e", "t_peak"}

// WriteSummary writes one row per run, models in natural order of their names.
func WriteSummary(w io.Writer, names []string, extractors []*DataExtractor) error {
	if len(names) != len(extractors) {
		return fmt.Errorf("%w: %d names, %d runs", ErrLengthMismatch, len(names), len(extractors))
	}
	rows := make(utils.CSV, 0, len(names))
	for i, de := range extractors {
		peakTime := 0.
		if len(de.history.Times) > 0 {
			peakTime = config.SI(de.history.Times[de.history.PeakStep], timeUnit, de.parameters.OutputUnits(), false)
		}
		rows = append(rows, []string{
			names[i],
			filepath.Base(de.parameters.Identifier),
			strconv.Itoa(len(de.patches)),
			strconv.FormatFloat(de.TotalElectrons(), 'g', -1, 64),
			strconv.FormatFloat(peakTime, 'g', -1, 64),
		})
	}
	return utils.WriteSortedCSV(w, summaryColumns, rows)
}
