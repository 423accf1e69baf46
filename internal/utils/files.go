package utils

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

func ReadFloatPairs(filename string) ([][]float64, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("error opening file: %w", err)
	}
	defer file.Close()

	return ReadFloatRows(file, 2, 2)
}

// ReadFloatRows parses whitespace separated numeric rows holding between minCols and maxCols values.
// Empty lines and lines starting with '#' are skipped.
func ReadFloatRows(r io.Reader, minCols, maxCols int) ([][]float64, error) {
	var result [][]float64

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if len(line) == 0 || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.Fields(strings.ReplaceAll(line, ",", " "))

		if len(parts) < minCols || len(parts) > maxCols {
			return nil, fmt.Errorf("invalid format in line: %q - expected %d to %d numbers, got %d", line, minCols, maxCols, len(parts))
		}

		row := make([]float64, len(parts))
		for i := range parts {
			var err error
			row[i], err = strconv.ParseFloat(parts[i], 64)
			if err != nil {
				return nil, fmt.Errorf("error parsing float in line %q: %w", line, err)
			}
		}
		result = append(result, row)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading file: %w", err)
	}

	return result, nil
}

func OpenFile(makeDir bool, outputPath string, fileSuffix, modelName string) (*os.File, error) {
	if makeDir && fileSuffix != "" && fileSuffix != "." {
		if err := os.MkdirAll(filepath.Join(outputPath, fileSuffix), 0750); err != nil {
			return nil, err
		}
		return os.Create(filepath.Join(outputPath, fileSuffix, modelName+".txt"))
	}
	return os.Create(filepath.Join(outputPath, modelName+"_"+fileSuffix+".txt"))
}
