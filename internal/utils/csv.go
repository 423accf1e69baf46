package utils

import (
	"encoding/csv"
	"io"
	"sort"

	"github.com/facette/natsort"
)

type CSV [][]string

func (data CSV) Less(i, j int) bool {
	return natsort.Compare(data[i][0], data[j][0])
}

func (data CSV) Len() int {
	return len(data)
}
func (data CSV) Swap(i, j int) {
	data[i], data[j] = data[j], data[i]
}

func WriteCSV(w io.Writer, columns []string, data CSV) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(columns); err != nil {
		return err
	}
	if err := writer.WriteAll(data); err != nil {
		return err
	}
	return writer.Error()
}

// WriteSortedCSV is WriteCSV with rows in natural order of their first column.
func WriteSortedCSV(w io.Writer, columns []string, data CSV) error {
	sort.Sort(data)
	return WriteCSV(w, columns, data)
}
