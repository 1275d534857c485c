package service

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/finsight-ai/finsight-be/types"
)

// headRows is how many data rows the overview includes.
const headRows = 5

// CSVService produces a describe()-style overview of an uploaded CSV file:
// head rows, column names, and summary statistics for every numeric column.
// CSV content is not indexed for retrieval.
type CSVService struct{}

func NewCSVService() *CSVService {
	return &CSVService{}
}

func (s *CSVService) Analyze(r io.Reader) (*types.CSVSummary, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("error reading CSV file: %w", err)
	}
	if len(records) == 0 {
		return nil, types.ErrEmptyInput
	}

	header := records[0]
	rows := records[1:]

	summary := &types.CSVSummary{
		Columns:  header,
		RowCount: len(rows),
	}
	for i := 0; i < len(rows) && i < headRows; i++ {
		summary.Head = append(summary.Head, rows[i])
	}

	for col, name := range header {
		values := numericColumn(rows, col)
		if len(values) == 0 {
			continue
		}
		summary.Statistics = append(summary.Statistics, describe(name, values))
	}

	return summary, nil
}

// numericColumn collects the parseable values of one column. A column with
// no parseable value at all is treated as non-numeric and skipped.
func numericColumn(rows [][]string, col int) []float64 {
	var values []float64
	for _, row := range rows {
		if col >= len(row) {
			continue
		}
		v, err := strconv.ParseFloat(row[col], 64)
		if err != nil {
			continue
		}
		values = append(values, v)
	}
	return values
}

func describe(name string, values []float64) types.ColumnStatistic {
	stat := types.ColumnStatistic{
		Column: name,
		Count:  len(values),
		Min:    values[0],
		Max:    values[0],
	}

	var sum float64
	for _, v := range values {
		sum += v
		if v < stat.Min {
			stat.Min = v
		}
		if v > stat.Max {
			stat.Max = v
		}
	}
	stat.Mean = sum / float64(len(values))

	if len(values) > 1 {
		var sq float64
		for _, v := range values {
			d := v - stat.Mean
			sq += d * d
		}
		// Sample standard deviation, matching pandas describe().
		stat.Std = math.Sqrt(sq / float64(len(values)-1))
	}

	return stat
}
