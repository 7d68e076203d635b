/*
Package csv provides methods to read dataset.Table values from CSV
streams and write tuples back onto them.

The header or first row of the CSV content is expected to consist of
the names of the features of the table. The rest of the rows should
consist of valid values for all the features and/or the '?' string to
indicate an unknown value.
*/
package csv

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/pbanos/sylva/dataset"
	"github.com/pbanos/sylva/feature"
)

/*
ReadTable takes an io.Reader for a CSV stream and a slice of features
and returns a dataset.Table with the tuples parsed from the reader or
an error.
*/
func ReadTable(reader io.Reader, features []*feature.Feature) (*dataset.Table, error) {
	r := csv.NewReader(reader)
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header: %v", err)
	}
	columns, err := parseFeaturesFromCSVHeader(header, features)
	if err != nil {
		return nil, err
	}
	table, err := dataset.New(columns, nil)
	if err != nil {
		return nil, err
	}
	for l := 2; ; l++ {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading body: %v", err)
		}
		tuple, err := parseTupleFromCSVRow(row, columns)
		if err != nil {
			return nil, fmt.Errorf("parsing line %d: %v", l, err)
		}
		err = table.Add(tuple)
		if err != nil {
			return nil, fmt.Errorf("parsing line %d: %v", l, err)
		}
	}
	return table, nil
}

/*
ReadTableFromFilePath takes a filepath string and a slice of features,
opens the file to which the filepath points and uses ReadTable to
return a dataset.Table read from it or an error.
*/
func ReadTableFromFilePath(filepath string, features []*feature.Feature) (*dataset.Table, error) {
	f, err := os.Open(filepath)
	if err != nil {
		return nil, fmt.Errorf("opening CSV file %s: %v", filepath, err)
	}
	defer f.Close()
	table, err := ReadTable(f, features)
	if err != nil {
		return nil, fmt.Errorf("reading CSV file %s: %v", filepath, err)
	}
	return table, nil
}

/*
WriteTable takes an io.Writer and a dataset.Table and writes the
table onto the writer as CSV, with a header row with the feature
names and one row per tuple. Unknown values are written as '?'.
An error is returned if the table cannot be written.
*/
func WriteTable(writer io.Writer, t *dataset.Table) error {
	w := csv.NewWriter(writer)
	features := t.Features()
	header := make([]string, 0, len(features))
	for _, f := range features {
		header = append(header, f.Name())
	}
	err := w.Write(header)
	if err != nil {
		return fmt.Errorf("writing header: %v", err)
	}
	row := make([]string, len(features))
	for _, tp := range t.Tuples() {
		for i, f := range features {
			row[i], err = formatInstance(tp.Instance(i), f)
			if err != nil {
				return err
			}
		}
		err = w.Write(row)
		if err != nil {
			return fmt.Errorf("writing tuple: %v", err)
		}
	}
	w.Flush()
	return w.Error()
}

func parseFeaturesFromCSVHeader(header []string, features []*feature.Feature) ([]*feature.Feature, error) {
	columns := make([]*feature.Feature, 0, len(header))
	for _, name := range header {
		i := feature.Find(features, name)
		if i < 0 {
			return nil, fmt.Errorf("CSV column %q is not a defined feature", name)
		}
		columns = append(columns, features[i])
	}
	return columns, nil
}

func parseTupleFromCSVRow(row []string, columns []*feature.Feature) (*dataset.Tuple, error) {
	if len(row) != len(columns) {
		return nil, fmt.Errorf("row has %d values, expected %d", len(row), len(columns))
	}
	cells := make([]dataset.Instance, 0, len(columns))
	for i, v := range row {
		f := columns[i]
		if v == "?" || v == "" {
			cells = append(cells, dataset.NullInstance())
			continue
		}
		switch f.Kind() {
		case feature.Discrete:
			value := f.Index(v)
			if feature.IsNullValue(value) {
				return nil, fmt.Errorf("feature %s got unknown value %q", f.Name(), v)
			}
			cells = append(cells, dataset.DiscreteInstance(value))
		case feature.Integer:
			n, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("feature %s expects an integer value: %v", f.Name(), err)
			}
			cells = append(cells, dataset.NumberInstance(float64(n)))
		case feature.Continuous:
			n, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return nil, fmt.Errorf("feature %s expects a numeric value: %v", f.Name(), err)
			}
			cells = append(cells, dataset.NumberInstance(n))
		}
	}
	return dataset.NewTuple(cells, 1.0), nil
}

func formatInstance(inst dataset.Instance, f *feature.Feature) (string, error) {
	if inst.Null(f.Kind()) {
		return "?", nil
	}
	switch f.Kind() {
	case feature.Discrete:
		return f.Value(inst.Value)
	case feature.Integer:
		return strconv.FormatInt(int64(inst.Number), 10), nil
	}
	return strconv.FormatFloat(inst.Number, 'g', -1, 64), nil
}
