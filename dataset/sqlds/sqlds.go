/*
Package sqlds reads and writes dataset.Table values on SQL database
backends.

Tuples live on a single database table with one column per feature:
discrete values are stored as text, numeric values as reals, plus a
reserved "weight" column with the tuple's base weight. Access to a
concrete database engine goes through the Adapter interface; the
pqadapter and sqlite3adapter subpackages provide implementations for
PostgreSQL and SQLite3.
*/
package sqlds

import (
	"fmt"

	"github.com/pbanos/sylva/dataset"
	"github.com/pbanos/sylva/feature"
)

/*
Adapter is an interface providing the methods needed to keep a
dataset on a database backend.
*/
type Adapter interface {
	ColumnName(featureName string) (string, error)

	CreateTupleTable(discreteColumns, numberColumns []string) error

	AddTuples(rows []map[string]interface{}, discreteColumns, numberColumns []string) (int, error)
	IterateOnTuples(discreteColumns, numberColumns []string, lambda func(n int, row map[string]interface{}) (bool, error)) error
	CountTuples() (int, error)
}

/*
Dataset binds an Adapter to a slice of features, mapping every
feature to a column of the backend's tuple table.
*/
type Dataset struct {
	db              Adapter
	features        []*feature.Feature
	columns         []string
	discreteColumns []string
	numberColumns   []string
}

/*
Open takes an Adapter to a db backend and a slice of features and
returns a Dataset reading and writing tuples of those features
through the adapter, or an error if two features translate to the
same column name. The tuple table is expected to exist already.
*/
func Open(db Adapter, features []*feature.Feature) (*Dataset, error) {
	ds := &Dataset{db: db, features: features}
	err := ds.initColumns()
	if err != nil {
		return nil, err
	}
	return ds, nil
}

/*
Create takes an Adapter to a db backend and a slice of features and
returns a Dataset like Open does, ensuring first that the tuple
table exists on the backend.
*/
func Create(db Adapter, features []*feature.Feature) (*Dataset, error) {
	ds, err := Open(db, features)
	if err != nil {
		return nil, err
	}
	err = db.CreateTupleTable(ds.discreteColumns, ds.numberColumns)
	if err != nil {
		return nil, fmt.Errorf("creating tuple table: %v", err)
	}
	return ds, nil
}

/*
Count returns the number of tuples stored on the backend or an
error.
*/
func (ds *Dataset) Count() (int, error) {
	return ds.db.CountTuples()
}

/*
Read loads every tuple stored on the backend and returns them as a
dataset.Table over the Dataset's features, or an error.
*/
func (ds *Dataset) Read() (*dataset.Table, error) {
	table, err := dataset.New(ds.features, nil)
	if err != nil {
		return nil, err
	}
	err = ds.db.IterateOnTuples(
		ds.discreteColumns,
		ds.numberColumns,
		func(n int, row map[string]interface{}) (bool, error) {
			tp, err := ds.parseTuple(row)
			if err != nil {
				return false, fmt.Errorf("parsing tuple %d: %v", n, err)
			}
			err = table.Add(tp)
			if err != nil {
				return false, err
			}
			return true, nil
		})
	if err != nil {
		return nil, fmt.Errorf("reading tuples: %v", err)
	}
	return table, nil
}

/*
Write takes a dataset.Table over the Dataset's features and stores
its tuples on the backend. It returns the number of tuples written
and an error if the table's features do not match or the backend
fails.
*/
func (ds *Dataset) Write(t *dataset.Table) (int, error) {
	if len(t.Features()) != len(ds.features) {
		return 0, fmt.Errorf("table has %d features, dataset has %d", len(t.Features()), len(ds.features))
	}
	rows := make([]map[string]interface{}, 0, t.Len())
	for _, tp := range t.Tuples() {
		row, err := ds.newRow(tp)
		if err != nil {
			return 0, err
		}
		rows = append(rows, row)
	}
	return ds.db.AddTuples(rows, ds.discreteColumns, ds.numberColumns)
}

func (ds *Dataset) parseTuple(row map[string]interface{}) (*dataset.Tuple, error) {
	cells := make([]dataset.Instance, 0, len(ds.features))
	for i, f := range ds.features {
		v, ok := row[ds.columns[i]]
		if !ok || v == nil {
			cells = append(cells, dataset.NullInstance())
			continue
		}
		if f.Kind() == feature.Discrete {
			vs, ok := v.(string)
			if !ok {
				return nil, fmt.Errorf("feature %s expects a text value, got %T", f.Name(), v)
			}
			value := f.Index(vs)
			if feature.IsNullValue(value) {
				return nil, fmt.Errorf("feature %s got unknown value %q", f.Name(), vs)
			}
			cells = append(cells, dataset.DiscreteInstance(value))
			continue
		}
		vn, ok := v.(float64)
		if !ok {
			return nil, fmt.Errorf("feature %s expects a numeric value, got %T", f.Name(), v)
		}
		cells = append(cells, dataset.NumberInstance(vn))
	}
	weight := 1.0
	if w, ok := row["weight"]; ok && w != nil {
		wn, ok := w.(float64)
		if !ok {
			return nil, fmt.Errorf("expected numeric weight, got %T", w)
		}
		weight = wn
	}
	return dataset.NewTuple(cells, weight), nil
}

func (ds *Dataset) newRow(tp *dataset.Tuple) (map[string]interface{}, error) {
	row := map[string]interface{}{"weight": tp.Weight()}
	for i, f := range ds.features {
		inst := tp.Instance(i)
		if inst.Null(f.Kind()) {
			continue
		}
		if f.Kind() == feature.Discrete {
			v, err := f.Value(inst.Value)
			if err != nil {
				return nil, fmt.Errorf("feature %s: %v", f.Name(), err)
			}
			row[ds.columns[i]] = v
			continue
		}
		row[ds.columns[i]] = inst.Number
	}
	return row, nil
}

func (ds *Dataset) initColumns() error {
	columnFeatures := make(map[string]*feature.Feature)
	for _, f := range ds.features {
		column, err := ds.db.ColumnName(f.Name())
		if err != nil {
			return fmt.Errorf("invalid feature %s: %v", f.Name(), err)
		}
		if of, ok := columnFeatures[column]; ok {
			return fmt.Errorf("%s and %s feature names translate to the same column name %s", f.Name(), of.Name(), column)
		}
		columnFeatures[column] = f
		ds.columns = append(ds.columns, column)
		if f.Kind() == feature.Discrete {
			ds.discreteColumns = append(ds.discreteColumns, column)
		} else {
			ds.numberColumns = append(ds.numberColumns, column)
		}
	}
	return nil
}
