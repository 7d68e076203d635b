/*
Package pqadapter provides an sqlds.Adapter backed by a PostgreSQL
database.
*/
package pqadapter

import (
	"bytes"
	"database/sql"
	"fmt"
	"strings"

	// Import of pq driver
	_ "github.com/lib/pq"
	"github.com/pbanos/sylva/dataset/sqlds"
)

/*
MaxTupleInsertionsPerStatement is the maximum number of tuples added
with a single insert command by the AddTuples method of the adapter.
Adding more results in making more insert commands.
*/
const MaxTupleInsertionsPerStatement = 100

type adapter struct {
	db *sql.DB
}

/*
New takes a PostgreSQL connection URL and a limit for open database
connections (0 for no limit) and returns an Adapter that works on
that database or an error if the connection cannot be set up.
*/
func New(url string, maxConns int) (sqlds.Adapter, error) {
	db, err := sql.Open("postgres", url)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(maxConns)
	return &adapter{db}, nil
}

func (a *adapter) ColumnName(featureName string) (string, error) {
	if featureName == "id" || featureName == "weight" {
		return "", fmt.Errorf("'%s' is reserved and cannot be used as feature name", featureName)
	}
	if strings.ContainsAny(featureName, `"`) {
		return "", fmt.Errorf(`feature name '%s' contains invalid character '"'`, featureName)
	}
	return strings.ToLower(featureName), nil
}

func (a *adapter) CreateTupleTable(discreteColumns, numberColumns []string) error {
	var buf bytes.Buffer
	buf.WriteString("CREATE TABLE IF NOT EXISTS tuples(")
	for _, c := range discreteColumns {
		fmt.Fprintf(&buf, `"%s" TEXT NULL, `, c)
	}
	for _, c := range numberColumns {
		fmt.Fprintf(&buf, `"%s" DOUBLE PRECISION NULL, `, c)
	}
	buf.WriteString(`"weight" DOUBLE PRECISION NOT NULL DEFAULT 1, "id" SERIAL PRIMARY KEY)`)
	_, err := a.db.Exec(buf.String())
	if err != nil {
		return fmt.Errorf("ensuring tuples table exists: %v", err)
	}
	return nil
}

func (a *adapter) AddTuples(rows []map[string]interface{}, discreteColumns, numberColumns []string) (int, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	columns := tupleColumns(discreteColumns, numberColumns)
	inserted := 0
	for inserted < len(rows) {
		chunk := rows[inserted:]
		if len(chunk) > MaxTupleInsertionsPerStatement {
			chunk = chunk[:MaxTupleInsertionsPerStatement]
		}
		stmt, args := insertStatement(columns, chunk)
		_, err := a.db.Exec(stmt, args...)
		if err != nil {
			return inserted, fmt.Errorf("inserting %d tuples after the %dth: %v", len(chunk), inserted, err)
		}
		inserted += len(chunk)
	}
	return inserted, nil
}

func (a *adapter) IterateOnTuples(discreteColumns, numberColumns []string, lambda func(int, map[string]interface{}) (bool, error)) error {
	rows, err := a.db.Query(selectStatement(discreteColumns, numberColumns))
	if err != nil {
		return fmt.Errorf("querying tuples: %v", err)
	}
	defer rows.Close()
	n := 0
	for rows.Next() {
		dvals := make([]sql.NullString, len(discreteColumns))
		nvals := make([]sql.NullFloat64, len(numberColumns)+1)
		dest := make([]interface{}, 0, len(dvals)+len(nvals))
		for i := range dvals {
			dest = append(dest, &dvals[i])
		}
		for i := range nvals {
			dest = append(dest, &nvals[i])
		}
		err = rows.Scan(dest...)
		if err != nil {
			return fmt.Errorf("scanning tuple %d: %v", n, err)
		}
		cont, err := lambda(n, tupleRow(discreteColumns, numberColumns, dvals, nvals))
		if err != nil {
			return err
		}
		if !cont {
			return nil
		}
		n++
	}
	return rows.Err()
}

func (a *adapter) CountTuples() (int, error) {
	var count int
	err := a.db.QueryRow("SELECT COUNT(*) FROM tuples").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting tuples: %v", err)
	}
	return count, nil
}

func tupleColumns(discreteColumns, numberColumns []string) []string {
	columns := make([]string, 0, len(discreteColumns)+len(numberColumns)+1)
	columns = append(columns, discreteColumns...)
	columns = append(columns, numberColumns...)
	return append(columns, "weight")
}

func tupleRow(discreteColumns, numberColumns []string, dvals []sql.NullString, nvals []sql.NullFloat64) map[string]interface{} {
	row := make(map[string]interface{})
	for i, c := range discreteColumns {
		if dvals[i].Valid {
			row[c] = dvals[i].String
		}
	}
	for i, c := range numberColumns {
		if nvals[i].Valid {
			row[c] = nvals[i].Float64
		}
	}
	row["weight"] = nvals[len(numberColumns)].Float64
	return row
}

func selectStatement(discreteColumns, numberColumns []string) string {
	var buf bytes.Buffer
	buf.WriteString("SELECT ")
	for i, c := range tupleColumns(discreteColumns, numberColumns) {
		if i > 0 {
			buf.WriteString(", ")
		}
		fmt.Fprintf(&buf, `"%s"`, c)
	}
	buf.WriteString(" FROM tuples")
	return buf.String()
}

func insertStatement(columns []string, rows []map[string]interface{}) (string, []interface{}) {
	var buf bytes.Buffer
	buf.WriteString("INSERT INTO tuples (")
	for i, c := range columns {
		if i > 0 {
			buf.WriteString(", ")
		}
		fmt.Fprintf(&buf, `"%s"`, c)
	}
	buf.WriteString(") VALUES ")
	args := make([]interface{}, 0, len(columns)*len(rows))
	for i, row := range rows {
		if i > 0 {
			buf.WriteString(", ")
		}
		buf.WriteString("(")
		for j, c := range columns {
			if j > 0 {
				buf.WriteString(", ")
			}
			fmt.Fprintf(&buf, "$%d", len(args)+1)
			args = append(args, row[c])
		}
		buf.WriteString(")")
	}
	return buf.String(), args
}
