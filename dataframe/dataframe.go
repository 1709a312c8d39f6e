// Package dataframe loads SQL query results into R data frames.
package dataframe

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/oruby/rbridge"
)

// column collects scanned values of one result column
type column struct {
	name   string
	dbType string
	vals   []interface{}
	nulls  int
}

// FromRows reads all rows and builds R data.frame with one column per
// result column. SQL NULL becomes NA. Column names go through
// ConvertSymbol, so row__id names column row.id. Duplicate names are kept.
// rows are not closed.
func FromRows(st *rbridge.State, rows *sql.Rows) (*rbridge.Object, error) {
	names, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	cols := make([]*column, len(names))
	types, err := rows.ColumnTypes()
	for i, name := range names {
		cols[i] = &column{name: name}
		if err == nil {
			cols[i].dbType = strings.ToUpper(types[i].DatabaseTypeName())
		}
	}

	dst := make([]interface{}, len(cols))
	for i := 0; i < len(dst); i++ {
		var x interface{}
		dst[i] = &x
	}

	for rows.Next() {
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		for i, c := range cols {
			field := *(dst[i]).(*interface{})
			if field == nil {
				c.nulls++
			}
			c.vals = append(c.vals, normalize(field))
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	args := make([]interface{}, 0, len(cols)+1)
	colNames := make([]string, len(cols))
	for i, c := range cols {
		v, err := c.vector(st)
		if err != nil {
			return nil, err
		}
		args = append(args, v)
		colNames[i] = rbridge.ConvertSymbol(c.name)
	}
	args = append(args, rbridge.Kw("stringsAsFactors", false, "check__names", false))

	// columns go positionally and are named afterwards, so duplicate
	// names and names of data.frame arguments stay columns
	df, err := st.R("data__frame", args...)
	if err != nil {
		return nil, err
	}
	if err := df.Fassign("names", colNames); err != nil {
		return nil, err
	}
	return df, nil
}

// Query runs query on db and returns result as R data.frame
func Query(ctx context.Context, st *rbridge.State, db *sql.DB, query string, args ...interface{}) (*rbridge.Object, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return FromRows(st, rows)
}

// Load runs query and assigns result to R global variable name
func Load(ctx context.Context, st *rbridge.State, db *sql.DB, name, query string, args ...interface{}) (*rbridge.Object, error) {
	df, err := Query(ctx, st, db, query, args...)
	if err != nil {
		return nil, err
	}

	env, err := st.R("globalenv", nil)
	if err != nil {
		return nil, err
	}

	if _, err := st.R("assign", name, df, rbridge.Kw("envir", env)); err != nil {
		return nil, err
	}
	return df, nil
}

// normalize converts driver values to types R backends accept
func normalize(v interface{}) interface{} {
	switch x := v.(type) {
	case []byte:
		return string(x)
	case time.Time:
		return x.Format(time.RFC3339)
	case int64:
		return int(x)
	}
	return v
}

// vector builds R vector of column values. Columns without NULL are sent
// as typed Go slices, columns with NULL are built with c() and NA.
func (c *column) vector(st *rbridge.State) (interface{}, error) {
	if len(c.vals) == 0 {
		return c.empty(), nil
	}

	if c.nulls == 0 {
		if v, ok := typedSlice(c.vals); ok {
			return v, nil
		}
	}

	na, err := st.Eval("NA")
	if err != nil {
		return nil, err
	}

	args := make([]interface{}, len(c.vals))
	for i, v := range c.vals {
		if v == nil {
			args[i] = na
		} else {
			args[i] = v
		}
	}
	return st.R("c", args...)
}

func (c *column) empty() interface{} {
	switch {
	case strings.Contains(c.dbType, "INT"):
		return []int{}
	case strings.Contains(c.dbType, "REAL"), strings.Contains(c.dbType, "FLOA"),
		strings.Contains(c.dbType, "DOUB"), strings.Contains(c.dbType, "NUMERIC"):
		return []float64{}
	case strings.Contains(c.dbType, "BOOL"):
		return []bool{}
	}
	return []string{}
}

// typedSlice converts values of one kind into Go slice; mixed integers
// and floats become []float64
func typedSlice(vals []interface{}) (interface{}, bool) {
	var (
		ints   []int
		floats []float64
		strs   []string
		bools  []bool
	)

	for _, v := range vals {
		switch x := v.(type) {
		case int:
			ints = append(ints, x)
			floats = append(floats, float64(x))
		case float64:
			floats = append(floats, x)
		case string:
			strs = append(strs, x)
		case bool:
			bools = append(bools, x)
		default:
			return nil, false
		}
	}

	switch len(vals) {
	case len(ints):
		return ints, true
	case len(floats):
		return floats, true
	case len(strs):
		return strs, true
	case len(bools):
		return bools, true
	}
	return nil, false
}
