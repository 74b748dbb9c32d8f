package sqlexec

import (
	"database/sql"
	"time"

	"github.com/typedsql/typedsql/database/sqlbuilder"
	"github.com/typedsql/typedsql/errors"
)

// Text forms accepted for DateTime columns by drivers that hand back strings
// (sqlite, mysql without parseTime).
var dateTimeLayouts = []string{
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05.999999999-07:00",
	time.RFC3339Nano,
	"2006-01-02",
}

// A scan destination for one result column.
type columnScanner interface {
	sql.Scanner

	// Returns the decoded value, or false when the column was NULL.
	get() (interface{}, bool)
}

type nullValue[T any] struct {
	sql.Null[T]
}

func (n *nullValue[T]) get() (interface{}, bool) {
	return n.V, n.Valid
}

type nullTime struct {
	t     time.Time
	valid bool
}

func (n *nullTime) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		n.valid = false
		return nil
	case time.Time:
		n.t, n.valid = v, true
		return nil
	case []byte:
		return n.parse(string(v))
	case string:
		return n.parse(v)
	}
	return errors.Newf("Cannot decode %T as DateTime", src)
}

func (n *nullTime) parse(s string) error {
	for _, layout := range dateTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			n.t, n.valid = t, true
			return nil
		}
	}
	return errors.Newf("Cannot decode %q as DateTime", s)
}

func (n *nullTime) get() (interface{}, bool) {
	return n.t, n.valid
}

// Drivers disagree on the go type of untyped values; text comes back as a
// string either way.
type nullAny struct {
	nullValue[interface{}]
}

func (n *nullAny) get() (interface{}, bool) {
	if b, ok := n.V.([]byte); ok {
		return string(b), n.Valid
	}
	return n.V, n.Valid
}

func newColumnScanner(t sqlbuilder.SqlType) columnScanner {
	switch t.Kind() {
	case sqlbuilder.IntegerKind, sqlbuilder.BigIntKind:
		return &nullValue[int64]{}
	case sqlbuilder.TextKind, sqlbuilder.DecimalKind:
		return &nullValue[string]{}
	case sqlbuilder.BoolKind:
		return &nullValue[bool]{}
	case sqlbuilder.DoubleKind:
		return &nullValue[float64]{}
	case sqlbuilder.BytesKind:
		return &nullValue[[]byte]{}
	case sqlbuilder.DateTimeKind:
		return &nullTime{}
	}
	return &nullAny{}
}

func appendLeaves(leaves []sqlbuilder.SqlType, t sqlbuilder.SqlType) []sqlbuilder.SqlType {
	if t.Kind() != sqlbuilder.CompositeKind {
		return append(leaves, t)
	}
	for _, member := range t.Members() {
		leaves = appendLeaves(leaves, member)
	}
	return leaves
}

// Materializes result rows according to a statement's row type.  Scalar
// tags decode to int64, string, bool, float64, time.Time or []byte (decimals
// stay strings).  Composite tags decode to []interface{}.  A nullable tag
// decodes to nil when NULL; for a nullable composite that means all of its
// columns are NULL.  A NULL anywhere else is an error.
type rowDecoder struct {
	rowType  sqlbuilder.SqlType
	leaves   []sqlbuilder.SqlType
	scanners []columnScanner
	dests    []interface{}
}

func newRowDecoder(rowType sqlbuilder.SqlType) *rowDecoder {
	leaves := appendLeaves(nil, rowType)
	d := &rowDecoder{
		rowType:  rowType,
		leaves:   leaves,
		scanners: make([]columnScanner, len(leaves)),
		dests:    make([]interface{}, len(leaves)),
	}
	for i, leaf := range leaves {
		d.scanners[i] = newColumnScanner(leaf)
		d.dests[i] = d.scanners[i]
	}
	return d
}

func (d *rowDecoder) checkColumns(columns []string) error {
	if len(columns) != len(d.leaves) {
		return errors.Newf(
			"Result has %d columns, row type %s expects %d",
			len(columns),
			d.rowType,
			len(d.leaves))
	}
	return nil
}

func (d *rowDecoder) decode(rows *sql.Rows) (interface{}, error) {
	if err := rows.Scan(d.dests...); err != nil {
		return nil, errors.Wrap(err, "Failed to scan row: ")
	}

	pos := 0
	return d.materialize(d.rowType, &pos)
}

func (d *rowDecoder) allNull(start int, end int) bool {
	for _, s := range d.scanners[start:end] {
		if _, ok := s.get(); ok {
			return false
		}
	}
	return true
}

func (d *rowDecoder) materialize(
	t sqlbuilder.SqlType,
	pos *int) (interface{}, error) {

	if t.Kind() != sqlbuilder.CompositeKind {
		value, ok := d.scanners[*pos].get()
		*pos++
		if ok {
			return value, nil
		}
		if t.IsNullable() {
			return nil, nil
		}
		return nil, errors.Newf(
			"NULL in non-nullable %s column %d",
			t,
			*pos-1)
	}

	if t.IsNullable() {
		end := *pos + t.LeafCount()
		if d.allNull(*pos, end) {
			*pos = end
			return nil, nil
		}
	}

	members := t.Members()
	values := make([]interface{}, len(members))
	for i, member := range members {
		value, err := d.materialize(member, pos)
		if err != nil {
			return nil, err
		}
		values[i] = value
	}
	return values, nil
}
