package sqlbuilder

import (
	"bytes"
	"database/sql/driver"

	"github.com/typedsql/typedsql/database/sqltypes"
	"github.com/typedsql/typedsql/encoding2"
	"github.com/typedsql/typedsql/errors"
)

// A bind parameter: the encoded value and the sql type it is bound as.
type BindValue struct {
	Value sqltypes.Value
	Type  SqlType
}

// Converts the bind value into a value database/sql drivers accept.
func (b BindValue) DriverValue() (driver.Value, error) {
	if b.Value.IsNull() {
		return nil, nil
	}

	switch b.Type.Kind() {
	case IntegerKind, BigIntKind:
		i, err := b.Value.Int64()
		if err != nil {
			return nil, errors.Wrapf(ErrEncode, "%s as %s: %s", b.Value, b.Type, err)
		}
		return i, nil
	case BoolKind:
		v, err := b.Value.Bool()
		if err != nil {
			return nil, errors.Wrapf(ErrEncode, "%s as %s: %s", b.Value, b.Type, err)
		}
		return v, nil
	case DoubleKind:
		f, err := b.Value.Float64()
		if err != nil {
			return nil, errors.Wrapf(ErrEncode, "%s as %s: %s", b.Value, b.Type, err)
		}
		return f, nil
	case BytesKind:
		return b.Value.Raw(), nil
	default:
		return b.Value.String(), nil
	}
}

// Returns an error if v can not be bound as a value of type t.
func checkBindable(v sqltypes.Value, t SqlType) error {
	if t.IsComposite() || !t.IsValid() {
		return errors.Wrapf(ErrEncode, "values can not be bound as %s", t)
	}

	if v.IsNull() {
		if !t.IsNullable() {
			return errors.Wrapf(
				ErrEncode,
				"NULL can not be bound as non-nullable %s",
				t)
		}
		return nil
	}

	ok := false
	switch t.Kind() {
	case IntegerKind, BigIntKind, BoolKind:
		ok = v.IsNumeric()
	case DoubleKind, DecimalKind:
		ok = v.IsNumeric() || v.IsFractional()
		if !ok && t.Kind() == DecimalKind {
			ok = v.IsUtf8String()
		}
	case TextKind, DateTimeKind, IntervalKind:
		ok = v.IsString()
	case BytesKind:
		ok = v.IsString()
	}
	if !ok {
		return errors.Wrapf(ErrEncode, "'%s' can not be bound as %s", v, t)
	}
	return nil
}

// QueryBuilder is the output buffer of a single render: it accumulates the
// sql text and the ordered bind parameters.  A QueryBuilder must not be
// shared between concurrent renders.
type QueryBuilder struct {
	db   Database
	buf  bytes.Buffer
	args []BindValue

	// In tracing mode, column references are collected and bind values are
	// not validated.  Used to find which columns an expression depends on.
	tracing bool
	columns []*baseColumn
}

func NewQueryBuilder(db Database) *QueryBuilder {
	return &QueryBuilder{db: db}
}

func newTracingQueryBuilder() *QueryBuilder {
	return &QueryBuilder{db: NewMySQLDatabase(nil), tracing: true}
}

func (b *QueryBuilder) Database() Database {
	return b.db
}

func (b *QueryBuilder) Write(p []byte) (int, error) {
	return b.buf.Write(p)
}

func (b *QueryBuilder) WriteByte(c byte) error {
	return b.buf.WriteByte(c)
}

func (b *QueryBuilder) WriteString(s string) (int, error) {
	return b.buf.WriteString(s)
}

// Writes name as a quoted identifier.
func (b *QueryBuilder) WriteIdentifier(name string) {
	encoding2.QuoteToWriter(b, []byte(name), byte(b.db.EscapeCharacter()))
}

// Writes v inline, escaped for the target database.
func (b *QueryBuilder) WriteLiteral(v sqltypes.Value) {
	b.db.EncodeLiteral(v, b)
}

// Appends a bind parameter and writes its placeholder.
func (b *QueryBuilder) WriteBind(v sqltypes.Value, t SqlType) error {
	if !b.tracing {
		if err := checkBindable(v, t); err != nil {
			return errors.Wrapf(err, "Generated sql: %s", b.buf.String())
		}
	}
	b.args = append(b.args, BindValue{Value: v, Type: t})
	_, _ = b.buf.WriteString(b.db.Placeholder(len(b.args)))
	return nil
}

func (b *QueryBuilder) writeColumn(c *baseColumn) {
	if b.tracing {
		b.columns = append(b.columns, c)
	}
	if c.table != nil {
		b.WriteIdentifier(c.table.name)
		_ = b.buf.WriteByte('.')
	}
	b.WriteIdentifier(c.name)
}

type builderMark struct {
	textLen int
	argsLen int
	colsLen int
}

func (b *QueryBuilder) mark() builderMark {
	return builderMark{b.buf.Len(), len(b.args), len(b.columns)}
}

// Discards everything written since m.
func (b *QueryBuilder) rollback(m builderMark) {
	b.buf.Truncate(m.textLen)
	b.args = b.args[:m.argsLen]
	b.columns = b.columns[:m.colsLen]
}

// The sql text written so far.
func (b *QueryBuilder) String() string {
	return b.buf.String()
}

// The bind parameters, in placeholder order.
func (b *QueryBuilder) Args() []BindValue {
	args := make([]BindValue, len(b.args))
	copy(args, b.args)
	return args
}

// The bind parameters converted for database/sql.
func (b *QueryBuilder) DriverArgs() ([]interface{}, error) {
	return driverArgs(b.args)
}

func driverArgs(args []BindValue) ([]interface{}, error) {
	result := make([]interface{}, len(args))
	for i, arg := range args {
		v, err := arg.DriverValue()
		if err != nil {
			return nil, err
		}
		result[i] = v
	}
	return result, nil
}

// Returns the table columns referenced by clause, in rendering order.
func referencedColumns(clause Clause) []*baseColumn {
	if clause == nil {
		return nil
	}
	out := newTracingQueryBuilder()
	_ = clause.SerializeSql(out)
	return out.columns
}
