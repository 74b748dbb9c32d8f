// Modeling of columns

package sqlbuilder

import (
	"regexp"

	"github.com/typedsql/typedsql/errors"
)

// XXX: Maybe add UIntColumn

// Representation of a table for query generation
type Column interface {
	isProjectionInterface

	Name() string
	// Serialization for use in column lists
	SerializeSqlForColumnList(out *QueryBuilder) error
	// Serialization for use in an expression (Clause)
	SerializeSql(out *QueryBuilder) error
	// The declared sql type of the column
	SqlType() SqlType

	// Internal function for tracking table that a column belongs to
	// for the purpose of serialization
	setTable(table *Table) error
}

type NullableColumn bool

const (
	Nullable      NullableColumn = true
	NotNullable   NullableColumn = false
	IsPrimaryKey                 = true
	NotPrimaryKey                = false
)

type ColumnWithIsPrimaryKey interface {
	NonAliasColumn

	// Return if the column is a primary key
	IsPrimaryKey() bool
}

// A column that can be refer to outside of the projection list
type NonAliasColumn interface {
	Column
	isOrderByClauseInterface
	isExpressionInterface
}

type Collation string

const (
	UTF8CaseInsensitive Collation = "utf8_unicode_ci"
	UTF8CaseSensitive   Collation = "utf8_unicode"
	UTF8Binary          Collation = "utf8_bin"
)

// Representation of MySQL charsets
type Charset string

const (
	UTF8 Charset = "utf8"
)

// The base type for real materialized columns.
type baseColumn struct {
	isProjection
	isExpression
	name         string
	sqlType      SqlType
	isPrimaryKey bool
	table        *Table
}

func newBaseColumn(
	name string,
	kind SqlType,
	nullable NullableColumn,
	isPrimaryKey bool) baseColumn {

	if !validIdentifierName(name) {
		panic("Invalid column name in " + kind.String() + " column")
	}
	if nullable {
		kind = MakeNullable(kind)
	}
	return baseColumn{name: name, sqlType: kind, isPrimaryKey: isPrimaryKey}
}

func (c *baseColumn) Name() string {
	return c.name
}

func (c *baseColumn) SqlType() SqlType {
	return c.sqlType
}

func (c *baseColumn) setTable(table *Table) error {
	if c.table != nil && c.table != table {
		return errors.Newf(
			"Column '%s' already belongs to table '%s'",
			c.name,
			c.table.name)
	}
	c.table = table
	return nil
}

func (c *baseColumn) SerializeSqlForColumnList(out *QueryBuilder) error {
	out.writeColumn(c)
	return nil
}

func (c *baseColumn) SerializeSql(out *QueryBuilder) error {
	return c.SerializeSqlForColumnList(out)
}

func (c *baseColumn) base() *baseColumn {
	return c
}

func (c *baseColumn) IsPrimaryKey() bool {
	return c.isPrimaryKey
}

type bytesColumn struct {
	baseColumn
	isExpression
}

// Representation of VARBINARY/BLOB columns
// This function will panic if name is not valid
func BytesColumn(name string, nullable NullableColumn) NonAliasColumn {
	return BytesColumnWithIsPrimaryKey(name, nullable, false)
}

func BytesColumnWithIsPrimaryKey(name string, nullable NullableColumn, isPrimaryKey bool) ColumnWithIsPrimaryKey {
	return &bytesColumn{baseColumn: newBaseColumn(name, Bytes, nullable, isPrimaryKey)}
}

type stringColumn struct {
	baseColumn
	isExpression
	charset   Charset
	collation Collation
}

// Representation of VARCHAR/TEXT columns
// This function will panic if name is not valid
func StrColumn(
	name string,
	charset Charset,
	collation Collation,
	nullable NullableColumn,
) NonAliasColumn {
	return StrColumnWithIsPrimaryKey(name, charset, collation, nullable, false)
}

func StrColumnWithIsPrimaryKey(
	name string,
	charset Charset,
	collation Collation,
	nullable NullableColumn,
	isPrimaryKey bool,
) ColumnWithIsPrimaryKey {

	return &stringColumn{
		baseColumn: newBaseColumn(name, Text, nullable, isPrimaryKey),
		charset:    charset,
		collation:  collation,
	}
}

// Shorthand for a utf8 case sensitive StrColumn.
func TextColumn(name string, nullable NullableColumn) NonAliasColumn {
	return StrColumn(name, UTF8, UTF8CaseSensitive, nullable)
}

type dateTimeColumn struct {
	baseColumn
	isExpression
}

// Representation of DateTime-like columns, including DATETIME, DATE, and TIMESTAMP
// This function will panic if name is not valid
func DateTimeColumn(name string, nullable NullableColumn) NonAliasColumn {
	return DateTimeColumnWithIsPrimaryKey(name, nullable, false)
}

func DateTimeColumnWithIsPrimaryKey(name string, nullable NullableColumn, isPrimaryKey bool) ColumnWithIsPrimaryKey {
	return &dateTimeColumn{baseColumn: newBaseColumn(name, DateTime, nullable, isPrimaryKey)}
}

type integerColumn struct {
	baseColumn
	isExpression
}

// Representation of 32 bit integer columns
// This function will panic if name is not valid
func IntColumn(name string, nullable NullableColumn) NonAliasColumn {
	return IntColumnWithIsPrimaryKey(name, nullable, false)
}

func IntColumnWithIsPrimaryKey(name string, nullable NullableColumn, isPrimaryKey bool) ColumnWithIsPrimaryKey {
	return &integerColumn{baseColumn: newBaseColumn(name, Integer, nullable, isPrimaryKey)}
}

// Representation of 64 bit integer columns
// This function will panic if name is not valid
func BigIntColumn(name string, nullable NullableColumn) NonAliasColumn {
	return BigIntColumnWithIsPrimaryKey(name, nullable, false)
}

func BigIntColumnWithIsPrimaryKey(name string, nullable NullableColumn, isPrimaryKey bool) ColumnWithIsPrimaryKey {
	return &integerColumn{baseColumn: newBaseColumn(name, BigInt, nullable, isPrimaryKey)}
}

type decimalColumn struct {
	baseColumn
	isExpression
	precision int
	scale     int
}

// Representation of DECIMAL/NUMERIC columns
// This function will panic if name is not valid
func DecimalColumn(
	name string,
	precision int,
	scale int,
	nullable NullableColumn,
) NonAliasColumn {

	return DecimalColumnWithIsPrimaryKey(name, precision, scale, nullable, false)
}

func DecimalColumnWithIsPrimaryKey(
	name string,
	precision int,
	scale int,
	nullable NullableColumn,
	isPrimaryKey bool,
) ColumnWithIsPrimaryKey {

	return &decimalColumn{
		baseColumn: newBaseColumn(name, Decimal, nullable, isPrimaryKey),
		precision:  precision,
		scale:      scale,
	}
}

type doubleColumn struct {
	baseColumn
	isExpression
}

// Representation of any double column
// This function will panic if name is not valid
func DoubleColumn(name string, nullable NullableColumn) NonAliasColumn {
	return DoubleColumnWithIsPrimaryKey(name, nullable, false)
}

func DoubleColumnWithIsPrimaryKey(name string, nullable NullableColumn, isPrimaryKey bool) ColumnWithIsPrimaryKey {
	return &doubleColumn{baseColumn: newBaseColumn(name, Double, nullable, isPrimaryKey)}
}

type booleanColumn struct {
	baseColumn
	isExpression

	// XXX: Maybe allow isBoolExpression (for now, not included because
	// the deferred lookup equivalent can never be isBoolExpression)
}

// Representation of TINYINT used as a bool
// This function will panic if name is not valid
func BoolColumn(name string, nullable NullableColumn) NonAliasColumn {
	return BoolColumnWithIsPrimaryKey(name, nullable, false)
}

func BoolColumnWithIsPrimaryKey(name string, nullable NullableColumn, isPrimaryKey bool) ColumnWithIsPrimaryKey {
	return &booleanColumn{baseColumn: newBaseColumn(name, Bool, nullable, isPrimaryKey)}
}

type aliasColumn struct {
	isProjection
	name       string
	expression Expression
}

func (c *aliasColumn) Name() string {
	return c.name
}

func (c *aliasColumn) SqlType() SqlType {
	if c.expression == nil {
		return SqlType{}
	}
	return c.expression.SqlType()
}

func (c *aliasColumn) SerializeSql(out *QueryBuilder) error {
	out.WriteIdentifier(c.name)
	return nil
}

func (c *aliasColumn) SerializeSqlForColumnList(out *QueryBuilder) error {
	if !validIdentifierName(c.name) {
		return errors.Newf(
			"Invalid alias name `%s`.  Generated sql: %s",
			c.name,
			out.String())
	}
	if c.expression == nil {
		return errors.Newf(
			"Cannot alias a nil expression.  Generated sql: %s",
			out.String())
	}

	_ = out.WriteByte('(')
	if err := c.expression.SerializeSql(out); err != nil {
		return err
	}
	_, _ = out.WriteString(") AS ")
	out.WriteIdentifier(c.name)
	return nil
}

func (c *aliasColumn) setTable(table *Table) error {
	return errors.Newf(
		"Alias column '%s' should never have setTable called on it",
		c.name)
}

// Representation of aliased clauses (expression AS name)
func Alias(name string, c Expression) Column {
	return &aliasColumn{name: name, expression: c}
}

// This is a strict subset of the actual allowed identifiers
var validIdentifierRegexp = regexp.MustCompile("^[a-zA-Z_]\\w*$")

// Returns true if the given string is suitable as an identifier.
func validIdentifierName(name string) bool {
	return validIdentifierRegexp.MatchString(name)
}

// Pseudo Column type returned by table.C(name).  The lookup happens on
// every use; nothing is cached on the column.
type deferredLookupColumn struct {
	isProjection
	isExpression
	table   *Table
	colName string
}

func (c *deferredLookupColumn) Name() string {
	return c.colName
}

func (c *deferredLookupColumn) SqlType() SqlType {
	col, err := c.table.getColumn(c.colName)
	if err != nil {
		return SqlType{}
	}
	return col.SqlType()
}

func (c *deferredLookupColumn) SerializeSqlForColumnList(
	out *QueryBuilder) error {

	return c.SerializeSql(out)
}

func (c *deferredLookupColumn) SerializeSql(out *QueryBuilder) error {
	col, err := c.table.getColumn(c.colName)
	if err != nil {
		return errors.Wrapf(err, "Generated sql: %s", out.String())
	}
	return col.SerializeSql(out)
}

// Returns nil if the column does not exist.
func (c *deferredLookupColumn) base() *baseColumn {
	col, err := c.table.getColumn(c.colName)
	if err != nil {
		return nil
	}
	if b, ok := col.(columnBase); ok {
		return b.base()
	}
	return nil
}

func (c *deferredLookupColumn) setTable(table *Table) error {
	return errors.Newf(
		"Lookup column '%s' should never have setTable called on it",
		c.colName)
}
