// Modeling of tables.  This is where query preparation starts

package sqlbuilder

import (
	"fmt"

	"github.com/typedsql/typedsql/errors"
)

// The sql table read interface.  NOTE: NATURAL JOINs, and join "USING" clause
// are not supported.
type ReadableTable interface {
	// Returns the list of columns that are in the current table expression.
	Columns() []NonAliasColumn

	// Generates the sql string for the current table expression.  Note: the
	// generated string may not be a valid/executable sql statement.
	SerializeSql(out *QueryBuilder) error

	// Generates a select query on the current table.
	Select(projections ...Projection) SelectStatement

	// Creates a inner join table expression using onCondition.
	InnerJoinOn(table ReadableTable, onCondition BoolExpression) ReadableTable

	// Creates a left join table expression using onCondition.
	LeftJoinOn(table ReadableTable, onCondition BoolExpression) ReadableTable

	// Creates a right join table expression using onCondition.
	RightJoinOn(table ReadableTable, onCondition BoolExpression) ReadableTable

	// Creates a inner join table expression.  The join condition is derived
	// from the foreign keys declared on the tables' schema.
	InnerJoin(table ReadableTable) (ReadableTable, error)

	// Creates a left outer join table expression.  The join condition is
	// derived from the foreign keys declared on the tables' schema.
	LeftOuterJoin(table ReadableTable) (ReadableTable, error)

	// Returns the ordered (column, type) entries a row of this table
	// expression is made of, with outer join nullability applied.
	Shape() RowShape

	// The tables in this table expression, and the outer joins that can
	// null each of them.
	scope() *nullScope

	// The values making up the row shape, in order.
	shapeLeaves() []typedClause

	// The projections used when a select names none.
	defaultProjections() []Projection
}

// The sql table write interface.
type WritableTable interface {
	// Returns the list of columns that are in the table.
	Columns() []NonAliasColumn

	// Generates the sql string for the current table expression.  Note: the
	// generated string may not be a valid/executable sql statement.
	SerializeSql(out *QueryBuilder) error

	Insert(columns ...NonAliasColumn) InsertStatement
	Update() UpdateStatement
	Delete() DeleteStatement
}

// Defines a physical table in the database that is both readable and writable.
// This function will panic if name is not valid
func NewTable(name string, columns ...NonAliasColumn) *Table {
	if !validIdentifierName(name) {
		panic("Invalid table name")
	}

	t := &Table{
		name:         name,
		columns:      columns,
		columnLookup: make(map[string]NonAliasColumn),
	}
	for _, c := range columns {
		err := c.setTable(t)
		if err != nil {
			panic(err)
		}
		t.columnLookup[c.Name()] = c
	}

	if len(columns) == 0 {
		panic(fmt.Sprintf("Table %s has no columns", name))
	}

	return t
}

type Table struct {
	name         string
	columns      []NonAliasColumn
	columnLookup map[string]NonAliasColumn
	// If not empty, the name of the index to force
	forcedIndex string
	// Set by NewSchema.
	schema *Schema
	// The table this one was copied from (see ForceIndex); columns always
	// refer to the original.
	origin *Table
}

// Returns the table the columns belong to.
func (t *Table) identity() *Table {
	if t.origin != nil {
		return t.origin
	}
	return t
}

// Returns the specified column, or errors if it doesn't exist in the table
func (t *Table) getColumn(name string) (NonAliasColumn, error) {
	if c, ok := t.columnLookup[name]; ok {
		return c, nil
	}
	return nil, errors.Wrapf(
		ErrColumnNotInSource,
		"No such column '%s' in table '%s'",
		name,
		t.name)
}

// Returns a pseudo column representation of the column name.  Error checking
// is deferred to SerializeSql.
func (t *Table) C(name string) NonAliasColumn {
	return &deferredLookupColumn{
		table:   t,
		colName: name,
	}
}

// Returns all columns for a table as a slice of projections
func (t *Table) Projections() []Projection {
	result := make([]Projection, 0)

	for _, col := range t.columns {
		result = append(result, col)
	}

	return result
}

// Returns the table's name in the database
func (t *Table) Name() string {
	return t.name
}

// Returns a list of the table's columns
func (t *Table) Columns() []NonAliasColumn {
	return t.columns
}

// Returns the schema the table was registered with, if any.
func (t *Table) Schema() *Schema {
	return t.identity().schema
}

// Returns a copy of this table, but with the specified index forced.
func (t *Table) ForceIndex(index string) *Table {
	newTable := *t
	newTable.forcedIndex = index
	newTable.origin = t.identity()
	return &newTable
}

// Generates the sql string for the current table expression.  Note: the
// generated string may not be a valid/executable sql statement.
func (t *Table) SerializeSql(out *QueryBuilder) error {
	db := out.Database()
	if name := db.Name(); name != nil {
		if !validIdentifierName(*name) {
			return errors.Newf(
				"Invalid database name specified: %s",
				*name)
		}
		out.WriteIdentifier(*name)
		_ = out.WriteByte('.')
	}
	out.WriteIdentifier(t.Name())

	if t.forcedIndex != "" {
		if !validIdentifierName(t.forcedIndex) {
			return errors.Newf("'%s' is not a valid identifier for an index", t.forcedIndex)
		}
		switch db.Dialect() {
		case MySQL:
			_, _ = out.WriteString(" FORCE INDEX (")
			out.WriteIdentifier(t.forcedIndex)
			_ = out.WriteByte(')')
		case SQLite:
			_, _ = out.WriteString(" INDEXED BY ")
			out.WriteIdentifier(t.forcedIndex)
		default:
			return errors.Newf(
				"Index hints are not supported by %s.  Generated sql: %s",
				db.Dialect(),
				out.String())
		}
	}

	return nil
}

// Generates a select query on the current table.
func (t *Table) Select(projections ...Projection) SelectStatement {
	return newSelectStatement(t, projections)
}

// Creates a inner join table expression using onCondition.
func (t *Table) InnerJoinOn(
	table ReadableTable,
	onCondition BoolExpression) ReadableTable {

	return InnerJoinOn(t, table, onCondition)
}

// Creates a left join table expression using onCondition.
func (t *Table) LeftJoinOn(
	table ReadableTable,
	onCondition BoolExpression) ReadableTable {

	return LeftJoinOn(t, table, onCondition)
}

// Creates a right join table expression using onCondition.
func (t *Table) RightJoinOn(
	table ReadableTable,
	onCondition BoolExpression) ReadableTable {

	return RightJoinOn(t, table, onCondition)
}

func (t *Table) InnerJoin(table ReadableTable) (ReadableTable, error) {
	return InnerJoin(t, table)
}

func (t *Table) LeftOuterJoin(table ReadableTable) (ReadableTable, error) {
	return LeftOuterJoin(t, table)
}

func (t *Table) Shape() RowShape {
	return shapeOf(t)
}

func (t *Table) scope() *nullScope {
	s := newNullScope()
	s.add(t.identity(), nil)
	return s
}

func (t *Table) shapeLeaves() []typedClause {
	leaves := make([]typedClause, len(t.columns))
	for i, c := range t.columns {
		leaves[i] = c
	}
	return leaves
}

// A table's default projection is the tuple of all its columns.
func (t *Table) defaultProjections() []Projection {
	members := make([]Expression, len(t.columns))
	for i, c := range t.columns {
		members[i] = c
	}
	return []Projection{Tuple(members...)}
}

func (t *Table) Insert(columns ...NonAliasColumn) InsertStatement {
	return newInsertStatement(t, columns...)
}

func (t *Table) Update() UpdateStatement {
	return newUpdateStatement(t)
}

func (t *Table) Delete() DeleteStatement {
	return newDeleteStatement(t)
}

type joinType int

const (
	INNER_JOIN joinType = iota
	LEFT_JOIN
	RIGHT_JOIN
)

// Join expressions are pseudo readable tables.
type joinTable struct {
	lhs         ReadableTable
	rhs         ReadableTable
	join_type   joinType
	onCondition BoolExpression

	// Set on the inner join of a join-through; the intermediate table is
	// joined but not part of the row.
	hiddenLhs bool
}

func newJoinTable(
	lhs ReadableTable,
	rhs ReadableTable,
	join_type joinType,
	onCondition BoolExpression) *joinTable {

	return &joinTable{
		lhs:         lhs,
		rhs:         rhs,
		join_type:   join_type,
		onCondition: onCondition,
	}
}

func InnerJoinOn(
	lhs ReadableTable,
	rhs ReadableTable,
	onCondition BoolExpression) ReadableTable {

	return newJoinTable(lhs, rhs, INNER_JOIN, onCondition)
}

func LeftJoinOn(
	lhs ReadableTable,
	rhs ReadableTable,
	onCondition BoolExpression) ReadableTable {

	return newJoinTable(lhs, rhs, LEFT_JOIN, onCondition)
}

func RightJoinOn(
	lhs ReadableTable,
	rhs ReadableTable,
	onCondition BoolExpression) ReadableTable {

	return newJoinTable(lhs, rhs, RIGHT_JOIN, onCondition)
}

// Inner joins lhs and rhs on the foreign key relating them.
func InnerJoin(lhs ReadableTable, rhs ReadableTable) (ReadableTable, error) {
	return impliedJoin(lhs, rhs, INNER_JOIN)
}

// Left outer joins lhs and rhs on the foreign key relating them.
func LeftOuterJoin(lhs ReadableTable, rhs ReadableTable) (ReadableTable, error) {
	return impliedJoin(lhs, rhs, LEFT_JOIN)
}

func (t *joinTable) Columns() []NonAliasColumn {
	columns := make([]NonAliasColumn, 0)
	columns = append(columns, t.lhs.Columns()...)
	columns = append(columns, t.rhs.Columns()...)

	return columns
}

func (t *joinTable) SerializeSql(out *QueryBuilder) (err error) {
	if t.lhs == nil {
		return errors.Newf("nil lhs.  Generated sql: %s", out.String())
	}
	if t.rhs == nil {
		return errors.Newf("nil rhs.  Generated sql: %s", out.String())
	}
	if t.onCondition == nil {
		return errors.Newf("nil onCondition.  Generated sql: %s", out.String())
	}

	if err = t.lhs.SerializeSql(out); err != nil {
		return
	}

	switch t.join_type {
	case INNER_JOIN:
		_, _ = out.WriteString(" INNER JOIN ")
	case LEFT_JOIN:
		_, _ = out.WriteString(" LEFT OUTER JOIN ")
	case RIGHT_JOIN:
		_, _ = out.WriteString(" RIGHT JOIN ")
	}

	_, nested := t.rhs.(*joinTable)
	if nested {
		_ = out.WriteByte('(')
	}
	if err = t.rhs.SerializeSql(out); err != nil {
		return
	}
	if nested {
		_ = out.WriteByte(')')
	}

	_, _ = out.WriteString(" ON ")
	if err = t.onCondition.SerializeSql(out); err != nil {
		return
	}

	return nil
}

func (t *joinTable) Select(projections ...Projection) SelectStatement {
	return newSelectStatement(t, projections)
}

func (t *joinTable) InnerJoinOn(
	table ReadableTable,
	onCondition BoolExpression) ReadableTable {

	return InnerJoinOn(t, table, onCondition)
}

func (t *joinTable) LeftJoinOn(
	table ReadableTable,
	onCondition BoolExpression) ReadableTable {

	return LeftJoinOn(t, table, onCondition)
}

func (t *joinTable) RightJoinOn(
	table ReadableTable,
	onCondition BoolExpression) ReadableTable {

	return RightJoinOn(t, table, onCondition)
}

func (t *joinTable) InnerJoin(table ReadableTable) (ReadableTable, error) {
	return InnerJoin(t, table)
}

func (t *joinTable) LeftOuterJoin(table ReadableTable) (ReadableTable, error) {
	return LeftOuterJoin(t, table)
}

func (t *joinTable) Shape() RowShape {
	return shapeOf(t)
}

// Every outer join is a side that can null whole tables: a left join can
// null the tables of its rhs, a right join the tables of its lhs.
func (t *joinTable) scope() *nullScope {
	var lhsSide, rhsSide *joinTable
	switch t.join_type {
	case LEFT_JOIN:
		rhsSide = t
	case RIGHT_JOIN:
		lhsSide = t
	}

	s := newNullScope()
	if t.lhs != nil {
		s.merge(t.lhs.scope(), lhsSide)
	}
	if t.rhs != nil {
		s.merge(t.rhs.scope(), rhsSide)
	}
	return s
}

func (t *joinTable) shapeLeaves() []typedClause {
	leaves := make([]typedClause, 0)
	if !t.hiddenLhs {
		leaves = append(leaves, t.lhs.shapeLeaves()...)
	}
	return append(leaves, t.rhs.shapeLeaves()...)
}

func (t *joinTable) defaultProjections() []Projection {
	projections := make([]Projection, 0)
	if !t.hiddenLhs {
		projections = append(projections, t.lhs.defaultProjections()...)
	}
	return append(projections, t.rhs.defaultProjections()...)
}

// A select statement used as the lhs of a further join.  The sql stays
// flat: the select's source is rendered in place, and the select's
// projections make up the row.
type selectSource struct {
	source      ReadableTable
	projections []Projection
}

func (s *selectSource) Columns() []NonAliasColumn {
	return s.source.Columns()
}

func (s *selectSource) SerializeSql(out *QueryBuilder) error {
	if s.source == nil {
		return errors.Newf("nil source.  Generated sql: %s", out.String())
	}
	return s.source.SerializeSql(out)
}

func (s *selectSource) Select(projections ...Projection) SelectStatement {
	return newSelectStatement(s, projections)
}

func (s *selectSource) InnerJoinOn(
	table ReadableTable,
	onCondition BoolExpression) ReadableTable {

	return InnerJoinOn(s, table, onCondition)
}

func (s *selectSource) LeftJoinOn(
	table ReadableTable,
	onCondition BoolExpression) ReadableTable {

	return LeftJoinOn(s, table, onCondition)
}

func (s *selectSource) RightJoinOn(
	table ReadableTable,
	onCondition BoolExpression) ReadableTable {

	return RightJoinOn(s, table, onCondition)
}

func (s *selectSource) InnerJoin(table ReadableTable) (ReadableTable, error) {
	return InnerJoin(s, table)
}

func (s *selectSource) LeftOuterJoin(table ReadableTable) (ReadableTable, error) {
	return LeftOuterJoin(s, table)
}

func (s *selectSource) Shape() RowShape {
	return shapeOf(s)
}

func (s *selectSource) scope() *nullScope {
	return s.source.scope()
}

func (s *selectSource) shapeLeaves() []typedClause {
	leaves := make([]typedClause, 0, len(s.projections))
	for _, p := range s.projections {
		leaves = append(leaves, projectionLeaves(p)...)
	}
	return leaves
}

func (s *selectSource) defaultProjections() []Projection {
	projections := make([]Projection, len(s.projections))
	copy(projections, s.projections)
	return projections
}
