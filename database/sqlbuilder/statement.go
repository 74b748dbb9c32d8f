package sqlbuilder

import (
	"github.com/typedsql/typedsql/errors"
)

type Statement interface {
	Clause

	// Render returns the generated SQL and its bind parameters.
	Render(db Database) (*Rendered, error)

	// String returns generated SQL as string.
	String(db Database) (sql string, err error)

	// Err returns the first error raised while composing the statement.  A
	// statement with an error never renders.
	Err() error
}

type SelectStatement interface {
	Statement

	Where(expression BoolExpression) SelectStatement
	AndWhere(expression BoolExpression) SelectStatement
	GroupBy(expressions ...Expression) SelectStatement
	OrderBy(clauses ...OrderByClause) SelectStatement
	Limit(limit int64) SelectStatement
	// The limit expression must be a BigInt.
	LimitExpr(limit Expression) SelectStatement
	Offset(offset int64) SelectStatement
	// The offset expression must be a BigInt.
	OffsetExpr(offset Expression) SelectStatement
	Distinct() SelectStatement
	WithSharedLock() SelectStatement
	ForUpdate() SelectStatement
	Comment(comment string) SelectStatement
	Copy() SelectStatement

	// Joins the statement's source with table, on the foreign key relating
	// them.  The statement keeps its projections, where clause and
	// ordering; the statement can not have GROUP BY, DISTINCT, LIMIT or
	// OFFSET.
	InnerJoin(table ReadableTable) (SelectStatement, error)
	LeftOuterJoin(table ReadableTable) (SelectStatement, error)

	// The selected projections.  When none were given, these are the
	// source's default projections (one tuple per table).
	Projections() []Projection

	// The type of a result row: the projection's type if there is a single
	// projection, otherwise the composite of all projection types.
	RowType() SqlType

	// The result columns, in order.
	Shape() RowShape
}

type InsertStatement interface {
	Statement

	// Add a row of values to the insert statement.
	Add(row ...Expression) InsertStatement
	AddOnDuplicateKeyUpdate(col NonAliasColumn, expr Expression) InsertStatement
	Comment(comment string) InsertStatement
	IgnoreDuplicates(ignore bool) InsertStatement
	// Returns the inserted rows (postgres and sqlite only).
	Returning() InsertStatement
}

// By default, rows selected by a UNION statement are out-of-order
// If you have an ORDER BY on an inner SELECT statement, the only thing
// it affects is the LIMIT clause on that inner statement (the ordering will
// still be out-of-order).
type UnionStatement interface {
	Statement

	// Warning! You cannot include table names for the next 3 clauses, or
	// you'll get errors like:
	//   Table 'server_file_journal' from one of the SELECTs cannot be used in
	//   global ORDER clause
	OrderBy(clauses ...OrderByClause) UnionStatement
	Limit(limit int64) UnionStatement
	Offset(offset int64) UnionStatement

	// The unified row type of the member selects.
	RowType() SqlType
}

type UpdateStatement interface {
	Statement

	Set(column NonAliasColumn, expression Expression) UpdateStatement
	Where(expression BoolExpression) UpdateStatement
	OrderBy(clauses ...OrderByClause) UpdateStatement
	Limit(limit int64) UpdateStatement
	Comment(comment string) UpdateStatement
}

type DeleteStatement interface {
	Statement

	Where(expression BoolExpression) DeleteStatement
	OrderBy(clauses ...OrderByClause) DeleteStatement
	Limit(limit int64) DeleteStatement
	Comment(comment string) DeleteStatement
}

// A rendered statement: sql text with placeholders, and the bind parameters
// in placeholder order.
type Rendered struct {
	Sql  string
	Args []BindValue
}

// The bind parameters converted for database/sql.
func (r *Rendered) DriverArgs() ([]interface{}, error) {
	return driverArgs(r.Args)
}

func render(db Database, stmt Clause) (*Rendered, error) {
	if db == nil {
		return nil, errors.New("nil database")
	}
	out := NewQueryBuilder(db)
	if err := stmt.SerializeSql(out); err != nil {
		return nil, err
	}
	return &Rendered{Sql: out.String(), Args: out.Args()}, nil
}

func renderString(db Database, stmt Clause) (string, error) {
	rendered, err := render(db, stmt)
	if err != nil {
		return "", err
	}
	return rendered.Sql, nil
}

// Traces serialize and returns the construction error it raises, or an
// error if it references a column that is not (exactly once) in table.
func checkReferences(
	table ReadableTable,
	serialize func(out *QueryBuilder) error) error {

	out := newTracingQueryBuilder()
	if err := serialize(out); err != nil && IsConstructionError(err) {
		return err
	}
	if table == nil {
		return nil
	}

	scope := table.scope()
	for _, c := range out.columns {
		if c.table == nil {
			return errors.Wrapf(
				ErrColumnNotInSource,
				"Column '%s' does not belong to a table",
				c.name)
		}
		switch n := scope.counts[c.table]; {
		case n == 0:
			return errors.Wrapf(
				ErrColumnNotInSource,
				"Table '%s' (of column '%s') is not in %v",
				c.table.name,
				c.name,
				tableNames(scope))
		case n > 1:
			return errors.Wrapf(
				ErrAmbiguousColumn,
				"Table '%s' (of column '%s') appears %d times in the query source",
				c.table.name,
				c.name,
				n)
		}
	}
	return nil
}

func checkClause(table ReadableTable, clause Clause) error {
	if clause == nil {
		return nil
	}
	return checkReferences(table, clause.SerializeSql)
}

func checkProjection(table ReadableTable, projection Projection) error {
	if projection == nil {
		return nil
	}
	return checkReferences(table, projection.SerializeSqlForColumnList)
}

// Returns true if a value of type val can be stored in a column of type col.
func assignableTypes(col SqlType, val SqlType) bool {
	if !col.IsValid() || !val.IsValid() {
		return true
	}
	if val.Kind() == NullKind {
		return col.IsNullable()
	}
	return comparableTypes(col.NotNull(), val.NotNull())
}

//
// UNION SELECT Statement ======================================================
//

func Union(selects ...SelectStatement) UnionStatement {
	return newUnionStatement(selects, true)
}

func UnionAll(selects ...SelectStatement) UnionStatement {
	return newUnionStatement(selects, false)
}

func newUnionStatement(selects []SelectStatement, unique bool) UnionStatement {
	us := &unionStatementImpl{
		selects: selects,
		order:   noClause,
		limit:   noClause,
		offset:  noClause,
		unique:  unique,
	}

	if len(selects) == 0 {
		us.err = errors.Newf("Union statement must have at least one SELECT")
		return us
	}

	for i, statement := range selects {
		if statement == nil {
			us.err = errors.Newf("nil select in Union statement")
			return us
		}
		if err := statement.Err(); err != nil {
			us.err = err
			return us
		}

		// Union statements require that each subquery select compatible
		// rows
		if i == 0 {
			us.rowType = statement.RowType()
			continue
		}
		unified, ok := unifyTypes(us.rowType, statement.RowType())
		if !ok {
			us.err = errors.Wrapf(
				ErrTypeMismatch,
				"All inner selects in Union statement must select the "+
					"same types.  Got %s and %s.  If you are selecting on "+
					"multiple tables, use Null to pad to the right number "+
					"of fields.",
				us.rowType,
				statement.RowType())
			return us
		}
		us.rowType = unified
	}
	return us
}

// Similar to selectStatementImpl, but less complete
type unionStatementImpl struct {
	selects []SelectStatement
	order   Clause
	limit   Clause
	offset  Clause
	// True if results of the union should be deduped.
	unique  bool
	rowType SqlType

	err error
}

func (us *unionStatementImpl) copy() *unionStatementImpl {
	c := *us
	return &c
}

func (us *unionStatementImpl) setErr(err error) {
	if us.err == nil && err != nil {
		us.err = err
	}
}

func (us *unionStatementImpl) OrderBy(
	clauses ...OrderByClause) UnionStatement {

	c := us.copy()
	c.order = newOrderByListClause(clauses...)
	return c
}

func (us *unionStatementImpl) Limit(limit int64) UnionStatement {
	c := us.copy()
	var err error
	c.limit, err = newLimitClause(BindAs(limit, BigInt))
	c.setErr(err)
	return c
}

func (us *unionStatementImpl) Offset(offset int64) UnionStatement {
	c := us.copy()
	var err error
	c.offset, err = newOffsetClause(BindAs(offset, BigInt))
	c.setErr(err)
	return c
}

func (us *unionStatementImpl) RowType() SqlType {
	return us.rowType
}

func (us *unionStatementImpl) Err() error {
	return us.err
}

func (us *unionStatementImpl) Render(db Database) (*Rendered, error) {
	return render(db, us)
}

func (us *unionStatementImpl) String(db Database) (sql string, err error) {
	return renderString(db, us)
}

func (us *unionStatementImpl) SerializeSql(out *QueryBuilder) error {
	if us.err != nil {
		return us.err
	}

	// sqlite does not allow parenthesized selects in a union.
	parenthesize := out.Database().Dialect() != SQLite

	for i, statement := range us.selects {
		// do a type assertion to get at the underlying struct
		statementImpl, ok := statement.(*selectStatementImpl)
		if !ok {
			return errors.Newf(
				"Expected inner select statement to be of type " +
					"selectStatementImpl")
		}

		// check that for limit for statements with order by clauses
		if !isNoop(statementImpl.order) && isNoop(statementImpl.limit) {
			return errors.Newf(
				"All inner selects in Union statement must have LIMIT if " +
					"they have ORDER BY")
		}
		if !parenthesize && (!isNoop(statementImpl.order) ||
			!isNoop(statementImpl.limit) ||
			!isNoop(statementImpl.offset)) {

			return errors.Newf(
				"Inner selects of a sqlite Union statement can not have " +
					"ORDER BY, LIMIT or OFFSET")
		}

		if i != 0 {
			if us.unique {
				_, _ = out.WriteString(" UNION ")
			} else {
				_, _ = out.WriteString(" UNION ALL ")
			}
		}
		if parenthesize {
			_ = out.WriteByte('(')
		}
		if err := statement.SerializeSql(out); err != nil {
			return err
		}
		if parenthesize {
			_ = out.WriteByte(')')
		}
	}

	limit := us.limit
	if isNoop(limit) && !isNoop(us.offset) {
		limit = unboundedLimitClause{}
	}
	for _, clause := range []Clause{us.order, limit, us.offset} {
		if err := clause.SerializeSql(out); err != nil {
			return err
		}
	}
	return nil
}

//
// SELECT Statement ============================================================
//

func newSelectStatement(
	table ReadableTable,
	projections []Projection) SelectStatement {

	q := &selectStatementImpl{
		table:  table,
		where:  noClause,
		group:  noClause,
		order:  noClause,
		limit:  noClause,
		offset: noClause,
		lock:   noClause,
	}
	if table == nil {
		q.err = errors.New("nil table")
		return q
	}

	if len(projections) > 0 {
		q.projections = make([]Projection, len(projections))
		copy(q.projections, projections)
	}
	for _, p := range q.Projections() {
		q.setErr(checkProjection(table, p))
	}
	return q
}

// A select statement holds one clause per slot, rendered in this order:
// select, from, where, group by, order by, limit, offset, lock.  Slots the
// caller did not set hold noClause.  Statements are immutable; every
// combinator returns a modified copy.
//
// NOTE: SelectStatement purposely does not implement the Table interface since
// mysql's subquery performance is horrible.
type selectStatementImpl struct {
	table ReadableTable
	// nil means the table's default projections.
	projections []Projection
	distinct    bool
	comment     string

	where  Clause
	group  Clause
	order  Clause
	limit  Clause
	offset Clause
	lock   Clause

	err error
}

func (q *selectStatementImpl) copy() *selectStatementImpl {
	c := *q
	return &c
}

func (q *selectStatementImpl) setErr(err error) {
	if q.err == nil && err != nil {
		q.err = err
	}
}

func (q *selectStatementImpl) Copy() SelectStatement {
	return q.copy()
}

func (q *selectStatementImpl) Err() error {
	return q.err
}

// Further filter the query, instead of replacing the filter
func (q *selectStatementImpl) AndWhere(
	expression BoolExpression) SelectStatement {

	existing, ok := q.where.(*whereClause)
	if !ok || expression == nil {
		return q.Where(expression)
	}
	return q.Where(And(existing.predicate, expression))
}

func (q *selectStatementImpl) Where(expression BoolExpression) SelectStatement {
	c := q.copy()
	c.where = newWhereClause(expression)
	if expression != nil {
		c.setErr(checkClause(c.table, expression))
	}
	return c
}

func (q *selectStatementImpl) GroupBy(
	expressions ...Expression) SelectStatement {

	c := q.copy()
	c.group = newGroupByClause(expressions)
	c.setErr(checkClause(c.table, c.group))
	return c
}

func (q *selectStatementImpl) OrderBy(
	clauses ...OrderByClause) SelectStatement {

	c := q.copy()
	c.order = newOrderByListClause(clauses...)
	c.setErr(checkClause(c.table, c.order))
	return c
}

func (q *selectStatementImpl) Limit(limit int64) SelectStatement {
	return q.LimitExpr(BindAs(limit, BigInt))
}

func (q *selectStatementImpl) LimitExpr(limit Expression) SelectStatement {
	c := q.copy()
	var err error
	c.limit, err = newLimitClause(limit)
	c.setErr(err)
	return c
}

func (q *selectStatementImpl) Offset(offset int64) SelectStatement {
	return q.OffsetExpr(BindAs(offset, BigInt))
}

func (q *selectStatementImpl) OffsetExpr(offset Expression) SelectStatement {
	c := q.copy()
	var err error
	c.offset, err = newOffsetClause(offset)
	c.setErr(err)
	return c
}

func (q *selectStatementImpl) Distinct() SelectStatement {
	c := q.copy()
	c.distinct = true
	return c
}

func (q *selectStatementImpl) WithSharedLock() SelectStatement {
	// We don't need to grab a read lock if we're going to grab a write one
	if lock, ok := q.lock.(*lockClause); ok && lock.mode == updateLock {
		return q
	}
	c := q.copy()
	c.lock = &lockClause{mode: sharedLock}
	return c
}

func (q *selectStatementImpl) ForUpdate() SelectStatement {
	// Clear a request for a shared lock if we're asking for a write one
	c := q.copy()
	c.lock = &lockClause{mode: updateLock}
	return c
}

func (q *selectStatementImpl) Comment(comment string) SelectStatement {
	c := q.copy()
	c.comment = comment
	return c
}

func (q *selectStatementImpl) InnerJoin(
	table ReadableTable) (SelectStatement, error) {

	return q.join(table, INNER_JOIN)
}

func (q *selectStatementImpl) LeftOuterJoin(
	table ReadableTable) (SelectStatement, error) {

	return q.join(table, LEFT_JOIN)
}

func (q *selectStatementImpl) join(
	table ReadableTable,
	kind joinType) (SelectStatement, error) {

	if q.err != nil {
		return nil, q.err
	}
	if !isNoop(q.group) ||
		q.distinct ||
		!isNoop(q.limit) ||
		!isNoop(q.offset) {

		return nil, errors.Wrap(
			ErrInvalidJoin,
			"Cannot join a select with GROUP BY, DISTINCT, LIMIT or OFFSET")
	}

	lhs := &selectSource{source: q.table, projections: q.Projections()}
	joined, err := impliedJoin(lhs, table, kind)
	if err != nil {
		return nil, err
	}

	for _, p := range lhs.projections {
		if err := checkProjection(joined, p); err != nil {
			return nil, err
		}
	}

	c := q.copy()
	c.table = joined
	c.projections = lhs.projections
	return c, nil
}

func (q *selectStatementImpl) Projections() []Projection {
	if q.projections == nil {
		if q.table == nil {
			return nil
		}
		return q.table.defaultProjections()
	}
	projections := make([]Projection, len(q.projections))
	copy(projections, q.projections)
	return projections
}

func (q *selectStatementImpl) RowType() SqlType {
	if q.table == nil {
		return SqlType{}
	}

	scope := q.table.scope()
	projections := q.Projections()
	if len(projections) == 1 {
		return scope.typeOf(projections[0], nil)
	}

	types := make([]SqlType, len(projections))
	for i, p := range projections {
		types[i] = scope.typeOf(p, nil)
	}
	return Composite(types...)
}

func (q *selectStatementImpl) Shape() RowShape {
	if q.table == nil {
		return nil
	}
	return shapeOf(&selectSource{source: q.table, projections: q.Projections()})
}

func (q *selectStatementImpl) Render(db Database) (*Rendered, error) {
	return render(db, q)
}

// Return the properly escaped SQL statement, against the specified database
func (q *selectStatementImpl) String(db Database) (sql string, err error) {
	return renderString(db, q)
}

func (q *selectStatementImpl) SerializeSql(out *QueryBuilder) error {
	if q.err != nil {
		return q.err
	}

	limit := q.limit
	if isNoop(limit) && !isNoop(q.offset) {
		limit = unboundedLimitClause{}
	}

	clauses := []Clause{
		&selectClause{
			projections: q.Projections(),
			distinct:    q.distinct,
			comment:     q.comment,
		},
		&fromClause{table: q.table},
		q.where,
		q.group,
		q.order,
		limit,
		q.offset,
		q.lock,
	}
	for _, clause := range clauses {
		if err := clause.SerializeSql(out); err != nil {
			return err
		}
	}
	return nil
}

//
// INSERT Statement ============================================================
//

func newInsertStatement(
	t *Table,
	columns ...NonAliasColumn) InsertStatement {

	s := &insertStatementImpl{
		table:                 t,
		columns:               columns,
		rows:                  make([][]Expression, 0, 1),
		onDuplicateKeyUpdates: make([]columnAssignment, 0, 0),
	}
	for _, col := range columns {
		if col != nil {
			s.setErr(checkColumnOf(t, col))
		}
	}
	return s
}

// Returns an error if col is not a column of table.
func checkColumnOf(table *Table, col NonAliasColumn) error {
	b := asBaseColumn(col)
	if b == nil || b.table != table.identity() {
		return errors.Wrapf(
			ErrColumnNotInSource,
			"Column '%s' is not a column of table '%s'",
			col.Name(),
			table.name)
	}
	return nil
}

func checkAssignment(col NonAliasColumn, expr Expression) error {
	if col == nil || expr == nil {
		return nil
	}
	if !assignableTypes(col.SqlType(), expr.SqlType()) {
		return errors.Wrapf(
			ErrTypeMismatch,
			"Cannot assign %s to column '%s' (%s)",
			expr.SqlType(),
			col.Name(),
			col.SqlType())
	}
	return nil
}

type columnAssignment struct {
	col  NonAliasColumn
	expr Expression
}

type insertStatementImpl struct {
	table                 *Table
	columns               []NonAliasColumn
	rows                  [][]Expression
	onDuplicateKeyUpdates []columnAssignment
	comment               string
	ignore                bool
	returning             bool

	err error
}

func (s *insertStatementImpl) copy() *insertStatementImpl {
	c := *s
	return &c
}

func (s *insertStatementImpl) setErr(err error) {
	if s.err == nil && err != nil {
		s.err = err
	}
}

func (s *insertStatementImpl) Err() error {
	return s.err
}

func (s *insertStatementImpl) Add(
	row ...Expression) InsertStatement {

	c := s.copy()
	c.rows = append(append([][]Expression{}, s.rows...), row)
	if len(row) == len(s.columns) {
		for i, value := range row {
			c.setErr(checkAssignment(s.columns[i], value))
		}
	}
	return c
}

func (s *insertStatementImpl) AddOnDuplicateKeyUpdate(
	col NonAliasColumn,
	expr Expression) InsertStatement {

	c := s.copy()
	c.onDuplicateKeyUpdates = append(
		append([]columnAssignment{}, s.onDuplicateKeyUpdates...),
		columnAssignment{col, expr})
	if col != nil {
		c.setErr(checkColumnOf(s.table, col))
	}
	c.setErr(checkAssignment(col, expr))
	return c
}

func (s *insertStatementImpl) IgnoreDuplicates(ignore bool) InsertStatement {
	c := s.copy()
	c.ignore = ignore
	return c
}

func (s *insertStatementImpl) Returning() InsertStatement {
	c := s.copy()
	c.returning = true
	return c
}

func (s *insertStatementImpl) Comment(comment string) InsertStatement {
	c := s.copy()
	c.comment = comment
	return c
}

func (s *insertStatementImpl) Render(db Database) (*Rendered, error) {
	return render(db, s)
}

func (s *insertStatementImpl) String(db Database) (sql string, err error) {
	return renderString(db, s)
}

func (s *insertStatementImpl) SerializeSql(out *QueryBuilder) (err error) {
	if s.err != nil {
		return s.err
	}

	dialect := out.Database().Dialect()

	_, _ = out.WriteString("INSERT ")
	if s.ignore {
		switch dialect {
		case MySQL:
			_, _ = out.WriteString("IGNORE ")
		case SQLite:
			_, _ = out.WriteString("OR IGNORE ")
		}
	}
	_, _ = out.WriteString("INTO ")

	if err = writeComment(s.comment, out); err != nil {
		return
	}

	if s.table == nil {
		return errors.Newf("nil table.  Generated sql: %s", out.String())
	}

	if err = s.table.SerializeSql(out); err != nil {
		return
	}

	if len(s.columns) == 0 {
		return errors.Newf(
			"No column specified.  Generated sql: %s",
			out.String())
	}

	_, _ = out.WriteString(" (")
	for i, col := range s.columns {
		if i > 0 {
			_ = out.WriteByte(',')
		}

		if col == nil {
			return errors.Newf(
				"nil column in columns list.  Generated sql: %s",
				out.String())
		}

		// Column lists are unqualified.
		out.WriteIdentifier(col.Name())
	}

	if len(s.rows) == 0 {
		return errors.Newf(
			"No row specified.  Generated sql: %s",
			out.String())
	}

	_, _ = out.WriteString(") VALUES (")
	for row_i, row := range s.rows {
		if row_i > 0 {
			_, _ = out.WriteString(", (")
		}

		if len(row) != len(s.columns) {
			return errors.Newf(
				"# of values does not match # of columns.  Generated sql: %s",
				out.String())
		}

		for col_i, value := range row {
			if col_i > 0 {
				_ = out.WriteByte(',')
			}

			if value == nil {
				return errors.Newf(
					"nil value in row %d col %d.  Generated sql: %s",
					row_i,
					col_i,
					out.String())
			}

			if err = value.SerializeSql(out); err != nil {
				return
			}
		}
		_ = out.WriteByte(')')
	}

	if len(s.onDuplicateKeyUpdates) > 0 {
		if dialect != MySQL {
			return errors.Newf(
				"ON DUPLICATE KEY UPDATE is not supported by %s.  "+
					"Generated sql: %s",
				dialect,
				out.String())
		}

		_, _ = out.WriteString(" ON DUPLICATE KEY UPDATE ")
		for i, colExpr := range s.onDuplicateKeyUpdates {
			if i > 0 {
				_, _ = out.WriteString(", ")
			}

			if colExpr.col == nil {
				return errors.Newf(
					("nil column in on duplicate key update list.  " +
						"Generated sql: %s"),
					out.String())
			}

			if err = colExpr.col.SerializeSqlForColumnList(out); err != nil {
				return
			}

			_ = out.WriteByte('=')

			if colExpr.expr == nil {
				return errors.Newf(
					("nil expression in on duplicate key update list.  " +
						"Generated sql: %s"),
					out.String())
			}

			if err = colExpr.expr.SerializeSql(out); err != nil {
				return
			}
		}
	}

	if s.ignore && dialect == Postgres {
		_, _ = out.WriteString(" ON CONFLICT DO NOTHING")
	}

	if s.returning {
		returning := out.Database().InsertReturningClause()
		if returning == "" {
			return errors.Newf(
				"RETURNING is not supported by %s.  Generated sql: %s",
				dialect,
				out.String())
		}
		_, _ = out.WriteString(returning)
	}

	return nil
}

//
// UPDATE statement ===========================================================
//

func newUpdateStatement(table *Table) UpdateStatement {
	return &updateStatementImpl{
		table:        table,
		updateValues: make(map[NonAliasColumn]Expression),
		where:        noClause,
		order:        noClause,
		limit:        noClause,
	}
}

type updateStatementImpl struct {
	table        *Table
	updateValues map[NonAliasColumn]Expression
	where        Clause
	order        Clause
	limit        Clause
	comment      string

	err error
}

func (u *updateStatementImpl) copy() *updateStatementImpl {
	c := *u
	c.updateValues = make(map[NonAliasColumn]Expression, len(u.updateValues))
	for col, expr := range u.updateValues {
		c.updateValues[col] = expr
	}
	return &c
}

func (u *updateStatementImpl) setErr(err error) {
	if u.err == nil && err != nil {
		u.err = err
	}
}

func (u *updateStatementImpl) Err() error {
	return u.err
}

func (u *updateStatementImpl) Set(
	column NonAliasColumn,
	expression Expression) UpdateStatement {

	c := u.copy()
	c.updateValues[column] = expression
	if column != nil {
		c.setErr(checkColumnOf(u.table, column))
	}
	c.setErr(checkAssignment(column, expression))
	return c
}

func (u *updateStatementImpl) Where(expression BoolExpression) UpdateStatement {
	c := u.copy()
	c.where = newWhereClause(expression)
	if expression != nil {
		c.setErr(checkClause(u.table, expression))
	}
	return c
}

func (u *updateStatementImpl) OrderBy(
	clauses ...OrderByClause) UpdateStatement {

	c := u.copy()
	c.order = newOrderByListClause(clauses...)
	c.setErr(checkClause(u.table, c.order))
	return c
}

func (u *updateStatementImpl) Limit(limit int64) UpdateStatement {
	c := u.copy()
	var err error
	c.limit, err = newLimitClause(BindAs(limit, BigInt))
	c.setErr(err)
	return c
}

func (u *updateStatementImpl) Comment(comment string) UpdateStatement {
	c := u.copy()
	c.comment = comment
	return c
}

func (u *updateStatementImpl) Render(db Database) (*Rendered, error) {
	return render(db, u)
}

func (u *updateStatementImpl) String(db Database) (sql string, err error) {
	return renderString(db, u)
}

func (u *updateStatementImpl) SerializeSql(out *QueryBuilder) (err error) {
	if u.err != nil {
		return u.err
	}

	_, _ = out.WriteString("UPDATE ")

	if err = writeComment(u.comment, out); err != nil {
		return
	}

	if u.table == nil {
		return errors.Newf("nil table.  Generated sql: %s", out.String())
	}

	if err = u.table.SerializeSql(out); err != nil {
		return
	}

	if len(u.updateValues) == 0 {
		return errors.Newf(
			"No column updated.  Generated sql: %s",
			out.String())
	}

	_, _ = out.WriteString(" SET ")
	addComma := false

	// Sorting is too hard in go, just create a second map ...
	updateValues := make(map[string]Expression)
	for col, expr := range u.updateValues {
		if col == nil {
			return errors.Newf(
				"nil column.  Generated sql: %s",
				out.String())
		}

		updateValues[col.Name()] = expr
	}

	for _, col := range u.table.Columns() {
		val, inMap := updateValues[col.Name()]
		if !inMap {
			continue
		}

		if addComma {
			_, _ = out.WriteString(", ")
		}

		if val == nil {
			return errors.Newf(
				"nil value.  Generated sql: %s",
				out.String())
		}

		// Postgres does not allow qualified column names in SET.
		out.WriteIdentifier(col.Name())

		_ = out.WriteByte('=')
		if err = val.SerializeSql(out); err != nil {
			return
		}

		addComma = true
	}

	if isNoop(u.where) {
		return errors.Newf(
			"Updating without a WHERE clause.  Generated sql: %s",
			out.String())
	}

	return serializeMutationTail(out, u.where, u.order, u.limit)
}

// Renders the where, order by and limit clauses of an update or delete.
// Only mysql supports ordering and limiting those.
func serializeMutationTail(
	out *QueryBuilder,
	where Clause,
	order Clause,
	limit Clause) error {

	if err := where.SerializeSql(out); err != nil {
		return err
	}

	dialect := out.Database().Dialect()
	if dialect != MySQL && (!isNoop(order) || !isNoop(limit)) {
		return errors.Newf(
			"ORDER BY and LIMIT are not supported here by %s.  "+
				"Generated sql: %s",
			dialect,
			out.String())
	}

	if err := order.SerializeSql(out); err != nil {
		return err
	}
	return limit.SerializeSql(out)
}

//
// DELETE statement ===========================================================
//

func newDeleteStatement(table *Table) DeleteStatement {
	return &deleteStatementImpl{
		table: table,
		where: noClause,
		order: noClause,
		limit: noClause,
	}
}

type deleteStatementImpl struct {
	table   *Table
	where   Clause
	order   Clause
	limit   Clause
	comment string

	err error
}

func (d *deleteStatementImpl) copy() *deleteStatementImpl {
	c := *d
	return &c
}

func (d *deleteStatementImpl) setErr(err error) {
	if d.err == nil && err != nil {
		d.err = err
	}
}

func (d *deleteStatementImpl) Err() error {
	return d.err
}

func (d *deleteStatementImpl) Where(expression BoolExpression) DeleteStatement {
	c := d.copy()
	c.where = newWhereClause(expression)
	if expression != nil {
		c.setErr(checkClause(d.table, expression))
	}
	return c
}

func (d *deleteStatementImpl) OrderBy(
	clauses ...OrderByClause) DeleteStatement {

	c := d.copy()
	c.order = newOrderByListClause(clauses...)
	c.setErr(checkClause(d.table, c.order))
	return c
}

func (d *deleteStatementImpl) Limit(limit int64) DeleteStatement {
	c := d.copy()
	var err error
	c.limit, err = newLimitClause(BindAs(limit, BigInt))
	c.setErr(err)
	return c
}

func (d *deleteStatementImpl) Comment(comment string) DeleteStatement {
	c := d.copy()
	c.comment = comment
	return c
}

func (d *deleteStatementImpl) Render(db Database) (*Rendered, error) {
	return render(db, d)
}

func (d *deleteStatementImpl) String(db Database) (sql string, err error) {
	return renderString(db, d)
}

func (d *deleteStatementImpl) SerializeSql(out *QueryBuilder) (err error) {
	if d.err != nil {
		return d.err
	}

	_, _ = out.WriteString("DELETE FROM ")

	if err = writeComment(d.comment, out); err != nil {
		return
	}

	if d.table == nil {
		return errors.Newf("nil table.  Generated sql: %s", out.String())
	}

	if err = d.table.SerializeSql(out); err != nil {
		return
	}

	if isNoop(d.where) {
		return errors.Newf(
			"Deleting without a WHERE clause.  Generated sql: %s",
			out.String())
	}

	return serializeMutationTail(out, d.where, d.order, d.limit)
}
