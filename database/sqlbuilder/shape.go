// Row shapes and outer join nullability

package sqlbuilder

// Anything with a sql type: expressions, projections and columns.
type typedClause interface {
	Clause
	SqlType() SqlType
}

// Implemented by real table columns (and lookup columns resolving to one).
type columnBase interface {
	base() *baseColumn
}

// One entry of a row shape.
type ShapeEntry struct {
	// The table the value is read from, or nil for computed values.
	Table *Table
	// The column (or alias) name, or "" for unnamed computed values.
	Name string
	Type SqlType
}

// The ordered entries a row is made of.
type RowShape []ShapeEntry

func (s RowShape) Types() []SqlType {
	types := make([]SqlType, len(s))
	for i, e := range s {
		types[i] = e.Type
	}
	return types
}

func (s RowShape) Equals(other RowShape) bool {
	if len(s) != len(other) {
		return false
	}
	for i, e := range s {
		o := other[i]
		if e.Table != o.Table || e.Name != o.Name || !e.Type.Equals(o.Type) {
			return false
		}
	}
	return true
}

func shapeOf(source ReadableTable) RowShape {
	scope := source.scope()
	leaves := source.shapeLeaves()

	shape := make(RowShape, 0, len(leaves))
	for _, leaf := range leaves {
		entry := ShapeEntry{Type: scope.typeOf(leaf, nil)}
		if c := asBaseColumn(leaf); c != nil {
			entry.Table = c.table
		}
		if named, ok := leaf.(interface{ Name() string }); ok {
			entry.Name = named.Name()
		}
		shape = append(shape, entry)
	}
	return shape
}

// Flattens tuples into their members.
func projectionLeaves(p typedClause) []typedClause {
	tuple, ok := p.(TupleExpression)
	if !ok {
		return []typedClause{p}
	}
	leaves := make([]typedClause, 0)
	for _, m := range tuple.Members() {
		leaves = append(leaves, projectionLeaves(m)...)
	}
	return leaves
}

func asBaseColumn(c Clause) *baseColumn {
	if b, ok := c.(columnBase); ok {
		return b.base()
	}
	return nil
}

// The set of outer joins excluded from a nullability check.
type sideSet map[*joinTable]bool

// Tracks, for every table of a table expression, how often it appears and
// which outer joins can null it.
type nullScope struct {
	sides  map[*Table][]*joinTable
	counts map[*Table]int
	tables []*Table
}

func newNullScope() *nullScope {
	return &nullScope{
		sides:  make(map[*Table][]*joinTable),
		counts: make(map[*Table]int),
	}
}

func (s *nullScope) add(table *Table, sides []*joinTable) {
	if s.counts[table] == 0 {
		s.tables = append(s.tables, table)
	}
	s.counts[table]++

	existing := s.sides[table]
	for _, side := range sides {
		found := false
		for _, e := range existing {
			if e == side {
				found = true
				break
			}
		}
		if !found {
			existing = append(existing, side)
		}
	}
	s.sides[table] = existing
}

// Adds other's tables; side, if not nil, becomes one more outer join that
// can null them.
func (s *nullScope) merge(other *nullScope, side *joinTable) {
	for _, table := range other.tables {
		sides := other.sides[table]
		if side != nil {
			sides = append(append([]*joinTable{}, sides...), side)
		}
		for i := 0; i < other.counts[table]; i++ {
			s.add(table, sides)
		}
	}
}

func (s *nullScope) contains(table *Table) bool {
	return s.counts[table] > 0
}

// Returns the outer joins, other than the masked ones, that can null c.
func (s *nullScope) sidesOf(c *baseColumn, masked sideSet) []*joinTable {
	result := make([]*joinTable, 0)
	for _, side := range s.sides[c.table] {
		if !masked[side] {
			result = append(result, side)
		}
	}
	return result
}

func (s *nullScope) isNulled(c *baseColumn, masked sideSet) bool {
	return len(s.sidesOf(c, masked)) > 0
}

// Returns the type e has when read from this scope.
//
// A column is nullable if an outer join can null its table.  A tuple of
// columns that can all be nulled by the same outer join is nullable as a
// whole, since that join nulls either all of them or none; its members are
// typed without that join.  Null tests are never NULL.  Any other value is
// nullable if any column it references can be nulled.
func (s *nullScope) typeOf(e typedClause, masked sideSet) SqlType {
	if e == nil {
		return SqlType{}
	}

	if c := asBaseColumn(e); c != nil {
		if s.isNulled(c, masked) {
			return MakeNullable(c.sqlType)
		}
		return c.sqlType
	}

	switch expr := e.(type) {
	case *aliasColumn:
		if expr.expression == nil {
			return SqlType{}
		}
		return s.typeOf(expr.expression, masked)
	case TupleExpression:
		return s.tupleType(expr, masked)
	case *funcExpression:
		if expr.neverNull {
			return expr.sqlType
		}
	case *boolExpression:
		// IS NULL / IS NOT NULL
		if expr.rhs != nil && isNullLiteral(expr.rhs) {
			return Bool
		}
	}

	t := e.SqlType()
	for _, c := range referencedColumns(e) {
		if s.isNulled(c, masked) {
			return MakeNullable(t)
		}
	}
	return t
}

func (s *nullScope) tupleType(tuple TupleExpression, masked sideSet) SqlType {
	members := tuple.Members()

	common := s.commonSides(tuple, masked)
	if len(common) > 0 {
		inner := make(sideSet, len(masked)+len(common))
		for side := range masked {
			inner[side] = true
		}
		for _, side := range common {
			inner[side] = true
		}

		types := make([]SqlType, len(members))
		for i, m := range members {
			types[i] = s.typeOf(m, inner)
		}
		return MakeNullable(Composite(types...))
	}

	types := make([]SqlType, len(members))
	for i, m := range members {
		types[i] = s.typeOf(m, masked)
	}
	return Composite(types...)
}

// Returns the outer joins that can null every column of the tuple, or nil
// if some member is not a column.
func (s *nullScope) commonSides(
	tuple TupleExpression,
	masked sideSet) []*joinTable {

	columns, ok := leafColumns(tuple)
	if !ok || len(columns) == 0 {
		return nil
	}

	common := s.sidesOf(columns[0], masked)
	for _, c := range columns[1:] {
		sides := s.sidesOf(c, masked)
		kept := make([]*joinTable, 0, len(common))
		for _, side := range common {
			for _, other := range sides {
				if side == other {
					kept = append(kept, side)
					break
				}
			}
		}
		common = kept
		if len(common) == 0 {
			return nil
		}
	}
	return common
}

// Returns the columns a column-only value is made of.  ok is false if the
// value is (or contains) anything other than columns.
func leafColumns(e Clause) (columns []*baseColumn, ok bool) {
	if c := asBaseColumn(e); c != nil {
		return []*baseColumn{c}, true
	}

	switch expr := e.(type) {
	case *aliasColumn:
		if expr.expression == nil {
			return nil, false
		}
		return leafColumns(expr.expression)
	case TupleExpression:
		for _, m := range expr.Members() {
			if m == nil {
				return nil, false
			}
			cols, ok := leafColumns(m)
			if !ok {
				return nil, false
			}
			columns = append(columns, cols...)
		}
		return columns, true
	}
	return nil, false
}
