// Foreign key relationships used to derive join conditions

package sqlbuilder

import (
	"github.com/typedsql/typedsql/errors"
)

type foreignKey struct {
	child  NonAliasColumn
	parent NonAliasColumn
}

func (fk foreignKey) childTable() *Table {
	return asBaseColumn(fk.child).table
}

func (fk foreignKey) parentTable() *Table {
	return asBaseColumn(fk.parent).table
}

// Returns true if the key relates a table in from with a table in to, in
// either direction.
func (fk foreignKey) links(from *nullScope, to *nullScope) bool {
	child := fk.childTable()
	parent := fk.parentTable()
	return (from.contains(child) && to.contains(parent)) ||
		(from.contains(parent) && to.contains(child))
}

func (fk foreignKey) condition() BoolExpression {
	return Eq(fk.child, fk.parent)
}

// A Schema groups tables and the foreign keys between them.  Implied joins
// (InnerJoin, LeftOuterJoin) derive their ON condition from the schema's
// foreign keys.
//
// Schemas are set up once, before any query is built, and are read-only
// afterwards.
type Schema struct {
	tables      []*Table
	foreignKeys []foreignKey
}

// Creates a schema of the given tables.  This function will panic if a
// table already belongs to another schema.
func NewSchema(tables ...*Table) *Schema {
	s := &Schema{}
	for _, t := range tables {
		if t == nil {
			panic("nil table in schema")
		}
		t = t.identity()
		if t.schema != nil && t.schema != s {
			panic("Table " + t.name + " already belongs to a schema")
		}
		t.schema = s
		s.tables = append(s.tables, t)
	}
	return s
}

func (s *Schema) Tables() []*Table {
	tables := make([]*Table, len(s.tables))
	copy(tables, s.tables)
	return tables
}

func (s *Schema) hasTable(t *Table) bool {
	for _, table := range s.tables {
		if table == t {
			return true
		}
	}
	return false
}

// Declares that child references parent.  This function will panic if
// either column does not belong to a table of the schema, or if the columns
// can not be compared.
func (s *Schema) AddForeignKey(child NonAliasColumn, parent NonAliasColumn) *Schema {
	childBase := asBaseColumn(child)
	parentBase := asBaseColumn(parent)
	if childBase == nil || parentBase == nil {
		panic("Foreign keys must be declared between table columns")
	}
	if !s.hasTable(childBase.table) || !s.hasTable(parentBase.table) {
		panic("Foreign key columns must belong to tables of the schema")
	}
	if childBase.table == parentBase.table {
		panic("Self referencing foreign keys can not be used to join")
	}
	if !comparableTypes(childBase.sqlType, parentBase.sqlType) {
		panic(
			"Foreign key " + childBase.name + " (" + childBase.sqlType.String() +
				") can not reference " + parentBase.name + " (" +
				parentBase.sqlType.String() + ")")
	}

	s.foreignKeys = append(s.foreignKeys, foreignKey{child: child, parent: parent})
	return s
}

func (s *Schema) relationships(from *nullScope, to *nullScope) []foreignKey {
	result := make([]foreignKey, 0, 1)
	for _, fk := range s.foreignKeys {
		if fk.links(from, to) {
			result = append(result, fk)
		}
	}
	return result
}

// Returns the schema of the tables in scope.
func schemaOf(scope *nullScope) *Schema {
	for _, t := range scope.tables {
		if t.schema != nil {
			return t.schema
		}
	}
	return nil
}

func tableScope(t *Table) *nullScope {
	s := newNullScope()
	s.add(t, nil)
	return s
}

// Joins lhs and rhs on the foreign key relating them.  If none relates them
// directly, but exactly one other table of the schema relates to both, the
// join goes through that table:
//
//   lhs <kind> JOIN (mid INNER JOIN rhs ON <mid-rhs key>) ON <lhs-mid key>
//
// The intermediate table is not part of the resulting row.  A table can
// appear on at most one side.
func impliedJoin(
	lhs ReadableTable,
	rhs ReadableTable,
	kind joinType) (ReadableTable, error) {

	if lhs == nil || rhs == nil {
		return nil, errors.Wrap(ErrInvalidJoin, "Cannot join a nil table")
	}

	lhsScope := lhs.scope()
	rhsScope := rhs.scope()

	for _, t := range rhsScope.tables {
		if lhsScope.contains(t) {
			return nil, errors.Wrapf(
				ErrInvalidJoin,
				"Table '%s' is already part of the join",
				t.name)
		}
	}

	schema := schemaOf(lhsScope)
	if schema == nil || schemaOf(rhsScope) != schema {
		return nil, errors.Wrap(
			ErrUnknownRelationship,
			"Joined tables do not share a schema")
	}

	keys := schema.relationships(lhsScope, rhsScope)
	switch len(keys) {
	case 1:
		return newJoinTable(lhs, rhs, kind, keys[0].condition()), nil
	case 0:
		// try joining through another table
	default:
		return nil, errors.Wrapf(
			ErrAmbiguousRelationship,
			"%d foreign keys relate the joined tables",
			len(keys))
	}

	type through struct {
		mid    *Table
		lhsKey foreignKey
		rhsKey foreignKey
	}
	candidates := make([]through, 0, 1)
	for _, mid := range schema.tables {
		if lhsScope.contains(mid) || rhsScope.contains(mid) {
			continue
		}
		midScope := tableScope(mid)
		lhsKeys := schema.relationships(lhsScope, midScope)
		rhsKeys := schema.relationships(midScope, rhsScope)
		if len(lhsKeys) == 1 && len(rhsKeys) == 1 {
			candidates = append(
				candidates,
				through{mid: mid, lhsKey: lhsKeys[0], rhsKey: rhsKeys[0]})
		}
	}

	switch len(candidates) {
	case 0:
		return nil, errors.Wrapf(
			ErrUnknownRelationship,
			"No foreign key relates %s to %s",
			tableNames(lhsScope),
			tableNames(rhsScope))
	case 1:
		c := candidates[0]
		nested := newJoinTable(c.mid, rhs, INNER_JOIN, c.rhsKey.condition())
		nested.hiddenLhs = true
		return newJoinTable(lhs, nested, kind, c.lhsKey.condition()), nil
	default:
		return nil, errors.Wrapf(
			ErrAmbiguousRelationship,
			"%d tables relate %s to %s",
			len(candidates),
			tableNames(lhsScope),
			tableNames(rhsScope))
	}
}

func tableNames(scope *nullScope) []string {
	names := make([]string, len(scope.tables))
	for i, t := range scope.tables {
		names[i] = t.name
	}
	return names
}
