package sqlbuilder

// A fragment of sql.  SerializeSql appends the fragment's text (and any
// bind parameters) to out.  Serialization never modifies the clause, so a
// clause may be rendered any number of times, concurrently, each with its
// own QueryBuilder.
type Clause interface {
	SerializeSql(out *QueryBuilder) error
}

// A clause that can be used in order by
type OrderByClause interface {
	Clause
	isOrderByClauseInterface
}

// An expression
type Expression interface {
	Clause
	isExpressionInterface

	// The sql type tag of the value this expression produces, as declared.
	// Nullability introduced by outer joins is applied by the query the
	// expression is used in; see SelectStatement.RowType.
	SqlType() SqlType
}

type BoolExpression interface {
	Expression
	isBoolExpressionInterface
}

// A clause that is selectable.
type Projection interface {
	Clause
	isProjectionInterface
	SerializeSqlForColumnList(out *QueryBuilder) error
	SqlType() SqlType
}

//
// Boiler plates ...
//

type isOrderByClauseInterface interface {
	isOrderByClauseType()
}

type isOrderByClause struct {
}

func (o *isOrderByClause) isOrderByClauseType() {
}

type isExpressionInterface interface {
	isExpressionType()
}

type isExpression struct {
	isOrderByClause // can always use expression in order by.
}

func (e *isExpression) isExpressionType() {
}

type isBoolExpressionInterface interface {
	isExpressionInterface
	isBoolExpressionType()
}

type isBoolExpression struct {
}

func (e *isBoolExpression) isBoolExpressionType() {
}

func (e *isBoolExpression) SqlType() SqlType {
	return Bool
}

type isProjectionInterface interface {
	isProjectionType()
}

type isProjection struct {
}

func (p *isProjection) isProjectionType() {
}
