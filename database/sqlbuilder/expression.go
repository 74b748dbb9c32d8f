// Query building functions for expression components
package sqlbuilder

import (
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/typedsql/typedsql/database/sqltypes"
	"github.com/typedsql/typedsql/errors"
)

type orderByClause struct {
	isOrderByClause
	expression Expression
	ascent     bool
}

func (o *orderByClause) SerializeSql(out *QueryBuilder) error {
	if o.expression == nil {
		return errors.Newf(
			"nil order by clause.  Generated sql: %s",
			out.String())
	}

	if err := o.expression.SerializeSql(out); err != nil {
		return err
	}

	if o.ascent {
		_, _ = out.WriteString(" ASC")
	} else {
		_, _ = out.WriteString(" DESC")
	}

	return nil
}

func Asc(expression Expression) OrderByClause {
	return &orderByClause{expression: expression, ascent: true}
}

func Desc(expression Expression) OrderByClause {
	return &orderByClause{expression: expression, ascent: false}
}

// Returns the sql type a go value is bound / inlined as.
func inferSqlType(v interface{}) (SqlType, error) {
	switch val := v.(type) {
	case nil:
		return Null, nil
	case bool:
		return Bool, nil
	case int8, int16, int32, uint8, uint16:
		return Integer, nil
	case int, int64, uint, uint32, uint64, sqltypes.Numeric:
		return BigInt, nil
	case float64, sqltypes.Fractional:
		return Double, nil
	case string, sqltypes.String:
		return Text, nil
	case []byte:
		return Bytes, nil
	case time.Time:
		return DateTime, nil
	case sqltypes.Value:
		switch {
		case val.IsNull():
			return Null, nil
		case val.IsNumeric():
			return BigInt, nil
		case val.IsFractional():
			return Double, nil
		case val.IsUtf8String():
			return Text, nil
		default:
			return Bytes, nil
		}
	}
	return SqlType{}, errors.Newf("Unsupported value type %T: %v", v, v)
}

// Converts the go types sqltypes does not know about.
func normalizeGoValue(v interface{}) interface{} {
	switch val := v.(type) {
	case int8:
		return int32(val)
	case int16:
		return int32(val)
	case uint16:
		return uint32(val)
	}
	return v
}

// Representation of an escaped literal
type literalExpression struct {
	isExpression
	value   sqltypes.Value
	sqlType SqlType
}

func (c *literalExpression) SerializeSql(out *QueryBuilder) error {
	out.WriteLiteral(c.value)
	return nil
}

func (c *literalExpression) SqlType() SqlType {
	return c.sqlType
}

// Representation of a bind parameter
type bindExpression struct {
	isExpression
	value   sqltypes.Value
	sqlType SqlType
	err     error
}

func (c *bindExpression) SerializeSql(out *QueryBuilder) error {
	if c.err != nil {
		return errors.Wrapf(
			c.err,
			"Invalid bind value.  Generated sql: %s",
			out.String())
	}
	return out.WriteBind(c.value, c.sqlType)
}

func (c *bindExpression) SqlType() SqlType {
	return c.sqlType
}

// Returns a bind parameter (a placeholder in the generated sql) holding v.
// The sql type is inferred from v's go type.  Unsupported types are
// reported when the query is rendered.
func Bind(v interface{}) Expression {
	sqlType, err := inferSqlType(v)
	if err != nil {
		return &bindExpression{err: errors.Wrap(ErrEncode, err.Error())}
	}
	return BindAs(v, sqlType)
}

// Returns a bind parameter holding v, bound as sqlType.  v must be
// encodable as sqlType (e.g. nil requires a nullable type); otherwise
// rendering fails.
func BindAs(v interface{}, sqlType SqlType) Expression {
	value, err := sqltypes.BuildValue(normalizeGoValue(v))
	if err != nil {
		return &bindExpression{
			sqlType: sqlType,
			err:     errors.Wrap(ErrEncode, err.Error()),
		}
	}
	return &bindExpression{value: value, sqlType: sqlType}
}

func serializeClauses(
	clauses []Clause,
	separator []byte,
	out *QueryBuilder) (err error) {

	if len(clauses) == 0 {
		return errors.Newf("Empty clauses.  Generated sql: %s", out.String())
	}

	if clauses[0] == nil {
		return errors.Newf("nil clause.  Generated sql: %s", out.String())
	}
	if err = clauses[0].SerializeSql(out); err != nil {
		return
	}

	for _, c := range clauses[1:] {
		_, _ = out.Write(separator)

		if c == nil {
			return errors.Newf("nil clause.  Generated sql: %s", out.String())
		}
		if err = c.SerializeSql(out); err != nil {
			return
		}
	}

	return nil
}

func expressionTypes(expressions []Expression) []SqlType {
	types := make([]SqlType, 0, len(expressions))
	for _, e := range expressions {
		if e != nil {
			types = append(types, e.SqlType())
		}
	}
	return types
}

// Representation of n-ary conjunctions (AND/OR)
type conjunctExpression struct {
	isExpression
	isBoolExpression
	expressions []BoolExpression
	conjunction []byte
}

func (conj *conjunctExpression) SerializeSql(out *QueryBuilder) (err error) {
	if len(conj.expressions) == 0 {
		return errors.Newf(
			"Empty conjunction.  Generated sql: %s",
			out.String())
	}

	clauses := make([]Clause, len(conj.expressions), len(conj.expressions))
	for i, expr := range conj.expressions {
		if expr != nil {
			clauses[i] = expr
		}
	}

	useParentheses := len(clauses) > 1
	if useParentheses {
		_ = out.WriteByte('(')
	}

	if err = serializeClauses(clauses, conj.conjunction, out); err != nil {
		return
	}

	if useParentheses {
		_ = out.WriteByte(')')
	}

	return nil
}

func (conj *conjunctExpression) SqlType() SqlType {
	for _, e := range conj.expressions {
		if e != nil && e.SqlType().IsNullable() {
			return MakeNullable(Bool)
		}
	}
	return Bool
}

// Representation of n-ary arithmetic (+ - * /)
type arithmeticExpression struct {
	isExpression
	expressions []Expression
	operator    []byte
}

func (arith *arithmeticExpression) SerializeSql(out *QueryBuilder) (err error) {
	if len(arith.expressions) == 0 {
		return errors.Newf(
			"Empty arithmetic expression.  Generated sql: %s",
			out.String())
	}

	clauses := make([]Clause, len(arith.expressions), len(arith.expressions))
	for i, expr := range arith.expressions {
		if expr != nil {
			clauses[i] = expr
		}
	}

	useParentheses := len(clauses) > 1
	if useParentheses {
		_ = out.WriteByte('(')
	}

	if err = serializeClauses(clauses, arith.operator, out); err != nil {
		return
	}

	if useParentheses {
		_ = out.WriteByte(')')
	}

	return nil
}

func (arith *arithmeticExpression) SqlType() SqlType {
	return widenTypes(expressionTypes(arith.expressions)...)
}

// A tuple is both an expression (a row value, rendered in parentheses) and
// a projection (rendered as a flat column list).  Its sql type is the
// composite of its members' types.
type TupleExpression interface {
	Expression
	Projection

	Members() []Expression
}

type tupleExpression struct {
	isExpression
	isProjection
	members []Expression
}

func (tuple *tupleExpression) SerializeSql(out *QueryBuilder) error {
	if len(tuple.members) < 1 {
		return errors.Newf(
			"Tuples must include at least one element.  Generated sql: %s",
			out.String())
	}
	_ = out.WriteByte('(')
	if err := tuple.serializeMembers(out); err != nil {
		return err
	}
	_ = out.WriteByte(')')
	return nil
}

func (tuple *tupleExpression) SerializeSqlForColumnList(out *QueryBuilder) error {
	if len(tuple.members) < 1 {
		return errors.Newf(
			"Tuples must include at least one element.  Generated sql: %s",
			out.String())
	}
	return tuple.serializeMembers(out)
}

func (tuple *tupleExpression) serializeMembers(out *QueryBuilder) error {
	for i, member := range tuple.members {
		if i > 0 {
			_ = out.WriteByte(',')
		}
		if member == nil {
			return errors.Newf("nil tuple member.  Generated sql: %s", out.String())
		}

		var err error
		if p, ok := member.(Projection); ok {
			err = p.SerializeSqlForColumnList(out)
		} else {
			err = member.SerializeSql(out)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (tuple *tupleExpression) SqlType() SqlType {
	return Composite(expressionTypes(tuple.members)...)
}

func (tuple *tupleExpression) Members() []Expression {
	members := make([]Expression, len(tuple.members))
	copy(members, tuple.members)
	return members
}

func Tuple(exprs ...Expression) TupleExpression {
	members := make([]Expression, len(exprs))
	copy(members, exprs)
	return &tupleExpression{members: members}
}

// Representation of a tuple enclosed, comma separated list of clauses
type listClause struct {
	clauses            []Clause
	includeParentheses bool
}

func (list *listClause) SerializeSql(out *QueryBuilder) error {
	if list.includeParentheses {
		_ = out.WriteByte('(')
	}

	if err := serializeClauses(list.clauses, []byte(","), out); err != nil {
		return err
	}

	if list.includeParentheses {
		_ = out.WriteByte(')')
	}
	return nil
}

// A not expression which negates a expression value
type negateExpression struct {
	isExpression
	isBoolExpression

	nested BoolExpression
}

func (c *negateExpression) SerializeSql(out *QueryBuilder) (err error) {
	_, _ = out.WriteString("NOT (")

	if c.nested == nil {
		return errors.Newf("nil nested.  Generated sql: %s", out.String())
	}
	if err = c.nested.SerializeSql(out); err != nil {
		return
	}

	_ = out.WriteByte(')')
	return nil
}

func (c *negateExpression) SqlType() SqlType {
	if c.nested == nil {
		return Bool
	}
	return c.nested.SqlType()
}

// Returns a representation of "not expr"
func Not(expr BoolExpression) BoolExpression {
	return &negateExpression{
		nested: expr,
	}
}

// Representation of binary operations (e.g. comparisons, arithmetic)
type binaryExpression struct {
	isExpression
	lhs, rhs Expression
	operator []byte
}

func (c *binaryExpression) SerializeSql(out *QueryBuilder) (err error) {
	if c.lhs == nil {
		return errors.Newf("nil lhs.  Generated sql: %s", out.String())
	}
	if err = c.lhs.SerializeSql(out); err != nil {
		return
	}

	_, _ = out.Write(c.operator)

	if c.rhs == nil {
		return errors.Newf("nil rhs.  Generated sql: %s", out.String())
	}
	if err = c.rhs.SerializeSql(out); err != nil {
		return
	}

	return nil
}

func (c *binaryExpression) SqlType() SqlType {
	return widenTypes(expressionTypes([]Expression{c.lhs, c.rhs})...)
}

// A binary expression that evaluates to a boolean value.
type boolExpression struct {
	isBoolExpression
	binaryExpression

	// Set when the operands can never be compared.
	err error
}

func newBoolExpression(lhs, rhs Expression, operator []byte) *boolExpression {
	// go does not allow {} syntax for initializing promoted fields ...
	expr := new(boolExpression)
	expr.lhs = lhs
	expr.rhs = rhs
	expr.operator = operator

	if lhs != nil && rhs != nil {
		lt := lhs.SqlType()
		rt := rhs.SqlType()
		if lt.IsValid() && rt.IsValid() {
			if !comparableTypes(lt, rt) {
				expr.err = errors.Wrapf(
					ErrTypeMismatch,
					"Cannot compare %s with %s",
					lt,
					rt)
			}
		}
	}
	return expr
}

func (c *boolExpression) SerializeSql(out *QueryBuilder) error {
	if c.err != nil {
		return errors.Wrapf(c.err, "Generated sql: %s", out.String())
	}
	return c.binaryExpression.SerializeSql(out)
}

func (c *boolExpression) SqlType() SqlType {
	// IS NULL / IS NOT NULL
	if c.rhs != nil && isNullLiteral(c.rhs) {
		return Bool
	}
	for _, e := range []Expression{c.lhs, c.rhs} {
		if e != nil && e.SqlType().IsNullable() && !isNullLiteral(e) {
			return MakeNullable(Bool)
		}
	}
	return Bool
}

func isNullLiteral(e Expression) bool {
	lit, ok := e.(*literalExpression)
	return ok && lit.value.IsNull()
}

type funcExpression struct {
	isExpression
	funcName string
	args     *listClause
	sqlType  SqlType
	// Aggregates like COUNT never produce NULL, even over outer joined
	// columns.
	neverNull bool
}

func (c *funcExpression) SerializeSql(out *QueryBuilder) (err error) {
	if !validIdentifierName(c.funcName) {
		return errors.Newf(
			"Invalid function name: %s.  Generated sql: %s",
			c.funcName,
			out.String())
	}
	_, _ = out.WriteString(c.funcName)
	if c.args == nil {
		_, _ = out.WriteString("()")
	} else {
		return c.args.SerializeSql(out)
	}
	return nil
}

func (c *funcExpression) SqlType() SqlType {
	return c.sqlType
}

func newFuncExpression(
	sqlType SqlType,
	funcName string,
	expressions []Expression) *funcExpression {

	f := &funcExpression{
		funcName: funcName,
		sqlType:  sqlType,
	}
	if len(expressions) > 0 {
		args := make([]Clause, len(expressions), len(expressions))
		for i, expr := range expressions {
			if expr != nil {
				args[i] = expr
			}
		}

		f.args = &listClause{
			clauses:            args,
			includeParentheses: true,
		}
	}
	return f
}

// Returns a representation of sql function call "func_call(c[0], ..., c[n-1])
// The result has the first argument's type (which fits LOWER, MAX,
// COALESCE and friends); use SqlFuncAs for anything else.
func SqlFunc(funcName string, expressions ...Expression) Expression {
	sqlType := SqlType{}
	if len(expressions) > 0 && expressions[0] != nil {
		sqlType = expressions[0].SqlType()
	}
	return newFuncExpression(sqlType, funcName, expressions)
}

// Same as SqlFunc, but with an explicit result type.
func SqlFuncAs(
	sqlType SqlType,
	funcName string,
	expressions ...Expression) Expression {

	return newFuncExpression(sqlType, funcName, expressions)
}

// Returns a representation of "COUNT(expr)"
func Count(expr Expression) Expression {
	f := newFuncExpression(BigInt, "COUNT", []Expression{expr})
	f.neverNull = true
	return f
}

type intervalExpression struct {
	isExpression
	duration time.Duration
	negative bool
}

var intervalSep = ":"

func (c *intervalExpression) SerializeSql(out *QueryBuilder) (err error) {
	hours := c.duration / time.Hour
	minutes := (c.duration % time.Hour) / time.Minute
	sec := (c.duration % time.Minute) / time.Second
	msec := (c.duration % time.Second) / time.Microsecond
	_, _ = out.WriteString("INTERVAL '")
	if c.negative {
		_, _ = out.WriteString("-")
	}
	_, _ = out.WriteString(strconv.FormatInt(int64(hours), 10))
	_, _ = out.WriteString(intervalSep)
	_, _ = out.WriteString(strconv.FormatInt(int64(minutes), 10))
	_, _ = out.WriteString(intervalSep)
	_, _ = out.WriteString(strconv.FormatInt(int64(sec), 10))
	_, _ = out.WriteString(intervalSep)
	_, _ = out.WriteString(strconv.FormatInt(int64(msec), 10))
	_, _ = out.WriteString("' HOUR_MICROSECOND")
	return nil
}

func (c *intervalExpression) SqlType() SqlType {
	return Interval
}

// Interval returns a representation of duration
// in a form "INTERVAL `hour:min:sec:microsec` HOUR_MICROSECOND"
func NewInterval(duration time.Duration) Expression {
	negative := false
	if duration < 0 {
		negative = true
		duration = -duration
	}
	return &intervalExpression{
		duration: duration,
		negative: negative,
	}
}

var likeEscaper = strings.NewReplacer("_", "\\_", "%", "\\%")

func EscapeForLike(s string) string {
	return likeEscaper.Replace(s)
}

// Returns an escaped literal.  The sql type is inferred from v's go type.
// This function will panic if v's type is not supported.
func Literal(v interface{}) Expression {
	sqlType, err := inferSqlType(v)
	if err != nil {
		panic(errors.Wrap(err, "Invalid literal value"))
	}
	value, err := sqltypes.BuildValue(normalizeGoValue(v))
	if err != nil {
		panic(errors.Wrap(err, "Invalid literal value"))
	}
	return &literalExpression{value: value, sqlType: sqlType}
}

// Returns a representation of "c[0] AND ... AND c[n-1]" for c in clauses
func And(expressions ...BoolExpression) BoolExpression {
	return &conjunctExpression{
		expressions: expressions,
		conjunction: []byte(" AND "),
	}
}

// Returns a representation of "c[0] OR ... OR c[n-1]" for c in clauses
func Or(expressions ...BoolExpression) BoolExpression {
	return &conjunctExpression{
		expressions: expressions,
		conjunction: []byte(" OR "),
	}
}

func Like(lhs, rhs Expression) BoolExpression {
	return newBoolExpression(lhs, rhs, []byte(" LIKE "))
}

func LikeL(lhs Expression, val string) BoolExpression {
	return Like(lhs, Literal(val))
}

func Regexp(lhs, rhs Expression) BoolExpression {
	return newBoolExpression(lhs, rhs, []byte(" REGEXP "))
}

func RegexpL(lhs Expression, val string) BoolExpression {
	return Regexp(lhs, Literal(val))
}

// Returns a representation of "c[0] + ... + c[n-1]" for c in clauses
func Add(expressions ...Expression) Expression {
	return &arithmeticExpression{
		expressions: expressions,
		operator:    []byte(" + "),
	}
}

// Returns a representation of "c[0] - ... - c[n-1]" for c in clauses
func Sub(expressions ...Expression) Expression {
	return &arithmeticExpression{
		expressions: expressions,
		operator:    []byte(" - "),
	}
}

// Returns a representation of "c[0] * ... * c[n-1]" for c in clauses
func Mul(expressions ...Expression) Expression {
	return &arithmeticExpression{
		expressions: expressions,
		operator:    []byte(" * "),
	}
}

// Returns a representation of "c[0] / ... / c[n-1]" for c in clauses
func Div(expressions ...Expression) Expression {
	return &arithmeticExpression{
		expressions: expressions,
		operator:    []byte(" / "),
	}
}

// Returns a representation of "a=b"
func Eq(lhs, rhs Expression) BoolExpression {
	if rhs != nil && isNullLiteral(rhs) {
		return newBoolExpression(lhs, rhs, []byte(" IS "))
	}
	return newBoolExpression(lhs, rhs, []byte("="))
}

// Returns a representation of "a=b", where b is a literal
func EqL(lhs Expression, val interface{}) BoolExpression {
	return Eq(lhs, Literal(val))
}

// Returns a representation of "a!=b"
func Neq(lhs, rhs Expression) BoolExpression {
	if rhs != nil && isNullLiteral(rhs) {
		return newBoolExpression(lhs, rhs, []byte(" IS NOT "))
	}
	return newBoolExpression(lhs, rhs, []byte("!="))
}

// Returns a representation of "a!=b", where b is a literal
func NeqL(lhs Expression, val interface{}) BoolExpression {
	return Neq(lhs, Literal(val))
}

// Returns a representation of "a<b"
func Lt(lhs Expression, rhs Expression) BoolExpression {
	return newBoolExpression(lhs, rhs, []byte("<"))
}

// Returns a representation of "a<b", where b is a literal
func LtL(lhs Expression, val interface{}) BoolExpression {
	return Lt(lhs, Literal(val))
}

// Returns a representation of "a<=b"
func Lte(lhs, rhs Expression) BoolExpression {
	return newBoolExpression(lhs, rhs, []byte("<="))
}

// Returns a representation of "a<=b", where b is a literal
func LteL(lhs Expression, val interface{}) BoolExpression {
	return Lte(lhs, Literal(val))
}

// Returns a representation of "a>b"
func Gt(lhs, rhs Expression) BoolExpression {
	return newBoolExpression(lhs, rhs, []byte(">"))
}

// Returns a representation of "a>b", where b is a literal
func GtL(lhs Expression, val interface{}) BoolExpression {
	return Gt(lhs, Literal(val))
}

// Returns a representation of "a>=b"
func Gte(lhs, rhs Expression) BoolExpression {
	return newBoolExpression(lhs, rhs, []byte(">="))
}

// Returns a representation of "a>=b", where b is a literal
func GteL(lhs Expression, val interface{}) BoolExpression {
	return Gte(lhs, Literal(val))
}

func BitOr(lhs, rhs Expression) Expression {
	return &binaryExpression{
		lhs:      lhs,
		rhs:      rhs,
		operator: []byte(" | "),
	}
}

func BitAnd(lhs, rhs Expression) Expression {
	return &binaryExpression{
		lhs:      lhs,
		rhs:      rhs,
		operator: []byte(" & "),
	}
}

func BitXor(lhs, rhs Expression) Expression {
	return &binaryExpression{
		lhs:      lhs,
		rhs:      rhs,
		operator: []byte(" ^ "),
	}
}

func Plus(lhs, rhs Expression) Expression {
	return &binaryExpression{
		lhs:      lhs,
		rhs:      rhs,
		operator: []byte(" + "),
	}
}

func Minus(lhs, rhs Expression) Expression {
	return &binaryExpression{
		lhs:      lhs,
		rhs:      rhs,
		operator: []byte(" - "),
	}
}

// in expression representation
type inExpression struct {
	isExpression
	isBoolExpression

	lhs Expression
	rhs *listClause

	err error
}

func (c *inExpression) SerializeSql(out *QueryBuilder) error {
	if c.err != nil {
		return errors.Wrap(c.err, "Invalid IN expression")
	}

	if c.lhs == nil {
		return errors.Newf(
			"lhs of in expression is nil.  Generated sql: %s",
			out.String())
	}

	// We'll serialize the lhs even if we don't need it to ensure no error
	mark := out.mark()

	err := c.lhs.SerializeSql(out)
	if err != nil {
		return err
	}

	if c.rhs == nil {
		out.rollback(mark)
		_, _ = out.WriteString("FALSE")
		return nil
	}

	_, _ = out.WriteString(" IN ")

	err = c.rhs.SerializeSql(out)
	if err != nil {
		return err
	}

	return nil
}

// Returns a representation of "a IN (b[0], ..., b[n-1])", where b is a list
// of literals valList must be a slice type
func In(lhs Expression, valList interface{}) BoolExpression {
	list := reflect.ValueOf(valList)
	if list.Kind() != reflect.Slice || list.Type().Elem().Kind() == reflect.Uint8 {
		return &inExpression{
			err: errors.Newf(
				"Unknown value list type in IN clause: %s",
				reflect.TypeOf(valList)),
		}
	}

	clauses := make([]Clause, 0, list.Len())
	for i := 0; i < list.Len(); i++ {
		v := list.Index(i).Interface()
		sqlType, err := inferSqlType(v)
		if err != nil {
			return &inExpression{
				err: errors.Wrap(err, "Unsupported value in IN clause"),
			}
		}
		value, err := sqltypes.BuildValue(normalizeGoValue(v))
		if err != nil {
			return &inExpression{
				err: errors.Wrap(err, "Unsupported value in IN clause"),
			}
		}
		clauses = append(clauses, &literalExpression{value: value, sqlType: sqlType})
	}

	expr := &inExpression{lhs: lhs}
	if len(clauses) > 0 {
		expr.rhs = &listClause{clauses: clauses, includeParentheses: true}
	}
	return expr
}

type ifExpression struct {
	isExpression
	conditional     BoolExpression
	trueExpression  Expression
	falseExpression Expression
}

func (exp *ifExpression) SerializeSql(out *QueryBuilder) error {
	if exp.conditional == nil ||
		exp.trueExpression == nil ||
		exp.falseExpression == nil {

		return errors.Newf("nil if clause.  Generated sql: %s", out.String())
	}

	if _, ok := unifyTypes(
		exp.trueExpression.SqlType(),
		exp.falseExpression.SqlType()); !ok {

		return errors.Wrapf(
			ErrTypeMismatch,
			"IF branches have incompatible types %s and %s",
			exp.trueExpression.SqlType(),
			exp.falseExpression.SqlType())
	}

	_, _ = out.WriteString("IF(")
	if err := exp.conditional.SerializeSql(out); err != nil {
		return err
	}
	_, _ = out.WriteString(",")
	if err := exp.trueExpression.SerializeSql(out); err != nil {
		return err
	}
	_, _ = out.WriteString(",")
	if err := exp.falseExpression.SerializeSql(out); err != nil {
		return err
	}
	_, _ = out.WriteString(")")
	return nil
}

func (exp *ifExpression) SqlType() SqlType {
	if exp.trueExpression == nil || exp.falseExpression == nil {
		return SqlType{}
	}
	t, _ := unifyTypes(
		exp.trueExpression.SqlType(),
		exp.falseExpression.SqlType())
	return t
}

// Returns a representation of an if-expression, of the form:
//   IF (BOOLEAN TEST, VALUE-IF-TRUE, VALUE-IF-FALSE)
func If(conditional BoolExpression,
	trueExpression Expression,
	falseExpression Expression) Expression {
	return &ifExpression{
		conditional:     conditional,
		trueExpression:  trueExpression,
		falseExpression: falseExpression,
	}
}

type columnValueExpression struct {
	isExpression
	column NonAliasColumn
}

func ColumnValue(col NonAliasColumn) Expression {
	return &columnValueExpression{
		column: col,
	}
}

func (cv *columnValueExpression) SerializeSql(out *QueryBuilder) error {
	_, _ = out.WriteString("VALUES(")
	if err := cv.column.SerializeSqlForColumnList(out); err != nil {
		return err
	}
	_ = out.WriteByte(')')
	return nil
}

func (cv *columnValueExpression) SqlType() SqlType {
	return cv.column.SqlType()
}
