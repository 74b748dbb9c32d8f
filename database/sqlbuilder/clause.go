// Statement clauses.  Every clause slot of a statement always holds a clause;
// slots the caller did not set hold noClause, which renders nothing.  Each
// present clause writes its own leading space.

package sqlbuilder

import (
	"regexp"

	"github.com/typedsql/typedsql/errors"
)

type noopClause struct{}

func (noopClause) SerializeSql(out *QueryBuilder) error {
	return nil
}

var noClause Clause = noopClause{}

func isNoop(c Clause) bool {
	_, ok := c.(noopClause)
	return c == nil || ok
}

type selectClause struct {
	projections []Projection
	distinct    bool
	comment     string
}

func (c *selectClause) SerializeSql(out *QueryBuilder) error {
	_, _ = out.WriteString("SELECT ")

	if err := writeComment(c.comment, out); err != nil {
		return err
	}

	if c.distinct {
		_, _ = out.WriteString("DISTINCT ")
	}

	if len(c.projections) == 0 {
		return errors.Newf(
			"No column selected.  Generated sql: %s",
			out.String())
	}

	for i, col := range c.projections {
		if i > 0 {
			_ = out.WriteByte(',')
		}
		if col == nil {
			return errors.Newf(
				"nil column selected.  Generated sql: %s",
				out.String())
		}
		if err := col.SerializeSqlForColumnList(out); err != nil {
			return err
		}
	}
	return nil
}

type fromClause struct {
	table ReadableTable
}

func (c *fromClause) SerializeSql(out *QueryBuilder) error {
	_, _ = out.WriteString(" FROM ")
	if c.table == nil {
		return errors.Newf("nil table.  Generated sql: %s", out.String())
	}
	return c.table.SerializeSql(out)
}

type whereClause struct {
	predicate BoolExpression
}

func newWhereClause(predicate BoolExpression) Clause {
	if predicate == nil {
		return noClause
	}
	return &whereClause{predicate: predicate}
}

func (c *whereClause) SerializeSql(out *QueryBuilder) error {
	_, _ = out.WriteString(" WHERE ")
	return c.predicate.SerializeSql(out)
}

type groupByClause struct {
	list *listClause
}

func newGroupByClause(expressions []Expression) Clause {
	if len(expressions) == 0 {
		return noClause
	}
	list := &listClause{
		clauses:            make([]Clause, len(expressions), len(expressions)),
		includeParentheses: false,
	}
	for i, e := range expressions {
		if e != nil {
			list.clauses[i] = e
		}
	}
	return &groupByClause{list: list}
}

func (c *groupByClause) SerializeSql(out *QueryBuilder) error {
	_, _ = out.WriteString(" GROUP BY ")
	return c.list.SerializeSql(out)
}

type orderByListClause struct {
	list *listClause
}

func newOrderByListClause(clauses ...OrderByClause) Clause {
	if len(clauses) == 0 {
		return noClause
	}
	list := &listClause{
		clauses:            make([]Clause, len(clauses), len(clauses)),
		includeParentheses: false,
	}
	for i, c := range clauses {
		if c != nil {
			list.clauses[i] = c
		}
	}
	return &orderByListClause{list: list}
}

func (c *orderByListClause) SerializeSql(out *QueryBuilder) error {
	_, _ = out.WriteString(" ORDER BY ")
	return c.list.SerializeSql(out)
}

// LIMIT and OFFSET clauses.  The bound is a BigInt expression.
type limitClause struct {
	bound Expression
}

// Returns an error (wrapping ErrTypeMismatch) if bound is not a BigInt.
func newLimitClause(bound Expression) (Clause, error) {
	if err := checkBound(bound); err != nil {
		return noClause, err
	}
	return &limitClause{bound: bound}, nil
}

func (c *limitClause) SerializeSql(out *QueryBuilder) error {
	_, _ = out.WriteString(" LIMIT ")
	return c.bound.SerializeSql(out)
}

type offsetClause struct {
	bound Expression
}

func newOffsetClause(bound Expression) (Clause, error) {
	if err := checkBound(bound); err != nil {
		return noClause, err
	}
	return &offsetClause{bound: bound}, nil
}

func (c *offsetClause) SerializeSql(out *QueryBuilder) error {
	_, _ = out.WriteString(" OFFSET ")
	return c.bound.SerializeSql(out)
}

func checkBound(bound Expression) error {
	if bound == nil {
		return errors.Wrap(ErrTypeMismatch, "nil LIMIT/OFFSET bound")
	}
	if !bound.SqlType().Equals(BigInt) {
		return errors.Wrapf(
			ErrTypeMismatch,
			"LIMIT/OFFSET bound must be %s, not %s",
			BigInt,
			bound.SqlType())
	}
	return nil
}

// Stands in for LIMIT when only OFFSET is given.  Renders nothing for
// dialects that accept a bare OFFSET.
type unboundedLimitClause struct{}

func (unboundedLimitClause) SerializeSql(out *QueryBuilder) error {
	limit := out.Database().UnboundedLimit()
	if limit != "" {
		_, _ = out.WriteString(" LIMIT ")
		_, _ = out.WriteString(limit)
	}
	return nil
}

type lockMode int

const (
	sharedLock lockMode = iota
	updateLock
)

type lockClause struct {
	mode lockMode
}

func (c *lockClause) SerializeSql(out *QueryBuilder) error {
	db := out.Database()
	lock := db.SharedLockClause()
	if c.mode == updateLock {
		lock = db.ForUpdateClause()
	}
	if lock == "" {
		return errors.Newf(
			"Row locks are not supported by %s.  Generated sql: %s",
			db.Dialect(),
			out.String())
	}
	_, _ = out.WriteString(lock)
	return nil
}

// Once again, teisenberger is lazy.  Here's a quick filter on comments
var validCommentRegexp *regexp.Regexp = regexp.MustCompile("^[\\w .?]*$")

func isValidComment(comment string) bool {
	return validCommentRegexp.MatchString(comment)
}

func writeComment(comment string, out *QueryBuilder) error {
	if comment != "" {
		_, _ = out.WriteString("/* ")
		if !isValidComment(comment) {
			return errors.Newf("Invalid comment: %s", comment)
		}
		_, _ = out.WriteString(comment)
		_, _ = out.WriteString(" */ ")
	}
	return nil
}
