package sqlbuilder

import (
	"github.com/typedsql/typedsql/errors"
)

// Construction errors.  These are reported by the combinator that composed
// an invalid query (or by the statement's Err method) and prevent the query
// from ever being rendered.
var (
	ErrTypeMismatch          = errors.New("sql type mismatch")
	ErrUnknownRelationship   = errors.New("no known relationship between sources")
	ErrAmbiguousRelationship = errors.New("more than one relationship between sources")
	ErrAmbiguousColumn       = errors.New("ambiguous column reference")
	ErrColumnNotInSource     = errors.New("column does not belong to the query source")
	ErrInvalidJoin           = errors.New("invalid join")
)

// Rendering errors.  A bound value could not be encoded for its sql type.
var (
	ErrEncode = errors.New("cannot encode bind value")
)

var constructionErrors = []error{
	ErrTypeMismatch,
	ErrUnknownRelationship,
	ErrAmbiguousRelationship,
	ErrAmbiguousColumn,
	ErrColumnNotInSource,
	ErrInvalidJoin,
}

// Returns true if err was raised while composing a query (as opposed to
// while rendering one).
func IsConstructionError(err error) bool {
	for _, target := range constructionErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// Returns true if err was raised because a bind value could not be encoded.
func IsEncodeError(err error) bool {
	return errors.Is(err, ErrEncode)
}
