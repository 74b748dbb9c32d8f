// Modeling of sql type tags

package sqlbuilder

import (
	"bytes"
)

type SqlTypeKind int

const (
	InvalidKind SqlTypeKind = iota
	IntegerKind
	BigIntKind
	TextKind
	BoolKind
	DoubleKind
	DecimalKind
	DateTimeKind
	BytesKind
	IntervalKind
	// The type of a bare NULL literal.
	NullKind
	CompositeKind
)

var kindNames = map[SqlTypeKind]string{
	InvalidKind:   "Invalid",
	IntegerKind:   "Integer",
	BigIntKind:    "BigInt",
	TextKind:      "Text",
	BoolKind:      "Bool",
	DoubleKind:    "Double",
	DecimalKind:   "Decimal",
	DateTimeKind:  "DateTime",
	BytesKind:     "Bytes",
	IntervalKind:  "Interval",
	NullKind:      "Null",
	CompositeKind: "Composite",
}

func (k SqlTypeKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// SqlType tags an expression with the sql type it produces.  Tags are plain
// values: they carry no data and are only consulted to check that a query
// is composed correctly, and to tell the row decoder what to expect.
//
// The zero value is the invalid tag.
type SqlType struct {
	kind     SqlTypeKind
	nullable bool
	members  []SqlType
}

var (
	Integer  = SqlType{kind: IntegerKind}
	BigInt   = SqlType{kind: BigIntKind}
	Text     = SqlType{kind: TextKind}
	Bool     = SqlType{kind: BoolKind}
	Double   = SqlType{kind: DoubleKind}
	Decimal  = SqlType{kind: DecimalKind}
	DateTime = SqlType{kind: DateTimeKind}
	Bytes    = SqlType{kind: BytesKind}
	Interval = SqlType{kind: IntervalKind}
	Null     = SqlType{kind: NullKind, nullable: true}
)

// Returns t wrapped in the nullable tag.  Wrapping is idempotent; a tag is
// never nullable twice.
func MakeNullable(t SqlType) SqlType {
	t.nullable = true
	return t
}

// Returns the composite (row value) tag of the given member tags.
func Composite(members ...SqlType) SqlType {
	copied := make([]SqlType, len(members))
	copy(copied, members)
	return SqlType{kind: CompositeKind, members: copied}
}

func (t SqlType) Kind() SqlTypeKind {
	return t.kind
}

func (t SqlType) IsValid() bool {
	return t.kind != InvalidKind
}

func (t SqlType) IsNullable() bool {
	return t.nullable
}

func (t SqlType) IsComposite() bool {
	return t.kind == CompositeKind
}

// Returns t without the nullable wrapper.
func (t SqlType) NotNull() SqlType {
	t.nullable = false
	return t
}

// Returns a copy of the member tags of a composite tag.
func (t SqlType) Members() []SqlType {
	if t.kind != CompositeKind {
		return nil
	}
	copied := make([]SqlType, len(t.members))
	copy(copied, t.members)
	return copied
}

// Returns the number of scalar columns a value of this type occupies in a
// result row.
func (t SqlType) LeafCount() int {
	if t.kind != CompositeKind {
		return 1
	}
	count := 0
	for _, m := range t.members {
		count += m.LeafCount()
	}
	return count
}

func (t SqlType) Equals(other SqlType) bool {
	if t.kind != other.kind ||
		t.nullable != other.nullable ||
		len(t.members) != len(other.members) {

		return false
	}
	for i, m := range t.members {
		if !m.Equals(other.members[i]) {
			return false
		}
	}
	return true
}

func (t SqlType) String() string {
	buf := &bytes.Buffer{}
	t.writeTo(buf)
	return buf.String()
}

func (t SqlType) writeTo(buf *bytes.Buffer) {
	if t.nullable && t.kind != NullKind {
		_, _ = buf.WriteString("Nullable<")
	}

	if t.kind == CompositeKind {
		_ = buf.WriteByte('(')
		for i, m := range t.members {
			if i > 0 {
				_, _ = buf.WriteString(", ")
			}
			m.writeTo(buf)
		}
		_ = buf.WriteByte(')')
	} else {
		_, _ = buf.WriteString(t.kind.String())
	}

	if t.nullable && t.kind != NullKind {
		_ = buf.WriteByte('>')
	}
}

func (t SqlType) isNumeric() bool {
	switch t.kind {
	case IntegerKind, BigIntKind, DoubleKind, DecimalKind, BoolKind:
		return true
	}
	return false
}

var numericRank = map[SqlTypeKind]int{
	BoolKind:    0,
	IntegerKind: 1,
	BigIntKind:  2,
	DecimalKind: 3,
	DoubleKind:  4,
}

// Returns the type of an arithmetic expression over the operand types:
// the widest numeric kind, nullable if any operand is.  Non numeric
// operands (e.g. datetime arithmetic) keep the first operand's kind.
func widenTypes(types ...SqlType) SqlType {
	if len(types) == 0 {
		return SqlType{}
	}

	result := types[0].NotNull()
	nullable := false
	for _, t := range types {
		nullable = nullable || t.nullable
		if !result.isNumeric() || !t.isNumeric() {
			continue
		}
		if numericRank[t.kind] > numericRank[result.kind] {
			result = t.NotNull()
		}
	}
	if result.kind == BoolKind {
		result = Integer
	}
	if nullable {
		result = MakeNullable(result)
	}
	return result
}

// Returns the common type of a and b, as needed by the branches of a UNION
// or an IF: kinds must agree (numeric kinds widen, a NULL literal matches
// anything) and the result is nullable if either side is.
func unifyTypes(a, b SqlType) (SqlType, bool) {
	if a.kind == NullKind {
		return MakeNullable(b), true
	}
	if b.kind == NullKind {
		return MakeNullable(a), true
	}

	nullable := a.nullable || b.nullable
	var result SqlType

	switch {
	case a.kind == CompositeKind && b.kind == CompositeKind:
		if len(a.members) != len(b.members) {
			return SqlType{}, false
		}
		members := make([]SqlType, len(a.members))
		for i := range a.members {
			m, ok := unifyTypes(a.members[i], b.members[i])
			if !ok {
				return SqlType{}, false
			}
			members[i] = m
		}
		result = Composite(members...)
	case a.kind == b.kind:
		result = a.NotNull()
	case a.isNumeric() && b.isNumeric():
		result = widenTypes(a.NotNull(), b.NotNull())
	default:
		return SqlType{}, false
	}

	if nullable {
		result = MakeNullable(result)
	}
	return result, true
}

// Returns true if values of type a and b can be compared with each other.
// On top of unifyTypes, strings compare against datetime and binary
// values, which is how those are usually written as literals.
func comparableTypes(a, b SqlType) bool {
	if _, ok := unifyTypes(a, b); ok {
		return true
	}
	stringish := func(k SqlTypeKind) bool {
		return k == TextKind || k == DateTimeKind || k == BytesKind
	}
	return stringish(a.kind) && stringish(b.kind)
}
