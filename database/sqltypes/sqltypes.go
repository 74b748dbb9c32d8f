// Copyright 2012, Google Inc. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file

// Package sqltypes implements the SQL value model shared by literals and
// bind parameters.
//
// NOTE: This is a modified version of vitess's sqltypes module.  Values can
// be written with MySQL backslash escaping (EncodeSql) or with standard SQL
// quote doubling (EncodeStandardSql) for SQLite and PostgreSQL, and they have
// a compact binary form used when shipping rendered statements around.
package sqltypes

import (
	"bytes"
	"encoding/binary"
	"io"
	"strconv"
	"time"

	"github.com/typedsql/typedsql/encoding2"
	"github.com/typedsql/typedsql/errors"
)

// The layout BuildValue formats time.Time values with.
const TimeFormat = "2006-01-02 15:04:05.000000000"

var (
	NULL       = Value{}
	DONTESCAPE = byte(255)
	nullstr    = []byte("null")
)

type ValueType byte

// Tags of the binary form.  Stored on the wire, never renumber.
const (
	NullType       = ValueType(0)
	NumericType    = ValueType(1)
	FractionalType = ValueType(2)
	StringType     = ValueType(3)
	UTF8StringType = ValueType(4)
)

// Value can store any SQL value. NULL is stored as nil.
type Value struct {
	Inner InnerValue
}

// Numeric represents non-fractional SQL number.
type Numeric []byte

// Fractional represents fractional types like float and decimal
// It's functionally equivalent to Numeric other than how it's constructed
type Fractional []byte

// String represents any SQL type that needs to be represented using quotes.
// If isUtf8 is false, it will be hex encoded so it's safe for exception reporting, etc.
type String struct {
	data   []byte
	isUtf8 bool
}

// InnerValue defines methods that need to be supported by all non-null value types.
type InnerValue interface {
	raw() []byte
	valueType() ValueType
	encodeSql(encoding2.BinaryWriter)
	encodeStandardSql(encoding2.BinaryWriter)
}

// MakeNumeric makes a Numeric from a []byte without validation.
func MakeNumeric(b []byte) Value {
	return Value{Numeric(b)}
}

// MakeFractional makes a Fractional value from a []byte without validation.
func MakeFractional(b []byte) Value {
	return Value{Fractional(b)}
}

// MakeString makes a binary String value from a []byte.
func MakeString(b []byte) Value {
	return Value{String{b, false}}
}

// MakeUtf8String makes a text String value.
func MakeUtf8String(s string) Value {
	return Value{String{[]byte(s), true}}
}

func BuildValue(goval interface{}) (v Value, err error) {
	switch bindVal := goval.(type) {
	case nil:
		// no op
	case bool:
		if bindVal {
			v = Value{Numeric("1")}
		} else {
			v = Value{Numeric("0")}
		}
	case int:
		v = Value{Numeric(strconv.AppendInt(nil, int64(bindVal), 10))}
	case int8:
		v = Value{Numeric(strconv.AppendInt(nil, int64(bindVal), 10))}
	case int16:
		v = Value{Numeric(strconv.AppendInt(nil, int64(bindVal), 10))}
	case int32:
		v = Value{Numeric(strconv.AppendInt(nil, int64(bindVal), 10))}
	case int64:
		v = Value{Numeric(strconv.AppendInt(nil, bindVal, 10))}
	case uint:
		v = Value{Numeric(strconv.AppendUint(nil, uint64(bindVal), 10))}
	case uint8:
		v = Value{Numeric(strconv.AppendUint(nil, uint64(bindVal), 10))}
	case uint16:
		v = Value{Numeric(strconv.AppendUint(nil, uint64(bindVal), 10))}
	case uint32:
		v = Value{Numeric(strconv.AppendUint(nil, uint64(bindVal), 10))}
	case uint64:
		v = Value{Numeric(strconv.AppendUint(nil, bindVal, 10))}
	case float32:
		v = Value{Fractional(strconv.AppendFloat(nil, float64(bindVal), 'f', -1, 32))}
	case float64:
		v = Value{Fractional(strconv.AppendFloat(nil, bindVal, 'f', -1, 64))}
	case string:
		v = Value{String{[]byte(bindVal), true}}
	case []byte:
		v = Value{String{bindVal, false}}
	case time.Time:
		v = Value{String{[]byte(bindVal.Format(TimeFormat)), true}}
	case Numeric, Fractional, String:
		v = Value{bindVal.(InnerValue)}
	case Value:
		v = bindVal
	default:
		return Value{}, errors.Newf("Unsupported bind variable type %T: %v", goval, goval)
	}
	return v, nil
}

// Raw returns the raw bytes. All types are currently implemented as []byte.
func (v Value) Raw() []byte {
	if v.Inner == nil {
		return nil
	}
	return v.Inner.raw()
}

// String returns the raw value as a string
func (v Value) String() string {
	if v.Inner == nil {
		return ""
	}
	return string(v.Inner.raw())
}

func (v Value) IsNull() bool {
	return v.Inner == nil
}

func (v Value) IsNumeric() bool {
	_, ok := v.Inner.(Numeric)
	return ok
}

func (v Value) IsFractional() bool {
	_, ok := v.Inner.(Fractional)
	return ok
}

func (v Value) IsString() bool {
	_, ok := v.Inner.(String)
	return ok
}

func (v Value) IsUtf8String() bool {
	s, ok := v.Inner.(String)
	return ok && s.isUtf8
}

// Int64 parses a Numeric value.
func (v Value) Int64() (int64, error) {
	n, ok := v.Inner.(Numeric)
	if !ok {
		return 0, errors.Newf("'%v' is not Numeric", v)
	}
	i, err := strconv.ParseInt(string(n), 10, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "'%v' is not an int64: ", v)
	}
	return i, nil
}

// Float64 parses a Numeric or Fractional value.
func (v Value) Float64() (float64, error) {
	if !v.IsNumeric() && !v.IsFractional() {
		return 0, errors.Newf("'%v' is neither Numeric nor Fractional", v)
	}
	f, err := strconv.ParseFloat(v.String(), 64)
	if err != nil {
		return 0, errors.Wrapf(err, "'%v' is not a float64: ", v)
	}
	return f, nil
}

// Bool treats any non-zero Numeric as true.
func (v Value) Bool() (bool, error) {
	i, err := v.Int64()
	if err != nil {
		return false, err
	}
	return i != 0, nil
}

// EncodeSql writes the value as a MySQL literal: strings use backslash
// escapes, binary strings are written as X'..' hex literals.
func (v Value) EncodeSql(b encoding2.BinaryWriter) {
	if v.Inner == nil {
		if _, err := b.Write(nullstr); err != nil {
			panic(err)
		}
	} else {
		v.Inner.encodeSql(b)
	}
}

// EncodeStandardSql encodes the value into an SQL statement using standard
// SQL escaping: quotes are doubled and backslashes are literal.  Binary
// strings are written as X'..' hex literals.
func (v Value) EncodeStandardSql(b encoding2.BinaryWriter) {
	if v.Inner == nil {
		if _, err := b.Write(nullstr); err != nil {
			panic(err)
		}
	} else {
		v.Inner.encodeStandardSql(b)
	}
}

// MarshalBinary writes the type tag, the uvarint length and the raw bytes.
// NULL is the bare tag.
func (v Value) MarshalBinary() ([]byte, error) {
	if v.IsNull() {
		return []byte{byte(NullType)}, nil
	}

	raw := v.Inner.raw()
	var scratch [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(scratch[:], uint64(len(raw)))

	buf := bytes.NewBuffer(make([]byte, 0, 1+n+len(raw)))
	buf.WriteByte(byte(v.Inner.valueType()))
	buf.Write(scratch[:n])
	buf.Write(raw)
	return buf.Bytes(), nil
}

// UnmarshalBinary helps implement BinaryUnmarshaler interface for Value.
func (v *Value) UnmarshalBinary(data []byte) error {
	reader := bytes.NewReader(data)

	b, err := reader.ReadByte()
	if err != nil {
		return err
	}

	typ := ValueType(b)
	if typ == NullType {
		*v = Value{}
		return nil
	}

	length, err := binary.ReadUvarint(reader)
	if err != nil {
		return err
	}
	if length > uint64(reader.Len()) {
		return errors.Newf(
			"Not enough bytes to read Value: need %d, have %d",
			length,
			reader.Len())
	}

	raw := make([]byte, length)
	if _, err := io.ReadFull(reader, raw); err != nil {
		return errors.Wrap(err, "Not enough bytes to read Value: ")
	}

	switch typ {
	case NumericType:
		*v = Value{Numeric(raw)}
	case FractionalType:
		*v = Value{Fractional(raw)}
	case StringType:
		*v = Value{String{raw, false}}
	case UTF8StringType:
		*v = Value{String{raw, true}}
	default:
		return errors.Newf("Unknown type %d", int(typ))
	}

	return nil
}

func (n Numeric) raw() []byte {
	return []byte(n)
}

func (n Numeric) valueType() ValueType {
	return NumericType
}

func (n Numeric) encodeSql(b encoding2.BinaryWriter) {
	if _, err := b.Write(n.raw()); err != nil {
		panic(err)
	}
}

func (n Numeric) encodeStandardSql(b encoding2.BinaryWriter) {
	n.encodeSql(b)
}

func (f Fractional) raw() []byte {
	return []byte(f)
}

func (f Fractional) valueType() ValueType {
	return FractionalType
}

func (f Fractional) encodeSql(b encoding2.BinaryWriter) {
	if _, err := b.Write(f.raw()); err != nil {
		panic(err)
	}
}

func (f Fractional) encodeStandardSql(b encoding2.BinaryWriter) {
	f.encodeSql(b)
}

func (s String) raw() []byte {
	return []byte(s.data)
}

func (s String) valueType() ValueType {
	if s.isUtf8 {
		return UTF8StringType
	}
	return StringType
}

func (s String) encodeSql(b encoding2.BinaryWriter) {
	if !s.isUtf8 {
		s.encodeHex(b)
		return
	}

	writebyte(b, '\'')
	rawBytes := s.raw()
	for i, ch := range rawBytes {
		if encodedChar := SqlEncodeMap[ch]; encodedChar == DONTESCAPE {
			writebyte(b, ch)
		} else if i < len(rawBytes)-1 && '\\' == ch && ('%' == rawBytes[i+1] || '_' == rawBytes[i+1]) {
			// Don't escape '\' specifically in the constructions '\%' or
			// '\_', because those are special to how the RHS of LIKE
			// clauses are escaped. See the notes following table 9.1 in
			// http://dev.mysql.com/doc/refman/5.7/en/string-literals.html
			writebyte(b, ch)
		} else {
			writebyte(b, '\\')
			writebyte(b, encodedChar)
		}
	}
	writebyte(b, '\'')
}

func (s String) encodeStandardSql(b encoding2.BinaryWriter) {
	if !s.isUtf8 {
		s.encodeHex(b)
		return
	}
	encoding2.QuoteToWriter(b, s.raw(), '\'')
}

func (s String) encodeHex(b encoding2.BinaryWriter) {
	if _, err := b.Write([]byte("X'")); err != nil {
		panic(err)
	}
	encoding2.HexEncodeToWriter(b, s.raw())
	writebyte(b, '\'')
}

func writebyte(b encoding2.BinaryWriter, c byte) {
	if err := b.WriteByte(c); err != nil {
		panic(err)
	}
}

// SqlEncodeMap specifies how to escape binary data with '\'.
// Complies to http://dev.mysql.com/doc/refman/5.1/en/string-syntax.html
var SqlEncodeMap [256]byte

var encodeRef = map[byte]byte{
	'\x00': '0',
	'\'':   '\'',
	'"':    '"',
	'\b':   'b',
	'\n':   'n',
	'\r':   'r',
	'\t':   't',
	26:     'Z', // ctl-Z
	'\\':   '\\',
}

func init() {
	for i := range SqlEncodeMap {
		SqlEncodeMap[i] = DONTESCAPE
	}
	for from, to := range encodeRef {
		SqlEncodeMap[from] = to
	}
}
