package sqlbuilder

import (
	"github.com/gogo/protobuf/proto"

	"github.com/typedsql/typedsql/database/sqltypes"
	"github.com/typedsql/typedsql/errors"
)

// Wire format of a rendered statement (protobuf encoding):
//
//   message Rendered {
//     string sql = 1;
//     repeated Param args = 2;
//   }
//   message Param {
//     bytes value = 1;  // sqltypes.Value binary form
//     SqlType type = 2;
//   }
//   message SqlType {
//     int32 kind = 1;
//     bool nullable = 2;
//     repeated SqlType members = 3;
//   }

const (
	wireVarint = 0
	wireBytes  = 2
)

func wireKey(field uint64, wireType uint64) uint64 {
	return field<<3 | wireType
}

// Marshal encodes the rendered statement, to hand it to an executor in
// another process.
func (r *Rendered) Marshal() ([]byte, error) {
	buf := proto.NewBuffer(nil)
	if err := buf.EncodeVarint(wireKey(1, wireBytes)); err != nil {
		return nil, err
	}
	if err := buf.EncodeStringBytes(r.Sql); err != nil {
		return nil, err
	}

	for _, arg := range r.Args {
		param, err := marshalParam(arg)
		if err != nil {
			return nil, err
		}
		if err := buf.EncodeVarint(wireKey(2, wireBytes)); err != nil {
			return nil, err
		}
		if err := buf.EncodeRawBytes(param); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

func marshalParam(arg BindValue) ([]byte, error) {
	value, err := arg.Value.MarshalBinary()
	if err != nil {
		return nil, errors.Wrap(err, "Cannot marshal bind value")
	}

	buf := proto.NewBuffer(nil)
	if err := buf.EncodeVarint(wireKey(1, wireBytes)); err != nil {
		return nil, err
	}
	if err := buf.EncodeRawBytes(value); err != nil {
		return nil, err
	}
	if err := buf.EncodeVarint(wireKey(2, wireBytes)); err != nil {
		return nil, err
	}
	if err := buf.EncodeRawBytes(marshalSqlType(arg.Type)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func marshalSqlType(t SqlType) []byte {
	buf := proto.NewBuffer(nil)
	_ = buf.EncodeVarint(wireKey(1, wireVarint))
	_ = buf.EncodeVarint(uint64(t.kind))
	if t.nullable {
		_ = buf.EncodeVarint(wireKey(2, wireVarint))
		_ = buf.EncodeVarint(1)
	}
	for _, m := range t.members {
		_ = buf.EncodeVarint(wireKey(3, wireBytes))
		_ = buf.EncodeRawBytes(marshalSqlType(m))
	}
	return buf.Bytes()
}

// UnmarshalRendered decodes a statement encoded by Rendered.Marshal.
func UnmarshalRendered(data []byte) (*Rendered, error) {
	r := &Rendered{}
	err := readFields(data, func(field uint64, varint uint64, raw []byte) error {
		switch field {
		case 1:
			r.Sql = string(raw)
		case 2:
			arg, err := unmarshalParam(raw)
			if err != nil {
				return err
			}
			r.Args = append(r.Args, arg)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "Cannot unmarshal rendered statement")
	}
	return r, nil
}

func unmarshalParam(data []byte) (BindValue, error) {
	arg := BindValue{}
	err := readFields(data, func(field uint64, varint uint64, raw []byte) error {
		switch field {
		case 1:
			var v sqltypes.Value
			if err := v.UnmarshalBinary(raw); err != nil {
				return err
			}
			arg.Value = v
		case 2:
			t, err := unmarshalSqlType(raw)
			if err != nil {
				return err
			}
			arg.Type = t
		}
		return nil
	})
	return arg, err
}

func unmarshalSqlType(data []byte) (SqlType, error) {
	t := SqlType{}
	err := readFields(data, func(field uint64, varint uint64, raw []byte) error {
		switch field {
		case 1:
			if varint > uint64(CompositeKind) {
				return errors.Newf("Unknown sql type kind %d", varint)
			}
			t.kind = SqlTypeKind(varint)
		case 2:
			t.nullable = varint != 0
		case 3:
			m, err := unmarshalSqlType(raw)
			if err != nil {
				return err
			}
			t.members = append(t.members, m)
		}
		return nil
	})
	return t, err
}

// Calls handle for every field of a protobuf message.  Only varint and
// length delimited fields are supported.
func readFields(
	data []byte,
	handle func(field uint64, varint uint64, raw []byte) error) error {

	for len(data) > 0 {
		key, n := proto.DecodeVarint(data)
		if n == 0 {
			return errors.New("Truncated field key")
		}
		data = data[n:]

		value, n := proto.DecodeVarint(data)
		if n == 0 {
			return errors.New("Truncated field value")
		}
		data = data[n:]

		var raw []byte
		switch key & 7 {
		case wireVarint:
		case wireBytes:
			if value > uint64(len(data)) {
				return errors.Newf(
					"Field length %d exceeds remaining %d bytes",
					value,
					len(data))
			}
			raw = data[:value]
			data = data[value:]
		default:
			return errors.Newf("Unsupported wire type %d", key&7)
		}

		if err := handle(key>>3, value, raw); err != nil {
			return err
		}
	}
	return nil
}
