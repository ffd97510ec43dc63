package kv

// encoder turns rows and primary keys into bytes. Keys use an order
// preserving encoding so the bytewise order of encoded keys matches the SQL
// order of the encoded values. Row values use a type tagged sequence that
// only needs to round trip, not order.

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/chirst/kdb/value"
)

var (
	errNullKey     = errors.New("primary key cannot be NULL")
	errNullByteKey = errors.New("text primary key cannot contain a 0x00 byte")
)

// TablePrefix returns the key prefix owning table id's slice of the key
// space. Uvarints are self delimiting so no table prefix is a prefix of
// another table's.
func TablePrefix(id uint64) []byte {
	return binary.AppendUvarint(nil, id)
}

// EncodeKey appends the order preserving encoding of a primary key value to
// prefix. Ints are big endian with the sign bit flipped so negatives order
// before positives. Text is terminated with a 0x00 byte and must not contain
// one. Null is not a legal key.
func EncodeKey(prefix []byte, v value.Value) ([]byte, error) {
	key := append([]byte{}, prefix...)
	switch v.Type {
	case value.Int:
		key = binary.BigEndian.AppendUint64(key, uint64(v.Int)^(1<<63))
	case value.Text:
		for i := 0; i < len(v.Text); i += 1 {
			if v.Text[i] == 0x00 {
				return nil, errNullByteKey
			}
		}
		key = append(key, v.Text...)
		key = append(key, 0x00)
	case value.Bool:
		if v.Bool {
			key = append(key, 0x01)
		} else {
			key = append(key, 0x00)
		}
	case value.Null:
		return nil, errNullKey
	default:
		return nil, fmt.Errorf("cannot encode key of type %s", v.Type)
	}
	return key, nil
}

// EncodeRowID appends a fixed width big endian row id to prefix. Used for
// tables without a primary key so insertion order is scan order.
func EncodeRowID(prefix []byte, id uint64) []byte {
	key := append([]byte{}, prefix...)
	return binary.BigEndian.AppendUint64(key, id)
}

// DecodeRowID reads the row id back out of a key produced by EncodeRowID.
func DecodeRowID(prefix, key []byte) (uint64, error) {
	if len(key) != len(prefix)+8 {
		return 0, fmt.Errorf("malformed row id key of length %d", len(key))
	}
	return binary.BigEndian.Uint64(key[len(prefix):]), nil
}

// EncodeRow encodes a tuple as a length tagged sequence of values, each
// preceded by a one byte type tag.
func EncodeRow(row []value.Value) []byte {
	buf := binary.AppendUvarint(nil, uint64(len(row)))
	for _, v := range row {
		buf = append(buf, byte(v.Type))
		switch v.Type {
		case value.Null:
		case value.Int:
			buf = binary.AppendVarint(buf, v.Int)
		case value.Bool:
			if v.Bool {
				buf = append(buf, 0x01)
			} else {
				buf = append(buf, 0x00)
			}
		case value.Text:
			buf = binary.AppendUvarint(buf, uint64(len(v.Text)))
			buf = append(buf, v.Text...)
		}
	}
	return buf
}

// DecodeRow decodes a tuple produced by EncodeRow.
func DecodeRow(buf []byte) ([]value.Value, error) {
	n, read := binary.Uvarint(buf)
	if read <= 0 {
		return nil, errors.New("malformed row: missing arity")
	}
	buf = buf[read:]
	row := make([]value.Value, 0, n)
	for i := uint64(0); i < n; i += 1 {
		if len(buf) == 0 {
			return nil, errors.New("malformed row: truncated value")
		}
		tag := value.Type(buf[0])
		buf = buf[1:]
		switch tag {
		case value.Null:
			row = append(row, value.NewNull())
		case value.Int:
			v, read := binary.Varint(buf)
			if read <= 0 {
				return nil, errors.New("malformed row: bad int")
			}
			buf = buf[read:]
			row = append(row, value.NewInt(v))
		case value.Bool:
			if len(buf) < 1 {
				return nil, errors.New("malformed row: bad bool")
			}
			row = append(row, value.NewBool(buf[0] == 0x01))
			buf = buf[1:]
		case value.Text:
			l, read := binary.Uvarint(buf)
			if read <= 0 || uint64(len(buf)-read) < l {
				return nil, errors.New("malformed row: bad text")
			}
			buf = buf[read:]
			row = append(row, value.NewText(string(buf[:l])))
			buf = buf[l:]
		default:
			return nil, fmt.Errorf("malformed row: unknown type tag %d", tag)
		}
	}
	return row, nil
}
