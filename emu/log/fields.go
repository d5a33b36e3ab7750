package log

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"time"
)

type FieldType int

const (
	FieldTypeUnknown FieldType = iota
	FieldTypeBool
	FieldTypeString
	FieldTypeHex8
	FieldTypeHex16
	FieldTypeHex32
	FieldTypeInt
	FieldTypeUint
	FieldTypeError
	FieldTypeDuration
	FieldTypeStringer
	FieldTypeBlob
)

// maxBlob is the number of bytes of a blob field shown in the logs.
const maxBlob = 32

// ZField is a typed log field. Only the member matching Type is set.
type ZField struct {
	Type FieldType
	Key  string

	String    string
	Integer   uint64
	Duration  time.Duration
	Error     error
	Interface any
	Boolean   bool
	Blob      []byte
}

// Value formats the field. Hexadecimal values use the assembler notation
// ($C000) so that addresses can be matched against a disassembly.
func (f *ZField) Value() string {
	return string(f.appendValue(nil))
}

func (f *ZField) appendValue(dst []byte) []byte {
	switch f.Type {
	case FieldTypeBool:
		return strconv.AppendBool(dst, f.Boolean)
	case FieldTypeString:
		return append(dst, f.String...)
	case FieldTypeUint:
		return strconv.AppendUint(dst, f.Integer, 10)
	case FieldTypeInt:
		return strconv.AppendInt(dst, int64(f.Integer), 10)
	case FieldTypeHex8:
		return appendHex(dst, f.Integer, 2)
	case FieldTypeHex16:
		return appendHex(dst, f.Integer, 4)
	case FieldTypeHex32:
		return appendHex(dst, f.Integer, 8)
	case FieldTypeError:
		if f.Error == nil {
			return append(dst, "<nil>"...)
		}
		return append(dst, f.Error.Error()...)
	case FieldTypeDuration:
		return append(dst, f.Duration.String()...)
	case FieldTypeStringer:
		return append(dst, f.Interface.(fmt.Stringer).String()...)
	case FieldTypeBlob:
		blob := f.Blob
		if len(blob) > maxBlob {
			blob = blob[:maxBlob]
		}
		dst = hex.AppendEncode(dst, blob)
		if len(f.Blob) > maxBlob {
			dst = fmt.Appendf(dst, "...(%d bytes)", len(f.Blob))
		}
		return dst
	}
	return dst
}

func appendHex(dst []byte, v uint64, digits int) []byte {
	const hextable = "0123456789ABCDEF"
	dst = append(dst, '$')
	for i := digits - 1; i >= 0; i-- {
		dst = append(dst, hextable[(v>>(4*i))&0xF])
	}
	return dst
}
