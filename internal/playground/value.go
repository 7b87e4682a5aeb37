package playground

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/nulzo/image-playground/pkg/api"
	"github.com/spf13/cast"
)

// Kind selects which variant a Value holds.
type Kind int

const (
	KindText Kind = iota
	KindInteger
	KindReal
	// KindRaw holds a decoded schema default of any other JSON type,
	// passed through to the request untouched.
	KindRaw
)

func (k Kind) String() string {
	switch k {
	case KindInteger:
		return "integer"
	case KindReal:
		return "real"
	case KindRaw:
		return "raw"
	default:
		return "text"
	}
}

// KindOf maps a declared schema type onto the variant its control commits.
func KindOf(p api.SchemaProperty) Kind {
	switch p.Type {
	case api.TypeInteger:
		return KindInteger
	case api.TypeNumber:
		return KindReal
	default:
		return KindText
	}
}

// Value is one committed form entry. The zero Value is empty text.
type Value struct {
	kind    Kind
	text    string
	integer int64
	real    float64
	raw     any
}

func Text(s string) Value   { return Value{kind: KindText, text: s} }
func Integer(n int64) Value { return Value{kind: KindInteger, integer: n} }
func Real(f float64) Value  { return Value{kind: KindReal, real: f} }
func Raw(v any) Value       { return Value{kind: KindRaw, raw: v} }
func (v Value) Kind() Kind  { return v.kind }

// IsEmpty reports empty text or a null default.
func (v Value) IsEmpty() bool {
	switch v.kind {
	case KindText:
		return v.text == ""
	case KindRaw:
		return v.raw == nil
	default:
		return false
	}
}

// String renders the value the way an input control displays it.
func (v Value) String() string {
	switch v.kind {
	case KindInteger:
		return strconv.FormatInt(v.integer, 10)
	case KindReal:
		return strconv.FormatFloat(v.real, 'f', -1, 64)
	case KindRaw:
		if v.raw == nil {
			return ""
		}
		out, err := json.Marshal(v.raw)
		if err != nil {
			return fmt.Sprint(v.raw)
		}
		return string(out)
	default:
		return v.text
	}
}

// Any unwraps the variant for serialization.
func (v Value) Any() any {
	switch v.kind {
	case KindInteger:
		return v.integer
	case KindReal:
		return v.real
	case KindRaw:
		return v.raw
	default:
		return v.text
	}
}

func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Any())
}

// Parse commits raw control text into the variant the property declares.
// Empty input is always stored as empty text so required checks see it.
func Parse(p api.SchemaProperty, raw string) (Value, error) {
	if raw == "" {
		return Text(""), nil
	}

	switch KindOf(p) {
	case KindInteger:
		n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
		if err != nil {
			return Value{}, fmt.Errorf("%q is not an integer", raw)
		}
		return Integer(n), nil
	case KindReal:
		f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return Value{}, fmt.Errorf("%q is not a number", raw)
		}
		return Real(f), nil
	default:
		return Text(raw), nil
	}
}

// FromDefault converts a declared default into a Value. Numeric defaults of
// numeric properties take the numeric variants, integers only when whole.
// Strings stay text and every other default is carried as decoded.
func FromDefault(p api.SchemaProperty) Value {
	switch d := p.Default.(type) {
	case string:
		return Text(d)
	case nil, bool:
		return Raw(d)
	}

	f, err := cast.ToFloat64E(p.Default)
	if err != nil {
		return Raw(p.Default)
	}
	switch KindOf(p) {
	case KindInteger:
		if f == math.Trunc(f) && math.Abs(f) < math.MaxInt64 {
			return Integer(int64(f))
		}
	case KindReal:
		return Real(f)
	}
	return Raw(p.Default)
}
