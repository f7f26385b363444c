package uasm

import (
	"strconv"
)

// Type is a target value type.
type Type int

const (
	TypeInt32 Type = iota
	TypeInt64
	TypeSingle
	TypeDouble
	TypeString
)

var typeKeywords = [...]string{
	TypeInt32:  "%SystemInt32",
	TypeInt64:  "%SystemInt64",
	TypeSingle: "%SystemSingle",
	TypeDouble: "%SystemDouble",
	TypeString: "%SystemString",
}

// Keyword returns the type keyword used in data declarations, or "" for
// values outside the enumeration.
func (t Type) Keyword() string {
	if t >= 0 && int(t) < len(typeKeywords) {
		return typeKeywords[t]
	}
	return ""
}

func (t Type) String() string {
	if k := t.Keyword(); k != "" {
		return k
	}
	return "Type(" + strconv.Itoa(int(t)) + ")"
}

// Literal is a constant value in its target text form.
type Literal struct {
	Text string
	Type Type
}

// Int32 returns an Int32 literal.
func Int32(v int32) Literal {
	return Literal{Type: TypeInt32, Text: strconv.FormatInt(int64(v), 10)}
}

// Int64 returns an Int64 literal.
func Int64(v int64) Literal {
	return Literal{Type: TypeInt64, Text: strconv.FormatInt(v, 10)}
}

// Single returns a Single literal.
func Single(v float32) Literal {
	return Literal{Type: TypeSingle, Text: strconv.FormatFloat(float64(v), 'g', -1, 32)}
}

// Double returns a Double literal.
func Double(v float64) Literal {
	return Literal{Type: TypeDouble, Text: strconv.FormatFloat(v, 'g', -1, 64)}
}

// String returns a String literal.
func String(v string) Literal {
	return Literal{Type: TypeString, Text: strconv.Quote(v)}
}

func (l Literal) String() string {
	return l.Text
}
