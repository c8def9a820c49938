package header

import (
	"log/slog"
	"strconv"

	"github.com/zostay/go-hdrenc/header/param"
)

// Value is a header value. It is one of Plain, Parametrized or Multi. A nil
// Value is an absent value.
type Value interface {
	slog.LogValuer
	isValue()
}

// Plain is unstructured header text.
type Plain string

// Parametrized is a base value followed by an ordered list of parameters, as
// in Content-Type and Content-Disposition.
type Parametrized struct {
	Value  string
	Params param.List
}

// Multi is a list of values that are encoded one by one and joined. Its
// elements may be Plain or Parametrized, never another Multi.
type Multi []Value

func (Plain) isValue()        {}
func (Parametrized) isValue() {}
func (Multi) isValue()        {}

// FromParamValue converts a parsed parameterized value.
func FromParamValue(pv *param.Value) Parametrized {
	return Parametrized{
		Value:  pv.Value(),
		Params: pv.Parameters().Clone(),
	}
}

// LogValue logs the text.
func (v Plain) LogValue() slog.Value {
	return slog.StringValue(string(v))
}

// LogValue logs the base value and its parameters.
func (v Parametrized) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(v.Params))
	for _, p := range v.Params {
		attrs = append(attrs, slog.String(p.Name, p.Value))
	}
	return slog.GroupValue(
		slog.String("value", v.Value),
		slog.Attr{Key: "params", Value: slog.GroupValue(attrs...)},
	)
}

// LogValue logs each element keyed by its index.
func (v Multi) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(v))
	for i, e := range v {
		if e == nil {
			attrs = append(attrs, slog.Any(strconv.Itoa(i), nil))
			continue
		}
		attrs = append(attrs, slog.Attr{Key: strconv.Itoa(i), Value: e.LogValue()})
	}
	return slog.GroupValue(attrs...)
}

// isEmpty returns true for the values that encode to nothing.
func isEmpty(v Value) bool {
	switch v := v.(type) {
	case nil:
		return true
	case Plain:
		return v == ""
	case Parametrized:
		return v.Value == "" && len(v.Params) == 0
	case Multi:
		return len(v) == 0
	}
	return false
}
