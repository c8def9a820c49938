package param

import (
	"mime"
	"sort"
	"strings"
)

const (
	// Charset is the name of the charset parameter that may be present in the
	// Content-type header.
	Charset = "charset"

	// Boundary is the name of the boundary paramter that may be present in the
	// Content-type header.
	Boundary = "boundary"

	// Filename is the name of the filename parameter that may be present in the
	// Content-disposition header.
	Filename = "filename"

	// Name is the name of the name parameter that may be present in the
	// Content-type header.
	Name = "name"
)

// Param is a single parameter of a parameterized header field.
type Param struct {
	Name  string
	Value string
}

// List is an ordered list of parameters. Order is significant and duplicated
// names are kept as given.
type List []Param

// Get returns the value of the first parameter matching the name, compared
// without regard to case, and whether one was found.
func (l List) Get(name string) (string, bool) {
	for _, p := range l {
		if strings.EqualFold(p.Name, name) {
			return p.Value, true
		}
	}
	return "", false
}

// Clone returns a copy of the list.
func (l List) Clone() List {
	if l == nil {
		return nil
	}
	c := make(List, len(l))
	copy(c, l)
	return c
}

// Value represents a parameterized header field, such as is used in the
// Content-type and Content-disposition headers. A Value object is immutable:
// You cannot change it in place. However, a Modify() function is provided to
// perform transformation of a Value into a new Value.
type Value struct {
	v  string
	ps List
}

// Parse takes a header field body, parses it as a Value and returns it. If an
// error occurs in the process, it returns an error. Since the body is parsed
// with mime.ParseMediaType, the original parameter order is lost and the
// parameters come back sorted by name.
func Parse(v string) (*Value, error) {
	mt, ps, err := mime.ParseMediaType(v)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(ps))
	for k := range ps {
		names = append(names, k)
	}
	sort.Strings(names)

	l := make(List, len(names))
	for i, k := range names {
		l[i] = Param{k, ps[k]}
	}

	return &Value{mt, l}, nil
}

// New creates a new parameterized header field with the given parameters in
// the given order.
func New(v string, ps ...Param) *Value {
	return &Value{v, List(ps).Clone()}
}

// Modifier is a modification to apply to a Value when calling the Modify()
// function.
type Modifier func(*Value)

// Change is a Modifier that replaces the primary value of the Value.
func Change(value string) Modifier {
	return func(pv *Value) {
		pv.v = value
	}
}

// Set is a Modifier that sets a parameter with the given name on the Value. The
// first parameter with that name is replaced in place; otherwise the parameter
// is appended.
func Set(name, value string) Modifier {
	return func(pv *Value) {
		for i, p := range pv.ps {
			if strings.EqualFold(p.Name, name) {
				pv.ps[i].Value = value
				return
			}
		}
		pv.ps = append(pv.ps, Param{name, value})
	}
}

// Delete is a Modifier that removes every parameter with the given name from
// the Value.
func Delete(name string) Modifier {
	return func(pv *Value) {
		ps := pv.ps[:0]
		for _, p := range pv.ps {
			if !strings.EqualFold(p.Name, name) {
				ps = append(ps, p)
			}
		}
		pv.ps = ps
	}
}

// Modify clones a Value, applies the given modifications (if any) and returns
// the new Value. You can pass multiple changes to this function:
//
//	v, _ := param.Parse("multipart/mixed; boundary=abc123; charset=latin1")
//	nv := param.Modify(v, param.Change("multipart/alternate"), param.Set("charset", "utf-8"))
func Modify(pv *Value, changes ...Modifier) *Value {
	c := pv.Clone()
	for _, change := range changes {
		change(c)
	}
	return c
}

// Value returns the primary value of the Value. This is the value before the
// first semi-colon.
func (pv *Value) Value() string {
	return pv.v
}

// MediaType is a synonym for Value() and returns the Content-type value, e.g.,
// "text/html", "image/jpeg", "multipart/mixed", etc.
func (pv *Value) MediaType() string {
	return pv.v
}

// Type is only intended for use with the Content-type header. It returns the
// part of MediaType() before the slash or an empty string if there is no slash.
func (pv *Value) Type() string {
	if ix := strings.IndexRune(pv.v, '/'); ix >= 0 {
		return pv.v[:ix]
	}
	return ""
}

// Subtype is only intended for use with the Content-type header. It returns the
// part of MediaType() after the slash or an empty string if there is no slash.
func (pv *Value) Subtype() string {
	if ix := strings.IndexRune(pv.v, '/'); ix >= 0 {
		return pv.v[ix+1:]
	}
	return ""
}

// Parameters returns the parameters of this Value in order. Do not modify the
// returned list; Clone it first.
func (pv *Value) Parameters() List {
	return pv.ps
}

// Parameter returns the value of the first parameter with the given name.
func (pv *Value) Parameter(k string) string {
	v, _ := pv.ps.Get(k)
	return v
}

// Filename returns the value of the "filename" parameter.
func (pv *Value) Filename() string {
	return pv.Parameter(Filename)
}

// Charset returns the value of the "charset" parameter.
func (pv *Value) Charset() string {
	return pv.Parameter(Charset)
}

// Boundary returns the value of the "boundary" parameter.
func (pv *Value) Boundary() string {
	return pv.Parameter(Boundary)
}

// String returns the serialized value of the Value including the primary value
// and all parameters in order. Parameter values are formatted with Format but
// not encoded.
func (pv *Value) String() string {
	parts := make([]string, len(pv.ps)+1)
	parts[0] = pv.v
	for i, p := range pv.ps {
		parts[i+1] = Format(p.Name, p.Value)
	}
	return strings.Join(parts, "; ")
}

// Clone returns a deep copy of the Value.
func (pv *Value) Clone() *Value {
	return &Value{pv.v, pv.ps.Clone()}
}
