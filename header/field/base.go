package field

import (
	"fmt"
)

// Field is a header field parsed from a raw header block. The body is held
// unfolded and with any encoded words already decoded.
type Field struct {
	name string
	body string
}

// New returns a field with the given name and body.
func New(name, body string) *Field {
	return &Field{name, body}
}

// Name returns the name of the header field.
func (f *Field) Name() string {
	return f.name
}

// Body returns the value of the header field as a string.
func (f *Field) Body() string {
	return f.body
}

// String returns the complete header field as a string, without encoding.
func (f *Field) String() string {
	return fmt.Sprintf("%s: %s", f.name, f.body)
}
