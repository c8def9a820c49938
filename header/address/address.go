package address

import (
	"mime"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/idna"
)

// Address is a single parsed address.
type Address interface {
	// RequiresNonASCII returns true when the address cannot be written as
	// 7-bit ASCII at all, because its local part or domain needs characters
	// outside of it.
	RequiresNonASCII() bool

	// Unicode renders the address with its display name and domain as
	// native Unicode text.
	Unicode() string

	// FullSpec renders the address in canonical 7-bit form: the display name
	// quoted or written as encoded words and the domain in its IDNA ASCII
	// form.
	FullSpec() string
}

// Parser parses address lists.
type Parser interface {
	// ParseList returns the addresses of raw in the order given. Addresses
	// are never reordered or deduplicated.
	ParseList(raw string) ([]Address, error)
}

// specials are the characters that require a display name to be quoted.
const specials = `()<>[]:;@\,."`

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

// quoteDisplayName quotes the display name when it holds any special
// characters.
func quoteDisplayName(name string) string {
	if !strings.ContainsAny(name, specials) {
		return name
	}
	return `"` + strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(name) + `"`
}

// Mailbox is an address made of an optional display name and an addr-spec.
type Mailbox struct {
	displayName string
	localPart   string
	domain      string
}

// NewMailbox returns a mailbox. The domain may be given in either its Unicode
// or its IDNA ASCII form.
func NewMailbox(displayName, localPart, domain string) *Mailbox {
	return &Mailbox{displayName, localPart, domain}
}

// splitAddress splits an addr-spec at its last @.
func splitAddress(a string) (string, string) {
	if ix := strings.LastIndexByte(a, '@'); ix >= 0 {
		return a[:ix], a[ix+1:]
	}
	return a, ""
}

// DisplayName returns the display name, unquoted and decoded.
func (m *Mailbox) DisplayName() string {
	return m.displayName
}

// LocalPart returns the part of the address before the @.
func (m *Mailbox) LocalPart() string {
	return m.localPart
}

// Domain returns the domain as it was given.
func (m *Mailbox) Domain() string {
	return m.domain
}

// asciiDomain returns the IDNA ASCII form of the domain. The bool is false
// when the domain has no such form.
func (m *Mailbox) asciiDomain() (string, bool) {
	if isASCII(m.domain) {
		return m.domain, true
	}

	d, err := idna.Lookup.ToASCII(m.domain)
	if err != nil {
		return m.domain, false
	}
	return d, true
}

// unicodeDomain returns the Unicode form of the domain, falling back to the
// domain as given.
func (m *Mailbox) unicodeDomain() string {
	d, err := idna.Lookup.ToUnicode(m.domain)
	if err != nil {
		return m.domain
	}
	return d
}

func joinAddress(localPart, domain string) string {
	if domain == "" {
		return localPart
	}
	return localPart + "@" + domain
}

// RequiresNonASCII returns true if the local part is not ASCII or the domain
// has no IDNA ASCII form.
func (m *Mailbox) RequiresNonASCII() bool {
	if !isASCII(m.localPart) {
		return true
	}
	_, ok := m.asciiDomain()
	return !ok
}

// Address returns the addr-spec in its 7-bit form when possible.
func (m *Mailbox) Address() string {
	d, _ := m.asciiDomain()
	return joinAddress(m.localPart, d)
}

// FullSpec returns the mailbox in canonical ASCII form. A display name that is
// not ASCII is written as UTF-8 encoded words.
func (m *Mailbox) FullSpec() string {
	if m.displayName == "" {
		return m.Address()
	}

	name := quoteDisplayName(m.displayName)
	if !isASCII(m.displayName) {
		name = mime.BEncoding.Encode("utf-8", m.displayName)
	}

	return name + " <" + m.Address() + ">"
}

// Unicode returns the mailbox with the display name and domain as Unicode.
func (m *Mailbox) Unicode() string {
	a := joinAddress(m.localPart, m.unicodeDomain())
	if m.displayName == "" {
		return a
	}
	return quoteDisplayName(m.displayName) + " <" + a + ">"
}

// String returns the Unicode rendering.
func (m *Mailbox) String() string {
	return m.Unicode()
}
