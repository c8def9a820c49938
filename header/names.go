package header

import "strings"

// These are standard headers defined in RFC 5322 and RFC 2045.
const (
	Bcc                     = "Bcc"
	Cc                      = "Cc"
	Comments                = "Comments"
	ContentDisposition      = "Content-Disposition"
	ContentTransferEncoding = "Content-Transfer-Encoding"
	ContentType             = "Content-Type"
	Date                    = "Date"
	DeliveredTo             = "Delivered-To"
	From                    = "From"
	InReplyTo               = "In-Reply-To"
	Keywords                = "Keywords"
	MessageID               = "Message-Id"
	Received                = "Received"
	References              = "References"
	ReplyTo                 = "Reply-To"
	Sender                  = "Sender"
	Subject                 = "Subject"
	To                      = "To"
)

// MaxHeaderLength is the longest value, in characters, that is given a
// structured encoding. Longer values are returned as-is.
const MaxHeaderLength = 8000

// AddressHeaders are the headers whose non-ASCII values are written as address
// lists. Names are matched exactly.
var AddressHeaders = map[string]struct{}{
	From:        {},
	To:          {},
	DeliveredTo: {},
	Cc:          {},
	Bcc:         {},
	ReplyTo:     {},
}

// IsAddressHeader returns true if the named header is one of AddressHeaders and
// the value looks like it holds an address.
func IsAddressHeader(name, value string) bool {
	_, ok := AddressHeaders[name]
	return ok && strings.Contains(value, "@")
}
