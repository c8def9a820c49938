package address

import (
	"errors"
	"fmt"
	"net/mail"

	"braces.dev/errtrace"
	"github.com/zostay/go-addr/pkg/addr"
)

// ErrParse is returned when an address list cannot be parsed.
var ErrParse = errors.New("unable to parse address list")

// DefaultParser parses with github.com/zostay/go-addr first. When that fails,
// it tries the net/mail parser, which accepts UTF-8 per RFC 6532. If both
// fail, the go-addr error is reported.
type DefaultParser struct{}

// Default is the parser used when none is configured.
var Default Parser = DefaultParser{}

// ParseList parses raw as an address list.
func (DefaultParser) ParseList(raw string) ([]Address, error) {
	al, err := addr.ParseEmailAddressList(raw)
	if err == nil {
		return fromAddrList(al), nil
	}

	ml, mErr := mail.ParseAddressList(raw)
	if mErr == nil {
		return fromMailList(ml), nil
	}

	return nil, errtrace.Wrap(fmt.Errorf("%w: %w", ErrParse, err))
}

func fromAddrList(al addr.AddressList) []Address {
	as := make([]Address, len(al))
	for i, a := range al {
		lp, d := splitAddress(a.Address())
		as[i] = NewMailbox(a.DisplayName(), lp, d)
	}
	return as
}

func fromMailList(ml []*mail.Address) []Address {
	as := make([]Address, len(ml))
	for i, a := range ml {
		lp, d := splitAddress(a.Address)
		as[i] = NewMailbox(a.Name, lp, d)
	}
	return as
}
