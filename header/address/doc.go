// Package address is the narrow view of address parsing the header encoder
// needs. A Parser turns a raw address list into Address values in input order,
// and each Address knows how to render itself either as 7-bit ASCII or as
// Unicode text for mail systems that accept UTF-8 headers.
//
// The default parser is built on github.com/zostay/go-addr, with net/mail as a
// second chance for lists that go-addr rejects, such as UTF-8 addresses.
package address
