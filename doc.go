// Package hdrenc encodes mail header values so they can be written on an
// outbound header line.
//
// The work is done by package header. Its ToMIME function takes the header
// name and a value, which may be plain text, a value with parameters, or a
// list of those, and returns text that is safe to follow "Name: ". Non-ASCII
// text becomes RFC 2047 encoded words and address headers are rewritten
// address by address.
//
// The supporting packages are split by the part of the header they deal with:
// header/field holds the encoded-word and folding primitives along with raw
// field parsing, header/param handles parameters such as those of
// Content-Type, and header/address wraps address list parsing.
//
// The hdrenc command under tools/hdrenc exposes the encoder on the command
// line, either one header at a time or for a whole raw header block.
package hdrenc
