// Package param provides a tool for dealing with parameterized headers. These
// headers include the Content-type and Content-disposition header. Parameters
// are kept in the order they were given, and the package knows how to format
// and encode a single parameter so that it is safe to write into a header.
package param
