// Package header turns header values into the text that goes after "Name: " on
// an outbound header line.
//
// A value is one of Plain text, a Parametrized value (such as a Content-Type
// with its parameters), or a Multi holding several of those. ToMIME is the
// entry point:
//
//	s, err := header.ToMIME(header.ContentType, header.Parametrized{
//		Value: "text/plain",
//		Params: param.List{
//			{Name: param.Charset, Value: "utf-8"},
//			{Name: param.Name, Value: "résumé.txt"},
//		},
//	})
//
// Text that is 7-bit clean is folded as-is. Anything else becomes UTF-8 encoded
// words, except in the address headers (From, To, Delivered-To, Cc, Bcc and
// Reply-To), which are parsed as address lists and written address by address.
// Values longer than MaxHeaderLength characters are returned untouched.
package header
