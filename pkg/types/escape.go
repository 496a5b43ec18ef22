package types

import "html"

// SafeString is text that has already been HTML-escaped. Values of this type
// may be written into markup verbatim; a plain string may not.
type SafeString string

// Escape is the one place user-supplied text becomes markup-safe. The
// characters &, <, >, " and ' are replaced by entities.
func Escape(raw string) SafeString {
	return SafeString(html.EscapeString(raw))
}

// EscapeAll escapes each element of raw, preserving order. The result is
// never nil.
func EscapeAll(raw []string) []SafeString {
	out := make([]SafeString, 0, len(raw))
	for _, s := range raw {
		out = append(out, Escape(s))
	}
	return out
}

// String returns the escaped text.
func (s SafeString) String() string { return string(s) }
