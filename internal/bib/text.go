package bib

import (
	"regexp"

	"golang.org/x/text/unicode/norm"

	"github.com/matsen/bibconv/internal/syntax"
)

var whitespaceRegex = regexp.MustCompile(`[ \t\r\n]+`)

// Text returns the normalized text a node spans in src: NFC-normalized, with
// every whitespace run collapsed to a single space. Leading and trailing
// space is kept (collapsed, not trimmed).
func Text(n *syntax.Node, src []byte) string {
	s, _ := TextOK(n, src)
	return s
}

// TextOK is like Text but reports false when the node is nil or spans no
// bytes.
func TextOK(n *syntax.Node, src []byte) (string, bool) {
	if n == nil || n.Len() <= 0 || n.End > len(src) {
		return "", false
	}
	normalized := norm.NFC.Bytes(src[n.Start:n.End])
	return whitespaceRegex.ReplaceAllLiteralString(string(normalized), " "), true
}
