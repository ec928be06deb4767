// Package syntax builds the concrete syntax tree of a bibliography file.
//
// The tree only records node kinds and byte ranges into the source; callers
// resolve text themselves.
package syntax

// Node kind identifiers produced by Parse.
const (
	KindSourceFile = "source_file"
	KindEntry      = "entry"
	KindName       = "name"
	KindKey        = "key"
	KindField      = "field"
	KindIdentifier = "identifier"
	KindValue      = "value"
	KindComment    = "comment"
	KindString     = "string"
	KindPreamble   = "preamble"
)

// Node is one named node of the tree. Start and End are byte offsets into
// the parsed source, End exclusive.
type Node struct {
	Type     string
	Start    int
	End      int
	Children []*Node
}

// NamedChildCount returns the number of named children.
func (n *Node) NamedChildCount() int {
	if n == nil {
		return 0
	}
	return len(n.Children)
}

// NamedChild returns the i-th named child, or nil if there is none.
func (n *Node) NamedChild(i int) *Node {
	if n == nil || i < 0 || i >= len(n.Children) {
		return nil
	}
	return n.Children[i]
}

// Len returns the number of bytes the node spans.
func (n *Node) Len() int {
	if n == nil {
		return 0
	}
	return n.End - n.Start
}

func (n *Node) add(c *Node) {
	n.Children = append(n.Children, c)
}
