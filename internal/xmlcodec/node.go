package xmlcodec

import (
	"strconv"
	"strings"
)

// Node is one element of a parsed XML document. Accessors never return
// nil: a missing child yields an empty node, so lookups can be chained
// without checks and absent values read as zero.
type Node struct {
	Name     string
	Attrs    map[string]string
	Children []*Node
	Text     string
}

var emptyNode = &Node{}

// Child returns the first child element with the given name
func (n *Node) Child(name string) *Node {
	if n == nil {
		return emptyNode
	}
	for _, c := range n.Children {
		if c.Name == name {
			return c
		}
	}
	return emptyNode
}

// Each returns all child elements with the given name, in document order
func (n *Node) Each(name string) []*Node {
	if n == nil {
		return nil
	}
	var out []*Node
	for _, c := range n.Children {
		if c.Name == name {
			out = append(out, c)
		}
	}
	return out
}

// Attr returns the named attribute, or "" when absent
func (n *Node) Attr(name string) string {
	if n == nil || n.Attrs == nil {
		return ""
	}
	return n.Attrs[name]
}

// AttrInt returns the named attribute as an integer, 0 when absent or
// unparseable.
func (n *Node) AttrInt(name string) int {
	v, _ := strconv.Atoi(strings.TrimSpace(n.Attr(name)))
	return v
}

// String returns the node's trimmed text content
func (n *Node) String() string {
	if n == nil {
		return ""
	}
	return strings.TrimSpace(n.Text)
}

// Int returns the text content as an int64, 0 when unparseable
func (n *Node) Int() int64 {
	v, _ := strconv.ParseInt(n.String(), 10, 64)
	return v
}

// Float returns the text content as a float64, 0 when unparseable
func (n *Node) Float() float64 {
	v, _ := strconv.ParseFloat(n.String(), 64)
	return v
}

// Empty reports whether the node carries no element at all (the result
// of parsing an empty or, in lenient mode, malformed document).
func (n *Node) Empty() bool {
	return n == nil || (n.Name == "" && len(n.Children) == 0)
}
