// Package sexp implements the S-expression document model shared by the
// KiCad schematic tooling. It provides a parser that preserves string
// quoting, a serializer producing KiCad-style indented output, and typed
// navigation helpers for walking and mutating the node tree.
package sexp

import (
	"fmt"
	"strconv"
)

// Node is a single S-expression node: either an atom (symbol or quoted
// string) or a list of child nodes.
type Node struct {
	// Value holds the decoded atom text. Empty for lists.
	Value string

	// Quoted records whether the atom appeared as a quoted string in the
	// source, so the serializer can re-quote it on the way out.
	Quoted bool

	// List marks this node as a list. Children may be empty for ().
	List     bool
	Children []*Node
}

// Atom creates an unquoted atom node
func Atom(value string) *Node {
	return &Node{Value: value}
}

// QuotedAtom creates a quoted string atom node
func QuotedAtom(value string) *Node {
	return &Node{Value: value, Quoted: true}
}

// NewList creates a list node from the given children
func NewList(children ...*Node) *Node {
	return &Node{List: true, Children: children}
}

// IsAtom returns true if this node is an atom (not a list)
func (n *Node) IsAtom() bool {
	return n != nil && !n.List
}

// Name returns the leading symbol of a list (the node type/tag).
// Returns "" for atoms, empty lists, or lists not headed by an atom.
func (n *Node) Name() string {
	if n == nil || !n.List || len(n.Children) == 0 {
		return ""
	}
	head := n.Children[0]
	if head.IsAtom() && !head.Quoted {
		return head.Value
	}
	return ""
}

// Child returns the child at the given index, or nil if out of range
func (n *Node) Child(index int) *Node {
	if n == nil || !n.List || index < 0 || index >= len(n.Children) {
		return nil
	}
	return n.Children[index]
}

// Len returns the number of children of a list (0 for atoms)
func (n *Node) Len() int {
	if n == nil || !n.List {
		return 0
	}
	return len(n.Children)
}

// FindNode searches the children of n for a list tagged with the given key.
// Example: FindNode(symbol, "property") finds the first (property ...) child.
func FindNode(n *Node, key string) (*Node, bool) {
	if n == nil || !n.List {
		return nil, false
	}
	for _, child := range n.Children {
		if child != nil && child.Name() == key {
			return child, true
		}
	}
	return nil, false
}

// FindAllNodes finds all child lists tagged with the given key
func FindAllNodes(n *Node, key string) []*Node {
	var results []*Node
	if n == nil || !n.List {
		return results
	}
	for _, child := range n.Children {
		if child != nil && child.Name() == key {
			results = append(results, child)
		}
	}
	return results
}

// HasSymbol checks if a list contains the given bare symbol as a direct child
func HasSymbol(n *Node, symbol string) bool {
	if n == nil || !n.List {
		return false
	}
	for _, child := range n.Children {
		if child.IsAtom() && !child.Quoted && child.Value == symbol {
			return true
		}
	}
	return false
}

// GetString extracts the atom text at the given index in a list.
// Index 0 is the tag, 1 is the first value, etc.
func GetString(n *Node, index int) (string, error) {
	if n == nil || !n.List {
		return "", fmt.Errorf("expected list, got atom")
	}
	if index < 0 || index >= len(n.Children) {
		return "", fmt.Errorf("index %d out of bounds (length %d)", index, len(n.Children))
	}
	child := n.Children[index]
	if !child.IsAtom() {
		return "", fmt.Errorf("expected atom at index %d, got list", index)
	}
	return child.Value, nil
}

// GetInt extracts an int value at the given index
func GetInt(n *Node, index int) (int, error) {
	str, err := GetString(n, index)
	if err != nil {
		return 0, err
	}
	val, err := strconv.Atoi(str)
	if err != nil {
		return 0, fmt.Errorf("failed to parse int %q: %w", str, err)
	}
	return val, nil
}

// SetString overwrites the atom at the given index in place, keeping its
// quoting style. This is the single mutation primitive used by the
// reference rewriter.
func SetString(n *Node, index int, value string) error {
	if n == nil || !n.List {
		return fmt.Errorf("expected list, got atom")
	}
	if index < 0 || index >= len(n.Children) {
		return fmt.Errorf("index %d out of bounds (length %d)", index, len(n.Children))
	}
	child := n.Children[index]
	if !child.IsAtom() {
		return fmt.Errorf("expected atom at index %d, got list", index)
	}
	child.Value = value
	return nil
}
