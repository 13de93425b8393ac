package tree

import (
	"slices"
	"strings"
)

// Separator is the path segment separator
const Separator = "/"

// --------------------------------------------------------------------------
// Node Type
// --------------------------------------------------------------------------

// Node is a single element of a storage tree.
// Sibling keys are unique within the Children of one parent.
type Node struct {
	Key      string  // The name of the node (unique among its siblings)
	Value    any     // Opaque, JSON-serializable value (nil = unset)
	Children []*Node // Child nodes in insertion order
}

// New creates a detached node with the given key and value
func New(key string, value any) *Node {
	return &Node{
		Key:      key,
		Value:    value,
		Children: []*Node{},
	}
}

// Child returns the direct child with the given key.
// The boolean return value indicates whether such a child exists.
func (n *Node) Child(key string) (*Node, bool) {
	for _, child := range n.Children {
		if child.Key == key {
			return child, true
		}
	}
	return nil, false
}

// Walk visits the node and all of its descendants in pre-order.
// The path passed to fn is relative to n: n itself has the empty path and every
// descendant the path of its parent joined with its key ("/a", "/a/b"). A child
// with the key "" therefore gets a path of its own ("/", "/a/").
// Returning false from fn skips the children of the visited node.
func (n *Node) Walk(fn func(path string, node *Node) bool) {
	n.walk("", fn)
}

func (n *Node) walk(path string, fn func(path string, node *Node) bool) {
	if !fn(path, n) {
		return
	}
	for _, child := range n.Children {
		child.walk(path+Separator+child.Key, fn)
	}
}

// --------------------------------------------------------------------------
// Path Resolution
// --------------------------------------------------------------------------

// Segments splits a path into the ordered list of segment names.
// The path is split on the separator and the first element is discarded, which is
// the empty string for absolute paths. A relative path therefore loses its first
// segment ("a/b" -> ["b"]). The empty path and "/" address the root and return no
// segments. Inner and trailing empty segments are kept ("/a/" -> ["a", ""]).
func Segments(path string) []string {
	if path == "" || path == Separator {
		return nil
	}
	return strings.Split(path, Separator)[1:]
}

// Resolve returns the node addressed by path, starting at root.
// Missing nodes are created with an unset value and appended to their parent,
// so this function never fails and may mutate the tree even for lookups.
func Resolve(root *Node, path string) *Node {
	pointer := root
	for _, segment := range Segments(path) {
		child, ok := pointer.Child(segment)
		if !ok {
			child = New(segment, nil)
			pointer.Children = append(pointer.Children, child)
		}
		pointer = child
	}
	return pointer
}

// Lookup returns the node addressed by path without modifying the tree.
// The boolean return value is false if any segment of the path does not exist.
func Lookup(root *Node, path string) (*Node, bool) {
	pointer := root
	for _, segment := range Segments(path) {
		child, ok := pointer.Child(segment)
		if !ok {
			return nil, false
		}
		pointer = child
	}
	return pointer, true
}

// --------------------------------------------------------------------------
// Removal
// --------------------------------------------------------------------------

// Remove splices node out of the tree rooted at root.
// Nodes are compared by identity. If node is not a direct child of root, every
// child is searched recursively. Only the first occurrence is removed.
// It returns whether a node was removed, removing an absent node is not an error.
func Remove(node, root *Node) bool {
	if node == nil || root == nil {
		return false
	}
	if idx := slices.Index(root.Children, node); idx > -1 {
		root.Children = slices.Delete(root.Children, idx, idx+1)
		return true
	}
	for _, child := range root.Children {
		if Remove(node, child) {
			return true
		}
	}
	return false
}
