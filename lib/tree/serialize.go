package tree

import (
	"encoding/json"
	"fmt"
)

// --------------------------------------------------------------------------
// Plain Representation
// --------------------------------------------------------------------------

// PlainTree is the plain nested representation of a tree.
// It is the persisted format of the durable backend:
//
//	{"key": "DLCS", "value": ..., "children": [{"key": "a", "children": []}]}
//
// An unset value is omitted from the JSON document.
type PlainTree struct {
	Key      string      `json:"key"`
	Value    any         `json:"value,omitempty"`
	Children []PlainTree `json:"children"`
}

// Serialize converts the tree rooted at root into its plain representation.
// Children are always a non-nil slice, so leaves encode as "children": [].
func Serialize(root *Node) PlainTree {
	plain := PlainTree{
		Key:      root.Key,
		Value:    root.Value,
		Children: make([]PlainTree, 0, len(root.Children)),
	}
	for _, child := range root.Children {
		plain.Children = append(plain.Children, Serialize(child))
	}
	return plain
}

// Deserialize builds a tree from its plain representation.
// The returned tree shares no nodes with any other tree.
func Deserialize(plain PlainTree) *Node {
	node := &Node{
		Key:      plain.Key,
		Value:    plain.Value,
		Children: make([]*Node, 0, len(plain.Children)),
	}
	for _, child := range plain.Children {
		node.Children = append(node.Children, Deserialize(child))
	}
	return node
}

// --------------------------------------------------------------------------
// JSON Encoding
// --------------------------------------------------------------------------

// Marshal encodes the tree rooted at root as a JSON document
func Marshal(root *Node) ([]byte, error) {
	data, err := json.Marshal(Serialize(root))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal tree %q: %w", root.Key, err)
	}
	return data, nil
}

// Unmarshal decodes a JSON document produced by Marshal into a new tree
func Unmarshal(data []byte) (*Node, error) {
	var plain PlainTree
	if err := json.Unmarshal(data, &plain); err != nil {
		return nil, fmt.Errorf("failed to unmarshal tree: %w", err)
	}
	return Deserialize(plain), nil
}
