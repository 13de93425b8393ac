// Package tree implements the in-memory storage tree used by the dTree adapters.
// A tree is made of named nodes, each holding a key, an opaque value and an ordered
// list of child nodes. Nodes are addressed by slash-delimited paths relative to the
// root of the tree.
//
// The package focuses on:
//   - Path resolution with lazy creation of missing nodes (auto-vivification)
//   - Identity-based recursive removal of nodes
//   - Lossless conversion to and from a plain nested representation (PlainTree)
//     that is used as the persisted JSON format
//
// Key Components:
//
//   - Node: A single tree element. Nodes are owned by the Children slice of their
//     parent, there are no back-pointers. A nil Value represents an unset value.
//
//   - Resolve: Walks the tree along a path and returns the addressed node. Missing
//     nodes are created on the way and appended to their parent. This happens even
//     when the caller only wants to read, the caller decides whether the resulting
//     structural change is persisted.
//
//   - Remove: Depth-first search for a node (by identity) below a root. The node
//     is spliced out of its parent's children. Removing a node that is not part of
//     the tree is a no-op.
//
//   - PlainTree, Serialize, Deserialize, Marshal, Unmarshal: The persisted format
//     {"key": string, "value": any, "children": [...]}. Child order is preserved.
//
// Value Round Trips:
//
//	Values must be JSON-representable. After a round trip through Marshal and
//	Unmarshal numbers are float64, objects are map[string]any, arrays are []any
//	and a JSON null value is read back as an unset (nil) value.
//
// Thread Safety:
//
//	Trees are not safe for concurrent use. Callers that share a tree between
//	goroutines must synchronize access themselves.
//
// Usage Example:
//
//	root := tree.New("DLCS", nil)
//	tree.Resolve(root, "/settings/theme").Value = "dark"
//
//	data, _ := tree.Marshal(root)
//	copied, _ := tree.Unmarshal(data)
//	fmt.Println(tree.Resolve(copied, "/settings/theme").Value) // dark
package tree
