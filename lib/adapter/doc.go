// Package adapter executes read, write and delete requests against storage trees.
//
// An adapter owns up to two backends, each served under its own scheme:
//
//   - durable: the tree is stored as one JSON document in a host storage
//     (see package hoststore) under the configured namespace. Every request
//     loads a fresh copy of the tree and mutating requests write it back.
//   - ephemeral: the tree lives in memory for the lifetime of the adapter and
//     is shared by all requests.
//
// If only one backend is configured it serves every request regardless of the
// scheme. With both backends the scheme of the request must match one of them.
//
// # Requests
//
// A request addresses a node by a slash-delimited path. Missing nodes on the
// path are created with an unset (nil) value, so resolving a path never fails.
//
//   - OpRead returns the value of the node (nil if unset). A read never persists
//     the nodes it created.
//   - OpWrite sets the value of the node to the payload and returns it.
//   - OpDelete removes the node with its subtree and returns its last value.
//     Deleting a node that holds no value is not an error.
//
// # Injector
//
// An optional Injector is called with the resolved node before the operation
// and with the resulting node after it. Returning a node replaces the node the
// operation continues with, returning nil keeps it. The after call of a read
// runs before the result is taken, so a read observes the changes of the hook.
//
// # Origin tagging
//
// With Config.TagOrigin enabled a read returns an Entry that carries the path,
// the value and the Origin of the backend that satisfied the read.
//
// # Errors
//
// All errors are of type *Error with a RetCode. The durable backend fails with
// RetCEnvironmentUnsupported (matched by errors.Is(err, ErrEnvironmentUnsupported))
// if the adapter was created without host storage. Failures of the host
// storage or a corrupt document are reported as RetCInternalError.
//
// # Concurrency
//
// An adapter is not safe for concurrent use. Callers that share one adapter
// between goroutines must serialize the calls (the RPC server does this per mount).
//
// Example:
//
//	a, err := adapter.NewAdapter(adapter.DefaultConfig(), hoststore.NewFileStorage("./data"))
//	if err != nil {
//		panic(err)
//	}
//
//	_, err = a.Execute(adapter.Request{
//		Scheme:  "local",
//		Path:    "/settings/theme",
//		Type:    adapter.OpWrite,
//		Payload: "dark",
//	}, nil)
//
//	theme, err := a.Execute(adapter.Request{Scheme: "local", Path: "/settings/theme", Type: adapter.OpRead}, nil)
package adapter
