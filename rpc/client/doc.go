// Package client implements the RPC client of dTree. It gives access to the
// storage adapters mounted on a remote server.
//
// The package focuses on:
//   - Transparent RPC access to remote adapters
//   - Integration with the transport and serialization layers
//   - Restoring typed adapter errors from error responses, so that
//     errors.Is(err, adapter.ErrEnvironmentUnsupported) works across the wire
//
// Key Components:
//
//   - ITreeClient: Read, ReadEntry, Write, Delete and Schemes on one remote adapter.
//
//   - NewRPCTree: Factory function that connects the transport and creates a client
//     for the adapter mounted under the given ID.
//
// Usage Example:
//
//	config := common.ClientConfig{
//	  TimeoutSecond: 5,
//	  Transport: common.ClientTransportConfig{
//	    Endpoints:  []string{"localhost:8080"},
//	    RetryCount: 3,
//	  },
//	}
//
//	tree, _ := client.NewRPCTree(100, config, tcp.NewTCPClientTransport(), serializer.NewBinarySerializer())
//	defer tree.Close()
//
//	tree.Write("local", "/settings/theme", "dark")
//	theme, _ := tree.Read("local", "/settings/theme")
//
// Values:
//
//	Values are JSON encoded on the wire. Numbers come back as float64, objects as
//	map[string]any and arrays as []any. A nil value means the node value is unset.
//
// Thread Safety:
//
//	Clients are safe for concurrent use if the transport is. All transports of
//	this module are.
package client
