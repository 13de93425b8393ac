// Package common provides the data structures shared by the dTree RPC server,
// its clients and the command line tools.
//
// The package focuses on:
//   - Message protocol definition for client/server communication
//   - Configuration structures for client and server components
//   - Custom logging implementation integrated with dragonboat's logger package
//
// Key Components:
//
//   - Message: Core data structure for all RPC communication. Node values travel
//     JSON encoded in the Value field, adapter errors carry their return code in
//     the Code field so clients can restore the typed error.
//
//   - MessageType: Enumeration of the supported operations (read, write, delete,
//     schemes) and the control messages (success, error).
//
//   - ServerConfig: Server configuration including the adapters to mount, the host
//     storage used by durable backends and the transport settings.
//     ParseAdapterMount reads the adapter definitions used on the command line.
//
//   - ClientConfig: Configuration for client components, controlling connection
//     parameters, timeouts, and retry behavior.
//
//   - Logger: Custom logging implementation plugged into dragonboat's logger
//     factory, providing consistent formatting across the application.
package common
