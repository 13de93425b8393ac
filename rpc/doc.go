// Package rpc exposes storage adapters over the network. It acts as the
// communication layer between clients and the server that owns the adapters.
//
// The package is organized into several subpackages:
//
//   - common: Core data structures and utilities used across the RPC system,
//     including the Message protocol, configuration structures, and logging.
//
//   - transport: Network communication abstractions with pluggable implementations
//     (TCP, Unix sockets, HTTP). Frames are routed by adapter ID.
//
//   - serializer: Message serialization with multiple format options (Binary, JSON, GOB)
//     for converting between Message objects and byte arrays.
//
//   - client: The RPC client for a remote adapter (read, write, delete, schemes).
//
//   - server: The RPC server that mounts one adapter per configured ID and
//     dispatches incoming requests to it.
//
// Values travel as JSON documents inside the Message, so a remote read returns
// the same value a local durable read would (numbers decode to float64).
package rpc
