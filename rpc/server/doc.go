// Package server implements the RPC server of dTree. It mounts a set of storage
// adapters under numeric IDs and serves their operations through a pluggable
// transport and serializer.
//
// The package focuses on:
//   - Server-side RPC request handling for adapter operations
//   - Adapter pattern to decouple the storage adapters from RPC mechanisms
//   - Creation of the host storage shared by all durable backends
//   - Request metrics in the Prometheus text format
//
// Key Components:
//
//   - IRPCServerAdapter: Interface defining the contract for server adapters,
//     with the Handle method that processes incoming requests against an adapter.IAdapter.
//
//   - NewTreeServerAdapter: Factory function creating the server adapter that
//     translates read, write, delete and schemes requests into adapter calls.
//     Node values travel JSON encoded, adapter errors keep their return code.
//
//   - NewRPCServer: Factory function creating a configured server with the specified
//     transport, serializer and host storage.
//
//   - NewHostStorage: Creates the host storage (file, memory or none) selected by
//     the server configuration.
//
// Usage Example:
//
//	mount, _ := common.ParseAdapterMount("100=local:DLCS|cache:DLCS")
//	config := common.ServerConfig{
//	  Adapters:    []common.AdapterMount{mount},
//	  HostStorage: common.HostStorageFile,
//	  DataDir:     "./data",
//	  Transport:   common.ServerTransportConfig{Endpoint: "0.0.0.0:8080"},
//	  LogLevel:    "info",
//	}
//
//	host, _ := server.NewHostStorage(config)
//	s := server.NewRPCServer(config, tcp.NewTCPDefaultServerTransport(), serializer.NewBinarySerializer(), host)
//	if err := s.Serve(); err != nil {
//	  log.Fatalf("Server error: %v", err)
//	}
//
// Thread Safety:
//
//	Adapters themselves are single-threaded. The server handles requests of many
//	connections concurrently and serialises the calls into each adapter with a
//	mutex, requests to different adapters run in parallel. Concurrent writers to
//	the same durable namespace through different adapters still follow the
//	last-write-wins rule of the durable backend.
package server
