// Package base implements a framed request/response transport on top of any
// stream connection. The tcp and unix packages only add a connector that dials,
// listens and applies socket options.
//
// Frame layout (big endian):
//
//	| adapterID uint64 | requestID uint64 | length uint32 | payload [length]byte |
//
// The server passes every payload together with its adapterID to the registered
// handler and writes the result back with the same requestID. Requests of one
// connection are processed in parallel, limited by WorkersPerConn.
//
// The client keeps ConnectionsPerEndpoint connections to every endpoint and picks
// one per request in round robin order. Responses are matched to the waiting
// request by requestID, so many requests can share a connection. A request that
// fails is retried with backoff and jitter on the next connection. If reading
// from a connection fails, all requests waiting on it fail and the connection is
// re-established.
//
// IClientConnector and IServerConnector are the extension points for new
// stream protocols.
package base
