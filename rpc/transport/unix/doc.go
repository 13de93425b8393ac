// Package unix runs the framed transport of the base package over Unix domain
// sockets, for clients on the same host as the dTree server.
//
// The endpoint is a socket path on both sides (e.g. /tmp/dtree.sock). The
// server removes a stale socket file before it listens. Every frame carries the
// adapter ID it is addressed to, so one socket serves all mounted adapters.
//
// Only the SocketConf buffer sizes of the configuration apply here, the TCPConf
// options are ignored.
//
//	t := unix.NewUnixDefaultServerTransport()
//	c := unix.NewUnixClientTransport()
package unix
