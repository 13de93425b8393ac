// Package tcp implements the TCP socket transport of the dTree RPC system on top
// of the framed transport in the base package.
//
// Key Components:
//
//   - clientConnector: TCP-specific implementation of base.IClientConnector
//
//   - serverConnector: TCP-specific implementation of base.IServerConnector
//
// Both sides apply the TCPConf (no delay, keep alive, linger) and SocketConf
// (buffer sizes) options of their configuration to every connection.
//
// The default server buffer size is set to 512 KB.
package tcp
