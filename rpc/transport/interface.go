package transport

import (
	"github.com/ValentinKolb/dTree/rpc/common"
)

// --------------------------------------------------------------------------
// Server Transport
// --------------------------------------------------------------------------

// ServerHandleFunc is a function type that handles incoming requests
// This function is called by a server transport layer when a request is received
// It takes the ID of the addressed adapter and a request as parameters and returns a response
type ServerHandleFunc func(adapterID uint64, req []byte) (resp []byte)

// IRPCServerTransport is the interface for the RPC transport layer
type IRPCServerTransport interface {
	// RegisterHandler registers a handler for the transport layer
	// This handler should be called when a request is received
	RegisterHandler(handler ServerHandleFunc)
	// Listen starts the transport layer and listens for incoming requests.
	// It blocks until the transport is closed (nil error) or fails.
	Listen(config common.ServerConfig) error
	// Close stops listening, Listen returns after Close
	Close() error
}

// --------------------------------------------------------------------------
// Client Transport
// --------------------------------------------------------------------------

// IRPCClientTransport is the interface for the RPC client transport
type IRPCClientTransport interface {
	// Connect initializes the transport with the given configuration
	Connect(config common.ClientConfig) error
	// Send sends a request for the given adapter to the server and returns the response
	Send(adapterID uint64, req []byte) (resp []byte, err error)
	// Close closes the transport connection
	Close() error
}
