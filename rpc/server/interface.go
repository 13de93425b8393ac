package server

import (
	"github.com/ValentinKolb/dTree/lib/adapter"
	"github.com/ValentinKolb/dTree/rpc/common"
)

// IRPCServerAdapter is the interface for all RPC server adapters
// It translates request messages into calls on an adapter.IAdapter
type IRPCServerAdapter interface {
	// Handle handles a request and returns a response
	// It takes a Message and the adapter mounted under the requested ID as parameters.
	// If an error occurs, it is set in the response
	Handle(req *common.Message, a adapter.IAdapter) (resp *common.Message)
}
