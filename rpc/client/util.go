package client

import (
	"fmt"

	"github.com/ValentinKolb/dTree/lib/adapter"
	"github.com/ValentinKolb/dTree/rpc/common"
	"github.com/ValentinKolb/dTree/rpc/serializer"
	"github.com/ValentinKolb/dTree/rpc/transport"
	"github.com/lni/dragonboat/v4/logger"
)

var (
	Logger = logger.GetLogger("rpc/client")
)

// rpcClientAdapter is a struct that stores all data needed for an implementation of an RPC client
type rpcClientAdapter struct {
	adapterID  uint64
	config     common.ClientConfig
	transport  transport.IRPCClientTransport
	serializer serializer.IRPCSerializer
}

// invokeRPCRequest is a helper function used by the RPC clients to send requests
// It takes an adapter ID, a request message, a transport layer and a serializer as parameters
// It returns the response message or an error. Error responses of the adapter are
// returned as *adapter.Error with their original return code.
// This method also checks if the type of the response is the expected type
func invokeRPCRequest(adapterID uint64, req *common.Message, transport transport.IRPCClientTransport, serializer serializer.IRPCSerializer) (*common.Message, error) {
	reqBytes, err := serializer.Serialize(*req)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize request: %w", err)
	}

	respBytes, err := transport.Send(adapterID, reqBytes)
	if err != nil {
		return nil, err
	}

	resp := &common.Message{}
	if err := serializer.Deserialize(respBytes, resp); err != nil {
		return nil, fmt.Errorf("failed to deserialize response: %w", err)
	}

	if resp.MsgType == common.MsgTError || resp.Err != "" {
		if resp.Code != 0 {
			return nil, adapter.NewError(adapter.RetCode(resp.Code), resp.Err)
		}
		return nil, fmt.Errorf("rpc error: %s", resp.Err)
	}

	if resp.MsgType != req.MsgType {
		return nil, fmt.Errorf("unexpected message type: %s, expected %s", resp.MsgType, req.MsgType)
	}

	return resp, nil
}
