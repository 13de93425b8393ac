package client

import (
	"encoding/json"
	"fmt"

	"github.com/ValentinKolb/dTree/lib/adapter"
	"github.com/ValentinKolb/dTree/rpc/common"
	"github.com/ValentinKolb/dTree/rpc/serializer"
	"github.com/ValentinKolb/dTree/rpc/transport"
)

// ITreeClient gives access to an adapter mounted on a remote server.
// Values are transported as JSON, numbers are therefore returned as float64.
type ITreeClient interface {
	// Read returns the value of the node at path (nil if unset)
	Read(scheme, path string) (any, error)
	// ReadEntry returns the value of the node together with the origin of the value.
	// The origin is 0 if the remote adapter does not tag reads.
	ReadEntry(scheme, path string) (adapter.Entry, error)
	// Write sets the value of the node at path and returns the new value
	Write(scheme, path string, value any) (any, error)
	// Delete removes the node at path and returns its last value
	Delete(scheme, path string) (any, error)
	// Schemes returns the schemes served by the remote adapter
	Schemes() ([]string, error)
	// Close closes the underlying transport
	Close() error
}

// NewRPCTree creates a new client for the adapter mounted under adapterID
// The function takes an adapter ID, a config, a transport and a serializer as parameters
func NewRPCTree(
	adapterID uint64,
	config common.ClientConfig,
	transport transport.IRPCClientTransport,
	serializer serializer.IRPCSerializer,
) (ITreeClient, error) {
	if err := transport.Connect(config); err != nil {
		return nil, err
	}

	return &rpcTree{
		rpcClientAdapter{
			adapterID:  adapterID,
			config:     config,
			transport:  transport,
			serializer: serializer,
		},
	}, nil
}

type rpcTree struct {
	rpcClientAdapter
}

// --------------------------------------------------------------------------
// Interface Methods (docu see ITreeClient)
// --------------------------------------------------------------------------

func (c *rpcTree) Read(scheme, path string) (any, error) {
	entry, err := c.ReadEntry(scheme, path)
	if err != nil {
		return nil, err
	}
	return entry.Value, nil
}

func (c *rpcTree) ReadEntry(scheme, path string) (adapter.Entry, error) {
	resp, err := invokeRPCRequest(c.adapterID, common.NewReadRequest(scheme, path), c.transport, c.serializer)
	if err != nil {
		return adapter.Entry{}, err
	}

	value, err := common.DecodeValue(resp.Value)
	if err != nil {
		return adapter.Entry{}, err
	}
	return adapter.Entry{Key: path, Value: value, Origin: adapter.Origin(resp.Origin)}, nil
}

func (c *rpcTree) Write(scheme, path string, value any) (any, error) {
	data, err := common.EncodeValue(value)
	if err != nil {
		return nil, err
	}
	return c.mutate(common.NewWriteRequest(scheme, path, data))
}

func (c *rpcTree) Delete(scheme, path string) (any, error) {
	return c.mutate(common.NewDeleteRequest(scheme, path))
}

func (c *rpcTree) Schemes() ([]string, error) {
	resp, err := invokeRPCRequest(c.adapterID, common.NewSchemesRequest(), c.transport, c.serializer)
	if err != nil {
		return nil, err
	}

	var schemes []string
	if err := json.Unmarshal(resp.Value, &schemes); err != nil {
		return nil, fmt.Errorf("invalid schemes response: %w", err)
	}
	return schemes, nil
}

func (c *rpcTree) Close() error {
	return c.transport.Close()
}

// --------------------------------------------------------------------------
// Helper Methods
// --------------------------------------------------------------------------

// mutate sends a write or delete request and decodes the returned value
func (c *rpcTree) mutate(req *common.Message) (any, error) {
	resp, err := invokeRPCRequest(c.adapterID, req, c.transport, c.serializer)
	if err != nil {
		return nil, err
	}
	return common.DecodeValue(resp.Value)
}
