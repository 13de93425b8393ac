package server

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ValentinKolb/dTree/lib/adapter"
	"github.com/ValentinKolb/dTree/rpc/common"
)

// NewTreeServerAdapter creates the server adapter for adapter.IAdapter requests
func NewTreeServerAdapter() IRPCServerAdapter {
	return &treeServerAdapterImpl{}
}

type treeServerAdapterImpl struct{}

func (h *treeServerAdapterImpl) Handle(req *common.Message, a adapter.IAdapter) *common.Message {
	if a == nil {
		return common.NewErrorResponse(0, "handler: adapter is nil")
	}

	switch req.MsgType {
	case common.MsgTRead:
		return h.execute(req, a, adapter.Request{Scheme: req.Scheme, Path: req.Path, Type: adapter.OpRead})

	case common.MsgTWrite:
		payload, err := common.DecodeValue(req.Value)
		if err != nil {
			return common.NewErrorResponse(uint64(adapter.RetCInvalidOperation), err.Error())
		}
		return h.execute(req, a, adapter.Request{Scheme: req.Scheme, Path: req.Path, Type: adapter.OpWrite, Payload: payload})

	case common.MsgTDelete:
		return h.execute(req, a, adapter.Request{Scheme: req.Scheme, Path: req.Path, Type: adapter.OpDelete})

	case common.MsgTSchemes:
		schemes, err := json.Marshal(a.Schemes())
		if err != nil {
			return common.NewErrorResponse(uint64(adapter.RetCInternalError), err.Error())
		}
		return common.NewSchemesResponse(schemes)

	default:
		return common.NewErrorResponse(
			uint64(adapter.RetCInvalidOperation),
			fmt.Sprintf("unsupported message type: %s", req.MsgType),
		)
	}
}

// execute runs the request and converts the result into a response of the request's type
func (h *treeServerAdapterImpl) execute(req *common.Message, a adapter.IAdapter, r adapter.Request) *common.Message {
	value, err := a.Execute(r, nil)
	if err != nil {
		return errorResponse(err)
	}

	// Tagged reads travel as value + origin
	var origin uint8
	if entry, ok := value.(adapter.Entry); ok {
		value = entry.Value
		origin = uint8(entry.Origin)
	}

	data, err := common.EncodeValue(value)
	if err != nil {
		return common.NewErrorResponse(uint64(adapter.RetCInternalError), err.Error())
	}
	return common.NewValueResponse(req.MsgType, data, origin)
}

// errorResponse converts an error into an error response, adapter errors keep their code
func errorResponse(err error) *common.Message {
	var aErr *adapter.Error
	if errors.As(err, &aErr) {
		return common.NewErrorResponse(uint64(aErr.Code), aErr.Msg)
	}
	return common.NewErrorResponse(uint64(adapter.RetCInternalError), err.Error())
}
