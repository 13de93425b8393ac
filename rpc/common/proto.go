package common

import (
	"encoding/json"
	"fmt"
)

// --------------------------------------------------------------------------
// Message Structure
// --------------------------------------------------------------------------

// Message represents a single message used for both requests and responses.
// Which fields are used depends on the type of message.
type Message struct {
	// Type of message
	MsgType MessageType `json:"msg_type"`

	// General fields
	Scheme string `json:"scheme,omitempty"` // Used for: Read, Write, Delete
	Path   string `json:"path,omitempty"`   // Used for: Read, Write, Delete
	Value  []byte `json:"value,omitempty"`  // JSON encoded node value. Used for: Write (request), Read/Write/Delete (response), Schemes (response)

	// Response only fields
	Ok     bool   `json:"ok,omitempty"`     // Used for: Read, Write, Delete responses (the node value is set)
	Origin uint8  `json:"origin,omitempty"` // Used for: Read responses of adapters that tag the origin
	Code   uint64 `json:"code,omitempty"`   // Return code of the adapter error, 0 if the error did not come from the adapter
	Err    string `json:"err,omitempty"`    // Empty if no error, otherwise contains the error message
}

// --------------------------------------------------------------------------
// Message Factory Functions
// --------------------------------------------------------------------------

// NewReadRequest creates a new Read request
func NewReadRequest(scheme, path string) *Message {
	return &Message{
		MsgType: MsgTRead,
		Scheme:  scheme,
		Path:    path,
	}
}

// NewWriteRequest creates a new Write request, value is the JSON encoded payload
func NewWriteRequest(scheme, path string, value []byte) *Message {
	return &Message{
		MsgType: MsgTWrite,
		Scheme:  scheme,
		Path:    path,
		Value:   value,
	}
}

// NewDeleteRequest creates a new Delete request
func NewDeleteRequest(scheme, path string) *Message {
	return &Message{
		MsgType: MsgTDelete,
		Scheme:  scheme,
		Path:    path,
	}
}

// NewSchemesRequest creates a new Schemes request
func NewSchemesRequest() *Message {
	return &Message{
		MsgType: MsgTSchemes,
	}
}

// NewValueResponse creates a response to a Read, Write or Delete request.
// The value is JSON encoded, Ok is false if value is empty (the node value is unset).
func NewValueResponse(msgType MessageType, value []byte, origin uint8) *Message {
	return &Message{
		MsgType: msgType,
		Value:   value,
		Ok:      len(value) > 0,
		Origin:  origin,
	}
}

// NewSchemesResponse creates a new Schemes response, schemes is the JSON encoded list of schemes
func NewSchemesResponse(schemes []byte) *Message {
	return &Message{
		MsgType: MsgTSchemes,
		Value:   schemes,
		Ok:      true,
	}
}

// NewErrorResponse creates a new Error response
func NewErrorResponse(code uint64, err string) *Message {
	return &Message{
		MsgType: MsgTError,
		Code:    code,
		Err:     err,
	}
}

// --------------------------------------------------------------------------
// Value Encoding
// --------------------------------------------------------------------------

// EncodeValue encodes a node value for the Value field of a message.
// An unset (nil) value is encoded as nil.
func EncodeValue(value any) ([]byte, error) {
	if value == nil {
		return nil, nil
	}
	data, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("failed to encode value: %w", err)
	}
	return data, nil
}

// DecodeValue decodes the Value field of a message. An empty field decodes to nil,
// numbers decode to float64.
func DecodeValue(data []byte) (any, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var value any
	if err := json.Unmarshal(data, &value); err != nil {
		return nil, fmt.Errorf("failed to decode value: %w", err)
	}
	return value, nil
}

// --------------------------------------------------------------------------
// Message Type Definition
// --------------------------------------------------------------------------

// MessageType defines the type of message used in RPC communication.
type MessageType uint8

// String returns the string representation of a MessageType.
func (t MessageType) String() string {
	switch t {
	case MsgTRead:
		return "read"
	case MsgTWrite:
		return "write"
	case MsgTDelete:
		return "delete"
	case MsgTSchemes:
		return "schemes"
	case MsgTError:
		return "error"
	case MsgTSuccess:
		return "success"
	default:
		return "unknown"
	}
}

// MarshalJSON implements the json.Marshaller interface for MessageType.
// This allows MessageType to be serialized as a string in JSON.
func (t MessageType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON implements the json.Unmarshaler interface for MessageType.
func (t *MessageType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}

	switch s {
	case "read":
		*t = MsgTRead
	case "write":
		*t = MsgTWrite
	case "delete":
		*t = MsgTDelete
	case "schemes":
		*t = MsgTSchemes
	case "error":
		*t = MsgTError
	case "success":
		*t = MsgTSuccess
	case "unknown":
		*t = MsgTUnknown
	default:
		return fmt.Errorf("unknown message type: %s", s)
	}

	return nil
}

// --------------------------------------------------------------------------
// Message Type Constants
// --------------------------------------------------------------------------

const (
	// General message types

	MsgTUnknown MessageType = iota
	MsgTSuccess             // Indicates a successful operation
	MsgTError               // Indicates an error occurred

	// IAdapter operations

	MsgTRead    // Read the value of a node
	MsgTWrite   // Set the value of a node
	MsgTDelete  // Remove a node
	MsgTSchemes // List the schemes served by an adapter
)
