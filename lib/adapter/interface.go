package adapter

import (
	"strings"

	"github.com/ValentinKolb/dTree/lib/tree"
)

// --------------------------------------------------------------------------
// Interface Definition
// --------------------------------------------------------------------------

// IAdapter executes storage requests against a durable and/or an ephemeral tree.
//
// Implementations are not safe for concurrent use: every call runs to completion
// synchronously and the ephemeral tree is shared by all calls without locking.
type IAdapter interface {
	// Schemes returns the scheme names the adapter services, durable first.
	Schemes() []string
	// Execute runs a request and returns its result.
	// Read returns the value of the addressed node (an Entry if origin tagging is enabled),
	// Write returns the new value and Delete returns the last value of the removed node.
	// The injector is optional (nil) and is called before and after the operation.
	Execute(req Request, injector Injector) (result any, err error)
	// ExecuteAsync runs a request like Execute and delivers the result on the returned channel.
	// The request is completed before the function returns, the channel is buffered and closed.
	ExecuteAsync(req Request, injector Injector) <-chan Result
}

// --------------------------------------------------------------------------
// Requests
// --------------------------------------------------------------------------

// OpType is the kind of operation a request performs
type OpType uint8

const (
	OpUnknown OpType = iota
	OpRead           // Read the value of a node
	OpWrite          // Set the value of a node
	OpDelete         // Remove a node (and its subtree)
)

func (o OpType) String() string {
	switch o {
	case OpRead:
		return "read"
	case OpWrite:
		return "write"
	case OpDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// Request is a single storage request
type Request struct {
	Scheme  string // Selects the backend if more than one is configured
	Path    string // Slash-delimited node address, e.g. "/settings/theme"
	Type    OpType // The operation to perform
	Payload any    // The new value (Write only)
}

// --------------------------------------------------------------------------
// Interception Hooks
// --------------------------------------------------------------------------

// Phase tells an Injector at which point of a request it is called
type Phase uint8

const (
	PhaseBeforeOperation Phase = iota // After node resolution, before the operation is applied
	PhaseAfterOperation               // After the operation (and persistence) completed
)

func (p Phase) String() string {
	switch p {
	case PhaseBeforeOperation:
		return "before"
	case PhaseAfterOperation:
		return "after"
	default:
		return "unknown"
	}
}

// Injector intercepts a request. It receives the resolved node and returns the node
// that is used for the rest of the request, which allows a caller to substitute or
// instrument the node. Returning nil keeps the node that was passed in.
type Injector func(node *tree.Node, phase Phase) *tree.Node

// --------------------------------------------------------------------------
// Results
// --------------------------------------------------------------------------

// Origin marks the backend that satisfied a read. The values are bit flags so
// results of both backends can be combined into one mask.
type Origin uint8

const (
	OriginDurable   Origin = 0b01
	OriginEphemeral Origin = 0b10
)

// Has reports whether all flags of other are set in o
func (o Origin) Has(other Origin) bool {
	return o&other == other
}

func (o Origin) String() string {
	var parts []string
	if o.Has(OriginDurable) {
		parts = append(parts, "durable")
	}
	if o.Has(OriginEphemeral) {
		parts = append(parts, "ephemeral")
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "|")
}

// Entry is the result of a read when origin tagging is enabled
type Entry struct {
	Key    string `json:"key"`             // The requested path
	Value  any    `json:"value,omitempty"` // The value of the node (nil = unset)
	Origin Origin `json:"origin"`          // The backend that satisfied the read
}

// Result is delivered by ExecuteAsync
type Result struct {
	Value any
	Err   error
}
