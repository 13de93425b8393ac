package adapter

import (
	"fmt"

	"github.com/ValentinKolb/dTree/lib/hoststore"
	"github.com/ValentinKolb/dTree/lib/tree"
)

// backend provides the root of the tree a request runs against
type backend interface {
	// name returns the backend name used for logging and metrics
	name() string
	// scheme returns the scheme served by the backend
	scheme() string
	// origin returns the origin flag of values read from the backend
	origin() Origin
	// load returns the root of the tree
	load() (*tree.Node, error)
	// save persists the root after a mutating operation
	save(root *tree.Node) error
}

// --------------------------------------------------------------------------
// Durable Backend
// --------------------------------------------------------------------------

// durableBackend stores the tree as one JSON document in the host storage.
// Every load returns a freshly decoded tree, nothing is cached between requests.
type durableBackend struct {
	schemeName string
	namespace  string
	host       hoststore.IHostStorage
}

func (b *durableBackend) name() string   { return "durable" }
func (b *durableBackend) scheme() string { return b.schemeName }
func (b *durableBackend) origin() Origin { return OriginDurable }

func (b *durableBackend) load() (*tree.Node, error) {
	if b.host == nil {
		return nil, ErrEnvironmentUnsupported
	}

	data, ok, err := b.host.Get(b.namespace)
	if err != nil {
		return nil, NewError(RetCInternalError, fmt.Sprintf("failed to load namespace %s: %v", b.namespace, err))
	}

	// Case nothing persisted yet -> fresh root
	if !ok {
		return tree.New(b.namespace, nil), nil
	}

	root, err := tree.Unmarshal([]byte(data))
	if err != nil {
		return nil, NewError(RetCInternalError, fmt.Sprintf("corrupt document in namespace %s: %v", b.namespace, err))
	}
	return root, nil
}

func (b *durableBackend) save(root *tree.Node) error {
	if b.host == nil {
		return ErrEnvironmentUnsupported
	}

	data, err := tree.Marshal(root)
	if err != nil {
		return NewError(RetCInternalError, err.Error())
	}

	if err := b.host.Set(b.namespace, string(data)); err != nil {
		return NewError(RetCInternalError, fmt.Sprintf("failed to save namespace %s: %v", b.namespace, err))
	}
	return nil
}

// --------------------------------------------------------------------------
// Ephemeral Backend
// --------------------------------------------------------------------------

// ephemeralBackend holds one tree in memory for the lifetime of the adapter.
// The same root is returned by every load, save does nothing.
type ephemeralBackend struct {
	schemeName string
	root       *tree.Node
}

func (b *ephemeralBackend) name() string   { return "ephemeral" }
func (b *ephemeralBackend) scheme() string { return b.schemeName }
func (b *ephemeralBackend) origin() Origin { return OriginEphemeral }

func (b *ephemeralBackend) load() (*tree.Node, error) {
	return b.root, nil
}

func (b *ephemeralBackend) save(_ *tree.Node) error {
	return nil
}
