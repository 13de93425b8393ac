package adapter

import (
	"fmt"

	"github.com/ValentinKolb/dTree/lib/hoststore"
	"github.com/ValentinKolb/dTree/lib/tree"
	"github.com/lni/dragonboat/v4/logger"
)

var log = logger.GetLogger("adapter")

// --------------------------------------------------------------------------
// Constructor
// --------------------------------------------------------------------------

// adapterImpl implements IAdapter on top of at most one durable and one ephemeral backend
type adapterImpl struct {
	config   Config
	backends []backend // durable first
}

// NewAdapter creates a new adapter from the given configuration.
// The host storage is used by the durable backend, if it is nil every durable request
// fails with ErrEnvironmentUnsupported. The ephemeral backend does not need a host.
func NewAdapter(config Config, host hoststore.IHostStorage) (IAdapter, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid adapter config: %w", err)
	}

	a := &adapterImpl{config: config}

	if config.HasDurable() {
		if host == nil {
			log.Warningf("no host storage available, requests to scheme %s will fail", config.DurableScheme)
		}
		a.backends = append(a.backends, &durableBackend{
			schemeName: config.DurableScheme,
			namespace:  config.DurableNamespace,
			host:       host,
		})
	}

	if config.HasEphemeral() {
		a.backends = append(a.backends, &ephemeralBackend{
			schemeName: config.EphemeralScheme,
			root:       tree.New(config.EphemeralNamespace, nil),
		})
	}

	log.Debugf("created adapter with schemes %v", a.Schemes())
	return a, nil
}

// --------------------------------------------------------------------------
// Interface Methods (docu see interface.go)
// --------------------------------------------------------------------------

func (a *adapterImpl) Schemes() []string {
	schemes := make([]string, 0, len(a.backends))
	for _, b := range a.backends {
		schemes = append(schemes, b.scheme())
	}
	return schemes
}

func (a *adapterImpl) Execute(req Request, injector Injector) (any, error) {
	result, err := a.execute(req, injector)
	if err != nil {
		countError(err)
		log.Debugf("%s %s://%s failed: %v", req.Type, req.Scheme, req.Path, err)
	}
	return result, err
}

func (a *adapterImpl) ExecuteAsync(req Request, injector Injector) <-chan Result {
	ch := make(chan Result, 1)
	value, err := a.Execute(req, injector)
	ch <- Result{Value: value, Err: err}
	close(ch)
	return ch
}

// --------------------------------------------------------------------------
// Internal
// --------------------------------------------------------------------------

// selectBackend returns the backend serving the given scheme.
// With a single backend the scheme is not checked.
func (a *adapterImpl) selectBackend(scheme string) (backend, error) {
	if len(a.backends) == 1 {
		return a.backends[0], nil
	}
	for _, b := range a.backends {
		if b.scheme() == scheme {
			return b, nil
		}
	}
	return nil, NewError(RetCUnknownScheme, fmt.Sprintf("scheme %q is not served (available: %v)", scheme, a.Schemes()))
}

func (a *adapterImpl) execute(req Request, injector Injector) (any, error) {
	switch req.Type {
	case OpRead, OpWrite, OpDelete:
	default:
		return nil, NewError(RetCInvalidOperation, fmt.Sprintf("unknown operation type %d", req.Type))
	}

	b, err := a.selectBackend(req.Scheme)
	if err != nil {
		return nil, err
	}
	requestCounter(req.Type, b.name()).Inc()

	root, err := b.load()
	if err != nil {
		return nil, err
	}

	node := tree.Resolve(root, req.Path)
	node = inject(injector, node, PhaseBeforeOperation)

	switch req.Type {
	case OpRead:
		// the after hook runs before the value is taken so it can still change it,
		// the value is looked up again from the root to observe such changes
		inject(injector, node, PhaseAfterOperation)
		value := tree.Resolve(root, req.Path).Value
		if a.config.TagOrigin {
			return Entry{Key: req.Path, Value: value, Origin: b.origin()}, nil
		}
		return value, nil

	case OpWrite:
		node.Value = req.Payload

	case OpDelete:
		tree.Remove(node, root)
	}

	if err := b.save(root); err != nil {
		return nil, err
	}

	node = inject(injector, node, PhaseAfterOperation)
	return node.Value, nil
}

// inject calls the injector (if any) and returns the node to continue with
func inject(injector Injector, node *tree.Node, phase Phase) *tree.Node {
	if injector == nil {
		return node
	}
	if n := injector(node, phase); n != nil {
		return n
	}
	return node
}
