package server

import (
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"runtime"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/ValentinKolb/dTree/lib/adapter"
	"github.com/ValentinKolb/dTree/lib/hoststore"
	"github.com/ValentinKolb/dTree/rpc/common"
	"github.com/ValentinKolb/dTree/rpc/serializer"
	"github.com/ValentinKolb/dTree/rpc/transport"
	"github.com/VictoriaMetrics/metrics"
	"github.com/lni/dragonboat/v4/logger"
	"github.com/puzpuzpuz/xsync/v3"
)

var Logger = logger.GetLogger("rpc")

// mount is an adapter served under an ID.
// Adapters are not safe for concurrent use, mu serialises all calls into one adapter.
type mount struct {
	mu      sync.Mutex
	adapter adapter.IAdapter
	handler IRPCServerAdapter
}

// NewRPCServer creates a new RPC server
// It takes a config, transport, serializer and the host storage used by durable backends
// (nil if the environment has none) as parameters
//
// Usage:
//
//	s := server.NewRPCServer(
//		*config,
//		http.NewHttpServerTransport(),
//		serializer.NewJSONSerializer(),
//		hoststore.NewFileStorage("./data"),
//	)
//
//	if err := s.Serve(); err != nil {
//		panic(err)
//	}
func NewRPCServer(
	config common.ServerConfig,
	transport transport.IRPCServerTransport,
	serializer serializer.IRPCSerializer,
	host hoststore.IHostStorage,
) *rpcServer {
	// https://github.com/golang/go/issues/17393
	if runtime.GOOS == "darwin" {
		signal.Ignore(syscall.Signal(0xd))
	}

	Logger.Infof("Created RPC Server")
	Logger.Infof("%s", config.String())

	return &rpcServer{
		config:     config,
		transport:  transport,
		serializer: serializer,
		host:       host,
		mounts:     xsync.NewMapOf[uint64, *mount](),
	}
}

type rpcServer struct {
	config     common.ServerConfig
	transport  transport.IRPCServerTransport
	serializer serializer.IRPCSerializer
	host       hoststore.IHostStorage
	mounts     *xsync.MapOf[uint64, *mount]

	metricsServer *http.Server
}

// NewHostStorage creates the host storage selected by the configuration.
// The kind "none" returns a nil storage.
func NewHostStorage(config common.ServerConfig) (hoststore.IHostStorage, error) {
	switch config.HostStorage {
	case common.HostStorageFile:
		if config.DataDir == "" {
			return nil, fmt.Errorf("host storage %q requires a data directory", config.HostStorage)
		}
		return hoststore.NewFileStorage(config.DataDir), nil
	case common.HostStorageMemory:
		return hoststore.NewMemoryStorage(), nil
	case common.HostStorageNone:
		return nil, nil
	default:
		return nil, fmt.Errorf("invalid host storage %q", config.HostStorage)
	}
}

// --------------------------------------------------------------------------
// Request handling
// --------------------------------------------------------------------------

// handle decodes a request for an adapter, runs it and returns the encoded response
func (s *rpcServer) handle(adapterID uint64, req []byte) []byte {
	start := time.Now()
	var msg common.Message
	var respMsg *common.Message

	m, ok := s.mounts.Load(adapterID)
	if !ok {
		respMsg = common.NewErrorResponse(0, fmt.Sprintf("adapter %d not found", adapterID))
	} else if err := s.serializer.Deserialize(req, &msg); err != nil {
		respMsg = common.NewErrorResponse(0, fmt.Sprintf("failed to deserialize request: %s", err))
	} else {
		m.mu.Lock()
		respMsg = m.handler.Handle(&msg, m.adapter)
		m.mu.Unlock()
	}

	requestCounter(adapterID, msg.MsgType).Inc()
	requestDuration(adapterID).UpdateDuration(start)

	val, err := s.serializer.Serialize(*respMsg)
	if err != nil {
		Logger.Errorf("failed to serialize response: %v", err)
		val, _ = s.serializer.Serialize(*common.NewErrorResponse(0, fmt.Sprintf("failed to serialize response: %s", err)))
	}
	return val
}

// --------------------------------------------------------------------------
// Lifecycle
// --------------------------------------------------------------------------

func (s *rpcServer) init() error {
	if len(s.config.Adapters) == 0 {
		return fmt.Errorf("no adapters configured")
	}

	for _, mc := range s.config.Adapters {
		a, err := adapter.NewAdapter(mc.Config, s.host)
		if err != nil {
			return fmt.Errorf("failed to create adapter %d: %w", mc.ID, err)
		}
		if _, loaded := s.mounts.LoadOrStore(mc.ID, &mount{adapter: a, handler: NewTreeServerAdapter()}); loaded {
			return fmt.Errorf("adapter id %d is used more than once", mc.ID)
		}
		Logger.Infof("mounted adapter %d with schemes %v", mc.ID, a.Schemes())
	}

	s.transport.RegisterHandler(s.handle)

	Logger.Infof("dTree setup completed successfully")
	return nil
}

// Serve starts the RPC server
// This function creates the adapters, starts the metrics endpoint (if configured)
// and blocks in the transport layer until Close is called
func (s *rpcServer) Serve() error {
	if err := s.init(); err != nil {
		return err
	}

	if s.config.MetricsEndpoint != "" {
		s.startMetrics()
	}

	return s.transport.Listen(s.config)
}

// Close stops the transport layer and the metrics endpoint
func (s *rpcServer) Close() error {
	var errs []error
	if s.metricsServer != nil {
		errs = append(errs, s.metricsServer.Close())
	}
	errs = append(errs, s.transport.Close())
	return errors.Join(errs...)
}

// --------------------------------------------------------------------------
// Metrics
// --------------------------------------------------------------------------

// startMetrics serves all metrics in the Prometheus text format on /metrics
func (s *rpcServer) startMetrics() {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /metrics", func(w http.ResponseWriter, _ *http.Request) {
		metrics.WritePrometheus(w, true)
	})
	s.metricsServer = &http.Server{Addr: s.config.MetricsEndpoint, Handler: mux}

	go func() {
		Logger.Infof("Serving metrics on %s/metrics", s.config.MetricsEndpoint)
		if err := s.metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			Logger.Errorf("metrics endpoint failed: %v", err)
		}
	}()
}

func requestCounter(adapterID uint64, msgType common.MessageType) *metrics.Counter {
	return metrics.GetOrCreateCounter(fmt.Sprintf(`dtree_rpc_requests_total{adapter="%s",type="%s"}`,
		strconv.FormatUint(adapterID, 10), msgType))
}

func requestDuration(adapterID uint64) *metrics.Histogram {
	return metrics.GetOrCreateHistogram(fmt.Sprintf(`dtree_rpc_request_duration_seconds{adapter="%s"}`,
		strconv.FormatUint(adapterID, 10)))
}
