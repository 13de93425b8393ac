package common

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/ValentinKolb/dTree/lib/adapter"
)

// --------------------------------------------------------------------------
// Transport configuration (shared by server and client)
// --------------------------------------------------------------------------

// SocketConf holds socket buffer options (ignored by the http transport)
type SocketConf struct {
	WriteBufferSize int // in bytes, 0 = system default
	ReadBufferSize  int // in bytes, 0 = system default
}

// TCPConf holds options that only apply to tcp connections
type TCPConf struct {
	TCPNoDelay      bool
	TCPKeepAliveSec int // 0 = disabled
	TCPLingerSec    int // < 0 = system default
}

// ServerTransportConfig holds the transport parameters of the server
type ServerTransportConfig struct {
	// Endpoint is the address to listen on (host:port or socket path)
	Endpoint string
	// WorkersPerConn limits the requests processed in parallel per connection (socket transports)
	WorkersPerConn int
	SocketConf
	TCPConf
}

// ClientTransportConfig holds the transport parameters of a client
type ClientTransportConfig struct {
	Endpoints              []string
	RetryCount             int
	ConnectionsPerEndpoint int
	SocketConf
	TCPConf
}

// --------------------------------------------------------------------------
// RPC server configuration struct
// --------------------------------------------------------------------------

// HostStorageKind selects the host storage facility used by durable backends
type HostStorageKind string

const (
	HostStorageFile   HostStorageKind = "file"   // One JSON document per namespace in DataDir
	HostStorageMemory HostStorageKind = "memory" // Process memory, lost on restart
	HostStorageNone   HostStorageKind = "none"   // No host storage, durable requests fail
)

// ParseHostStorageKind parses the name of a host storage kind
func ParseHostStorageKind(s string) (HostStorageKind, error) {
	switch kind := HostStorageKind(strings.ToLower(s)); kind {
	case HostStorageFile, HostStorageMemory, HostStorageNone:
		return kind, nil
	default:
		return "", fmt.Errorf("invalid host storage %q, must be one of file, memory, none", s)
	}
}

// AdapterMount is an adapter served under an ID
type AdapterMount struct {
	ID     uint64
	Config adapter.Config
}

// ServerConfig holds all configuration parameters of the RPC server.
type ServerConfig struct {
	// Adapters served by the server
	Adapters []AdapterMount

	// Host storage used by all durable backends
	HostStorage HostStorageKind
	DataDir     string

	// Timeout of socket reads and writes
	TimeoutSecond int64

	// Transport settings
	Transport ServerTransportConfig

	// Prometheus endpoint, disabled if empty
	MetricsEndpoint string

	// Logging configuration
	LogLevel string
}

// String returns a formatted string representation of the configuration
func (c *ServerConfig) String() string {
	var sb strings.Builder

	// Create helper functions for consistent formatting
	addSection := func(title string) {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("%s\n", strings.ToUpper(title)))
	}

	addField := func(name, value string) {
		sb.WriteString(fmt.Sprintf("  %-22s: %s\n", name, value))
	}

	// RPC settings
	addSection("RPC Server")
	addField("Endpoint", c.Transport.Endpoint)
	addField("Timeout", fmt.Sprintf("%d sec", c.TimeoutSecond))
	addField("Workers Per Conn", strconv.Itoa(c.Transport.WorkersPerConn))
	if c.MetricsEndpoint != "" {
		addField("Metrics Endpoint", c.MetricsEndpoint)
	}

	// Logging configuration
	addSection("Logging")
	addField("Log Level", c.LogLevel)

	// Storage
	addSection("Host Storage")
	addField("Kind", string(c.HostStorage))
	if c.HostStorage == HostStorageFile {
		addField("Data Directory", c.DataDir)
	}

	// Adapters
	for _, mount := range c.Adapters {
		addSection(fmt.Sprintf("Adapter %d", mount.ID))
		sb.WriteString(mount.Config.String())
	}

	return sb.String()
}

// --------------------------------------------------------------------------
// Adapter mount parsing
// --------------------------------------------------------------------------

// ParseAdapterMount parses an adapter definition of the form
//
//	ID=durableScheme:durableNamespace|ephemeralScheme:ephemeralNamespace[+tag]
//
// Either backend may be left empty (e.g. "7=|cache:tmp"), a missing namespace
// defaults to adapter.DefaultNamespace. The suffix "+tag" enables origin tagging.
func ParseAdapterMount(def string) (AdapterMount, error) {
	idStr, rest, found := strings.Cut(strings.TrimSpace(def), "=")
	if !found {
		return AdapterMount{}, fmt.Errorf("invalid adapter %q: missing '='", def)
	}

	id, err := strconv.ParseUint(strings.TrimSpace(idStr), 10, 64)
	if err != nil {
		return AdapterMount{}, fmt.Errorf("invalid adapter %q: bad id: %w", def, err)
	}

	var conf adapter.Config
	if trimmed, ok := strings.CutSuffix(rest, "+tag"); ok {
		conf.TagOrigin = true
		rest = trimmed
	}

	durable, ephemeral, _ := strings.Cut(rest, "|")
	conf.DurableScheme, conf.DurableNamespace = parseBackend(durable)
	conf.EphemeralScheme, conf.EphemeralNamespace = parseBackend(ephemeral)

	if err := conf.Validate(); err != nil {
		return AdapterMount{}, fmt.Errorf("invalid adapter %q: %w", def, err)
	}
	return AdapterMount{ID: id, Config: conf}, nil
}

// ParseAdapterMounts parses a list of adapter definitions and checks that the IDs are unique
func ParseAdapterMounts(defs []string) ([]AdapterMount, error) {
	mounts := make([]AdapterMount, 0, len(defs))
	seen := make(map[uint64]bool, len(defs))
	for _, def := range defs {
		if strings.TrimSpace(def) == "" {
			continue
		}
		mount, err := ParseAdapterMount(def)
		if err != nil {
			return nil, err
		}
		if seen[mount.ID] {
			return nil, fmt.Errorf("adapter id %d is defined more than once", mount.ID)
		}
		seen[mount.ID] = true
		mounts = append(mounts, mount)
	}
	if len(mounts) == 0 {
		return nil, fmt.Errorf("no adapters defined")
	}
	return mounts, nil
}

// parseBackend splits "scheme:namespace" (namespace optional)
func parseBackend(s string) (scheme, namespace string) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", ""
	}
	scheme, namespace, _ = strings.Cut(s, ":")
	if namespace == "" {
		namespace = adapter.DefaultNamespace
	}
	return scheme, namespace
}

// --------------------------------------------------------------------------
// RPC client configuration struct
// --------------------------------------------------------------------------

type ClientConfig struct {
	TimeoutSecond int
	Transport     ClientTransportConfig
}

// String returns a formatted string representation of the client configuration
func (c *ClientConfig) String() string {
	var sb strings.Builder

	// Create helper functions for consistent formatting
	addSection := func(title string) {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("%s\n", strings.ToUpper(title)))
	}

	addField := func(name, value string) {
		sb.WriteString(fmt.Sprintf("  %-22s: %s\n", name, value))
	}

	// General Client Settings
	addSection("Client Configuration")
	addField("Timeout", fmt.Sprintf("%d sec", c.TimeoutSecond))
	addField("Retry Count", strconv.Itoa(c.Transport.RetryCount))
	addField("Connections Per Endpoint", strconv.Itoa(int(math.Max(1, float64(c.Transport.ConnectionsPerEndpoint)))))

	// Endpoints
	addSection("Endpoints")
	for i, endpoint := range c.Transport.Endpoints {
		addField(strconv.Itoa(i), endpoint)
	}

	return sb.String()
}
