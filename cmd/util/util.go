package util

import (
	"fmt"
	"strings"

	"github.com/ValentinKolb/dTree/rpc/common"
	"github.com/ValentinKolb/dTree/rpc/serializer"
	"github.com/ValentinKolb/dTree/rpc/transport"
	"github.com/ValentinKolb/dTree/rpc/transport/http"
	"github.com/ValentinKolb/dTree/rpc/transport/tcp"
	"github.com/ValentinKolb/dTree/rpc/transport/unix"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	// Wrap is the number of characters to Wrap the help text at
	Wrap int = 50
)

// WrapString wraps a string at Wrap characters
func WrapString(text string) string {
	var wrappedLines []string
	var currentLine strings.Builder
	lineWidth := 0

	for _, word := range strings.Fields(text) {
		wordWidth := len(word)

		// Check if we need to wrap
		if lineWidth > 0 && lineWidth+1+wordWidth > Wrap {
			wrappedLines = append(wrappedLines, currentLine.String())
			currentLine.Reset()
			lineWidth = 0
		}

		// Add space before word (if not first word on line)
		if lineWidth > 0 {
			currentLine.WriteString(" ")
			lineWidth++
		}

		// Add the word
		currentLine.WriteString(word)
		lineWidth += wordWidth
	}

	// Add any remaining text
	if currentLine.Len() > 0 {
		wrappedLines = append(wrappedLines, currentLine.String())
	}

	return strings.Join(wrappedLines, "\n")
}

// SetupRPCClientFlags adds common RPC connection flags to a command
func SetupRPCClientFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()

	flags.Int("timeout", 10, WrapString("The timeout in seconds of the client"))
	flags.String("transport-endpoints", "http://localhost:8080", WrapString("The address of the dTree server. For transports that support load balancing, multiple endpoints can be specified as a comma-separated list"))
	flags.Int("transport-conn-per-endpoint", 1, WrapString("Simultaneous connections per endpoint (ignored for http)"))
	flags.Int("transport-retries", 3, WrapString("How many attempts are made for a request before it fails"))

	// socket options
	flags.Int("transport-write-buffer", 512, WrapString("The size of the write buffer for the transport (in KB, ignored for http)"))
	flags.Int("transport-read-buffer", 512, WrapString("The size of the read buffer for the transport (in KB, ignored for http)"))
	flags.Bool("transport-tcp-nodelay", true, WrapString("Whether to enable TCP_NODELAY (tcp only)"))
	flags.Int("transport-tcp-keepalive", 0, WrapString("The keepalive interval in seconds, 0 disables keepalive (tcp only)"))
	flags.Int("transport-tcp-linger", -1, WrapString("The linger time in seconds, negative values keep the system default (tcp only)"))
}

// InitConfig loads .env files and binds environment variables with the prefix DTREE_
func InitConfig() {
	// load env files
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	// initialize viper
	viper.SetEnvPrefix("dtree")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // read in environment variables that match
}

// GetClientConfig reads client configuration from viper
func GetClientConfig() *common.ClientConfig {
	var endpoints []string
	for _, endpoint := range strings.Split(viper.GetString("transport-endpoints"), ",") {
		if endpoint = strings.TrimSpace(endpoint); endpoint != "" {
			endpoints = append(endpoints, endpoint)
		}
	}

	return &common.ClientConfig{
		TimeoutSecond: viper.GetInt("timeout"),
		Transport: common.ClientTransportConfig{
			Endpoints:              endpoints,
			RetryCount:             viper.GetInt("transport-retries"),
			ConnectionsPerEndpoint: viper.GetInt("transport-conn-per-endpoint"),
			SocketConf: common.SocketConf{
				WriteBufferSize: viper.GetInt("transport-write-buffer") * 1024,
				ReadBufferSize:  viper.GetInt("transport-read-buffer") * 1024,
			},
			TCPConf: common.TCPConf{
				TCPNoDelay:      viper.GetBool("transport-tcp-nodelay"),
				TCPKeepAliveSec: viper.GetInt("transport-tcp-keepalive"),
				TCPLingerSec:    viper.GetInt("transport-tcp-linger"),
			},
		},
	}
}

// --------------------------------------------------------------------------
// Serializer and transport selection
// --------------------------------------------------------------------------

var (
	serializers = map[string]func() serializer.IRPCSerializer{
		"json":   serializer.NewJSONSerializer,
		"gob":    serializer.NewGOBSerializer,
		"binary": serializer.NewBinarySerializer,
	}
	clientTransports = map[string]func() transport.IRPCClientTransport{
		"http": http.NewHttpClientTransport,
		"tcp":  tcp.NewTCPClientTransport,
		"unix": unix.NewUnixClientTransport,
	}
	serverTransports = map[string]func() transport.IRPCServerTransport{
		"http": http.NewHttpServerTransport,
		"tcp":  tcp.NewTCPDefaultServerTransport,
		"unix": unix.NewUnixDefaultServerTransport,
	}
)

// GetSerializer creates the serializer selected by the serializer flag
func GetSerializer() (serializer.IRPCSerializer, error) {
	return lookup(serializers, "serializer")
}

// GetTransport creates the client transport selected by the transport flag
func GetTransport() (transport.IRPCClientTransport, error) {
	return lookup(clientTransports, "transport")
}

// GetServerTransport creates the server transport selected by the transport flag
func GetServerTransport() (transport.IRPCServerTransport, error) {
	return lookup(serverTransports, "transport")
}

func lookup[T any](factories map[string]func() T, key string) (T, error) {
	name := viper.GetString(key)
	factory, ok := factories[strings.ToLower(name)]
	if !ok {
		var zero T
		return zero, fmt.Errorf("invalid %s %q", key, name)
	}
	return factory(), nil
}

// GetAdapterID retrieves the configured adapter ID
func GetAdapterID() uint64 {
	return viper.GetUint64("adapter")
}

// GetScheme retrieves the configured scheme
func GetScheme() string {
	return viper.GetString("scheme")
}

// BindCommandFlags binds a command's flags to viper
func BindCommandFlags(cmd *cobra.Command) error {
	return viper.BindPFlags(cmd.Flags())
}
