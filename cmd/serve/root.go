package serve

import (
	"os"
	"os/signal"
	"strings"
	"syscall"

	cmdUtil "github.com/ValentinKolb/dTree/cmd/util"
	"github.com/ValentinKolb/dTree/rpc/common"
	"github.com/ValentinKolb/dTree/rpc/server"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	serveCmdConfig = &common.ServerConfig{}
	ServeCmd       = &cobra.Command{
		Use:     "serve",
		Short:   "Start the dTree server",
		Long:    `Start the dTree server with the specified configuration. The configuration can be set via command line flags or environment variables. The format of the environment variables is DTREE_<flag> (e.g. DTREE_HOST_STORAGE=memory)`,
		PreRunE: processConfig,
		RunE:    run,
	}
)

func init() {
	// initialize viper
	cobra.OnInitialize(cmdUtil.InitConfig)

	// add flags
	key := "adapters"
	ServeCmd.PersistentFlags().String(key, "100=local:DLCS|cache:DLCS", cmdUtil.WrapString("Comma-separated list of adapters to serve. Format: ID=DURABLE|EPHEMERAL[+tag] where DURABLE and EPHEMERAL are scheme:namespace pairs (either side may be empty, e.g. 200=|cache:tmp). The suffix +tag wraps read results in entries carrying the origin of the value"))

	key = "host-storage"
	ServeCmd.PersistentFlags().String(key, "file", cmdUtil.WrapString("Host storage used by durable backends (file, memory, none). With none every durable request fails with EnvironmentUnsupported"))

	key = "data-dir"
	ServeCmd.PersistentFlags().String(key, "data", cmdUtil.WrapString("(file host storage) Directory in which one JSON document per namespace is stored"))

	key = "timeout"
	ServeCmd.PersistentFlags().Int64(key, 5, cmdUtil.WrapString("Timeout in seconds for writing responses"))

	key = "endpoint"
	ServeCmd.PersistentFlags().String(key, "0.0.0.0:8080", cmdUtil.WrapString("The address on which the API will listen (e.g. localhost:8080, /tmp/dtree.sock, ...)"))

	key = "workers-per-conn"
	ServeCmd.PersistentFlags().Int(key, 16, cmdUtil.WrapString("Maximum number of requests processed in parallel per connection (ignored for http)"))

	key = "metrics-endpoint"
	ServeCmd.PersistentFlags().String(key, "", cmdUtil.WrapString("Address of the prometheus endpoint (e.g. localhost:9090), disabled if empty"))

	key = "log-level"
	ServeCmd.PersistentFlags().String(key, "info", cmdUtil.WrapString("LogLevel is the level at which logs will be output (debug, info, warn, error)"))
}

// processConfig reads the configuration from the command line flags and environment variables and converts them to the server configuration
func processConfig(cmd *cobra.Command, _ []string) error {
	// bind the flags to viper
	if err := cmdUtil.BindCommandFlags(cmd); err != nil {
		return err
	}

	// parse adapters
	mounts, err := common.ParseAdapterMounts(strings.Split(viper.GetString("adapters"), ","))
	if err != nil {
		return err
	}
	serveCmdConfig.Adapters = mounts

	// parse host storage
	kind, err := common.ParseHostStorageKind(viper.GetString("host-storage"))
	if err != nil {
		return err
	}
	serveCmdConfig.HostStorage = kind

	// read the configuration from the command line flags and environment variables
	serveCmdConfig.DataDir = viper.GetString("data-dir")
	serveCmdConfig.TimeoutSecond = viper.GetInt64("timeout")
	serveCmdConfig.Transport.Endpoint = viper.GetString("endpoint")
	serveCmdConfig.Transport.WorkersPerConn = viper.GetInt("workers-per-conn")
	serveCmdConfig.MetricsEndpoint = viper.GetString("metrics-endpoint")
	serveCmdConfig.LogLevel = viper.GetString("log-level")

	if _, err := common.ParseLogLevel(serveCmdConfig.LogLevel); err != nil {
		return err
	}

	return nil
}

// run starts the dTree server and blocks until it is stopped
func run(_ *cobra.Command, _ []string) error {
	if err := common.InitLoggers(serveCmdConfig.LogLevel); err != nil {
		return err
	}

	s, err := cmdUtil.GetSerializer()
	if err != nil {
		return err
	}

	t, err := cmdUtil.GetServerTransport()
	if err != nil {
		return err
	}

	host, err := server.NewHostStorage(*serveCmdConfig)
	if err != nil {
		return err
	}

	serv := server.NewRPCServer(
		*serveCmdConfig,
		t,
		s,
		host,
	)

	// stop the server on SIGINT / SIGTERM, Serve returns once the listener is closed
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(stop)
	go func() {
		sig := <-stop
		server.Logger.Infof("received %s, shutting down", sig)
		if err := serv.Close(); err != nil {
			server.Logger.Errorf("error during shutdown: %v", err)
		}
	}()

	return serv.Serve()
}
