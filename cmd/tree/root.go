package tree

import (
	"github.com/ValentinKolb/dTree/cmd/util"
	"github.com/ValentinKolb/dTree/rpc/client"
	"github.com/spf13/cobra"
)

var (
	rpcTree client.ITreeClient

	// TreeCommands represents the tree command group
	TreeCommands = &cobra.Command{
		Use:               "tree",
		Short:             "Perform operations on the storage tree of a remote adapter",
		PersistentPreRunE: setupTreeClient,
		PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
			if rpcTree == nil {
				return nil
			}
			return rpcTree.Close()
		},
	}
)

func init() {
	// Initialize viper
	cobra.OnInitialize(util.InitConfig)

	// Add common RPC flags to the tree command
	util.SetupRPCClientFlags(TreeCommands)

	TreeCommands.PersistentFlags().Uint64("adapter", 100, util.WrapString("ID of the adapter to connect to"))
	TreeCommands.PersistentFlags().String("scheme", "local", util.WrapString("Scheme selecting the backend of the adapter (ignored by adapters with a single backend)"))

	// Add subcommands
	TreeCommands.AddCommand(getCmd)
	TreeCommands.AddCommand(entryCmd)
	TreeCommands.AddCommand(setCmd)
	TreeCommands.AddCommand(delCmd)
	TreeCommands.AddCommand(schemesCmd)
	TreeCommands.AddCommand(dumpCmd)
	TreeCommands.AddCommand(perfTestCmd)
}

// setupTreeClient initializes the RPC tree client
func setupTreeClient(cmd *cobra.Command, _ []string) error {
	// Bind command flags to viper
	if err := util.BindCommandFlags(cmd); err != nil {
		return err
	}

	// Get client configuration components
	config := util.GetClientConfig()
	adapterID := util.GetAdapterID()

	// Get serializer and transport
	s, err := util.GetSerializer()
	if err != nil {
		return err
	}

	t, err := util.GetTransport()
	if err != nil {
		return err
	}

	// Create the tree client
	rpcTree, err = client.NewRPCTree(
		adapterID,
		*config,
		t,
		s,
	)

	return err
}
