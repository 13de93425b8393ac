package cmd

import (
	"fmt"
	"os"

	"github.com/ValentinKolb/dTree/cmd/serve"
	"github.com/ValentinKolb/dTree/cmd/tree"
	"github.com/ValentinKolb/dTree/cmd/util"
	"github.com/spf13/cobra"
)

const (
	Version = "0.1.0"
)

var (

	// RootCmd represents the base command when called without any subcommands
	RootCmd = &cobra.Command{
		Use:   "dtree",
		Short: "hierarchical path-addressable storage",
		Long: fmt.Sprintf(`dTree (v%s)

A hierarchical, path-addressable storage tree written in Go.
Every adapter serves a durable tree (persisted in the host storage)
and/or an ephemeral tree (kept in memory), selected by a scheme.`, Version),
	}
	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of dTree",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("dTree v%s\n", Version)
		},
	}
)

func init() {
	// Add Commands
	RootCmd.AddCommand(serve.ServeCmd)
	RootCmd.AddCommand(tree.TreeCommands)
	RootCmd.AddCommand(versionCmd)

	// Add Flags
	key := "serializer"
	RootCmd.PersistentFlags().String(key, "json", util.WrapString("serializer to use (json, gob, binary)"))
	key = "transport"
	RootCmd.PersistentFlags().String(key, "http", util.WrapString("transport to use (http, tcp, unix)"))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
