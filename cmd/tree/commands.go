package tree

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ValentinKolb/dTree/cmd/util"
	"github.com/ValentinKolb/dTree/lib/adapter"
	"github.com/ValentinKolb/dTree/lib/hoststore"
	"github.com/ValentinKolb/dTree/lib/tree"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	getCmd = &cobra.Command{
		Use:   "get [path]",
		Short: "Reads the value of a node",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			value, err := rpcTree.Read(util.GetScheme(), path)
			if err != nil {
				return err
			}
			fmt.Printf("path=%s, set=%t, value=%s\n", path, value != nil, formatValue(value))
			return nil
		},
	}
	entryCmd = &cobra.Command{
		Use:   "entry [path]",
		Short: "Reads the value of a node together with its origin (requires an adapter with origin tagging)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entry, err := rpcTree.ReadEntry(util.GetScheme(), args[0])
			if err != nil {
				return err
			}
			fmt.Printf("path=%s, origin=%s, value=%s\n", entry.Key, entry.Origin, formatValue(entry.Value))
			return nil
		},
	}
	setCmd = &cobra.Command{
		Use:   "set [path] [value]",
		Short: "Sets the value of a node, the value is parsed as JSON (e.g. 123, '\"text\"', '{\"a\":1}')",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := parseValue(args[1])
			if err != nil {
				return err
			}
			written, err := rpcTree.Write(util.GetScheme(), args[0], value)
			if err != nil {
				return err
			}
			fmt.Printf("set successfully, value=%s\n", formatValue(written))
			return nil
		},
	}
	delCmd = &cobra.Command{
		Use:   "del [path]",
		Short: "Deletes a node and its subtree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			last, err := rpcTree.Delete(util.GetScheme(), args[0])
			if err != nil {
				return err
			}
			fmt.Printf("delete successfully, last value=%s\n", formatValue(last))
			return nil
		},
	}
	schemesCmd = &cobra.Command{
		Use:   "schemes",
		Short: "Lists the schemes served by the adapter",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			schemes, err := rpcTree.Schemes()
			if err != nil {
				return err
			}
			fmt.Printf("adapter=%d, schemes=%s\n", util.GetAdapterID(), strings.Join(schemes, ","))
			return nil
		},
	}
	dumpCmd = &cobra.Command{
		Use:   "dump [path]",
		Short: "Prints a tree persisted by the file host storage (reads the data directory directly, no server needed)",
		Args:  cobra.MaximumNArgs(1),
		// dump works offline and must not connect to a server
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return util.BindCommandFlags(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/"
			if len(args) == 1 {
				path = args[0]
			}
			host := hoststore.NewFileStorage(viper.GetString("data-dir"))
			return dumpTree(os.Stdout, host, viper.GetString("namespace"), path)
		},
	}
)

func init() {
	dumpCmd.Flags().String("data-dir", "data", util.WrapString("Data directory of the file host storage"))
	dumpCmd.Flags().String("namespace", adapter.DefaultNamespace, util.WrapString("Namespace of the durable tree"))
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

// parseValue parses a command line value as JSON
func parseValue(arg string) (any, error) {
	var value any
	if err := json.Unmarshal([]byte(arg), &value); err != nil {
		return nil, fmt.Errorf("value %q is not valid JSON (strings must be quoted, e.g. '\"text\"'): %w", arg, err)
	}
	return value, nil
}

// formatValue renders a value as JSON, unset values are printed as <unset>
func formatValue(value any) string {
	if value == nil {
		return "<unset>"
	}
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Sprintf("%v", value)
	}
	return string(data)
}

// dumpTree prints every node below path of the tree persisted under namespace
func dumpTree(w io.Writer, host hoststore.IHostStorage, namespace, path string) error {
	data, ok, err := host.Get(namespace)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("namespace %s not found", namespace)
	}

	root, err := tree.Unmarshal([]byte(data))
	if err != nil {
		return fmt.Errorf("corrupt document in namespace %s: %w", namespace, err)
	}

	node, ok := tree.Lookup(root, path)
	if !ok {
		return fmt.Errorf("path %s not found in namespace %s", path, namespace)
	}

	// the root is printed as [namespace], every other node with its absolute path
	var prefix string
	if segments := tree.Segments(path); len(segments) > 0 {
		prefix = tree.Separator + strings.Join(segments, tree.Separator)
	}
	node.Walk(func(p string, n *tree.Node) bool {
		full := prefix + p
		if full == "" {
			full = "[" + root.Key + "]"
		}
		if n.Value != nil {
			_, err = fmt.Fprintf(w, "%s = %s\n", full, formatValue(n.Value))
		} else {
			_, err = fmt.Fprintf(w, "%s\n", full)
		}
		return err == nil
	})
	return err
}
