// Package cmd implements the command-line interface of dTree. It provides a
// hierarchical command structure with operations for running the server and
// interacting with it as a client.
//
// The package is organized into several subpackages:
//
//   - serve: Commands for starting and configuring the dTree server
//   - tree: Commands for tree operations (get, set, del, schemes, dump, perf)
//   - util: Shared utilities for command-line processing and configuration (internal use)
//
// Every flag can also be set through an environment variable with the prefix
// DTREE_ (dashes become underscores, e.g. DTREE_HOST_STORAGE=memory). The files
// .env and .env.local are loaded on startup.
//
// Example:
//
//	dtree serve --transport tcp --endpoint localhost:8080 --host-storage file --data-dir ./data
//	dtree tree --transport tcp --transport-endpoints localhost:8080 set /config/port 8080
//	dtree tree --transport tcp --transport-endpoints localhost:8080 --scheme cache get /config/port
//
// See dtree -help for a list of all commands.
package cmd
