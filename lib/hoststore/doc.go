// Package hoststore defines the string-keyed storage facility that the host
// environment provides to the durable backend of an adapter, together with two
// implementations.
//
// The durable backend stores a whole tree as a single JSON document under the name
// of its namespace. It only needs two operations, Get and Set, which are described
// by the IHostStorage interface. An environment without persistent storage is
// represented by a nil IHostStorage; the adapter then reports every durable
// operation as unsupported.
//
// Implementations:
//
//   - Memory Storage (NewMemoryStorage): Keeps all documents in a concurrent map
//     (xsync.MapOf). Documents live as long as the process. Useful for tests and
//     for servers that only need the durable semantics (whole-document writes,
//     fresh load per request) without touching the disk.
//
//   - File Storage (NewFileStorage): Keeps one file per name in a directory.
//     Documents survive restarts. Writes are atomic from the caller's perspective
//     (temporary file + rename), a failed write leaves the previous document intact.
//
// Errors:
//
//	I/O failures are reported wrapped in ErrReadFailed or ErrWriteFailed and can
//	be tested with errors.Is. A missing name is not an error, Get returns ok=false.
//
// The testing subpackage (github.com/ValentinKolb/dTree/lib/hoststore/testing)
// provides a conformance test suite for IHostStorage implementations:
//
//	func TestMyStorage(t *testing.T) {
//		hstesting.RunHostStorageTests(t, "MyStorage", func() hoststore.IHostStorage {
//			return NewMyStorage()
//		})
//	}
package hoststore
