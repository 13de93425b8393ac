// Package testing provides a conformance test suite for hoststore.IHostStorage
// implementations. Every implementation should pass RunHostStorageTests; the
// suite covers basic reads and writes, missing names, overwrites, unusual names
// (separators, dots, unicode, empty), large values and concurrent writers.
package testing
