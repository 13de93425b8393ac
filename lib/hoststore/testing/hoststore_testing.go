package testing

import (
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/ValentinKolb/dTree/lib/hoststore"
)

// StorageFactory is a function that creates a new, empty IHostStorage instance
type StorageFactory func() hoststore.IHostStorage

// RunHostStorageTests runs the conformance test suite for an IHostStorage implementation.
func RunHostStorageTests(t *testing.T, name string, factory StorageFactory) {
	t.Run(name, func(t *testing.T) {
		t.Run("Set&Get", func(t *testing.T) {
			testSetGet(t, factory())
		})

		t.Run("Missing", func(t *testing.T) {
			testMissing(t, factory())
		})

		t.Run("Overwrite", func(t *testing.T) {
			testOverwrite(t, factory())
		})

		t.Run("EdgeCases", func(t *testing.T) {
			testEdgeCases(t, factory())
		})

		t.Run("Isolation", func(t *testing.T) {
			testIsolation(t, factory())
		})

		t.Run("Concurrent", func(t *testing.T) {
			testConcurrent(t, factory())
		})
	})
}

// --------------------------------------------------------------------------
// Helper functions
// --------------------------------------------------------------------------

// mustSet stores a value and fails the test on error
func mustSet(t testing.TB, s hoststore.IHostStorage, name, value string) {
	t.Helper()
	if err := s.Set(name, value); err != nil {
		t.Fatalf("Set(%q) error = %v", name, err)
	}
}

// expectValue checks that name holds want
func expectValue(t testing.TB, s hoststore.IHostStorage, name, want string) {
	t.Helper()
	got, ok, err := s.Get(name)
	if err != nil {
		t.Fatalf("Get(%q) error = %v", name, err)
	}
	if !ok {
		t.Fatalf("Get(%q) ok = false, want true", name)
	}
	if got != want {
		t.Errorf("Get(%q) = %q, want %q", name, got, want)
	}
}

// --------------------------------------------------------------------------
// Test functions
// --------------------------------------------------------------------------

func testSetGet(t *testing.T, s hoststore.IHostStorage) {
	mustSet(t, s, "DLCS", `{"key":"DLCS","children":[]}`)
	expectValue(t, s, "DLCS", `{"key":"DLCS","children":[]}`)
}

func testMissing(t *testing.T, s hoststore.IHostStorage) {
	value, ok, err := s.Get("does-not-exist")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if ok {
		t.Errorf("Get() ok = true for a missing name (value %q)", value)
	}
}

func testOverwrite(t *testing.T, s hoststore.IHostStorage) {
	mustSet(t, s, "name", "first")
	mustSet(t, s, "name", "second")
	expectValue(t, s, "name", "second")

	// shorter value must not leave a tail of the old one
	mustSet(t, s, "name", "x")
	expectValue(t, s, "name", "x")
}

func testEdgeCases(t *testing.T, s hoststore.IHostStorage) {
	names := []string{
		"",
		"with space",
		"with/slash",
		"../escape",
		".",
		"..",
		"ünïcödé",
		strings.Repeat("long", 50),
	}

	for i, name := range names {
		mustSet(t, s, name, fmt.Sprintf("value-%d", i))
	}
	for i, name := range names {
		expectValue(t, s, name, fmt.Sprintf("value-%d", i))
	}

	// empty value is a value
	mustSet(t, s, "empty", "")
	expectValue(t, s, "empty", "")

	// large value
	large := strings.Repeat("0123456789", 100_000)
	mustSet(t, s, "large", large)
	expectValue(t, s, "large", large)
}

func testIsolation(t *testing.T, s hoststore.IHostStorage) {
	mustSet(t, s, "a", "1")
	mustSet(t, s, "b", "2")
	expectValue(t, s, "a", "1")
	expectValue(t, s, "b", "2")

	if _, ok, _ := s.Get("ab"); ok {
		t.Error("Get(ab) ok = true, names must not be combined")
	}
}

func testConcurrent(t *testing.T, s hoststore.IHostStorage) {
	const workers = 8
	const writes = 25

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < writes; i++ {
				name := fmt.Sprintf("worker-%d", w)
				if err := s.Set(name, fmt.Sprintf("%d", i)); err != nil {
					t.Errorf("Set(%q) error = %v", name, err)
					return
				}
			}
		}(w)
	}
	wg.Wait()

	for w := 0; w < workers; w++ {
		expectValue(t, s, fmt.Sprintf("worker-%d", w), fmt.Sprintf("%d", writes-1))
	}
}
