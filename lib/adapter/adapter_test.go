package adapter

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/ValentinKolb/dTree/lib/hoststore"
	"github.com/ValentinKolb/dTree/lib/tree"
)

// --------------------------------------------------------------------------
// Helpers
// --------------------------------------------------------------------------

func newTestAdapter(t *testing.T, config Config, host hoststore.IHostStorage) IAdapter {
	t.Helper()
	a, err := NewAdapter(config, host)
	if err != nil {
		t.Fatalf("NewAdapter() error = %v", err)
	}
	return a
}

func mustExecute(t *testing.T, a IAdapter, req Request) any {
	t.Helper()
	v, err := a.Execute(req, nil)
	if err != nil {
		t.Fatalf("Execute(%s %s://%s) error = %v", req.Type, req.Scheme, req.Path, err)
	}
	return v
}

func read(scheme, path string) Request {
	return Request{Scheme: scheme, Path: path, Type: OpRead}
}

func write(scheme, path string, value any) Request {
	return Request{Scheme: scheme, Path: path, Type: OpWrite, Payload: value}
}

func del(scheme, path string) Request {
	return Request{Scheme: scheme, Path: path, Type: OpDelete}
}

// failingStorage fails every call
type failingStorage struct {
	err error
}

func (f *failingStorage) Get(string) (string, bool, error) { return "", false, f.err }
func (f *failingStorage) Set(string, string) error        { return f.err }

// --------------------------------------------------------------------------
// Construction
// --------------------------------------------------------------------------

func TestNewAdapter_InvalidConfig(t *testing.T) {
	if _, err := NewAdapter(Config{}, nil); err == nil {
		t.Error("NewAdapter() with no backend succeeded, want error")
	}
}

func TestSchemes(t *testing.T) {
	tests := []struct {
		name   string
		config Config
		want   []string
	}{
		{"dual", DefaultConfig(), []string{"local", "cache"}},
		{"durable only", Config{DurableScheme: "local", DurableNamespace: "DLCS"}, []string{"local"}},
		{"ephemeral only", Config{EphemeralScheme: "cache", EphemeralNamespace: "DLCS"}, []string{"cache"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newTestAdapter(t, tt.config, hoststore.NewMemoryStorage())
			if got := a.Schemes(); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Schemes() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDurableNotLoadedOnConstruction(t *testing.T) {
	// a failing host must not matter until the first durable request
	host := &failingStorage{err: errors.New("boom")}
	a := newTestAdapter(t, DefaultConfig(), host)

	if _, err := a.Execute(write("cache", "/x", 1), nil); err != nil {
		t.Errorf("ephemeral Execute() error = %v", err)
	}
}

// --------------------------------------------------------------------------
// Operations (both backends)
// --------------------------------------------------------------------------

func TestOperations(t *testing.T) {
	for _, scheme := range []string{"local", "cache"} {
		t.Run(scheme, func(t *testing.T) {
			t.Run("ReadUnset", func(t *testing.T) {
				a := newTestAdapter(t, DefaultConfig(), hoststore.NewMemoryStorage())
				if v := mustExecute(t, a, read(scheme, "/missing/path")); v != nil {
					t.Errorf("Read() = %v, want nil", v)
				}
			})

			t.Run("WriteThenRead", func(t *testing.T) {
				a := newTestAdapter(t, DefaultConfig(), hoststore.NewMemoryStorage())

				if v := mustExecute(t, a, write(scheme, "/a/b", "hello")); v != "hello" {
					t.Errorf("Write() = %v, want hello", v)
				}
				if v := mustExecute(t, a, read(scheme, "/a/b")); v != "hello" {
					t.Errorf("Read() = %v, want hello", v)
				}
			})

			t.Run("Overwrite", func(t *testing.T) {
				a := newTestAdapter(t, DefaultConfig(), hoststore.NewMemoryStorage())
				mustExecute(t, a, write(scheme, "/k", "v1"))
				mustExecute(t, a, write(scheme, "/k", "v2"))
				if v := mustExecute(t, a, read(scheme, "/k")); v != "v2" {
					t.Errorf("Read() = %v, want v2", v)
				}
			})

			t.Run("DeleteIdempotent", func(t *testing.T) {
				a := newTestAdapter(t, DefaultConfig(), hoststore.NewMemoryStorage())
				mustExecute(t, a, write(scheme, "/a/b", "x"))

				if v := mustExecute(t, a, del(scheme, "/a/b")); v != "x" {
					t.Errorf("Delete() = %v, want last value x", v)
				}
				if v := mustExecute(t, a, read(scheme, "/a/b")); v != nil {
					t.Errorf("Read() after Delete = %v, want nil", v)
				}
				if v := mustExecute(t, a, del(scheme, "/a/b")); v != nil {
					t.Errorf("second Delete() = %v, want nil", v)
				}
			})

			t.Run("DeleteSubtree", func(t *testing.T) {
				a := newTestAdapter(t, DefaultConfig(), hoststore.NewMemoryStorage())
				mustExecute(t, a, write(scheme, "/a/b/c", "deep"))
				mustExecute(t, a, write(scheme, "/a/d", "sibling"))

				mustExecute(t, a, del(scheme, "/a/b"))

				if v := mustExecute(t, a, read(scheme, "/a/b/c")); v != nil {
					t.Errorf("Read(/a/b/c) = %v, want nil", v)
				}
				if v := mustExecute(t, a, read(scheme, "/a/d")); v != "sibling" {
					t.Errorf("Read(/a/d) = %v, want sibling", v)
				}
			})

			t.Run("RootValue", func(t *testing.T) {
				a := newTestAdapter(t, DefaultConfig(), hoststore.NewMemoryStorage())
				mustExecute(t, a, write(scheme, "/", "root"))
				if v := mustExecute(t, a, read(scheme, "")); v != "root" {
					t.Errorf("Read(\"\") = %v, want root", v)
				}
			})
		})
	}
}

func TestDurable_NumbersDecodeAsFloat(t *testing.T) {
	a := newTestAdapter(t, DefaultConfig(), hoststore.NewMemoryStorage())

	if v := mustExecute(t, a, write("local", "/a/b", 123)); v != 123 {
		t.Errorf("Write() = %v (%T), want 123", v, v)
	}
	if v := mustExecute(t, a, read("local", "/a/b")); v != float64(123) {
		t.Errorf("Read() = %v (%T), want float64(123)", v, v)
	}
}

func TestEphemeral_KeepsValueIdentity(t *testing.T) {
	a := newTestAdapter(t, DefaultConfig(), hoststore.NewMemoryStorage())

	mustExecute(t, a, write("cache", "/n", 123))
	if v := mustExecute(t, a, read("cache", "/n")); v != 123 {
		t.Errorf("Read() = %v (%T), want int 123", v, v)
	}
}

func TestDurable_Persistence(t *testing.T) {
	host := hoststore.NewMemoryStorage()

	mustExecute(t, newTestAdapter(t, DefaultConfig(), host), write("local", "/user/name", "alice"))

	// a second adapter on the same host sees the value
	if v := mustExecute(t, newTestAdapter(t, DefaultConfig(), host), read("local", "/user/name")); v != "alice" {
		t.Errorf("Read() = %v, want alice", v)
	}

	doc, ok, err := host.Get(DefaultNamespace)
	if err != nil || !ok {
		t.Fatalf("host.Get() = ok %v, err %v", ok, err)
	}
	root, err := tree.Unmarshal([]byte(doc))
	if err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if root.Key != DefaultNamespace {
		t.Errorf("root key = %q, want %q", root.Key, DefaultNamespace)
	}
}

func TestDurable_ReadDoesNotPersist(t *testing.T) {
	host := hoststore.NewMemoryStorage()
	a := newTestAdapter(t, DefaultConfig(), host)

	mustExecute(t, a, read("local", "/a/b/c"))
	if _, ok, _ := host.Get(DefaultNamespace); ok {
		t.Fatal("Read() on empty namespace persisted a document")
	}

	mustExecute(t, a, write("local", "/x", 1))
	before, _, _ := host.Get(DefaultNamespace)
	mustExecute(t, a, read("local", "/a/b/c"))
	after, _, _ := host.Get(DefaultNamespace)
	if before != after {
		t.Errorf("Read() changed the document:\n before %s\n after  %s", before, after)
	}
}

func TestDurable_NamespaceIsolation(t *testing.T) {
	host := hoststore.NewMemoryStorage()
	a := newTestAdapter(t, Config{DurableScheme: "local", DurableNamespace: "one"}, host)
	b := newTestAdapter(t, Config{DurableScheme: "local", DurableNamespace: "two"}, host)

	mustExecute(t, a, write("local", "/k", "a"))
	if v := mustExecute(t, b, read("local", "/k")); v != nil {
		t.Errorf("Read() in other namespace = %v, want nil", v)
	}
}

// --------------------------------------------------------------------------
// Backend selection
// --------------------------------------------------------------------------

func TestBackendIsolation(t *testing.T) {
	a := newTestAdapter(t, DefaultConfig(), hoststore.NewMemoryStorage())

	mustExecute(t, a, write("cache", "/x", "ephemeral"))
	if v := mustExecute(t, a, read("local", "/x")); v != nil {
		t.Errorf("durable Read() = %v, want nil", v)
	}

	mustExecute(t, a, write("local", "/y", "durable"))
	if v := mustExecute(t, a, read("cache", "/y")); v != nil {
		t.Errorf("ephemeral Read() = %v, want nil", v)
	}
}

func TestUnknownScheme(t *testing.T) {
	a := newTestAdapter(t, DefaultConfig(), hoststore.NewMemoryStorage())

	_, err := a.Execute(read("s3", "/x"), nil)
	var aErr *Error
	if !errors.As(err, &aErr) || aErr.Code != RetCUnknownScheme {
		t.Errorf("Execute() error = %v, want code %s", err, RetCUnknownScheme)
	}
}

func TestSingleBackendIgnoresScheme(t *testing.T) {
	a := newTestAdapter(t, Config{EphemeralScheme: "cache", EphemeralNamespace: "DLCS"}, nil)

	mustExecute(t, a, write("anything", "/x", "v"))
	if v := mustExecute(t, a, read("", "/x")); v != "v" {
		t.Errorf("Read() = %v, want v", v)
	}
}

func TestInvalidOperation(t *testing.T) {
	a := newTestAdapter(t, DefaultConfig(), hoststore.NewMemoryStorage())

	_, err := a.Execute(Request{Scheme: "cache", Path: "/x", Type: OpUnknown}, nil)
	var aErr *Error
	if !errors.As(err, &aErr) || aErr.Code != RetCInvalidOperation {
		t.Errorf("Execute() error = %v, want code %s", err, RetCInvalidOperation)
	}
}

// --------------------------------------------------------------------------
// Failures
// --------------------------------------------------------------------------

func TestEnvironmentUnsupported(t *testing.T) {
	a := newTestAdapter(t, DefaultConfig(), nil)

	for _, req := range []Request{read("local", "/a"), write("local", "/a", 1), del("local", "/a")} {
		if _, err := a.Execute(req, nil); !errors.Is(err, ErrEnvironmentUnsupported) {
			t.Errorf("%s: Execute() error = %v, want ErrEnvironmentUnsupported", req.Type, err)
		}
	}

	// the ephemeral backend is unaffected
	mustExecute(t, a, write("cache", "/a", 1))
	if v := mustExecute(t, a, read("cache", "/a")); v != 1 {
		t.Errorf("ephemeral Read() = %v, want 1", v)
	}
}

func TestEnvironmentUnsupported_HookNotCalled(t *testing.T) {
	a := newTestAdapter(t, DefaultConfig(), nil)

	called := false
	_, err := a.Execute(write("local", "/a", 1), func(node *tree.Node, _ Phase) *tree.Node {
		called = true
		return node
	})
	if err == nil {
		t.Fatal("Execute() succeeded, want error")
	}
	if called {
		t.Error("injector was called for a request that failed to load")
	}
}

func TestHostFailure(t *testing.T) {
	a := newTestAdapter(t, DefaultConfig(), &failingStorage{err: hoststore.ErrReadFailed})

	_, err := a.Execute(write("local", "/a", 1), nil)
	var aErr *Error
	if !errors.As(err, &aErr) || aErr.Code != RetCInternalError {
		t.Errorf("Execute() error = %v, want code %s", err, RetCInternalError)
	}
}

func TestCorruptDocument(t *testing.T) {
	host := hoststore.NewMemoryStorage()
	if err := host.Set(DefaultNamespace, "{not json"); err != nil {
		t.Fatal(err)
	}
	a := newTestAdapter(t, DefaultConfig(), host)

	_, err := a.Execute(read("local", "/a"), nil)
	var aErr *Error
	if !errors.As(err, &aErr) || aErr.Code != RetCInternalError {
		t.Errorf("Execute() error = %v, want code %s", err, RetCInternalError)
	}
}

func TestSaveFailureKeepsDocument(t *testing.T) {
	host := hoststore.NewMemoryStorage()
	a := newTestAdapter(t, DefaultConfig(), host)
	mustExecute(t, a, write("local", "/a", "old"))

	// the value cannot be encoded, nothing is written
	if _, err := a.Execute(write("local", "/a", func() {}), nil); err == nil {
		t.Fatal("Execute() with unsupported value succeeded, want error")
	}
	if v := mustExecute(t, a, read("local", "/a")); v != "old" {
		t.Errorf("Read() = %v, want old", v)
	}
}

// --------------------------------------------------------------------------
// Injector
// --------------------------------------------------------------------------

func TestInjector_Phases(t *testing.T) {
	a := newTestAdapter(t, DefaultConfig(), hoststore.NewMemoryStorage())

	for _, req := range []Request{write("cache", "/a", 1), read("cache", "/a"), del("cache", "/a")} {
		var phases []Phase
		var keys []string
		_, err := a.Execute(req, func(node *tree.Node, phase Phase) *tree.Node {
			phases = append(phases, phase)
			keys = append(keys, node.Key)
			return node
		})
		if err != nil {
			t.Fatalf("%s: Execute() error = %v", req.Type, err)
		}
		if !reflect.DeepEqual(phases, []Phase{PhaseBeforeOperation, PhaseAfterOperation}) {
			t.Errorf("%s: phases = %v, want [before after]", req.Type, phases)
		}
		if !reflect.DeepEqual(keys, []string{"a", "a"}) {
			t.Errorf("%s: node keys = %v, want [a a]", req.Type, keys)
		}
	}
}

func TestInjector_SubstituteBeforeWrite(t *testing.T) {
	a := newTestAdapter(t, DefaultConfig(), hoststore.NewMemoryStorage())
	substitute := tree.New("substitute", nil)

	v, err := a.Execute(write("cache", "/a", "x"), func(node *tree.Node, phase Phase) *tree.Node {
		if phase == PhaseBeforeOperation {
			return substitute
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if v != "x" || substitute.Value != "x" {
		t.Errorf("Write() = %v, substitute = %v, want both x", v, substitute.Value)
	}
	if v := mustExecute(t, a, read("cache", "/a")); v != nil {
		t.Errorf("Read() = %v, want nil (write went to the substitute)", v)
	}
}

func TestInjector_AfterReplacesResult(t *testing.T) {
	a := newTestAdapter(t, DefaultConfig(), hoststore.NewMemoryStorage())

	v, err := a.Execute(write("local", "/a", "stored"), func(node *tree.Node, phase Phase) *tree.Node {
		if phase == PhaseAfterOperation {
			return tree.New("shadow", "returned")
		}
		return node
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if v != "returned" {
		t.Errorf("Write() = %v, want returned", v)
	}
	if v := mustExecute(t, a, read("local", "/a")); v != "stored" {
		t.Errorf("Read() = %v, want stored", v)
	}
}

func TestInjector_ReadObservesHookChanges(t *testing.T) {
	a := newTestAdapter(t, DefaultConfig(), hoststore.NewMemoryStorage())
	mustExecute(t, a, write("cache", "/a", "old"))

	v, err := a.Execute(read("cache", "/a"), func(node *tree.Node, phase Phase) *tree.Node {
		if phase == PhaseAfterOperation {
			node.Value = "patched"
		}
		return node
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if v != "patched" {
		t.Errorf("Read() = %v, want patched", v)
	}
}

func TestInjector_ReadResolvesFromRoot(t *testing.T) {
	a := newTestAdapter(t, DefaultConfig(), hoststore.NewMemoryStorage())
	mustExecute(t, a, write("cache", "/a", "real"))

	// a substituted node does not change what a read returns
	v, err := a.Execute(read("cache", "/a"), func(node *tree.Node, _ Phase) *tree.Node {
		return tree.New("fake", "fake")
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if v != "real" {
		t.Errorf("Read() = %v, want real", v)
	}
}

// --------------------------------------------------------------------------
// Origin tagging
// --------------------------------------------------------------------------

func TestTagOrigin(t *testing.T) {
	config := DefaultConfig()
	config.TagOrigin = true
	a := newTestAdapter(t, config, hoststore.NewMemoryStorage())

	mustExecute(t, a, write("local", "/d", "durable"))
	mustExecute(t, a, write("cache", "/e", "ephemeral"))

	tests := []struct {
		req  Request
		want Entry
	}{
		{read("local", "/d"), Entry{Key: "/d", Value: "durable", Origin: OriginDurable}},
		{read("cache", "/e"), Entry{Key: "/e", Value: "ephemeral", Origin: OriginEphemeral}},
		{read("cache", "/none"), Entry{Key: "/none", Value: nil, Origin: OriginEphemeral}},
	}
	for _, tt := range tests {
		got := mustExecute(t, a, tt.req)
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Read(%s://%s) = %#v, want %#v", tt.req.Scheme, tt.req.Path, got, tt.want)
		}
	}

	// mutations are not wrapped
	if v := mustExecute(t, a, write("cache", "/e", "x")); v != "x" {
		t.Errorf("Write() = %#v, want raw value", v)
	}
}

func TestOrigin(t *testing.T) {
	mask := OriginDurable | OriginEphemeral
	if !mask.Has(OriginDurable) || !mask.Has(OriginEphemeral) {
		t.Errorf("mask %b does not contain both flags", uint8(mask))
	}
	if OriginDurable.Has(OriginEphemeral) {
		t.Error("OriginDurable.Has(OriginEphemeral) = true")
	}
	if got := mask.String(); got != "durable|ephemeral" {
		t.Errorf("String() = %q", got)
	}
	if got := Origin(0).String(); got != "none" {
		t.Errorf("String() = %q, want none", got)
	}
}

// --------------------------------------------------------------------------
// Async
// --------------------------------------------------------------------------

func TestExecuteAsync(t *testing.T) {
	a := newTestAdapter(t, DefaultConfig(), nil)

	ch := a.ExecuteAsync(write("cache", "/a", "v"), nil)
	res, ok := <-ch
	if !ok || res.Err != nil || res.Value != "v" {
		t.Errorf("ExecuteAsync() = %+v, %v, want value v", res, ok)
	}
	if _, ok := <-ch; ok {
		t.Error("channel not closed after the result")
	}

	res = <-a.ExecuteAsync(read("local", "/a"), nil)
	if !errors.Is(res.Err, ErrEnvironmentUnsupported) {
		t.Errorf("ExecuteAsync() error = %v, want ErrEnvironmentUnsupported", res.Err)
	}
}

// --------------------------------------------------------------------------
// Config
// --------------------------------------------------------------------------

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{"default", DefaultConfig(), false},
		{"empty", Config{}, true},
		{"missing durable namespace", Config{DurableScheme: "local"}, true},
		{"missing ephemeral namespace", Config{EphemeralScheme: "cache"}, true},
		{"shared scheme", Config{DurableScheme: "x", DurableNamespace: "a", EphemeralScheme: "x", EphemeralNamespace: "b"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.config.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfigString(t *testing.T) {
	c := Config{EphemeralScheme: "cache", EphemeralNamespace: "DLCS", TagOrigin: true}
	s := c.String()
	for _, want := range []string{"cache (namespace DLCS)", "Durable", "true"} {
		if !strings.Contains(s, want) {
			t.Errorf("String() = %q, missing %q", s, want)
		}
	}
}
