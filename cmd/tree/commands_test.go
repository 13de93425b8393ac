package tree

import (
	"bytes"
	"reflect"
	"strings"
	"testing"

	"github.com/ValentinKolb/dTree/lib/hoststore"
	storage "github.com/ValentinKolb/dTree/lib/tree"
)

func TestParseValue(t *testing.T) {
	tests := []struct {
		arg  string
		want any
	}{
		{"123", float64(123)},
		{`"text"`, "text"},
		{"true", true},
		{"null", nil},
		{`{"a":1}`, map[string]any{"a": float64(1)}},
		{`[1,"b"]`, []any{float64(1), "b"}},
	}

	for _, tt := range tests {
		got, err := parseValue(tt.arg)
		if err != nil {
			t.Errorf("parseValue(%q) returned error: %v", tt.arg, err)
			continue
		}
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("parseValue(%q) = %#v, want %#v", tt.arg, got, tt.want)
		}
	}

	if _, err := parseValue("text"); err == nil {
		t.Error("parseValue() accepted an unquoted string")
	}
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		value any
		want  string
	}{
		{nil, "<unset>"},
		{"text", `"text"`},
		{float64(1.5), "1.5"},
		{map[string]any{"a": 1}, `{"a":1}`},
	}

	for _, tt := range tests {
		if got := formatValue(tt.value); got != tt.want {
			t.Errorf("formatValue(%#v) = %s, want %s", tt.value, got, tt.want)
		}
	}
}

func TestDumpTree(t *testing.T) {
	root := storage.New("DLCS", nil)
	storage.Resolve(root, "/config/port").Value = float64(8080)
	storage.Resolve(root, "/config/name").Value = "svc"
	storage.Resolve(root, "/other")

	data, err := storage.Marshal(root)
	if err != nil {
		t.Fatalf("Marshal() failed: %v", err)
	}

	host := hoststore.NewMemoryStorage()
	if err := host.Set("DLCS", string(data)); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}

	t.Run("Root", func(t *testing.T) {
		var buf bytes.Buffer
		if err := dumpTree(&buf, host, "DLCS", "/"); err != nil {
			t.Fatalf("dumpTree() failed: %v", err)
		}
		want := strings.Join([]string{
			"[DLCS]",
			"/config",
			"/config/port = 8080",
			"/config/name = \"svc\"",
			"/other",
		}, "\n") + "\n"
		if buf.String() != want {
			t.Errorf("dumpTree() output:\n%s\nwant:\n%s", buf.String(), want)
		}
	})

	t.Run("Subtree", func(t *testing.T) {
		var buf bytes.Buffer
		if err := dumpTree(&buf, host, "DLCS", "/config"); err != nil {
			t.Fatalf("dumpTree() failed: %v", err)
		}
		want := "/config\n/config/port = 8080\n/config/name = \"svc\"\n"
		if buf.String() != want {
			t.Errorf("dumpTree() output:\n%s\nwant:\n%s", buf.String(), want)
		}
	})

	t.Run("RelativePath", func(t *testing.T) {
		var buf bytes.Buffer
		if err := dumpTree(&buf, host, "DLCS", "x/config/port"); err != nil {
			t.Fatalf("dumpTree() failed: %v", err)
		}
		if want := "/config/port = 8080\n"; buf.String() != want {
			t.Errorf("dumpTree() output:\n%s\nwant:\n%s", buf.String(), want)
		}
	})

	t.Run("MissingPath", func(t *testing.T) {
		if err := dumpTree(&bytes.Buffer{}, host, "DLCS", "/missing"); err == nil {
			t.Error("dumpTree() succeeded for a missing path")
		}
	})

	t.Run("MissingNamespace", func(t *testing.T) {
		if err := dumpTree(&bytes.Buffer{}, host, "other", "/"); err == nil {
			t.Error("dumpTree() succeeded for a missing namespace")
		}
	})

	t.Run("CorruptDocument", func(t *testing.T) {
		if err := host.Set("broken", "{"); err != nil {
			t.Fatalf("Set() failed: %v", err)
		}
		if err := dumpTree(&bytes.Buffer{}, host, "broken", "/"); err == nil {
			t.Error("dumpTree() succeeded for a corrupt document")
		}
	})
}
