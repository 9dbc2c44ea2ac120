package doctypes

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultCatalogHasFiveSlots(t *testing.T) {
	c := Default()
	want := []string{"gateScorecard", "casteCertificate", "pwdCertificate", "ewsCertificate", "experienceLetter"}
	got := c.Keys()
	if len(got) != len(want) {
		t.Fatalf("expected %d slots, got %v", len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("slot %d: expected %s, got %s", i, want[i], got[i])
		}
	}
	if c.Label("gateScorecard") != "GATE Scorecard" {
		t.Fatalf("unexpected label %q", c.Label("gateScorecard"))
	}
	if c.Label("unknown") != "unknown" {
		t.Fatalf("expected key fallback for unknown slot")
	}
}

func TestLoadOverrideFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "types.yaml")
	body := "documentTypes:\n  - key: idProof\n  - key: degree\n    label: Degree Certificate\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	c, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(c.Types) != 2 {
		t.Fatalf("expected 2 types, got %d", len(c.Types))
	}
	if c.Label("idProof") != "idProof" {
		t.Fatalf("expected label to default to key, got %q", c.Label("idProof"))
	}
	if _, ok := c.Lookup("degree"); !ok {
		t.Fatalf("expected degree to be found")
	}
}

func TestLoadEmptyPathUsesDefault(t *testing.T) {
	c, err := Load("  ")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(c.Types) != 5 {
		t.Fatalf("expected default catalog, got %d types", len(c.Types))
	}
}

func TestParseRejectsInvalidCatalogs(t *testing.T) {
	cases := map[string]string{
		"empty":     "documentTypes: []\n",
		"no key":    "documentTypes:\n  - label: Missing\n",
		"duplicate": "documentTypes:\n  - key: a\n  - key: a\n",
		"malformed": "documentTypes: [\n",
	}
	for name, body := range cases {
		if _, err := Parse([]byte(body)); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil || !strings.Contains(err.Error(), "read doc types") {
		t.Fatalf("expected read error, got %v", err)
	}
}
