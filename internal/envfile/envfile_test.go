package envfile

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadParsesKeyValuePairs(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	content := "# comment\nSERVER_IP=127.0.0.1\nSERVER_PORT = 6667\n\nPASSWORD=hunter2\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %s", err)
	}

	values, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %s", err)
	}

	want := map[string]string{
		"server_ip":   "127.0.0.1",
		"server_port": "6667",
		"password":    "hunter2",
	}
	for k, v := range want {
		if values[k] != v {
			t.Errorf("values[%q] = %q, want %q", k, values[k], v)
		}
	}
}

func TestRequireKeysMissing(t *testing.T) {
	err := RequireKeys(map[string]string{"server_ip": "127.0.0.1"}, "server_ip", "password")
	if err == nil {
		t.Fatal("expected an error for missing password key")
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.env"))
	if err == nil {
		t.Fatal("expected an error for a missing file")
	}
}
