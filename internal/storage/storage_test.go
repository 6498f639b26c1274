package storage_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Tiliavir/hourglass/internal/storage"
)

func TestKVMissingFile(t *testing.T) {
	kv := storage.OpenKV(filepath.Join(t.TempDir(), "kv.json"))
	m, err := kv.All()
	if err != nil {
		t.Fatalf("All on missing file: %v", err)
	}
	if len(m) != 0 {
		t.Errorf("All = %v, want empty", m)
	}
}

func TestKVUpdateAndReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "kv.json")
	kv := storage.OpenKV(path)

	if err := kv.Update(map[string]string{"workspace_id": "ws1"}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if err := kv.Update(map[string]string{"api_key": "secret", "billing_name": "Jane"}); err != nil {
		t.Fatalf("Update: %v", err)
	}

	// A fresh handle reads what the first one wrote.
	m, err := storage.OpenKV(path).All()
	if err != nil {
		t.Fatalf("All: %v", err)
	}
	want := map[string]string{"api_key": "secret", "billing_name": "Jane", "workspace_id": "ws1"}
	if len(m) != len(want) {
		t.Fatalf("All = %v, want %v", m, want)
	}
	for k, v := range want {
		if m[k] != v {
			t.Errorf("All[%q] = %q, want %q", k, m[k], v)
		}
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Errorf("file mode = %v, want 0600", info.Mode().Perm())
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Errorf("temp file left behind: %v", err)
	}
}

func TestKVEmptyValueDeletes(t *testing.T) {
	kv := storage.OpenKV(filepath.Join(t.TempDir(), "kv.json"))
	if err := kv.Update(map[string]string{"a": "1", "b": "2"}); err != nil {
		t.Fatal(err)
	}
	if err := kv.Update(map[string]string{"a": "", "b": ""}); err != nil {
		t.Fatal(err)
	}
	m, err := kv.All()
	if err != nil {
		t.Fatal(err)
	}
	if len(m) != 0 {
		t.Errorf("All = %v, want empty", m)
	}
}

func TestKVCorruptFileIsBackedUp(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kv.json")
	if err := os.WriteFile(path, []byte("{bad json"), 0o600); err != nil {
		t.Fatal(err)
	}

	_, err := storage.OpenKV(path).All()
	if err == nil {
		t.Fatal("expected error for corrupt JSON, got nil")
	}
	if _, err := os.Stat(path + ".corrupt"); err != nil {
		t.Errorf("expected backup file %s.corrupt: %v", path, err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("corrupt file should have been moved away")
	}
}

func TestWriteFileAtomic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "report.pdf")
	if err := storage.WriteFileAtomic(path, []byte("%PDF-1.3"), 0o644); err != nil {
		t.Fatalf("WriteFileAtomic: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "%PDF-1.3" {
		t.Errorf("content = %q", data)
	}
}
