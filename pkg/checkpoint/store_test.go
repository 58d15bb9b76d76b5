package checkpoint

import (
	"path/filepath"
	"testing"

	"github.com/syncfl/control-plane/pkg/tensor"
)

func roundTrip(t *testing.T, store Store) {
	t.Helper()
	params := tensor.Set{{Name: "w", Shape: []int32{2}, Data: []float32{1.5, -2.5}}}

	path, err := store.Save(3, "", params)
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	epoch, restored, err := store.Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if epoch != 3 {
		t.Errorf("Load() epoch = %d, want 3", epoch)
	}
	if len(restored) != 1 || restored[0].Name != "w" || restored[0].Data[0] != 1.5 || restored[0].Data[1] != -2.5 {
		t.Errorf("Load() params = %+v, want round-tripped %+v", restored, params)
	}
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	roundTrip(t, NewMemoryStore())
}

func TestFileStoreRoundTrip(t *testing.T) {
	dir := t.TempDir()
	roundTrip(t, NewFileStore(dir))
}

func TestDefaultPathTemplate(t *testing.T) {
	if got, want := DefaultPath(7), "checkpoint_epoch_7.ckpt"; got != want {
		t.Errorf("DefaultPath(7) = %q, want %q", got, want)
	}
}

func TestNewUnsupportedBackend(t *testing.T) {
	if _, err := New(Config{Backend: "smoke-signal"}); err == nil {
		t.Errorf("New() with unsupported backend did not error")
	}
}

func TestFileStoreLoadMissing(t *testing.T) {
	store := NewFileStore(t.TempDir())
	if _, _, err := store.Load("checkpoint_epoch_0.ckpt"); err == nil {
		t.Errorf("Load() of missing checkpoint did not error")
	}
}

func TestFileStoreSaveExplicitPath(t *testing.T) {
	store := NewFileStore(t.TempDir())
	params := tensor.Set{{Name: "w", Shape: []int32{1}, Data: []float32{4}}}

	path, err := store.Save(9, "restore-point.ckpt", params)
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if path != "restore-point.ckpt" {
		t.Fatalf("Save() path = %q, want the caller's path", path)
	}

	epoch, restored, err := store.Load(path)
	if err != nil || epoch != 9 || len(restored) != 1 {
		t.Errorf("Load() = (%d, %v, %v), want epoch 9 round-trip", epoch, restored, err)
	}
}

func TestFileStoreCreatesMissingDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "checkpoints")
	store := NewFileStore(dir)
	params := tensor.Set{{Name: "w", Shape: []int32{1}, Data: []float32{2}}}

	path, err := store.Save(1, "", params)
	if err != nil {
		t.Fatalf("Save() into missing dir error = %v", err)
	}
	if _, _, err := store.Load(path); err != nil {
		t.Errorf("Load() after dir creation error = %v", err)
	}
}
