package cart

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"
)

func newFileStorage(t *testing.T) *FileStorage {
	t.Helper()

	fs, err := NewFileStorage(t.TempDir())
	if err != nil {
		t.Fatalf("new file storage: %v", err)
	}
	return fs
}

func TestFileStorage_RoundTrip(t *testing.T) {
	fs := newFileStorage(t)
	ctx := context.Background()

	in := Items{"dk-01": 2, "dk-03": 1}
	if err := fs.Save(ctx, testKey, in); err != nil {
		t.Fatalf("save: %v", err)
	}

	out, err := fs.Load(ctx, testKey)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if len(out) != len(in) {
		t.Fatalf("got %v, want %v", out, in)
	}
	for id, qty := range in {
		if out[id] != qty {
			t.Fatalf("got %v, want %v", out, in)
		}
	}
}

func TestFileStorage_MissingKeyIsEmpty(t *testing.T) {
	fs := newFileStorage(t)

	out, err := fs.Load(context.Background(), "cart:nobody")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(out) != 0 {
		t.Fatalf("got %v, want empty", out)
	}
}

func TestFileStorage_CorruptDataIsEmpty(t *testing.T) {
	fs := newFileStorage(t)

	path := filepath.Join(fs.Dir(), fileName(testKey))
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	out, err := fs.Load(context.Background(), testKey)
	if err != nil {
		t.Fatalf("corrupt data must not error: %v", err)
	}
	if len(out) != 0 {
		t.Fatalf("got %v, want empty", out)
	}
}

func TestFileStorage_DropsNonPositiveQuantities(t *testing.T) {
	fs := newFileStorage(t)

	path := filepath.Join(fs.Dir(), fileName(testKey))
	if err := os.WriteFile(path, []byte(`{"dk-01":2,"dk-02":0,"dk-03":-4}`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	out, err := fs.Load(context.Background(), testKey)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(out) != 1 || out["dk-01"] != 2 {
		t.Fatalf("got %v, want only dk-01", out)
	}
}

func TestKeyFromFile(t *testing.T) {
	key, ok := keyFromFile("/tmp/carts/" + fileName("cart:s_abc"))
	if !ok || key != "cart:s_abc" {
		t.Fatalf("got %q ok=%v", key, ok)
	}

	if _, ok := keyFromFile("/tmp/carts/.cart-12345"); ok {
		t.Fatalf("temp files must not map to keys")
	}
}

func TestWatcher_ExternalWriteEmitsReload(t *testing.T) {
	fs := newFileStorage(t)
	store := NewStore(fs, nil)

	w, err := NewWatcher(store, fs.Dir(), zap.NewNop())
	if err != nil {
		t.Fatalf("new watcher: %v", err)
	}
	w.Start()
	defer w.Stop()

	ch, cancel := store.Subscribe()
	defer cancel()

	// Simulate another process writing this cart.
	path := filepath.Join(fs.Dir(), fileName(testKey))
	if err := os.WriteFile(path, []byte(`{"dk-01":1}`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	deadline := time.After(3 * time.Second)
	for {
		select {
		case ev := <-ch:
			if ev.Type == EventReloaded && ev.Key == testKey {
				return
			}
		case <-deadline:
			t.Fatalf("no reload signal for external write")
		}
	}
}
