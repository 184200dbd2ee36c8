package cart

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
)

// FileStorage keeps one JSON object per storage key under a directory.
// It is the server-side stand-in for the browser's localStorage blob:
// absent or unparseable content loads as an empty cart, and saves go
// through a temp file plus rename so readers never see a torn write.
type FileStorage struct {
	dir string
}

func NewFileStorage(dir string) (*FileStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FileStorage{dir: dir}, nil
}

func (s *FileStorage) Dir() string { return s.dir }

func (s *FileStorage) Ping(ctx context.Context) error {
	_, err := os.Stat(s.dir)
	return err
}

func (s *FileStorage) Load(ctx context.Context, key string) (Items, error) {
	raw, err := os.ReadFile(s.path(key))
	if os.IsNotExist(err) {
		return Items{}, nil
	}
	if err != nil {
		return nil, err
	}

	var items Items
	if err := json.Unmarshal(raw, &items); err != nil {
		// Corrupt saved cart. Treated as empty, never fatal.
		return Items{}, nil
	}
	return normalize(items), nil
}

func (s *FileStorage) Save(ctx context.Context, key string, items Items) error {
	raw, err := json.Marshal(items)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(s.dir, ".cart-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), s.path(key))
}

func (s *FileStorage) path(key string) string {
	return filepath.Join(s.dir, fileName(key))
}

func fileName(key string) string {
	return strings.ReplaceAll(key, ":", "_") + ".json"
}

// keyFromFile is the inverse of fileName, used by the watcher to map a
// changed file back onto its storage key.
func keyFromFile(name string) (string, bool) {
	base := filepath.Base(name)
	if !strings.HasSuffix(base, ".json") || strings.HasPrefix(base, ".") {
		return "", false
	}
	return strings.Replace(strings.TrimSuffix(base, ".json"), "_", ":", 1), true
}
