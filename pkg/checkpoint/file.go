package checkpoint

import (
	"os"
	"path/filepath"

	"github.com/syncfl/control-plane/pkg/tensor"
)

// FileStore persists checkpoints as JSON files on the local filesystem,
// named after DefaultPath unless the caller supplies its own path to
// Save/Load.
type FileStore struct {
	dir string
}

// NewFileStore creates a FileStore rooted at dir (the working directory if
// dir is empty).
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

func (f *FileStore) resolve(path string) string {
	if f.dir == "" {
		return path
	}
	return filepath.Join(f.dir, path)
}

func (f *FileStore) Save(epoch int32, path string, params tensor.Set) (string, error) {
	data, err := encode(epoch, params)
	if err != nil {
		return "", err
	}
	path = resolvePath(epoch, path)
	target := f.resolve(path)
	if dir := filepath.Dir(target); dir != "." {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return "", err
		}
	}
	if err := os.WriteFile(target, data, 0600); err != nil {
		return "", err
	}
	return path, nil
}

func (f *FileStore) Load(path string) (int32, tensor.Set, error) {
	data, err := os.ReadFile(f.resolve(path))
	if err != nil {
		return 0, nil, err
	}
	return decode(data)
}

func (f *FileStore) Close() error { return nil }
