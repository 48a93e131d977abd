package persist

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

const fileExt = ".yaml"

// FileStore keeps one YAML document per key in a directory. Writes go through
// a temp file and a rename so readers never see partial content.
type FileStore struct {
	dir string

	// mu is held across each file operation so a digest always matches the
	// file on disk when another goroutine compares against it.
	mu    sync.Mutex
	known map[Key][sha256.Size]byte
}

func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create state dir: %w", err)
	}
	return &FileStore{dir: dir, known: make(map[Key][sha256.Size]byte)}, nil
}

func (s *FileStore) Dir() string {
	return s.dir
}

func (s *FileStore) Path(key Key) string {
	return filepath.Join(s.dir, string(key)+fileExt)
}

func (s *FileStore) Load(key Key, dst any) (bool, error) {
	s.mu.Lock()
	raw, err := os.ReadFile(s.Path(key))
	if err == nil {
		s.known[key] = sha256.Sum256(raw)
	}
	s.mu.Unlock()
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("read %s: %w", key, err)
	}

	if err := yaml.Unmarshal(raw, dst); err != nil {
		return false, fmt.Errorf("parse %s: %w", key, err)
	}
	return true, nil
}

func (s *FileStore) Save(key Key, value any) error {
	content, err := yaml.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := writeAtomic(s.Path(key), content); err != nil {
		return err
	}
	s.known[key] = sha256.Sum256(content)
	return nil
}

func (s *FileStore) Delete(key Key) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.known, key)
	if err := os.Remove(s.Path(key)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

// ChangedExternally reports whether the file for key differs from what this
// store last read or wrote. A positive answer is remembered, so the same
// external edit is reported once.
func (s *FileStore) ChangedExternally(key Key) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := os.ReadFile(s.Path(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("read %s: %w", key, err)
	}
	digest := sha256.Sum256(raw)
	if prev, ok := s.known[key]; ok && prev == digest {
		return false, nil
	}
	s.known[key] = digest
	return true, nil
}

func (s *FileStore) keyForPath(path string) (Key, bool) {
	if filepath.Dir(path) != filepath.Clean(s.dir) {
		return "", false
	}
	name := filepath.Base(path)
	if !strings.HasSuffix(name, fileExt) || strings.HasPrefix(name, ".") {
		return "", false
	}
	return Key(strings.TrimSuffix(name, fileExt)), true
}

func writeAtomic(path string, content []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".pomflow-tmp-*"+fileExt)
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(content); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}
