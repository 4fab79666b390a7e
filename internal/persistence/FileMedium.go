package persistence

import (
	"errors"
	"fmt"
	"medilens/internal/persistence/interfaces"
	"medilens/internal/structures"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
)

const mediumExt = ".dat"

// FileMedium keeps each key in <dir>/<key>.dat and caps the total bytes of all keys at quota.
// A zero quota means the filesystem is the only limit.
type FileMedium struct {
	mu    sync.Mutex
	dir   string
	quota int64
}

func NewFileMedium(conf *structures.Config) (interfaces.MediumInterface, error) {
	if err := os.MkdirAll(conf.Persistence.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	return &FileMedium{dir: conf.Persistence.Dir, quota: conf.Persistence.Quota}, nil
}

func (m *FileMedium) path(key string) (string, error) {
	if key == "" || strings.ContainsAny(key, `/\`) || key == "." || key == ".." {
		return "", fmt.Errorf("invalid storage key %q", key)
	}
	return filepath.Join(m.dir, key+mediumExt), nil
}

func (m *FileMedium) Get(key string) ([]byte, error) {
	path, err := m.path(key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s: %w", key, interfaces.ErrNotFound)
		}
		return nil, err
	}
	return data, nil
}

func (m *FileMedium) Set(key string, data []byte) error {
	path, err := m.path(key)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.quota > 0 {
		used, err := m.usageExcluding(path)
		if err != nil {
			return err
		}
		if used+int64(len(data)) > m.quota {
			return fmt.Errorf("%w: need %d bytes, %d of %d in use", interfaces.ErrQuotaExceeded, len(data), used, m.quota)
		}
	}

	tmpFile := path + ".tmp"
	file, err := os.Create(tmpFile)
	if err != nil {
		return classifyWriteError(err)
	}

	_, err = file.Write(data)
	if err != nil {
		file.Close()
		os.Remove(tmpFile)
		return classifyWriteError(err)
	}

	if err = file.Sync(); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return classifyWriteError(err)
	}

	if err = file.Close(); err != nil {
		os.Remove(tmpFile)
		return classifyWriteError(err)
	}

	if err = os.Rename(tmpFile, path); err != nil {
		os.Remove(tmpFile)
		return fmt.Errorf("replace %s: %w", key, err)
	}
	return nil
}

func (m *FileMedium) usageExcluding(path string) (int64, error) {
	entries, err := os.ReadDir(m.dir)
	if err != nil {
		return 0, err
	}
	var used int64
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), mediumExt) {
			continue
		}
		if filepath.Join(m.dir, e.Name()) == path {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		used += info.Size()
	}
	return used, nil
}

// classifyWriteError folds a full disk into the quota class so the caller can degrade.
func classifyWriteError(err error) error {
	if errors.Is(err, syscall.ENOSPC) || errors.Is(err, syscall.EDQUOT) {
		return fmt.Errorf("%w: %w", interfaces.ErrQuotaExceeded, err)
	}
	return err
}
