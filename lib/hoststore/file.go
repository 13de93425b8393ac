package hoststore

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"github.com/lni/dragonboat/v4/logger"
)

var log = logger.GetLogger("hoststore")

const fileExt = ".json"

type fileStorage struct {
	dir string
}

// NewFileStorage creates a host storage that keeps one file per name in dir.
// Names are path-escaped, so any name maps to exactly one file directly in dir.
// The directory is created on the first write.
//
// Writes go to a temporary file which is renamed over the target, a failed
// write therefore never leaves a partially written document behind.
func NewFileStorage(dir string) IHostStorage {
	return &fileStorage{dir: dir}
}

// path returns the file path for a name
func (s *fileStorage) path(name string) string {
	return filepath.Join(s.dir, url.PathEscape(name)+fileExt)
}

// --------------------------------------------------------------------------
// Interface Methods (docu see hoststore.IHostStorage)
// --------------------------------------------------------------------------

func (s *fileStorage) Get(name string) (string, bool, error) {
	data, err := os.ReadFile(s.path(name))
	if err != nil {
		if os.IsNotExist(err) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("%w: %s: %v", ErrReadFailed, name, err)
	}
	return string(data), true, nil
}

func (s *fileStorage) Set(name string, value string) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrWriteFailed, name, err)
	}

	tmp, err := os.CreateTemp(s.dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrWriteFailed, name, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.WriteString(value); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%w: %s: %v", ErrWriteFailed, name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: %s: %v", ErrWriteFailed, name, err)
	}

	if err := os.Rename(tmpName, s.path(name)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: %s: %v", ErrWriteFailed, name, err)
	}

	log.Debugf("wrote %d bytes to %s", len(value), s.path(name))
	return nil
}
