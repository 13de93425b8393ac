package hoststore

import (
	"github.com/puzpuzpuz/xsync/v3"
)

type memoryStorage struct {
	data *xsync.MapOf[string, string]
}

// NewMemoryStorage creates a host storage that keeps all values in memory.
// Values survive for the lifetime of the process, not across restarts.
//
// Thread-safety: The returned storage is safe for concurrent use.
func NewMemoryStorage() IHostStorage {
	return &memoryStorage{
		data: xsync.NewMapOf[string, string](),
	}
}

// --------------------------------------------------------------------------
// Interface Methods (docu see hoststore.IHostStorage)
// --------------------------------------------------------------------------

func (s *memoryStorage) Get(name string) (string, bool, error) {
	value, ok := s.data.Load(name)
	return value, ok, nil
}

func (s *memoryStorage) Set(name string, value string) error {
	s.data.Store(name, value)
	return nil
}
