package provenance

import "fmt"

// Backends accepted by Open.
const (
	BackendSQLite = "sqlite"
	BackendBadger = "badger"
)

// Open returns the store for backend at path. An empty backend is sqlite.
func Open(backend, path string) (Store, error) {
	switch backend {
	case "", BackendSQLite:
		return NewSQLiteStore(path)
	case BackendBadger:
		return NewBadgerStore(path)
	}
	return nil, fmt.Errorf("unknown provenance backend %q", backend)
}
