package persist

import "fmt"

// Open selects a Backend by name, mirroring internal/config's Storage
// section, grounded on the teacher's storage.Storage-factory pattern
// (internal/storage/factory.go). The "neo4j" backend
// (internal/persist/graphstore) is constructed by the caller instead of
// here: it depends on this package's Snapshot type, so wiring it in would
// create an import cycle — cmd/reasonerd selects it directly when
// config.Storage.Backend == "neo4j".
func Open(backend, dsn string) (Backend, error) {
	switch backend {
	case "", "memory":
		return OpenMemory(), nil
	case "sqlite":
		return OpenSQLite(dsn)
	default:
		return nil, fmt.Errorf("persist: unknown storage backend %q (neo4j is wired directly by cmd/reasonerd)", backend)
	}
}
