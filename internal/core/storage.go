package core

import (
	"context"
	"fmt"
	"os"

	"mattercore/internal/infra/persistence/fs"
	"mattercore/internal/infra/persistence/memory"
	"mattercore/internal/infra/persistence/postgres"
	"mattercore/internal/infra/persistence/s3"
	"mattercore/internal/infra/persistence/sqlite"
	"mattercore/pkg/domain"
)

// StorageDriver identifies a concrete snapshot storage implementation.
type StorageDriver string

const (
	StorageMemory   StorageDriver = "memory"   // in-memory only (tests / ephemeral)
	StorageFS       StorageDriver = "fs"       // single JSON file on disk
	StorageSQLite   StorageDriver = "sqlite"   // embedded sqlite file
	StoragePostgres StorageDriver = "postgres" // PostgreSQL server
	StorageS3       StorageDriver = "s3"       // S3-compatible object store
)

// OpenSnapshotStorage selects a backend using environment variables.
// Defaults to fs when unset.
//
//	MATTERCORE_STORAGE_DRIVER: memory|fs|sqlite|postgres|s3 (default fs)
//	MATTERCORE_FS_PATH: snapshot file path when driver=fs
//	MATTERCORE_SQLITE_PATH: path to sqlite file (default ./mattercore.db)
//	MATTERCORE_POSTGRES_DSN: postgres DSN when driver=postgres
//	MATTERCORE_S3_BUCKET and friends when driver=s3 (see the s3 package)
func OpenSnapshotStorage(ctx context.Context) (domain.SnapshotStorage, error) {
	driver := os.Getenv("MATTERCORE_STORAGE_DRIVER")
	if driver == "" {
		driver = string(StorageFS)
	}
	switch StorageDriver(driver) {
	case StorageMemory:
		return memory.NewStore(), nil
	case StorageFS:
		return fs.NewStore(os.Getenv("MATTERCORE_FS_PATH"))
	case StorageSQLite:
		return sqlite.NewStore(os.Getenv("MATTERCORE_SQLITE_PATH"))
	case StoragePostgres:
		return postgres.NewStore(ctx, os.Getenv("MATTERCORE_POSTGRES_DSN"))
	case StorageS3:
		return s3.OpenFromEnv(ctx)
	default:
		return nil, fmt.Errorf("unknown storage driver %s", driver)
	}
}
