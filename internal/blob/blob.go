// Package blob archives validation reports to pluggable object storage.
// The surface is deliberately small: the validator writes reports and the
// operator retrieves them, nothing else.
package blob

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"
)

// Driver identifies a concrete storage backend.
type Driver string

const (
	// DriverFilesystem stores reports under a local directory.
	DriverFilesystem Driver = "fs"
	// DriverS3 stores reports in an S3-compatible bucket.
	DriverS3 Driver = "s3"
	// DriverMemory keeps reports in process memory, for tests.
	DriverMemory Driver = "memory"
)

// Info describes one stored report.
type Info struct {
	Key          string    `json:"key"`
	Size         int64     `json:"size_bytes"`
	ContentType  string    `json:"content_type,omitempty"`
	LastModified time.Time `json:"last_modified"`
}

// Store is the storage backend contract.
type Store interface {
	Put(ctx context.Context, key, contentType string, r io.Reader) (Info, error)
	Get(ctx context.Context, key string) (Info, io.ReadCloser, error)
	List(ctx context.Context, prefix string) ([]Info, error)
	Driver() Driver
}

// Open selects a Store implementation using environment variables.
//
//	BIOVALID_BLOB_DRIVER: off|fs|s3|memory (default off)
//	BIOVALID_BLOB_FS_ROOT: directory root when driver=fs (default ./reports)
//	(S3 specific variables documented in s3.go)
//
// An empty or "off" driver returns (nil, nil): reports are then returned
// to the caller but not archived.
func Open(ctx context.Context) (Store, error) {
	driver := os.Getenv("BIOVALID_BLOB_DRIVER")
	switch Driver(driver) {
	case "", "off":
		return nil, nil
	case DriverFilesystem:
		return NewFilesystem(os.Getenv("BIOVALID_BLOB_FS_ROOT"))
	case DriverS3:
		return OpenS3FromEnv(ctx)
	case DriverMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown blob driver %s", driver)
	}
}
