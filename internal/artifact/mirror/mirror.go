// Package mirror uploads finished chapter artifacts (roomtone seed
// recordings, final treated audio) to an off-machine object store,
// per SPEC_FULL.md's supplemented artifact-mirroring feature. It is a
// thin write-through cache: the local artifact store remains authoritative
// and mirroring failures never fail a pipeline run.
package mirror

import "context"

// Mirror uploads one object to an off-machine store.
type Mirror interface {
	Put(ctx context.Context, key string, data []byte) error
	// Name identifies the backend for logging ("s3", "oss").
	Name() string
}
