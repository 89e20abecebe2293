// Package blobstore provides exclusive blob leases used as a deduplication
// signal across concurrent relay invocations.
package blobstore

import (
	"context"
	"errors"
)

var (
	// ErrLeaseHeld indicates another invocation currently holds the lease.
	ErrLeaseHeld = errors.New("blobstore: lease already held")

	// ErrBlobNotFound indicates the blob no longer exists.
	ErrBlobNotFound = errors.New("blobstore: blob not found")
)

// Lease is an ephemeral exclusive claim on a blob. It exists only in the
// external lease service; the handle is owned by a single invocation and
// must be released on every exit path after acquisition.
type Lease interface {
	// Release gives up the lease. Safe to call more than once.
	Release(ctx context.Context) error
}

// LeaseManager acquires exclusive leases on blobs identified by URL.
//
// Acquire returns ErrLeaseHeld when the blob is already exclusively held
// and ErrBlobNotFound when the target resource cannot be found. Any other
// error is transient (network, auth).
type LeaseManager interface {
	Acquire(ctx context.Context, blobURL string) (Lease, error)
	Close() error
}

// Prober checks whether a blob still exists. Implementations authenticate
// through ambient identity; the relay never handles raw secrets.
type Prober interface {
	Exists(ctx context.Context, blobURL string) (bool, error)
}
