package collector

import (
	"errors"
	"fmt"
)

var (
	// ErrNoDatacentersFound means the identity directory knows no
	// datacenter in the configured region.
	ErrNoDatacentersFound = errors.New("no datacenters found")
	// ErrUserNotFound means the application owner does not exist.
	ErrUserNotFound = errors.New("application owner not found")
	// ErrApplicationNotFound means the orchestration service has no
	// application of the configured name for the owner.
	ErrApplicationNotFound = errors.New("application not found")
	// ErrMissingDatacenterMetadata means an instance does not record the
	// datacenter it was provisioned in.
	ErrMissingDatacenterMetadata = errors.New("instance has no DATACENTER metadata")
	// ErrUnknownDatacenter means an instance names a datacenter outside the
	// region topology.
	ErrUnknownDatacenter = errors.New("datacenter not in region")
	// ErrRetriesExhausted means a lookup kept failing transiently until the
	// retry policy gave up.
	ErrRetriesExhausted = errors.New("retries exhausted")
	// ErrServerNotFound means no datacenter could return a server record.
	ErrServerNotFound = errors.New("unable to get server")
	// ErrMissingTaggedInterface means a monitorable VM has no address on the
	// configured network tag.
	ErrMissingTaggedInterface = errors.New("vm has no nic on the network tag")
)

// StageError wraps an error with the discovery stage that produced it.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// transient reports whether err was marked retryable by the client that
// produced it.
func transient(err error) bool {
	var t interface{ Transient() bool }
	return errors.As(err, &t) && t.Transient()
}
