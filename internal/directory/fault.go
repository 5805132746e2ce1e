package directory

import (
	"errors"
	"fmt"
	"io"
	"net"
	"syscall"
)

// ErrNotFound matches any fault for an object the service does not have.
var ErrNotFound = errors.New("not found")

// Fault is a failed call to an inventory service. Transient faults are
// connection-level failures that are expected to clear on a retry;
// everything else is fatal to the caller.
type Fault struct {
	Service    string // "vmapi", "cnapi", "sapi", "ufds"
	Op         string
	URL        string
	StatusCode int
	Code       string // restify error code, e.g. "ResourceNotFound"
	Message    string
	Err        error
	transient  bool
}

func (f *Fault) Error() string {
	s := fmt.Sprintf("%s %s", f.Service, f.Op)
	if f.URL != "" {
		s += " " + f.URL
	}
	if f.StatusCode != 0 {
		s += fmt.Sprintf(": status %d", f.StatusCode)
	}
	if f.Code != "" {
		s += " " + f.Code
	}
	if f.Message != "" {
		s += ": " + f.Message
	}
	if f.Err != nil {
		s += ": " + f.Err.Error()
	}
	return s
}

func (f *Fault) Unwrap() error {
	return f.Err
}

// Is makes errors.Is(err, ErrNotFound) match 404 faults.
func (f *Fault) Is(target error) bool {
	return target == ErrNotFound && f.NotFound()
}

// Transient reports whether retrying the call may succeed.
func (f *Fault) Transient() bool {
	return f.transient
}

// NotFound reports whether the service answered that the object is absent.
func (f *Fault) NotFound() bool {
	return f.StatusCode == 404 || f.Code == "ResourceNotFound"
}

// IsTransient reports whether err is, or wraps, a transient fault.
func IsTransient(err error) bool {
	var f *Fault
	return errors.As(err, &f) && f.Transient()
}

// transportFault wraps a failure that happened before a complete
// response was read.
func transportFault(service, op, url string, err error) *Fault {
	return &Fault{
		Service:   service,
		Op:        op,
		URL:       url,
		Err:       err,
		transient: connectionLost(err),
	}
}

// connectionLost matches the peer dropping the connection mid-request:
// resets, broken pipes, and EOF before or inside the response.
func connectionLost(err error) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, syscall.ECONNRESET),
		errors.Is(err, syscall.ECONNABORTED),
		errors.Is(err, syscall.EPIPE),
		errors.Is(err, io.EOF),
		errors.Is(err, io.ErrUnexpectedEOF),
		errors.Is(err, net.ErrClosed):
		return true
	}
	return false
}
