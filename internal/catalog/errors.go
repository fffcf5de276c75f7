package catalog

import (
	"errors"
	"fmt"
)

// NetworkError is returned for any failed call to the catalog API: transport
// failure, non-2xx status or an undecodable body. Callers must treat it as
// "data unavailable", never as a partial result.
type NetworkError struct {
	Op     string
	URL    string
	Status int // 0 when no response was received
	Err    error
}

func (e *NetworkError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("catalog: %s %s: status %d: %v", e.Op, e.URL, e.Status, e.Err)
	}
	return fmt.Sprintf("catalog: %s %s: %v", e.Op, e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// NotFound reports whether the API answered 404 for the requested record.
func (e *NetworkError) NotFound() bool { return e.Status == 404 }

func IsNetworkError(err error) bool {
	var ne *NetworkError
	return errors.As(err, &ne)
}

var errStatus = errors.New("unexpected status")
