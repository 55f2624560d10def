package plume

import "fmt"

// TransportError covers everything that kept a response from being understood:
// network failures, unreadable bodies, bodies that are not JSON.
type TransportError struct {
	Op  string
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ApplicationError is a well-formed answer from the instance that says no.
type ApplicationError struct {
	Op         string
	StatusCode int
	Message    string
}

func (e *ApplicationError) Error() string {
	return fmt.Sprintf("%s: instance replied %d: %s", e.Op, e.StatusCode, e.Message)
}
