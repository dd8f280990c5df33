package dispatch

import "fmt"

// ServerError is returned when the destination answers with a non-2xx status
type ServerError struct {
	StatusCode int
	Body       string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("server responded with status %d: %s", e.StatusCode, e.Body)
}

// ConnectionError is returned when the request could not be completed (DNS, refused, timeout)
type ConnectionError struct {
	Err error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("connection failed: %v", e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// UnexpectedError covers every other failure while preparing or sending the request
type UnexpectedError struct {
	Err error
}

func (e *UnexpectedError) Error() string {
	return fmt.Sprintf("unexpected error: %v", e.Err)
}

func (e *UnexpectedError) Unwrap() error { return e.Err }
