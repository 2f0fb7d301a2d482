package fetch

import (
	"fmt"
	"net/http"
)

// RequestError is a transport-level failure: the request never produced an
// HTTP response (DNS, refused connection, timeout, unreadable body).
type RequestError struct {
	Op  string
	Err error
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("%s: request failed: %v", e.Op, e.Err)
}

func (e *RequestError) Unwrap() error { return e.Err }

// StatusError is a non-2xx response. Detail holds the server's string
// "detail" field when it sent one.
type StatusError struct {
	Op     string
	Status int
	Detail string
}

func (e *StatusError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: HTTP %d: %s", e.Op, e.Status, e.Detail)
	}
	return fmt.Sprintf("%s: HTTP %d %s", e.Op, e.Status, http.StatusText(e.Status))
}

// FetchError reports a failed collection load. Err is a *RequestError,
// a *StatusError or a decode error.
type FetchError struct {
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("load games: %v", e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }
