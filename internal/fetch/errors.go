package fetch

import "fmt"

// FetchError reports a URI that could not be retrieved. StatusCode is set when a server
// answered with something other than 200.
type FetchError struct {
	URI        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("failed to fetch %s: server returned %d", e.URI, e.StatusCode)
	}
	return fmt.Sprintf("failed to fetch %s: %v", e.URI, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
