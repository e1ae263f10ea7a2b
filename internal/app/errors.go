package app

import "fmt"

// InvalidDocumentsError is returned by validate when at least one document failed.
type InvalidDocumentsError struct {
	Invalid int
	Total   int
}

func (e *InvalidDocumentsError) Error() string {
	return fmt.Sprintf("%d of %d document(s) are invalid", e.Invalid, e.Total)
}

type WatchURLError struct {
	URL string
}

func (e *WatchURLError) Error() string {
	return fmt.Sprintf("cannot watch remote document %s", e.URL)
}

type InvalidFlagError struct {
	Flag   string
	Reason string
}

func (e *InvalidFlagError) Error() string {
	return fmt.Sprintf("invalid --%s: %s", e.Flag, e.Reason)
}
