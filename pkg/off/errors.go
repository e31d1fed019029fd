package off

import "fmt"

// FetchError reports a non-2xx response from the catalog service. The
// client never retries; callers decide what to do with the status.
type FetchError struct {
	StatusCode int
	URL        string
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("catalog request failed with status %d", e.StatusCode)
}
