package setlistfm

import (
	"errors"
	"fmt"
	"net/http"
)

// APIError is a non-2xx answer from setlist.fm.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API request failed with status %d: %s", e.StatusCode, e.Body)
}

// IsNotFound reports whether err is a 404 from setlist.fm.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}
