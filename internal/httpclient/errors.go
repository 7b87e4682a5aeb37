package httpclient

import (
	"errors"
	"fmt"
)

// UpstreamError represents an error returned by an upstream service
type UpstreamError struct {
	StatusCode int
	Body       []byte
	URL        string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream error: status %d from %s", e.StatusCode, e.URL)
}

// StatusCode extracts the upstream status from err, or 0 when err did not
// come from a non-2xx response.
func StatusCode(err error) int {
	var upstream *UpstreamError
	if errors.As(err, &upstream) {
		return upstream.StatusCode
	}
	return 0
}
