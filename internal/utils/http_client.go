package utils

import (
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// HTTPClient is a wrapper around the resty.Client HTTP client shared by the
// identity and calendar adapters.
//
// Example usage:
//
//	client := utils.NewHTTPClient("https://www.googleapis.com/calendar/v3", 15*time.Second)
//	resp, err := client.R().Get("/calendars/primary/events")
type HTTPClient struct {
	*resty.Client
}

// NewHTTPClient creates a client with the given base URL (trailing slashes
// trimmed) and request timeout. A non-positive timeout leaves resty's
// default in place.
func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	client := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetHeader("Accept", "application/json")
	if timeout > 0 {
		client.SetTimeout(timeout)
	}

	return &HTTPClient{Client: client}
}
