package setlistfm

import (
	"net/http"
	"strings"
	"time"
)

const (
	// DefaultBaseURL is the setlist.fm REST API root.
	DefaultBaseURL = "https://api.setlist.fm/rest/1.0"

	// DefaultTimeout bounds a single upstream request.
	DefaultTimeout = 10 * time.Second
)

// Client talks to the setlist.fm API.
type Client struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client

	// Language selects localized city and country names, e.g. "en".
	Language string

	// UserAgent is sent on every request.
	UserAgent string
}

// NewClient creates a client for baseURL authenticated with apiKey.
func NewClient(baseURL, apiKey string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		APIKey:  apiKey,
		HTTPClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		Language:  "en",
		UserAgent: "billybingo",
	}
}
