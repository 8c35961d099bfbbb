// Package setlistfm is a small typed client for the setlist.fm REST API
// (https://api.setlist.fm/docs/1.0/index.html).
//
// Every call is a single GET carrying the configured API key. Non-2xx
// responses are returned as *APIError; nothing is retried or cached.
//
//	c := setlistfm.NewClient(setlistfm.DefaultBaseURL, apiKey)
//	page, err := c.ArtistSetlists(ctx, mbid, 1)
package setlistfm
