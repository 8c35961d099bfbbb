package setlistfm

import (
	"context"
	"net/url"
)

// Artist returns an artist by MusicBrainz id.
func (c *Client) Artist(ctx context.Context, mbid string) (Artist, error) {
	var out Artist
	err := c.get(ctx, "/artist/"+url.PathEscape(mbid), nil, &out)
	return out, err
}

// SearchArtists searches artists by name, sorted by relevance.
func (c *Client) SearchArtists(ctx context.Context, name string, page int) (ArtistsPage, error) {
	q := pageQuery(page)
	q.Set("artistName", name)
	q.Set("sort", "relevance")

	var out ArtistsPage
	err := c.get(ctx, "/search/artists", q, &out)
	return out, err
}

// Venue returns a venue by id.
func (c *Client) Venue(ctx context.Context, id string) (Venue, error) {
	var out Venue
	err := c.get(ctx, "/venue/"+url.PathEscape(id), nil, &out)
	return out, err
}

// VenueSetlists returns one page of setlists played at a venue.
func (c *Client) VenueSetlists(ctx context.Context, id string, page int) (SetlistsPage, error) {
	var out SetlistsPage
	err := c.get(ctx, "/venue/"+url.PathEscape(id)+"/setlists", pageQuery(page), &out)
	return out, err
}

// SearchVenues searches venues by name and optional city.
func (c *Client) SearchVenues(ctx context.Context, name, cityName string, page int) (VenuesPage, error) {
	q := pageQuery(page)
	if name != "" {
		q.Set("name", name)
	}
	if cityName != "" {
		q.Set("cityName", cityName)
	}

	var out VenuesPage
	err := c.get(ctx, "/search/venues", q, &out)
	return out, err
}
