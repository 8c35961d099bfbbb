package setlistfm

import (
	"context"
	"net/url"
	"strconv"
)

// SetlistQuery holds the search filters accepted by /search/setlists.
// Empty fields are left out of the request.
type SetlistQuery struct {
	ArtistName  string
	ArtistMBID  string
	VenueName   string
	VenueID     string
	CityName    string
	CountryCode string
	Date        string // dd-MM-yyyy
	Year        string
	TourName    string
	Page        int
}

func (q SetlistQuery) values() url.Values {
	v := url.Values{}
	set := func(k, val string) {
		if val != "" {
			v.Set(k, val)
		}
	}
	set("artistName", q.ArtistName)
	set("artistMbid", q.ArtistMBID)
	set("venueName", q.VenueName)
	set("venueId", q.VenueID)
	set("cityName", q.CityName)
	set("countryCode", q.CountryCode)
	set("date", q.Date)
	set("year", q.Year)
	set("tourName", q.TourName)
	if q.Page > 0 {
		v.Set("p", strconv.Itoa(q.Page))
	}
	return v
}

// ArtistSetlists returns one page of an artist's setlists, newest first.
func (c *Client) ArtistSetlists(ctx context.Context, mbid string, page int) (SetlistsPage, error) {
	var out SetlistsPage
	err := c.get(ctx, "/artist/"+url.PathEscape(mbid)+"/setlists", pageQuery(page), &out)
	return out, err
}

// Setlist returns the current version of a single setlist.
func (c *Client) Setlist(ctx context.Context, id string) (Setlist, error) {
	var out Setlist
	err := c.get(ctx, "/setlist/"+url.PathEscape(id), nil, &out)
	return out, err
}

// SearchSetlists searches all setlists.
func (c *Client) SearchSetlists(ctx context.Context, q SetlistQuery) (SetlistsPage, error) {
	var out SetlistsPage
	err := c.get(ctx, "/search/setlists", q.values(), &out)
	return out, err
}

func pageQuery(page int) url.Values {
	if page < 1 {
		page = 1
	}
	return url.Values{"p": {strconv.Itoa(page)}}
}
