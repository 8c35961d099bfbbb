package setlistfm_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aussiebroadwan/billybingo/pkg/setlistfm"
	"github.com/stretchr/testify/require"
)

const samplePage = `{
  "type": "setlists", "itemsPerPage": 20, "page": 2, "total": 45,
  "setlist": [{
    "id": "63d9f2e3", "eventDate": "31-12-2023",
    "artist": {"mbid": "640db492-34c4-47df-be14-96e2cd4b9fe4", "name": "Billy Strings"},
    "venue": {"id": "v1", "name": "Coliseum", "city": {"id": "c1", "name": "Raleigh", "country": {"code": "US", "name": "United States"}}},
    "sets": {"set": [{"song": [{"name": "Dust in a Baggie"}, {"name": "Meet Me at the Creek", "tape": false}]}]}
  }]
}`

func newServer(t *testing.T, h http.HandlerFunc) *setlistfm.Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c := setlistfm.NewClient(srv.URL+"/", "secret-key")
	c.UserAgent = "billybingo/test"
	return c
}

func TestArtistSetlists(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/artist/640db492-34c4-47df-be14-96e2cd4b9fe4/setlists", r.URL.Path)
		require.Equal(t, "2", r.URL.Query().Get("p"))
		require.Equal(t, "secret-key", r.Header.Get("x-api-key"))
		require.Equal(t, "application/json", r.Header.Get("Accept"))
		require.Equal(t, "en", r.Header.Get("Accept-Language"))
		require.Equal(t, "billybingo/test", r.Header.Get("User-Agent"))
		_, _ = w.Write([]byte(samplePage))
	})

	page, err := c.ArtistSetlists(context.Background(), "640db492-34c4-47df-be14-96e2cd4b9fe4", 2)
	require.NoError(t, err)
	require.Equal(t, 45, page.Total)
	require.Equal(t, 3, page.TotalPages())
	require.Len(t, page.Setlist, 1)
	require.Equal(t, "Raleigh", page.Setlist[0].Venue.City.Name)
	require.Len(t, page.Setlist[0].Sets.Set[0].Song, 2)
}

func TestNonSuccessIsAPIError(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"code":404,"message":"not found"}`))
	})

	_, err := c.Setlist(context.Background(), "nope")
	require.Error(t, err)
	require.True(t, setlistfm.IsNotFound(err))

	var apiErr *setlistfm.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	require.Equal(t, `API request failed with status 404: {"code":404,"message":"not found"}`, apiErr.Error())
}

func TestSearchSetlistsOmitsEmptyFilters(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/search/setlists", r.URL.Path)
		q := r.URL.Query()
		require.Equal(t, "Billy Strings", q.Get("artistName"))
		require.Equal(t, "2023", q.Get("year"))
		require.Equal(t, "3", q.Get("p"))
		require.False(t, q.Has("venueName"))
		require.False(t, q.Has("cityName"))
		_, _ = w.Write([]byte(`{"setlist":[]}`))
	})

	_, err := c.SearchSetlists(context.Background(), setlistfm.SetlistQuery{
		ArtistName: "Billy Strings",
		Year:       "2023",
		Page:       3,
	})
	require.NoError(t, err)
}

func TestLookups(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/artist/abc":
			_, _ = w.Write([]byte(`{"mbid":"abc","name":"Billy Strings","sortName":"Strings, Billy"}`))
		case "/search/artists":
			require.Equal(t, "relevance", r.URL.Query().Get("sort"))
			_, _ = w.Write([]byte(`{"artist":[{"mbid":"abc","name":"Billy Strings"}],"total":1,"itemsPerPage":30,"page":1}`))
		case "/venue/v1":
			_, _ = w.Write([]byte(`{"id":"v1","name":"Red Rocks"}`))
		case "/venue/v1/setlists":
			_, _ = w.Write([]byte(samplePage))
		case "/search/venues":
			require.Equal(t, "Morrison", r.URL.Query().Get("cityName"))
			_, _ = w.Write([]byte(`{"venue":[{"id":"v1","name":"Red Rocks"}]}`))
		default:
			http.NotFound(w, r)
		}
	})
	ctx := context.Background()

	artist, err := c.Artist(ctx, "abc")
	require.NoError(t, err)
	require.Equal(t, "Strings, Billy", artist.SortName)

	artists, err := c.SearchArtists(ctx, "Billy Strings", 1)
	require.NoError(t, err)
	require.Len(t, artists.Artist, 1)

	venue, err := c.Venue(ctx, "v1")
	require.NoError(t, err)
	require.Equal(t, "Red Rocks", venue.Name)

	vs, err := c.VenueSetlists(ctx, "v1", 0)
	require.NoError(t, err)
	require.Len(t, vs.Setlist, 1)

	venues, err := c.SearchVenues(ctx, "Red Rocks", "Morrison", 1)
	require.NoError(t, err)
	require.Len(t, venues.Venue, 1)
}

func TestTotalPages(t *testing.T) {
	require.Equal(t, 1, setlistfm.Page{}.TotalPages())
	require.Equal(t, 1, setlistfm.Page{Total: 20, ItemsPerPage: 20}.TotalPages())
	require.Equal(t, 2, setlistfm.Page{Total: 21, ItemsPerPage: 20}.TotalPages())
	require.Equal(t, 1, setlistfm.Page{Total: 10}.TotalPages())
}
