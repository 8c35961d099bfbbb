package setlistfm

// Page fields shared by every paginated result.
type Page struct {
	Type         string `json:"type,omitempty"`
	ItemsPerPage int    `json:"itemsPerPage"`
	Page         int    `json:"page"`
	Total        int    `json:"total"`
}

// TotalPages returns the number of pages, or 1 when the counts are missing.
func (p Page) TotalPages() int {
	if p.Total <= 0 || p.ItemsPerPage <= 0 {
		return 1
	}
	return (p.Total + p.ItemsPerPage - 1) / p.ItemsPerPage
}

type SetlistsPage struct {
	Page
	Setlist []Setlist `json:"setlist"`
}

type ArtistsPage struct {
	Page
	Artist []Artist `json:"artist"`
}

type VenuesPage struct {
	Page
	Venue []Venue `json:"venue"`
}

type Setlist struct {
	ID          string  `json:"id"`
	VersionID   string  `json:"versionId,omitempty"`
	EventDate   string  `json:"eventDate"`
	LastUpdated string  `json:"lastUpdated,omitempty"`
	Artist      *Artist `json:"artist,omitempty"`
	Venue       *Venue  `json:"venue,omitempty"`
	Tour        *Tour   `json:"tour,omitempty"`
	Sets        Sets    `json:"sets"`
	Info        string  `json:"info,omitempty"`
	URL         string  `json:"url,omitempty"`
}

type Sets struct {
	Set []Set `json:"set"`
}

type Set struct {
	Name   string `json:"name,omitempty"`
	Encore int    `json:"encore,omitempty"`
	Song   []Song `json:"song"`
}

type Song struct {
	Name  string  `json:"name"`
	With  *Artist `json:"with,omitempty"`
	Cover *Artist `json:"cover,omitempty"`
	Info  string  `json:"info,omitempty"`
	Tape  bool    `json:"tape,omitempty"`
}

type Artist struct {
	MBID           string `json:"mbid"`
	Name           string `json:"name"`
	SortName       string `json:"sortName,omitempty"`
	Disambiguation string `json:"disambiguation,omitempty"`
	URL            string `json:"url,omitempty"`
}

type Tour struct {
	Name string `json:"name"`
}

type Venue struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	City *City  `json:"city,omitempty"`
	URL  string `json:"url,omitempty"`
}

type City struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	State     string   `json:"state,omitempty"`
	StateCode string   `json:"stateCode,omitempty"`
	Coords    *Coords  `json:"coords,omitempty"`
	Country   *Country `json:"country,omitempty"`
}

type Coords struct {
	Lat  float64 `json:"lat"`
	Long float64 `json:"long"`
}

type Country struct {
	Code string `json:"code"`
	Name string `json:"name"`
}
