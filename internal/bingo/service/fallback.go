package service

import "slices"

// fallbackSongs is served when setlist.fm cannot be reached. Kept sorted.
var fallbackSongs = sortedSongs(
	"Dust in a Baggie",
	"Away From the Mire",
	"Hide and Seek",
	"Turmoil & Tinfoil",
	"In the Morning Light",
	"Red Daisy",
	"Pyramid Country",
	"Secrets",
	"Love and Regret",
	"Heartbeat of America",
	"Know It All",
	"Wargasm",
	"Wharf Rat",
	"Thunder",
	"Likes of Me",
	"Hollow Heart",
	"Doin' Things Right",
	"Thirst Mutilator",
	"Dealing Despair",
	"Highway Hypnosis",
	"Must Be Seven",
	"Taking Water",
	"Fire Line",
	"Hellbender",
	"Enough to Leave",
	"Running the Route",
	"This Old World",
	"Bronzeback",
	"All of Tomorrow",
	"Unwanted Love",
	"Slow Train",
	"Tipper",
	"Fireline",
	"Meet Me at the Creek",
	"Rank Stranger",
	"Lonesome LA Cowboy",
	"Black Clouds",
	"While I'm Waiting Here",
	"Spinning",
	"Running",
	"Dos Banjos",
	"Streamline Cannonball",
	"Ernest T. Grass",
)

func sortedSongs(songs ...string) []string {
	slices.Sort(songs)
	return songs
}

// FallbackSongs returns a copy of the built-in song list.
func FallbackSongs() []string {
	return slices.Clone(fallbackSongs)
}
