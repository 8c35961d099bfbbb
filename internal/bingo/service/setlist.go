package service

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/aussiebroadwan/billybingo/pkg/setlistfm"
	"github.com/aussiebroadwan/billybingo/pkg/slogx"
)

const (
	// BillyStringsMBID is the MusicBrainz id of the tracked artist.
	BillyStringsMBID = "640db492-34c4-47df-be14-96e2cd4b9fe4"

	DefaultPageDelay    = 100 * time.Millisecond
	DefaultItemsPerPage = 20
	DefaultMaxPages     = 5
	MaxSongPages        = 20
)

// SetlistAPI is the subset of *setlistfm.Client the service calls.
type SetlistAPI interface {
	ArtistSetlists(ctx context.Context, mbid string, page int) (setlistfm.SetlistsPage, error)
	Artist(ctx context.Context, mbid string) (setlistfm.Artist, error)
	Setlist(ctx context.Context, id string) (setlistfm.Setlist, error)
	SearchSetlists(ctx context.Context, q setlistfm.SetlistQuery) (setlistfm.SetlistsPage, error)
}

type SetlistService struct {
	Client     SetlistAPI
	ArtistMBID string        // defaults to BillyStringsMBID
	PageDelay  time.Duration // pause after each page before the next; <0 disables
}

type Pagination struct {
	Page         int `json:"page"`
	Total        int `json:"total"`
	ItemsPerPage int `json:"itemsPerPage"`
}

type SetlistsResult struct {
	Data       setlistfm.SetlistsPage
	Pagination Pagination
}

type SongsMetadata struct {
	TotalSetlists       int  `json:"totalSetlists"`
	TotalSongs          int  `json:"totalSongs"`
	PagesFetched        int  `json:"pagesFetched"`
	TotalPagesAvailable int  `json:"totalPagesAvailable"`
	Fallback            bool `json:"fallback,omitempty"`
}

type SongsData struct {
	Songs    []string      `json:"songs"`
	Metadata SongsMetadata `json:"metadata"`
}

// SongsResult reports either a live aggregation or the fallback list. When
// Success is false, Error holds the cause of the first page failure.
type SongsResult struct {
	Success bool
	Error   string
	Data    SongsData
}

func (s *SetlistService) artist() string {
	if s.ArtistMBID == "" {
		return BillyStringsMBID
	}
	return s.ArtistMBID
}

// Setlists returns one page of the artist's setlists.
func (s *SetlistService) Setlists(ctx context.Context, page int) (SetlistsResult, error) {
	p, err := s.Client.ArtistSetlists(ctx, s.artist(), page)
	if err != nil {
		slogx.FromContext(ctx).Error("fetch setlists failed", slog.Int("page", page), slog.Any("error", err))
		return SetlistsResult{}, fmt.Errorf("artist setlists page %d: %w", page, err)
	}

	per := p.ItemsPerPage
	if per == 0 {
		per = DefaultItemsPerPage
	}
	return SetlistsResult{
		Data:       p,
		Pagination: Pagination{Page: page, Total: p.Total, ItemsPerPage: per},
	}, nil
}

// Songs walks up to maxPages pages of the artist's setlists and returns the
// distinct song names, sorted. If the first page fails the fallback list is
// returned instead.
func (s *SetlistService) Songs(ctx context.Context, maxPages int) SongsResult {
	log := slogx.FromContext(ctx)

	first, err := s.Client.ArtistSetlists(ctx, s.artist(), 1)
	if err != nil {
		log.Error("fetch songs failed, using fallback", slog.Any("error", err))
		songs := FallbackSongs()
		return SongsResult{
			Error: err.Error(),
			Data: SongsData{
				Songs: songs,
				Metadata: SongsMetadata{
					TotalSongs: len(songs),
					Fallback:   true,
				},
			},
		}
	}

	setlists := slices.Clone(first.Setlist)
	totalPages := first.TotalPages()
	pages := min(maxPages, totalPages)

	for page := 2; page <= pages; page++ {
		if err := s.pause(ctx); err != nil {
			log.Warn("song aggregation cancelled", slog.Int("page", page), slog.Any("error", err))
			break
		}
		next, err := s.Client.ArtistSetlists(ctx, s.artist(), page)
		if err != nil {
			log.Warn("fetch setlist page failed", slog.Int("page", page), slog.Any("error", err))
			if ctx.Err() != nil {
				break
			}
			continue
		}
		setlists = append(setlists, next.Setlist...)
	}

	songs := ExtractSongs(setlists)
	return SongsResult{
		Success: true,
		Data: SongsData{
			Songs: songs,
			Metadata: SongsMetadata{
				TotalSetlists:       len(setlists),
				TotalSongs:          len(songs),
				PagesFetched:        max(pages, 1),
				TotalPagesAvailable: totalPages,
			},
		},
	}
}

// pause blocks for the page delay, measured from the end of the previous
// fetch, or until ctx is done.
func (s *SetlistService) pause(ctx context.Context) error {
	delay := s.PageDelay
	if delay < 0 {
		return ctx.Err()
	}
	if delay == 0 {
		delay = DefaultPageDelay
	}
	t := time.NewTimer(delay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// ExtractSongs collects the distinct trimmed song names across setlists in
// ascending order. The result is never nil.
func ExtractSongs(setlists []setlistfm.Setlist) []string {
	seen := make(map[string]struct{})
	for _, sl := range setlists {
		for _, set := range sl.Sets.Set {
			for _, song := range set.Song {
				if name := strings.TrimSpace(song.Name); name != "" {
					seen[name] = struct{}{}
				}
			}
		}
	}

	songs := make([]string, 0, len(seen))
	for name := range seen {
		songs = append(songs, name)
	}
	slices.Sort(songs)
	return songs
}

// Setlist fetches a single setlist by id.
func (s *SetlistService) Setlist(ctx context.Context, id string) (setlistfm.Setlist, error) {
	sl, err := s.Client.Setlist(ctx, id)
	if err != nil {
		slogx.FromContext(ctx).Error("fetch setlist failed", slog.String("setlist_id", id), slog.Any("error", err))
		return setlistfm.Setlist{}, fmt.Errorf("setlist %s: %w", id, err)
	}
	return sl, nil
}

// Search runs a setlist search. The caller ensures at least one filter is set.
func (s *SetlistService) Search(ctx context.Context, q setlistfm.SetlistQuery) (setlistfm.SetlistsPage, error) {
	p, err := s.Client.SearchSetlists(ctx, q)
	if err != nil {
		slogx.FromContext(ctx).Error("search setlists failed", slog.Any("error", err))
		return setlistfm.SetlistsPage{}, fmt.Errorf("search setlists: %w", err)
	}
	return p, nil
}

// ArtistInfo fetches the tracked artist.
func (s *SetlistService) ArtistInfo(ctx context.Context) (setlistfm.Artist, error) {
	a, err := s.Client.Artist(ctx, s.artist())
	if err != nil {
		slogx.FromContext(ctx).Error("fetch artist failed", slog.Any("error", err))
		return setlistfm.Artist{}, fmt.Errorf("artist %s: %w", s.artist(), err)
	}
	return a, nil
}

// Health reports whether the first setlist page can be fetched.
func (s *SetlistService) Health(ctx context.Context) bool {
	_, err := s.Setlists(ctx, 1)
	return err == nil
}
