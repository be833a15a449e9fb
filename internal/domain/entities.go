package domain

import (
	"fmt"
	"strings"
	"time"
)

// MediaKind discriminates movies from TV shows. IDs are only unique within a kind.
type MediaKind string

const (
	KindMovie MediaKind = "movie"
	KindTV    MediaKind = "tv"
)

// Kinds lists every supported media kind in display order
var Kinds = []MediaKind{KindMovie, KindTV}

// ParseMediaKind converts a string ("movie", "tv") to a MediaKind
func ParseMediaKind(s string) (MediaKind, error) {
	switch MediaKind(strings.ToLower(strings.TrimSpace(s))) {
	case KindMovie:
		return KindMovie, nil
	case KindTV:
		return KindTV, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
	}
}

// Label returns the human-readable tab label for the kind
func (k MediaKind) Label() string {
	switch k {
	case KindMovie:
		return "Movies"
	case KindTV:
		return "TV Shows"
	default:
		return string(k)
	}
}

// MediaKey is the identity of a media item: (id, kind)
type MediaKey struct {
	ID   int
	Kind MediaKind
}

func (k MediaKey) String() string {
	return fmt.Sprintf("%s:%d", k.Kind, k.ID)
}

// MediaSummary is the list-level view of a movie or TV show.
// Empty PosterPath/BackdropPath means the catalog has no image.
type MediaSummary struct {
	ID           int
	Kind         MediaKind
	Title        string
	Overview     string
	PosterPath   string
	BackdropPath string
	Rating       float64 // 0-10 community rating
}

// Key returns the (id, kind) identity
func (m MediaSummary) Key() MediaKey {
	return MediaKey{ID: m.ID, Kind: m.Kind}
}

// ListItem interface implementation for MediaSummary

func (m MediaSummary) GetKey() MediaKey   { return m.Key() }
func (m MediaSummary) GetTitle() string   { return m.Title }
func (m MediaSummary) GetKind() MediaKind { return m.Kind }

func (m MediaSummary) GetDescription() string {
	if m.Rating <= 0 {
		return ""
	}
	return fmt.Sprintf("★ %.1f", m.Rating)
}

// Genre is a catalog genre tag
type Genre struct {
	ID   int
	Name string
}

// Language is a spoken language of a title
type Language struct {
	Code string // ISO 639-1
	Name string // English display name
}

// Season summarizes one season of a TV show
type Season struct {
	ID           int
	Name         string
	Number       int
	EpisodeCount int
	PosterPath   string
}

// Company is a production company
type Company struct {
	ID       int
	Name     string
	LogoPath string
}

// Collection is the franchise a movie belongs to
type Collection struct {
	ID           int
	Name         string
	PosterPath   string
	BackdropPath string
}

// MediaDetail is the full record for a single movie or TV show.
// Kind-specific fields are left empty for the other kind:
// Runtime and Collection are movie-only, Seasons is TV-only.
type MediaDetail struct {
	MediaSummary

	ReleaseDate string // YYYY-MM-DD (first air date for TV)
	Tagline     string
	Genres      []Genre
	Languages   []Language
	Companies   []Company

	// Movie-specific
	Runtime    int // minutes
	Collection *Collection

	// TV-specific
	Seasons []Season
}

// ReleaseYear returns the year portion of ReleaseDate (0 if unknown)
func (d MediaDetail) ReleaseYear() int {
	t, err := time.Parse("2006-01-02", d.ReleaseDate)
	if err != nil {
		return 0
	}
	return t.Year()
}

// FormattedReleaseDate returns the release date as "2 Jan 2006"
func (d MediaDetail) FormattedReleaseDate() string {
	return FormatShortDate(d.ReleaseDate)
}

// FormattedRuntime returns the runtime as "2h 14m"
func (d MediaDetail) FormattedRuntime() string {
	if d.Runtime <= 0 {
		return ""
	}
	h := d.Runtime / 60
	mins := d.Runtime % 60
	if h > 0 {
		return fmt.Sprintf("%dh %dm", h, mins)
	}
	return fmt.Sprintf("%dm", mins)
}

// GenreNames returns genre names in catalog order
func (d MediaDetail) GenreNames() []string {
	names := make([]string, len(d.Genres))
	for i, g := range d.Genres {
		names[i] = g.Name
	}
	return names
}

// Review is a user review of a title
type Review struct {
	ID         string
	Author     string
	Username   string
	AvatarPath string
	Rating     float64 // 0 when the author left no score
	Content    string
	CreatedAt  time.Time
}

// DisplayAuthor returns the best available author label
func (r Review) DisplayAuthor() string {
	if r.Author != "" {
		return r.Author
	}
	if r.Username != "" {
		return "@" + r.Username
	}
	return "Anonymous"
}

// Departments used to split credits
const (
	DepartmentActing    = "Acting"
	DepartmentDirecting = "Directing"
)

// CastMember is one credited person
type CastMember struct {
	ID          int
	Name        string
	Character   string
	Department  string // "Acting", "Directing", ...
	ProfilePath string
}

// SplitCredits separates actors from directors, preserving credit order
func SplitCredits(cast []CastMember) (actors, directors []CastMember) {
	for _, c := range cast {
		switch c.Department {
		case DepartmentActing:
			actors = append(actors, c)
		case DepartmentDirecting:
			directors = append(directors, c)
		}
	}
	return actors, directors
}

// FormatShortDate formats an ISO date as "2 Jan 2006". Unparseable input yields "".
func FormatShortDate(s string) string {
	if s == "" {
		return ""
	}
	for _, layout := range []string{"2006-01-02", time.RFC3339, time.RFC3339Nano} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2 Jan 2006")
		}
	}
	return ""
}
