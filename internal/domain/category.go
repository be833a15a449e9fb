package domain

import "fmt"

// Category is an upstream listing bucket for a media kind
type Category string

const (
	CategoryNowPlaying  Category = "now_playing"
	CategoryPopular     Category = "popular"
	CategoryUpcoming    Category = "upcoming"
	CategoryTopRated    Category = "top_rated"
	CategoryOnTheAir    Category = "on_the_air"
	CategoryAiringToday Category = "airing_today"
)

var categoriesByKind = map[MediaKind][]Category{
	KindMovie: {CategoryPopular, CategoryNowPlaying, CategoryUpcoming, CategoryTopRated},
	KindTV:    {CategoryPopular, CategoryTopRated, CategoryOnTheAir, CategoryAiringToday},
}

// CategoriesFor returns the categories available for a kind, in display order
func CategoriesFor(kind MediaKind) []Category {
	cats := categoriesByKind[kind]
	out := make([]Category, len(cats))
	copy(out, cats)
	return out
}

// ValidCategory reports whether category exists for kind
func ValidCategory(kind MediaKind, category Category) bool {
	for _, c := range categoriesByKind[kind] {
		if c == category {
			return true
		}
	}
	return false
}

// CheckCategory returns ErrUnknownCategory when category does not exist for kind
func CheckCategory(kind MediaKind, category Category) error {
	if !ValidCategory(kind, category) {
		return fmt.Errorf("%w: %s/%s", ErrUnknownCategory, kind, category)
	}
	return nil
}

// Label returns the display label for a category
func (c Category) Label() string {
	switch c {
	case CategoryNowPlaying:
		return "Now Playing"
	case CategoryPopular:
		return "Popular"
	case CategoryUpcoming:
		return "Upcoming"
	case CategoryTopRated:
		return "Top Rated"
	case CategoryOnTheAir:
		return "On The Air"
	case CategoryAiringToday:
		return "Airing Today"
	default:
		return string(c)
	}
}

// NextCategory cycles to the category after current for kind.
// Unknown categories restart at the first one.
func NextCategory(kind MediaKind, current Category) Category {
	cats := categoriesByKind[kind]
	if len(cats) == 0 {
		return current
	}
	for i, c := range cats {
		if c == current {
			return cats[(i+1)%len(cats)]
		}
	}
	return cats[0]
}
